package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid input creates an active account", func(t *testing.T) {
		u, err := NewUser("home_cook42", "Cook@Example.COM", "longenoughpassword")
		require.NoError(t, err)

		assert.Equal(t, "home_cook42", u.Username())
		assert.Equal(t, "cook@example.com", u.Email(), "email is normalized to lower case")
		assert.True(t, u.IsActive())
		assert.NotEmpty(t, u.PasswordHash())
		assert.NotEqual(t, "longenoughpassword", u.PasswordHash())
	})

	t.Run("rejects bad usernames", func(t *testing.T) {
		for _, username := range []string{"ab", "has space", "bad!chars", strings.Repeat("a", 31)} {
			_, err := NewUser(username, "cook@example.com", "longenoughpassword")
			assert.Error(t, err, "username %q should be rejected", username)
		}
	})

	t.Run("rejects bad emails", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", strings.Repeat("a", 250) + "@example.com"} {
			_, err := NewUser("home_cook", email, "longenoughpassword")
			assert.Error(t, err, "email %q should be rejected", email)
		}
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := NewUser("home_cook", "cook@example.com", "short")
		assert.Error(t, err)
	})
}

func TestCheckPassword(t *testing.T) {
	u, err := NewUser("home_cook", "cook@example.com", "longenoughpassword")
	require.NoError(t, err)

	assert.NoError(t, u.CheckPassword("longenoughpassword"))
	assert.Error(t, u.CheckPassword("wrongpassword"))
}

func TestUpdatePassword(t *testing.T) {
	u, err := NewUser("home_cook", "cook@example.com", "longenoughpassword")
	require.NoError(t, err)

	require.NoError(t, u.UpdatePassword("anotherlongpassword"))
	assert.NoError(t, u.CheckPassword("anotherlongpassword"))
	assert.Error(t, u.CheckPassword("longenoughpassword"))

	assert.Error(t, u.UpdatePassword("short"))
}

func TestUpdateProfile(t *testing.T) {
	u, err := NewUser("home_cook", "cook@example.com", "longenoughpassword")
	require.NoError(t, err)

	require.NoError(t, u.UpdateProfile("Jamie", "I cook things."))
	assert.Equal(t, "Jamie", u.Name())
	assert.Equal(t, "I cook things.", u.Bio())

	assert.Error(t, u.UpdateProfile(strings.Repeat("x", 101), ""))
	assert.Error(t, u.UpdateProfile("", strings.Repeat("x", 1001)))
}

func TestDeactivate(t *testing.T) {
	u, err := NewUser("home_cook", "cook@example.com", "longenoughpassword")
	require.NoError(t, err)

	u.Deactivate()
	assert.False(t, u.IsActive())
}

func TestRecordLogin(t *testing.T) {
	u, err := NewUser("home_cook", "cook@example.com", "longenoughpassword")
	require.NoError(t, err)

	assert.Nil(t, u.LastLoginAt())
	u.RecordLogin()
	assert.NotNil(t, u.LastLoginAt())
}
