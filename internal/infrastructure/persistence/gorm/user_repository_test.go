package gorm_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/v1/internal/domain/user"
	gormpersistence "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"github.com/forkful/v1/test/testutils"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDatabase(t)
	repo := gormpersistence.NewUserRepository(db)
	factory := testutils.NewUserFactory()

	account := factory.Create(t)
	require.NoError(t, repo.Create(ctx, account))

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, account.ID())
		require.NoError(t, err)
		assert.Equal(t, account.Username(), found.Username())
		assert.Equal(t, account.Email(), found.Email())
		assert.True(t, found.IsActive())
	})

	t.Run("find by email and username", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, account.Email())
		require.NoError(t, err)
		assert.Equal(t, account.ID(), found.ID())

		found, err = repo.FindByUsername(ctx, account.Username())
		require.NoError(t, err)
		assert.Equal(t, account.ID(), found.ID())
	})

	t.Run("missing rows map to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, user.ErrNotFound)

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, user.ErrNotFound)

		_, err = repo.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("update persists profile and password changes", func(t *testing.T) {
		require.NoError(t, account.UpdateProfile("Jamie", "I cook things."))
		require.NoError(t, account.UpdatePassword("brand-new-password"))
		require.NoError(t, repo.Update(ctx, account))

		found, err := repo.FindByID(ctx, account.ID())
		require.NoError(t, err)
		assert.Equal(t, "Jamie", found.Name())
		assert.Equal(t, "I cook things.", found.Bio())
		assert.NoError(t, found.CheckPassword("brand-new-password"))
	})

	t.Run("update last login", func(t *testing.T) {
		require.NoError(t, repo.UpdateLastLogin(ctx, account.ID()))

		found, err := repo.FindByID(ctx, account.ID())
		require.NoError(t, err)
		assert.NotNil(t, found.LastLoginAt())
	})

	t.Run("duplicate username is rejected by the unique index", func(t *testing.T) {
		dupe, err := user.NewUser(account.Username(), "other@example.com", "longenoughpassword")
		require.NoError(t, err)
		assert.Error(t, repo.Create(ctx, dupe))
	})
}
