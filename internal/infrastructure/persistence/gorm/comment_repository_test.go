package gorm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/v1/internal/domain/recipe"
	gormpersistence "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"github.com/forkful/v1/test/testutils"
)

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDatabase(t)
	comments := gormpersistence.NewCommentRepository(db)
	recipes := gormpersistence.NewRecipeRepository(db)
	users := gormpersistence.NewUserRepository(db)
	factory := testutils.NewUserFactory()

	author := factory.Create(t)
	require.NoError(t, users.Create(ctx, author))
	commenter := factory.Create(t)
	require.NoError(t, users.Create(ctx, commenter))

	dish := testutils.NewRecipeBuilder().WithAuthor(author.ID()).Build(t)
	require.NoError(t, recipes.Create(ctx, dish))

	first, err := recipe.NewComment(dish.ID(), commenter.ID(), "Made this last night, delicious.")
	require.NoError(t, err)
	require.NoError(t, comments.Create(ctx, first))

	second, err := recipe.NewComment(dish.ID(), author.ID(), "Glad you liked it!")
	require.NoError(t, err)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, comments.Create(ctx, second))

	t.Run("newest first with author names resolved", func(t *testing.T) {
		found, err := comments.FindByRecipe(ctx, dish.ID())
		require.NoError(t, err)
		require.Len(t, found, 2)

		assert.Equal(t, second.ID, found[0].ID)
		assert.Equal(t, author.Username(), found[0].AuthorName)
		assert.Equal(t, first.ID, found[1].ID)
		assert.Equal(t, commenter.Username(), found[1].AuthorName)
	})

	t.Run("other recipes see no comments", func(t *testing.T) {
		other := testutils.NewRecipeBuilder().WithAuthor(author.ID()).Build(t)
		require.NoError(t, recipes.Create(ctx, other))

		found, err := comments.FindByRecipe(ctx, other.ID())
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
