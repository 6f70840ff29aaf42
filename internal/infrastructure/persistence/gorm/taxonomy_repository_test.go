package gorm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/v1/internal/domain/recipe"
	gormpersistence "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"github.com/forkful/v1/test/testutils"
)

func TestTaxonomyRepository(t *testing.T) {
	ctx := context.Background()
	db := testutils.NewTestDatabase(t)
	repo := gormpersistence.NewTaxonomyRepository(db)

	t.Run("seeded reference data", func(t *testing.T) {
		categories, err := repo.Categories(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 8)

		difficulties, err := repo.Difficulties(ctx)
		require.NoError(t, err)
		require.Len(t, difficulties, 3)
		assert.Equal(t, "Easy", difficulties[0].Name)
		assert.Equal(t, "Hard", difficulties[2].Name)

		units, err := repo.Units(ctx)
		require.NoError(t, err)
		assert.Len(t, units, 9)

		tags, err := repo.Tags(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 8)

		prefs, err := repo.DietaryPreferences(ctx)
		require.NoError(t, err)
		assert.Len(t, prefs, 6)
	})

	t.Run("category counts track published recipes only", func(t *testing.T) {
		users := gormpersistence.NewUserRepository(db)
		recipes := gormpersistence.NewRecipeRepository(db)
		author := testutils.NewUserFactory().Create(t)
		require.NoError(t, users.Create(ctx, author))

		categories, err := repo.Categories(ctx)
		require.NoError(t, err)
		categoryID := categories[0].ID

		published := testutils.NewRecipeBuilder().
			WithAuthor(author.ID()).
			WithCategory(categoryID).
			Build(t)
		require.NoError(t, recipes.Create(ctx, published))

		draft := testutils.NewRecipeBuilder().
			WithAuthor(author.ID()).
			WithCategory(categoryID).
			WithStatus(recipe.StatusDraft).
			Build(t)
		require.NoError(t, recipes.Create(ctx, draft))

		counts, err := repo.CategoriesWithCounts(ctx)
		require.NoError(t, err)
		require.Len(t, counts, 8)

		byID := make(map[string]int, len(counts))
		for _, c := range counts {
			byID[c.ID.String()] = c.RecipeCount
		}
		assert.Equal(t, 1, byID[categoryID.String()])
	})
}
