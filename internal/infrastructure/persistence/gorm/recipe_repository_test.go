package gorm_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/user"
	gormpersistence "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/forkful/v1/test/testutils"
)

type RecipeRepositorySuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	repo     outbound.RecipeRepository
	users    outbound.UserRepository
	taxonomy outbound.TaxonomyRepository
	author   *user.User
	factory  *testutils.UserFactory
}

func (s *RecipeRepositorySuite) SetupTest() {
	db := testutils.NewTestDatabase(s.T())
	s.ctx = context.Background()
	s.db = db
	s.repo = gormpersistence.NewRecipeRepository(db)
	s.users = gormpersistence.NewUserRepository(db)
	s.taxonomy = gormpersistence.NewTaxonomyRepository(db)
	s.factory = testutils.NewUserFactory()

	s.author = s.factory.Create(s.T())
	require.NoError(s.T(), s.users.Create(s.ctx, s.author))
}

func (s *RecipeRepositorySuite) newUser() *user.User {
	account := s.factory.Create(s.T())
	require.NoError(s.T(), s.users.Create(s.ctx, account))
	return account
}

func (s *RecipeRepositorySuite) createRecipe(build func(*testutils.RecipeBuilder)) *recipe.Recipe {
	builder := testutils.NewRecipeBuilder().WithAuthor(s.author.ID())
	if build != nil {
		build(builder)
	}
	entity := builder.Build(s.T())
	require.NoError(s.T(), s.repo.Create(s.ctx, entity))
	return entity
}

func (s *RecipeRepositorySuite) TestCreateAndFindRoundtrip() {
	qty := 2.5
	entity := s.createRecipe(func(b *testutils.RecipeBuilder) {
		b.WithTitle("Shakshuka").
			WithTimings(10, 20).
			WithServings(2).
			WithIngredients(
				recipe.IngredientLine{Name: "Eggs", Quantity: &qty},
				recipe.IngredientLine{Name: "Tomatoes"},
			).
			WithSteps("Simmer the sauce.", "Crack in the eggs.")
	})

	found, err := s.repo.FindByID(s.ctx, entity.ID())
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "Shakshuka", found.Title())
	require.NotNil(s.T(), found.TotalTime())
	assert.Equal(s.T(), 30, *found.TotalTime())

	lines := found.Ingredients()
	require.Len(s.T(), lines, 2)
	assert.Equal(s.T(), "eggs", lines[0].Name, "catalog names are lowercased")
	assert.Equal(s.T(), 1, lines[0].Position)
	assert.Equal(s.T(), 2, lines[1].Position)

	steps := found.Steps()
	require.Len(s.T(), steps, 2)
	assert.Equal(s.T(), "Simmer the sauce.", steps[0].Body)
	assert.Equal(s.T(), 2, steps[1].Number)
}

func (s *RecipeRepositorySuite) TestCreateRollsBackOnChildFailure() {
	tags, err := s.taxonomy.Tags(s.ctx)
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), tags)

	// The duplicated tag id collides on the recipe_tags primary key,
	// so the insert fails after the parent and instruction rows.
	entity := testutils.NewRecipeBuilder().
		WithAuthor(s.author.ID()).
		WithSteps("Chop.", "Cook.").
		WithTags(tags[0].ID, tags[0].ID).
		Build(s.T())

	require.Error(s.T(), s.repo.Create(s.ctx, entity))

	for _, table := range []string{"recipes", "recipe_tags", "recipe_instructions"} {
		var count int64
		require.NoError(s.T(), s.db.Table(table).Count(&count).Error)
		assert.Zero(s.T(), count, "table %s should be empty after rollback", table)
	}
}

func (s *RecipeRepositorySuite) TestFindMissingRecipe() {
	_, err := s.repo.FindByID(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, recipe.ErrNotFound)
}

func (s *RecipeRepositorySuite) TestUpdateReplacesChildren() {
	entity := s.createRecipe(func(b *testutils.RecipeBuilder) {
		b.WithIngredients(recipe.IngredientLine{Name: "Old Ingredient"})
	})

	require.NoError(s.T(), entity.ReplaceIngredients([]recipe.IngredientLine{
		{Name: "New Ingredient"},
	}))
	require.NoError(s.T(), entity.UpdateBasics("Updated Title", entity.Description(), entity.Instructions()))
	require.NoError(s.T(), s.repo.Update(s.ctx, entity))

	found, err := s.repo.FindByID(s.ctx, entity.ID())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Updated Title", found.Title())
	require.Len(s.T(), found.Ingredients(), 1)
	assert.Equal(s.T(), "new ingredient", found.Ingredients()[0].Name)
}

func (s *RecipeRepositorySuite) TestUpdateMissingRecipe() {
	entity := testutils.NewRecipeBuilder().WithAuthor(s.author.ID()).Build(s.T())
	err := s.repo.Update(s.ctx, entity)
	assert.ErrorIs(s.T(), err, recipe.ErrNotFound)
}

func (s *RecipeRepositorySuite) TestDelete() {
	entity := s.createRecipe(nil)

	require.NoError(s.T(), s.repo.Delete(s.ctx, entity.ID()))

	_, err := s.repo.FindByID(s.ctx, entity.ID())
	assert.ErrorIs(s.T(), err, recipe.ErrNotFound)

	assert.ErrorIs(s.T(), s.repo.Delete(s.ctx, entity.ID()), recipe.ErrNotFound)
}

func (s *RecipeRepositorySuite) TestSearchFilters() {
	categories, err := s.taxonomy.Categories(s.ctx)
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), categories)
	tags, err := s.taxonomy.Tags(s.ctx)
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), tags)

	categoryID := categories[0].ID
	tagID := tags[0].ID

	s.createRecipe(func(b *testutils.RecipeBuilder) {
		b.WithTitle("Quick Tomato Soup").
			WithCategory(categoryID).
			WithTags(tagID).
			WithTimings(10, 15)
	})
	s.createRecipe(func(b *testutils.RecipeBuilder) {
		b.WithTitle("Slow Braised Beef").WithTimings(30, 180)
	})
	s.createRecipe(func(b *testutils.RecipeBuilder) {
		b.WithTitle("Draft Experiment").WithStatus(recipe.StatusDraft)
	})

	s.Run("StatusFilter", func() {
		results, total, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Status: recipe.StatusPublished, Page: 1})
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 2, total)
		assert.Len(s.T(), results, 2)
	})

	s.Run("CategoryFilter", func() {
		results, total, err := s.repo.Search(s.ctx, outbound.SearchCriteria{CategoryID: &categoryID, Page: 1})
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 1, total)
		require.Len(s.T(), results, 1)
		assert.Equal(s.T(), "Quick Tomato Soup", results[0].Title)
		assert.Equal(s.T(), categories[0].Name, results[0].CategoryName)
	})

	s.Run("TagFilterUsesExists", func() {
		results, total, err := s.repo.Search(s.ctx, outbound.SearchCriteria{TagID: &tagID, Page: 1})
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 1, total)
		require.Len(s.T(), results, 1)
	})

	s.Run("MaxTimeFilter", func() {
		maxTime := 60
		results, total, err := s.repo.Search(s.ctx, outbound.SearchCriteria{MaxTotalTime: &maxTime, Page: 1})
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 1, total)
		require.Len(s.T(), results, 1)
		assert.Equal(s.T(), "Quick Tomato Soup", results[0].Title)
	})

	s.Run("TextSearchIsCaseInsensitive", func() {
		q := "TOMATO"
		results, total, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Query: &q, Page: 1})
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 1, total)
		require.Len(s.T(), results, 1)
	})

	s.Run("NoMatches", func() {
		q := "xyzzy-no-such-dish"
		results, total, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Query: &q, Page: 1})
		require.NoError(s.T(), err)
		assert.Zero(s.T(), total)
		assert.Empty(s.T(), results)
	})

	s.Run("AuthorFilterIncludesDrafts", func() {
		authorID := s.author.ID()
		_, total, err := s.repo.Search(s.ctx, outbound.SearchCriteria{AuthorID: &authorID, Page: 1})
		require.NoError(s.T(), err)
		assert.Equal(s.T(), 3, total)
	})
}

func (s *RecipeRepositorySuite) TestSearchSorting() {
	first := s.createRecipe(func(b *testutils.RecipeBuilder) { b.WithTitle("Apple Pie") })
	time.Sleep(5 * time.Millisecond)
	second := s.createRecipe(func(b *testutils.RecipeBuilder) { b.WithTitle("Zucchini Bake") })

	rater := s.newUser()
	_, err := s.repo.UpsertRating(s.ctx, recipe.Rating{UserID: rater.ID(), RecipeID: first.ID(), Value: 5})
	require.NoError(s.T(), err)

	s.Run("NewestFirst", func() {
		results, _, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Sort: outbound.SortNewest, Page: 1})
		require.NoError(s.T(), err)
		require.Len(s.T(), results, 2)
		assert.Equal(s.T(), second.ID(), results[0].ID)
	})

	s.Run("OldestFirst", func() {
		results, _, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Sort: outbound.SortOldest, Page: 1})
		require.NoError(s.T(), err)
		require.Len(s.T(), results, 2)
		assert.Equal(s.T(), first.ID(), results[0].ID)
	})

	s.Run("NameAscending", func() {
		results, _, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Sort: outbound.SortNameAsc, Page: 1})
		require.NoError(s.T(), err)
		require.Len(s.T(), results, 2)
		assert.Equal(s.T(), "Apple Pie", results[0].Title)
	})

	s.Run("NameDescending", func() {
		results, _, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Sort: outbound.SortNameDesc, Page: 1})
		require.NoError(s.T(), err)
		require.Len(s.T(), results, 2)
		assert.Equal(s.T(), "Zucchini Bake", results[0].Title)
	})

	s.Run("TopRatedFirst", func() {
		results, _, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Sort: outbound.SortRating, Page: 1})
		require.NoError(s.T(), err)
		require.Len(s.T(), results, 2)
		assert.Equal(s.T(), first.ID(), results[0].ID)
		assert.InDelta(s.T(), 5.0, results[0].AvgRating, 0.001)
		assert.Equal(s.T(), 1, results[0].RatingCount)
	})

	s.Run("MostViewedFirst", func() {
		require.NoError(s.T(), s.repo.IncrementViews(s.ctx, second.ID()))
		results, _, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Sort: outbound.SortPopularity, Page: 1})
		require.NoError(s.T(), err)
		require.Len(s.T(), results, 2)
		assert.Equal(s.T(), second.ID(), results[0].ID)
		assert.Equal(s.T(), 1, results[0].Views)
	})
}

func (s *RecipeRepositorySuite) TestSearchPagination() {
	for i := 0; i < outbound.PageSize+3; i++ {
		s.createRecipe(nil)
	}

	pageOne, total, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Page: 1})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), outbound.PageSize+3, total)
	assert.Len(s.T(), pageOne, outbound.PageSize)

	pageTwo, total, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Page: 2})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), outbound.PageSize+3, total)
	assert.Len(s.T(), pageTwo, 3)

	// A clamped page behaves like page one.
	clamped, _, err := s.repo.Search(s.ctx, outbound.SearchCriteria{Page: -5})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), pageOne[0].ID, clamped[0].ID)
}

func (s *RecipeRepositorySuite) TestRatingUpsert() {
	entity := s.createRecipe(nil)
	alice := s.newUser()
	bob := s.newUser()

	summary, err := s.repo.UpsertRating(s.ctx, recipe.Rating{UserID: alice.ID(), RecipeID: entity.ID(), Value: 4})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, summary.Count)
	assert.InDelta(s.T(), 4.0, summary.Average, 0.001)

	// Re-rating replaces, never duplicates.
	summary, err = s.repo.UpsertRating(s.ctx, recipe.Rating{UserID: alice.ID(), RecipeID: entity.ID(), Value: 2})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, summary.Count)
	assert.InDelta(s.T(), 2.0, summary.Average, 0.001)

	summary, err = s.repo.UpsertRating(s.ctx, recipe.Rating{UserID: bob.ID(), RecipeID: entity.ID(), Value: 4})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, summary.Count)
	assert.InDelta(s.T(), 3.0, summary.Average, 0.001)

	value, err := s.repo.UserRating(s.ctx, alice.ID(), entity.ID())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, value)

	value, err = s.repo.UserRating(s.ctx, s.author.ID(), entity.ID())
	require.NoError(s.T(), err)
	assert.Zero(s.T(), value)
}

func (s *RecipeRepositorySuite) TestFavoriteToggle() {
	entity := s.createRecipe(nil)
	fan := s.newUser()

	favorited, err := s.repo.ToggleFavorite(s.ctx, fan.ID(), entity.ID())
	require.NoError(s.T(), err)
	assert.True(s.T(), favorited)

	isFav, err := s.repo.IsFavorited(s.ctx, fan.ID(), entity.ID())
	require.NoError(s.T(), err)
	assert.True(s.T(), isFav)

	favorited, err = s.repo.ToggleFavorite(s.ctx, fan.ID(), entity.ID())
	require.NoError(s.T(), err)
	assert.False(s.T(), favorited)

	isFav, err = s.repo.IsFavorited(s.ctx, fan.ID(), entity.ID())
	require.NoError(s.T(), err)
	assert.False(s.T(), isFav)
}

func (s *RecipeRepositorySuite) TestFindFavorites() {
	liked := s.createRecipe(func(b *testutils.RecipeBuilder) { b.WithTitle("Liked Dish") })
	s.createRecipe(func(b *testutils.RecipeBuilder) { b.WithTitle("Ignored Dish") })
	fan := s.newUser()

	_, err := s.repo.ToggleFavorite(s.ctx, fan.ID(), liked.ID())
	require.NoError(s.T(), err)

	results, total, err := s.repo.FindFavorites(s.ctx, fan.ID(), 1)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, total)
	require.Len(s.T(), results, 1)
	assert.Equal(s.T(), liked.ID(), results[0].ID)
}

func (s *RecipeRepositorySuite) TestIncrementViews() {
	entity := s.createRecipe(nil)

	require.NoError(s.T(), s.repo.IncrementViews(s.ctx, entity.ID()))
	require.NoError(s.T(), s.repo.IncrementViews(s.ctx, entity.ID()))

	found, err := s.repo.FindByID(s.ctx, entity.ID())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, found.Views())
}

func TestRecipeRepositorySuite(t *testing.T) {
	suite.Run(t, new(RecipeRepositorySuite))
}
