package recipe_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	apprecipe "github.com/forkful/v1/internal/application/recipe"
	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/user"
	gormpersistence "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"github.com/forkful/v1/internal/ports/inbound"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/forkful/v1/pkg/errors"
	"github.com/forkful/v1/test/testutils"
)

type RecipeServiceSuite struct {
	suite.Suite
	ctx      context.Context
	service  inbound.RecipeService
	users    outbound.UserRepository
	taxonomy outbound.TaxonomyRepository
	activity *testutils.FakeActivityLog
	storage  *testutils.FakeStorage
	factory  *testutils.UserFactory
	author   *user.User
}

func (s *RecipeServiceSuite) SetupTest() {
	db := testutils.NewTestDatabase(s.T())
	s.ctx = context.Background()
	s.users = gormpersistence.NewUserRepository(db)
	s.taxonomy = gormpersistence.NewTaxonomyRepository(db)
	s.activity = testutils.NewFakeActivityLog()
	s.storage = testutils.NewFakeStorage()
	s.factory = testutils.NewUserFactory()

	s.service = apprecipe.NewRecipeService(
		gormpersistence.NewRecipeRepository(db),
		gormpersistence.NewCommentRepository(db),
		s.users,
		s.taxonomy,
		s.activity,
		s.storage,
		zap.NewNop(),
	)

	s.author = s.factory.Create(s.T())
	require.NoError(s.T(), s.users.Create(s.ctx, s.author))
}

func (s *RecipeServiceSuite) newUser() *user.User {
	account := s.factory.Create(s.T())
	require.NoError(s.T(), s.users.Create(s.ctx, account))
	return account
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func (s *RecipeServiceSuite) soupCommand() inbound.CreateRecipeCommand {
	units, err := s.taxonomy.Units(s.ctx)
	require.NoError(s.T(), err)
	var gram *uuid.UUID
	for i := range units {
		if units[i].Abbreviation == "g" {
			gram = &units[i].ID
		}
	}
	require.NotNil(s.T(), gram)

	return inbound.CreateRecipeCommand{
		AuthorID:     s.author.ID(),
		Title:        "Tomato Soup",
		Description:  "A silky weeknight soup.",
		Instructions: "Sweat the onions. Add tomatoes and stock. Blend.",
		Steps:        []string{"Sweat the onions.", "Add tomatoes and stock.", "Blend until smooth."},
		Ingredients: []inbound.IngredientInput{
			{Name: "Tomatoes", Quantity: floatPtr(800), UnitID: gram},
			{Name: "Onion", Quantity: floatPtr(1)},
		},
		PrepTime: intPtr(10),
		CookTime: intPtr(20),
		Servings: intPtr(4),
		Status:   recipe.StatusPublished,
	}
}

func (s *RecipeServiceSuite) TestCreateRecipe() {
	s.Run("FullCommand_BuildsDetailView", func() {
		cmd := s.soupCommand()
		cmd.ImageName = "soup.jpg"
		cmd.ImageData = []byte{0xFF, 0xD8}

		detail, err := s.service.CreateRecipe(s.ctx, cmd)
		require.NoError(s.T(), err)

		assert.Equal(s.T(), "Tomato Soup", detail.Title)
		assert.Equal(s.T(), s.author.Username(), detail.AuthorName)
		require.NotNil(s.T(), detail.TotalTime)
		assert.Equal(s.T(), 30, *detail.TotalTime)
		assert.Equal(s.T(), recipe.StatusPublished, detail.Status)

		require.Len(s.T(), detail.Ingredients, 2)
		assert.Equal(s.T(), "g", detail.Ingredients[0].UnitName)
		require.Len(s.T(), detail.Steps, 3)
		assert.Equal(s.T(), "Blend until smooth.", detail.Steps[2].Body)

		assert.True(s.T(), s.storage.Contains(detail.Image))
		assert.Contains(s.T(), s.activity.Actions(), "recipe_created")
	})

	s.Run("NoExplicitSteps_DerivedFromInstructions", func() {
		cmd := s.soupCommand()
		cmd.Steps = nil
		cmd.Instructions = "Sweat the onions.\nBlend until smooth."

		detail, err := s.service.CreateRecipe(s.ctx, cmd)
		require.NoError(s.T(), err)
		require.Len(s.T(), detail.Steps, 2)
		assert.Equal(s.T(), "Sweat the onions.", detail.Steps[0].Body)
	})

	s.Run("SaveFails_StoredImageIsRemoved", func() {
		tags, err := s.taxonomy.Tags(s.ctx)
		require.NoError(s.T(), err)
		require.NotEmpty(s.T(), tags)

		cmd := s.soupCommand()
		cmd.ImageName = "soup.jpg"
		cmd.ImageData = []byte{0xFF, 0xD8}
		// A repeated tag id collides on the tag link table and sinks
		// the whole insert.
		cmd.TagIDs = []uuid.UUID{tags[0].ID, tags[0].ID}

		_, err = s.service.CreateRecipe(s.ctx, cmd)
		require.Error(s.T(), err)
		assert.False(s.T(), s.storage.Contains("soup.jpg"))
	})

	s.Run("ShortTitle_FailsValidation", func() {
		cmd := s.soupCommand()
		cmd.Title = "ab"

		_, err := s.service.CreateRecipe(s.ctx, cmd)
		assert.True(s.T(), errors.Is(err, errors.CodeValidationFailed))
	})
}

func (s *RecipeServiceSuite) TestUpdateRecipe() {
	created, err := s.service.CreateRecipe(s.ctx, s.soupCommand())
	require.NoError(s.T(), err)

	s.Run("Owner_CanUpdate", func() {
		cmd := s.soupCommand()
		cmd.Title = "Roasted Tomato Soup"

		detail, err := s.service.UpdateRecipe(s.ctx, inbound.UpdateRecipeCommand{
			RecipeID:            created.ID,
			UserID:              s.author.ID(),
			CreateRecipeCommand: cmd,
		})
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "Roasted Tomato Soup", detail.Title)
	})

	s.Run("Stranger_IsRejected", func() {
		stranger := s.newUser()
		cmd := s.soupCommand()
		cmd.AuthorID = stranger.ID()

		_, err := s.service.UpdateRecipe(s.ctx, inbound.UpdateRecipeCommand{
			RecipeID:            created.ID,
			UserID:              stranger.ID(),
			CreateRecipeCommand: cmd,
		})
		assert.True(s.T(), errors.Is(err, errors.CodeInsufficientPermissions))
	})

	s.Run("MissingRecipe_IsNotFound", func() {
		cmd := s.soupCommand()
		_, err := s.service.UpdateRecipe(s.ctx, inbound.UpdateRecipeCommand{
			RecipeID:            uuid.New(),
			UserID:              s.author.ID(),
			CreateRecipeCommand: cmd,
		})
		assert.True(s.T(), errors.Is(err, errors.CodeRecipeNotFound))
	})
}

func (s *RecipeServiceSuite) TestDeleteRecipe() {
	created, err := s.service.CreateRecipe(s.ctx, s.soupCommand())
	require.NoError(s.T(), err)

	stranger := s.newUser()
	err = s.service.DeleteRecipe(s.ctx, created.ID, stranger.ID())
	assert.True(s.T(), errors.Is(err, errors.CodeInsufficientPermissions))

	require.NoError(s.T(), s.service.DeleteRecipe(s.ctx, created.ID, s.author.ID()))

	_, err = s.service.GetRecipe(s.ctx, created.ID, nil)
	assert.True(s.T(), errors.Is(err, errors.CodeRecipeNotFound))
}

func (s *RecipeServiceSuite) TestRateRecipe() {
	created, err := s.service.CreateRecipe(s.ctx, s.soupCommand())
	require.NoError(s.T(), err)
	rater := s.newUser()

	summary, err := s.service.RateRecipe(s.ctx, inbound.RateRecipeCommand{
		RecipeID: created.ID,
		UserID:   rater.ID(),
		Rating:   4,
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, summary.Count)
	assert.InDelta(s.T(), 4.0, summary.Average, 0.001)

	_, err = s.service.RateRecipe(s.ctx, inbound.RateRecipeCommand{
		RecipeID: created.ID,
		UserID:   rater.ID(),
		Rating:   6,
	})
	assert.True(s.T(), errors.Is(err, errors.CodeValidationFailed))

	_, err = s.service.RateRecipe(s.ctx, inbound.RateRecipeCommand{
		RecipeID: uuid.New(),
		UserID:   rater.ID(),
		Rating:   3,
	})
	assert.True(s.T(), errors.Is(err, errors.CodeRecipeNotFound))
}

func (s *RecipeServiceSuite) TestFavoritesAndViewerState() {
	created, err := s.service.CreateRecipe(s.ctx, s.soupCommand())
	require.NoError(s.T(), err)
	fan := s.newUser()
	fanID := fan.ID()

	favorited, err := s.service.ToggleFavorite(s.ctx, fanID, created.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), favorited)

	_, err = s.service.RateRecipe(s.ctx, inbound.RateRecipeCommand{
		RecipeID: created.ID,
		UserID:   fanID,
		Rating:   5,
	})
	require.NoError(s.T(), err)

	detail, err := s.service.GetRecipe(s.ctx, created.ID, &fanID)
	require.NoError(s.T(), err)
	assert.True(s.T(), detail.ViewerFavorited)
	assert.Equal(s.T(), 5, detail.ViewerRating)

	page, err := s.service.ListFavorites(s.ctx, fanID, 1)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, page.Total)

	favorited, err = s.service.ToggleFavorite(s.ctx, fanID, created.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), favorited)
}

func (s *RecipeServiceSuite) TestAddComment() {
	created, err := s.service.CreateRecipe(s.ctx, s.soupCommand())
	require.NoError(s.T(), err)
	commenter := s.newUser()

	view, err := s.service.AddComment(s.ctx, inbound.AddCommentCommand{
		RecipeID: created.ID,
		UserID:   commenter.ID(),
		Body:     "Best soup I ever made.",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), commenter.Username(), view.Username)
	assert.Equal(s.T(), "Best soup I ever made.", view.Body)

	detail, err := s.service.GetRecipe(s.ctx, created.ID, nil)
	require.NoError(s.T(), err)
	require.Len(s.T(), detail.Comments, 1)
	assert.Equal(s.T(), view.ID, detail.Comments[0].ID)

	_, err = s.service.AddComment(s.ctx, inbound.AddCommentCommand{
		RecipeID: created.ID,
		UserID:   commenter.ID(),
		Body:     "   ",
	})
	assert.True(s.T(), errors.Is(err, errors.CodeValidationFailed))
}

func (s *RecipeServiceSuite) TestListRecipes() {
	for i := 0; i < outbound.PageSize+1; i++ {
		_, err := s.service.CreateRecipe(s.ctx, s.soupCommand())
		require.NoError(s.T(), err)
	}

	page, err := s.service.ListRecipes(s.ctx, outbound.SearchCriteria{
		Status: recipe.StatusPublished,
		Page:   1,
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), outbound.PageSize+1, page.Total)
	assert.Equal(s.T(), 2, page.TotalPages)
	assert.Len(s.T(), page.Recipes, outbound.PageSize)

	page, err = s.service.ListRecipes(s.ctx, outbound.SearchCriteria{
		Status: recipe.StatusPublished,
		Page:   2,
	})
	require.NoError(s.T(), err)
	assert.Len(s.T(), page.Recipes, 1)
}

func (s *RecipeServiceSuite) TestHomePage() {
	for i := 0; i < 8; i++ {
		_, err := s.service.CreateRecipe(s.ctx, s.soupCommand())
		require.NoError(s.T(), err)
	}

	home, err := s.service.HomePage(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), home.Recent, 6)
	assert.Empty(s.T(), home.Featured)
}

func TestRecipeServiceSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceSuite))
}
