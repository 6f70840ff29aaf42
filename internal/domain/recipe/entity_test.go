package recipe

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for the Recipe aggregate
type RecipeTestSuite struct {
	suite.Suite
}

func intPtr(v int) *int { return &v }

func (suite *RecipeTestSuite) newRecipe() *Recipe {
	r, err := NewRecipe("Spaghetti Carbonara", "A classic Italian pasta dish", "Boil pasta. Fry guanciale. Combine.", uuid.New(), StatusDraft)
	require.NoError(suite.T(), err)
	return r
}

func (suite *RecipeTestSuite) TestCreation() {
	suite.Run("ValidRecipe_ShouldCreateSuccessfully", func() {
		authorID := uuid.New()
		r, err := NewRecipe("Spaghetti Carbonara", "A classic Italian pasta dish", "Boil pasta.", authorID, StatusDraft)

		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), r)
		assert.NotEqual(suite.T(), uuid.Nil, r.ID())
		assert.Equal(suite.T(), "Spaghetti Carbonara", r.Title())
		assert.Equal(suite.T(), StatusDraft, r.Status())
		assert.NotZero(suite.T(), r.CreatedAt())

		events := r.Events()
		require.Len(suite.T(), events, 1)
		created, ok := events[0].(CreatedEvent)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), r.ID(), created.RecipeID)
		assert.Equal(suite.T(), authorID, created.AuthorID)
	})

	suite.Run("ShortTitle_ShouldReturnError", func() {
		_, err := NewRecipe("ab", "", "Do things.", uuid.New(), StatusDraft)
		assert.ErrorIs(suite.T(), err, ErrTitleTooShort)
	})

	suite.Run("LongTitle_ShouldReturnError", func() {
		_, err := NewRecipe(strings.Repeat("x", 201), "", "Do things.", uuid.New(), StatusDraft)
		assert.ErrorIs(suite.T(), err, ErrTitleTooLong)
	})

	suite.Run("LongDescription_ShouldReturnError", func() {
		_, err := NewRecipe("Valid Title", strings.Repeat("x", 2001), "Do things.", uuid.New(), StatusDraft)
		assert.ErrorIs(suite.T(), err, ErrDescriptionTooLong)
	})

	suite.Run("MissingInstructions_ShouldReturnError", func() {
		_, err := NewRecipe("Valid Title", "", "", uuid.New(), StatusDraft)
		assert.ErrorIs(suite.T(), err, ErrInstructionsRequired)
	})

	suite.Run("UnknownStatus_ShouldReturnError", func() {
		_, err := NewRecipe("Valid Title", "", "Do things.", uuid.New(), Status("archived"))
		assert.ErrorIs(suite.T(), err, ErrInvalidStatus)
	})
}

func (suite *RecipeTestSuite) TestTimings() {
	suite.Run("BothTimes_DerivesTotal", func() {
		r := suite.newRecipe()
		require.NoError(suite.T(), r.SetTimings(intPtr(10), intPtr(20)))

		require.NotNil(suite.T(), r.TotalTime())
		assert.Equal(suite.T(), 30, *r.TotalTime())
	})

	suite.Run("MissingCookTime_LeavesTotalNil", func() {
		r := suite.newRecipe()
		require.NoError(suite.T(), r.SetTimings(intPtr(10), nil))

		assert.Nil(suite.T(), r.TotalTime())
	})

	suite.Run("ClearingOneTime_ClearsTotal", func() {
		r := suite.newRecipe()
		require.NoError(suite.T(), r.SetTimings(intPtr(10), intPtr(20)))
		require.NoError(suite.T(), r.SetTimings(nil, intPtr(20)))

		assert.Nil(suite.T(), r.TotalTime())
	})

	suite.Run("NegativeTime_ShouldReturnError", func() {
		r := suite.newRecipe()
		err := r.SetTimings(intPtr(-5), intPtr(20))
		assert.ErrorIs(suite.T(), err, ErrNegativeTime)
	})
}

func (suite *RecipeTestSuite) TestServings() {
	r := suite.newRecipe()

	assert.ErrorIs(suite.T(), r.SetServings(intPtr(0)), ErrInvalidServings)
	assert.NoError(suite.T(), r.SetServings(intPtr(4)))
	assert.NoError(suite.T(), r.SetServings(nil))
	assert.Nil(suite.T(), r.Servings())
}

func (suite *RecipeTestSuite) TestOwnership() {
	authorID := uuid.New()
	r, err := NewRecipe("Owned Recipe", "", "Do things.", authorID, StatusDraft)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), r.IsOwnedBy(authorID))
	assert.False(suite.T(), r.IsOwnedBy(uuid.New()))
}

func (suite *RecipeTestSuite) TestIngredientsAndSteps() {
	suite.Run("ReplaceIngredients_RenumbersPositions", func() {
		r := suite.newRecipe()
		err := r.ReplaceIngredients([]IngredientLine{
			{Name: "Spaghetti"},
			{Name: "Guanciale"},
			{Name: "Pecorino"},
		})
		require.NoError(suite.T(), err)

		lines := r.Ingredients()
		require.Len(suite.T(), lines, 3)
		for i, line := range lines {
			assert.Equal(suite.T(), i+1, line.Position)
		}
	})

	suite.Run("EmptyIngredientName_ShouldReturnError", func() {
		r := suite.newRecipe()
		err := r.ReplaceIngredients([]IngredientLine{{Name: "  "}})
		assert.Error(suite.T(), err)
	})

	suite.Run("ReplaceSteps_RenumbersSteps", func() {
		r := suite.newRecipe()
		err := r.ReplaceSteps([]Step{
			{Body: "Boil pasta."},
			{Body: "Fry guanciale."},
		})
		require.NoError(suite.T(), err)

		steps := r.Steps()
		require.Len(suite.T(), steps, 2)
		assert.Equal(suite.T(), 1, steps[0].Number)
		assert.Equal(suite.T(), 2, steps[1].Number)
	})
}

func (suite *RecipeTestSuite) TestPublishing() {
	suite.Run("DraftToPublished_EmitsEvent", func() {
		r := suite.newRecipe()
		r.Events() // drop the creation event

		require.NoError(suite.T(), r.SetStatus(StatusPublished))

		events := r.Events()
		require.Len(suite.T(), events, 1)
		published, ok := events[0].(PublishedEvent)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), r.ID(), published.RecipeID)
	})

	suite.Run("PublishedToPublished_NoEvent", func() {
		r := suite.newRecipe()
		require.NoError(suite.T(), r.SetStatus(StatusPublished))
		r.Events()

		require.NoError(suite.T(), r.SetStatus(StatusPublished))
		assert.Empty(suite.T(), r.Events())
	})
}

func (suite *RecipeTestSuite) TestDerivedSteps() {
	suite.Run("NormalizedSteps_WinOverBlob", func() {
		r := suite.newRecipe()
		require.NoError(suite.T(), r.ReplaceSteps([]Step{{Body: "Only step."}}))

		steps := r.DerivedSteps()
		require.Len(suite.T(), steps, 1)
		assert.Equal(suite.T(), "Only step.", steps[0].Body)
	})

	suite.Run("NoSteps_FallsBackToBlob", func() {
		r, err := NewRecipe("Blob Recipe", "", "First do this.\nThen do that.", uuid.New(), StatusDraft)
		require.NoError(suite.T(), err)

		steps := r.DerivedSteps()
		require.Len(suite.T(), steps, 2)
		assert.Equal(suite.T(), "First do this.", steps[0].Body)
		assert.Equal(suite.T(), "Then do that.", steps[1].Body)
	})
}

func (suite *RecipeTestSuite) TestRehydrate() {
	original := suite.newRecipe()
	require.NoError(suite.T(), original.SetTimings(intPtr(15), intPtr(25)))

	restored := Rehydrate(Snapshot{
		ID:           original.ID(),
		Title:        original.Title(),
		Description:  original.Description(),
		Instructions: original.Instructions(),
		AuthorID:     original.AuthorID(),
		PrepTime:     original.PrepTime(),
		CookTime:     original.CookTime(),
		TotalTime:    original.TotalTime(),
		Status:       original.Status(),
		Views:        7,
		CreatedAt:    original.CreatedAt(),
		UpdatedAt:    original.UpdatedAt(),
	})

	assert.Equal(suite.T(), original.ID(), restored.ID())
	assert.Equal(suite.T(), 40, *restored.TotalTime())
	assert.Equal(suite.T(), 7, restored.Views())
	assert.Empty(suite.T(), restored.Events(), "rehydration must not emit events")
}

func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}
