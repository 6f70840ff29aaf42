package recipe

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitInstructions(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want []string
	}{
		{
			name: "newline separated",
			blob: "Chop the onions.\nFry until golden.\nSeason to taste.",
			want: []string{"Chop the onions.", "Fry until golden.", "Season to taste."},
		},
		{
			name: "numbered lines lose their markers",
			blob: "1. Preheat the oven.\n2. Mix the batter.\n3. Bake for 40 minutes.",
			want: []string{"Preheat the oven.", "Mix the batter.", "Bake for 40 minutes."},
		},
		{
			name: "windows and old mac line endings",
			blob: "First step.\r\nSecond step.\rThird step.",
			want: []string{"First step.", "Second step.", "Third step."},
		},
		{
			name: "blank lines are dropped",
			blob: "Start here.\n\n\nFinish there.",
			want: []string{"Start here.", "Finish there."},
		},
		{
			name: "single line splits on sentences",
			blob: "Boil the potatoes. Blend with cream. Serve hot.",
			want: []string{"Boil the potatoes.", "Blend with cream.", "Serve hot."},
		},
		{
			name: "single sentence stays whole",
			blob: "Mix everything together and enjoy.",
			want: []string{"Mix everything together and enjoy."},
		},
		{
			name: "empty blob yields no steps",
			blob: "   \n  ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := SplitInstructions(tt.blob)
			require.Len(t, steps, len(tt.want))
			for i, body := range tt.want {
				assert.Equal(t, i+1, steps[i].Number)
				assert.Equal(t, body, steps[i].Body)
			}
		})
	}
}

func TestRatingValidate(t *testing.T) {
	for value := 1; value <= 5; value++ {
		r := Rating{UserID: uuid.New(), RecipeID: uuid.New(), Value: value}
		assert.NoError(t, r.Validate())
	}

	for _, value := range []int{0, -1, 6, 100} {
		r := Rating{UserID: uuid.New(), RecipeID: uuid.New(), Value: value}
		assert.ErrorIs(t, r.Validate(), ErrInvalidRating)
	}
}

func TestNewComment(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		c, err := NewComment(uuid.New(), uuid.New(), "  lovely recipe  ")
		require.NoError(t, err)
		assert.Equal(t, "lovely recipe", c.Body)
		assert.NotEqual(t, uuid.Nil, c.ID)
		assert.NotZero(t, c.CreatedAt)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		_, err := NewComment(uuid.New(), uuid.New(), "   ")
		assert.ErrorIs(t, err, ErrEmptyComment)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		_, err := NewComment(uuid.New(), uuid.New(), strings.Repeat("x", 2001))
		assert.ErrorIs(t, err, ErrCommentTooLong)
	})
}

func TestIngredientLineValidate(t *testing.T) {
	valid := IngredientLine{Name: "Flour"}
	assert.NoError(t, valid.Validate())

	negative := -1.5
	assert.Error(t, IngredientLine{Name: "Flour", Quantity: &negative}.Validate())
	assert.Error(t, IngredientLine{Name: "  "}.Validate())
}

func TestStepValidate(t *testing.T) {
	assert.NoError(t, Step{Body: "Stir well."}.Validate())
	assert.Error(t, Step{Body: ""}.Validate())
	assert.Error(t, Step{Body: strings.Repeat("x", 1001)}.Validate())
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusPublished, ParseStatus("published"))
	assert.Equal(t, StatusDraft, ParseStatus("draft"))
	assert.Equal(t, StatusDraft, ParseStatus(""))
	assert.Equal(t, StatusDraft, ParseStatus("bogus"))
}
