package testutils

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/user"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	title        string
	description  string
	instructions string
	authorID     uuid.UUID
	status       recipe.Status
	prepTime     *int
	cookTime     *int
	servings     *int
	categoryID   *uuid.UUID
	difficultyID *uuid.UUID
	ingredients  []recipe.IngredientLine
	steps        []recipe.Step
	tagIDs       []uuid.UUID
	prefIDs      []uuid.UUID
}

// NewRecipeBuilder creates a builder with plausible defaults
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &RecipeBuilder{
		title:        faker.Dinner(),
		description:  faker.Sentence(12),
		instructions: "Chop everything.\nCook until done.\nServe warm.",
		authorID:     uuid.New(),
		status:       recipe.StatusPublished,
	}
}

func (b *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	b.title = title
	return b
}

func (b *RecipeBuilder) WithDescription(description string) *RecipeBuilder {
	b.description = description
	return b
}

func (b *RecipeBuilder) WithInstructions(instructions string) *RecipeBuilder {
	b.instructions = instructions
	return b
}

func (b *RecipeBuilder) WithAuthor(authorID uuid.UUID) *RecipeBuilder {
	b.authorID = authorID
	return b
}

func (b *RecipeBuilder) WithStatus(status recipe.Status) *RecipeBuilder {
	b.status = status
	return b
}

func (b *RecipeBuilder) WithTimings(prep, cook int) *RecipeBuilder {
	b.prepTime = &prep
	b.cookTime = &cook
	return b
}

func (b *RecipeBuilder) WithServings(servings int) *RecipeBuilder {
	b.servings = &servings
	return b
}

func (b *RecipeBuilder) WithCategory(id uuid.UUID) *RecipeBuilder {
	b.categoryID = &id
	return b
}

func (b *RecipeBuilder) WithDifficulty(id uuid.UUID) *RecipeBuilder {
	b.difficultyID = &id
	return b
}

func (b *RecipeBuilder) WithIngredients(lines ...recipe.IngredientLine) *RecipeBuilder {
	b.ingredients = lines
	return b
}

func (b *RecipeBuilder) WithSteps(bodies ...string) *RecipeBuilder {
	b.steps = nil
	for _, body := range bodies {
		b.steps = append(b.steps, recipe.Step{Body: body})
	}
	return b
}

func (b *RecipeBuilder) WithTags(ids ...uuid.UUID) *RecipeBuilder {
	b.tagIDs = ids
	return b
}

func (b *RecipeBuilder) WithPreferences(ids ...uuid.UUID) *RecipeBuilder {
	b.prefIDs = ids
	return b
}

// Build assembles the recipe aggregate, failing the test on invalid input.
func (b *RecipeBuilder) Build(t *testing.T) *recipe.Recipe {
	t.Helper()

	entity, err := recipe.NewRecipe(b.title, b.description, b.instructions, b.authorID, b.status)
	require.NoError(t, err, "build test recipe")

	require.NoError(t, entity.SetTimings(b.prepTime, b.cookTime))
	require.NoError(t, entity.SetServings(b.servings))
	entity.Categorize(b.categoryID, b.difficultyID)

	if b.ingredients != nil {
		require.NoError(t, entity.ReplaceIngredients(b.ingredients))
	}
	if b.steps != nil {
		require.NoError(t, entity.ReplaceSteps(b.steps))
	}
	entity.SetTags(b.tagIDs)
	entity.SetPreferences(b.prefIDs)

	entity.Events() // drain construction events
	return entity
}

// UserFactory creates test user accounts with unique credentials.
type UserFactory struct {
	faker *gofakeit.Faker
	seq   int
}

// NewUserFactory creates a new user factory
func NewUserFactory() *UserFactory {
	return &UserFactory{faker: gofakeit.New(time.Now().UnixNano())}
}

// Create builds a valid user with a unique username and email.
func (f *UserFactory) Create(t *testing.T) *user.User {
	t.Helper()
	f.seq++

	username := fmt.Sprintf("%s%d", f.faker.Username(), f.seq)
	if len(username) > 30 {
		username = username[:30]
	}
	email := fmt.Sprintf("user%d_%s", f.seq, f.faker.Email())

	account, err := user.NewUser(username, email, "correct-horse-battery")
	require.NoError(t, err, "build test user")
	return account
}
