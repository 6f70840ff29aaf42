// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/google/uuid"
)

// RecipeService defines the use cases for recipe management
// This is the primary port that HTTP handlers use
type RecipeService interface {
	// Commands - operations that modify state
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDetail, error)
	UpdateRecipe(ctx context.Context, cmd UpdateRecipeCommand) (*RecipeDetail, error)
	DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error

	// Recipe interactions
	RateRecipe(ctx context.Context, cmd RateRecipeCommand) (outbound.RatingSummary, error)
	ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	AddComment(ctx context.Context, cmd AddCommentCommand) (*CommentView, error)

	// Queries - operations that read state
	GetRecipe(ctx context.Context, recipeID uuid.UUID, viewerID *uuid.UUID) (*RecipeDetail, error)
	ListRecipes(ctx context.Context, criteria outbound.SearchCriteria) (*RecipePage, error)
	ListFavorites(ctx context.Context, userID uuid.UUID, page int) (*RecipePage, error)
	HomePage(ctx context.Context) (*HomeData, error)
}

// Command objects for operations

// IngredientInput is one ingredient line from the recipe form.
type IngredientInput struct {
	Name     string `validate:"required,max=100"`
	Quantity *float64
	UnitID   *uuid.UUID
	Notes    string `validate:"max=200"`
}

// NutritionInput is the optional nutrition section of the recipe form.
type NutritionInput struct {
	Calories      *int
	Carbohydrates *float64
	Protein       *float64
	Fat           *float64
	SaturatedFat  *float64
	Sugar         *float64
	Fiber         *float64
	Sodium        *float64
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	AuthorID     uuid.UUID `validate:"required"`
	Title        string    `validate:"required,min=3,max=200"`
	Description  string    `validate:"max=2000"`
	Instructions string    `validate:"required"`
	Steps        []string
	Ingredients  []IngredientInput `validate:"dive"`
	CategoryID   *uuid.UUID
	DifficultyID *uuid.UUID
	PrepTime     *int `validate:"omitempty,min=0"`
	CookTime     *int `validate:"omitempty,min=0"`
	Servings     *int `validate:"omitempty,min=1"`
	Calories     *int `validate:"omitempty,min=0"`
	TagIDs       []uuid.UUID
	PrefIDs      []uuid.UUID
	Nutrition    *NutritionInput
	Status       recipe.Status
	ImageName    string
	ImageData    []byte
}

// UpdateRecipeCommand contains data for updating a recipe
type UpdateRecipeCommand struct {
	RecipeID uuid.UUID `validate:"required"`
	UserID   uuid.UUID `validate:"required"`
	CreateRecipeCommand
}

// RateRecipeCommand for rating a recipe
type RateRecipeCommand struct {
	RecipeID uuid.UUID `validate:"required"`
	UserID   uuid.UUID `validate:"required"`
	Rating   int       `validate:"min=1,max=5"`
}

// AddCommentCommand for commenting on a recipe
type AddCommentCommand struct {
	RecipeID uuid.UUID `validate:"required"`
	UserID   uuid.UUID `validate:"required"`
	Body     string    `validate:"required,max=2000"`
}

// View objects rendered by templates and AJAX endpoints

// RecipeDetail is the full recipe view for the detail and edit pages.
type RecipeDetail struct {
	ID              uuid.UUID
	Title           string
	Description     string
	Instructions    string
	Steps           []recipe.Step
	Ingredients     []IngredientView
	AuthorID        uuid.UUID
	AuthorName      string
	CategoryID      *uuid.UUID
	CategoryName    string
	DifficultyID    *uuid.UUID
	DifficultyName  string
	PrepTime        *int
	CookTime        *int
	TotalTime       *int
	Servings        *int
	Calories        *int
	Image           string
	Status          recipe.Status
	Views           int
	AvgRating       float64
	RatingCount     int
	ViewerRating    int
	ViewerFavorited bool
	TagIDs          []uuid.UUID
	PrefIDs         []uuid.UUID
	Nutrition       *recipe.NutritionFacts
	Comments        []CommentView
	CreatedAt       string
}

// IngredientView is a resolved ingredient line for display.
type IngredientView struct {
	Name     string
	Quantity *float64
	UnitID   *uuid.UUID
	UnitName string
	Notes    string
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	CreatedAt string    `json:"created_at"`
}

// RecipePage is one page of listing results.
type RecipePage struct {
	Recipes    []outbound.RecipeSummary
	Total      int
	Page       int
	TotalPages int
}

// HomeData feeds the home page template.
type HomeData struct {
	Featured []outbound.RecipeSummary
	Recent   []outbound.RecipeSummary
}
