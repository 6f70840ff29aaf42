// Package gorm provides GORM model definitions and repository
// implementations for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Username     string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Name         string    `gorm:"type:varchar(100)"`
	Bio          string    `gorm:"type:text"`
	Avatar       string    `gorm:"type:varchar(255)"`
	IsActive     bool      `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time

	Recipes []RecipeModel `gorm:"foreignKey:AuthorID"`
}

func (UserModel) TableName() string { return "users" }

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Title        string    `gorm:"type:varchar(200);not null;index"`
	Description  string    `gorm:"type:text"`
	Instructions string    `gorm:"type:text"`

	AuthorID     uuid.UUID  `gorm:"type:char(36);not null;index"`
	CategoryID   *uuid.UUID `gorm:"type:char(36);index"`
	DifficultyID *uuid.UUID `gorm:"type:char(36);index"`

	// Timing in minutes. TotalTime is derived at write time.
	PrepTime  *int `gorm:"column:prep_time"`
	CookTime  *int `gorm:"column:cook_time"`
	TotalTime *int `gorm:"column:total_time;index"`

	Servings *int
	Calories *int
	Image    string `gorm:"type:varchar(255)"`

	Status   string `gorm:"type:varchar(20);default:'draft';index"`
	Featured bool   `gorm:"default:false;index"`
	Views    int    `gorm:"column:views_count;default:0"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Author       UserModel                `gorm:"foreignKey:AuthorID"`
	Category     *CategoryModel           `gorm:"foreignKey:CategoryID"`
	Difficulty   *DifficultyModel         `gorm:"foreignKey:DifficultyID"`
	Ingredients  []RecipeIngredientModel  `gorm:"foreignKey:RecipeID"`
	Instruction  []RecipeInstructionModel `gorm:"foreignKey:RecipeID"`
	Tags         []RecipeTagModel         `gorm:"foreignKey:RecipeID"`
	Preferences  []RecipePreferenceModel  `gorm:"foreignKey:RecipeID"`
	Nutrition    *NutritionModel          `gorm:"foreignKey:RecipeID"`
	Ratings      []RatingModel            `gorm:"foreignKey:RecipeID"`
}

func (RecipeModel) TableName() string { return "recipes" }

// CategoryModel represents a recipe category
type CategoryModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Image       string    `gorm:"type:varchar(255)"`
}

func (CategoryModel) TableName() string { return "categories" }

// DifficultyModel represents a difficulty level
type DifficultyModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	SortOrder int       `gorm:"default:0"`
}

func (DifficultyModel) TableName() string { return "difficulty_levels" }

// UnitModel represents a measurement unit
type UnitModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name         string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Abbreviation string    `gorm:"type:varchar(10)"`
}

func (UnitModel) TableName() string { return "units" }

// TagModel represents a recipe tag
type TagModel struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name string    `gorm:"type:varchar(50);uniqueIndex;not null"`
}

func (TagModel) TableName() string { return "tags" }

// DietaryPreferenceModel represents a dietary preference
type DietaryPreferenceModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
}

func (DietaryPreferenceModel) TableName() string { return "dietary_preferences" }

// IngredientModel is the ingredient catalog, deduplicated by name
type IngredientModel struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name string    `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (IngredientModel) TableName() string { return "ingredients" }

// RecipeIngredientModel links recipes to catalog ingredients
type RecipeIngredientModel struct {
	RecipeID     uuid.UUID  `gorm:"type:char(36);primaryKey"`
	IngredientID uuid.UUID  `gorm:"type:char(36);primaryKey"`
	Quantity     *float64
	UnitID       *uuid.UUID `gorm:"type:char(36)"`
	Notes        string     `gorm:"type:varchar(200)"`
	Position     int        `gorm:"default:0"`

	Ingredient IngredientModel `gorm:"foreignKey:IngredientID"`
	Unit       *UnitModel      `gorm:"foreignKey:UnitID"`
}

func (RecipeIngredientModel) TableName() string { return "recipe_ingredients" }

// RecipeInstructionModel is one normalized instruction step
type RecipeInstructionModel struct {
	RecipeID   uuid.UUID `gorm:"type:char(36);primaryKey"`
	StepNumber int       `gorm:"primaryKey"`
	Body       string    `gorm:"type:text;not null"`
	Image      string    `gorm:"type:varchar(255)"`
}

func (RecipeInstructionModel) TableName() string { return "recipe_instructions" }

// RatingModel represents a user rating, unique per (user, recipe)
type RatingModel struct {
	RecipeID  uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 5"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RatingModel) TableName() string { return "ratings" }

// FavoriteModel represents a favorite, unique per (user, recipe)
type FavoriteModel struct {
	RecipeID  uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time
}

func (FavoriteModel) TableName() string { return "favorites" }

// CommentModel represents a recipe comment
type CommentModel struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey"`
	RecipeID  uuid.UUID  `gorm:"type:char(36);not null;index"`
	UserID    uuid.UUID  `gorm:"type:char(36);not null;index"`
	ParentID  *uuid.UUID `gorm:"type:char(36);index"`
	Body      string     `gorm:"type:text;not null"`
	CreatedAt time.Time

	User UserModel `gorm:"foreignKey:UserID"`
}

func (CommentModel) TableName() string { return "comments" }

// RecipeTagModel is the recipe/tag join table
type RecipeTagModel struct {
	RecipeID uuid.UUID `gorm:"type:char(36);primaryKey"`
	TagID    uuid.UUID `gorm:"type:char(36);primaryKey"`
}

func (RecipeTagModel) TableName() string { return "recipe_tags" }

// RecipePreferenceModel is the recipe/dietary-preference join table
type RecipePreferenceModel struct {
	RecipeID     uuid.UUID `gorm:"type:char(36);primaryKey"`
	PreferenceID uuid.UUID `gorm:"type:char(36);primaryKey"`
}

func (RecipePreferenceModel) TableName() string { return "recipe_dietary_preferences" }

// NutritionModel is the optional 1:1 nutrition row
type NutritionModel struct {
	RecipeID      uuid.UUID `gorm:"type:char(36);primaryKey"`
	Calories      *int
	Carbohydrates *float64
	Protein       *float64
	Fat           *float64
	SaturatedFat  *float64
	Sugar         *float64
	Fiber         *float64
	Sodium        *float64
}

func (NutritionModel) TableName() string { return "nutritional_info" }

// ActivityModel is the append-only user activity feed
type ActivityModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID       uuid.UUID `gorm:"type:char(36);not null;index"`
	ActivityType string    `gorm:"type:varchar(50);not null"`
	EntityID     uuid.UUID `gorm:"type:char(36)"`
	EntityType   string    `gorm:"type:varchar(50)"`
	CreatedAt    time.Time `gorm:"index"`
}

func (ActivityModel) TableName() string { return "user_activity" }

// ContactMessageModel is a contact form submission
type ContactMessageModel struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey"`
	Name      string     `gorm:"type:varchar(100);not null"`
	Email     string     `gorm:"type:varchar(255);not null"`
	Subject   string     `gorm:"type:varchar(200)"`
	Body      string     `gorm:"type:text;not null"`
	UserID    *uuid.UUID `gorm:"type:char(36)"`
	CreatedAt time.Time
}

func (ContactMessageModel) TableName() string { return "contact_messages" }

// AllModels returns every model for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&CategoryModel{},
		&DifficultyModel{},
		&UnitModel{},
		&TagModel{},
		&DietaryPreferenceModel{},
		&IngredientModel{},
		&RecipeModel{},
		&RecipeIngredientModel{},
		&RecipeInstructionModel{},
		&RatingModel{},
		&FavoriteModel{},
		&CommentModel{},
		&RecipeTagModel{},
		&RecipePreferenceModel{},
		&NutritionModel{},
		&ActivityModel{},
		&ContactMessageModel{},
	}
}
