// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/forkful/v1/internal/domain/contact"
	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/domain/taxonomy"
	"github.com/forkful/v1/internal/domain/user"
	"github.com/google/uuid"
)

// PageSize is the fixed number of recipes per listing page.
const PageSize = 12

// SortKey selects the ordering of listing and search results.
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortNameAsc    SortKey = "name_asc"
	SortNameDesc   SortKey = "name_desc"
	SortRating     SortKey = "rating_desc"
	SortPopularity SortKey = "popularity_desc"
)

// ParseSortKey maps a query parameter to a sort key, defaulting to newest.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortOldest, SortNameAsc, SortNameDesc, SortRating, SortPopularity:
		return SortKey(s)
	default:
		return SortNewest
	}
}

// SearchCriteria defines the filter set for recipe listings and search.
// Nil pointer fields mean "no filter"; present fields are AND-ed together.
type SearchCriteria struct {
	Query        *string
	CategoryID   *uuid.UUID
	DifficultyID *uuid.UUID
	PreferenceID *uuid.UUID
	TagID        *uuid.UUID
	MaxTotalTime *int
	AuthorID     *uuid.UUID
	Status       recipe.Status
	FeaturedOnly bool
	Sort         SortKey
	Page         int
}

// Offset returns the row offset for the (1-based, clamped) page.
func (c SearchCriteria) Offset() int {
	page := c.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

// RecipeSummary is a listing row: the card data for browse, search and
// my-recipes pages, with rating aggregates computed in the query.
type RecipeSummary struct {
	ID             uuid.UUID
	Title          string
	Excerpt        string
	Image          string
	CategoryName   string
	DifficultyName string
	AuthorName     string
	AvgRating      float64
	RatingCount    int
	TotalTime      *int
	Status         recipe.Status
	Featured       bool
	Views          int
	CreatedAt      time.Time
}

// RatingSummary is the aggregate returned after a rating upsert.
type RatingSummary struct {
	Average float64
	Count   int
}

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	// Create persists the recipe with all child rows (ingredient lines,
	// instruction steps, tag and preference links, nutrition) in one
	// transaction. A failure on any child leaves no rows behind.
	Create(ctx context.Context, r *recipe.Recipe) error
	Update(ctx context.Context, r *recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)

	// Search runs the count and page queries for the criteria. Both see
	// the same predicates, so total and rows always agree.
	Search(ctx context.Context, criteria SearchCriteria) ([]RecipeSummary, int, error)

	// IncrementViews bumps the view counter without touching updated_at.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// UpsertRating writes the user's rating as a single atomic statement
	// keyed on (user, recipe) and returns the fresh aggregate.
	UpsertRating(ctx context.Context, rating recipe.Rating) (RatingSummary, error)
	RatingSummary(ctx context.Context, recipeID uuid.UUID) (RatingSummary, error)

	// UserRating returns the user's rating for the recipe, 0 when unrated.
	UserRating(ctx context.Context, userID, recipeID uuid.UUID) (int, error)

	// ToggleFavorite flips the favorite flag inside a transaction and
	// reports the resulting state.
	ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (favorited bool, err error)
	IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	FindFavorites(ctx context.Context, userID uuid.UUID, page int) ([]RecipeSummary, int, error)
}

// CommentRepository defines the interface for recipe comments
type CommentRepository interface {
	Create(ctx context.Context, c recipe.Comment) error
	// FindByRecipe returns top-level comments, newest first, with the
	// author's username resolved.
	FindByRecipe(ctx context.Context, recipeID uuid.UUID) ([]recipe.Comment, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// TaxonomyRepository serves the seeded reference tables.
type TaxonomyRepository interface {
	Categories(ctx context.Context) ([]taxonomy.Category, error)
	// CategoriesWithCounts pairs each category with its published recipe count.
	CategoriesWithCounts(ctx context.Context) ([]CategoryCount, error)
	Difficulties(ctx context.Context) ([]taxonomy.Difficulty, error)
	Units(ctx context.Context) ([]taxonomy.Unit, error)
	Tags(ctx context.Context) ([]taxonomy.Tag, error)
	DietaryPreferences(ctx context.Context) ([]taxonomy.DietaryPreference, error)
}

// CategoryCount is a category with its published recipe count.
type CategoryCount struct {
	taxonomy.Category
	RecipeCount int
}

// ActivityLog is the append-only user activity feed.
type ActivityLog interface {
	Record(ctx context.Context, userID uuid.UUID, activityType string, entityID uuid.UUID, entityType string) error
}

// ContactInbox stores contact form submissions.
type ContactInbox interface {
	Save(ctx context.Context, msg contact.Message) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// StorageService defines the interface for uploaded file storage
type StorageService interface {
	// Save stores the file and returns the generated filename.
	Save(ctx context.Context, originalName string, data []byte) (string, error)
	Delete(ctx context.Context, filename string) error
}
