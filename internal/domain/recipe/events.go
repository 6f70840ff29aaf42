package recipe

import (
	"time"

	"github.com/google/uuid"
)

// CreatedEvent is raised when a new recipe is created.
type CreatedEvent struct {
	RecipeID  uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	CreatedAt time.Time
}

func (e CreatedEvent) EventName() string     { return "recipe.created" }
func (e CreatedEvent) OccurredAt() time.Time { return e.CreatedAt }

// PublishedEvent is raised when a recipe transitions to published.
type PublishedEvent struct {
	RecipeID    uuid.UUID
	PublishedAt time.Time
}

func (e PublishedEvent) EventName() string     { return "recipe.published" }
func (e PublishedEvent) OccurredAt() time.Time { return e.PublishedAt }

// RatedEvent is raised when a user rates a recipe.
type RatedEvent struct {
	RecipeID uuid.UUID
	UserID   uuid.UUID
	Value    int
	RatedAt  time.Time
}

func (e RatedEvent) EventName() string     { return "recipe.rated" }
func (e RatedEvent) OccurredAt() time.Time { return e.RatedAt }
