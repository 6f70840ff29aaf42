package recipe

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Value Objects - Immutable objects that describe aspects of the domain

// IngredientLine is one ingredient entry on a recipe. The ingredient
// itself is deduplicated by name in the catalog; the line carries the
// name so the repository can look it up or create it on save.
type IngredientLine struct {
	Name     string
	Quantity *float64
	UnitID   *uuid.UUID
	Notes    string
	Position int
}

// Validate validates the ingredient line
func (l IngredientLine) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return errors.New("ingredient name is required")
	}
	if l.Quantity != nil && *l.Quantity < 0 {
		return errors.New("ingredient quantity cannot be negative")
	}
	return nil
}

// Step is one normalized instruction step.
type Step struct {
	Number int
	Body   string
	Image  string
}

// Validate validates the step
func (s Step) Validate() error {
	if strings.TrimSpace(s.Body) == "" {
		return errors.New("instruction step is required")
	}
	if len(s.Body) > 1000 {
		return errors.New("instruction step too long")
	}
	return nil
}

// NutritionFacts is the optional per-serving macro breakdown.
type NutritionFacts struct {
	Calories      *int
	Carbohydrates *float64 // grams
	Protein       *float64 // grams
	Fat           *float64 // grams
	SaturatedFat  *float64 // grams
	Sugar         *float64 // grams
	Fiber         *float64 // grams
	Sodium        *float64 // milligrams
}

// Rating is a user's 1-5 score on a recipe, unique per (user, recipe).
type Rating struct {
	UserID    uuid.UUID
	RecipeID  uuid.UUID
	Value     int
	CreatedAt time.Time
}

// Validate validates the rating
func (r Rating) Validate() error {
	if r.Value < 1 || r.Value > 5 {
		return ErrInvalidRating
	}
	return nil
}

// Comment is a user remark on a recipe. ParentID allows threading; the
// read path currently only serves top-level comments.
type Comment struct {
	ID         uuid.UUID
	RecipeID   uuid.UUID
	UserID     uuid.UUID
	ParentID   *uuid.UUID
	Body       string
	AuthorName string
	CreatedAt  time.Time
}

// NewComment creates a validated top-level comment.
func NewComment(recipeID, userID uuid.UUID, body string) (Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Comment{}, ErrEmptyComment
	}
	if len(body) > 2000 {
		return Comment{}, ErrCommentTooLong
	}
	return Comment{
		ID:        uuid.New(),
		RecipeID:  recipeID,
		UserID:    userID,
		Body:      body,
		CreatedAt: time.Now(),
	}, nil
}

// Status represents the publication status of a recipe
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ParseStatus maps a form value to a status, defaulting to draft.
func ParseStatus(s string) Status {
	if Status(s) == StatusPublished {
		return StatusPublished
	}
	return StatusDraft
}

var stepPrefix = regexp.MustCompile(`^\d+\.\s*`)

// SplitInstructions derives pseudo-steps from a raw instruction blob.
// It splits on newlines, stripping leading "1. " style markers. A single
// line containing several sentences is split on sentence boundaries so
// legacy one-line blobs still render as discrete steps.
func SplitInstructions(blob string) []Step {
	lines := regexp.MustCompile(`\r\n|\r|\n`).Split(blob, -1)

	var parts []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, stepPrefix.ReplaceAllString(line, ""))
		}
	}

	if len(parts) == 1 && strings.Count(parts[0], ".") > 1 {
		var sentences []string
		for _, s := range strings.SplitAfter(parts[0], ".") {
			s = strings.TrimSpace(s)
			if s != "" {
				sentences = append(sentences, s)
			}
		}
		if len(sentences) > 1 {
			parts = sentences
		}
	}

	steps := make([]Step, len(parts))
	for i, p := range parts {
		steps[i] = Step{Number: i + 1, Body: p}
	}
	return steps
}
