// Package recipe contains the core domain logic for recipe management.
package recipe

import (
	"time"

	"github.com/forkful/v1/internal/domain/shared"
	"github.com/google/uuid"
)

// Recipe is the aggregate root for a user-authored recipe.
// Ingredient lines, instruction steps, tag/preference links and nutrition
// facts are owned by the recipe and persisted atomically with it.
type Recipe struct {
	id          uuid.UUID
	title       string
	description string

	// Instructions are stored both as normalized steps and as the raw
	// text blob. Steps are canonical; the blob survives for legacy rows
	// and excerpt rendering.
	instructions string
	steps        []Step

	authorID     uuid.UUID
	categoryID   *uuid.UUID
	difficultyID *uuid.UUID

	ingredients []IngredientLine
	tagIDs      []uuid.UUID
	prefIDs     []uuid.UUID
	nutrition   *NutritionFacts

	// Timing in minutes. Total is derived from prep+cook at write time.
	prepTime  *int
	cookTime  *int
	totalTime *int

	servings *int
	calories *int
	image    string

	status   Status
	featured bool
	views    int

	createdAt time.Time
	updatedAt time.Time

	events []shared.DomainEvent
}

// NewRecipe creates a recipe in the given status with validation.
func NewRecipe(title, description, instructions string, authorID uuid.UUID, status Status) (*Recipe, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if instructions == "" {
		return nil, ErrInstructionsRequired
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	r := &Recipe{
		id:           uuid.New(),
		title:        title,
		description:  description,
		instructions: instructions,
		authorID:     authorID,
		status:       status,
		createdAt:    now,
		updatedAt:    now,
	}

	r.addEvent(CreatedEvent{RecipeID: r.id, AuthorID: authorID, Title: title, CreatedAt: now})
	return r, nil
}

// Rehydrate rebuilds a recipe from persisted state. It bypasses creation
// events and validation; the store is trusted.
func Rehydrate(s Snapshot) *Recipe {
	return &Recipe{
		id:           s.ID,
		title:        s.Title,
		description:  s.Description,
		instructions: s.Instructions,
		steps:        s.Steps,
		authorID:     s.AuthorID,
		categoryID:   s.CategoryID,
		difficultyID: s.DifficultyID,
		ingredients:  s.Ingredients,
		tagIDs:       s.TagIDs,
		prefIDs:      s.PreferenceIDs,
		nutrition:    s.Nutrition,
		prepTime:     s.PrepTime,
		cookTime:     s.CookTime,
		totalTime:    s.TotalTime,
		servings:     s.Servings,
		calories:     s.Calories,
		image:        s.Image,
		status:       s.Status,
		featured:     s.Featured,
		views:        s.Views,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// Snapshot carries the persisted state of a recipe across the
// repository boundary.
type Snapshot struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Instructions  string
	Steps         []Step
	AuthorID      uuid.UUID
	CategoryID    *uuid.UUID
	DifficultyID  *uuid.UUID
	Ingredients   []IngredientLine
	TagIDs        []uuid.UUID
	PreferenceIDs []uuid.UUID
	Nutrition     *NutritionFacts
	PrepTime      *int
	CookTime      *int
	TotalTime     *int
	Servings      *int
	Calories      *int
	Image         string
	Status        Status
	Featured      bool
	Views         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// Title returns the recipe's title
func (r *Recipe) Title() string {
	return r.title
}

// Description returns the recipe's description
func (r *Recipe) Description() string {
	return r.description
}

// Instructions returns the raw instruction blob
func (r *Recipe) Instructions() string {
	return r.instructions
}

// Steps returns the normalized instruction steps
func (r *Recipe) Steps() []Step {
	return r.steps
}

// AuthorID returns the owning user id
func (r *Recipe) AuthorID() uuid.UUID {
	return r.authorID
}

// CategoryID returns the optional category reference
func (r *Recipe) CategoryID() *uuid.UUID {
	return r.categoryID
}

// DifficultyID returns the optional difficulty reference
func (r *Recipe) DifficultyID() *uuid.UUID {
	return r.difficultyID
}

// Ingredients returns the ingredient lines
func (r *Recipe) Ingredients() []IngredientLine {
	return r.ingredients
}

// TagIDs returns the linked tag ids
func (r *Recipe) TagIDs() []uuid.UUID {
	return r.tagIDs
}

// PreferenceIDs returns the linked dietary preference ids
func (r *Recipe) PreferenceIDs() []uuid.UUID {
	return r.prefIDs
}

// Nutrition returns the optional nutrition facts
func (r *Recipe) Nutrition() *NutritionFacts {
	return r.nutrition
}

// PrepTime returns the preparation time in minutes
func (r *Recipe) PrepTime() *int {
	return r.prepTime
}

// CookTime returns the cooking time in minutes
func (r *Recipe) CookTime() *int {
	return r.cookTime
}

// TotalTime returns the derived total time in minutes
func (r *Recipe) TotalTime() *int {
	return r.totalTime
}

// Servings returns the serving count
func (r *Recipe) Servings() *int {
	return r.servings
}

// Calories returns calories per serving
func (r *Recipe) Calories() *int {
	return r.calories
}

// Image returns the stored image filename
func (r *Recipe) Image() string {
	return r.image
}

// Status returns the publication status
func (r *Recipe) Status() Status {
	return r.status
}

// Featured reports whether the recipe is curated onto the home page
func (r *Recipe) Featured() bool {
	return r.featured
}

// Views returns the view count
func (r *Recipe) Views() int {
	return r.views
}

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the recipe was last updated
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

// IsOwnedBy reports whether the given user authored this recipe.
// Every mutation outside the author's own flows must check this first.
func (r *Recipe) IsOwnedBy(userID uuid.UUID) bool {
	return r.authorID == userID
}

// UpdateBasics replaces title, description and the instruction blob.
func (r *Recipe) UpdateBasics(title, description, instructions string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if instructions == "" {
		return ErrInstructionsRequired
	}
	r.title = title
	r.description = description
	r.instructions = instructions
	r.touch()
	return nil
}

// SetTimings sets prep and cook time and derives total time.
// Total is only derived when both components are present.
func (r *Recipe) SetTimings(prepMinutes, cookMinutes *int) error {
	if (prepMinutes != nil && *prepMinutes < 0) || (cookMinutes != nil && *cookMinutes < 0) {
		return ErrNegativeTime
	}
	r.prepTime = prepMinutes
	r.cookTime = cookMinutes
	if prepMinutes != nil && cookMinutes != nil {
		total := *prepMinutes + *cookMinutes
		r.totalTime = &total
	} else {
		r.totalTime = nil
	}
	r.touch()
	return nil
}

// SetServings sets the serving count.
func (r *Recipe) SetServings(servings *int) error {
	if servings != nil && *servings <= 0 {
		return ErrInvalidServings
	}
	r.servings = servings
	r.touch()
	return nil
}

// SetCalories sets calories per serving.
func (r *Recipe) SetCalories(calories *int) {
	r.calories = calories
	r.touch()
}

// Categorize assigns category and difficulty references.
func (r *Recipe) Categorize(categoryID, difficultyID *uuid.UUID) {
	r.categoryID = categoryID
	r.difficultyID = difficultyID
	r.touch()
}

// SetImage records the stored image filename.
func (r *Recipe) SetImage(filename string) {
	r.image = filename
	r.touch()
}

// ReplaceIngredients replaces the ingredient lines, renumbering positions.
func (r *Recipe) ReplaceIngredients(lines []IngredientLine) error {
	for i := range lines {
		if err := lines[i].Validate(); err != nil {
			return err
		}
		lines[i].Position = i + 1
	}
	r.ingredients = lines
	r.touch()
	return nil
}

// ReplaceSteps replaces the normalized instruction steps, renumbering them.
func (r *Recipe) ReplaceSteps(steps []Step) error {
	for i := range steps {
		if err := steps[i].Validate(); err != nil {
			return err
		}
		steps[i].Number = i + 1
	}
	r.steps = steps
	r.touch()
	return nil
}

// SetTags replaces the tag links.
func (r *Recipe) SetTags(tagIDs []uuid.UUID) {
	r.tagIDs = tagIDs
	r.touch()
}

// SetPreferences replaces the dietary preference links.
func (r *Recipe) SetPreferences(prefIDs []uuid.UUID) {
	r.prefIDs = prefIDs
	r.touch()
}

// SetNutrition attaches optional nutrition facts.
func (r *Recipe) SetNutrition(n *NutritionFacts) {
	r.nutrition = n
	r.touch()
}

// SetStatus moves the recipe between draft and published.
func (r *Recipe) SetStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if r.status != status && status == StatusPublished {
		r.addEvent(PublishedEvent{RecipeID: r.id, PublishedAt: time.Now()})
	}
	r.status = status
	r.touch()
	return nil
}

// DerivedSteps returns the normalized steps, or pseudo-steps parsed from
// the instruction blob when no normalized rows exist.
func (r *Recipe) DerivedSteps() []Step {
	if len(r.steps) > 0 {
		return r.steps
	}
	return SplitInstructions(r.instructions)
}

func (r *Recipe) touch() {
	r.updatedAt = time.Now()
}

func (r *Recipe) addEvent(event shared.DomainEvent) {
	r.events = append(r.events, event)
}

// Events returns and clears pending domain events.
func (r *Recipe) Events() []shared.DomainEvent {
	events := r.events
	r.events = nil
	return events
}

func validateTitle(title string) error {
	if len(title) < 3 {
		return ErrTitleTooShort
	}
	if len(title) > 200 {
		return ErrTitleTooLong
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > 2000 {
		return ErrDescriptionTooLong
	}
	return nil
}
