package recipe

import "errors"

// Domain errors for the recipe aggregate.
var (
	ErrTitleTooShort        = errors.New("recipe title must be at least 3 characters")
	ErrTitleTooLong         = errors.New("recipe title cannot exceed 200 characters")
	ErrDescriptionTooLong   = errors.New("recipe description cannot exceed 2000 characters")
	ErrInstructionsRequired = errors.New("recipe instructions are required")
	ErrInvalidStatus        = errors.New("invalid recipe status")
	ErrNegativeTime         = errors.New("time values cannot be negative")
	ErrInvalidServings      = errors.New("servings must be greater than zero")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrEmptyComment         = errors.New("comment cannot be empty")
	ErrCommentTooLong       = errors.New("comment cannot exceed 2000 characters")
	ErrNotFound             = errors.New("recipe not found")
	ErrNotOwner             = errors.New("recipe does not belong to this user")
)
