// Package taxonomy holds the reference data recipes are classified by.
// These are plain read-mostly records seeded at startup, not aggregates.
package taxonomy

import "github.com/google/uuid"

// Category groups recipes on browse pages.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	Image       string
}

// Difficulty orders recipes from easy to hard. SortOrder drives the
// display order in filter dropdowns.
type Difficulty struct {
	ID        uuid.UUID
	Name      string
	SortOrder int
}

// Unit is a measurement unit for ingredient quantities.
type Unit struct {
	ID           uuid.UUID
	Name         string
	Abbreviation string
}

// Tag is a free-form label attached to recipes.
type Tag struct {
	ID   uuid.UUID
	Name string
}

// DietaryPreference marks recipes as fitting a diet.
type DietaryPreference struct {
	ID          uuid.UUID
	Name        string
	Description string
}

// Ingredient is a catalog entry, deduplicated by name.
type Ingredient struct {
	ID   uuid.UUID
	Name string
}
