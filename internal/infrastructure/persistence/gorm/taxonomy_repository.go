package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/forkful/v1/internal/domain/taxonomy"
	"github.com/forkful/v1/internal/ports/outbound"
)

// TaxonomyRepository serves the seeded reference tables
type TaxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new taxonomy repository
func NewTaxonomyRepository(db *gorm.DB) outbound.TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// Categories returns all categories ordered by name
func (r *TaxonomyRepository) Categories(ctx context.Context) ([]taxonomy.Category, error) {
	var models []CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]taxonomy.Category, 0, len(models))
	for _, m := range models {
		out = append(out, taxonomy.Category{ID: m.ID, Name: m.Name, Description: m.Description, Image: m.Image})
	}
	return out, nil
}

// CategoriesWithCounts pairs categories with their published recipe counts
func (r *TaxonomyRepository) CategoriesWithCounts(ctx context.Context) ([]outbound.CategoryCount, error) {
	var rows []struct {
		CategoryModel
		RecipeCount int
	}
	err := r.db.WithContext(ctx).Model(&CategoryModel{}).
		Select(`categories.*, (
			SELECT COUNT(*) FROM recipes
			WHERE recipes.category_id = categories.id
			AND recipes.status = 'published'
			AND recipes.deleted_at IS NULL
		) AS recipe_count`).
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]outbound.CategoryCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, outbound.CategoryCount{
			Category: taxonomy.Category{
				ID:          row.ID,
				Name:        row.Name,
				Description: row.Description,
				Image:       row.Image,
			},
			RecipeCount: row.RecipeCount,
		})
	}
	return out, nil
}

// Difficulties returns all difficulty levels in display order
func (r *TaxonomyRepository) Difficulties(ctx context.Context) ([]taxonomy.Difficulty, error) {
	var models []DifficultyModel
	if err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]taxonomy.Difficulty, 0, len(models))
	for _, m := range models {
		out = append(out, taxonomy.Difficulty{ID: m.ID, Name: m.Name, SortOrder: m.SortOrder})
	}
	return out, nil
}

// Units returns all measurement units ordered by name
func (r *TaxonomyRepository) Units(ctx context.Context) ([]taxonomy.Unit, error) {
	var models []UnitModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]taxonomy.Unit, 0, len(models))
	for _, m := range models {
		out = append(out, taxonomy.Unit{ID: m.ID, Name: m.Name, Abbreviation: m.Abbreviation})
	}
	return out, nil
}

// Tags returns all tags ordered by name
func (r *TaxonomyRepository) Tags(ctx context.Context) ([]taxonomy.Tag, error) {
	var models []TagModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]taxonomy.Tag, 0, len(models))
	for _, m := range models {
		out = append(out, taxonomy.Tag{ID: m.ID, Name: m.Name})
	}
	return out, nil
}

// DietaryPreferences returns all dietary preferences ordered by name
func (r *TaxonomyRepository) DietaryPreferences(ctx context.Context) ([]taxonomy.DietaryPreference, error) {
	var models []DietaryPreferenceModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]taxonomy.DietaryPreference, 0, len(models))
	for _, m := range models {
		out = append(out, taxonomy.DietaryPreference{ID: m.ID, Name: m.Name, Description: m.Description})
	}
	return out, nil
}
