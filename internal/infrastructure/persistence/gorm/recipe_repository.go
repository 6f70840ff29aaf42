package gorm

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/ports/outbound"
)

const excerptLength = 160

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create persists the recipe and all child rows in one transaction.
// Ingredient names are looked up in the catalog and inserted on miss.
// Any child failure rolls the whole recipe back.
func (r *RecipeRepository) Create(ctx context.Context, entity *recipe.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := RecipeToModel(entity)
		ingredients := entity.Ingredients()

		// Child collections are written explicitly below.
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if err := r.writeChildren(tx, entity.ID(), model, ingredients); err != nil {
			return err
		}
		return nil
	})
}

// Update rewrites the recipe row and replaces its child rows.
func (r *RecipeRepository) Update(ctx context.Context, entity *recipe.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := RecipeToModel(entity)
		ingredients := entity.Ingredients()

		result := tx.Model(&RecipeModel{}).Where("id = ?", entity.ID()).
			Omit(clause.Associations).
			Select("*").Omit("id", "created_at", "deleted_at", "views_count", "featured").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return recipe.ErrNotFound
		}

		if err := r.deleteChildren(tx, entity.ID()); err != nil {
			return err
		}
		return r.writeChildren(tx, entity.ID(), model, ingredients)
	})
}

// Delete soft deletes a recipe by ID
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&RecipeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return recipe.ErrNotFound
	}
	return nil
}

// FindByID loads the full recipe aggregate
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel
	result := r.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Preload("Instruction").
		Preload("Tags").
		Preload("Preferences").
		Preload("Nutrition").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrNotFound
		}
		return nil, result.Error
	}
	return ModelToRecipe(&model), nil
}

// summaryRow is the scan target for listing queries.
type summaryRow struct {
	ID             uuid.UUID
	Title          string
	Description    string
	Image          string
	CategoryName   string
	DifficultyName string
	AuthorName     string
	AvgRating      float64
	RatingCount    int
	TotalTime      *int
	Status         string
	Featured       bool
	Views          int
	CreatedAt      time.Time
}

// Search runs the filter/sort query builder. The count query and the
// page query share the same predicate chain so they always agree.
func (r *RecipeRepository) Search(ctx context.Context, criteria outbound.SearchCriteria) ([]outbound.RecipeSummary, int, error) {
	base := r.applyFilters(r.db.WithContext(ctx).Model(&RecipeModel{}), criteria)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []summaryRow
	err := base.Session(&gorm.Session{}).
		Select(`recipes.id, recipes.title, recipes.description, recipes.image,
			COALESCE(categories.name, '') AS category_name,
			COALESCE(difficulty_levels.name, '') AS difficulty_name,
			users.username AS author_name,
			COALESCE(rs.avg_rating, 0) AS avg_rating,
			COALESCE(rs.rating_count, 0) AS rating_count,
			recipes.total_time, recipes.status, recipes.featured,
			recipes.views_count AS views, recipes.created_at`).
		Joins("JOIN users ON users.id = recipes.author_id").
		Joins("LEFT JOIN categories ON categories.id = recipes.category_id").
		Joins("LEFT JOIN difficulty_levels ON difficulty_levels.id = recipes.difficulty_id").
		Joins(`LEFT JOIN (
			SELECT recipe_id, AVG(value) AS avg_rating, COUNT(*) AS rating_count
			FROM ratings GROUP BY recipe_id
		) rs ON rs.recipe_id = recipes.id`).
		Order(orderClause(criteria.Sort)).
		Offset(criteria.Offset()).
		Limit(outbound.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return toSummaries(rows), int(total), nil
}

// applyFilters adds one predicate per present criteria field.
func (r *RecipeRepository) applyFilters(query *gorm.DB, criteria outbound.SearchCriteria) *gorm.DB {
	if criteria.Status != "" {
		query = query.Where("recipes.status = ?", string(criteria.Status))
	}
	if criteria.FeaturedOnly {
		query = query.Where("recipes.featured = ?", true)
	}
	if criteria.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *criteria.AuthorID)
	}
	if criteria.CategoryID != nil {
		query = query.Where("recipes.category_id = ?", *criteria.CategoryID)
	}
	if criteria.DifficultyID != nil {
		query = query.Where("recipes.difficulty_id = ?", *criteria.DifficultyID)
	}
	if criteria.MaxTotalTime != nil {
		query = query.Where("recipes.total_time IS NOT NULL AND recipes.total_time <= ?", *criteria.MaxTotalTime)
	}
	if criteria.Query != nil && strings.TrimSpace(*criteria.Query) != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(*criteria.Query)) + "%"
		query = query.Where("LOWER(recipes.title) LIKE ? OR LOWER(recipes.description) LIKE ?", term, term)
	}
	// Join-table filters use EXISTS so matching rows are never duplicated.
	if criteria.TagID != nil {
		query = query.Where(`EXISTS (
			SELECT 1 FROM recipe_tags rt
			WHERE rt.recipe_id = recipes.id AND rt.tag_id = ?
		)`, *criteria.TagID)
	}
	if criteria.PreferenceID != nil {
		query = query.Where(`EXISTS (
			SELECT 1 FROM recipe_dietary_preferences rdp
			WHERE rdp.recipe_id = recipes.id AND rdp.preference_id = ?
		)`, *criteria.PreferenceID)
	}
	return query
}

// orderClause maps a sort key to SQL. Aggregate sorts tie-break on
// recency so equal rows keep a stable, useful order.
func orderClause(sort outbound.SortKey) string {
	switch sort {
	case outbound.SortOldest:
		return "recipes.created_at ASC"
	case outbound.SortNameAsc:
		return "recipes.title ASC"
	case outbound.SortNameDesc:
		return "recipes.title DESC"
	case outbound.SortRating:
		return "COALESCE(rs.avg_rating, 0) DESC, recipes.created_at DESC"
	case outbound.SortPopularity:
		return "recipes.views_count DESC, recipes.created_at DESC"
	default:
		return "recipes.created_at DESC"
	}
}

// IncrementViews bumps the view counter without touching updated_at
func (r *RecipeRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// UpsertRating writes the rating as one atomic statement keyed on the
// (recipe, user) primary key. Last write wins.
func (r *RecipeRepository) UpsertRating(ctx context.Context, rating recipe.Rating) (outbound.RatingSummary, error) {
	now := time.Now()
	model := RatingModel{
		RecipeID:  rating.RecipeID,
		UserID:    rating.UserID,
		Value:     rating.Value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": rating.Value, "updated_at": now}),
	}).Create(&model).Error
	if err != nil {
		return outbound.RatingSummary{}, err
	}

	return r.RatingSummary(ctx, rating.RecipeID)
}

// RatingSummary computes the rating aggregate for a recipe
func (r *RecipeRepository) RatingSummary(ctx context.Context, recipeID uuid.UUID) (outbound.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int
	}
	err := r.db.WithContext(ctx).Model(&RatingModel{}).
		Select("COALESCE(AVG(value), 0) AS average, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	if err != nil {
		return outbound.RatingSummary{}, err
	}
	return outbound.RatingSummary{Average: row.Average, Count: row.Count}, nil
}

// UserRating returns the user's rating for a recipe, 0 when unrated.
func (r *RecipeRepository) UserRating(ctx context.Context, userID, recipeID uuid.UUID) (int, error) {
	var model RatingModel
	err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return model.Value, nil
}

// ToggleFavorite deletes the favorite row if present, inserts it
// otherwise. The transaction plus the (recipe, user) primary key keeps
// concurrent toggles from double-inserting.
func (r *RecipeRepository) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&FavoriteModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			favorited = false
			return nil
		}

		favorited = true
		return tx.Create(&FavoriteModel{
			RecipeID:  recipeID,
			UserID:    userID,
			CreatedAt: time.Now(),
		}).Error
	})
	return favorited, err
}

// IsFavorited reports whether the user has favorited the recipe
func (r *RecipeRepository) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&FavoriteModel{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error
	return count > 0, err
}

// FindFavorites returns a page of the user's favorited recipes
func (r *RecipeRepository) FindFavorites(ctx context.Context, userID uuid.UUID, page int) ([]outbound.RecipeSummary, int, error) {
	base := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where(`EXISTS (
			SELECT 1 FROM favorites f
			WHERE f.recipe_id = recipes.id AND f.user_id = ?
		)`, userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	criteria := outbound.SearchCriteria{Page: page}
	var rows []summaryRow
	err := base.Session(&gorm.Session{}).
		Select(`recipes.id, recipes.title, recipes.description, recipes.image,
			COALESCE(categories.name, '') AS category_name,
			COALESCE(difficulty_levels.name, '') AS difficulty_name,
			users.username AS author_name,
			COALESCE(rs.avg_rating, 0) AS avg_rating,
			COALESCE(rs.rating_count, 0) AS rating_count,
			recipes.total_time, recipes.status, recipes.featured,
			recipes.views_count AS views, recipes.created_at`).
		Joins("JOIN users ON users.id = recipes.author_id").
		Joins("LEFT JOIN categories ON categories.id = recipes.category_id").
		Joins("LEFT JOIN difficulty_levels ON difficulty_levels.id = recipes.difficulty_id").
		Joins(`LEFT JOIN (
			SELECT recipe_id, AVG(value) AS avg_rating, COUNT(*) AS rating_count
			FROM ratings GROUP BY recipe_id
		) rs ON rs.recipe_id = recipes.id`).
		Order("recipes.created_at DESC").
		Offset(criteria.Offset()).
		Limit(outbound.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return toSummaries(rows), int(total), nil
}

// writeChildren inserts all child rows for a recipe.
func (r *RecipeRepository) writeChildren(tx *gorm.DB, recipeID uuid.UUID, model *RecipeModel, lines []recipe.IngredientLine) error {
	for _, line := range lines {
		ingredientID, err := lookupOrInsertIngredient(tx, line.Name)
		if err != nil {
			return err
		}
		row := RecipeIngredientModel{
			RecipeID:     recipeID,
			IngredientID: ingredientID,
			Quantity:     line.Quantity,
			UnitID:       line.UnitID,
			Notes:        line.Notes,
			Position:     line.Position,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	for i := range model.Instruction {
		if err := tx.Create(&model.Instruction[i]).Error; err != nil {
			return err
		}
	}
	for i := range model.Tags {
		if err := tx.Create(&model.Tags[i]).Error; err != nil {
			return err
		}
	}
	for i := range model.Preferences {
		if err := tx.Create(&model.Preferences[i]).Error; err != nil {
			return err
		}
	}
	if model.Nutrition != nil {
		if err := tx.Create(model.Nutrition).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *RecipeRepository) deleteChildren(tx *gorm.DB, recipeID uuid.UUID) error {
	for _, model := range []interface{}{
		&RecipeIngredientModel{},
		&RecipeInstructionModel{},
		&RecipeTagModel{},
		&RecipePreferenceModel{},
		&NutritionModel{},
	} {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// lookupOrInsertIngredient resolves a catalog ingredient by name,
// creating it when missing. Names are stored lowercased.
func lookupOrInsertIngredient(tx *gorm.DB, name string) (uuid.UUID, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	var existing IngredientModel
	err := tx.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	fresh := IngredientModel{ID: uuid.New(), Name: name}
	if err := tx.Create(&fresh).Error; err != nil {
		return uuid.Nil, err
	}
	return fresh.ID, nil
}

func toSummaries(rows []summaryRow) []outbound.RecipeSummary {
	summaries := make([]outbound.RecipeSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, outbound.RecipeSummary{
			ID:             row.ID,
			Title:          row.Title,
			Excerpt:        excerpt(row.Description),
			Image:          row.Image,
			CategoryName:   row.CategoryName,
			DifficultyName: row.DifficultyName,
			AuthorName:     row.AuthorName,
			AvgRating:      row.AvgRating,
			RatingCount:    row.RatingCount,
			TotalTime:      row.TotalTime,
			Status:         recipe.Status(row.Status),
			Featured:       row.Featured,
			Views:          row.Views,
			CreatedAt:      row.CreatedAt,
		})
	}
	return summaries
}

func excerpt(s string) string {
	if len(s) <= excerptLength {
		return s
	}
	// Back up to a rune boundary so multibyte text never splits.
	boundary := excerptLength
	for boundary > 0 && !utf8.RuneStart(s[boundary]) {
		boundary--
	}
	cut := s[:boundary]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
