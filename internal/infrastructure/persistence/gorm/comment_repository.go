package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/v1/internal/domain/recipe"
	"github.com/forkful/v1/internal/ports/outbound"
)

// CommentRepository implements the comment repository interface using GORM
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) outbound.CommentRepository {
	return &CommentRepository{db: db}
}

// Create stores a comment
func (r *CommentRepository) Create(ctx context.Context, c recipe.Comment) error {
	return r.db.WithContext(ctx).Create(CommentToModel(c)).Error
}

// FindByRecipe returns top-level comments, newest first, with the
// author's username preloaded.
func (r *CommentRepository) FindByRecipe(ctx context.Context, recipeID uuid.UUID) ([]recipe.Comment, error) {
	var models []CommentModel
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("recipe_id = ? AND parent_id IS NULL", recipeID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	comments := make([]recipe.Comment, 0, len(models))
	for i := range models {
		comments = append(comments, ModelToComment(&models[i]))
	}
	return comments, nil
}
