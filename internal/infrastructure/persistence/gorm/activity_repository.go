package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/v1/internal/ports/outbound"
)

// ActivityRepository appends rows to the user activity feed
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) outbound.ActivityLog {
	return &ActivityRepository{db: db}
}

// Record appends an activity row
func (r *ActivityRepository) Record(ctx context.Context, userID uuid.UUID, activityType string, entityID uuid.UUID, entityType string) error {
	return r.db.WithContext(ctx).Create(&ActivityModel{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: activityType,
		EntityID:     entityID,
		EntityType:   entityType,
		CreatedAt:    time.Now(),
	}).Error
}
