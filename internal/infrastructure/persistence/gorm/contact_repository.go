package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/forkful/v1/internal/domain/contact"
	"github.com/forkful/v1/internal/ports/outbound"
)

// ContactRepository stores contact form submissions
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) outbound.ContactInbox {
	return &ContactRepository{db: db}
}

// Save stores a contact message
func (r *ContactRepository) Save(ctx context.Context, msg contact.Message) error {
	return r.db.WithContext(ctx).Create(&ContactMessageModel{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Body:      msg.Body,
		UserID:    msg.UserID,
		CreatedAt: msg.CreatedAt,
	}).Error
}
