// Package contact provides the application layer for the contact form.
package contact

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/domain/contact"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/forkful/v1/pkg/errors"
)

// ContactService stores contact form submissions.
type ContactService struct {
	inbox    outbound.ContactInbox
	validate *validator.Validate
	logger   *zap.Logger
}

// NewContactService creates a new contact service
func NewContactService(inbox outbound.ContactInbox, logger *zap.Logger) *ContactService {
	return &ContactService{
		inbox:    inbox,
		validate: validator.New(),
		logger:   logger.Named("contact-service"),
	}
}

// SubmitCommand contains contact form data
type SubmitCommand struct {
	Name    string `validate:"required,max=100"`
	Email   string `validate:"required,email"`
	Subject string `validate:"max=200"`
	Body    string `validate:"required,max=5000"`
	UserID  *uuid.UUID
}

// Submit validates and stores a contact message
func (s *ContactService) Submit(ctx context.Context, cmd SubmitCommand) error {
	if err := s.validate.Struct(cmd); err != nil {
		return errors.NewValidationError(err.Error())
	}

	msg, err := contact.NewMessage(cmd.Name, cmd.Email, cmd.Subject, cmd.Body, cmd.UserID)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	if err := s.inbox.Save(ctx, msg); err != nil {
		return errors.NewDatabaseError("save contact message", err)
	}

	s.logger.Info("Contact message received", zap.String("email", cmd.Email))
	return nil
}
