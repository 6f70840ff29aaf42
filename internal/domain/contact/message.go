// Package contact defines the contact form message.
package contact

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a write-only contact inbox entry. UserID is set when a
// logged-in user submits the form.
type Message struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Body      string
	UserID    *uuid.UUID
	CreatedAt time.Time
}

// NewMessage creates a validated contact message.
func NewMessage(name, email, subject, body string, userID *uuid.UUID) (Message, error) {
	name = strings.TrimSpace(name)
	body = strings.TrimSpace(body)
	if name == "" {
		return Message{}, errors.New("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return Message{}, errors.New("a valid email is required")
	}
	if body == "" {
		return Message{}, errors.New("message body is required")
	}
	if len(body) > 5000 {
		return Message{}, errors.New("message too long")
	}
	return Message{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Subject:   strings.TrimSpace(subject),
		Body:      body,
		UserID:    userID,
		CreatedAt: time.Now(),
	}, nil
}
