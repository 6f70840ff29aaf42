// Package webserver provides session management for the web frontend
package webserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/infrastructure/config"
	"github.com/forkful/v1/internal/ports/outbound"
)

const sessionCookie = "forkful_session"

// Session represents a user session. Flash carries a one-shot message
// across a redirect.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Flash     string    `json:"flash"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAuthenticated reports whether the session carries a user.
func (s *Session) IsAuthenticated() bool {
	return s.UserID != ""
}

// UserUUID parses the stored user id.
func (s *Session) UserUUID() (uuid.UUID, bool) {
	id, err := uuid.Parse(s.UserID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// PopFlash returns and clears the flash message.
func (s *Session) PopFlash() string {
	msg := s.Flash
	s.Flash = ""
	return msg
}

// SessionStore persists sessions in a cache backend. With Redis
// configured, sessions survive restarts; the in-memory backend serves
// tests and single-node development.
type SessionStore struct {
	cache  outbound.CacheRepository
	maxAge time.Duration
	secure bool
	logger *zap.Logger
}

// NewSessionStore creates a new session store
func NewSessionStore(cfg *config.Config, cache outbound.CacheRepository, logger *zap.Logger) *SessionStore {
	maxAge := cfg.Auth.SessionMaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &SessionStore{
		cache:  cache,
		maxAge: maxAge,
		secure: cfg.Auth.SecureCookies,
		logger: logger.Named("sessions"),
	}
}

// Get retrieves the session for the request, or nil when absent.
func (s *SessionStore) Get(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	data, err := s.cache.Get(r.Context(), sessionKey(cookie.Value))
	if err != nil {
		return nil
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Warn("Dropping undecodable session", zap.Error(err))
		return nil
	}
	if time.Now().After(session.ExpiresAt) {
		return nil
	}
	return &session
}

// New creates a fresh anonymous session. It fails when the system
// entropy source does, rather than issue a guessable id.
func (s *SessionStore) New() (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(s.maxAge),
	}, nil
}

// Save persists the session and sets the cookie.
func (s *SessionStore) Save(ctx context.Context, w http.ResponseWriter, session *Session) error {
	if session.ID == "" {
		return fmt.Errorf("session has no id")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, sessionKey(session.ID), data, time.Until(session.ExpiresAt)); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
	})
	return nil
}

// Destroy removes the session and expires the cookie.
func (s *SessionStore) Destroy(ctx context.Context, w http.ResponseWriter, session *Session) {
	if err := s.cache.Delete(ctx, sessionKey(session.ID)); err != nil {
		s.logger.Warn("Failed to delete session", zap.Error(err))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func sessionKey(id string) string {
	return "session:" + id
}

// generateSessionID generates a random session ID
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
