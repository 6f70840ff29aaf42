// Package user defines the user domain entity
package user

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Domain errors for the user aggregate.
var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// User represents an account in the system
type User struct {
	id           uuid.UUID
	username     string
	email        string
	passwordHash string
	name         string
	bio          string
	avatar       string
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
	lastLoginAt  *time.Time
}

// NewUser creates a new user with validation
func NewUser(username, email, password string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	now := time.Now()
	return &User{
		id:           uuid.New(),
		username:     username,
		email:        strings.ToLower(email),
		passwordHash: string(hashedPassword),
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Snapshot carries the persisted state of a user across the
// repository boundary.
type Snapshot struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Bio          string
	Avatar       string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// Rehydrate rebuilds a user from persisted state without validation.
func Rehydrate(s Snapshot) *User {
	return &User{
		id:           s.ID,
		username:     s.Username,
		email:        s.Email,
		passwordHash: s.PasswordHash,
		name:         s.Name,
		bio:          s.Bio,
		avatar:       s.Avatar,
		isActive:     s.IsActive,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		lastLoginAt:  s.LastLoginAt,
	}
}

// ID returns the user's ID
func (u *User) ID() uuid.UUID {
	return u.id
}

// Username returns the login name
func (u *User) Username() string {
	return u.username
}

// Email returns the user's email
func (u *User) Email() string {
	return u.email
}

// PasswordHash returns the bcrypt hash for persistence
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// Name returns the display name
func (u *User) Name() string {
	return u.name
}

// Bio returns the profile bio
func (u *User) Bio() string {
	return u.bio
}

// Avatar returns the stored avatar filename
func (u *User) Avatar() string {
	return u.avatar
}

// IsActive returns whether the user is active
func (u *User) IsActive() bool {
	return u.isActive
}

// CreatedAt returns when the user registered
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the user was last updated
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// LastLoginAt returns when the user last logged in
func (u *User) LastLoginAt() *time.Time {
	return u.lastLoginAt
}

// CheckPassword verifies if the provided password matches
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password))
}

// UpdatePassword updates the user's password
func (u *User) UpdatePassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	u.passwordHash = string(hashedPassword)
	u.updatedAt = time.Now()
	return nil
}

// UpdateProfile updates the display name and bio.
func (u *User) UpdateProfile(name, bio string) error {
	if len(name) > 100 {
		return errors.New("name too long")
	}
	if len(bio) > 1000 {
		return errors.New("bio too long")
	}
	u.name = name
	u.bio = bio
	u.updatedAt = time.Now()
	return nil
}

// SetAvatar records the stored avatar filename.
func (u *User) SetAvatar(filename string) {
	u.avatar = filename
	u.updatedAt = time.Now()
}

// Deactivate deactivates the user
func (u *User) Deactivate() {
	u.isActive = false
	u.updatedAt = time.Now()
}

// RecordLogin records a login timestamp
func (u *User) RecordLogin() {
	now := time.Now()
	u.lastLoginAt = &now
	u.updatedAt = now
}

// Validation functions
func validateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username must be 3-30 letters, digits or underscores")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(email, "@") {
		return errors.New("invalid email format")
	}
	if len(email) > 255 {
		return errors.New("email too long")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return errors.New("password too long")
	}
	return nil
}
