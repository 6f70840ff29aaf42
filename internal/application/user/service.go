// Package user provides the application layer for user management
package user

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/internal/ports/outbound"
	"github.com/forkful/v1/pkg/errors"
)

// UserService implements account use cases. Authentication is
// session-based; handlers store the returned user id in the session.
type UserService struct {
	userRepo outbound.UserRepository
	activity outbound.ActivityLog
	storage  outbound.StorageService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo outbound.UserRepository,
	activity outbound.ActivityLog,
	storage outbound.StorageService,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		activity: activity,
		storage:  storage,
		validate: validator.New(),
		logger:   logger.Named("user-service"),
	}
}

// RegisterCommand contains user registration data
type RegisterCommand struct {
	Username        string `validate:"required,min=3,max=30"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// LoginCommand contains user login data. Identity may be the username
// or the email address.
type LoginCommand struct {
	Identity string `validate:"required"`
	Password string `validate:"required"`
}

// UpdateProfileCommand contains profile edit data
type UpdateProfileCommand struct {
	UserID     uuid.UUID `validate:"required"`
	Name       string    `validate:"max=100"`
	Bio        string    `validate:"max=1000"`
	AvatarName string
	AvatarData []byte
}

// ChangePasswordCommand contains password change data
type ChangePasswordCommand struct {
	UserID          uuid.UUID `validate:"required"`
	CurrentPassword string    `validate:"required"`
	NewPassword     string    `validate:"required,min=8"`
	ConfirmPassword string    `validate:"required,eqfield=NewPassword"`
}

// Register creates a new user account
func (s *UserService) Register(ctx context.Context, cmd RegisterCommand) (*user.User, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	s.logger.Info("Registering new user", zap.String("username", cmd.Username))

	// Duplicate pre-checks surface as validation errors on the form.
	if existing, err := s.userRepo.FindByUsername(ctx, cmd.Username); err == nil && existing != nil {
		return nil, errors.NewUsernameAlreadyExistsError(cmd.Username)
	}
	if existing, err := s.userRepo.FindByEmail(ctx, strings.ToLower(cmd.Email)); err == nil && existing != nil {
		return nil, errors.NewEmailAlreadyExistsError(cmd.Email)
	}

	newUser, err := user.NewUser(cmd.Username, cmd.Email, cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, errors.NewDatabaseError("create user", err)
	}

	if err := s.activity.Record(ctx, newUser.ID(), "registered", newUser.ID(), "user"); err != nil {
		s.logger.Warn("Failed to record activity", zap.Error(err))
	}

	s.logger.Info("User registered",
		zap.String("user_id", newUser.ID().String()),
		zap.String("username", newUser.Username()),
	)
	return newUser, nil
}

// Login authenticates by username or email
func (s *UserService) Login(ctx context.Context, cmd LoginCommand) (*user.User, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	var account *user.User
	var err error
	if strings.Contains(cmd.Identity, "@") {
		account, err = s.userRepo.FindByEmail(ctx, strings.ToLower(cmd.Identity))
	} else {
		account, err = s.userRepo.FindByUsername(ctx, cmd.Identity)
	}
	if err != nil || account == nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	if !account.IsActive() {
		return nil, errors.NewInvalidCredentialsError()
	}
	if err := account.CheckPassword(cmd.Password); err != nil {
		s.logger.Info("Failed login attempt", zap.String("identity", cmd.Identity))
		return nil, errors.NewInvalidCredentialsError()
	}

	if err := s.userRepo.UpdateLastLogin(ctx, account.ID()); err != nil {
		s.logger.Warn("Failed to record last login", zap.Error(err))
	}

	return account, nil
}

// GetUser loads a user by id
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	account, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.NewUserNotFoundError(id.String())
	}
	return account, nil
}

// UpdateProfile updates name, bio and optionally the avatar
func (s *UserService) UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*user.User, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	account, err := s.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, errors.NewUserNotFoundError(cmd.UserID.String())
	}

	if err := account.UpdateProfile(cmd.Name, cmd.Bio); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if len(cmd.AvatarData) > 0 {
		filename, err := s.storage.Save(ctx, cmd.AvatarName, cmd.AvatarData)
		if err != nil {
			return nil, errors.Wrap(err, "failed to store avatar")
		}
		account.SetAvatar(filename)
	}

	if err := s.userRepo.Update(ctx, account); err != nil {
		return nil, errors.NewDatabaseError("update user", err)
	}
	return account, nil
}

// ChangePassword verifies the current password and sets a new one
func (s *UserService) ChangePassword(ctx context.Context, cmd ChangePasswordCommand) error {
	if err := s.validate.Struct(cmd); err != nil {
		return errors.NewValidationError(err.Error())
	}

	account, err := s.userRepo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return errors.NewUserNotFoundError(cmd.UserID.String())
	}

	if err := account.CheckPassword(cmd.CurrentPassword); err != nil {
		return errors.NewValidationError("current password is incorrect")
	}
	if err := account.UpdatePassword(cmd.NewPassword); err != nil {
		return errors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Update(ctx, account); err != nil {
		return errors.NewDatabaseError("update user", err)
	}

	s.logger.Info("Password changed", zap.String("user_id", cmd.UserID.String()))
	return nil
}
