package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// UserService manages back-office accounts.
type UserService interface {
	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail retrieves a user by their email address
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// CreateUser creates a new user with the given email, password and role
	CreateUser(ctx context.Context, email, password string, role domain.Role) (*domain.User, error)

	// EnsureUser creates the user unless the email is already registered,
	// in which case the existing account is returned unchanged.
	EnsureUser(ctx context.Context, email, password string, role domain.Role) (*domain.User, bool, error)

	// UpdateUserPassword replaces a user's password
	UpdateUserPassword(ctx context.Context, userID uuid.UUID, newPassword string) error

	// UpdateUserRole changes what a user may do
	UpdateUserRole(ctx context.Context, userID uuid.UUID, role domain.Role) error

	// DeleteUser deletes a user by their ID
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users store.UserStore, logger *slog.Logger) (UserService, error) {
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	return &userService{users: users, logger: componentLogger(logger, "user_service")}, nil
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user by email",
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to retrieve user by email: %w", err)
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to create user with existing email")
		} else {
			log.Error("failed to save user", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created", slog.String("user_id", user.ID.String()), slog.String("role", string(role)))
	return user, nil
}

func (s *userService) EnsureUser(
	ctx context.Context,
	email, password string,
	role domain.Role,
) (*domain.User, bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}
	user, err := s.CreateUser(ctx, email, password, role)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// UpdateUserPassword loads the complete user, sets the plaintext password
// and saves it back. The store hashes the new password.
func (s *userService) UpdateUserPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve user for password update: %w", err)
	}
	user.Password = newPassword
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("user password updated",
		slog.String("user_id", userID.String()))
	return nil
}

func (s *userService) UpdateUserRole(ctx context.Context, userID uuid.UUID, role domain.Role) error {
	if !domain.IsValidRole(role) {
		return domain.ErrInvalidRole
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to retrieve user for role update: %w", err)
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("user deleted", slog.String("user_id", userID.String()))
	return nil
}
