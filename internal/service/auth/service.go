package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/store"
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Service authenticates back-office users.
type Service interface {
	// Login checks the credentials and issues a token pair.
	// Returns ErrInvalidCredentials for an unknown email or a wrong password.
	Login(ctx context.Context, email, password string) (*TokenPair, error)

	// Refresh exchanges a valid refresh token for a new token pair. The
	// role is re-read from the store so demoted users lose access.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authService struct {
	users    store.UserStore
	jwt      JWTService
	verifier PasswordVerifier
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates an authentication Service.
func NewService(users store.UserStore, jwtService JWTService, verifier PasswordVerifier, logger *slog.Logger) (Service, error) {
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if jwtService == nil {
		return nil, errors.New("jwt service cannot be nil")
	}
	if verifier == nil {
		verifier = NewBcryptVerifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		users:    users,
		jwt:      jwtService,
		verifier: verifier,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Login implements Service.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login with unknown email")
			_ = s.verifier.Compare(decoyHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return pair, nil
}

// Refresh implements Service.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return s.issue(ctx, user.ID, user.Role)
}

func (s *authService) issue(ctx context.Context, userID uuid.UUID, role domain.Role) (*TokenPair, error) {
	access, err := s.jwt.GenerateToken(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    s.now().Add(s.jwt.AccessTokenLifetime()).UTC(),
	}, nil
}
