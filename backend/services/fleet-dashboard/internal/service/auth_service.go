package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"go.uber.org/zap"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
	"fleetdash/backend/services/fleet-dashboard/internal/password"
	"fleetdash/backend/services/fleet-dashboard/internal/repository"
)

// ErrInvalidCredentials represents login failure.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// FallbackUserID is the user id recorded for the configured fallback login.
const FallbackUserID int64 = 0

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.UserAccount, error)
}

// Fallback is an optional username/password pair that always logs in as an
// administrator, whether or not a matching account exists. Demo only.
type Fallback struct {
	Username string
	Password string
}

func (f Fallback) matches(username, pass string) bool {
	if f.Username == "" || f.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(f.Username), []byte(username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(f.Password), []byte(pass)) == 1
	return userOK && passOK
}

// Principal is an authenticated user.
type Principal struct {
	UserID   int64
	Username string
	Admin    bool
}

// AuthService checks login credentials.
type AuthService struct {
	repo     UserRepository
	hasher   password.Hasher
	fallback Fallback
	logger   *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, fallback Fallback, logger *zap.Logger) *AuthService {
	if fallback.Username != "" {
		logger.Warn("fallback admin login is enabled; do not use outside demo environments",
			zap.String("username", fallback.Username))
	}
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		fallback: fallback,
		logger:   logger,
	}
}

// Login checks a stored account first and the fallback pair second.
func (s *AuthService) Login(ctx context.Context, username, pass string) (*Principal, error) {
	if username == "" || pass == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if s.hasher.Compare(user.PasswordHash, pass) == nil {
			s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
			return &Principal{UserID: user.ID, Username: user.Username, Admin: user.IsAdmin}, nil
		}
	case errors.Is(err, repository.ErrUserNotFound):
	default:
		return nil, err
	}

	if s.fallback.matches(username, pass) {
		s.logger.Warn("fallback admin login used", zap.String("username", username))
		return &Principal{UserID: FallbackUserID, Username: username, Admin: true}, nil
	}

	s.logger.Info("login rejected", zap.String("username", username))
	return nil, ErrInvalidCredentials
}
