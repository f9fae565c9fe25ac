package services

import (
	"context"
	"errors"
	"time"

	"github.com/themizzi/swaglabs-e2e/internal/models"
	"go.uber.org/zap"
)

// Login errors
var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidCredentials = errors.New("username and password do not match any user")
	ErrLockedOut          = errors.New("user has been locked out")
)

// LoginMessage returns the text shown on the login form for a login error
func LoginMessage(err error) string {
	switch {
	case errors.Is(err, ErrUsernameRequired):
		return "Epic sadface: Username is required"
	case errors.Is(err, ErrPasswordRequired):
		return "Epic sadface: Password is required"
	case errors.Is(err, ErrLockedOut):
		return "Epic sadface: Sorry, this user has been locked out."
	case errors.Is(err, ErrInvalidCredentials):
		return "Epic sadface: Username and password do not match any user in this service"
	default:
		return "Epic sadface: Something went wrong, please try again"
	}
}

// AccessDeniedMessage is shown when a protected page is requested without a session
func AccessDeniedMessage(path string) string {
	return "Epic sadface: You can only access '" + path + "' when you are logged in."
}

// AuthService checks storefront credentials
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (models.Account, error)
	Account(username string) (models.Account, error)
}

// AuthServiceImpl implements AuthService against the catalog accounts
type AuthServiceImpl struct {
	catalog     *models.Catalog
	glitchDelay time.Duration
	logger      *zap.Logger
}

// NewAuthService creates a new auth service. Accounts with the glitch
// behavior are delayed by glitchDelay on every login.
func NewAuthService(catalog *models.Catalog, glitchDelay time.Duration, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		catalog:     catalog,
		glitchDelay: glitchDelay,
		logger:      logger,
	}
}

// Authenticate validates the credentials in the order the login form reports them
func (s *AuthServiceImpl) Authenticate(ctx context.Context, username, password string) (models.Account, error) {
	if username == "" {
		return models.Account{}, ErrUsernameRequired
	}
	if password == "" {
		return models.Account{}, ErrPasswordRequired
	}

	account, err := s.catalog.Account(username)
	if err != nil || account.Password != password {
		s.logger.Info("login rejected", zap.String("username", username))
		return models.Account{}, ErrInvalidCredentials
	}
	if account.IsLocked() {
		s.logger.Info("login locked out", zap.String("username", username))
		return models.Account{}, ErrLockedOut
	}

	if account.Behavior == models.BehaviorGlitch && s.glitchDelay > 0 {
		timer := time.NewTimer(s.glitchDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.Account{}, ctx.Err()
		case <-timer.C:
		}
	}

	return account, nil
}

// Account returns a known, unlocked account. It backs session cookie checks.
func (s *AuthServiceImpl) Account(username string) (models.Account, error) {
	account, err := s.catalog.Account(username)
	if err != nil {
		return models.Account{}, err
	}
	if account.IsLocked() {
		return models.Account{}, ErrLockedOut
	}
	return account, nil
}
