package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/careshare/careshare-api/internal/logging"
	"github.com/careshare/careshare-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
)

// Service handles registration and login
type Service struct {
	userStore    UserStore
	tokenService TokenService
	logger       *logging.Logger
	tokenTTL     time.Duration
}

func NewService(userStore UserStore, tokenService TokenService, logger *logging.Logger, tokenTTL time.Duration) *Service {
	return &Service{
		userStore:    userStore,
		tokenService: tokenService,
		logger:       logger,
		tokenTTL:     tokenTTL,
	}
}

// Register creates a new user account. No token is issued at
// registration; the caller logs in afterwards.
//
// There is deliberately no lookup-before-insert: the unique index on
// email makes the store reject a second record, which surfaces as
// user.ErrDuplicateEmail even under concurrent registrations.
func (s *Service) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.userStore.Create(ctx, name, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// Login authenticates a user and returns a session token. An unknown
// email and a wrong password both come back as ErrInvalidCredentials so
// the response never reveals whether the account exists.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	existingUser, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := VerifyPassword(password, existingUser.PasswordHash)
	if err != nil {
		// Structurally broken stored hash. Infrastructure-level; log it,
		// but the client still just sees invalid credentials.
		s.logger.Error("stored password hash is malformed", "email", email, "error", err.Error())
		return "", ErrInvalidCredentials
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(existingUser.Email, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}
