package auth

import (
	"context"
	"time"

	"github.com/careshare/careshare-api/internal/user"
)

// UserStore is the slice of the user repository the auth service needs
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// TokenService defines the interface for token creation and validation
type TokenService interface {
	CreateToken(email string, ttl time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}
