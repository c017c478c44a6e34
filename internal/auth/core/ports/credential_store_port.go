package ports

import (
	"context"
	"errors"

	"reporting-service/internal/auth/core/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email address is already registered")
)

type CredentialStorePort interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error

	// SaveRefreshToken overwrites the single refresh token on record
	// for the user, revoking whatever was stored before.
	SaveRefreshToken(ctx context.Context, userID, token string) error

	// SwapRefreshToken replaces the stored refresh token only if it
	// still equals old. Returns false when another rotation won the
	// race or the token was already revoked.
	SwapRefreshToken(ctx context.Context, userID, old, next string) (bool, error)
}
