package usecase

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"reporting-service/internal/auth/core/domain"
	"reporting-service/internal/auth/core/ports"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not active")
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Tokens domain.TokenPair
	User   domain.Identity
}

type LoginUseCase struct {
	store  ports.CredentialStorePort
	issuer ports.TokenIssuerPort
}

func NewLoginUseCase(store ports.CredentialStorePort, issuer ports.TokenIssuerPort) *LoginUseCase {
	return &LoginUseCase{store: store, issuer: issuer}
}

// Execute verifies credentials and issues a fresh token pair. The new
// refresh token becomes the only valid one for the user: whatever was
// stored before is revoked by the overwrite.
func (uc *LoginUseCase) Execute(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := uc.store.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != domain.StatusActive {
		return nil, ErrAccountInactive
	}

	pair, err := issuePair(uc.issuer, user.ID)
	if err != nil {
		return nil, err
	}

	if err := uc.store.SaveRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return &LoginResult{
		Tokens: pair,
		User: domain.Identity{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}

func issuePair(issuer ports.TokenIssuerPort, userID string) (domain.TokenPair, error) {
	access, err := issuer.IssueAccess(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := issuer.IssueRefresh(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
