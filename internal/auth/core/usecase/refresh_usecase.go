package usecase

import (
	"context"
	"errors"

	"reporting-service/internal/auth/core/domain"
	"reporting-service/internal/auth/core/ports"
)

// ErrInvalidRefreshToken deliberately covers every refresh failure:
// forged, expired and already-rotated tokens are indistinguishable to
// the caller, so session state cannot be probed.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type RefreshUseCase struct {
	store  ports.CredentialStorePort
	issuer ports.TokenIssuerPort
}

func NewRefreshUseCase(store ports.CredentialStorePort, issuer ports.TokenIssuerPort) *RefreshUseCase {
	return &RefreshUseCase{store: store, issuer: issuer}
}

// Execute rotates a refresh token. Cryptographic verification runs
// first, then the stored-value swap; the swap is what enforces
// single-use, since the signature stays valid for the whole window.
// The swap is conditional on the presented token so a racing rotation
// for the same user loses cleanly instead of resurrecting it.
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	userID, err := uc.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	pair, err := issuePair(uc.issuer, userID)
	if err != nil {
		return nil, err
	}

	swapped, err := uc.store.SwapRefreshToken(ctx, userID, refreshToken, pair.RefreshToken)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !swapped {
		return nil, ErrInvalidRefreshToken
	}

	return &pair, nil
}
