package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"reporting-service/internal/auth/core/ports"
)

var ErrInvalidToken = errors.New("invalid token")

// Issuer signs and verifies HS256 tokens. Access and refresh tokens use
// separate secrets, so one class of token can never pass as the other.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

var _ ports.TokenIssuerPort = (*Issuer)(nil)

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (i *Issuer) IssueAccess(userID string) (string, error) {
	return sign(i.accessSecret, userID, i.accessTTL)
}

// IssueRefresh includes a random jti claim so two rotations within the
// same second still produce distinct tokens; rotation compares the
// stored string byte for byte.
func (i *Issuer) IssueRefresh(userID string) (string, error) {
	return sign(i.refreshSecret, userID, i.refreshTTL)
}

func (i *Issuer) VerifyAccess(token string) (string, error) {
	return verify(i.accessSecret, token)
}

func (i *Issuer) VerifyRefresh(token string) (string, error) {
	return verify(i.refreshSecret, token)
}

func sign(secret []byte, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func verify(secret []byte, token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
