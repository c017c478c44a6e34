package domain

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Status       string
	RefreshToken string
}

// Identity is the minimal user shape returned to clients.
type Identity struct {
	ID    string
	Name  string
	Email string
}

// TokenPair couples a short-lived access token with the long-lived
// rotating refresh token issued alongside it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
