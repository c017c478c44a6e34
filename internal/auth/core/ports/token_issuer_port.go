package ports

type TokenIssuerPort interface {
	IssueAccess(userID string) (string, error)
	IssueRefresh(userID string) (string, error)

	// Verify methods return the user id the token was issued for, or
	// an error for any forged, malformed or expired token.
	VerifyAccess(token string) (string, error)
	VerifyRefresh(token string) (string, error)
}
