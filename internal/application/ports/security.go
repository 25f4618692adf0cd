package ports

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// TokenIssuer issues and validates signed access tokens.
type TokenIssuer interface {
	IssueAccessToken(userID, roleCode string, expiresInSeconds int64) (string, error)
	ValidateAccessToken(tokenString string) (userID, roleCode string, err error)
}
