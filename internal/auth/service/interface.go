// Package service provides token issuance, verification, and credential
// checking for the single configured identity.
package service

import (
	authDomain "github.com/allisson/chatapi/internal/auth/domain"
)

// TokenService issues and verifies signed, time-bound tokens.
type TokenService interface {
	// IssueAccessToken signs a short-lived access token for username.
	IssueAccessToken(username string) (string, error)

	// IssueRefreshToken signs a long-lived refresh token for username.
	IssueRefreshToken(username string) (string, error)

	// IssuePair signs an access and refresh token for username.
	IssuePair(username string) (authDomain.TokenPair, error)

	// Verify validates a token and checks its type matches expected.
	// Signature, format, expiry, and type-mismatch failures all surface as
	// the same generic unauthorized error.
	Verify(token string, expected authDomain.TokenType) (*authDomain.Claims, error)

	// Refresh verifies a refresh token and issues a new access token bound
	// to the same username. The refresh token is not rotated or invalidated.
	Refresh(refreshToken string) (string, error)
}

// CredentialService verifies credentials against the configured identity.
type CredentialService interface {
	// Authenticate returns nil when username and password match the
	// configured identity, and a generic unauthorized error otherwise.
	Authenticate(username, password string) error
}
