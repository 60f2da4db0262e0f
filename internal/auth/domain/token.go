// Package domain defines the core types for authentication and token management.
package domain

// TokenType identifies the purpose of a signed token.
//
// A token of one type is accepted only by verification paths requiring
// exactly that type. An access token never satisfies a refresh check and
// vice versa.
type TokenType string

const (
	// AccessToken is a short-lived token carried on every authenticated request.
	AccessToken TokenType = "access"

	// RefreshToken is a long-lived token exchanged for new access tokens.
	// Carries a unique id (jti). There is no server-side revocation list;
	// validity is purely a function of signature and expiry.
	RefreshToken TokenType = "refresh"
)

// Claims is the verified content of a token.
type Claims struct {
	Username string
	Type     TokenType
}

// TokenPair is the result of a successful credential exchange.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
