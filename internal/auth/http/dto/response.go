package dto

import (
	authDomain "github.com/allisson/chatapi/internal/auth/domain"
)

// TokenPairResponse is the result of a successful credential exchange.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AccessTokenResponse is the result of a successful refresh exchange.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse describes the authenticated identity.
type UserResponse struct {
	Username      string `json:"username"`
	Authenticated bool   `json:"authenticated"`
}

// MessageResponse carries a simple confirmation message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MapTokenPairToResponse converts a domain token pair to an API response.
func MapTokenPairToResponse(pair authDomain.TokenPair) TokenPairResponse {
	return TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
}
