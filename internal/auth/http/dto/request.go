// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/chatapi/internal/validation"
)

// LoginRequest contains the credentials for a token exchange.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(1, 1024),
		),
	)
}

// RefreshRequest contains the refresh token for an access token exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate checks if the refresh request is valid.
func (r *RefreshRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
