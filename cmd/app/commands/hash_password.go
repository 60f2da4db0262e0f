package commands

import (
	"fmt"
	"io"

	authService "github.com/allisson/chatapi/internal/auth/service"
	apperrors "github.com/allisson/chatapi/internal/errors"
	customValidation "github.com/allisson/chatapi/internal/validation"
)

// passwordPolicy is the minimum strength accepted for the configured
// credential.
var passwordPolicy = customValidation.PasswordStrength{
	MinLength:     8,
	RequireUpper:  true,
	RequireLower:  true,
	RequireNumber: true,
}

// RunHashPassword hashes a plaintext password with Argon2id and writes the
// result to w. The output is the value for AUTH_PASSWORD_HASH.
func RunHashPassword(w io.Writer, password string) error {
	if password == "" {
		return apperrors.New("password must not be empty")
	}
	if err := passwordPolicy.Validate(password); err != nil {
		return customValidation.WrapValidationError(err)
	}

	hash, err := authService.HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, hash); err != nil {
		return fmt.Errorf("failed to write hash: %w", err)
	}

	return nil
}
