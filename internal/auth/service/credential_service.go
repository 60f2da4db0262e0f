package service

import (
	"crypto/subtle"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/chatapi/internal/errors"
)

// credentialService implements CredentialService against a single configured
// identity. Passwords are verified via Argon2id hash comparison; plaintext
// passwords are never stored.
type credentialService struct {
	username     string
	passwordHash string
	hasher       *pwdhash.PasswordHasher
}

// NewCredentialService creates a CredentialService for the configured
// username and Argon2id password hash.
func NewCredentialService(username, passwordHash string) CredentialService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &credentialService{
		username:     username,
		passwordHash: passwordHash,
		hasher:       hasher,
	}
}

// Authenticate returns nil when username and password match the configured
// identity. The username comparison is constant-time and the password hash
// is always verified, so the failure mode does not reveal which check failed.
func (s *credentialService) Authenticate(username, password string) error {
	if s.username == "" || s.passwordHash == "" {
		return apperrors.ErrUnauthorized
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1

	passwordMatch, err := s.hasher.Verify([]byte(password), s.passwordHash)
	if err != nil {
		passwordMatch = false
	}

	if !usernameMatch || !passwordMatch {
		return apperrors.ErrUnauthorized
	}

	return nil
}

// HashPassword hashes a plaintext password with Argon2id. Used by the CLI to
// produce the configured password hash.
func HashPassword(password string) (string, error) {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create password hasher")
	}

	hash, err := hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}

	return hash, nil
}
