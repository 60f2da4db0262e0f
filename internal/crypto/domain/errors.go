package domain

import (
	"github.com/allisson/chatapi/internal/errors"
)

// Envelope encryption error definitions.
//
// These wrap the shared domain errors so the HTTP layer can map them to
// status codes without inspecting messages.
var (
	// ErrUnsupportedAlgorithm indicates the configured AEAD algorithm is unknown.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrKeyNotConfigured indicates no encryption secret was configured.
	// Requests to protected paths fail before the body is touched.
	ErrKeyNotConfigured = errors.New("encryption key not configured")

	// ErrDecryptionFailed indicates an envelope could not be opened.
	//
	// Covers short payloads, authentication failures, and malformed decrypted
	// data. The cause is deliberately collapsed into one error so responses
	// cannot be used as a decryption oracle.
	ErrDecryptionFailed = errors.ErrDecryptionFailed

	// ErrEncryptionFailed indicates a response body could not be sealed.
	// The plaintext must never be sent when this occurs.
	ErrEncryptionFailed = errors.New("encryption failed")
)
