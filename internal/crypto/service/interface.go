// Package service implements the envelope encryption primitives used to
// protect request and response bodies and streamed chat chunks.
package service

import (
	cryptoDomain "github.com/allisson/chatapi/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Envelope seals and opens the opaque envelopes carried on the wire.
//
// Implementations hold the process-wide derived key and must be safe for
// concurrent use.
type Envelope interface {
	// EncryptJSON serializes v to compact JSON and seals it into an envelope string.
	EncryptJSON(v any) (string, error)

	// DecryptJSON opens an envelope string and unmarshals the plaintext into v.
	DecryptJSON(envelope string, v any) error

	// Decrypt opens an envelope string and returns the raw plaintext bytes.
	Decrypt(envelope string) ([]byte, error)

	// EncryptResponse seals v into the wire envelope shape.
	EncryptResponse(v any) (cryptoDomain.Envelope, error)
}
