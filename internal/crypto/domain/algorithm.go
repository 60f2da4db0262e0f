// Package domain defines the core types for the envelope encryption layer.
package domain

// Algorithm represents the AEAD algorithm used for envelope encryption.
//
// Both supported algorithms provide Authenticated Encryption with Associated
// Data, ensuring confidentiality and tamper detection in one primitive.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	// Preferred on CPUs with AES-NI hardware acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption
	// algorithm. Constant-time in software, preferred without AES-NI.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the required key length in bytes for both algorithms.
	KeySize = 32

	// NonceSize is the nonce length in bytes for both algorithms.
	NonceSize = 12
)
