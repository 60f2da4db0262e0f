package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ChaCha20Poly1305Cipher implements the AEAD interface using ChaCha20-Poly1305.
//
// It is the alternative envelope algorithm, selected with
// ENCRYPTION_ALGORITHM=chacha20-poly1305. Useful when the server or the
// clients lack hardware AES acceleration, which is common on mobile devices
// talking to the chat endpoints.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305 creates a new ChaCha20-Poly1305 cipher instance.
//
// The key must be exactly 32 bytes. The container derives it from
// ENCRYPTION_SECRET, so an error here normally means a misconfigured secret.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305Cipher, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
	}

	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// Encrypt encrypts plaintext with optional additional authenticated data.
//
// A fresh random 12-byte nonce is generated per call. The envelope service
// prepends it to the ciphertext before base64 encoding, so callers must keep
// the returned nonce with the ciphertext for decryption.
//
// AAD is authenticated but not encrypted. Pass nil when no extra context
// needs binding.
func (c *ChaCha20Poly1305Cipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = c.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt decrypts ciphertext with the nonce and AAD used at encryption time.
//
// The Poly1305 tag is verified before any plaintext is returned, so a
// tampered envelope or a wrong AAD fails here rather than producing garbage.
func (c *ChaCha20Poly1305Cipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
