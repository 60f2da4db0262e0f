package service

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	cryptoDomain "github.com/allisson/chatapi/internal/crypto/domain"
)

// EnvelopeService seals and opens wire envelopes with a key derived once
// from the process-wide encryption secret.
//
// The key is derived as SHA-256(secret), giving a deterministic 32-byte key
// without storing the secret itself. The service is stateless after
// construction and safe for concurrent use.
type EnvelopeService struct {
	cipher AEAD
}

// NewEnvelopeService derives the encryption key from secret and prepares the
// AEAD cipher for the configured algorithm.
func NewEnvelopeService(
	secret string,
	alg cryptoDomain.Algorithm,
	aeadManager AEADManager,
) (*EnvelopeService, error) {
	if secret == "" {
		return nil, cryptoDomain.ErrKeyNotConfigured
	}

	key := DeriveKey(secret)
	defer cryptoDomain.Zero(key)

	cipher, err := aeadManager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	return &EnvelopeService{cipher: cipher}, nil
}

// DeriveKey derives the 32-byte encryption key from the configured secret.
// One-way and deterministic.
func DeriveKey(secret string) []byte {
	key := sha256.Sum256([]byte(secret))
	return key[:]
}

// EncryptJSON serializes v to compact JSON and seals it into an envelope string.
func (s *EnvelopeService) EncryptJSON(v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", cryptoDomain.ErrEncryptionFailed
	}

	ciphertext, nonce, err := s.cipher.Encrypt(plaintext, nil)
	if err != nil {
		return "", cryptoDomain.ErrEncryptionFailed
	}

	payload := make([]byte, 0, len(nonce)+len(ciphertext))
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)

	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt opens an envelope string and returns the raw plaintext bytes.
//
// All failure modes (invalid base64, short payload, authentication failure)
// collapse into ErrDecryptionFailed so callers cannot distinguish them.
func (s *EnvelopeService) Decrypt(envelope string) ([]byte, error) {
	payload, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	if len(payload) < cryptoDomain.NonceSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	nonce := payload[:cryptoDomain.NonceSize]
	ciphertext := payload[cryptoDomain.NonceSize:]

	plaintext, err := s.cipher.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}

// DecryptJSON opens an envelope string and unmarshals the plaintext into v.
func (s *EnvelopeService) DecryptJSON(envelope string, v any) error {
	plaintext, err := s.Decrypt(envelope)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}

	return nil
}

// EncryptResponse seals v into the wire envelope shape.
func (s *EnvelopeService) EncryptResponse(v any) (cryptoDomain.Envelope, error) {
	encrypted, err := s.EncryptJSON(v)
	if err != nil {
		return cryptoDomain.Envelope{}, err
	}

	return cryptoDomain.Envelope{EncryptedData: encrypted}, nil
}
