package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/chatapi/internal/crypto/domain"
)

func newTestEnvelopeService(t *testing.T) *EnvelopeService {
	t.Helper()

	svc, err := NewEnvelopeService("test-secret", cryptoDomain.AESGCM, NewAEADManager())
	require.NoError(t, err)

	return svc
}

func TestNewEnvelopeService(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		svc, err := NewEnvelopeService("secret", cryptoDomain.AESGCM, NewAEADManager())
		assert.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("chacha20-poly1305 algorithm", func(t *testing.T) {
		svc, err := NewEnvelopeService("secret", cryptoDomain.ChaCha20, NewAEADManager())
		assert.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("missing secret", func(t *testing.T) {
		svc, err := NewEnvelopeService("", cryptoDomain.AESGCM, NewAEADManager())
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyNotConfigured)
		assert.Nil(t, svc)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		svc, err := NewEnvelopeService("secret", cryptoDomain.Algorithm("des"), NewAEADManager())
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
		assert.Nil(t, svc)
	})
}

func TestDeriveKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, DeriveKey("secret"), DeriveKey("secret"))
	})

	t.Run("32 bytes", func(t *testing.T) {
		assert.Len(t, DeriveKey("secret"), cryptoDomain.KeySize)
	})

	t.Run("different secrets yield different keys", func(t *testing.T) {
		assert.NotEqual(t, DeriveKey("secret-a"), DeriveKey("secret-b"))
	})
}

func TestEnvelopeService_RoundTrip(t *testing.T) {
	svc := newTestEnvelopeService(t)

	tests := []struct {
		name  string
		value map[string]any
	}{
		{
			name:  "simple object",
			value: map[string]any{"message": "hello"},
		},
		{
			name: "nested object",
			value: map[string]any{
				"conversation_id": "abc-123",
				"references": []any{
					map[string]any{"title": "Doc", "url": "https://example.com"},
				},
			},
		},
		{
			name:  "empty object",
			value: map[string]any{},
		},
		{
			name:  "unicode content",
			value: map[string]any{"message": "olá, 世界 🌍"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := svc.EncryptJSON(tt.value)
			require.NoError(t, err)
			assert.NotEmpty(t, envelope)

			var decrypted map[string]any
			err = svc.DecryptJSON(envelope, &decrypted)
			require.NoError(t, err)
			assert.Equal(t, tt.value, decrypted)
		})
	}
}

func TestEnvelopeService_NonceUniqueness(t *testing.T) {
	svc := newTestEnvelopeService(t)

	value := map[string]any{"message": "same input"}

	envelope1, err := svc.EncryptJSON(value)
	require.NoError(t, err)
	envelope2, err := svc.EncryptJSON(value)
	require.NoError(t, err)

	assert.NotEqual(t, envelope1, envelope2)
}

func TestEnvelopeService_DecryptFailures(t *testing.T) {
	svc := newTestEnvelopeService(t)

	tests := []struct {
		name     string
		envelope string
	}{
		{
			name:     "invalid base64",
			envelope: "not base64!!!",
		},
		{
			name:     "payload shorter than nonce",
			envelope: base64.StdEncoding.EncodeToString([]byte("short")),
		},
		{
			name:     "empty envelope",
			envelope: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plaintext, err := svc.Decrypt(tt.envelope)
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
			assert.Nil(t, plaintext)
		})
	}
}

func TestEnvelopeService_TamperDetection(t *testing.T) {
	svc := newTestEnvelopeService(t)

	envelope, err := svc.EncryptJSON(map[string]any{"message": "sensitive"})
	require.NoError(t, err)

	payload, err := base64.StdEncoding.DecodeString(envelope)
	require.NoError(t, err)

	// Flip one bit in the ciphertext
	payload[len(payload)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(payload)

	_, err = svc.Decrypt(tampered)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestEnvelopeService_WrongKey(t *testing.T) {
	svcA, err := NewEnvelopeService("secret-a", cryptoDomain.AESGCM, NewAEADManager())
	require.NoError(t, err)
	svcB, err := NewEnvelopeService("secret-b", cryptoDomain.AESGCM, NewAEADManager())
	require.NoError(t, err)

	envelope, err := svcA.EncryptJSON(map[string]any{"message": "for A only"})
	require.NoError(t, err)

	_, err = svcB.Decrypt(envelope)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestEnvelopeService_DecryptJSONInvalidPlaintext(t *testing.T) {
	svc := newTestEnvelopeService(t)

	// Seal raw bytes that are not valid JSON through the cipher directly
	envelope, err := svc.EncryptJSON("just a string")
	require.NoError(t, err)

	var target map[string]any
	err = svc.DecryptJSON(envelope, &target)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestEnvelopeService_EncryptResponse(t *testing.T) {
	svc := newTestEnvelopeService(t)

	response, err := svc.EncryptResponse(map[string]any{"id": "conv-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, response.EncryptedData)

	var decrypted map[string]any
	err = svc.DecryptJSON(response.EncryptedData, &decrypted)
	require.NoError(t, err)
	assert.Equal(t, "conv-1", decrypted["id"])
}
