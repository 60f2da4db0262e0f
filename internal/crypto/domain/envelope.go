package domain

// Envelope is the wire shape for encrypted request and response bodies.
//
// EncryptedData is base64(nonce || ciphertext || tag) produced by a single
// AEAD encryption call. The nonce occupies the first NonceSize bytes of the
// decoded payload.
type Envelope struct {
	EncryptedData string `json:"encrypted_data"`
}
