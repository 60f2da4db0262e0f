package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/chatapi/internal/crypto/domain"
	cryptoHTTP "github.com/allisson/chatapi/internal/crypto/http"
	cryptoService "github.com/allisson/chatapi/internal/crypto/service"
)

// AEADManager returns the AEAD cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// Envelope returns the envelope encryption service.
func (c *Container) Envelope() (cryptoService.Envelope, error) {
	var err error
	c.envelopeInit.Do(func() {
		c.envelope, err = c.initEnvelope()
		if err != nil {
			c.initErrors["envelope"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelope"]; exists {
		return nil, storedErr
	}
	return c.envelope, nil
}

// EnvelopeMiddleware returns the middleware that moves protected request and
// response bodies through encrypted envelopes.
func (c *Container) EnvelopeMiddleware() (*cryptoHTTP.EnvelopeMiddleware, error) {
	var err error
	c.envelopeMiddlewareInit.Do(func() {
		c.envelopeMiddleware, err = c.initEnvelopeMiddleware()
		if err != nil {
			c.initErrors["envelopeMiddleware"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeMiddleware"]; exists {
		return nil, storedErr
	}
	return c.envelopeMiddleware, nil
}

// initEnvelope creates the envelope service from the configured secret and
// AEAD algorithm.
func (c *Container) initEnvelope() (cryptoService.Envelope, error) {
	alg := cryptoDomain.Algorithm(c.config.EncryptionAlgorithm)

	envelope, err := cryptoService.NewEnvelopeService(
		c.config.EncryptionSecret,
		alg,
		c.AEADManager(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope service: %w", err)
	}
	return envelope, nil
}

// initEnvelopeMiddleware creates the envelope middleware with the default
// protected path prefixes.
func (c *Container) initEnvelopeMiddleware() (*cryptoHTTP.EnvelopeMiddleware, error) {
	envelope, err := c.Envelope()
	if err != nil {
		return nil, err
	}

	return cryptoHTTP.NewEnvelopeMiddleware(envelope, nil, c.Logger()), nil
}
