package http

import (
	"context"

	"github.com/allisson/chatapi/internal/crypto/service"
)

// envelopeKey is a context key type for storing the envelope service.
type envelopeKey struct{}

// WithEnvelope stores the envelope service in the context.
// This is called by the envelope middleware on protected paths so streaming
// handlers can encrypt their own chunks.
func WithEnvelope(ctx context.Context, envelope service.Envelope) context.Context {
	return context.WithValue(ctx, envelopeKey{}, envelope)
}

// GetEnvelope retrieves the envelope service from the context.
// Returns (envelope, true) if present, or (nil, false) if not set.
func GetEnvelope(ctx context.Context) (service.Envelope, bool) {
	envelope, ok := ctx.Value(envelopeKey{}).(service.Envelope)
	return envelope, ok
}
