// Package http provides the envelope encryption middleware for protected routes.
package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/chatapi/internal/crypto/service"
	"github.com/allisson/chatapi/internal/httputil"
)

// DefaultProtectedPrefixes are the path prefixes whose request and response
// bodies travel inside encrypted envelopes.
var DefaultProtectedPrefixes = []string{
	"/api/chat",
	"/api/conversations",
	"/api/notes",
}

// EnvelopeMiddleware decrypts inbound bodies and encrypts outbound JSON
// bodies on protected paths.
//
// Streaming responses (text/event-stream) pass through untouched. Their
// payloads are encrypted chunk-by-chunk by the producer, which retrieves the
// envelope service from the request context.
type EnvelopeMiddleware struct {
	envelope service.Envelope
	prefixes []string
	logger   *slog.Logger
}

// NewEnvelopeMiddleware creates an EnvelopeMiddleware. A nil envelope marks
// the encryption layer as misconfigured and fails every protected request.
func NewEnvelopeMiddleware(
	envelope service.Envelope,
	prefixes []string,
	logger *slog.Logger,
) *EnvelopeMiddleware {
	if len(prefixes) == 0 {
		prefixes = DefaultProtectedPrefixes
	}

	return &EnvelopeMiddleware{
		envelope: envelope,
		prefixes: prefixes,
		logger:   logger,
	}
}

// Handle returns the gin middleware function.
func (m *EnvelopeMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.requiresEncryption(c.Request.URL.Path) {
			c.Next()
			return
		}

		if m.envelope == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, httputil.ErrorResponse{
				Error:   "encryption_config_error",
				Message: "Encryption is not configured",
			})
			return
		}

		// Expose the envelope service so streaming handlers can encrypt
		// their own chunks.
		c.Request = c.Request.WithContext(WithEnvelope(c.Request.Context(), m.envelope))

		if hasBody(c.Request.Method) {
			if !m.decryptRequest(c) {
				return
			}
		}

		writer := &envelopeWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		m.encryptResponse(c, writer)
		c.Writer = writer.ResponseWriter
	}
}

func (m *EnvelopeMiddleware) requiresEncryption(path string) bool {
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// decryptRequest opens the inbound envelope and replaces the request body
// with the decrypted plaintext. Returns false if the request was aborted.
func (m *EnvelopeMiddleware) decryptRequest(c *gin.Context) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, httputil.ErrorResponse{
			Error:   "encryption_payload_missing",
			Message: "Encrypted payload required",
		})
		return false
	}

	if len(body) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, httputil.ErrorResponse{
			Error:   "encryption_payload_missing",
			Message: "Encrypted payload required",
		})
		return false
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, httputil.ErrorResponse{
			Error:   "encryption_json_invalid",
			Message: "Invalid JSON in request body",
		})
		return false
	}

	rawEnvelope, ok := payload["encrypted_data"]
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, httputil.ErrorResponse{
			Error:   "encryption_format_invalid",
			Message: "Payload must contain 'encrypted_data' field",
		})
		return false
	}

	var envelope string
	if err := json.Unmarshal(rawEnvelope, &envelope); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, httputil.ErrorResponse{
			Error:   "encryption_format_invalid",
			Message: "Payload must contain 'encrypted_data' field",
		})
		return false
	}

	plaintext, err := m.envelope.Decrypt(envelope)
	if err != nil {
		m.logger.Warn("request decryption failed", slog.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusBadRequest, httputil.ErrorResponse{
			Error:   "decryption_failed",
			Message: "Invalid encrypted data",
		})
		return false
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(plaintext))
	c.Request.ContentLength = int64(len(plaintext))

	return true
}

// encryptResponse seals the buffered response body for successful JSON
// responses. Non-success and streaming responses are forwarded as-is.
func (m *EnvelopeMiddleware) encryptResponse(c *gin.Context, writer *envelopeWriter) {
	if writer.streaming {
		return
	}

	status := writer.statusCode()

	if status != http.StatusOK && status != http.StatusCreated {
		writer.flushPlain(status)
		return
	}

	var plain any
	if err := json.Unmarshal(writer.body.Bytes(), &plain); err != nil {
		m.failResponse(c, writer, err)
		return
	}

	sealed, err := m.envelope.EncryptResponse(plain)
	if err != nil {
		m.failResponse(c, writer, err)
		return
	}

	encoded, err := json.Marshal(sealed)
	if err != nil {
		m.failResponse(c, writer, err)
		return
	}

	header := writer.Header()
	header.Del("Content-Length")
	header.Set("Content-Type", "application/json")
	writer.ResponseWriter.WriteHeader(status)
	_, _ = writer.ResponseWriter.Write(encoded)
}

// failResponse replaces the buffered payload with a generic failure body.
// The plaintext response is never sent on a partial encryption failure.
func (m *EnvelopeMiddleware) failResponse(c *gin.Context, writer *envelopeWriter, err error) {
	m.logger.Error("response encryption failed",
		slog.String("path", c.Request.URL.Path),
		slog.Any("error", err),
	)

	body, _ := json.Marshal(httputil.ErrorResponse{
		Error:   "response_encryption_failed",
		Message: "Failed to encrypt response",
	})

	header := writer.Header()
	header.Del("Content-Length")
	header.Set("Content-Type", "application/json")
	writer.ResponseWriter.WriteHeader(http.StatusInternalServerError)
	_, _ = writer.ResponseWriter.Write(body)
}

// envelopeWriter buffers non-streaming response bodies so the middleware can
// replace them after the handler returns. Once an SSE content type is seen,
// it switches to passthrough mode permanently.
type envelopeWriter struct {
	gin.ResponseWriter
	body      *bytes.Buffer
	status    int
	streaming bool
}

func (w *envelopeWriter) isStream() bool {
	return strings.Contains(w.Header().Get("Content-Type"), "text/event-stream")
}

func (w *envelopeWriter) WriteHeader(code int) {
	if w.streaming {
		w.ResponseWriter.WriteHeader(code)
		return
	}

	if w.isStream() {
		w.streaming = true
		w.ResponseWriter.WriteHeader(code)
		return
	}

	w.status = code
}

func (w *envelopeWriter) Write(b []byte) (int, error) {
	if w.streaming {
		return w.ResponseWriter.Write(b)
	}

	if w.isStream() {
		w.streaming = true
		if w.status != 0 {
			w.ResponseWriter.WriteHeader(w.status)
		}
		return w.ResponseWriter.Write(b)
	}

	return w.body.Write(b)
}

func (w *envelopeWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush forwards only in streaming mode. Buffered bodies are written once,
// after encryption.
func (w *envelopeWriter) Flush() {
	if w.streaming {
		w.ResponseWriter.Flush()
	}
}

func (w *envelopeWriter) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// flushPlain forwards the buffered body unchanged.
func (w *envelopeWriter) flushPlain(status int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(status)
	_, _ = w.ResponseWriter.Write(w.body.Bytes())
}
