package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/chatapi/internal/crypto/domain"
	"github.com/allisson/chatapi/internal/crypto/service"
)

func newTestEnvelope(t *testing.T) service.Envelope {
	t.Helper()

	envelope, err := service.NewEnvelopeService(
		"test-secret",
		cryptoDomain.AESGCM,
		service.NewAEADManager(),
	)
	require.NoError(t, err)

	return envelope
}

func newTestRouter(envelope service.Envelope) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	middleware := NewEnvelopeMiddleware(envelope, nil, slog.New(slog.DiscardHandler))
	router.Use(middleware.Handle())

	router.POST("/api/notes", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad body"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"echo": body["title"]})
	})

	router.GET("/api/conversations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"conversations": []string{"one", "two"}})
	})

	router.GET("/api/conversations/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	router.GET("/api/chat/stream", func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Status(http.StatusOK)
		_, _ = c.Writer.Write([]byte("data: {\"type\":\"conversation_start\"}\n\n"))
		c.Writer.Flush()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

func sealRequest(t *testing.T, envelope service.Envelope, v any) *bytes.Buffer {
	t.Helper()

	sealed, err := envelope.EncryptResponse(v)
	require.NoError(t, err)

	body, err := json.Marshal(sealed)
	require.NoError(t, err)

	return bytes.NewBuffer(body)
}

func openResponse(t *testing.T, envelope service.Envelope, body []byte) map[string]any {
	t.Helper()

	var sealed cryptoDomain.Envelope
	require.NoError(t, json.Unmarshal(body, &sealed))
	require.NotEmpty(t, sealed.EncryptedData)

	var plain map[string]any
	require.NoError(t, envelope.DecryptJSON(sealed.EncryptedData, &plain))

	return plain
}

func TestEnvelopeMiddleware_RequestDecryption(t *testing.T) {
	envelope := newTestEnvelope(t)
	router := newTestRouter(envelope)

	body := sealRequest(t, envelope, map[string]any{"title": "my note"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notes", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	plain := openResponse(t, envelope, w.Body.Bytes())
	assert.Equal(t, "my note", plain["echo"])
}

func TestEnvelopeMiddleware_RequestErrors(t *testing.T) {
	envelope := newTestEnvelope(t)
	router := newTestRouter(envelope)

	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{
			name:          "empty body",
			body:          "",
			expectedError: "encryption_payload_missing",
		},
		{
			name:          "invalid json",
			body:          "{not json",
			expectedError: "encryption_json_invalid",
		},
		{
			name:          "missing encrypted_data field",
			body:          `{"data": "plaintext"}`,
			expectedError: "encryption_format_invalid",
		},
		{
			name:          "undecryptable payload",
			body:          `{"encrypted_data": "bm90IHJlYWwgY2lwaGVydGV4dCBhdCBhbGw="}`,
			expectedError: "decryption_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(
				http.MethodPost,
				"/api/notes",
				bytes.NewBufferString(tt.body),
			)
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedError)
		})
	}
}

func TestEnvelopeMiddleware_ResponseEncryption(t *testing.T) {
	envelope := newTestEnvelope(t)
	router := newTestRouter(envelope)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Length"))

	// Plaintext must not appear on the wire
	assert.NotContains(t, w.Body.String(), "conversations")

	plain := openResponse(t, envelope, w.Body.Bytes())
	assert.Equal(t, []any{"one", "two"}, plain["conversations"])
}

func TestEnvelopeMiddleware_ErrorResponsePassthrough(t *testing.T) {
	envelope := newTestEnvelope(t)
	router := newTestRouter(envelope)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/conversations/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestEnvelopeMiddleware_SSEPassthrough(t *testing.T) {
	envelope := newTestEnvelope(t)
	router := newTestRouter(envelope)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chat/stream", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "conversation_start")
}

func TestEnvelopeMiddleware_UnprotectedPassthrough(t *testing.T) {
	envelope := newTestEnvelope(t)
	router := newTestRouter(envelope)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestEnvelopeMiddleware_MissingConfiguration(t *testing.T) {
	router := newTestRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "encryption_config_error")
}
