// Package http provides HTTP handlers for the streaming chat pipeline and
// conversation management. Chat responses stream as server-sent events with
// per-chunk envelope encryption.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/chatapi/internal/chat/http/dto"
	chatUseCase "github.com/allisson/chatapi/internal/chat/usecase"
	cryptoHTTP "github.com/allisson/chatapi/internal/crypto/http"
	"github.com/allisson/chatapi/internal/httputil"
	customValidation "github.com/allisson/chatapi/internal/validation"
)

// ChatHandler handles HTTP requests for chat streaming.
type ChatHandler struct {
	streamUseCase       chatUseCase.StreamUseCase
	conversationUseCase chatUseCase.ConversationUseCase
	logger              *slog.Logger
}

// NewChatHandler creates a new chat handler with required dependencies.
func NewChatHandler(
	streamUseCase chatUseCase.StreamUseCase,
	conversationUseCase chatUseCase.ConversationUseCase,
	logger *slog.Logger,
) *ChatHandler {
	return &ChatHandler{
		streamUseCase:       streamUseCase,
		conversationUseCase: conversationUseCase,
		logger:              logger,
	}
}

// StartChatHandler starts a new conversation with a streaming response.
// POST /api/chat
func (h *ChatHandler) StartChatHandler(c *gin.Context) {
	h.handleChat(c, nil)
}

// ContinueChatHandler continues an existing conversation with a streaming
// response. The conversation must exist before the stream starts.
// POST /api/chat/:conversation_id
func (h *ChatHandler) ContinueChatHandler(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid conversation id"), h.logger)
		return
	}
	h.handleChat(c, &conversationID)
}

func (h *ChatHandler) handleChat(c *gin.Context, conversationID *uuid.UUID) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	envelope, ok := cryptoHTTP.GetEnvelope(c.Request.Context())
	if !ok {
		httputil.HandleBadRequestGin(c, fmt.Errorf("encrypted payload required"), h.logger)
		return
	}

	events, err := h.streamUseCase.Stream(c.Request.Context(), chatUseCase.StreamInput{
		ConversationID: conversationID,
		Message:        req.Message,
		EnableSearch:   req.EnableSearch,
		Model:          req.Model,
		Envelope:       envelope,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			h.logger.Error("failed to marshal stream event", "error", err)
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		c.Writer.Flush()
	}
}
