package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/chatapi/internal/chat/http/dto"
	chatUseCase "github.com/allisson/chatapi/internal/chat/usecase"
	"github.com/allisson/chatapi/internal/httputil"
	customValidation "github.com/allisson/chatapi/internal/validation"
)

// ConversationHandler handles HTTP requests for conversation management.
type ConversationHandler struct {
	conversationUseCase chatUseCase.ConversationUseCase
	logger              *slog.Logger
}

// NewConversationHandler creates a new conversation handler with required dependencies.
func NewConversationHandler(conversationUseCase chatUseCase.ConversationUseCase, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
		logger:              logger,
	}
}

func (h *ConversationHandler) conversationID(c *gin.Context) (uuid.UUID, bool) {
	conversationID, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid conversation id"), h.logger)
		return uuid.Nil, false
	}
	return conversationID, true
}

// ListHandler lists conversation summaries with pagination and an optional
// starred filter.
// GET /api/conversations?limit=50&offset=0&starred=true
func (h *ConversationHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var starred *bool
	if raw, ok := c.GetQuery("starred"); ok {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid starred parameter"), h.logger)
			return
		}
		starred = &value
	}

	summaries, hasMore, err := h.conversationUseCase.List(c.Request.Context(), limit, offset, starred)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSummariesToListResponse(summaries, hasMore))
}

// GetHandler retrieves a conversation with all of its messages.
// GET /api/conversations/:conversation_id
func (h *ConversationHandler) GetHandler(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	conversation, err := h.conversationUseCase.Get(c.Request.Context(), conversationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, conversation)
}

// StarHandler stars or unstars a conversation.
// POST /api/conversations/:conversation_id/star
func (h *ConversationHandler) StarHandler(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	var req dto.StarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.conversationUseCase.SetStarred(c.Request.Context(), conversationID, *req.Starred); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	action := "unstarred"
	if *req.Starred {
		action = "starred"
	}
	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    map[string]any{"conversation_id": conversationID.String(), "starred": *req.Starred},
		Message: fmt.Sprintf("Conversation %s successfully", action),
	})
}

// RenameHandler changes a conversation title.
// PATCH /api/conversations/:conversation_id/title
func (h *ConversationHandler) RenameHandler(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	var req dto.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	title := strings.TrimSpace(req.Title)
	if err := h.conversationUseCase.Rename(c.Request.Context(), conversationID, title); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    map[string]any{"conversation_id": conversationID.String(), "title": title},
		Message: "Conversation renamed successfully",
	})
}

// DeleteHandler removes a conversation.
// DELETE /api/conversations/:conversation_id
func (h *ConversationHandler) DeleteHandler(c *gin.Context) {
	conversationID, ok := h.conversationID(c)
	if !ok {
		return
	}

	if err := h.conversationUseCase.Delete(c.Request.Context(), conversationID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Conversation deleted successfully",
	})
}

// BulkDeleteNonStarredHandler removes every conversation that is not
// starred.
// DELETE /api/conversations/nonstarred
func (h *ConversationHandler) BulkDeleteNonStarredHandler(c *gin.Context) {
	deleted, err := h.conversationUseCase.DeleteNonStarred(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Data:    map[string]any{"deleted_count": deleted},
		Message: fmt.Sprintf("Deleted %d non-starred conversations", deleted),
	})
}
