// Package http provides the HTTP handler for model discovery.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
)

// ModelLister lists the generation models available to clients.
type ModelLister interface {
	ListModels(ctx context.Context) []chatDomain.Model
}

// ModelsHandler handles HTTP requests for model discovery.
type ModelsHandler struct {
	lister ModelLister
	logger *slog.Logger
}

// NewModelsHandler creates a new models handler with required dependencies.
func NewModelsHandler(lister ModelLister, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		lister: lister,
		logger: logger,
	}
}

// ListHandler returns the available generation models. The list falls back
// to a static set when the upstream catalog cannot be fetched, so this
// endpoint never fails.
// GET /api/models
func (h *ModelsHandler) ListHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.lister.ListModels(c.Request.Context()))
}
