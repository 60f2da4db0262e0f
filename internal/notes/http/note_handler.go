// Package http provides HTTP handlers for note management. Request bodies
// arrive decrypted by the envelope middleware and responses are sealed on
// the way out, so handlers only deal in plaintext JSON.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/chatapi/internal/auth/http"
	apperrors "github.com/allisson/chatapi/internal/errors"
	"github.com/allisson/chatapi/internal/httputil"
	"github.com/allisson/chatapi/internal/notes/http/dto"
	notesUseCase "github.com/allisson/chatapi/internal/notes/usecase"
	customValidation "github.com/allisson/chatapi/internal/validation"
)

// NoteHandler handles HTTP requests for note management.
type NoteHandler struct {
	noteUseCase notesUseCase.NoteUseCase
	logger      *slog.Logger
}

// NewNoteHandler creates a new note handler with required dependencies.
func NewNoteHandler(noteUseCase notesUseCase.NoteUseCase, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		noteUseCase: noteUseCase,
		logger:      logger,
	}
}

func (h *NoteHandler) owner(c *gin.Context) (string, bool) {
	owner, ok := authHTTP.GetUsername(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return "", false
	}
	return owner, true
}

func (h *NoteHandler) noteID(c *gin.Context) (uuid.UUID, bool) {
	noteID, err := uuid.Parse(c.Param("note_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid note id"), h.logger)
		return uuid.Nil, false
	}
	return noteID, true
}

// ListHandler lists the authenticated user's notes.
// GET /api/notes
func (h *NoteHandler) ListHandler(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	notes, err := h.noteUseCase.List(c.Request.Context(), owner)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNotesToResponse(notes))
}

// CreateHandler creates a new note for the authenticated user.
// POST /api/notes
func (h *NoteHandler) CreateHandler(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	note, err := h.noteUseCase.Create(c.Request.Context(), owner, req.Title, *req.Content)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapNoteToResponse(note))
}

// GetHandler retrieves one of the authenticated user's notes.
// GET /api/notes/:note_id
func (h *NoteHandler) GetHandler(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	noteID, ok := h.noteID(c)
	if !ok {
		return
	}

	note, err := h.noteUseCase.Get(c.Request.Context(), owner, noteID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNoteToResponse(note))
}

// UpdateHandler updates a note's title and content.
// PUT /api/notes/:note_id
func (h *NoteHandler) UpdateHandler(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	noteID, ok := h.noteID(c)
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	note, err := h.noteUseCase.Update(c.Request.Context(), owner, noteID, notesUseCase.UpdateNoteInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateNoteResponse{
		NoteID:    note.ID,
		Title:     note.Title,
		Content:   req.Content,
		UpdatedAt: note.UpdatedAt,
	})
}

// DeleteHandler removes one of the authenticated user's notes.
// DELETE /api/notes/:note_id
func (h *NoteHandler) DeleteHandler(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	noteID, ok := h.noteID(c)
	if !ok {
		return
	}

	if err := h.noteUseCase.Delete(c.Request.Context(), owner, noteID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
