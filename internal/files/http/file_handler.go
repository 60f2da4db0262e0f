// Package http provides HTTP handlers for file storage. Downloads are
// served as raw octet streams and bypass the response envelope.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/chatapi/internal/errors"
	filesService "github.com/allisson/chatapi/internal/files/service"
	"github.com/allisson/chatapi/internal/httputil"
)

// FileHandler handles HTTP requests for file storage.
type FileHandler struct {
	storage *filesService.StorageService
	logger  *slog.Logger
}

// NewFileHandler creates a new file handler with required dependencies.
func NewFileHandler(storage *filesService.StorageService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		storage: storage,
		logger:  logger,
	}
}

func parseBoolValue(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

// ListHandler lists stored files with an optional visibility filter.
// GET /api/files?is_public=true
func (h *FileHandler) ListHandler(c *gin.Context) {
	var isPublic *bool
	if raw, ok := c.GetQuery("is_public"); ok {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid is_public parameter"), h.logger)
			return
		}
		isPublic = &value
	}

	files, err := h.storage.List(c.Request.Context(), isPublic)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

// UploadHandler stores a multipart upload. The file id defaults to a
// generated uuid when the form does not provide one.
// POST /api/files/upload
func (h *FileHandler) UploadHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("missing file field"), h.logger)
		return
	}

	public, err := parseBoolValue(c.PostForm("public"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid public parameter"), h.logger)
		return
	}

	fileID := c.PostForm("file_id")
	if fileID == "" {
		fileID = uuid.Must(uuid.NewV7()).String()
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(err, "failed to open upload"), h.logger)
		return
	}
	defer func() { _ = file.Close() }()

	objectPath, size, err := h.storage.Upload(c.Request.Context(), file, fileID, public)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_id":     fileID,
		"object_path": objectPath,
		"size":        size,
		"is_public":   public,
	})
}

// UploadFromURLHandler fetches a remote resource into the bucket.
// POST /api/files/upload-url
func (h *FileHandler) UploadFromURLHandler(c *gin.Context) {
	rawURL := c.PostForm("url")
	if rawURL == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("missing url field"), h.logger)
		return
	}

	public, err := parseBoolValue(c.PostForm("public"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid public parameter"), h.logger)
		return
	}

	fileID := c.PostForm("file_id")
	if fileID == "" {
		fileID = uuid.Must(uuid.NewV7()).String()
	}

	objectPath, size, err := h.storage.UploadFromURL(c.Request.Context(), rawURL, fileID, public)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_id":     fileID,
		"object_path": objectPath,
		"size":        size,
		"is_public":   public,
	})
}

// GetInfoHandler returns the stored metadata of a file.
// GET /api/files/:file_id?public=true
func (h *FileHandler) GetInfoHandler(c *gin.Context) {
	fileID := c.Param("file_id")

	public, err := parseBoolValue(c.Query("public"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid public parameter"), h.logger)
		return
	}

	attrs, err := h.storage.GetAttributes(c.Request.Context(), fileID, public)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := gin.H{
		"file_id":      fileID,
		"is_public":    public,
		"size":         attrs.Size,
		"content_type": attrs.ContentType,
		"created":      attrs.Created,
		"updated":      attrs.Updated,
	}
	if attrs.PublicURL != "" {
		response["public_url"] = attrs.PublicURL
	}
	c.JSON(http.StatusOK, response)
}

// DownloadHandler serves a file as an attachment.
// GET /api/files/:file_id/download?public=true
func (h *FileHandler) DownloadHandler(c *gin.Context) {
	fileID := c.Param("file_id")

	public, err := parseBoolValue(c.Query("public"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid public parameter"), h.logger)
		return
	}

	h.serveFile(c, fileID, public)
}

// PublicDownloadHandler serves a shared file without authentication.
// GET /api/files/public/:file_id
func (h *FileHandler) PublicDownloadHandler(c *gin.Context) {
	h.serveFile(c, c.Param("file_id"), true)
}

func (h *FileHandler) serveFile(c *gin.Context, fileID string, public bool) {
	data, err := h.storage.Download(c.Request.Context(), fileID, public)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileID))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// RenameHandler moves a file to a new id within its current prefix.
// PATCH /api/files/:file_id
func (h *FileHandler) RenameHandler(c *gin.Context) {
	fileID := c.Param("file_id")

	newFileID := c.PostForm("new_file_id")
	if newFileID == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("missing new_file_id field"), h.logger)
		return
	}

	public, err := parseBoolValue(c.PostForm("public"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid public parameter"), h.logger)
		return
	}

	newPath, err := h.storage.Rename(c.Request.Context(), fileID, newFileID, public)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_id":     newFileID,
		"object_path": newPath,
		"is_public":   public,
	})
}

// DeleteHandler removes a file.
// DELETE /api/files/:file_id?public=true
func (h *FileHandler) DeleteHandler(c *gin.Context) {
	fileID := c.Param("file_id")

	public, err := parseBoolValue(c.Query("public"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid public parameter"), h.logger)
		return
	}

	if err := h.storage.Delete(c.Request.Context(), fileID, public); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ToggleShareHandler flips a file between the public and private prefixes.
// POST /api/files/:file_id/toggle-share
func (h *FileHandler) ToggleShareHandler(c *gin.Context) {
	fileID := c.Param("file_id")

	currentPublic, err := parseBoolValue(c.PostForm("current_public"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid current_public parameter"), h.logger)
		return
	}

	newPath, newPublic, err := h.storage.ToggleShare(c.Request.Context(), fileID, currentPublic)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_id":     fileID,
		"object_path": newPath,
		"is_public":   newPublic,
	})
}
