package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/chatapi/internal/auth/http/dto"
	authService "github.com/allisson/chatapi/internal/auth/service"
	apperrors "github.com/allisson/chatapi/internal/errors"
	"github.com/allisson/chatapi/internal/httputil"
	customValidation "github.com/allisson/chatapi/internal/validation"
)

// Handler handles HTTP requests for the token lifecycle.
type Handler struct {
	credentialService authService.CredentialService
	tokenService      authService.TokenService
	logger            *slog.Logger
}

// NewHandler creates a new authentication handler with required dependencies.
func NewHandler(
	credentialService authService.CredentialService,
	tokenService authService.TokenService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		credentialService: credentialService,
		tokenService:      tokenService,
		logger:            logger,
	}
}

// LoginHandler authenticates the configured identity and issues a token pair.
// POST /api/auth/login
func (h *Handler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Check credentials
	if err := h.credentialService.Authenticate(req.Username, req.Password); err != nil {
		h.logger.Warn("failed login attempt", slog.String("username", req.Username))
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Issue token pair
	pair, err := h.tokenService.IssuePair(req.Username)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("successful login", slog.String("username", req.Username))

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// RefreshHandler exchanges a valid refresh token for a new access token.
// POST /api/auth/refresh
func (h *Handler) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Verify refresh token and issue a new access token
	accessToken, err := h.tokenService.Refresh(req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.AccessTokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// LogoutHandler confirms logout for an authenticated caller.
//
// Tokens are stateless, so the actual logout happens client-side by
// discarding the tokens. This endpoint validates the session and logs the
// event.
// POST /api/auth/logout
func (h *Handler) LogoutHandler(c *gin.Context) {
	username, _ := GetUsername(c.Request.Context())

	h.logger.Info("user logged out", slog.String("username", username))

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// MeHandler returns the authenticated identity.
// GET /api/auth/me
func (h *Handler) MeHandler(c *gin.Context) {
	username, ok := GetUsername(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		Username:      username,
		Authenticated: true,
	})
}
