package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/chatapi/internal/auth/domain"
	authService "github.com/allisson/chatapi/internal/auth/service"
	apperrors "github.com/allisson/chatapi/internal/errors"
	"github.com/allisson/chatapi/internal/httputil"
)

// AuthenticationMiddleware provides authentication via Bearer token in the Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Verifies it as an access token
// 3. Stores the authenticated username in the request context
// 4. Allows downstream handlers to access the username via GetUsername()
//
// Missing, malformed, expired, or wrong-type tokens all return 401 with the
// same generic body.
func AuthenticationMiddleware(
	tokenService authService.TokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := authHeader[len(bearerPrefix):]
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Verify as an access token
		claims, err := tokenService.Verify(plainToken, authDomain.AccessToken)
		if err != nil {
			logger.Debug("authentication failed: invalid access token")
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		// Store authenticated username in context
		ctx := WithUsername(c.Request.Context(), claims.Username)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
