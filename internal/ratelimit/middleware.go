package ratelimit

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Config holds the per-route-class request ceilings.
type Config struct {
	// AuthRequests is the per-window ceiling for auth endpoints.
	AuthRequests int
	// ChatRequests is the per-window ceiling for chat endpoints.
	ChatRequests int
	// DefaultRequests is the per-window ceiling for all other endpoints.
	DefaultRequests int
}

// Middleware enforces per-client sliding-window rate limits.
//
// Requests are keyed by client IP plus a coarse route class, each class with
// its own ceiling. Uses c.ClientIP() which handles X-Forwarded-For and
// X-Real-IP. On rejection the client receives 429 with a Retry-After header
// equal to the window size.
func Middleware(limiter *Limiter, cfg Config, logger *slog.Logger) gin.HandlerFunc {
	retryAfter := int(limiter.RetryAfter().Seconds())

	return func(c *gin.Context) {
		class, ceiling := classify(c.Request.URL.Path, cfg)
		key := c.ClientIP() + ":" + class

		if !limiter.Allow(key, ceiling) {
			logger.Debug("rate limit exceeded",
				slog.String("client_ip", c.ClientIP()),
				slog.String("route_class", class),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// classify maps a request path to its route class and ceiling.
func classify(path string, cfg Config) (string, int) {
	switch {
	case strings.HasPrefix(path, "/api/auth"):
		return "auth", cfg.AuthRequests
	case strings.HasPrefix(path, "/api/chat"):
		return "chat", cfg.ChatRequests
	default:
		return "default", cfg.DefaultRequests
	}
}
