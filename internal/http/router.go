package http

import (
	"log/slog"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/chatapi/internal/auth/http"
	chatHTTP "github.com/allisson/chatapi/internal/chat/http"
	filesHTTP "github.com/allisson/chatapi/internal/files/http"
	modelsHTTP "github.com/allisson/chatapi/internal/models/http"
	notesHTTP "github.com/allisson/chatapi/internal/notes/http"
)

// RouterConfig holds the handlers and middleware the router wires together.
//
// Optional middleware (Metrics, RateLimit, Envelope) may be nil, in which
// case the corresponding layer is skipped. AuthMiddleware is required: every
// route except health, login, refresh and public file downloads sits behind
// it.
type RouterConfig struct {
	AuthHandler         *authHTTP.Handler
	ChatHandler         *chatHTTP.ChatHandler
	ConversationHandler *chatHTTP.ConversationHandler
	ModelsHandler       *modelsHTTP.ModelsHandler
	NoteHandler         *notesHTTP.NoteHandler
	FileHandler         *filesHTTP.FileHandler

	AuthMiddleware      gin.HandlerFunc
	MetricsMiddleware   gin.HandlerFunc
	RateLimitMiddleware gin.HandlerFunc
	EnvelopeMiddleware  gin.HandlerFunc

	CORSEnabled      bool
	CORSAllowOrigins string
}

// SetupRouter builds the gin router with the full middleware chain and
// route table, and attaches it to the server.
//
// Middleware order: request id, logging, metrics, security headers, CORS,
// rate limiting, envelope encryption. Authentication is applied per route
// group so that login, refresh and public file downloads stay reachable
// without a token.
func (s *Server) SetupRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}

	router.Use(SecurityHeadersMiddleware())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.RateLimitMiddleware != nil {
		router.Use(cfg.RateLimitMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api")
	if cfg.EnvelopeMiddleware != nil {
		api.Use(cfg.EnvelopeMiddleware)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", cfg.AuthHandler.LoginHandler)
		auth.POST("/refresh", cfg.AuthHandler.RefreshHandler)
		auth.POST("/logout", cfg.AuthMiddleware, cfg.AuthHandler.LogoutHandler)
		auth.GET("/me", cfg.AuthMiddleware, cfg.AuthHandler.MeHandler)
	}

	api.GET("/models", cfg.AuthMiddleware, cfg.ModelsHandler.ListHandler)

	chat := api.Group("/chat", cfg.AuthMiddleware)
	{
		chat.POST("", cfg.ChatHandler.StartChatHandler)
		chat.POST("/:conversation_id", cfg.ChatHandler.ContinueChatHandler)
	}

	conversations := api.Group("/conversations", cfg.AuthMiddleware)
	{
		conversations.GET("", cfg.ConversationHandler.ListHandler)
		conversations.DELETE("/nonstarred", cfg.ConversationHandler.BulkDeleteNonStarredHandler)
		conversations.GET("/:conversation_id", cfg.ConversationHandler.GetHandler)
		conversations.POST("/:conversation_id/star", cfg.ConversationHandler.StarHandler)
		conversations.PATCH("/:conversation_id/title", cfg.ConversationHandler.RenameHandler)
		conversations.DELETE("/:conversation_id", cfg.ConversationHandler.DeleteHandler)
	}

	notes := api.Group("/notes", cfg.AuthMiddleware)
	{
		notes.GET("", cfg.NoteHandler.ListHandler)
		notes.POST("", cfg.NoteHandler.CreateHandler)
		notes.GET("/:note_id", cfg.NoteHandler.GetHandler)
		notes.PUT("/:note_id", cfg.NoteHandler.UpdateHandler)
		notes.DELETE("/:note_id", cfg.NoteHandler.DeleteHandler)
	}

	// Public downloads skip authentication so shared links work in a
	// plain browser tab.
	api.GET("/files/public/:file_id", cfg.FileHandler.PublicDownloadHandler)

	files := api.Group("/files", cfg.AuthMiddleware)
	{
		files.GET("", cfg.FileHandler.ListHandler)
		files.POST("/upload", cfg.FileHandler.UploadHandler)
		files.POST("/upload-url", cfg.FileHandler.UploadFromURLHandler)
		files.GET("/:file_id", cfg.FileHandler.GetInfoHandler)
		files.GET("/:file_id/download", cfg.FileHandler.DownloadHandler)
		files.PATCH("/:file_id", cfg.FileHandler.RenameHandler)
		files.DELETE("/:file_id", cfg.FileHandler.DeleteHandler)
		files.POST("/:file_id/toggle-share", cfg.FileHandler.ToggleShareHandler)
	}

	s.router = router

	s.logger.Info("router configured",
		slog.Bool("metrics", cfg.MetricsMiddleware != nil),
		slog.Bool("rate_limit", cfg.RateLimitMiddleware != nil),
		slog.Bool("envelope", cfg.EnvelopeMiddleware != nil),
	)

	return router
}
