// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gocloud.dev/blob"

	authHTTP "github.com/allisson/chatapi/internal/auth/http"
	authService "github.com/allisson/chatapi/internal/auth/service"
	chatHTTP "github.com/allisson/chatapi/internal/chat/http"
	chatUseCase "github.com/allisson/chatapi/internal/chat/usecase"
	"github.com/allisson/chatapi/internal/config"
	cryptoHTTP "github.com/allisson/chatapi/internal/crypto/http"
	cryptoService "github.com/allisson/chatapi/internal/crypto/service"
	"github.com/allisson/chatapi/internal/database"
	filesHTTP "github.com/allisson/chatapi/internal/files/http"
	filesService "github.com/allisson/chatapi/internal/files/service"
	"github.com/allisson/chatapi/internal/genai"
	"github.com/allisson/chatapi/internal/http"
	"github.com/allisson/chatapi/internal/metrics"
	modelsHTTP "github.com/allisson/chatapi/internal/models/http"
	notesHTTP "github.com/allisson/chatapi/internal/notes/http"
	notesUseCase "github.com/allisson/chatapi/internal/notes/usecase"
	"github.com/allisson/chatapi/internal/ratelimit"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	rateLimiter     *ratelimit.Limiter
	blobBucket      *blob.Bucket

	// Services
	tokenService      authService.TokenService
	credentialService authService.CredentialService
	aeadManager       cryptoService.AEADManager
	envelope          cryptoService.Envelope
	genaiClient       *genai.Client
	storageService    *filesService.StorageService

	// Repositories
	conversationRepo chatUseCase.ConversationRepository
	noteRepo         notesUseCase.NoteRepository

	// Use Cases
	streamUseCase       chatUseCase.StreamUseCase
	conversationUseCase chatUseCase.ConversationUseCase
	noteUseCase         notesUseCase.NoteUseCase

	// Handlers
	authHandler         *authHTTP.Handler
	chatHandler         *chatHTTP.ChatHandler
	conversationHandler *chatHTTP.ConversationHandler
	modelsHandler       *modelsHTTP.ModelsHandler
	noteHandler         *notesHTTP.NoteHandler
	fileHandler         *filesHTTP.FileHandler
	envelopeMiddleware  *cryptoHTTP.EnvelopeMiddleware

	// Servers
	apiServer     *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	txManagerInit           sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	rateLimiterInit         sync.Once
	blobBucketInit          sync.Once
	tokenServiceInit        sync.Once
	credentialServiceInit   sync.Once
	aeadManagerInit         sync.Once
	envelopeInit            sync.Once
	genaiClientInit         sync.Once
	storageServiceInit      sync.Once
	conversationRepoInit    sync.Once
	noteRepoInit            sync.Once
	streamUseCaseInit       sync.Once
	conversationUseCaseInit sync.Once
	noteUseCaseInit         sync.Once
	authHandlerInit         sync.Once
	chatHandlerInit         sync.Once
	conversationHandlerInit sync.Once
	modelsHandlerInit       sync.Once
	noteHandlerInit         sync.Once
	fileHandlerInit         sync.Once
	envelopeMiddlewareInit  sync.Once
	apiServerInit           sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB(ctx context.Context) (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB(ctx)
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager(ctx context.Context) (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager(ctx)
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider, or nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled a no-op recorder is returned so use cases never need nil checks.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// RateLimiter returns the sliding-window rate limiter.
func (c *Container) RateLimiter() *ratelimit.Limiter {
	c.rateLimiterInit.Do(func() {
		c.rateLimiter = ratelimit.NewLimiter(c.config.RateLimitWindow)
	})
	return c.rateLimiter
}

// APIServer returns the API HTTP server with the full router attached.
func (c *Container) APIServer(ctx context.Context) (*http.Server, error) {
	var err error
	c.apiServerInit.Do(func() {
		c.apiServer, err = c.initAPIServer(ctx)
		if err != nil {
			c.initErrors["apiServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiServer"]; exists {
		return nil, storedErr
	}
	return c.apiServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics
// are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.apiServer != nil {
		if err := c.apiServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.blobBucket != nil {
		if err := c.blobBucket.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("blob bucket close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB(ctx context.Context) (*sql.DB, error) {
	db, err := database.Connect(ctx, database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager(ctx context.Context) (database.TxManager, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the metrics provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initAPIServer builds the API server and wires the router with every
// handler and middleware.
func (c *Container) initAPIServer(ctx context.Context) (*http.Server, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get database for api server: %w", err)
	}

	authHandler, err := c.AuthHandler()
	if err != nil {
		return nil, err
	}
	chatHandler, err := c.ChatHandler(ctx)
	if err != nil {
		return nil, err
	}
	conversationHandler, err := c.ConversationHandler(ctx)
	if err != nil {
		return nil, err
	}
	modelsHandler, err := c.ModelsHandler()
	if err != nil {
		return nil, err
	}
	noteHandler, err := c.NoteHandler(ctx)
	if err != nil {
		return nil, err
	}
	fileHandler, err := c.FileHandler(ctx)
	if err != nil {
		return nil, err
	}
	envelopeMiddleware, err := c.EnvelopeMiddleware()
	if err != nil {
		return nil, err
	}
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, err
	}

	logger := c.Logger()

	routerConfig := http.RouterConfig{
		AuthHandler:         authHandler,
		ChatHandler:         chatHandler,
		ConversationHandler: conversationHandler,
		ModelsHandler:       modelsHandler,
		NoteHandler:         noteHandler,
		FileHandler:         fileHandler,
		AuthMiddleware:      authHTTP.AuthenticationMiddleware(tokenService, logger),
		EnvelopeMiddleware:  envelopeMiddleware.Handle(),
		CORSEnabled:         c.config.CORSEnabled,
		CORSAllowOrigins:    c.config.CORSAllowOrigins,
	}

	if c.config.RateLimitEnabled {
		routerConfig.RateLimitMiddleware = ratelimit.Middleware(
			c.RateLimiter(),
			ratelimit.Config{
				AuthRequests:    c.config.RateLimitAuthRequests,
				ChatRequests:    c.config.RateLimitChatRequests,
				DefaultRequests: c.config.RateLimitDefaultRequests,
			},
			logger,
		)
	}

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider != nil {
			routerConfig.MetricsMiddleware = metrics.HTTPMetricsMiddleware(
				provider.MeterProvider(),
				c.config.MetricsNamespace,
			)
		}
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(routerConfig)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
