package commands

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"context"

	"github.com/gin-gonic/gin"

	"github.com/allisson/chatapi/internal/app"
	"github.com/allisson/chatapi/internal/config"
)

// RunServer starts the API server with graceful shutdown support.
// Loads configuration, initializes the DI container, and runs the server
// pair until SIGINT/SIGTERM or a fatal server error.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	// Set Gin mode based on log level
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return app.Run(ctx, container)
}
