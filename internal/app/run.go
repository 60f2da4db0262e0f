package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Run starts the API server, the metrics server when enabled, and the rate
// limiter cleanup loop, then blocks until ctx is cancelled or a server
// fails. On exit every started server is shut down within the configured
// DBConnMaxLifetime window.
func Run(ctx context.Context, container *Container) error {
	cfg := container.Config()
	logger := container.Logger()

	server, err := container.APIServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize api server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.RateLimitEnabled {
		container.RateLimiter().StartCleanup(runCtx, cfg.RateLimitWindow)
	}

	group, groupCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		if err := server.Start(groupCtx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		group.Go(func() error {
			if err := metricsServer.Start(groupCtx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	// Block until cancellation or the first server failure, then stop the
	// remaining servers so the group can drain.
	<-groupCtx.Done()

	if ctx.Err() != nil {
		logger.Info("shutdown signal received")
	} else {
		logger.Error("server error, initiating shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
	defer shutdownCancel()

	var shutdownErrors []error

	if err := server.Shutdown(shutdownCtx); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if err := group.Wait(); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		shutdownErrors = append(shutdownErrors, err)
	}

	return errors.Join(shutdownErrors...)
}
