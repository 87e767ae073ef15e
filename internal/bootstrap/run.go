package bootstrap

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/yupiflow/admin-gateway/config"
)

// RunConfig groups everything needed to run the gateway until shutdown.
type RunConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown starts the realtime listener and HTTP server, then blocks
// until SIGINT/SIGTERM or context cancellation and tears everything down.
func RunWithShutdown(ctx context.Context, cfg *RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Services.Realtime != nil {
		if err := cfg.Services.Realtime.Start(ctx); err != nil {
			// The dashboard works without realtime updates; degrade.
			logger.ErrorContext(ctx, "realtime listener failed to start", "error", err)
		}
	}

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	logger.Info("shutdown signal received")

	if cfg.Services.Realtime != nil {
		if err := cfg.Services.Realtime.Close(); err != nil {
			logger.Error("close realtime listener failed", "error", err)
		}
	}
	if cfg.Services.Metrics != nil {
		if err := cfg.Services.Metrics.Close(); err != nil {
			logger.Error("close statsd client failed", "error", err)
		}
	}

	return ShutdownHTTPServer(ShutdownConfig{
		Context: context.WithoutCancel(ctx),
		Server:  server,
		Logger:  logger,
	})
}
