package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/yupiflow/admin-gateway/config"
	"github.com/yupiflow/admin-gateway/internal/bootstrap"
	"github.com/yupiflow/admin-gateway/internal/devseed"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting admin gateway",
		"backend_origin", cfg.Backend.OriginURL,
		"addr", cfg.HTTP.Addr,
		"audit_store", cfg.Postgres.Enabled,
		"realtime", cfg.Realtime.Enabled,
		"dev", cfg.IsDev)

	redisClient, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cfg.Redis,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer closeQuietly(ctx, logger, "redis", redisClient.Close)

	db, err := connectAuditStore(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer closeQuietly(ctx, logger, "database", db.Close)
		if cfg.IsDev {
			if seedErr := devseed.Seed(ctx, db, logger); seedErr != nil {
				logger.WarnContext(ctx, "dev seeding failed", "error", seedErr)
			}
		}
	}

	realtimeClient, err := connectRealtime(&cfg, logger)
	if err != nil {
		return err
	}
	if realtimeClient != nil {
		defer closeQuietly(ctx, logger, "realtime redis", realtimeClient.Close)
	}

	services, err := bootstrap.BuildServices(bootstrap.ServiceDeps{
		Config:         &cfg,
		DB:             db,
		RedisClient:    redisClient,
		RealtimeClient: realtimeClient,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunWithShutdown(ctx, &bootstrap.RunConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

// connectAuditStore opens Postgres and applies migrations when the audit
// store is enabled; otherwise the gateway audits to the log only.
func connectAuditStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*sql.DB, error) {
	if !cfg.Postgres.Enabled {
		logger.InfoContext(ctx, "audit store disabled, auth events go to the log")
		return nil, nil
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cfg.Postgres,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := bootstrap.RunMigrations(ctx, db, logger); err != nil {
		closeQuietly(ctx, logger, "database", db.Close)
		return nil, err
	}
	return db, nil
}

//nolint:ireturn // redis.UniversalClient keeps the client type flexible.
func connectRealtime(cfg *config.AppConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if !cfg.Realtime.Enabled {
		return nil, nil
	}
	client, err := bootstrap.ConnectRealtimeRedis(cfg.Realtime, logger)
	if err != nil {
		return nil, fmt.Errorf("connect realtime broadcaster: %w", err)
	}
	return client, nil
}

func closeQuietly(ctx context.Context, logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.ErrorContext(ctx, "close "+name+" failed", "error", err)
	}
}
