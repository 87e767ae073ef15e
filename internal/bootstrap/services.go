package bootstrap

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yupiflow/admin-gateway/config"
	redisadapter "github.com/yupiflow/admin-gateway/internal/adapters/redis"
	"github.com/yupiflow/admin-gateway/internal/backend"
	"github.com/yupiflow/admin-gateway/internal/data"
	domainauth "github.com/yupiflow/admin-gateway/internal/domain/auth"
	httpx "github.com/yupiflow/admin-gateway/internal/http"
	"github.com/yupiflow/admin-gateway/internal/observability/statsd"
	"github.com/yupiflow/admin-gateway/internal/ports"
	"github.com/yupiflow/admin-gateway/internal/realtime"
	"github.com/yupiflow/admin-gateway/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Backend   *backend.Client
	Resources *backend.Resources
	Realtime  *realtime.Listener
	AuditRepo *data.AuditRepo // nil when the audit store is disabled
	Audit     ports.AuditRecorder
	Metrics   *statsd.Client // nil when metrics are disabled
	Origin    *url.URL
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config         *config.AppConfig
	DB             *sql.DB // optional
	RedisClient    goredis.UniversalClient
	RealtimeClient goredis.UniversalClient // optional
	Logger         *slog.Logger
}

// BuildServices wires the session store, backend clients, auth service,
// realtime listener and audit trail together.
func BuildServices(deps ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := buildMetrics(logger, cfg.Observability.Metrics)
	var sink statsd.Sink
	if metrics != nil {
		sink = metrics
	}

	audit := buildAuditRecorder(deps.DB, logger)
	var auditRepo *data.AuditRepo
	if repo, ok := audit.(*data.AuditRepo); ok {
		auditRepo = repo
	}

	sessions := redisadapter.NewSessionStoreWithPrefix(
		deps.RedisClient, sessionKeyPrefix(cfg.Session.Secret))

	client, err := backend.NewClient(backend.ClientOptions{
		OriginURL: cfg.Backend.OriginURL,
		APIPrefix: cfg.Backend.APIPrefix,
		Timeout:   cfg.Backend.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build backend client: %w", err)
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		Exchanger:    backend.NewAuthClient(client, logger),
		Sessions:     sessions,
		Audit:        audit,
		RequiredRole: domainauth.Role(cfg.Session.RequiredRole),
		TokenTTL:     cfg.Session.TTL,
		Logger:       logger,
		Metrics:      sink,
	})

	// Resource calls resolve their bearer through the auth service so an
	// expired token is refreshed before use. Same adapter as the proxy.
	resourceClient, err := backend.NewClient(backend.ClientOptions{
		OriginURL: cfg.Backend.OriginURL,
		APIPrefix: cfg.Backend.APIPrefix,
		Timeout:   cfg.Backend.Timeout,
		Tokens:    httpx.SessionTokenSource{Auth: auth},
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build backend resource client: %w", err)
	}

	var listener *realtime.Listener
	if cfg.Realtime.Enabled {
		listener = realtime.NewListener(realtime.ListenerOptions{
			Client:  deps.RealtimeClient,
			Channel: cfg.Realtime.Channel,
			Logger:  logger,
			Metrics: sink,
		})
	}

	return &ServiceContainer{
		Auth:      auth,
		Backend:   client,
		Resources: backend.NewResources(resourceClient),
		Realtime:  listener,
		AuditRepo: auditRepo,
		Audit:     audit,
		Metrics:   metrics,
		Origin:    client.Origin(),
	}, nil
}

func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

//nolint:ireturn // caller only needs the port.
func buildAuditRecorder(db *sql.DB, logger *slog.Logger) ports.AuditRecorder {
	if db == nil {
		return service.LogAuditRecorder{Logger: logger}
	}
	return data.NewAuditRepo(db)
}

// sessionKeyPrefix derives the Redis key namespace from the configured
// secret so parallel deployments sharing an instance stay isolated.
func sessionKeyPrefix(secret string) string {
	if secret == "" {
		return "session:"
	}
	sum := sha256.Sum256([]byte(secret))
	return fmt.Sprintf("session:%x:", sum[:4])
}
