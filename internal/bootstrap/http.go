package bootstrap

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	admingateway "github.com/yupiflow/admin-gateway"
	"github.com/yupiflow/admin-gateway/config"
	httpx "github.com/yupiflow/admin-gateway/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil || cfg.Services == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Resources:    cfg.Services.Resources,
		Origin:       cfg.Services.Origin,
		Audit:        cfg.Services.Audit,
		CookieName:   appCfg.Session.CookieName,
		CookieDomain: appCfg.HTTP.CookieDomain,
		SecureCookie: !appCfg.IsDev,
		SessionTTL:   appCfg.Session.TTL,
		Logger:       logger,
	}
	if cfg.Services.Realtime != nil {
		services.Realtime = cfg.Services.Realtime
	}
	if cfg.Services.AuditRepo != nil {
		services.AuditEvents = cfg.Services.AuditRepo
	}
	services.StaticAssets = staticAssets(appCfg.IsDev, logger)

	// Order: Recover -> Logging -> Router (gate included)
	handler := httpx.NewRouter(services)
	handler = httpx.Logging(logger)(handler)
	handler = httpx.Recover(logger)(handler)

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

// staticAssets picks the /static/ source: disk in dev mode for hot
// reloading, the embedded filesystem otherwise.
func staticAssets(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS("frontend/static")
	}
	sub, err := fs.Sub(admingateway.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("embedded static assets unavailable", "error", err)
		return nil
	}
	return sub
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(cfg.Context, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
