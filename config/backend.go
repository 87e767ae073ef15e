package config

import (
	"strings"
	"time"
)

// BackendConfig describes the remote YupiFlow backend origin that the
// gateway proxies and calls.
type BackendConfig struct {
	// OriginURL is the backend base URL, e.g. "https://api.yupiflow.com".
	OriginURL string `env:"ORIGIN_URL,required"`

	// APIPrefix is the path prefix of the versioned REST API.
	APIPrefix string `env:"API_PREFIX" envDefault:"/api/v1"`

	// Timeout bounds individual backend calls made by resource clients.
	// The reverse-proxy passthrough uses transport defaults.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.OriginURL = strings.TrimRight(strings.TrimSpace(b.OriginURL), "/")
	if !strings.HasPrefix(b.APIPrefix, "/") {
		b.APIPrefix = "/" + b.APIPrefix
	}
	b.APIPrefix = strings.TrimRight(b.APIPrefix, "/")
	if b.APIPrefix == "" {
		b.APIPrefix = "/api/v1"
	}
	if b.Timeout <= 0 {
		b.Timeout = 30 * time.Second
	}
}
