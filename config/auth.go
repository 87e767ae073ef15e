package config

import (
	"strings"
	"time"
)

// SessionConfig groups session and authorization configuration.
type SessionConfig struct {
	// Secret signs nothing itself; it seeds the session key prefix so
	// parallel deployments sharing a Redis instance stay isolated.
	Secret string `env:"SECRET,required"`

	// TTL is the session and access-token lifetime. The backend issues
	// long-lived tokens; the observed design fixes this at 30 days from
	// issuance or last refresh.
	TTL time.Duration `env:"TTL" envDefault:"720h"`

	// RequiredRole is the sole role permitted to use the dashboard.
	// Accounts with any other role are denied at credential exchange.
	RequiredRole string `env:"REQUIRED_ROLE" envDefault:"webmaster"`

	// CookieName is the name of the session cookie.
	CookieName string `env:"COOKIE_NAME" envDefault:"session_id"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	s.RequiredRole = strings.ToLower(strings.TrimSpace(s.RequiredRole))
	if s.RequiredRole == "" {
		s.RequiredRole = "webmaster"
	}
	if s.TTL <= 0 {
		s.TTL = 720 * time.Hour
	}
	if s.CookieName == "" {
		s.CookieName = "session_id"
	}
}
