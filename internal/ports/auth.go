package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	"github.com/yupiflow/admin-gateway/internal/domain/audit"
	domainauth "github.com/yupiflow/admin-gateway/internal/domain/auth"
)

// TokenExchanger performs the credential, refresh, and revoke exchanges
// against the backend authentication endpoints.
type TokenExchanger interface {
	// Exchange submits credentials and returns the authenticated identity
	// with its token pair. A rejection surfaces as an unauthorized error.
	Exchange(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error)

	// Refresh exchanges a refresh token for a new access token. The
	// returned refresh token is empty when the backend did not rotate it.
	Refresh(ctx context.Context, refreshToken string) (access, refresh string, err error)

	// Revoke invalidates an access token server-side. Callers treat
	// failures as best-effort.
	Revoke(ctx context.Context, accessToken string) error
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// AuditRecorder records authentication lifecycle events. Implementations
// must be safe to call on hot paths; recording failures never block auth.
type AuditRecorder interface {
	Record(ctx context.Context, evt audit.Event) error
}
