package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/yupiflow/admin-gateway/internal/domain/audit"
	domainauth "github.com/yupiflow/admin-gateway/internal/domain/auth"
	apperrors "github.com/yupiflow/admin-gateway/internal/errors"
	"github.com/yupiflow/admin-gateway/internal/observability/statsd"
	"github.com/yupiflow/admin-gateway/internal/ports"
)

// ErrAuthenticationFailed is the single failure surfaced for rejected
// credentials. Wrong-password and wrong-role rejections are deliberately
// indistinguishable to callers.
var ErrAuthenticationFailed = errors.New("authentication failed")

// ErrSessionNotFound is returned when no session exists for an ID.
var ErrSessionNotFound = errors.New("session not found")

// defaultTokenTTL is the access-token lifetime: 30 days from issuance or
// last refresh. The backend issues long-lived tokens by design.
const defaultTokenTTL = 720 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Exchanger    ports.TokenExchanger
	Sessions     ports.SessionStore
	Audit        ports.AuditRecorder // optional
	RequiredRole domainauth.Role
	TokenTTL     time.Duration
	Logger       *slog.Logger
	Metrics      statsd.Sink // optional

	// Now overrides the clock in tests.
	Now func() time.Time
}

// AuthService owns the session/token lifecycle: credential exchange at
// sign-in, lazy token refresh on read, and best-effort revocation at
// sign-out. It coordinates the token exchanger, session store, and audit
// recorder.
type AuthService struct {
	exchanger    ports.TokenExchanger
	sessions     ports.SessionStore
	audit        ports.AuditRecorder
	requiredRole domainauth.Role
	tokenTTL     time.Duration
	logger       *slog.Logger
	metrics      statsd.Sink
	now          func() time.Time

	// refreshGroup deduplicates concurrent refresh exchanges per session.
	refreshGroup singleflight.Group
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	role := opts.RequiredRole
	if role == "" {
		role = domainauth.RoleWebmaster
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &AuthService{
		exchanger:    opts.Exchanger,
		sessions:     opts.Sessions,
		audit:        opts.Audit,
		requiredRole: role,
		tokenTTL:     ttl,
		logger:       logger,
		metrics:      opts.Metrics,
		now:          now,
	}
}

// Authenticate exchanges credentials for a token pair and persists a new
// session. It fails with ErrAuthenticationFailed both when the backend
// rejects the credentials and when the returned role is not the privileged
// role; no session is created in either case.
func (s *AuthService) Authenticate(ctx context.Context, identifier, secret string) (*domainauth.Session, error) {
	if identifier == "" || secret == "" {
		return nil, apperrors.Validation("identifier and secret are required")
	}

	identity, err := s.exchanger.Exchange(ctx, domainauth.Credentials{
		Identifier: identifier,
		Secret:     secret,
	})
	if err != nil {
		s.count("auth.denied", map[string]string{"reason": "credentials"})
		s.record(ctx, audit.Event{
			Kind:       audit.KindSignInDenied,
			Identifier: identifier,
			Detail:     "credential exchange rejected",
		})
		if apperrors.IsUnauthorized(err) || apperrors.IsValidation(err) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("credential exchange: %w", err)
	}

	// Non-privileged users are unconditionally denied, even with valid
	// credentials. The authorization decision is made here, once.
	if identity.Role != s.requiredRole {
		s.count("auth.denied", map[string]string{"reason": "role"})
		s.record(ctx, audit.Event{
			Kind:       audit.KindSignInDenied,
			UserID:     identity.UserID,
			Identifier: identifier,
			Detail:     "role " + string(identity.Role) + " is not permitted",
		})
		return nil, ErrAuthenticationFailed
	}

	session := domainauth.Session{
		ID:           uuid.NewString(),
		UserID:       identity.UserID,
		Name:         identity.Name,
		Email:        identity.Email,
		Role:         identity.Role,
		Country:      identity.Country,
		AccessToken:  identity.AccessToken,
		RefreshToken: identity.RefreshToken,
		ExpiresAt:    s.now().Add(s.tokenTTL),
		Authorized:   true,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.count("auth.success", nil)
	s.record(ctx, audit.Event{
		Kind:       audit.KindSignIn,
		UserID:     identity.UserID,
		Identifier: identifier,
	})

	return &session, nil
}

// GetSession retrieves a session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", errors.Join(ErrSessionNotFound, err))
	}

	return &session, nil
}

// ValidToken returns the session's access token, refreshing it first when
// expired. Concurrent callers share a single refresh exchange. When the
// refresh exchange fails the session is marked and the stale token is
// returned anyway; the caller's own backend call then surfaces the 401.
func (s *AuthService) ValidToken(ctx context.Context, sessionID string) (string, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if !session.TokenExpired(s.now()) {
		return session.AccessToken, nil
	}

	token, err, _ := s.refreshGroup.Do(sessionID, func() (any, error) {
		return s.refreshLocked(ctx, sessionID)
	})
	if err != nil {
		return "", err
	}

	tokenStr, ok := token.(string)
	if !ok {
		return "", fmt.Errorf("unexpected refresh result type %T", token)
	}
	return tokenStr, nil
}

// refreshLocked runs inside the singleflight group. It re-reads the session
// so callers that piled up behind a completed refresh reuse its result.
func (s *AuthService) refreshLocked(ctx context.Context, sessionID string) (any, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("get session: %w", errors.Join(ErrSessionNotFound, err))
	}

	if !session.TokenExpired(s.now()) {
		return session.AccessToken, nil
	}

	access, refresh, refreshErr := s.exchanger.Refresh(ctx, session.RefreshToken)
	if refreshErr != nil {
		// Fail-open: mark the session and hand back the stale token. No
		// distinct refresh-failure error reaches the caller.
		s.logger.WarnContext(ctx, "token refresh failed",
			"session_id", sessionID, "error", refreshErr)
		s.count("auth.refresh_failed", nil)
		s.record(ctx, audit.Event{
			Kind:   audit.KindRefreshFailed,
			UserID: session.UserID,
			Detail: refreshErr.Error(),
		})

		session.RefreshFailed = true
		if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
			s.logger.WarnContext(ctx, "persist refresh failure flag",
				"session_id", sessionID, "error", saveErr)
		}
		return session.AccessToken, nil
	}

	session.AccessToken = access
	if refresh != "" {
		session.RefreshToken = refresh
	}
	session.ExpiresAt = s.now().Add(s.tokenTTL)
	session.RefreshFailed = false

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return "", fmt.Errorf("save refreshed session: %w", saveErr)
	}

	s.count("auth.refresh", nil)
	s.record(ctx, audit.Event{Kind: audit.KindTokenRefresh, UserID: session.UserID})

	return session.AccessToken, nil
}

// EndSession best-effort revokes the backend token, then clears the local
// session. Backend unavailability never blocks logout.
func (s *AuthService) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to end
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		// Already gone; treat logout as complete.
		return nil
	}

	if revokeErr := s.exchanger.Revoke(ctx, session.AccessToken); revokeErr != nil {
		s.logger.WarnContext(ctx, "token revoke failed, continuing logout",
			"session_id", sessionID, "error", revokeErr)
	}

	if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
		return fmt.Errorf("delete session: %w", deleteErr)
	}

	s.count("auth.sign_out", nil)
	s.record(ctx, audit.Event{Kind: audit.KindSignOut, UserID: session.UserID})

	return nil
}

func (s *AuthService) record(ctx context.Context, evt audit.Event) {
	if s.audit == nil {
		return
	}
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = s.now()
	}
	if err := s.audit.Record(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "audit record failed", "kind", evt.Kind, "error", err)
	}
}

func (s *AuthService) count(name string, tags map[string]string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count(name, 1, tags)
}
