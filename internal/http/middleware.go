package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/yupiflow/admin-gateway/internal/domain/audit"
	domainauth "github.com/yupiflow/admin-gateway/internal/domain/auth"
	"github.com/yupiflow/admin-gateway/internal/ports"
)

var (
	errAuthRequired     = errors.New("authentication required")
	errInsufficientRole = errors.New("insufficient permissions")
)

// AuthServiceInterface defines the auth service operations the HTTP layer
// depends on.
type AuthServiceInterface interface {
	Authenticate(ctx context.Context, identifier, secret string) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	ValidToken(ctx context.Context, sessionID string) (string, error)
	EndSession(ctx context.Context, sessionID string) error
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionGateConfig configures the navigation gate.
type SessionGateConfig struct {
	Auth       AuthServiceInterface
	CookieName string
	LoginPath  string
	HomePath   string
	// ExemptPrefixes bypass the gate entirely: static assets, health, and
	// the backend passthrough. The passthrough still picks up a session
	// via SessionLoader so its bearer can be attached.
	ExemptPrefixes []string
	// PublicPaths are reachable without a session (the session endpoints
	// themselves). A session, when present, is still injected.
	PublicPaths []string
	Audit       ports.AuditRecorder // optional, records access denials
	Logger      *slog.Logger
}

// SessionGate intercepts every navigation before page or API code runs.
// It is the sole access-control point for the UI shell; the backend still
// authorizes data access independently.
//
// Transition function, given (session, targetPath):
//   - login path + valid authorized session → redirect home
//   - login path + no session → allow
//   - no session + protected path → redirect to login
//   - session lacking the required role → redirect to login with denied flag
//   - otherwise → allow, session injected into the request context
func SessionGate(cfg SessionGateConfig) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "session_id"
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	homePath := cfg.HomePath
	if homePath == "" {
		homePath = "/"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.ExemptPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			session := sessionFromRequest(r, cfg.Auth, cookieName)
			onLogin := r.URL.Path == loginPath
			public := false
			for _, p := range cfg.PublicPaths {
				if r.URL.Path == p {
					public = true
					break
				}
			}

			switch {
			case onLogin && session != nil && session.Authorized:
				http.Redirect(w, r, homePath, http.StatusSeeOther)

			case onLogin:
				next.ServeHTTP(w, r)

			case public:
				next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))

			case session == nil:
				unauthenticated(w, r, loginPath)

			case !session.Authorized:
				// The gate consults the decision computed at issuance
				// rather than re-deriving it from the role claim.
				logger.WarnContext(r.Context(), "access denied",
					"path", r.URL.Path, "user_id", session.UserID, "role", session.Role)
				if cfg.Audit != nil {
					_ = cfg.Audit.Record(r.Context(), audit.Event{
						Kind:   audit.KindAccessDenied,
						UserID: session.UserID,
						Detail: r.URL.Path,
					})
				}
				denied(w, r, loginPath)

			default:
				ctx := SetSessionInContext(r.Context(), session)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// SessionLoader injects the session behind the cookie into the request
// context without enforcing anything. Used on the backend passthrough so
// the proxy can attach a bearer while the origin keeps final say.
func SessionLoader(auth AuthServiceInterface, cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = "session_id"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := sessionFromRequest(r, auth, cookieName); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionFromRequest(r *http.Request, auth AuthServiceInterface, cookieName string) *domainauth.Session {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	session, err := auth.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// isAPIRequest reports whether the request expects a JSON answer rather
// than a browser redirect.
func isAPIRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return accept != "" && !strings.Contains(accept, "text/html")
}

func unauthenticated(w http.ResponseWriter, r *http.Request, loginPath string) {
	if isAPIRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errAuthRequired,
		})
		return
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func denied(w http.ResponseWriter, r *http.Request, loginPath string) {
	if isAPIRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "insufficient_permissions",
			Err:     errInsufficientRole,
		})
		return
	}
	http.Redirect(w, r, loginPath+"?denied=1", http.StatusSeeOther)
}

// SessionTokenSource resolves the bearer token for backend calls from the
// session carried in the request context. Reading the token through the
// auth service is what triggers the lazy refresh; the backend client never
// refreshes on its own.
type SessionTokenSource struct {
	Auth AuthServiceInterface
}

// Token implements backend.TokenSource.
func (s SessionTokenSource) Token(ctx context.Context) (string, error) {
	session, ok := GetSessionFromContext(ctx)
	if !ok {
		return "", nil
	}
	return s.Auth.ValidToken(ctx, session.ID)
}
