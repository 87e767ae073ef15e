package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yupiflow/admin-gateway/internal/service"
)

// AuthHandlerOptions configures AuthHandler.
type AuthHandlerOptions struct {
	Auth         AuthServiceInterface
	CookieName   string
	CookieDomain string
	Secure       bool
	TTL          time.Duration
	Logger       *slog.Logger
}

// AuthHandler serves the session lifecycle endpoints.
type AuthHandler struct {
	auth         AuthServiceInterface
	cookieName   string
	cookieDomain string
	secure       bool
	ttl          time.Duration
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler from options, applying defaults.
func NewAuthHandler(opts AuthHandlerOptions) *AuthHandler {
	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = "session_id"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		auth:         opts.Auth,
		cookieName:   cookieName,
		cookieDomain: opts.CookieDomain,
		secure:       opts.Secure,
		ttl:          ttl,
		logger:       logger,
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// Login exchanges credentials for a session and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Identifier == "" || req.Secret == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_error",
			Err:     errors.New("identifier and secret are required"),
		})
		return
	}

	session, err := h.auth.Authenticate(r.Context(), req.Identifier, req.Secret)
	if err != nil {
		// Denials and bad credentials share one answer so the response
		// does not leak which part failed.
		if errors.Is(err, service.ErrAuthenticationFailed) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "authentication_failed",
				Err:     service.ErrAuthenticationFailed,
			})
			return
		}
		h.logger.ErrorContext(r.Context(), "login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "upstream_error",
			Err:     errors.New("authentication service unavailable"),
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.cookieDomain,
		Expires:  time.Now().Add(h.ttl),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	WriteJSON(w, http.StatusCreated, session.User())
}

// Logout ends the session behind the cookie and clears it. Always succeeds
// from the caller's point of view once the local session is gone.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err == nil && cookie.Value != "" {
		if endErr := h.auth.EndSession(r.Context(), cookie.Value); endErr != nil {
			h.logger.ErrorContext(r.Context(), "end session failed", "error", endErr)
			WriteError(w, ErrorParams{
				Code:    http.StatusInternalServerError,
				ErrCode: "internal_error",
				Err:     errors.New("failed to end session"),
			})
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Status reports the authenticated user behind the current session.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errAuthRequired,
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":      session.User(),
		"expiresAt": session.ExpiresAt,
	})
}
