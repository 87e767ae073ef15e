package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/yupiflow/admin-gateway/internal/domain/auth"
	mockauth "github.com/yupiflow/admin-gateway/internal/mocks/auth"
	"github.com/yupiflow/admin-gateway/internal/service"
)

func newGateFixture(t *testing.T) (*service.AuthService, *mockauth.MemorySessionStore) {
	t.Helper()
	sessions := mockauth.NewMemorySessionStore()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Exchanger: mockauth.NewMockExchanger(),
		Sessions:  sessions,
	})
	return svc, sessions
}

func seedSession(t *testing.T, sessions *mockauth.MemorySessionStore, authorized bool) domainauth.Session {
	t.Helper()
	sess := domainauth.Session{
		ID:          "sess-1",
		UserID:      "user-1",
		Role:        domainauth.RoleWebmaster,
		AccessToken: "access-1",
		ExpiresAt:   time.Now().Add(time.Hour),
		Authorized:  authorized,
	}
	if !authorized {
		sess.Role = domainauth.RoleCustomer
	}
	require.NoError(t, sessions.Save(context.Background(), sess))
	return sess
}

func gateHandler(svc *service.AuthService) http.Handler {
	var inner http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); ok {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("page"))
			return
		}
		_, _ = w.Write([]byte("login-page"))
	})
	gate := SessionGate(SessionGateConfig{
		Auth:           svc,
		ExemptPrefixes: []string{"/static/", "/healthz"},
		PublicPaths:    []string{"/api/session"},
	})
	return gate(inner)
}

func TestSessionGate_NoSessionRedirectsToLogin(t *testing.T) {
	svc, _ := newGateFixture(t)
	handler := gateHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSessionGate_NoSessionOnLoginAllowed(t *testing.T) {
	svc, _ := newGateFixture(t)
	handler := gateHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "login-page", rec.Body.String())
}

func TestSessionGate_ValidSessionOnLoginRedirectsHome(t *testing.T) {
	svc, sessions := newGateFixture(t)
	sess := seedSession(t, sessions, true)
	handler := gateHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sess.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestSessionGate_UnauthorizedSessionRedirectsWithDeniedFlag(t *testing.T) {
	svc, sessions := newGateFixture(t)
	sess := seedSession(t, sessions, false)
	handler := gateHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sess.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?denied=1", rec.Header().Get("Location"))
}

func TestSessionGate_AuthorizedSessionInjectedIntoContext(t *testing.T) {
	svc, sessions := newGateFixture(t)
	sess := seedSession(t, sessions, true)
	handler := gateHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sess.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "page", rec.Body.String())
}

func TestSessionGate_APIRequestGetsJSONNotRedirect(t *testing.T) {
	svc, _ := newGateFixture(t)
	handler := gateHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), "authentication_required")
}

func TestSessionGate_APIRequestWithUnauthorizedSessionGets403(t *testing.T) {
	svc, sessions := newGateFixture(t)
	sess := seedSession(t, sessions, false)
	handler := gateHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sess.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_permissions")
}

func TestSessionGate_ExemptPrefixBypassesGate(t *testing.T) {
	svc, _ := newGateFixture(t)
	handler := gateHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionGate_PublicPathAllowedWithoutSession(t *testing.T) {
	svc, _ := newGateFixture(t)
	handler := gateHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionGate_StaleCookieTreatedAsNoSession(t *testing.T) {
	svc, _ := newGateFixture(t)
	handler := gateHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "no-such-session"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
