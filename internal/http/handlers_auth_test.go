package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/yupiflow/admin-gateway/internal/domain/auth"
	apperrors "github.com/yupiflow/admin-gateway/internal/errors"
	mockauth "github.com/yupiflow/admin-gateway/internal/mocks/auth"
	"github.com/yupiflow/admin-gateway/internal/service"
)

type authHandlerFixture struct {
	handler   *AuthHandler
	exchanger *mockauth.MockExchanger
	sessions  *mockauth.MemorySessionStore
}

func newAuthHandlerFixture(t *testing.T) *authHandlerFixture {
	t.Helper()
	exchanger := mockauth.NewMockExchanger()
	sessions := mockauth.NewMemorySessionStore()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Exchanger: exchanger,
		Sessions:  sessions,
	})
	return &authHandlerFixture{
		handler:   NewAuthHandler(AuthHandlerOptions{Auth: svc}),
		exchanger: exchanger,
		sessions:  sessions,
	}
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)

	body := strings.NewReader(`{"identifier":"webmaster@example.com","secret":"hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/session", body)
	rec := httptest.NewRecorder()
	f.handler.Login(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "session_id", cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	// Cookie value is the session ID, and tokens never appear in the body.
	_, err := f.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.NotContains(t, rec.Body.String(), "access")
	assert.Contains(t, rec.Body.String(), "webmaster@example.com")
}

func TestLogin_RejectedCredentials(t *testing.T) {
	f := newAuthHandlerFixture(t)
	f.exchanger.ExchangeFunc = func(context.Context, domainauth.Credentials) (domainauth.Identity, error) {
		return domainauth.Identity{}, apperrors.Unauthorized("nope")
	}

	body := strings.NewReader(`{"identifier":"x","secret":"y"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/session", body)
	rec := httptest.NewRecorder()
	f.handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication_failed")
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogin_MissingFields(t *testing.T) {
	f := newAuthHandlerFixture(t)

	body := strings.NewReader(`{"identifier":"","secret":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/session", body)
	rec := httptest.NewRecorder()
	f.handler.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.exchanger.ExchangeCalls())
}

func TestLogout_EndsSessionAndClearsCookie(t *testing.T) {
	f := newAuthHandlerFixture(t)

	// Sign in first.
	body := strings.NewReader(`{"identifier":"webmaster@example.com","secret":"hunter2"}`)
	loginReq := httptest.NewRequest(http.MethodPost, "/api/session", body)
	loginRec := httptest.NewRecorder()
	f.handler.Login(loginRec, loginReq)
	require.Equal(t, http.StatusCreated, loginRec.Code)
	sessionCookie := loginRec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	f.handler.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, f.exchanger.RevokeCalls())
	assert.Equal(t, 0, f.sessions.Len())

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestLogout_WithoutCookieStillSucceeds(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	rec := httptest.NewRecorder()
	f.handler.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, f.exchanger.RevokeCalls())
}

func TestStatus_WithSession(t *testing.T) {
	f := newAuthHandlerFixture(t)
	sess := &domainauth.Session{
		ID:     "sess-1",
		UserID: "user-1",
		Name:   "Test Webmaster",
		Email:  "webmaster@example.com",
		Role:   domainauth.RoleWebmaster,
	}

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), sess))
	rec := httptest.NewRecorder()
	f.handler.Status(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "webmaster@example.com")
}

func TestStatus_WithoutSession(t *testing.T) {
	f := newAuthHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()
	f.handler.Status(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
