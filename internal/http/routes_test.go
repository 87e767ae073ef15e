package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yupiflow/admin-gateway/internal/backend"
	mockauth "github.com/yupiflow/admin-gateway/internal/mocks/auth"
	"github.com/yupiflow/admin-gateway/internal/service"
)

type routerFixture struct {
	router    http.Handler
	exchanger *mockauth.MockExchanger

	// bearer headers the upstream saw, in request order
	upstreamAuth *[]string
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	var seen []string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items":[],"total":0}`))
	}))
	t.Cleanup(upstream.Close)

	exchanger := mockauth.NewMockExchanger()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Exchanger: exchanger,
		Sessions:  mockauth.NewMemorySessionStore(),
	})

	client, err := backend.NewClient(backend.ClientOptions{
		OriginURL: upstream.URL,
		Tokens:    SessionTokenSource{Auth: svc},
	})
	require.NoError(t, err)

	origin, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	router := NewRouter(RouterServices{
		Auth:       svc,
		Resources:  backend.NewResources(client),
		Origin:     origin,
		CookieName: "session_id",
		SessionTTL: time.Hour,
	})

	return &routerFixture{
		router:       router,
		exchanger:    exchanger,
		upstreamAuth: &seen,
	}
}

func (f *routerFixture) login(t *testing.T) *http.Cookie {
	t.Helper()
	body := strings.NewReader(`{"identifier":"webmaster@example.com","secret":"hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/session", body)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestRouter_ResourceCallCarriesSessionBearer(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.login(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *f.upstreamAuth, 1)
	assert.Equal(t, "Bearer access-1", (*f.upstreamAuth)[0])

	// A fresh token reaches the backend without a refresh exchange.
	assert.Equal(t, 0, f.exchanger.RefreshCalls())
}

func TestRouter_ProxiedCallCarriesSessionBearer(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.login(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=3", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *f.upstreamAuth, 1)
	assert.Equal(t, "Bearer access-1", (*f.upstreamAuth)[0])
	assert.Equal(t, 0, f.exchanger.RefreshCalls())
}

func TestRouter_ProxiedCallWithoutSessionOmitsBearer(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	// The passthrough is gate-exempt; the origin keeps final say.
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *f.upstreamAuth, 1)
	assert.Empty(t, (*f.upstreamAuth)[0])
}

func TestRouter_ResourceCallWithoutSessionIsUnauthorized(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, *f.upstreamAuth)
}
