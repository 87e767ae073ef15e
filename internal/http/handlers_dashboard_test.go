package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yupiflow/admin-gateway/internal/backend"
	"github.com/yupiflow/admin-gateway/internal/domain/order"
)

type staticLatest struct {
	evt order.Event
	ok  bool
}

func (s staticLatest) Latest() (order.Event, bool) { return s.evt, s.ok }

func newSummaryBackend(t *testing.T) *backend.Resources {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":1,"trackingCode":"YF-1","status":"pending"}],"total":12}`))
	})
	mux.HandleFunc("/api/v1/customers", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":1,"name":"Jan"}],"total":34}`))
	})
	mux.HandleFunc("/api/v1/products", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":1,"name":"Mok"}],"total":56}`))
	})
	mux.HandleFunc("/api/v1/notifications", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":1,"title":"a","read":false},{"id":2,"title":"b","read":true}],"total":2}`))
	})
	mux.HandleFunc("/api/v1/profile", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"name":"Webmaster","email":"webmaster@example.com"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := backend.NewClient(backend.ClientOptions{OriginURL: server.URL})
	require.NoError(t, err)
	return backend.NewResources(client)
}

func TestSummary_AggregatesBackendCollections(t *testing.T) {
	latest := staticLatest{
		evt: order.Event{ID: 99, TrackingCode: "YF-99", Status: "pending", CreatedAt: time.Now()},
		ok:  true,
	}
	handler := NewDashboardHandler(DashboardHandlerOptions{
		Resources: newSummaryBackend(t),
		Realtime:  latest,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.Summary(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		OrdersTotal    int `json:"ordersTotal"`
		CustomersTotal int `json:"customersTotal"`
		ProductsTotal  int `json:"productsTotal"`
		UnreadCount    int `json:"unreadCount"`
		Profile        *struct {
			Email string `json:"email"`
		} `json:"profile"`
		LatestOrder *struct {
			ID int64 `json:"id"`
		} `json:"latestOrder"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	assert.Equal(t, 12, out.OrdersTotal)
	assert.Equal(t, 34, out.CustomersTotal)
	assert.Equal(t, 56, out.ProductsTotal)
	assert.Equal(t, 1, out.UnreadCount)
	require.NotNil(t, out.Profile)
	assert.Equal(t, "webmaster@example.com", out.Profile.Email)
	require.NotNil(t, out.LatestOrder)
	assert.Equal(t, int64(99), out.LatestOrder.ID)
}

func TestSummary_DegradesWithoutProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/profile", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[],"total":0}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := backend.NewClient(backend.ClientOptions{OriginURL: server.URL})
	require.NoError(t, err)

	handler := NewDashboardHandler(DashboardHandlerOptions{
		Resources: backend.NewResources(client),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.Summary(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"profile"`)
	assert.NotContains(t, rec.Body.String(), `"latestOrder"`)
}

func TestSummary_BackendFailureIsBadGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := backend.NewClient(backend.ClientOptions{OriginURL: server.URL})
	require.NoError(t, err)

	handler := NewDashboardHandler(DashboardHandlerOptions{
		Resources: backend.NewResources(client),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.Summary(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
