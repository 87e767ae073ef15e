package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/yupiflow/admin-gateway/internal/backend"
	"github.com/yupiflow/admin-gateway/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      AuthServiceInterface
	Resources *backend.Resources
	// Origin is the backend base URL used by the passthrough proxy.
	Origin *url.URL
	// Realtime exposes the latest order event for the dashboard summary.
	// Optional.
	Realtime LatestOrderSource
	// AuditEvents lists the gateway's auth trail. Optional; routes are
	// only registered when set.
	AuditEvents AuditLister
	// Audit records access denials from the gate. Optional.
	Audit ports.AuditRecorder
	// StaticAssets serves /static/. Optional.
	StaticAssets fs.FS

	CookieName   string
	CookieDomain string
	SecureCookie bool
	SessionTTL   time.Duration
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router, wrapped in the
// session gate.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandler := NewAuthHandler(AuthHandlerOptions{
		Auth:         services.Auth,
		CookieName:   services.CookieName,
		CookieDomain: services.CookieDomain,
		Secure:       services.SecureCookie,
		TTL:          services.SessionTTL,
		Logger:       services.Logger,
	})
	originURL := ""
	if services.Origin != nil {
		originURL = services.Origin.String()
	}
	resourceHandler := NewResourceHandler(ResourceHandlerOptions{
		Resources: services.Resources,
		Origin:    originURL,
		Logger:    services.Logger,
	})
	dashboardHandler := NewDashboardHandler(DashboardHandlerOptions{
		Resources: services.Resources,
		Realtime:  services.Realtime,
		Origin:    originURL,
		Logger:    services.Logger,
	})

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	registerSessionRoutes(mux, authHandler)
	registerDashboardRoutes(mux, dashboardHandler)
	registerResourceRoutes(mux, resourceHandler)
	if services.AuditEvents != nil {
		auditHandler := NewAuditHandler(services.AuditEvents, services.Logger)
		mux.HandleFunc("GET /api/auth-events", auditHandler.ListRecent)
	}
	registerProxyRoutes(mux, services)
	if services.StaticAssets != nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(services.StaticAssets)))
	}

	gate := SessionGate(SessionGateConfig{
		Auth:       services.Auth,
		CookieName: services.CookieName,
		ExemptPrefixes: []string{
			"/static/", "/healthz",
			"/api/v1/", "/uploads/",
		},
		PublicPaths: []string{"/api/session"},
		Audit:       services.Audit,
		Logger:      services.Logger,
	})
	return gate(mux)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func registerSessionRoutes(mux *http.ServeMux, h *AuthHandler) {
	mux.HandleFunc("POST /api/session", h.Login)
	mux.HandleFunc("DELETE /api/session", h.Logout)
	mux.HandleFunc("GET /api/session", h.Status)
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandler) {
	mux.HandleFunc("GET /api/dashboard", h.Summary)
}

func registerResourceRoutes(mux *http.ServeMux, h *ResourceHandler) {
	registerCRUD(mux, crudRoutes{
		Base:    "/api/customers",
		List:    h.ListCustomers,
		GetByID: h.GetCustomer,
		Create:  h.CreateCustomer,
		Update:  h.UpdateCustomer,
		Delete:  h.DeleteCustomer,
	})
	registerCRUD(mux, crudRoutes{
		Base:    "/api/products",
		List:    h.ListProducts,
		GetByID: h.GetProduct,
		Create:  h.CreateProduct,
		Update:  h.UpdateProduct,
		Delete:  h.DeleteProduct,
	})

	mux.HandleFunc("GET /api/inventory", h.ListInventory)
	mux.HandleFunc("POST /api/inventory", h.RecordInventoryMovement)

	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.UpdateOrderStatus)

	mux.HandleFunc("GET /api/deliveries", h.ListDeliveries)
	mux.HandleFunc("PUT /api/deliveries/{id}", h.UpdateDelivery)

	mux.HandleFunc("GET /api/couriers", h.ListCouriers)
	mux.HandleFunc("POST /api/couriers", h.CreateCourier)
	mux.HandleFunc("PUT /api/couriers/{id}", h.UpdateCourier)
	mux.HandleFunc("DELETE /api/couriers/{id}", h.DeleteCourier)

	mux.HandleFunc("GET /api/logs", h.ListLogs)
	mux.HandleFunc("GET /api/notifications", h.ListNotifications)
	mux.HandleFunc("PATCH /api/notifications/{id}/read", h.MarkNotificationRead)

	mux.HandleFunc("GET /api/profile", h.GetProfile)
	mux.HandleFunc("PUT /api/profile", h.UpdateProfile)
}

// registerProxyRoutes wires the verbatim backend passthrough. The gate
// exempts these prefixes; SessionLoader still resolves a session so the
// API proxy can attach a bearer.
func registerProxyRoutes(mux *http.ServeMux, services RouterServices) {
	if services.Origin == nil {
		return
	}
	loader := SessionLoader(services.Auth, services.CookieName)

	apiProxy := NewProxy(ProxyOptions{
		Origin: services.Origin,
		Tokens: SessionTokenSource{Auth: services.Auth},
		Logger: services.Logger,
	})
	mux.Handle("/api/v1/", loader(apiProxy))

	uploadsProxy := NewProxy(ProxyOptions{
		Origin: services.Origin,
		Logger: services.Logger,
	})
	mux.Handle("/uploads/", uploadsProxy)
}

// crudRoutes registers standard CRUD routes for a resource base path.
type crudRoutes struct {
	Base    string
	List    http.HandlerFunc
	GetByID http.HandlerFunc
	Create  http.HandlerFunc
	Update  http.HandlerFunc
	Delete  http.HandlerFunc
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	mux.HandleFunc("GET "+cfg.Base, cfg.List)
	mux.HandleFunc("GET "+cfg.Base+"/{id}", cfg.GetByID)
	mux.HandleFunc("POST "+cfg.Base, cfg.Create)
	mux.HandleFunc("PUT "+cfg.Base+"/{id}", cfg.Update)
	mux.HandleFunc("DELETE "+cfg.Base+"/{id}", cfg.Delete)
}
