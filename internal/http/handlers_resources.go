package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yupiflow/admin-gateway/internal/backend"
	"github.com/yupiflow/admin-gateway/internal/domain/model"
)

// ResourceHandlerOptions configures ResourceHandler.
type ResourceHandlerOptions struct {
	Resources *backend.Resources
	// Origin is the backend base URL used to resolve file references in
	// responses. Empty resolves uploads to the gateway's own proxy path.
	Origin string
	Logger *slog.Logger
}

// ResourceHandler exposes the dashboard's typed views over the backend
// collections. Each handler delegates to the bearer-attaching client and
// translates backend failures into HTTP statuses.
type ResourceHandler struct {
	resources *backend.Resources
	origin    string
	logger    *slog.Logger
}

// NewResourceHandler creates a ResourceHandler from options.
func NewResourceHandler(opts ResourceHandlerOptions) *ResourceHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ResourceHandler{resources: opts.Resources, origin: opts.Origin, logger: logger}
}

func (h *ResourceHandler) resolveProduct(p *model.Product) {
	if p != nil {
		p.ImagePath = ResolveAssetPath(h.origin, p.ImagePath)
	}
}

func (h *ResourceHandler) resolveProfile(p *model.Profile) {
	if p != nil {
		p.Avatar = ResolveAssetPath(h.origin, p.Avatar)
	}
}

func listOptions(r *http.Request) backend.ListOptions {
	q := r.URL.Query()
	opts := backend.ListOptions{Search: q.Get("search")}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		opts.Offset = v
	}
	return opts
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_error",
			Err:     errors.New("invalid id"),
		})
		return 0, false
	}
	return id, true
}

func respond(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		writeBackendError(w, err)
		return
	}
	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	WriteJSON(w, status, v)
}

// Customers

func (h *ResourceHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := h.resources.ListCustomers(r.Context(), listOptions(r))
	respond(w, http.StatusOK, page, err)
}

func (h *ResourceHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	customer, err := h.resources.GetCustomer(r.Context(), id)
	respond(w, http.StatusOK, customer, err)
}

func (h *ResourceHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var in model.CustomerInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	customer, err := h.resources.CreateCustomer(r.Context(), in)
	respond(w, http.StatusCreated, customer, err)
}

func (h *ResourceHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.CustomerInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	customer, err := h.resources.UpdateCustomer(r.Context(), id, in)
	respond(w, http.StatusOK, customer, err)
}

func (h *ResourceHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusNoContent, nil, h.resources.DeleteCustomer(r.Context(), id))
}

// Products and inventory

func (h *ResourceHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.resources.ListProducts(r.Context(), listOptions(r))
	for i := range page.Items {
		h.resolveProduct(&page.Items[i])
	}
	respond(w, http.StatusOK, page, err)
}

func (h *ResourceHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := h.resources.GetProduct(r.Context(), id)
	h.resolveProduct(product)
	respond(w, http.StatusOK, product, err)
}

func (h *ResourceHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	product, err := h.resources.CreateProduct(r.Context(), in)
	h.resolveProduct(product)
	respond(w, http.StatusCreated, product, err)
}

func (h *ResourceHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.ProductInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	product, err := h.resources.UpdateProduct(r.Context(), id, in)
	h.resolveProduct(product)
	respond(w, http.StatusOK, product, err)
}

func (h *ResourceHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusNoContent, nil, h.resources.DeleteProduct(r.Context(), id))
}

func (h *ResourceHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	page, err := h.resources.ListInventoryMovements(r.Context(), listOptions(r))
	respond(w, http.StatusOK, page, err)
}

func (h *ResourceHandler) RecordInventoryMovement(w http.ResponseWriter, r *http.Request) {
	var in model.InventoryMovementInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	movement, err := h.resources.RecordInventoryMovement(r.Context(), in)
	respond(w, http.StatusCreated, movement, err)
}

// Orders, deliveries, couriers

func (h *ResourceHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := h.resources.ListOrders(r.Context(), listOptions(r))
	respond(w, http.StatusOK, page, err)
}

func (h *ResourceHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ord, err := h.resources.GetOrder(r.Context(), id)
	respond(w, http.StatusOK, ord, err)
}

func (h *ResourceHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.OrderStatusInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	if in.Status == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_error",
			Err:     errors.New("status is required"),
		})
		return
	}
	ord, err := h.resources.UpdateOrderStatus(r.Context(), id, in)
	respond(w, http.StatusOK, ord, err)
}

func (h *ResourceHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	page, err := h.resources.ListDeliveries(r.Context(), listOptions(r))
	respond(w, http.StatusOK, page, err)
}

func (h *ResourceHandler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.DeliveryInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	delivery, err := h.resources.UpdateDelivery(r.Context(), id, in)
	respond(w, http.StatusOK, delivery, err)
}

func (h *ResourceHandler) ListCouriers(w http.ResponseWriter, r *http.Request) {
	page, err := h.resources.ListCouriers(r.Context(), listOptions(r))
	respond(w, http.StatusOK, page, err)
}

func (h *ResourceHandler) CreateCourier(w http.ResponseWriter, r *http.Request) {
	var in model.CourierInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	courier, err := h.resources.CreateCourier(r.Context(), in)
	respond(w, http.StatusCreated, courier, err)
}

func (h *ResourceHandler) UpdateCourier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in model.CourierInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	courier, err := h.resources.UpdateCourier(r.Context(), id, in)
	respond(w, http.StatusOK, courier, err)
}

func (h *ResourceHandler) DeleteCourier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusNoContent, nil, h.resources.DeleteCourier(r.Context(), id))
}

// Logs, notifications, profile

func (h *ResourceHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	page, err := h.resources.ListLogs(r.Context(), listOptions(r))
	respond(w, http.StatusOK, page, err)
}

func (h *ResourceHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page, err := h.resources.ListNotifications(r.Context(), listOptions(r))
	respond(w, http.StatusOK, page, err)
}

func (h *ResourceHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusNoContent, nil, h.resources.MarkNotificationRead(r.Context(), id))
}

func (h *ResourceHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.resources.GetProfile(r.Context())
	h.resolveProfile(profile)
	respond(w, http.StatusOK, profile, err)
}

func (h *ResourceHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in model.ProfileInput
	if !DecodeJSON(w, r, &in) {
		return
	}
	profile, err := h.resources.UpdateProfile(r.Context(), in)
	h.resolveProfile(profile)
	respond(w, http.StatusOK, profile, err)
}
