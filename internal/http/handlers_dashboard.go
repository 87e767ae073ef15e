package httpx

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/yupiflow/admin-gateway/internal/backend"
	"github.com/yupiflow/admin-gateway/internal/domain/model"
	"github.com/yupiflow/admin-gateway/internal/domain/order"
	apperrors "github.com/yupiflow/admin-gateway/internal/errors"
)

// LatestOrderSource exposes the most recent realtime order event.
type LatestOrderSource interface {
	Latest() (order.Event, bool)
}

// DashboardHandlerOptions configures DashboardHandler.
type DashboardHandlerOptions struct {
	Resources *backend.Resources
	Realtime  LatestOrderSource // optional
	// Origin resolves file references carried in the summary.
	Origin string
	Logger *slog.Logger
}

// DashboardHandler serves the landing-page summary. It fans out to the
// backend collections concurrently and merges the results.
type DashboardHandler struct {
	resources *backend.Resources
	realtime  LatestOrderSource
	origin    string
	logger    *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler from options.
func NewDashboardHandler(opts DashboardHandlerOptions) *DashboardHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		resources: opts.Resources,
		realtime:  opts.Realtime,
		origin:    opts.Origin,
		logger:    logger,
	}
}

type dashboardSummary struct {
	Orders         []model.Order        `json:"orders"`
	OrdersTotal    int                  `json:"ordersTotal"`
	CustomersTotal int                  `json:"customersTotal"`
	ProductsTotal  int                  `json:"productsTotal"`
	Notifications  []model.Notification `json:"notifications"`
	UnreadCount    int                  `json:"unreadCount"`
	Profile        *model.Profile       `json:"profile,omitempty"`
	LatestOrder    *order.Event         `json:"latestOrder,omitempty"`
}

// Summary aggregates recent orders, notifications and the operator profile
// into one response.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var out dashboardSummary

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page, err := h.resources.ListOrders(gctx, backend.ListOptions{Limit: 10})
		if err != nil {
			return err
		}
		out.Orders = page.Items
		out.OrdersTotal = page.Total
		return nil
	})

	g.Go(func() error {
		page, err := h.resources.ListCustomers(gctx, backend.ListOptions{Limit: 1})
		if err != nil {
			return err
		}
		out.CustomersTotal = page.Total
		return nil
	})

	g.Go(func() error {
		page, err := h.resources.ListProducts(gctx, backend.ListOptions{Limit: 1})
		if err != nil {
			return err
		}
		out.ProductsTotal = page.Total
		return nil
	})

	g.Go(func() error {
		page, err := h.resources.ListNotifications(gctx, backend.ListOptions{Limit: 10})
		if err != nil {
			return err
		}
		out.Notifications = page.Items
		for _, n := range page.Items {
			if !n.Read {
				out.UnreadCount++
			}
		}
		return nil
	})

	g.Go(func() error {
		profile, err := h.resources.GetProfile(gctx)
		if err != nil {
			// The summary degrades rather than failing when only the
			// profile lookup is missing.
			if apperrors.IsNotFound(err) {
				return nil
			}
			return err
		}
		profile.Avatar = ResolveAssetPath(h.origin, profile.Avatar)
		out.Profile = profile
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.ErrorContext(ctx, "dashboard summary failed", "error", err)
		writeBackendError(w, err)
		return
	}

	if h.realtime != nil {
		if evt, ok := h.realtime.Latest(); ok {
			out.LatestOrder = &evt
		}
	}

	if out.Orders == nil {
		out.Orders = []model.Order{}
	}
	if out.Notifications == nil {
		out.Notifications = []model.Notification{}
	}
	WriteJSON(w, http.StatusOK, out)
}
