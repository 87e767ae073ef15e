package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yupiflow/admin-gateway/internal/domain/model"
)

// ListOptions carries common listing parameters for backend collections.
type ListOptions struct {
	Limit  int
	Offset int
	Search string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

// Resources exposes the typed CRUD bindings for every backend collection
// the dashboard manages. All calls go through the bearer-attaching Client.
type Resources struct {
	c *Client
}

// NewResources binds resource endpoints to a backend client.
func NewResources(c *Client) *Resources {
	return &Resources{c: c}
}

func listPath[T any](ctx context.Context, c *Client, path string, opts ListOptions) (model.Page[T], error) {
	var page model.Page[T]
	err := c.Do(ctx, RequestParams{
		Method: http.MethodGet,
		Path:   path,
		Query:  opts.query(),
		Out:    &page,
	})
	return page, err
}

func getPath[T any](ctx context.Context, c *Client, path string, id int64) (*T, error) {
	var out T
	err := c.Do(ctx, RequestParams{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/%d", path, id),
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func createPath[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	var out T
	err := c.Do(ctx, RequestParams{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func updatePath[T any](ctx context.Context, c *Client, path string, id int64, body any) (*T, error) {
	var out T
	err := c.Do(ctx, RequestParams{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("%s/%d", path, id),
		Body:   body,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func deletePath(ctx context.Context, c *Client, path string, id int64) error {
	return c.Do(ctx, RequestParams{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("%s/%d", path, id),
	})
}

// Customers

func (r *Resources) ListCustomers(ctx context.Context, opts ListOptions) (model.Page[model.Customer], error) {
	return listPath[model.Customer](ctx, r.c, "customers", opts)
}

func (r *Resources) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	return getPath[model.Customer](ctx, r.c, "customers", id)
}

func (r *Resources) CreateCustomer(ctx context.Context, in model.CustomerInput) (*model.Customer, error) {
	return createPath[model.Customer](ctx, r.c, "customers", in)
}

func (r *Resources) UpdateCustomer(ctx context.Context, id int64, in model.CustomerInput) (*model.Customer, error) {
	return updatePath[model.Customer](ctx, r.c, "customers", id, in)
}

func (r *Resources) DeleteCustomer(ctx context.Context, id int64) error {
	return deletePath(ctx, r.c, "customers", id)
}

// Products and inventory

func (r *Resources) ListProducts(ctx context.Context, opts ListOptions) (model.Page[model.Product], error) {
	return listPath[model.Product](ctx, r.c, "products", opts)
}

func (r *Resources) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return getPath[model.Product](ctx, r.c, "products", id)
}

func (r *Resources) CreateProduct(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	return createPath[model.Product](ctx, r.c, "products", in)
}

func (r *Resources) UpdateProduct(ctx context.Context, id int64, in model.ProductInput) (*model.Product, error) {
	return updatePath[model.Product](ctx, r.c, "products", id, in)
}

func (r *Resources) DeleteProduct(ctx context.Context, id int64) error {
	return deletePath(ctx, r.c, "products", id)
}

func (r *Resources) ListInventoryMovements(ctx context.Context, opts ListOptions) (model.Page[model.InventoryMovement], error) {
	return listPath[model.InventoryMovement](ctx, r.c, "inventory", opts)
}

func (r *Resources) RecordInventoryMovement(ctx context.Context, in model.InventoryMovementInput) (*model.InventoryMovement, error) {
	return createPath[model.InventoryMovement](ctx, r.c, "inventory", in)
}

// Orders, deliveries, couriers

func (r *Resources) ListOrders(ctx context.Context, opts ListOptions) (model.Page[model.Order], error) {
	return listPath[model.Order](ctx, r.c, "orders", opts)
}

func (r *Resources) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return getPath[model.Order](ctx, r.c, "orders", id)
}

func (r *Resources) UpdateOrderStatus(ctx context.Context, id int64, in model.OrderStatusInput) (*model.Order, error) {
	var out model.Order
	err := r.c.Do(ctx, RequestParams{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("orders/%d/status", id),
		Body:   in,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resources) ListDeliveries(ctx context.Context, opts ListOptions) (model.Page[model.Delivery], error) {
	return listPath[model.Delivery](ctx, r.c, "deliveries", opts)
}

func (r *Resources) UpdateDelivery(ctx context.Context, id int64, in model.DeliveryInput) (*model.Delivery, error) {
	return updatePath[model.Delivery](ctx, r.c, "deliveries", id, in)
}

func (r *Resources) ListCouriers(ctx context.Context, opts ListOptions) (model.Page[model.Courier], error) {
	return listPath[model.Courier](ctx, r.c, "couriers", opts)
}

func (r *Resources) CreateCourier(ctx context.Context, in model.CourierInput) (*model.Courier, error) {
	return createPath[model.Courier](ctx, r.c, "couriers", in)
}

func (r *Resources) UpdateCourier(ctx context.Context, id int64, in model.CourierInput) (*model.Courier, error) {
	return updatePath[model.Courier](ctx, r.c, "couriers", id, in)
}

func (r *Resources) DeleteCourier(ctx context.Context, id int64) error {
	return deletePath(ctx, r.c, "couriers", id)
}

// Logs, notifications, profile

func (r *Resources) ListLogs(ctx context.Context, opts ListOptions) (model.Page[model.LogEntry], error) {
	return listPath[model.LogEntry](ctx, r.c, "logs", opts)
}

func (r *Resources) ListNotifications(ctx context.Context, opts ListOptions) (model.Page[model.Notification], error) {
	return listPath[model.Notification](ctx, r.c, "notifications", opts)
}

func (r *Resources) MarkNotificationRead(ctx context.Context, id int64) error {
	return r.c.Do(ctx, RequestParams{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("notifications/%d/read", id),
	})
}

func (r *Resources) GetProfile(ctx context.Context) (*model.Profile, error) {
	var out model.Profile
	err := r.c.Do(ctx, RequestParams{
		Method: http.MethodGet,
		Path:   "profile",
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resources) UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.Profile, error) {
	var out model.Profile
	err := r.c.Do(ctx, RequestParams{
		Method: http.MethodPut,
		Path:   "profile",
		Body:   in,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
