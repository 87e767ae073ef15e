package model

import "time"

// Order is a customer order as listed in the dashboard.
type Order struct {
	ID           int64     `json:"id"`
	TrackingCode string    `json:"trackingCode"`
	CustomerID   int64     `json:"customerId"`
	CustomerName string    `json:"customerName,omitempty"`
	Total        float64   `json:"total"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OrderStatusInput carries a status transition for an order.
type OrderStatusInput struct {
	Status string `json:"status"`
}

// Delivery tracks the shipment attached to an order.
type Delivery struct {
	ID        int64      `json:"id"`
	OrderID   int64      `json:"orderId"`
	CourierID int64      `json:"courierId,omitempty"`
	Address   string     `json:"address"`
	Status    string     `json:"status"`
	EtaAt     *time.Time `json:"etaAt,omitempty"`
}

// DeliveryInput carries the mutable fields of a delivery.
type DeliveryInput struct {
	CourierID int64      `json:"courierId,omitempty"`
	Address   string     `json:"address,omitempty"`
	Status    string     `json:"status,omitempty"`
	EtaAt     *time.Time `json:"etaAt,omitempty"`
}

// Courier is a delivery rider account.
type Courier struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Active bool   `json:"active"`
}

// CourierInput carries the mutable fields of a courier.
type CourierInput struct {
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Active *bool  `json:"active,omitempty"`
}
