package model

import "time"

// Product is a catalog item managed through the dashboard.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImagePath   string    `json:"imagePath,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductInput carries the mutable fields for create/update calls.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       *int    `json:"stock,omitempty"`
	ImagePath   string  `json:"imagePath,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// InventoryMovement is a stock entry or exit recorded against a product.
type InventoryMovement struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Kind      string    `json:"kind"` // "entry" or "exit"
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// InventoryMovementInput carries the fields for recording a movement.
type InventoryMovementInput struct {
	ProductID int64  `json:"productId"`
	Kind      string `json:"kind"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
}
