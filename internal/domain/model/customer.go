package model

// Package model contains the dashboard's view of backend-managed resources.
// These records are owned by the remote backend; the gateway never stores
// them, it only shuttles them between the backend API and the UI.

import "time"

// Customer is a storefront customer account.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Country   string    `json:"country,omitempty"`
	Blocked   bool      `json:"blocked"`
	CreatedAt time.Time `json:"createdAt"`
}

// CustomerInput carries the mutable fields for create/update calls.
type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Country string `json:"country,omitempty"`
	Blocked *bool  `json:"blocked,omitempty"`
}
