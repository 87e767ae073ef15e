package model

import "time"

// LogEntry is a backend activity log record shown in the dashboard.
type LogEntry struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is a backend notification shown in the dashboard.
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the webmaster's own account settings.
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Country  string `json:"country,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Language string `json:"language,omitempty"`
}

// ProfileInput carries the mutable profile fields.
type ProfileInput struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Country  string `json:"country,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Language string `json:"language,omitempty"`
}

// Page is a paginated backend listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
