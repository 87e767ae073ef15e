package audit

// Package audit contains domain types for the gateway's authentication
// audit trail.

import "time"

// Kind categorizes an audit event.
type Kind string

const (
	// KindSignIn records a successful credential exchange.
	KindSignIn Kind = "sign_in"
	// KindSignInDenied records a rejected credential exchange, including
	// valid credentials with a non-privileged role.
	KindSignInDenied Kind = "sign_in_denied"
	// KindSignOut records a session ended by the user.
	KindSignOut Kind = "sign_out"
	// KindTokenRefresh records a completed refresh exchange.
	KindTokenRefresh Kind = "token_refresh"
	// KindRefreshFailed records a failed refresh exchange.
	KindRefreshFailed Kind = "refresh_failed"
	// KindAccessDenied records a route-gate redirect for a wrongly-roled session.
	KindAccessDenied Kind = "access_denied"
)

// Event is a single audit trail record.
type Event struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	UserID     string    `json:"user_id"`
	Identifier string    `json:"identifier"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}
