package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role as reported by the
// YupiFlow backend. Kept in string form for easy persistence and cookies.
type Role string

const (
	// RoleWebmaster is the sole role permitted to use the dashboard.
	RoleWebmaster Role = "webmaster"
	// RoleCustomer is a storefront account; never authorized here.
	RoleCustomer Role = "customer"
	// RoleCourier is a delivery account; never authorized here.
	RoleCourier Role = "courier"
)

// Credentials is the transient identifier/secret pair consumed by a single
// authentication attempt. It is never persisted.
type Credentials struct {
	Identifier string
	Secret     string
}

// Identity is the authenticated principal returned by the backend auth
// endpoint. Adapters map backend response fields into this shape.
type Identity struct {
	UserID       string
	Name         string
	Email        string
	Role         Role
	Country      string
	AccessToken  string
	RefreshToken string
}

// Session is the server-side record persisted for an authenticated
// webmaster. ID is an opaque identifier held by the browser in a cookie;
// tokens never leave the gateway.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Country      string    `json:"country"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`

	// Authorized is the role decision computed once at issuance. The route
	// gate consults this flag instead of re-deriving it from Role.
	Authorized bool `json:"authorized"`

	// RefreshFailed marks a session whose last refresh exchange failed.
	// Reads remain fail-open; the next backend call surfaces the 401.
	RefreshFailed bool `json:"refresh_failed,omitempty"`
}

// TokenExpired reports whether the access token needs a refresh exchange.
func (s Session) TokenExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// User returns the read-only projection exposed to the UI.
func (s Session) User() AuthorizedUser {
	return AuthorizedUser{
		ID:      s.UserID,
		Name:    s.Name,
		Email:   s.Email,
		Role:    s.Role,
		Country: s.Country,
	}
}

// AuthorizedUser is the derived view of a Session exposed to the UI.
type AuthorizedUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Country string `json:"country"`
}
