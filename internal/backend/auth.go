package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/yupiflow/admin-gateway/internal/domain/auth"
)

// AuthClient implements ports.TokenExchanger against the backend's
// authentication endpoints.
type AuthClient struct {
	client *Client
	logger *slog.Logger
}

// NewAuthClient wraps a backend Client with the auth endpoint bindings.
func NewAuthClient(client *Client, logger *slog.Logger) *AuthClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthClient{client: client, logger: logger}
}

// loginRequest is the credential exchange payload.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// loginResponse mirrors the backend auth endpoint response. The refresh
// token is optional; when absent the access token doubles as the refresh
// credential.
type loginResponse struct {
	Status string `json:"status"`
	User   struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Token    string `json:"token"`
		Role     string `json:"role"`
		Country  string `json:"country"`
	} `json:"user"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Exchange submits credentials and maps the response into a domain Identity.
func (a *AuthClient) Exchange(ctx context.Context, creds domainauth.Credentials) (domainauth.Identity, error) {
	var resp loginResponse
	err := a.client.Do(ctx, RequestParams{
		Method:   http.MethodPost,
		Path:     "auth/login",
		Body:     loginRequest{Identifier: creds.Identifier, Secret: creds.Secret},
		Out:      &resp,
		SkipAuth: true,
	})
	if err != nil {
		return domainauth.Identity{}, err
	}

	if resp.User.Token == "" {
		return domainauth.Identity{}, fmt.Errorf("auth response missing token: %w", ErrUnauthorized)
	}

	refresh := resp.RefreshToken
	if refresh == "" {
		refresh = resp.User.Token
	}

	return domainauth.Identity{
		UserID:       fmt.Sprintf("%d", resp.User.ID),
		Name:         resp.User.Username,
		Email:        resp.User.Email,
		Role:         domainauth.Role(strings.ToLower(resp.User.Role)),
		Country:      resp.User.Country,
		AccessToken:  resp.User.Token,
		RefreshToken: refresh,
	}, nil
}

// refreshRequest is the token refresh payload.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshResponse carries the rotated token pair. Refresh is optional; an
// empty value means the backend kept the old refresh token.
type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Refresh exchanges a refresh token for a fresh access token.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	var resp refreshResponse
	err := a.client.Do(ctx, RequestParams{
		Method:   http.MethodPost,
		Path:     "auth/refresh",
		Body:     refreshRequest{RefreshToken: refreshToken},
		Out:      &resp,
		SkipAuth: true,
	})
	if err != nil {
		return "", "", err
	}
	if resp.Access == "" {
		return "", "", fmt.Errorf("refresh response missing access token")
	}
	return resp.Access, resp.Refresh, nil
}

// Revoke invalidates an access token server-side. The token being revoked
// is itself the bearer credential.
func (a *AuthClient) Revoke(ctx context.Context, accessToken string) error {
	return a.client.Do(ctx, RequestParams{
		Method:      http.MethodPost,
		Path:        "auth/logout",
		BearerToken: accessToken,
	})
}
