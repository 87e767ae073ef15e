package backend

// Package backend provides the HTTP client for the remote YupiFlow API.
// Every outgoing request attaches the current session's bearer token; 401
// responses are logged and surfaced unchanged. The client never refreshes
// tokens itself; that happens on the session-read path in internal/service.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/yupiflow/admin-gateway/internal/errors"
)

// ErrUnauthorized is returned for any backend response with status 401.
var ErrUnauthorized = errors.New("backend rejected credentials")

// TokenSource yields the bearer token for the current request context.
// A TokenSource returning an empty token means "send unauthenticated".
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token implements TokenSource.
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// ClientOptions groups dependencies for Client.
type ClientOptions struct {
	// OriginURL is the backend base URL, e.g. "https://api.yupiflow.com".
	OriginURL string
	// APIPrefix is prepended to relative request paths (default "/api/v1").
	APIPrefix string
	// Tokens resolves the bearer token per request. Optional.
	Tokens TokenSource
	// HTTPClient overrides the underlying transport. Optional.
	HTTPClient *http.Client
	// Timeout bounds each call when HTTPClient is not supplied.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client is the preconfigured request client for the backend origin.
type Client struct {
	origin    *url.URL
	apiPrefix string
	tokens    TokenSource
	http      *http.Client
	logger    *slog.Logger
}

// NewClient constructs a backend client from options.
func NewClient(opts ClientOptions) (*Client, error) {
	origin, err := url.Parse(strings.TrimRight(opts.OriginURL, "/"))
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("invalid backend origin URL %q", opts.OriginURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	apiPrefix := opts.APIPrefix
	if apiPrefix == "" {
		apiPrefix = "/api/v1"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		origin:    origin,
		apiPrefix: apiPrefix,
		tokens:    opts.Tokens,
		http:      httpClient,
		logger:    logger,
	}, nil
}

// Origin returns the backend origin URL.
func (c *Client) Origin() *url.URL {
	u := *c.origin
	return &u
}

// RequestParams groups parameters for Do.
type RequestParams struct {
	Method string
	// Path is relative to the API prefix unless it starts with the prefix
	// or a slash-prefixed absolute backend path is intended.
	Path  string
	Query url.Values
	Body  any
	// Out receives the decoded JSON response when non-nil.
	Out any
	// SkipAuth sends the request without a bearer token (login endpoint).
	SkipAuth bool
	// BearerToken overrides the TokenSource for this request (revoke path,
	// where the token to revoke is the credential itself).
	BearerToken string
}

// Do executes a JSON request against the backend API.
func (c *Client) Do(ctx context.Context, p RequestParams) error {
	u := *c.origin
	u.Path = joinPath(u.Path, c.apiPrefix, p.Path)
	if p.Query != nil {
		u.RawQuery = p.Query.Encode()
	}

	var body io.Reader
	if p.Body != nil {
		buf, err := json.Marshal(p.Body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, p.Method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	switch {
	case p.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+p.BearerToken)
	case !p.SkipAuth && c.tokens != nil:
		token, tokenErr := c.tokens.Token(ctx)
		if tokenErr != nil {
			return fmt.Errorf("resolve bearer token: %w", tokenErr)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeUnavailable, "backend %s %s", p.Method, p.Path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Propagate unchanged; recovery is the session layer's concern.
		c.logger.WarnContext(ctx, "backend returned unauthorized",
			"method", p.Method, "path", p.Path)
		return apperrors.Wrap(ErrUnauthorized, apperrors.ErrCodeUnauthorized, "backend call unauthorized")
	}
	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NotFoundf("backend resource not found: %s", p.Path)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp, p)
	}

	if p.Out != nil {
		if decodeErr := json.NewDecoder(resp.Body).Decode(p.Out); decodeErr != nil {
			return fmt.Errorf("decode response: %w", decodeErr)
		}
	}

	return nil
}

// apiError is the backend's error envelope.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) decodeError(resp *http.Response, p RequestParams) error {
	var payload apiError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)

	msg := payload.Message
	if msg == "" {
		msg = resp.Status
	}

	code := apperrors.ErrCodeInternal
	switch {
	case resp.StatusCode == http.StatusForbidden:
		code = apperrors.ErrCodeForbidden
	case resp.StatusCode == http.StatusConflict:
		code = apperrors.ErrCodeConflict
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		code = apperrors.ErrCodeValidation
	case resp.StatusCode >= http.StatusInternalServerError:
		code = apperrors.ErrCodeUnavailable
	}

	return apperrors.Wrapf(
		fmt.Errorf("backend status %d", resp.StatusCode),
		code, "%s %s: %s", p.Method, p.Path, msg,
	)
}

func joinPath(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		b.WriteString("/")
		b.WriteString(part)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
