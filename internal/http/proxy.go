package httpx

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/yupiflow/admin-gateway/internal/backend"
)

// ProxyOptions configures the backend passthrough proxy.
type ProxyOptions struct {
	// Origin is the backend base URL, e.g. https://api.example.com.
	Origin *url.URL
	// Tokens supplies the bearer for authenticated passthrough. Nil means
	// requests are forwarded without credentials (uploads).
	Tokens backend.TokenSource
	Logger *slog.Logger
}

// NewProxy builds a reverse proxy that forwards the request path unchanged
// to the backend origin. When a token source is set, a bearer resolved from
// the request context is attached before forwarding.
func NewProxy(opts ProxyOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(opts.Origin)
			pr.Out.URL.Path = pr.In.URL.Path
			pr.Out.URL.RawQuery = pr.In.URL.RawQuery
			pr.Out.Host = opts.Origin.Host

			if opts.Tokens != nil {
				token, err := opts.Tokens.Token(pr.In.Context())
				if err != nil {
					logger.ErrorContext(pr.In.Context(), "proxy token lookup failed", "error", err)
					return
				}
				if token != "" {
					pr.Out.Header.Set("Authorization", "Bearer "+token)
				}
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.ErrorContext(r.Context(), "proxy error",
				"path", r.URL.Path, "error", err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return proxy
}
