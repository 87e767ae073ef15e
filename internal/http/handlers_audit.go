package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yupiflow/admin-gateway/internal/domain/audit"
)

// AuditLister reads back the gateway's own authentication trail.
type AuditLister interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

// AuditHandler serves the auth event trail. Only wired when the gateway
// database is enabled.
type AuditHandler struct {
	events AuditLister
	logger *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(events AuditLister, logger *slog.Logger) *AuditHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditHandler{events: events, logger: logger}
}

// ListRecent returns the most recent auth events, newest first.
func (h *AuditHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}

	events, err := h.events.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list auth events failed", "error", err)
		writeBackendError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"items": events})
}
