package service

import (
	"context"
	"log/slog"

	"github.com/yupiflow/admin-gateway/internal/domain/audit"
)

// LogAuditRecorder writes auth events to the structured log. It stands in
// for the database-backed trail when no gateway database is configured.
type LogAuditRecorder struct {
	Logger *slog.Logger
}

// Record implements ports.AuditRecorder.
func (r LogAuditRecorder) Record(ctx context.Context, evt audit.Event) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "auth event",
		slog.String("kind", string(evt.Kind)),
		slog.String("user_id", evt.UserID),
		slog.String("identifier", evt.Identifier),
		slog.String("detail", evt.Detail),
	)
	return nil
}
