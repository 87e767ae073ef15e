// Package devseed populates the audit trail with sample events so the
// dashboard's auth-events view has data in development mode. It is only
// invoked when IsDev is set and the audit store is connected.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/yupiflow/admin-gateway/internal/data"
	"github.com/yupiflow/admin-gateway/internal/domain/audit"
)

// Seed inserts a deterministic set of audit events. Existing rows are left
// alone; seeding is skipped when the table already has data.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	repo := data.NewAuditRepo(db)
	existing, err := repo.ListRecent(ctx, 1)
	if err != nil {
		return fmt.Errorf("devseed: check audit trail: %w", err)
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "devseed: audit trail already populated, skipping")
		return nil
	}

	now := time.Now().UTC()
	events := []audit.Event{
		{
			Kind:       audit.KindSignIn,
			UserID:     "1",
			Identifier: "webmaster@yupiflow.local",
			CreatedAt:  now.Add(-48 * time.Hour),
		},
		{
			Kind:       audit.KindTokenRefresh,
			UserID:     "1",
			Identifier: "webmaster@yupiflow.local",
			CreatedAt:  now.Add(-24 * time.Hour),
		},
		{
			Kind:       audit.KindSignInDenied,
			Identifier: "customer@yupiflow.local",
			Detail:     "role customer is not permitted",
			CreatedAt:  now.Add(-6 * time.Hour),
		},
		{
			Kind:       audit.KindSignOut,
			UserID:     "1",
			Identifier: "webmaster@yupiflow.local",
			CreatedAt:  now.Add(-time.Hour),
		},
	}

	for _, evt := range events {
		if recordErr := repo.Record(ctx, evt); recordErr != nil {
			return fmt.Errorf("devseed: record %s: %w", evt.Kind, recordErr)
		}
	}

	logger.InfoContext(ctx, "devseed: seeded audit trail", "events", len(events))
	return nil
}
