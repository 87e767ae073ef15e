package data

// Package data holds the gateway's own persistence: the authentication
// audit trail. Dashboard resources live behind the backend API and are
// never stored here.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yupiflow/admin-gateway/internal/data/pgxutil"
	"github.com/yupiflow/admin-gateway/internal/domain/audit"
	apperrors "github.com/yupiflow/admin-gateway/internal/errors"
)

// AuditRepo provides database operations for the auth audit trail.
type AuditRepo struct {
	DB  *sql.DB
	now func() time.Time
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{DB: db, now: time.Now}
}

// NewAuditRepoWithClock creates an AuditRepo with a custom clock (tests).
func NewAuditRepoWithClock(db *sql.DB, now func() time.Time) *AuditRepo {
	return &AuditRepo{DB: db, now: now}
}

// Record inserts a single audit event. A zero ID or CreatedAt is filled in.
func (r *AuditRepo) Record(ctx context.Context, evt audit.Event) error {
	if evt.Kind == "" {
		return apperrors.ValidationField("kind", "audit event kind is required")
	}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = r.now().UTC()
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO auth_events (id, kind, user_id, identifier, detail, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, evt.ID, string(evt.Kind), evt.UserID, evt.Identifier, evt.Detail, evt.CreatedAt)
		return execErr
	})
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("record audit event: %w", err))
	}
	return nil
}

// auditRow mirrors the auth_events schema for row collection.
type auditRow struct {
	ID         string    `db:"id"`
	Kind       string    `db:"kind"`
	UserID     string    `db:"user_id"`
	Identifier string    `db:"identifier"`
	Detail     string    `db:"detail"`
	CreatedAt  time.Time `db:"created_at"`
}

// ListRecent returns the most recent audit events, newest first.
func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	var rowsOut []auditRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			SELECT id, kind, user_id, identifier, detail, created_at
			FROM auth_events
			ORDER BY created_at DESC
			LIMIT $1
		`, limit)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		rowsOut, queryErr = pgx.CollectRows(rows, pgx.RowToStructByName[auditRow])
		return queryErr
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list audit events: %w", err))
	}

	out := make([]audit.Event, len(rowsOut))
	for i, row := range rowsOut {
		out[i] = audit.Event{
			ID:         row.ID,
			Kind:       audit.Kind(row.Kind),
			UserID:     row.UserID,
			Identifier: row.Identifier,
			Detail:     row.Detail,
			CreatedAt:  row.CreatedAt,
		}
	}
	return out, nil
}
