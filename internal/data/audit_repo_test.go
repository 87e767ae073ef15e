package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yupiflow/admin-gateway/internal/domain/audit"
	apperrors "github.com/yupiflow/admin-gateway/internal/errors"
	"github.com/yupiflow/admin-gateway/internal/testutil"
)

func TestAuditRepo_RecordFillsDefaults(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewAuditRepoWithClock(db, testutil.FixedTimeFunc(testutil.TestTime()))
		ctx := context.Background()

		err := repo.Record(ctx, audit.Event{
			Kind:       audit.KindSignIn,
			UserID:     "user-1",
			Identifier: "webmaster@example.com",
		})
		require.NoError(t, err)

		events, err := repo.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)

		got := events[0]
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, audit.KindSignIn, got.Kind)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "webmaster@example.com", got.Identifier)
		assert.Equal(t, testutil.TestTime(), got.CreatedAt.UTC())
	})
}

func TestAuditRepo_RecordRejectsMissingKind(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewAuditRepo(db)

		err := repo.Record(context.Background(), audit.Event{UserID: "user-1"})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestAuditRepo_ListRecentNewestFirst(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		base := testutil.TestTime()
		repo := NewAuditRepo(db)
		ctx := context.Background()

		kinds := []audit.Kind{audit.KindSignIn, audit.KindTokenRefresh, audit.KindSignOut}
		for i, kind := range kinds {
			err := repo.Record(ctx, audit.Event{
				Kind:      kind,
				UserID:    "user-1",
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			})
			require.NoError(t, err)
		}

		events, err := repo.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, audit.KindSignOut, events[0].Kind)
		assert.Equal(t, audit.KindTokenRefresh, events[1].Kind)
		assert.Equal(t, audit.KindSignIn, events[2].Kind)
	})
}

func TestAuditRepo_ListRecentHonorsLimit(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		base := testutil.TestTime()
		repo := NewAuditRepo(db)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			err := repo.Record(ctx, audit.Event{
				Kind:      audit.KindSignIn,
				UserID:    "user-1",
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err)
		}

		events, err := repo.ListRecent(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, events, 2)

		// Non-positive limits fall back to the default instead of erroring.
		events, err = repo.ListRecent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, events, 5)
	})
}

func TestAuditRepo_RecordDuplicateIDConflicts(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewAuditRepo(db)
		ctx := context.Background()

		evt := audit.Event{
			ID:     "fixed-id",
			Kind:   audit.KindSignIn,
			UserID: "user-1",
		}
		require.NoError(t, repo.Record(ctx, evt))

		err := repo.Record(ctx, evt)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})
}
