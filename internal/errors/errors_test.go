package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_MessageAndCause(t *testing.T) {
	plain := NotFound("customer not found")
	assert.Equal(t, "customer not found", plain.Error())

	cause := stderrors.New("connection reset")
	wrapped := Wrap(cause, ErrCodeUnavailable, "backend call failed")
	assert.Equal(t, "backend call failed: connection reset", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestAppError_Predicates(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
	}{
		{NotFound("x"), IsNotFound},
		{Conflict("x"), IsConflict},
		{Validation("x"), IsValidation},
		{Unauthorized("x"), IsUnauthorized},
		{Forbidden("x"), IsForbidden},
		{Unavailable("x"), IsUnavailable},
		{Internal("x"), IsInternal},
	}

	for _, tt := range tests {
		appErr := tt.err.(*AppError)
		t.Run(string(appErr.Code), func(t *testing.T) {
			assert.True(t, tt.check(tt.err))

			// Predicates see through fmt wrapping.
			assert.True(t, tt.check(fmt.Errorf("while handling request: %w", tt.err)))

			// A different code never matches.
			other := Internal("other")
			if appErr.Code == ErrCodeInternal {
				other = NotFound("other")
			}
			assert.False(t, tt.check(other))
		})
	}

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestValidationField(t *testing.T) {
	err := ValidationField("email", "email is required")

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "email", appErr.Field)
	assert.True(t, IsValidation(err))
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{"no rows", fmt.Errorf("query: %w", pgx.ErrNoRows), ErrCodeNotFound},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), ErrCodeCanceled},
		{
			"unique violation",
			&pgconn.PgError{Code: pgerrcode.UniqueViolation, Detail: "Key (id)=(fixed-id) already exists."},
			ErrCodeConflict,
		},
		{
			"not null violation",
			&pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "kind"},
			ErrCodeValidation,
		},
		{
			"other pg error",
			&pgconn.PgError{Code: pgerrcode.SerializationFailure},
			ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapDBError(tt.err)
			var appErr *AppError
			require.ErrorAs(t, mapped, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestMapDBError_ExtractsConflictField(t *testing.T) {
	mapped := MapDBError(&pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: "Key (tracking_code)=(YF-1) already exists.",
	})

	var appErr *AppError
	require.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, "tracking_code", appErr.Field)
}

func TestMapDBError_Passthrough(t *testing.T) {
	assert.Nil(t, MapDBError(nil))

	plain := stderrors.New("driver hiccup")
	assert.Equal(t, plain, MapDBError(plain))
}
