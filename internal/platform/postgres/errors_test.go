package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/store"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		err           error
		expectedError error
	}{
		{
			name:          "nil_error",
			err:           nil,
			expectedError: nil,
		},
		{
			name:          "sql_no_rows",
			err:           sql.ErrNoRows,
			expectedError: store.ErrNotFound,
		},
		{
			name: "unique_violation",
			err: &pgconn.PgError{
				Code:           uniqueViolationCode,
				ConstraintName: "users_email_key",
			},
			expectedError: store.ErrDuplicate,
		},
		{
			name: "foreign_key_violation",
			err: &pgconn.PgError{
				Code: foreignKeyViolationCode,
			},
			expectedError: store.ErrInvalidEntity,
		},
		{
			name: "check_constraint_violation",
			err: &pgconn.PgError{
				Code: checkViolationCode,
			},
			expectedError: store.ErrInvalidEntity,
		},
		{
			name: "not_null_violation",
			err: &pgconn.PgError{
				Code: notNullViolationCode,
			},
			expectedError: store.ErrInvalidEntity,
		},
		{
			name: "serialization_failure",
			err: &pgconn.PgError{
				Code: serializationFailureCode,
			},
			expectedError: store.ErrTransient,
		},
		{
			name: "deadlock_detected",
			err: &pgconn.PgError{
				Code: deadlockDetectedCode,
			},
			expectedError: store.ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MapError(tt.err)
			if tt.expectedError == nil {
				assert.NoError(t, result)
				return
			}
			assert.ErrorIs(t, result, tt.expectedError)
		})
	}

	t.Run("unmapped errors pass through", func(t *testing.T) {
		t.Parallel()
		original := errors.New("connection refused")
		assert.Equal(t, original, MapError(original))

		unknownPg := &pgconn.PgError{Code: "99999", Message: "unknown"}
		assert.Equal(t, error(unknownPg), MapError(unknownPg))
	})
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTransient(&pgconn.PgError{Code: serializationFailureCode}))
	assert.True(t, IsTransient(&pgconn.PgError{Code: deadlockDetectedCode}))
	assert.True(t, IsTransient(MapError(&pgconn.PgError{Code: serializationFailureCode})))
	assert.False(t, IsTransient(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(mockResult{rowsAffected: 1}, "task"))
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(mockResult{rowsAffected: 0}, "task")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "task")
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil, "task"))
	})

	t.Run("rows affected error propagates", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(mockResult{err: errors.New("driver")}, "task"))
	})
}
