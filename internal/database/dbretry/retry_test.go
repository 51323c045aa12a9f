package dbretry_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/robalyx/unbanmanager/internal/database/dbretry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "no rows", err: sql.ErrNoRows, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "sqlite busy", err: errors.New("database is locked (5) (SQLITE_BUSY)"), want: true},
		{name: "constraint", err: errors.New("UNIQUE constraint failed"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dbretry.IsRetryableError(tt.err))
		})
	}
}

func TestOperation(t *testing.T) {
	dbretry.Configure(dbretry.Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxRetries:      3,
	})
	t.Cleanup(func() { dbretry.Configure(dbretry.DefaultPolicy) })

	t.Run("retries transient errors", func(t *testing.T) {
		attempts := 0
		result, err := dbretry.Operation(t.Context(), func(context.Context) (int, error) {
			attempts++
			if attempts < 3 {
				return 0, errors.New("connection reset by peer")
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.Equal(t, 3, attempts)
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		attempts := 0
		err := dbretry.NoResult(t.Context(), func(context.Context) error {
			attempts++
			return sql.ErrNoRows
		})
		require.ErrorIs(t, err, sql.ErrNoRows)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := dbretry.NoResult(t.Context(), func(context.Context) error {
			attempts++
			return errors.New("i/o timeout")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "i/o timeout")
		assert.Equal(t, 4, attempts)
	})
}

func TestConfigureDefaults(t *testing.T) {
	t.Cleanup(func() { dbretry.Configure(dbretry.DefaultPolicy) })

	dbretry.Configure(dbretry.Policy{MaxInterval: time.Second})

	policy := dbretry.CurrentPolicy()
	assert.Equal(t, dbretry.DefaultPolicy.MaxRetries, policy.MaxRetries)
	assert.Equal(t, dbretry.DefaultPolicy.InitialInterval, policy.InitialInterval)
	assert.Equal(t, dbretry.DefaultPolicy.MaxElapsedTime, policy.MaxElapsedTime)
	assert.Equal(t, time.Second, policy.MaxInterval)
}
