package dbretry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Policy controls how failed database operations are retried.
type Policy struct {
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

// DefaultPolicy is used until Configure is called.
var DefaultPolicy = Policy{
	MaxElapsedTime:  30 * time.Second,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
	MaxRetries:      5,
}

var current atomic.Pointer[Policy]

func init() {
	policy := DefaultPolicy
	current.Store(&policy)
}

// Configure replaces the retry policy for all subsequent operations.
// Zero fields fall back to DefaultPolicy.
func Configure(policy Policy) {
	if policy.MaxElapsedTime <= 0 {
		policy.MaxElapsedTime = DefaultPolicy.MaxElapsedTime
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = DefaultPolicy.InitialInterval
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = DefaultPolicy.MaxInterval
	}
	if policy.MaxRetries == 0 {
		policy.MaxRetries = DefaultPolicy.MaxRetries
	}

	current.Store(&policy)
}

// CurrentPolicy returns the active retry policy.
func CurrentPolicy() Policy {
	return *current.Load()
}

// IsRetryableError checks if the given error is transient.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var pgerr pgdriver.Error
	if errors.As(err, &pgerr) {
		switch pgerr.Field('C') {
		case "08000", // connection_exception
			"08003", // connection_does_not_exist
			"08006", // connection_failure
			"08001", // sqlclient_unable_to_establish_sqlconnection
			"08004", // sqlserver_rejected_establishment_of_sqlconnection
			"08007", // transaction_resolution_unknown
			"40001", // serialization_failure
			"40P01", // deadlock_detected
			"53000", // insufficient_resources
			"53300", // too_many_connections
			"57P01", // admin_shutdown
			"57P02", // crash_shutdown
			"57P03", // cannot_connect_now
			"55P03": // lock_not_available
			return true
		}

		return false
	}

	// A cancelled caller is never retried
	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errMsg := err.Error()
	for _, fragment := range []string{
		"connection reset by peer",
		"broken pipe",
		"connection refused",
		"no connection",
		"i/o timeout",
		"database is locked",
		"SQLITE_BUSY",
	} {
		if strings.Contains(errMsg, fragment) {
			return true
		}
	}

	return false
}

// Operation wraps a database operation with retry logic.
func Operation[T any](ctx context.Context, operation func(context.Context) (T, error)) (T, error) {
	var result T

	err := retry(ctx, func(ctx context.Context) error {
		var err error
		result, err = operation(ctx)
		return err
	})

	return result, err
}

// NoResult wraps a database operation that doesn't return a result.
func NoResult(ctx context.Context, operation func(context.Context) error) error {
	return retry(ctx, operation)
}

// Transaction runs fn in a transaction, retrying the whole transaction on transient failures.
func Transaction(ctx context.Context, db bun.IDB, opts *sql.TxOptions, fn func(context.Context, bun.Tx) error) error {
	return NoResult(ctx, func(ctx context.Context) error {
		return db.RunInTx(ctx, opts, fn)
	})
}

func retry(ctx context.Context, operation func(context.Context) error) error {
	policy := CurrentPolicy()

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(policy.MaxElapsedTime),
		backoff.WithInitialInterval(policy.InitialInterval),
		backoff.WithMaxInterval(policy.MaxInterval),
	), policy.MaxRetries)

	var lastErr error

	err := backoff.Retry(func() error {
		err := operation(ctx)
		if err == nil {
			return nil
		}

		if !IsRetryableError(err) {
			return backoff.Permanent(err)
		}

		lastErr = err

		return err
	}, backoff.WithContext(b, ctx))
	if err != nil {
		if lastErr != nil && !errors.Is(err, lastErr) {
			return fmt.Errorf("database operation failed after retries: %w", lastErr)
		}

		return err
	}

	return nil
}
