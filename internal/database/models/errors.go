package models

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/unbanmanager/internal/database/types"
)

// storeError marks persistence failures as ErrStoreUnavailable while keeping the cause.
func storeError(err error) error {
	if err == nil || errors.Is(err, types.ErrStoreUnavailable) {
		return err
	}

	return fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
}

// isNoRows reports whether err is a missing-row result.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
