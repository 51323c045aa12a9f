package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/dbretry"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.uber.org/zap"
)

// RebanModel handles database operations for the reban ledger.
type RebanModel struct {
	db     *bun.DB
	logger *zap.Logger
	pg     bool
}

// NewReban creates a new reban model instance.
func NewReban(db *bun.DB, logger *zap.Logger) *RebanModel {
	return &RebanModel{
		db:     db,
		logger: logger.Named("db_reban"),
		pg:     db.Dialect().Name() == dialect.PG,
	}
}

// Create appends a record to the ledger and fills in its ID.
func (m *RebanModel) Create(ctx context.Context, record *types.RebanRecord) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		record.ID = 0

		_, err := m.db.NewInsert().
			Model(record).
			Returning("id").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create reban record: %w (guildID=%d, targetID=%d)",
				err, record.GuildID, record.TargetID)
		}

		return nil
	})
	if err != nil {
		return storeError(err)
	}

	m.logger.Debug("Created reban record",
		zap.Int64("id", record.ID),
		zap.Uint64("guildID", uint64(record.GuildID)),
		zap.Uint64("targetID", uint64(record.TargetID)),
		zap.Uint64("actorID", uint64(record.ActorID)))

	return nil
}

// Count returns the number of records for a target in a guild.
func (m *RebanModel) Count(ctx context.Context, guildID, targetID snowflake.ID) (int, error) {
	count, err := dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		return m.countQuery(m.db, guildID, targetID).Count(ctx)
	})
	if err != nil {
		return 0, storeError(fmt.Errorf("failed to count reban records: %w (guildID=%d, targetID=%d)",
			err, guildID, targetID))
	}

	return count, nil
}

// Page returns one page of records for a target, newest first.
// The count and the page are read in one transaction. Pages past the end
// resolve to the last page.
func (m *RebanModel) Page(
	ctx context.Context, guildID, targetID snowflake.ID, page, pageSize int,
) (*types.RebanPage, error) {
	if pageSize <= 0 {
		pageSize = types.DefaultPageSize
	}

	var opts *sql.TxOptions
	if m.pg {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}

	var result *types.RebanPage

	err := dbretry.Transaction(ctx, m.db, opts, func(ctx context.Context, tx bun.Tx) error {
		total, err := m.countQuery(tx, guildID, targetID).Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count reban records: %w", err)
		}

		totalPages := types.TotalPages(total, pageSize)
		current := types.ClampPage(page, totalPages)

		records := make([]*types.RebanRecord, 0, pageSize)
		if total > 0 {
			err = tx.NewSelect().
				Model(&records).
				Where("guild_id = ?", guildID).
				Where("target_id = ?", targetID).
				Order("id DESC").
				Limit(pageSize).
				Offset((current - 1) * pageSize).
				Scan(ctx)
			if err != nil {
				return fmt.Errorf("failed to get reban records: %w", err)
			}
		}

		result = &types.RebanPage{
			Records:    records,
			Page:       current,
			TotalPages: totalPages,
			Total:      total,
		}

		return nil
	})
	if err != nil {
		return nil, storeError(fmt.Errorf("%w (guildID=%d, targetID=%d, page=%d)", err, guildID, targetID, page))
	}

	return result, nil
}

// GetByID returns a record of a guild by its ID.
func (m *RebanModel) GetByID(ctx context.Context, guildID snowflake.ID, id int64) (*types.RebanRecord, error) {
	record, err := dbretry.Operation(ctx, func(ctx context.Context) (*types.RebanRecord, error) {
		record := new(types.RebanRecord)
		err := m.db.NewSelect().
			Model(record).
			Where("id = ?", id).
			Where("guild_id = ?", guildID).
			Scan(ctx)
		if err != nil {
			return nil, err
		}

		return record, nil
	})
	if err != nil {
		if isNoRows(err) {
			return nil, types.ErrRebanNotFound
		}

		return nil, storeError(fmt.Errorf("failed to get reban record: %w (guildID=%d, id=%d)", err, guildID, id))
	}

	return record, nil
}

// DeleteByID removes a record of a guild and returns its prior value.
func (m *RebanModel) DeleteByID(ctx context.Context, guildID snowflake.ID, id int64) (*types.RebanRecord, error) {
	var deleted *types.RebanRecord

	err := dbretry.Transaction(ctx, m.db, nil, func(ctx context.Context, tx bun.Tx) error {
		record := new(types.RebanRecord)

		query := tx.NewSelect().
			Model(record).
			Where("id = ?", id).
			Where("guild_id = ?", guildID)
		if m.pg {
			query = query.For("UPDATE")
		}

		if err := query.Scan(ctx); err != nil {
			if isNoRows(err) {
				return types.ErrRebanNotFound
			}

			return fmt.Errorf("failed to lock reban record: %w", err)
		}

		if _, err := tx.NewDelete().
			Model(record).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete reban record: %w", err)
		}

		deleted = record

		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrRebanNotFound) {
			return nil, types.ErrRebanNotFound
		}

		return nil, storeError(fmt.Errorf("%w (guildID=%d, id=%d)", err, guildID, id))
	}

	m.logger.Debug("Deleted reban record",
		zap.Int64("id", id),
		zap.Uint64("guildID", uint64(guildID)))

	return deleted, nil
}

// Wipe removes every record for a target in a guild and returns how many were removed.
func (m *RebanModel) Wipe(ctx context.Context, guildID, targetID snowflake.ID) (int, error) {
	removed, err := dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		result, err := m.db.NewDelete().
			Model((*types.RebanRecord)(nil)).
			Where("guild_id = ?", guildID).
			Where("target_id = ?", targetID).
			Exec(ctx)
		if err != nil {
			return 0, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}

		return int(affected), nil
	})
	if err != nil {
		return 0, storeError(fmt.Errorf("failed to wipe reban records: %w (guildID=%d, targetID=%d)",
			err, guildID, targetID))
	}

	m.logger.Debug("Wiped reban records",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Uint64("targetID", uint64(targetID)),
		zap.Int("removed", removed))

	return removed, nil
}

func (m *RebanModel) countQuery(db bun.IDB, guildID, targetID snowflake.ID) *bun.SelectQuery {
	return db.NewSelect().
		Model((*types.RebanRecord)(nil)).
		Where("guild_id = ?", guildID).
		Where("target_id = ?", targetID)
}
