package models

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/dbretry"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.uber.org/zap"
)

// GuildConfigModel handles database operations for per-guild settings.
type GuildConfigModel struct {
	db     *bun.DB
	logger *zap.Logger
	pg     bool
}

// NewGuildConfig creates a new guild config model instance.
func NewGuildConfig(db *bun.DB, logger *zap.Logger) *GuildConfigModel {
	return &GuildConfigModel{
		db:     db,
		logger: logger.Named("db_guild_config"),
		pg:     db.Dialect().Name() == dialect.PG,
	}
}

// GetOrCreate returns the configuration for a guild, creating it with defaults if absent.
// Concurrent first calls for the same guild create at most one row.
func (m *GuildConfigModel) GetOrCreate(ctx context.Context, guildID snowflake.ID) (*types.GuildConfig, error) {
	config, err := dbretry.Operation(ctx, func(ctx context.Context) (*types.GuildConfig, error) {
		result, err := m.db.NewInsert().
			Model(types.NewGuildConfig(guildID)).
			On("CONFLICT (id) DO NOTHING").
			Returning("NULL").
			Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to insert default guild config: %w (guildID=%d)", err, guildID)
		}

		config := new(types.GuildConfig)
		if err := m.db.NewSelect().
			Model(config).
			Where("id = ?", guildID).
			Scan(ctx); err != nil {
			return nil, fmt.Errorf("failed to get guild config: %w (guildID=%d)", err, guildID)
		}

		if affected, _ := result.RowsAffected(); affected > 0 {
			m.logger.Debug("Created default guild config", zap.Uint64("guildID", uint64(guildID)))
		}

		return config, nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	return config, nil
}

// Modify applies change to the configuration of a guild inside a transaction and stores the given columns.
// The row is locked on postgres so concurrent changes are applied one after another.
// An error returned by change aborts the transaction and is returned as-is with the unmodified configuration.
func (m *GuildConfigModel) Modify(
	ctx context.Context, guildID snowflake.ID, change func(*types.GuildConfig) error, columns ...string,
) (*types.GuildConfig, error) {
	var (
		config    *types.GuildConfig
		changeErr error
	)

	err := dbretry.Transaction(ctx, m.db, nil, func(ctx context.Context, tx bun.Tx) error {
		changeErr = nil

		if _, err := tx.NewInsert().
			Model(types.NewGuildConfig(guildID)).
			On("CONFLICT (id) DO NOTHING").
			Returning("NULL").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert default guild config: %w", err)
		}

		config = new(types.GuildConfig)

		query := tx.NewSelect().
			Model(config).
			Where("id = ?", guildID)
		if m.pg {
			query = query.For("UPDATE")
		}

		if err := query.Scan(ctx); err != nil {
			return fmt.Errorf("failed to lock guild config: %w", err)
		}

		if err := change(config); err != nil {
			changeErr = err
			return err
		}

		if _, err := tx.NewUpdate().
			Model(config).
			Column(columns...).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to update guild config: %w", err)
		}

		return nil
	})
	if changeErr != nil {
		return config, changeErr
	}
	if err != nil {
		return nil, storeError(fmt.Errorf("%w (guildID=%d)", err, guildID))
	}

	m.logger.Debug("Updated guild config",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Strings("columns", columns))

	return config, nil
}
