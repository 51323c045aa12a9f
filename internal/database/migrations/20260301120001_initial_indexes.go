package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		// Searches filter by guild and target and read newest first
		_, err := db.NewRaw(`
			CREATE INDEX IF NOT EXISTS idx_reban_records_guild_target
			ON reban_records (guild_id, target_id, id DESC);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create reban lookup index: %w", err)
		}

		_, err = db.NewRaw(`
			CREATE INDEX IF NOT EXISTS idx_reban_records_guild
			ON reban_records (guild_id);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create reban guild index: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, index := range []string{"idx_reban_records_guild_target", "idx_reban_records_guild"} {
			if _, err := db.NewRaw("DROP INDEX IF EXISTS ?", bun.Ident(index)).Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop index %s: %w", index, err)
			}
		}

		return nil
	})
}
