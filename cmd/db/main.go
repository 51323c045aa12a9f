package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/robalyx/unbanmanager/cmd/db/commands"
	"github.com/robalyx/unbanmanager/internal/database"
	"github.com/robalyx/unbanmanager/internal/database/migrations"
	"github.com/robalyx/unbanmanager/internal/setup/config"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	deps, err := setupDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	defer deps.DB.Close()
	defer deps.Logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

	app := &cli.Command{
		Name:  "db",
		Usage: "Database management tool",
		Commands: slices.Concat(
			commands.MigrationCommands(deps),
			commands.LedgerCommands(deps),
		),
	}

	return app.Run(ctx, os.Args)
}

// setupDependencies connects to the configured database without migrating it.
func setupDependencies(ctx context.Context) (*commands.CLIDependencies, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewConnection(ctx, &cfg.Common, logger, false)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &commands.CLIDependencies{
		DB:       db,
		Migrator: migrate.NewMigrator(db.DB(), migrations.Migrations),
		Logger:   logger,
	}, nil
}
