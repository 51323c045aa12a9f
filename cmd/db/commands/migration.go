package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// MigrationCommands returns all migration-related commands.
func MigrationCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "init",
			Usage:  "Initialize migration tables",
			Action: handleInit(deps),
		},
		{
			Name:   "migrate",
			Usage:  "Run pending migrations",
			Action: handleMigrate(deps),
		},
		{
			Name:  "rollback",
			Usage: "Rollback the last migration group",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "yes",
					Usage:   "Skip the confirmation prompt",
					Aliases: []string{"y"},
				},
			},
			Action: handleRollback(deps),
		},
		{
			Name:   "status",
			Usage:  "Show migration status",
			Action: handleStatus(deps),
		},
		{
			Name:      "create",
			Usage:     "Create a new migration file",
			ArgsUsage: "NAME",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "sql",
					Usage: "Create up and down SQL files instead of a Go migration",
				},
			},
			Action: handleCreate(deps),
		},
	}
}

// handleInit handles the 'init' command.
func handleInit(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		if err := deps.Migrator.Init(ctx); err != nil {
			return err
		}

		deps.Logger.Info("Initialized migration tables")

		return nil
	}
}

// handleMigrate handles the 'migrate' command.
func handleMigrate(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		return withLock(ctx, deps, func() error {
			group, err := deps.Migrator.Migrate(ctx)
			if err != nil {
				return err
			}

			if group.IsZero() {
				deps.Logger.Info("No new migrations to run (database is up to date)")
				return nil
			}

			deps.Logger.Info("Successfully migrated", zap.String("group", group.String()))

			return nil
		})
	}
}

// handleRollback handles the 'rollback' command.
func handleRollback(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if !c.Bool("yes") && !confirm("Rolling back drops the tables created by the last migration group. Continue?") {
			deps.Logger.Info("Operation cancelled")
			return nil
		}

		return withLock(ctx, deps, func() error {
			group, err := deps.Migrator.Rollback(ctx)
			if err != nil {
				return err
			}

			if group.IsZero() {
				deps.Logger.Info("No groups to roll back")
				return nil
			}

			deps.Logger.Info("Successfully rolled back", zap.String("group", group.String()))

			return nil
		})
	}
}

// handleStatus handles the 'status' command.
func handleStatus(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		ms, err := deps.Migrator.MigrationsWithStatus(ctx)
		if err != nil {
			return err
		}

		for _, m := range ms {
			state := "pending"
			if m.IsApplied() {
				state = fmt.Sprintf("applied in group %d at %s", m.GroupID, m.MigratedAt.Format("2006-01-02 15:04:05"))
			}

			fmt.Printf("%s  %s\n", m.Name, state)
		}

		deps.Logger.Info("Migration status",
			zap.Int("total", len(ms)),
			zap.Int("unapplied", len(ms.Unapplied())),
			zap.String("lastGroup", ms.LastGroup().String()))

		return nil
	}
}

// handleCreate handles the 'create' command.
func handleCreate(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrNameRequired
		}

		name := c.Args().First()

		if c.Bool("sql") {
			files, err := deps.Migrator.CreateSQLMigrations(ctx, name)
			if err != nil {
				return err
			}

			for _, mf := range files {
				deps.Logger.Info("Created SQL migration", zap.String("name", mf.Name), zap.String("path", mf.Path))
			}

			return nil
		}

		mf, err := deps.Migrator.CreateGoMigration(ctx, name)
		if err != nil {
			return err
		}

		deps.Logger.Info("Created Go migration", zap.String("name", mf.Name), zap.String("path", mf.Path))

		return nil
	}
}

// withLock runs fn while holding the migration lock.
func withLock(ctx context.Context, deps *CLIDependencies, fn func() error) error {
	if err := deps.Migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer deps.Migrator.Unlock(ctx) //nolint:errcheck // released on a best effort basis

	return fn()
}
