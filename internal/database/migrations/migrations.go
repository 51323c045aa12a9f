package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set of schema changes applied by the migrator.
var Migrations = migrate.NewMigrations()
