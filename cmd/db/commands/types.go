package commands

import (
	"errors"

	"github.com/robalyx/unbanmanager/internal/database"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

var (
	ErrNameRequired      = errors.New("NAME argument required")
	ErrGuildUserRequired = errors.New("GUILD_ID and USER_ID arguments required")
	ErrGuildIDRequired   = errors.New("GUILD_ID and ID arguments required")
	ErrInvalidID         = errors.New("invalid ID: must be a positive number")
	ErrReasonRequired    = errors.New("--reason is required")
	ErrOperatorRequired  = errors.New("--operator is required")
)

// CLIDependencies holds the common dependencies needed by CLI commands.
type CLIDependencies struct {
	DB       database.Client
	Migrator *migrate.Migrator
	Logger   *zap.Logger
}
