package database

import (
	"github.com/robalyx/unbanmanager/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	guildConfig *models.GuildConfigModel
	reban       *models.RebanModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		guildConfig: models.NewGuildConfig(db, logger),
		reban:       models.NewReban(db, logger),
	}
}

// GuildConfig returns the guild config model repository.
func (r *Repository) GuildConfig() *models.GuildConfigModel {
	return r.guildConfig
}

// Reban returns the reban ledger model repository.
func (r *Repository) Reban() *models.RebanModel {
	return r.reban
}
