package database

import (
	"github.com/robalyx/unbanmanager/internal/database/service"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	ledger *service.LedgerService
	guild  *service.GuildService
}

// NewService creates a new service instance with all services.
func NewService(repository *Repository, logger *zap.Logger) *Service {
	return &Service{
		ledger: service.NewLedger(repository.Reban(), logger),
		guild:  service.NewGuild(repository.GuildConfig(), logger),
	}
}

// Ledger returns the reban ledger service.
func (s *Service) Ledger() *service.LedgerService {
	return s.ledger
}

// Guild returns the guild settings service.
func (s *Service) Guild() *service.GuildService {
	return s.guild
}
