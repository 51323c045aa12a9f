package service

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/models"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"go.uber.org/zap"
)

// LedgerService handles queries and mutations of the reban ledger.
type LedgerService struct {
	model  *models.RebanModel
	logger *zap.Logger
}

// NewLedger creates a new ledger service.
func NewLedger(model *models.RebanModel, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		model:  model,
		logger: logger.Named("ledger_service"),
	}
}

// Record appends a reban record to the ledger.
func (s *LedgerService) Record(ctx context.Context, record *types.RebanRecord) error {
	return s.model.Create(ctx, record)
}

// Count returns the number of records for a target.
func (s *LedgerService) Count(ctx context.Context, guildID, targetID snowflake.ID) (int, error) {
	return s.model.Count(ctx, guildID, targetID)
}

// Search returns one page of records for a target, newest first.
func (s *LedgerService) Search(
	ctx context.Context, guildID, targetID snowflake.ID, page int,
) (*types.RebanPage, error) {
	return s.model.Page(ctx, guildID, targetID, page, types.DefaultPageSize)
}

// Inspect returns a single record.
func (s *LedgerService) Inspect(ctx context.Context, guildID snowflake.ID, id int64) (*types.RebanRecord, error) {
	return s.model.GetByID(ctx, guildID, id)
}

// Delete removes a single record and returns its prior value.
// The request must already be authorized by the caller.
func (s *LedgerService) Delete(
	ctx context.Context, guildID snowflake.ID, id int64, request types.MutationRequest,
) (*types.RebanRecord, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	record, err := s.model.DeleteByID(ctx, guildID, id)
	if err != nil {
		if !errors.Is(err, types.ErrRebanNotFound) {
			s.logger.Error("Failed to delete reban record",
				zap.Uint64("guildID", uint64(guildID)),
				zap.Int64("id", id),
				zap.Error(err))
		}

		return nil, err
	}

	s.logger.Info("Deleted reban record",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Int64("id", id),
		zap.Uint64("requestedBy", uint64(request.RequestedBy)),
		zap.String("reason", request.Reason))

	return record, nil
}

// Wipe removes every record for a target and returns how many were removed.
// The request must already be authorized by the caller.
func (s *LedgerService) Wipe(
	ctx context.Context, guildID, targetID snowflake.ID, request types.MutationRequest,
) (int, error) {
	if err := request.Validate(); err != nil {
		return 0, err
	}

	removed, err := s.model.Wipe(ctx, guildID, targetID)
	if err != nil {
		s.logger.Error("Failed to wipe reban records",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Uint64("targetID", uint64(targetID)),
			zap.Error(err))

		return 0, err
	}

	s.logger.Info("Wiped reban records",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Uint64("targetID", uint64(targetID)),
		zap.Int("removed", removed),
		zap.Uint64("requestedBy", uint64(request.RequestedBy)),
		zap.String("reason", request.Reason))

	return removed, nil
}
