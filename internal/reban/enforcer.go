package reban

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"go.uber.org/zap"
)

// ErrLedgerWriteFailed is returned when a reban happened but could not be recorded.
var ErrLedgerWriteFailed = errors.New("failed to record reban")

// Outcome is the result of an enforcement attempt.
type Outcome int

const (
	// Enforced means the ban was reapplied.
	Enforced Outcome = iota
	// EnforcementFailed means the platform rejected the ban.
	EnforcementFailed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Enforced:
		return "enforced"
	case EnforcementFailed:
		return "enforcement_failed"
	default:
		return "invalid"
	}
}

// Banner reapplies bans on the platform.
type Banner interface {
	Ban(ctx context.Context, guildID, userID snowflake.ID, reason string) error
}

// LedgerWriter appends reban records.
type LedgerWriter interface {
	Record(ctx context.Context, record *types.RebanRecord) error
}

// Enforcement describes one enforcement attempt.
type Enforcement struct {
	Outcome Outcome
	// Record is nil when the ledger write failed.
	Record *types.RebanRecord
	// BanErr holds the platform error when Outcome is EnforcementFailed.
	BanErr error
}

// Enforcer reverses unauthorized unbans and records them.
type Enforcer struct {
	banner Banner
	ledger LedgerWriter
	logger *zap.Logger
	now    func() time.Time
}

// EnforcerOption configures an Enforcer.
type EnforcerOption func(*Enforcer)

// WithClock sets the clock used to timestamp records.
func WithClock(now func() time.Time) EnforcerOption {
	return func(e *Enforcer) {
		e.now = now
	}
}

// NewEnforcer creates an enforcer.
func NewEnforcer(banner Banner, ledger LedgerWriter, logger *zap.Logger, opts ...EnforcerOption) *Enforcer {
	e := &Enforcer{
		banner: banner,
		ledger: ledger,
		logger: logger.Named("reban_enforcer"),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Enforce bans the target again and writes one ledger record whether or not the ban succeeded.
// A ledger failure returns ErrLedgerWriteFailed along with the enforcement; the ban is not undone.
func (e *Enforcer) Enforce(ctx context.Context, guildID, targetID snowflake.ID, actor *Actor) (*Enforcement, error) {
	reason := Reason(actor)
	result := &Enforcement{Outcome: Enforced}

	if err := e.banner.Ban(ctx, guildID, targetID, reason); err != nil {
		result.Outcome = EnforcementFailed
		result.BanErr = err

		e.logger.Warn("Failed to re-ban target",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Uint64("targetID", uint64(targetID)),
			zap.Uint64("actorID", uint64(actor.ID)),
			zap.Error(err))
	}

	record := &types.RebanRecord{
		GuildID:   guildID,
		TargetID:  targetID,
		ActorID:   actor.ID,
		Reason:    reason,
		CreatedAt: e.now().UTC().Truncate(time.Millisecond),
	}

	if err := e.ledger.Record(ctx, record); err != nil {
		e.logger.Error("Failed to record reban",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Uint64("targetID", uint64(targetID)),
			zap.Uint64("actorID", uint64(actor.ID)),
			zap.String("outcome", result.Outcome.String()),
			zap.Error(err))

		return result, fmt.Errorf("%w: %w", ErrLedgerWriteFailed, err)
	}

	result.Record = record

	e.logger.Info("Recorded reban",
		zap.Int64("id", record.ID),
		zap.Uint64("guildID", uint64(guildID)),
		zap.Uint64("targetID", uint64(targetID)),
		zap.Uint64("actorID", uint64(actor.ID)),
		zap.String("outcome", result.Outcome.String()))

	return result, nil
}

// Reason builds the audit log reason attached to a reban.
func Reason(actor *Actor) string {
	return types.TruncateReason(
		fmt.Sprintf("Automatically re-banned: Actor @%s (%d) is not a manager.", actor.Username, actor.ID),
		types.RebanReasonMaxLength,
	)
}
