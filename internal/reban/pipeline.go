package reban

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/robalyx/unbanmanager/internal/reban"

// ConfigStore returns guild configurations, creating defaults on first use.
type ConfigStore interface {
	GetOrCreate(ctx context.Context, guildID snowflake.ID) (*types.GuildConfig, error)
}

// BanRemoved is a ban removal taken from a guild's audit log.
type BanRemoved struct {
	GuildID  snowflake.ID
	TargetID snowflake.ID
	// ActorID is nil when the audit log does not credit anyone.
	ActorID *snowflake.ID
}

// State is the terminal state reached for an event.
type State int

const (
	// StateDropped means the event was filtered before any lookup.
	StateDropped State = iota
	// StateAborted means the guild configuration could not be loaded.
	StateAborted
	StateNotifiedUnknown
	StateNotifiedPassed
	StateNotifiedEnforced
	StateNotifiedEnforcementFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDropped:
		return "dropped"
	case StateAborted:
		return "aborted"
	case StateNotifiedUnknown:
		return "notified_unknown"
	case StateNotifiedPassed:
		return "notified_passed"
	case StateNotifiedEnforced:
		return "notified_enforced"
	case StateNotifiedEnforcementFailed:
		return "notified_enforcement_failed"
	default:
		return "invalid"
	}
}

// Result describes how an event was handled.
type Result struct {
	State          State
	Classification Classification
	// Record is the ledger entry written for an unauthorized unban, if any.
	Record *types.RebanRecord
	// Notified is true when a notice was handed to the notifier and accepted.
	Notified bool
	// Err holds ErrStoreUnavailable or ErrLedgerWriteFailed causes.
	Err error
}

// Pipeline reconciles ban removals.
type Pipeline struct {
	selfID   snowflake.ID
	configs  ConfigStore
	resolver *Resolver
	enforcer *Enforcer
	notifier Notifier
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewPipeline creates a pipeline. Events credited to selfID are ignored.
func NewPipeline(
	selfID snowflake.ID,
	configs ConfigStore,
	resolver *Resolver,
	enforcer *Enforcer,
	notifier Notifier,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		selfID:   selfID,
		configs:  configs,
		resolver: resolver,
		enforcer: enforcer,
		notifier: notifier,
		tracer:   otel.Tracer(tracerName),
		logger:   logger.Named("reban_pipeline"),
	}
}

// Handle processes one ban removal through to its terminal state.
// Failures are reported in the result and never returned as errors.
func (p *Pipeline) Handle(ctx context.Context, event BanRemoved) *Result {
	ctx, span := p.tracer.Start(ctx, "reban.Pipeline.Handle", trace.WithAttributes(
		attribute.String("guild.id", event.GuildID.String()),
		attribute.String("target.id", event.TargetID.String()),
	))
	defer span.End()

	result := p.handle(ctx, event)

	span.SetAttributes(
		attribute.String("reban.state", result.State.String()),
		attribute.String("reban.classification", result.Classification.String()),
	)

	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Err.Error())
	}

	return result
}

func (p *Pipeline) handle(ctx context.Context, event BanRemoved) *Result {
	if event.TargetID == 0 || event.ActorID == nil || *event.ActorID == 0 || *event.ActorID == p.selfID {
		return &Result{State: StateDropped, Classification: UnknownActor}
	}

	actorID := *event.ActorID

	config, err := p.configs.GetOrCreate(ctx, event.GuildID)
	if err != nil {
		p.logger.Error("Failed to load guild config",
			zap.Uint64("guildID", uint64(event.GuildID)),
			zap.Error(err))

		return &Result{State: StateAborted, Classification: UnknownActor, Err: err}
	}

	classification, actor := p.resolver.Resolve(ctx, event.GuildID, actorID, config.ManagerRoles)

	logger := p.logger.With(
		zap.Uint64("guildID", uint64(event.GuildID)),
		zap.Uint64("targetID", uint64(event.TargetID)),
		zap.Uint64("actorID", uint64(actorID)),
		zap.String("classification", classification.String()))

	result := &Result{Classification: classification}
	notice := Notice{
		GuildID:  event.GuildID,
		TargetID: event.TargetID,
		Actor:    actor,
	}

	switch classification {
	case UnknownActor:
		logger.Info("Unban actor could not be resolved")

		result.State = StateNotifiedUnknown
		notice.Kind = NoticeUnknownActor
	case Authorized:
		logger.Debug("Unban passed review")

		result.State = StateNotifiedPassed
		notice.Kind = NoticePassedReview
	case Unauthorized:
		enforcement, err := p.enforcer.Enforce(ctx, event.GuildID, event.TargetID, actor)
		result.Err = err

		result.Record = enforcement.Record
		notice.Record = enforcement.Record

		if enforcement.Outcome == EnforcementFailed {
			result.State = StateNotifiedEnforcementFailed
			notice.Kind = NoticeEnforcementFailed
		} else {
			result.State = StateNotifiedEnforced
			notice.Kind = NoticeEnforced
		}
	}

	result.Notified = p.notify(ctx, config, notice, logger)

	return result
}

// notify makes the single delivery attempt for an event. Failures are logged only.
func (p *Pipeline) notify(ctx context.Context, config *types.GuildConfig, notice Notice, logger *zap.Logger) bool {
	channelID, ok := config.LoggingTarget()
	if !ok {
		return false
	}

	notice.ChannelID = channelID

	if err := p.notifier.Notify(ctx, notice); err != nil {
		logger.Warn("Failed to deliver notice",
			zap.String("kind", notice.Kind.String()),
			zap.Uint64("channelID", uint64(channelID)),
			zap.Error(err))

		return false
	}

	return true
}
