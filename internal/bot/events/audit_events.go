package events

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/reban"
	"go.uber.org/zap"
)

// BanRemovalHandler runs ban removals through the reconciliation pipeline.
type BanRemovalHandler interface {
	Handle(ctx context.Context, event reban.BanRemoved) *reban.Result
}

// AuditLogEventHandler forwards ban removals from the audit log.
type AuditLogEventHandler struct {
	pipeline BanRemovalHandler
	logger   *zap.Logger
}

// NewAuditLogEventHandler creates a new audit log event handler.
func NewAuditLogEventHandler(pipeline BanRemovalHandler, logger *zap.Logger) *AuditLogEventHandler {
	return &AuditLogEventHandler{
		pipeline: pipeline,
		logger:   logger.Named("audit_log_events"),
	}
}

// OnGuildAuditLogEntryCreate handles a new audit log entry.
// Entries other than ban removals are ignored.
func (h *AuditLogEventHandler) OnGuildAuditLogEntryCreate(ctx context.Context, event *events.GuildAuditLogEntryCreate) {
	removal, ok := BanRemovedFromEntry(event.GuildID, event.AuditLogEntry)
	if !ok {
		return
	}

	result := h.pipeline.Handle(ctx, removal)

	h.logger.Debug("Handled ban removal",
		zap.Uint64("guildID", uint64(removal.GuildID)),
		zap.Uint64("targetID", uint64(removal.TargetID)),
		zap.Stringer("state", result.State),
		zap.Bool("notified", result.Notified))
}

// BanRemovedFromEntry converts an audit log entry into a ban removal.
// Returns false for entries of any other kind.
func BanRemovedFromEntry(guildID snowflake.ID, entry discord.AuditLogEntry) (reban.BanRemoved, bool) {
	if entry.ActionType != discord.AuditLogEventMemberBanRemove {
		return reban.BanRemoved{}, false
	}

	removal := reban.BanRemoved{GuildID: guildID}

	if entry.TargetID != nil {
		removal.TargetID = *entry.TargetID
	}

	if entry.UserID != 0 {
		actorID := entry.UserID
		removal.ActorID = &actorID
	}

	return removal, true
}
