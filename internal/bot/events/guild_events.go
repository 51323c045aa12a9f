// Package events adapts gateway events to the bot's handlers.
package events

import (
	"context"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/reban"
	"go.uber.org/zap"
)

// GuildEventHandler makes sure every guild the bot is in has a configuration.
type GuildEventHandler struct {
	configs reban.ConfigStore
	logger  *zap.Logger
}

// NewGuildEventHandler creates a new instance of the guild event handler.
func NewGuildEventHandler(configs reban.ConfigStore, logger *zap.Logger) *GuildEventHandler {
	return &GuildEventHandler{
		configs: configs,
		logger:  logger.Named("guild_events"),
	}
}

// OnGuildJoin handles the event when the bot joins a new guild.
func (h *GuildEventHandler) OnGuildJoin(ctx context.Context, event *events.GuildJoin) {
	h.logger.Info("Bot joined a new guild",
		zap.Uint64("guildID", uint64(event.Guild.ID)),
		zap.String("guildName", event.Guild.Name))

	h.ensureConfig(ctx, event.Guild.ID)
}

// OnGuildReady handles guilds that were already joined when the gateway connected.
func (h *GuildEventHandler) OnGuildReady(ctx context.Context, event *events.GuildReady) {
	h.ensureConfig(ctx, event.Guild.ID)
}

// ensureConfig creates the default configuration when none exists.
func (h *GuildEventHandler) ensureConfig(ctx context.Context, guildID snowflake.ID) {
	if _, err := h.configs.GetOrCreate(ctx, guildID); err != nil {
		h.logger.Error("Failed to create guild config",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Error(err))
		return
	}

	h.logger.Debug("Guild config ready", zap.Uint64("guildID", uint64(guildID)))
}
