package service

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/models"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GuildService handles per-guild settings.
type GuildService struct {
	model  *models.GuildConfigModel
	loads  singleflight.Group
	logger *zap.Logger
}

// NewGuild creates a new guild settings service.
func NewGuild(model *models.GuildConfigModel, logger *zap.Logger) *GuildService {
	return &GuildService{
		model:  model,
		logger: logger.Named("guild_service"),
	}
}

// GetOrCreate returns the configuration of a guild, creating defaults on first use.
// Concurrent lookups of the same guild share one query and the returned value must not be modified.
func (s *GuildService) GetOrCreate(ctx context.Context, guildID snowflake.ID) (*types.GuildConfig, error) {
	config, err, _ := s.loads.Do(guildID.String(), func() (any, error) {
		return s.model.GetOrCreate(context.WithoutCancel(ctx), guildID)
	})
	if err != nil {
		return nil, err
	}

	return config.(*types.GuildConfig), nil
}

// AddManagerRole allows a role to approve unbans.
func (s *GuildService) AddManagerRole(
	ctx context.Context, guildID, roleID snowflake.ID,
) (*types.GuildConfig, error) {
	config, err := s.model.Modify(ctx, guildID, func(config *types.GuildConfig) error {
		if !config.ManagerRoles.Add(roleID) {
			return types.ErrRoleAlreadyManager
		}
		return nil
	}, "manager_roles")
	if err != nil {
		return config, err
	}

	s.logger.Info("Added manager role",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Uint64("roleID", uint64(roleID)))

	return config, nil
}

// RemoveManagerRole stops a role from approving unbans.
func (s *GuildService) RemoveManagerRole(
	ctx context.Context, guildID, roleID snowflake.ID,
) (*types.GuildConfig, error) {
	config, err := s.model.Modify(ctx, guildID, func(config *types.GuildConfig) error {
		if !config.ManagerRoles.Remove(roleID) {
			return types.ErrRoleNotManager
		}
		return nil
	}, "manager_roles")
	if err != nil {
		return config, err
	}

	s.logger.Info("Removed manager role",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Uint64("roleID", uint64(roleID)))

	return config, nil
}

// SetLoggingChannel sets the channel receiving notices.
func (s *GuildService) SetLoggingChannel(
	ctx context.Context, guildID, channelID snowflake.ID,
) (*types.GuildConfig, error) {
	config, err := s.model.Modify(ctx, guildID, func(config *types.GuildConfig) error {
		if config.LoggingChannelID == channelID {
			return types.ErrChannelUnchanged
		}
		config.LoggingChannelID = channelID
		return nil
	}, "logging_channel_id")
	if err != nil {
		return config, err
	}

	s.logger.Info("Set logging channel",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Uint64("channelID", uint64(channelID)))

	return config, nil
}

// SetLoggingEnabled turns notices on or off.
func (s *GuildService) SetLoggingEnabled(
	ctx context.Context, guildID snowflake.ID, enabled bool,
) (*types.GuildConfig, error) {
	config, err := s.model.Modify(ctx, guildID, func(config *types.GuildConfig) error {
		if config.LoggingEnabled == enabled {
			return types.ErrLoggingUnchanged
		}
		config.LoggingEnabled = enabled
		return nil
	}, "logging_enabled")
	if err != nil {
		return config, err
	}

	s.logger.Info("Set logging state",
		zap.Uint64("guildID", uint64(guildID)),
		zap.Bool("enabled", enabled))

	return config, nil
}
