package types

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// GuildConfig stores the per-guild settings consumed by the unban reconciliation.
type GuildConfig struct {
	ID               snowflake.ID `bun:",pk"`                    // Discord guild ID
	ManagerRoles     RoleSet      `bun:",type:jsonb,notnull"`    // Roles allowed to approve unbans
	LoggingEnabled   bool         `bun:",notnull,default:false"` // Whether notices are sent
	LoggingChannelID snowflake.ID `bun:",nullzero"`              // Channel receiving notices, 0 when unset
	CreatedAt        time.Time    `bun:",notnull"`               // When the row was first created
}

// NewGuildConfig returns the default configuration for a guild.
func NewGuildConfig(guildID snowflake.ID) *GuildConfig {
	return &GuildConfig{
		ID:           guildID,
		ManagerRoles: RoleSet{},
		CreatedAt:    time.Now().UTC(),
	}
}

// LoggingTarget returns the channel notices should be sent to.
// The second value is false when logging is disabled or no channel is set.
func (c *GuildConfig) LoggingTarget() (snowflake.ID, bool) {
	if !c.LoggingEnabled || c.LoggingChannelID == 0 {
		return 0, false
	}

	return c.LoggingChannelID, true
}
