package setting

import (
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
	"github.com/robalyx/unbanmanager/internal/bot/utils"
	"github.com/robalyx/unbanmanager/internal/database/types"
)

// ManagerRolesBuilder creates the listing of a guild's manager roles.
type ManagerRolesBuilder struct {
	roles types.RoleSet
	at    time.Time
}

// NewManagerRolesBuilder creates a new manager role listing builder.
func NewManagerRolesBuilder(roles types.RoleSet, at time.Time) *ManagerRolesBuilder {
	return &ManagerRolesBuilder{
		roles: roles,
		at:    at,
	}
}

// Build creates the listing embed.
func (b *ManagerRolesBuilder) Build() *discord.MessageUpdateBuilder {
	description := "There are no unban manager roles for this server."

	if ids := b.roles.IDs(); len(ids) > 0 {
		var sb strings.Builder
		sb.WriteString("Below are the roles that are recognized as unban manager roles.\n")

		for _, id := range ids {
			sb.WriteString("\n• ")
			sb.WriteString(utils.RoleMentionWithName(id, ""))
		}

		description = sb.String()
	}

	embed := discord.NewEmbedBuilder().
		SetAuthor("Unban Manager Roles", "", "").
		SetColor(constants.DefaultEmbedColor).
		SetDescription(description).
		SetTimestamp(b.at)

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed.Build())
}
