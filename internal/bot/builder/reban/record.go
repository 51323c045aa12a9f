package reban

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
	"github.com/robalyx/unbanmanager/internal/bot/utils"
	"github.com/robalyx/unbanmanager/internal/database/types"
)

// RecordBuilder creates the detailed view of a single reban.
type RecordBuilder struct {
	record *types.RebanRecord
	actor  *discord.User
	target *discord.User
}

// NewRecordBuilder creates a new record builder.
// Accounts that could not be looked up are passed as nil.
func NewRecordBuilder(record *types.RebanRecord, actor, target *discord.User) *RecordBuilder {
	return &RecordBuilder{
		record: record,
		actor:  actor,
		target: target,
	}
}

// Build creates the record embed.
func (b *RecordBuilder) Build() *discord.MessageUpdateBuilder {
	iconURL := ""
	if b.actor != nil {
		iconURL = b.actor.EffectiveAvatarURL()
	}

	embed := discord.NewEmbedBuilder().
		SetAuthor(fmt.Sprintf("Re-ban #%d", b.record.ID), "", iconURL).
		SetColor(constants.DefaultEmbedColor).
		AddField("Actor", mentionOrNotFound(b.actor, b.record.ActorID), false).
		AddField("Target", mentionOrNotFound(b.target, b.record.TargetID), false).
		AddField("Reason", b.record.Reason, false).
		SetTimestamp(b.record.CreatedAt)

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed.Build())
}

func mentionOrNotFound(user *discord.User, id snowflake.ID) string {
	if user == nil {
		return constants.NotFound
	}

	return utils.UserMentionWithID(id)
}
