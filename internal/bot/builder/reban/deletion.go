package reban

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
	"github.com/robalyx/unbanmanager/internal/bot/utils"
	"github.com/robalyx/unbanmanager/internal/database/types"
)

// DeletionLogBuilder creates the logging channel entry for a deleted reban.
// It keeps both the deleting user and the original actor.
type DeletionLogBuilder struct {
	record    *types.RebanRecord
	deletedBy discord.User
	reason    string
	at        time.Time
}

// NewDeletionLogBuilder creates a new deletion log builder.
func NewDeletionLogBuilder(
	record *types.RebanRecord, deletedBy discord.User, reason string, at time.Time,
) *DeletionLogBuilder {
	return &DeletionLogBuilder{
		record:    record,
		deletedBy: deletedBy,
		reason:    reason,
		at:        at,
	}
}

// Build creates the log message.
func (b *DeletionLogBuilder) Build() *discord.MessageCreateBuilder {
	embed := discord.NewEmbedBuilder().
		SetAuthor(fmt.Sprintf("Re-ban #%d deleted", b.record.ID), "", b.deletedBy.EffectiveAvatarURL()).
		SetColor(constants.DangerEmbedColor).
		AddField("Deleted By", utils.UserMentionWithID(b.deletedBy.ID), false).
		AddField("Deletion Reason", b.reason, false).
		AddField("Re-ban Actor", utils.UserMentionWithID(b.record.ActorID), false).
		AddField("Re-ban Target", utils.UserMentionWithID(b.record.TargetID), false).
		SetTimestamp(b.at)

	return discord.NewMessageCreateBuilder().
		SetAllowedMentions(&discord.AllowedMentions{}).
		SetEmbeds(embed.Build())
}

// WipeLogBuilder creates the logging channel entry for a wiped reban history.
type WipeLogBuilder struct {
	target    discord.User
	deletedBy discord.User
	reason    string
	count     int
	at        time.Time
}

// NewWipeLogBuilder creates a new wipe log builder.
func NewWipeLogBuilder(
	target, deletedBy discord.User, reason string, count int, at time.Time,
) *WipeLogBuilder {
	return &WipeLogBuilder{
		target:    target,
		deletedBy: deletedBy,
		reason:    reason,
		count:     count,
		at:        at,
	}
}

// Build creates the log message.
func (b *WipeLogBuilder) Build() *discord.MessageCreateBuilder {
	embed := discord.NewEmbedBuilder().
		SetAuthor(fmt.Sprintf("%d %s deleted", b.count, utils.Pluralize(b.count, "re-ban", "")),
			"", b.deletedBy.EffectiveAvatarURL()).
		SetColor(constants.DangerEmbedColor).
		AddField("Deleted By", utils.UserMentionWithID(b.deletedBy.ID), false).
		AddField("Target", utils.UserMentionWithID(b.target.ID), false).
		AddField("Reason", b.reason, false).
		SetTimestamp(b.at)

	return discord.NewMessageCreateBuilder().
		SetAllowedMentions(&discord.AllowedMentions{}).
		SetEmbeds(embed.Build())
}
