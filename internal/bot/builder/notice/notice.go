package notice

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
	"github.com/robalyx/unbanmanager/internal/bot/utils"
	"github.com/robalyx/unbanmanager/internal/reban"
)

// Builder creates the logging channel message for a reconciled unban.
type Builder struct {
	notice reban.Notice
}

// NewBuilder creates a new notice builder.
func NewBuilder(notice reban.Notice) *Builder {
	return &Builder{notice: notice}
}

// Build creates the message. Mentions are rendered but never ping.
func (b *Builder) Build() *discord.MessageCreateBuilder {
	message := discord.NewMessageCreateBuilder().
		SetAllowedMentions(&discord.AllowedMentions{})

	target := utils.UserMentionWithID(b.notice.TargetID)

	switch b.notice.Kind {
	case reban.NoticeUnknownActor:
		return message.SetContent(fmt.Sprintf(
			"%s was unbanned by an unknown actor. Because of this, I could not validate if the actor was a manager. "+
				"Please review the unban manually.", target))
	case reban.NoticePassedReview:
		return message.SetContent(fmt.Sprintf(
			"%s was unbanned by %s. The unban was reviewed and the actor passed all checks.",
			target, b.actorMention()))
	case reban.NoticeEnforcementFailed:
		message.SetContent(fmt.Sprintf(
			"%s was unbanned by %s but I failed to re-ban them. "+
				"Please review the unban manually, and ensure I have the `Ban Members` permission.",
			target, b.actorMention()))
		if b.notice.Record != nil {
			message.SetEmbeds(b.recordEmbed(constants.WarningEmbedColor))
		}
		return message
	case reban.NoticeEnforced:
		return message.SetEmbeds(b.recordEmbed(constants.DefaultEmbedColor))
	default:
		return message.SetContent(fmt.Sprintf("%s was unbanned.", target))
	}
}

// recordEmbed describes the reban. Without a ledger record the reban is marked unrecorded.
func (b *Builder) recordEmbed(color int) discord.Embed {
	embed := discord.NewEmbedBuilder().
		SetColor(color).
		AddField("Actor", b.actorMention(), false).
		AddField("Target", utils.UserMentionWithID(b.notice.TargetID), false)

	title := "Re-ban (not recorded)"
	if record := b.notice.Record; record != nil {
		title = fmt.Sprintf("Re-ban #%d", record.ID)
		embed.AddField("Reason", record.Reason, false).
			SetTimestamp(record.CreatedAt)
	} else if b.notice.Actor != nil {
		embed.AddField("Reason", reban.Reason(b.notice.Actor), false)
	}

	iconURL := ""
	if b.notice.Actor != nil {
		iconURL = b.notice.Actor.AvatarURL
	}

	return embed.SetAuthor(title, "", iconURL).Build()
}

func (b *Builder) actorMention() string {
	if b.notice.Actor == nil {
		return constants.NotFound
	}

	return utils.UserMentionWithID(b.notice.Actor.ID)
}
