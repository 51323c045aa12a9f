package reban

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
	"github.com/robalyx/unbanmanager/internal/bot/utils"
	"github.com/robalyx/unbanmanager/internal/database/types"
)

// SearchBuilder creates the paginated listing of a user's rebans.
type SearchBuilder struct {
	target discord.User
	page   *types.RebanPage
}

// NewSearchBuilder creates a new search result builder.
func NewSearchBuilder(target discord.User, page *types.RebanPage) *SearchBuilder {
	return &SearchBuilder{
		target: target,
		page:   page,
	}
}

// Build creates the search result embed.
func (b *SearchBuilder) Build() *discord.MessageUpdateBuilder {
	embed := discord.NewEmbedBuilder().
		SetAuthor("Re-bans for @"+b.target.Username, "", b.target.EffectiveAvatarURL()).
		SetColor(constants.DefaultEmbedColor).
		SetFooterText(fmt.Sprintf("User ID: %d", b.target.ID))

	if b.page == nil || b.page.Total == 0 {
		embed.SetDescription("No results found.")
	} else {
		embed.SetDescription(fmt.Sprintf("Page `%d`/`%d`\nTotal re-bans: `%d`",
			b.page.Page, b.page.TotalPages, b.page.Total))

		for _, record := range b.page.Records {
			embed.AddField(
				fmt.Sprintf("Re-ban #%d", record.ID),
				"Issued on "+utils.FormatTimestamp(record.CreatedAt),
				false,
			)
		}
	}

	return discord.NewMessageUpdateBuilder().
		SetEmbeds(embed.Build())
}
