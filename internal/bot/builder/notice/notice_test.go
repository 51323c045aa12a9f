package notice_test

import (
	"testing"
	"time"

	"github.com/robalyx/unbanmanager/internal/bot/builder/notice"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"github.com/robalyx/unbanmanager/internal/reban"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderContent(t *testing.T) {
	t.Parallel()

	actor := &reban.Actor{ID: 42, Username: "mod"}

	tests := []struct {
		name     string
		notice   reban.Notice
		contains string
	}{
		{
			name:     "unknown actor",
			notice:   reban.Notice{Kind: reban.NoticeUnknownActor, TargetID: 7},
			contains: "<@7> (`7`) was unbanned by an unknown actor",
		},
		{
			name:     "passed review",
			notice:   reban.Notice{Kind: reban.NoticePassedReview, TargetID: 7, Actor: actor},
			contains: "was unbanned by <@42> (`42`). The unban was reviewed",
		},
		{
			name:     "enforcement failed",
			notice:   reban.Notice{Kind: reban.NoticeEnforcementFailed, TargetID: 7, Actor: actor},
			contains: "`Ban Members` permission",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			message := notice.NewBuilder(tt.notice).Build().Build()
			assert.Contains(t, message.Content, tt.contains)
			require.NotNil(t, message.AllowedMentions)
			assert.Empty(t, message.AllowedMentions.Users)
		})
	}
}

func TestBuilderEnforcedEmbed(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	message := notice.NewBuilder(reban.Notice{
		Kind:     reban.NoticeEnforced,
		TargetID: 7,
		Actor:    &reban.Actor{ID: 42, Username: "mod", AvatarURL: "https://cdn.example/avatar.png"},
		Record: &types.RebanRecord{
			ID:        12,
			TargetID:  7,
			ActorID:   42,
			Reason:    "Automatically re-banned: Actor @mod (42) is not a manager.",
			CreatedAt: createdAt,
		},
	}).Build().Build()

	require.Len(t, message.Embeds, 1)
	embed := message.Embeds[0]

	require.NotNil(t, embed.Author)
	assert.Equal(t, "Re-ban #12", embed.Author.Name)
	assert.Equal(t, "https://cdn.example/avatar.png", embed.Author.IconURL)
	require.NotNil(t, embed.Timestamp)
	assert.True(t, createdAt.Equal(*embed.Timestamp))

	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "Actor", embed.Fields[0].Name)
	assert.Equal(t, "<@42> (`42`)", embed.Fields[0].Value)
	assert.Equal(t, "Reason", embed.Fields[2].Name)
}

func TestBuilderEnforcedWithoutRecord(t *testing.T) {
	t.Parallel()

	message := notice.NewBuilder(reban.Notice{
		Kind:     reban.NoticeEnforced,
		TargetID: 7,
		Actor:    &reban.Actor{ID: 42, Username: "mod"},
	}).Build().Build()

	require.Len(t, message.Embeds, 1)
	assert.Equal(t, "Re-ban (not recorded)", message.Embeds[0].Author.Name)
}
