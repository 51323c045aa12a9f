package reban_test

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/dbtest"
	"github.com/robalyx/unbanmanager/internal/reban"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPipelineWithStore(t *testing.T) {
	t.Parallel()

	services := dbtest.NewClient(t).Service()
	guilds := services.Guild()
	ledger := services.Ledger()

	_, err := guilds.SetLoggingEnabled(t.Context(), guildID, true)
	require.NoError(t, err)
	_, err = guilds.SetLoggingChannel(t.Context(), guildID, channelID)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	banner := &fakeBanner{}
	notifier := &fakeNotifier{}
	members := &fakeMembers{members: map[snowflake.ID]*reban.Actor{
		memberID: {ID: memberID, Username: "member"},
	}}

	pipeline := reban.NewPipeline(
		selfID,
		guilds,
		reban.NewResolver(members, logger),
		reban.NewEnforcer(banner, ledger, logger),
		notifier,
		logger,
	)

	result := pipeline.Handle(t.Context(), removal(memberID))
	require.NoError(t, result.Err)
	assert.Equal(t, reban.StateNotifiedEnforced, result.State)
	assert.True(t, result.Notified)

	page, err := ledger.Search(t.Context(), guildID, targetID, 1)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, targetID, page.Records[0].TargetID)
	assert.Equal(t, memberID, page.Records[0].ActorID)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, reban.NoticeEnforced, notifier.notices[0].Kind)
	assert.Equal(t, channelID, notifier.notices[0].ChannelID)
	require.NotNil(t, notifier.notices[0].Record)
	assert.Equal(t, page.Records[0].ID, notifier.notices[0].Record.ID)

	// A redelivered event is recorded again and the second ban fails
	result = pipeline.Handle(t.Context(), removal(memberID))
	require.NoError(t, result.Err)
	assert.Equal(t, reban.StateNotifiedEnforcementFailed, result.State)

	count, err := ledger.Count(t.Context(), guildID, targetID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, notifier.notices, 2)
	assert.Equal(t, reban.NoticeEnforcementFailed, notifier.notices[1].Kind)
	assert.Equal(t, channelID, notifier.notices[1].ChannelID)
}
