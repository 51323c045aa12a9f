package commands

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
	"github.com/robalyx/unbanmanager/internal/database/dbtest"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	testGuild   snowflake.ID = 10
	testOwner   snowflake.ID = 20
	testMod     snowflake.ID = 21
	testTarget  snowflake.ID = 30
	testActor   snowflake.ID = 40
	testChannel snowflake.ID = 50
)

func newRebanCommand(t *testing.T, records int) (*RebanCommand, *fakeSender, []int64) {
	t.Helper()

	client := dbtest.NewClient(t)
	ledger := client.Service().Ledger()
	guilds := client.Service().Guild()

	_, err := guilds.SetLoggingChannel(t.Context(), testGuild, testChannel)
	require.NoError(t, err)
	_, err = guilds.SetLoggingEnabled(t.Context(), testGuild, true)
	require.NoError(t, err)

	ids := make([]int64, 0, records)
	for range records {
		record := &types.RebanRecord{
			GuildID:   testGuild,
			TargetID:  testTarget,
			ActorID:   testActor,
			Reason:    "Automatically re-banned",
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, ledger.Record(t.Context(), record))
		ids = append(ids, record.ID)
	}

	sender := &fakeSender{}
	users := fakeUsers{users: map[snowflake.ID]discord.User{
		testActor:  {ID: testActor, Username: "actor"},
		testTarget: {ID: testTarget, Username: "target"},
	}}

	command := NewReban(ledger, guilds, users, sender, NewOwners(testOwner), zaptest.NewLogger(t))
	command.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	return command, sender, ids
}

func rebanInvocation(subcommand string, user snowflake.ID, options fakeOptions) *Invocation {
	return &Invocation{
		Name:        constants.RebanCommandName,
		Subcommand:  subcommand,
		GuildID:     testGuild,
		User:        discord.User{ID: user, Username: "caller"},
		Permissions: discord.PermissionBanMembers,
		Options:     options,
	}
}

func TestRebanRequiresBanMembers(t *testing.T) {
	t.Parallel()

	command, _, _ := newRebanCommand(t, 0)

	inv := rebanInvocation(constants.RebanSearchSubcommand, testOwner, fakeOptions{})
	inv.Permissions = discord.PermissionManageGuild

	_, err := command.Handle(t.Context(), inv)

	var replyErr *ReplyError
	require.ErrorAs(t, err, &replyErr)
	assert.Contains(t, replyErr.Message, "Ban Members")
}

func TestRebanSearch(t *testing.T) {
	t.Parallel()

	command, _, _ := newRebanCommand(t, 7)

	reply, err := command.Handle(t.Context(), rebanInvocation(constants.RebanSearchSubcommand, testMod, fakeOptions{
		users: map[string]discord.User{constants.TargetOption: {ID: testTarget, Username: "target"}},
		ints:  map[string]int{constants.PageOption: 2},
	}))
	require.NoError(t, err)

	update := reply.Build()
	require.NotNil(t, update.Embeds)
	embed := (*update.Embeds)[0]
	assert.Contains(t, embed.Description, "Page `2`/`2`")
	assert.Contains(t, embed.Description, "Total re-bans: `7`")
	assert.Len(t, embed.Fields, 2)
}

func TestRebanView(t *testing.T) {
	t.Parallel()

	command, _, ids := newRebanCommand(t, 1)

	reply, err := command.Handle(t.Context(), rebanInvocation(constants.RebanViewSubcommand, testMod, fakeOptions{
		ints: map[string]int{constants.IDOption: int(ids[0])},
	}))
	require.NoError(t, err)
	require.NotNil(t, reply.Build().Embeds)

	_, err = command.Handle(t.Context(), rebanInvocation(constants.RebanViewSubcommand, testMod, fakeOptions{
		ints: map[string]int{constants.IDOption: int(ids[0]) + 100},
	}))

	var replyErr *ReplyError
	require.ErrorAs(t, err, &replyErr)
	assert.Equal(t, "A re-ban with that ID does not exist.", replyErr.Message)
}

func TestRebanDeleteRequiresOwner(t *testing.T) {
	t.Parallel()

	command, sender, ids := newRebanCommand(t, 1)

	_, err := command.Handle(t.Context(), rebanInvocation(constants.RebanDeleteSubcommand, testMod, fakeOptions{
		ints:    map[string]int{constants.IDOption: int(ids[0])},
		strings: map[string]string{constants.ReasonOption: "mistake"},
	}))

	var replyErr *ReplyError
	require.ErrorAs(t, err, &replyErr)
	assert.Equal(t, constants.NotOwnerMessage, replyErr.Message)
	assert.Empty(t, sender.sent)
}

func TestRebanDelete(t *testing.T) {
	t.Parallel()

	command, sender, ids := newRebanCommand(t, 2)

	reply, err := command.Handle(t.Context(), rebanInvocation(constants.RebanDeleteSubcommand, testOwner, fakeOptions{
		ints:    map[string]int{constants.IDOption: int(ids[0])},
		strings: map[string]string{constants.ReasonOption: "mistake"},
	}))
	require.NoError(t, err)

	update := reply.Build()
	require.NotNil(t, update.Content)
	assert.Contains(t, *update.Content, "has been deleted")
	assert.Contains(t, *update.Content, "Successfully logged the deletion.")

	require.Len(t, sender.sent[testChannel], 1)
	logged := sender.sent[testChannel][0].Embeds[0]
	assert.Equal(t, "Deleted By", logged.Fields[0].Name)

	_, err = command.Handle(t.Context(), rebanInvocation(constants.RebanDeleteSubcommand, testOwner, fakeOptions{
		ints:    map[string]int{constants.IDOption: int(ids[0])},
		strings: map[string]string{constants.ReasonOption: "again"},
	}))

	var replyErr *ReplyError
	require.ErrorAs(t, err, &replyErr)
}

func TestRebanDeleteLogFailure(t *testing.T) {
	t.Parallel()

	command, sender, ids := newRebanCommand(t, 1)
	sender.err = errSendFailed

	reply, err := command.Handle(t.Context(), rebanInvocation(constants.RebanDeleteSubcommand, testOwner, fakeOptions{
		ints:    map[string]int{constants.IDOption: int(ids[0])},
		strings: map[string]string{constants.ReasonOption: "mistake"},
	}))
	require.NoError(t, err)
	assert.Contains(t, *reply.Build().Content, "Failed to log the deletion.")
}

func TestRebanDeleteRejectsBlankReason(t *testing.T) {
	t.Parallel()

	command, _, ids := newRebanCommand(t, 1)

	_, err := command.Handle(t.Context(), rebanInvocation(constants.RebanDeleteSubcommand, testOwner, fakeOptions{
		ints:    map[string]int{constants.IDOption: int(ids[0])},
		strings: map[string]string{constants.ReasonOption: "   "},
	}))

	var replyErr *ReplyError
	require.ErrorAs(t, err, &replyErr)
	assert.Contains(t, replyErr.Message, "reason")
}

func TestRebanWipe(t *testing.T) {
	t.Parallel()

	command, sender, _ := newRebanCommand(t, 3)
	options := fakeOptions{
		users:   map[string]discord.User{constants.TargetOption: {ID: testTarget, Username: "target"}},
		strings: map[string]string{constants.ReasonOption: "appeal accepted"},
	}

	reply, err := command.Handle(t.Context(), rebanInvocation(constants.RebanWipeSubcommand, testOwner, options))
	require.NoError(t, err)
	assert.Contains(t, *reply.Build().Content, "Wiped **3** re-bans")
	require.Len(t, sender.sent[testChannel], 1)

	reply, err = command.Handle(t.Context(), rebanInvocation(constants.RebanWipeSubcommand, testOwner, options))
	require.NoError(t, err)
	assert.Contains(t, *reply.Build().Content, "No re-bans to be wiped")
	assert.Len(t, sender.sent[testChannel], 1)
}
