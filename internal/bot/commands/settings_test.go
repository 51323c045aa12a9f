package commands

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
	"github.com/robalyx/unbanmanager/internal/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsCommand(t *testing.T) *SettingsCommand {
	t.Helper()

	command := NewSettings(dbtest.NewClient(t).Service().Guild(), NewOwners(testOwner))
	command.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	return command
}

func settingsInvocation(group, subcommand string, options fakeOptions) *Invocation {
	return &Invocation{
		Name:        constants.SettingsCommandName,
		Group:       group,
		Subcommand:  subcommand,
		GuildID:     testGuild,
		User:        discord.User{ID: testOwner, Username: "owner"},
		Permissions: discord.PermissionManageGuild,
		Options:     options,
	}
}

func requireReply(t *testing.T, err error, message string) {
	t.Helper()

	var replyErr *ReplyError
	require.ErrorAs(t, err, &replyErr)
	assert.Equal(t, message, replyErr.Message)
}

func TestSettingsRequiresManageGuild(t *testing.T) {
	t.Parallel()

	command := newSettingsCommand(t)

	inv := settingsInvocation(constants.LoggingSettingsGroup, constants.ToggleLoggingSubcommand, fakeOptions{})
	inv.Permissions = discord.PermissionBanMembers

	_, err := command.Handle(t.Context(), inv)
	requireReply(t, err, "You need the `Manage Server` permission to use this command.")

	inv.GuildID = 0
	_, err = command.Handle(t.Context(), inv)
	requireReply(t, err, constants.GuildOnlyMessage)
}

func TestSettingsManagerRoles(t *testing.T) {
	t.Parallel()

	command := newSettingsCommand(t)
	options := fakeOptions{roles: map[string]discord.Role{constants.RoleOption: {ID: 77}}}

	reply, err := command.Handle(t.Context(),
		settingsInvocation(constants.UnbansSettingsGroup, constants.AddManagerRoleSubcommand, options))
	require.NoError(t, err)
	assert.Equal(t, "Successfully added <@&77> to the unban manager role list.", *reply.Build().Content)

	_, err = command.Handle(t.Context(),
		settingsInvocation(constants.UnbansSettingsGroup, constants.AddManagerRoleSubcommand, options))
	requireReply(t, err, "That role is already recognized as a manager role.")

	reply, err = command.Handle(t.Context(),
		settingsInvocation(constants.UnbansSettingsGroup, constants.ListManagerRolesSubcommand, fakeOptions{}))
	require.NoError(t, err)
	embeds := reply.Build().Embeds
	require.NotNil(t, embeds)
	assert.Contains(t, (*embeds)[0].Description, "<@&77>")

	_, err = command.Handle(t.Context(),
		settingsInvocation(constants.UnbansSettingsGroup, constants.RemoveManagerRoleSubcommand, options))
	require.NoError(t, err)

	_, err = command.Handle(t.Context(),
		settingsInvocation(constants.UnbansSettingsGroup, constants.RemoveManagerRoleSubcommand, options))
	requireReply(t, err, "That role is not recognized as a manager role.")
}

func TestSettingsManagerRolesRequireOwner(t *testing.T) {
	t.Parallel()

	command := newSettingsCommand(t)

	inv := settingsInvocation(constants.UnbansSettingsGroup, constants.AddManagerRoleSubcommand,
		fakeOptions{roles: map[string]discord.Role{constants.RoleOption: {ID: 77}}})
	inv.User = discord.User{ID: testMod}

	_, err := command.Handle(t.Context(), inv)
	requireReply(t, err, constants.NotOwnerMessage)
}

func TestSettingsLoggingChannel(t *testing.T) {
	t.Parallel()

	command := newSettingsCommand(t)
	text := fakeOptions{channels: map[string]discord.ResolvedChannel{
		constants.ChannelOption: {ID: testChannel, Type: discord.ChannelTypeGuildText},
	}}
	voice := fakeOptions{channels: map[string]discord.ResolvedChannel{
		constants.ChannelOption: {ID: testChannel + 1, Type: discord.ChannelTypeGuildVoice},
	}}

	_, err := command.Handle(t.Context(),
		settingsInvocation(constants.LoggingSettingsGroup, constants.SetLoggingChannelSubcommand, voice))
	requireReply(t, err, "The logging channel must be a text channel.")

	reply, err := command.Handle(t.Context(),
		settingsInvocation(constants.LoggingSettingsGroup, constants.SetLoggingChannelSubcommand, text))
	require.NoError(t, err)
	assert.Equal(t, "Successfully set the logging channel to <#50>.", *reply.Build().Content)

	_, err = command.Handle(t.Context(),
		settingsInvocation(constants.LoggingSettingsGroup, constants.SetLoggingChannelSubcommand, text))
	requireReply(t, err, "That channel is already set as the logging channel.")
}

func TestSettingsToggleLogging(t *testing.T) {
	t.Parallel()

	command := newSettingsCommand(t)
	enable := fakeOptions{bools: map[string]bool{constants.EnabledOption: true}}
	disable := fakeOptions{bools: map[string]bool{constants.EnabledOption: false}}

	_, err := command.Handle(t.Context(),
		settingsInvocation(constants.LoggingSettingsGroup, constants.ToggleLoggingSubcommand, disable))
	requireReply(t, err, "Logging is already disabled.")

	reply, err := command.Handle(t.Context(),
		settingsInvocation(constants.LoggingSettingsGroup, constants.ToggleLoggingSubcommand, enable))
	require.NoError(t, err)
	assert.Equal(t, "Successfully enabled logging.", *reply.Build().Content)

	_, err = command.Handle(t.Context(),
		settingsInvocation(constants.LoggingSettingsGroup, constants.ToggleLoggingSubcommand, enable))
	requireReply(t, err, "Logging is already enabled.")
}
