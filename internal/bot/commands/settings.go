package commands

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/bot/builder/setting"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
	"github.com/robalyx/unbanmanager/internal/database/types"
)

// GuildSettings mutates guild configurations.
type GuildSettings interface {
	ConfigReader
	AddManagerRole(ctx context.Context, guildID, roleID snowflake.ID) (*types.GuildConfig, error)
	RemoveManagerRole(ctx context.Context, guildID, roleID snowflake.ID) (*types.GuildConfig, error)
	SetLoggingChannel(ctx context.Context, guildID, channelID snowflake.ID) (*types.GuildConfig, error)
	SetLoggingEnabled(ctx context.Context, guildID snowflake.ID, enabled bool) (*types.GuildConfig, error)
}

// SettingsCommand manages manager roles and the logging channel.
type SettingsCommand struct {
	guilds GuildSettings
	owners Owners
	now    func() time.Time
}

// NewSettings creates the settings command.
func NewSettings(guilds GuildSettings, owners Owners) *SettingsCommand {
	return &SettingsCommand{
		guilds: guilds,
		owners: owners,
		now:    time.Now,
	}
}

// Create implements Command.
func (c *SettingsCommand) Create() discord.SlashCommandCreate {
	return discord.SlashCommandCreate{
		Name:        constants.SettingsCommandName,
		Description: "Configure the unban manager for this server.",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommandGroup{
				Name:        constants.UnbansSettingsGroup,
				Description: "Manage the roles allowed to unban users.",
				Options: []discord.ApplicationCommandOptionSubCommand{
					{
						Name:        constants.AddManagerRoleSubcommand,
						Description: "Allow a role to unban users.",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionRole{
								Name:        constants.RoleOption,
								Description: "The role to add.",
								Required:    true,
							},
						},
					},
					{
						Name:        constants.RemoveManagerRoleSubcommand,
						Description: "Stop a role from unbanning users.",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionRole{
								Name:        constants.RoleOption,
								Description: "The role to remove.",
								Required:    true,
							},
						},
					},
					{
						Name:        constants.ListManagerRolesSubcommand,
						Description: "List the roles allowed to unban users.",
					},
				},
			},
			discord.ApplicationCommandOptionSubCommandGroup{
				Name:        constants.LoggingSettingsGroup,
				Description: "Manage re-ban logging.",
				Options: []discord.ApplicationCommandOptionSubCommand{
					{
						Name:        constants.SetLoggingChannelSubcommand,
						Description: "Set the channel receiving unban and re-ban notices.",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionChannel{
								Name:         constants.ChannelOption,
								Description:  "The channel to log to.",
								Required:     true,
								ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText},
							},
						},
					},
					{
						Name:        constants.ToggleLoggingSubcommand,
						Description: "Enable or disable logging.",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionBool{
								Name:        constants.EnabledOption,
								Description: "Whether logging is enabled.",
								Required:    true,
							},
						},
					},
				},
			},
		},
	}
}

// Handle implements Command.
func (c *SettingsCommand) Handle(ctx context.Context, inv *Invocation) (*discord.MessageUpdateBuilder, error) {
	if err := requireGuild(inv); err != nil {
		return nil, err
	}

	if err := requirePermission(inv, discord.PermissionManageGuild, "Manage Server"); err != nil {
		return nil, err
	}

	switch inv.Group {
	case constants.UnbansSettingsGroup:
		if !c.owners.Contains(inv.User.ID) {
			return nil, Reply(constants.NotOwnerMessage)
		}

		return c.handleUnbans(ctx, inv)
	case constants.LoggingSettingsGroup:
		return c.handleLogging(ctx, inv)
	default:
		return nil, Reply(constants.UnknownCommandMessage)
	}
}

func (c *SettingsCommand) handleUnbans(ctx context.Context, inv *Invocation) (*discord.MessageUpdateBuilder, error) {
	switch inv.Subcommand {
	case constants.AddManagerRoleSubcommand:
		role, _ := inv.Options.OptRole(constants.RoleOption)

		_, err := c.guilds.AddManagerRole(ctx, inv.GuildID, role.ID)
		if errors.Is(err, types.ErrRoleAlreadyManager) {
			return nil, Reply("That role is already recognized as a manager role.")
		} else if err != nil {
			return nil, err
		}

		return TextReply("Successfully added <@&%d> to the unban manager role list.", role.ID), nil
	case constants.RemoveManagerRoleSubcommand:
		role, _ := inv.Options.OptRole(constants.RoleOption)

		_, err := c.guilds.RemoveManagerRole(ctx, inv.GuildID, role.ID)
		if errors.Is(err, types.ErrRoleNotManager) {
			return nil, Reply("That role is not recognized as a manager role.")
		} else if err != nil {
			return nil, err
		}

		return TextReply("Successfully removed <@&%d> from the unban manager role list.", role.ID), nil
	case constants.ListManagerRolesSubcommand:
		config, err := c.guilds.GetOrCreate(ctx, inv.GuildID)
		if err != nil {
			return nil, err
		}

		return setting.NewManagerRolesBuilder(config.ManagerRoles, c.now()).Build(), nil
	default:
		return nil, Reply(constants.UnknownCommandMessage)
	}
}

func (c *SettingsCommand) handleLogging(ctx context.Context, inv *Invocation) (*discord.MessageUpdateBuilder, error) {
	switch inv.Subcommand {
	case constants.SetLoggingChannelSubcommand:
		channel, ok := inv.Options.OptChannel(constants.ChannelOption)
		if !ok || channel.Type != discord.ChannelTypeGuildText {
			return nil, Reply("The logging channel must be a text channel.")
		}

		_, err := c.guilds.SetLoggingChannel(ctx, inv.GuildID, channel.ID)
		if errors.Is(err, types.ErrChannelUnchanged) {
			return nil, Reply("That channel is already set as the logging channel.")
		} else if err != nil {
			return nil, err
		}

		return TextReply("Successfully set the logging channel to <#%d>.", channel.ID), nil
	case constants.ToggleLoggingSubcommand:
		enabled, _ := inv.Options.OptBool(constants.EnabledOption)

		_, err := c.guilds.SetLoggingEnabled(ctx, inv.GuildID, enabled)
		if errors.Is(err, types.ErrLoggingUnchanged) {
			return nil, Reply("Logging is already %s.", enabledWord(enabled))
		} else if err != nil {
			return nil, err
		}

		return TextReply("Successfully %s logging.", enabledWord(enabled)), nil
	default:
		return nil, Reply(constants.UnknownCommandMessage)
	}
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
