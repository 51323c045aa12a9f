package commands

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	rebanBuilder "github.com/robalyx/unbanmanager/internal/bot/builder/reban"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
	"github.com/robalyx/unbanmanager/internal/bot/utils"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"go.uber.org/zap"
)

// Ledger queries and mutates reban records.
type Ledger interface {
	Search(ctx context.Context, guildID, targetID snowflake.ID, page int) (*types.RebanPage, error)
	Inspect(ctx context.Context, guildID snowflake.ID, id int64) (*types.RebanRecord, error)
	Delete(ctx context.Context, guildID snowflake.ID, id int64, request types.MutationRequest) (*types.RebanRecord, error)
	Wipe(ctx context.Context, guildID, targetID snowflake.ID, request types.MutationRequest) (int, error)
}

// ConfigReader loads guild configurations.
type ConfigReader interface {
	GetOrCreate(ctx context.Context, guildID snowflake.ID) (*types.GuildConfig, error)
}

// UserLookup fetches Discord accounts.
type UserLookup interface {
	LookupUser(ctx context.Context, userID snowflake.ID) (*discord.User, error)
}

// MessageSender posts messages to channels.
type MessageSender interface {
	Send(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) error
}

// RebanCommand searches, inspects and retracts ledger records.
type RebanCommand struct {
	ledger  Ledger
	configs ConfigReader
	users   UserLookup
	sender  MessageSender
	owners  Owners
	logger  *zap.Logger
	now     func() time.Time
}

// NewReban creates the reban command.
func NewReban(
	ledger Ledger, configs ConfigReader, users UserLookup, sender MessageSender, owners Owners, logger *zap.Logger,
) *RebanCommand {
	return &RebanCommand{
		ledger:  ledger,
		configs: configs,
		users:   users,
		sender:  sender,
		owners:  owners,
		logger:  logger.Named("reban_command"),
		now:     time.Now,
	}
}

// Create implements Command.
func (c *RebanCommand) Create() discord.SlashCommandCreate {
	minValue := 1
	maxReason := types.MutationReasonMaxLength

	return discord.SlashCommandCreate{
		Name:        constants.RebanCommandName,
		Description: "Re-ban related commands.",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        constants.RebanSearchSubcommand,
				Description: "Search all re-bans for a user.",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{
						Name:        constants.TargetOption,
						Description: "The user to search for.",
						Required:    true,
					},
					discord.ApplicationCommandOptionInt{
						Name:        constants.PageOption,
						Description: "The page of results to view.",
						MinValue:    &minValue,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        constants.RebanViewSubcommand,
				Description: "View in depth information about a re-ban.",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        constants.IDOption,
						Description: "The ID of the re-ban to view.",
						Required:    true,
						MinValue:    &minValue,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        constants.RebanDeleteSubcommand,
				Description: "Remove a re-ban from a user's record.",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        constants.IDOption,
						Description: "The ID of the re-ban to delete.",
						Required:    true,
						MinValue:    &minValue,
					},
					discord.ApplicationCommandOptionString{
						Name:        constants.ReasonOption,
						Description: "The reason for deleting the re-ban.",
						Required:    true,
						MaxLength:   &maxReason,
					},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        constants.RebanWipeSubcommand,
				Description: "Wipe all re-bans for a user.",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{
						Name:        constants.TargetOption,
						Description: "The user to wipe re-bans for.",
						Required:    true,
					},
					discord.ApplicationCommandOptionString{
						Name:        constants.ReasonOption,
						Description: "The reason for wiping the re-bans.",
						Required:    true,
						MaxLength:   &maxReason,
					},
				},
			},
		},
	}
}

// Handle implements Command.
func (c *RebanCommand) Handle(ctx context.Context, inv *Invocation) (*discord.MessageUpdateBuilder, error) {
	if err := requireGuild(inv); err != nil {
		return nil, err
	}

	if err := requirePermission(inv, discord.PermissionBanMembers, "Ban Members"); err != nil {
		return nil, err
	}

	switch inv.Subcommand {
	case constants.RebanSearchSubcommand:
		target, _ := inv.Options.OptUser(constants.TargetOption)
		page, ok := inv.Options.OptInt(constants.PageOption)
		if !ok {
			page = 1
		}

		return c.Search(ctx, inv.GuildID, target, page)
	case constants.RebanViewSubcommand:
		id, _ := inv.Options.OptInt(constants.IDOption)

		return c.View(ctx, inv.GuildID, int64(id))
	case constants.RebanDeleteSubcommand:
		if !c.owners.Contains(inv.User.ID) {
			return nil, Reply(constants.NotOwnerMessage)
		}

		id, _ := inv.Options.OptInt(constants.IDOption)
		reason, _ := inv.Options.OptString(constants.ReasonOption)

		return c.Delete(ctx, inv.GuildID, inv.User, int64(id), reason)
	case constants.RebanWipeSubcommand:
		if !c.owners.Contains(inv.User.ID) {
			return nil, Reply(constants.NotOwnerMessage)
		}

		target, _ := inv.Options.OptUser(constants.TargetOption)
		reason, _ := inv.Options.OptString(constants.ReasonOption)

		return c.Wipe(ctx, inv.GuildID, inv.User, target, reason)
	default:
		return nil, Reply(constants.UnknownCommandMessage)
	}
}

// Search lists a user's rebans, most recent first.
func (c *RebanCommand) Search(
	ctx context.Context, guildID snowflake.ID, target discord.User, page int,
) (*discord.MessageUpdateBuilder, error) {
	result, err := c.ledger.Search(ctx, guildID, target.ID, page)
	if err != nil {
		return nil, err
	}

	return rebanBuilder.NewSearchBuilder(target, result).Build(), nil
}

// View shows a single reban.
func (c *RebanCommand) View(ctx context.Context, guildID snowflake.ID, id int64) (*discord.MessageUpdateBuilder, error) {
	record, err := c.ledger.Inspect(ctx, guildID, id)
	if err != nil {
		return nil, c.ledgerError(err)
	}

	actor := c.lookupUser(ctx, record.ActorID)
	target := c.lookupUser(ctx, record.TargetID)

	return rebanBuilder.NewRecordBuilder(record, actor, target).Build(), nil
}

// Delete retracts a single reban and logs the deletion.
func (c *RebanCommand) Delete(
	ctx context.Context, guildID snowflake.ID, deletedBy discord.User, id int64, reason string,
) (*discord.MessageUpdateBuilder, error) {
	record, err := c.ledger.Delete(ctx, guildID, id, types.MutationRequest{
		RequestedBy: deletedBy.ID,
		Reason:      reason,
	})
	if err != nil {
		return nil, c.ledgerError(err)
	}

	logMessage := rebanBuilder.NewDeletionLogBuilder(record, deletedBy, reason, c.now()).Build().Build()
	status := c.logMutation(ctx, guildID, logMessage)

	return TextReply("Re-ban with ID **#%d** for %s has been deleted.\n%s",
		record.ID, utils.UserMentionWithID(record.TargetID), status), nil
}

// Wipe retracts every reban of a user and logs the deletion.
func (c *RebanCommand) Wipe(
	ctx context.Context, guildID snowflake.ID, deletedBy, target discord.User, reason string,
) (*discord.MessageUpdateBuilder, error) {
	removed, err := c.ledger.Wipe(ctx, guildID, target.ID, types.MutationRequest{
		RequestedBy: deletedBy.ID,
		Reason:      reason,
	})
	if err != nil {
		return nil, c.ledgerError(err)
	}

	if removed == 0 {
		return TextReply("No re-bans to be wiped for %s.", utils.UserMentionWithID(target.ID)), nil
	}

	logMessage := rebanBuilder.NewWipeLogBuilder(target, deletedBy, reason, removed, c.now()).Build().Build()
	status := c.logMutation(ctx, guildID, logMessage)

	return TextReply("Wiped **%d** %s for %s.\n%s",
		removed, utils.Pluralize(removed, "re-ban", ""), utils.UserMentionWithID(target.ID), status), nil
}

// logMutation sends a deletion log to the guild's logging channel and describes the result.
func (c *RebanCommand) logMutation(ctx context.Context, guildID snowflake.ID, message discord.MessageCreate) string {
	config, err := c.configs.GetOrCreate(ctx, guildID)
	if err != nil {
		c.logger.Error("Failed to load guild config for deletion log",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Error(err))

		return "Failed to log the deletion."
	}

	channelID, ok := config.LoggingTarget()
	if !ok {
		return "Logging is not configured, so the deletion was not logged."
	}

	if err := c.sender.Send(ctx, channelID, message); err != nil {
		c.logger.Warn("Failed to send deletion log",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Uint64("channelID", uint64(channelID)),
			zap.Error(err))

		return "Failed to log the deletion."
	}

	return "Successfully logged the deletion."
}

// lookupUser returns nil when the account cannot be fetched.
func (c *RebanCommand) lookupUser(ctx context.Context, id snowflake.ID) *discord.User {
	user, err := c.users.LookupUser(ctx, id)
	if err != nil {
		c.logger.Debug("Failed to look up user", zap.Uint64("userID", uint64(id)), zap.Error(err))
		return nil
	}

	return user
}

// ledgerError maps expected ledger failures to replies.
func (c *RebanCommand) ledgerError(err error) error {
	switch {
	case errors.Is(err, types.ErrRebanNotFound):
		return Reply("A re-ban with that ID does not exist.")
	case errors.Is(err, types.ErrInvalidMutation):
		return Reply("A reason of at most %d characters is required.", types.MutationReasonMaxLength)
	default:
		return err
	}
}
