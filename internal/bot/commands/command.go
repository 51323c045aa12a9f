// Package commands implements the bot's slash commands.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
	"go.uber.org/zap"
)

// ErrUnknownCommand is returned when no command matches an invocation.
var ErrUnknownCommand = errors.New("unknown command")

// Options exposes the parsed options of a slash command.
// discord.SlashCommandInteractionData satisfies it.
type Options interface {
	OptUser(name string) (discord.User, bool)
	OptInt(name string) (int, bool)
	OptString(name string) (string, bool)
	OptBool(name string) (bool, bool)
	OptRole(name string) (discord.Role, bool)
	OptChannel(name string) (discord.ResolvedChannel, bool)
}

// Invocation is a single slash command use.
type Invocation struct {
	Name       string
	Group      string
	Subcommand string
	// GuildID is zero outside of guilds.
	GuildID     snowflake.ID
	User        discord.User
	Permissions discord.Permissions
	Options     Options
}

// Command is a slash command.
type Command interface {
	// Create returns the registration payload.
	Create() discord.SlashCommandCreate
	// Handle runs the command and returns the reply.
	Handle(ctx context.Context, inv *Invocation) (*discord.MessageUpdateBuilder, error)
}

// ReplyError is a failure whose message is shown to the user as is.
type ReplyError struct {
	Message string
}

func (e *ReplyError) Error() string {
	return e.Message
}

// Reply creates a ReplyError.
func Reply(format string, args ...any) error {
	return &ReplyError{Message: fmt.Sprintf(format, args...)}
}

// Router dispatches invocations to registered commands.
type Router struct {
	commands map[string]Command
	order    []string
	logger   *zap.Logger
}

// NewRouter creates a router for the given commands.
func NewRouter(logger *zap.Logger, commands ...Command) *Router {
	r := &Router{
		commands: make(map[string]Command, len(commands)),
		logger:   logger.Named("command_router"),
	}

	for _, command := range commands {
		name := command.Create().Name
		r.commands[name] = command
		r.order = append(r.order, name)
	}

	return r
}

// Creates returns the registration payloads of every command.
func (r *Router) Creates() []discord.ApplicationCommandCreate {
	creates := make([]discord.ApplicationCommandCreate, 0, len(r.order))
	for _, name := range r.order {
		creates = append(creates, r.commands[name].Create())
	}

	return creates
}

// Ephemeral reports whether the reply to an invocation is only shown to its caller.
// Replies of registered commands are public.
func (r *Router) Ephemeral(inv *Invocation) bool {
	_, ok := r.commands[inv.Name]
	return !ok
}

// Dispatch runs the invocation and always returns a reply.
// Unexpected errors are logged and replaced with a generic message.
func (r *Router) Dispatch(ctx context.Context, inv *Invocation) *discord.MessageUpdateBuilder {
	command, ok := r.commands[inv.Name]
	if !ok {
		r.logger.Warn("Unknown command invoked",
			zap.String("command", inv.Name),
			zap.Uint64("userID", uint64(inv.User.ID)))

		return ErrorReply(constants.UnknownCommandMessage)
	}

	reply, err := command.Handle(ctx, inv)
	if err != nil {
		var replyErr *ReplyError
		if errors.As(err, &replyErr) {
			return ErrorReply(replyErr.Message)
		}

		r.logger.Error("Command failed",
			zap.String("command", inv.Name),
			zap.String("group", inv.Group),
			zap.String("subcommand", inv.Subcommand),
			zap.Uint64("guildID", uint64(inv.GuildID)),
			zap.Uint64("userID", uint64(inv.User.ID)),
			zap.Error(err))

		return ErrorReply(constants.GenericErrorMessage)
	}

	return reply
}

// ErrorReply renders a failure message.
func ErrorReply(message string) *discord.MessageUpdateBuilder {
	embed := discord.NewEmbedBuilder().
		SetDescription(message).
		SetColor(constants.DangerEmbedColor).
		Build()

	return discord.NewMessageUpdateBuilder().
		SetContent("").
		SetEmbeds(embed)
}

// TextReply renders a plain text reply.
func TextReply(format string, args ...any) *discord.MessageUpdateBuilder {
	return discord.NewMessageUpdateBuilder().
		SetContent(fmt.Sprintf(format, args...)).
		SetAllowedMentions(&discord.AllowedMentions{})
}

// requireGuild rejects invocations made outside of a guild.
func requireGuild(inv *Invocation) error {
	if inv.GuildID == 0 {
		return Reply(constants.GuildOnlyMessage)
	}

	return nil
}

// requirePermission rejects members lacking a permission.
func requirePermission(inv *Invocation, permission discord.Permissions, name string) error {
	if !inv.Permissions.Has(permission) {
		return Reply(constants.MissingPermissionText, name)
	}

	return nil
}
