// Package bot connects the unban manager to the Discord gateway.
package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/robalyx/unbanmanager/internal/bot/commands"
	botEvents "github.com/robalyx/unbanmanager/internal/bot/events"
	"github.com/robalyx/unbanmanager/internal/discord/platform"
	"github.com/robalyx/unbanmanager/internal/reban"
	"github.com/robalyx/unbanmanager/internal/setup"
	"github.com/robalyx/unbanmanager/internal/setup/telemetry"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// Bot owns the Discord client and dispatches gateway events.
// Every event is handled on its own goroutine.
type Bot struct {
	client      bot.Client
	router      *commands.Router
	guildEvents *botEvents.GuildEventHandler
	auditEvents *botEvents.AuditLogEventHandler
	logger      *zap.Logger
	wg          conc.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates the Discord client and wires the reconciliation pipeline and commands.
func New(app *setup.App) (*Bot, error) {
	if err := app.Config.Bot.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	b := &Bot{
		logger: app.Logger.Named("bot"),
		ctx:    ctx,
		cancel: cancel,
	}

	requestTimeout := telemetry.ServiceBot.GetRequestTimeout(app.Config)

	client, err := disgo.New(app.Config.Bot.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
				gateway.IntentGuildModeration,
			),
		),
		bot.WithRestClientConfigOpts(
			rest.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnReady:                         b.handleReady,
			OnGuildJoin:                     b.handleGuildJoin,
			OnGuildReady:                    b.handleGuildReady,
			OnGuildAuditLogEntryCreate:      b.handleGuildAuditLogEntryCreate,
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
		}),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	b.client = client

	services := app.DB.Service()
	discordPlatform := platform.New(client.Rest(), app.Logger)

	pipeline := reban.NewPipeline(
		client.ID(),
		services.Guild(),
		reban.NewResolver(discordPlatform, app.Logger),
		reban.NewEnforcer(discordPlatform, services.Ledger(), app.Logger),
		discordPlatform,
		app.Logger,
	)

	owners := commands.NewOwners(app.Config.Bot.OwnerIDs()...)

	b.router = commands.NewRouter(app.Logger,
		commands.NewReban(services.Ledger(), services.Guild(), discordPlatform, discordPlatform, owners, app.Logger),
		commands.NewSettings(services.Guild(), owners),
		commands.NewPing(b.heartbeat, b.roundtrip),
	)
	b.guildEvents = botEvents.NewGuildEventHandler(services.Guild(), app.Logger)
	b.auditEvents = botEvents.NewAuditLogEventHandler(pipeline, app.Logger)

	return b, nil
}

// Start registers global commands and opens the gateway connection.
func (b *Bot) Start() error {
	b.logger.Info("Registering commands")

	if _, err := b.client.Rest().SetGlobalCommands(
		b.client.ApplicationID(), b.router.Creates(), rest.WithCtx(b.ctx),
	); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")

	return b.client.OpenGateway(b.ctx)
}

// Close shuts down the gateway and waits for in-flight events.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.client.Close(ctx)

	b.wg.Wait()
	b.cancel()
}

// run handles an event on its own goroutine and logs any panic.
func (b *Bot) run(name string, fn func()) {
	b.wg.Go(func() {
		start := time.Now()

		var catcher panics.Catcher
		catcher.Try(fn)

		if recovered := catcher.Recovered(); recovered != nil {
			b.logger.Error("Panic in event handler",
				zap.String("handler", name),
				zap.String("panic", recovered.String()))
		}

		b.logger.Debug("Event handled",
			zap.String("handler", name),
			zap.Duration("duration", time.Since(start)))
	})
}

func (b *Bot) handleReady(event *events.Ready) {
	b.logger.Info("Connected to gateway",
		zap.String("username", event.User.Username),
		zap.Int("guilds", len(event.Guilds)))
}

func (b *Bot) handleGuildJoin(event *events.GuildJoin) {
	b.run("guild_join", func() {
		b.guildEvents.OnGuildJoin(b.ctx, event)
	})
}

func (b *Bot) handleGuildReady(event *events.GuildReady) {
	b.run("guild_ready", func() {
		b.guildEvents.OnGuildReady(b.ctx, event)
	})
}

func (b *Bot) handleGuildAuditLogEntryCreate(event *events.GuildAuditLogEntryCreate) {
	b.run("audit_log_entry_create", func() {
		b.auditEvents.OnGuildAuditLogEntryCreate(b.ctx, event)
	})
}

// handleApplicationCommandInteraction defers the response and then runs the command.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	b.run("application_command", func() {
		inv := invocationFromEvent(event)

		if err := event.DeferCreateMessage(b.router.Ephemeral(inv)); err != nil {
			b.logger.Error("Failed to defer create message", zap.Error(err))
			return
		}

		reply := b.router.Dispatch(b.ctx, inv)

		if _, err := event.Client().Rest().UpdateInteractionResponse(
			event.ApplicationID(), event.Token(), reply.Build(), rest.WithCtx(b.ctx),
		); err != nil {
			b.logger.Error("Failed to update interaction response", zap.Error(err))
		}
	})
}

// heartbeat returns the last gateway heartbeat latency.
func (b *Bot) heartbeat() time.Duration {
	if gw := b.client.Gateway(); gw != nil {
		return gw.Latency()
	}

	return 0
}

// roundtrip measures a REST request to Discord.
func (b *Bot) roundtrip(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := b.client.Rest().GetBotApplicationInfo(rest.WithCtx(ctx)); err != nil {
		return 0, err
	}

	return time.Since(start), nil
}

// invocationFromEvent extracts the command invocation from an interaction.
func invocationFromEvent(event *events.ApplicationCommandInteractionCreate) *commands.Invocation {
	data := event.SlashCommandInteractionData()

	inv := &commands.Invocation{
		Name:    data.CommandName(),
		User:    event.User(),
		Options: data,
	}

	if data.SubCommandGroupName != nil {
		inv.Group = *data.SubCommandGroupName
	}

	if data.SubCommandName != nil {
		inv.Subcommand = *data.SubCommandName
	}

	if guildID := event.GuildID(); guildID != nil {
		inv.GuildID = *guildID
	}

	if member := event.Member(); member != nil {
		inv.Permissions = member.Permissions
	}

	return inv
}

var _ commands.Options = discord.SlashCommandInteractionData{}
