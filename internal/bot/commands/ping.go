package commands

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/unbanmanager/internal/bot/constants"
)

// PingCommand reports gateway and REST latency.
type PingCommand struct {
	heartbeat func() time.Duration
	roundtrip func(ctx context.Context) (time.Duration, error)
}

// NewPing creates the ping command. heartbeat reports the gateway latency
// and roundtrip measures a REST request.
func NewPing(heartbeat func() time.Duration, roundtrip func(ctx context.Context) (time.Duration, error)) *PingCommand {
	return &PingCommand{
		heartbeat: heartbeat,
		roundtrip: roundtrip,
	}
}

// Create implements Command.
func (c *PingCommand) Create() discord.SlashCommandCreate {
	return discord.SlashCommandCreate{
		Name:        constants.PingCommandName,
		Description: "Check the bot's latency.",
	}
}

// Handle implements Command.
func (c *PingCommand) Handle(ctx context.Context, _ *Invocation) (*discord.MessageUpdateBuilder, error) {
	roundtrip, err := c.roundtrip(ctx)
	if err != nil {
		return nil, err
	}

	return TextReply("Pong! Roundtrip took: %dms. Heartbeat: %dms.",
		roundtrip.Milliseconds(), c.heartbeat().Milliseconds()), nil
}
