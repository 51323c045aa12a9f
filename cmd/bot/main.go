package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robalyx/unbanmanager/internal/bot"
	"github.com/robalyx/unbanmanager/internal/setup"
	"github.com/robalyx/unbanmanager/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"
	// shutdownTimeout bounds how long in-flight events may take to finish.
	shutdownTimeout = 30 * time.Second
)

func main() {
	app := &cli.Command{
		Name:  "bot",
		Usage: "Run the unban manager Discord bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-dir",
				Usage: "Directory for log sessions",
				Value: BotLogDir,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return run(ctx, c.String("log-dir"))
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Bot exited with error: %v", err)
	}
}

func run(ctx context.Context, logDir string) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceBot, logDir)
	if err != nil {
		return err
	}

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		app.Cleanup(cleanupCtx)
	}()

	discordBot, err := bot.New(app)
	if err != nil {
		app.Logger.Error("Failed to create bot", zap.Error(err))
		return err
	}

	if err := discordBot.Start(); err != nil {
		app.Logger.Error("Failed to start bot", zap.Error(err))
		return err
	}

	log.Println("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	// Wait for interrupt signal to gracefully shutdown the bot
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	discordBot.Close(shutdownCtx)

	return nil
}
