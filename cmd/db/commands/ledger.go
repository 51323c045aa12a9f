package commands

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/unbanmanager/internal/database/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// LedgerCommands returns the commands for inspecting and cleaning up reban records.
func LedgerCommands(deps *CLIDependencies) []*cli.Command {
	mutationFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "reason",
			Usage:   "Reason recorded with the deletion",
			Aliases: []string{"r"},
		},
		&cli.StringFlag{
			Name:  "operator",
			Usage: "Discord ID of the person requesting the deletion",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Usage:   "Skip the confirmation prompt",
			Aliases: []string{"y"},
		},
	}

	return []*cli.Command{
		{
			Name:  "ledger",
			Usage: "Inspect and clean up re-ban records",
			Commands: []*cli.Command{
				{
					Name:      "search",
					Usage:     "List re-bans of a user in a guild",
					ArgsUsage: "GUILD_ID USER_ID",
					Flags: []cli.Flag{
						&cli.IntFlag{
							Name:    "page",
							Usage:   "Page of results to show",
							Value:   1,
							Aliases: []string{"p"},
						},
					},
					Action: handleLedgerSearch(deps),
				},
				{
					Name:      "delete",
					Usage:     "Delete a single re-ban record",
					ArgsUsage: "GUILD_ID ID",
					Description: `Delete one re-ban record by its ledger ID.

  db ledger delete 123456789012345678 42 --reason "appeal accepted" --operator 234567890123456789`,
					Flags:  mutationFlags,
					Action: handleLedgerDelete(deps),
				},
				{
					Name:      "wipe",
					Usage:     "Delete every re-ban record of a user in a guild",
					ArgsUsage: "GUILD_ID USER_ID",
					Description: `Delete all re-ban records of a user.

  db ledger wipe 123456789012345678 345678901234567890 --reason "cleanup" --operator 234567890123456789

WARNING: This permanently deletes the records!`,
					Flags:  mutationFlags,
					Action: handleLedgerWipe(deps),
				},
			},
		},
	}
}

// handleLedgerSearch handles the 'ledger search' command.
func handleLedgerSearch(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		guildID, userID, err := parseIDPair(c, ErrGuildUserRequired)
		if err != nil {
			return err
		}

		page, err := deps.DB.Service().Ledger().Search(ctx, guildID, userID, int(c.Int("page")))
		if err != nil {
			return err
		}

		if page.Total == 0 {
			fmt.Println("No re-bans found.")
			return nil
		}

		fmt.Printf("Page %d/%d (%d re-bans)\n", page.Page, page.TotalPages, page.Total)

		for _, record := range page.Records {
			fmt.Printf("#%d  %s  actor=%d  %s\n",
				record.ID, record.CreatedAt.Format("2006-01-02 15:04:05"), record.ActorID, record.Reason)
		}

		return nil
	}
}

// handleLedgerDelete handles the 'ledger delete' command.
func handleLedgerDelete(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		guildID, id, err := parseIDPair(c, ErrGuildIDRequired)
		if err != nil {
			return err
		}

		request, err := mutationRequest(c)
		if err != nil {
			return err
		}

		if !c.Bool("yes") && !confirm(fmt.Sprintf("Delete re-ban #%d?", id)) {
			deps.Logger.Info("Operation cancelled")
			return nil
		}

		record, err := deps.DB.Service().Ledger().Delete(ctx, guildID, int64(id), request)
		if err != nil {
			return err
		}

		log.Printf("Deleted re-ban #%d of user %d", record.ID, record.TargetID)

		return nil
	}
}

// handleLedgerWipe handles the 'ledger wipe' command.
func handleLedgerWipe(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		guildID, userID, err := parseIDPair(c, ErrGuildUserRequired)
		if err != nil {
			return err
		}

		request, err := mutationRequest(c)
		if err != nil {
			return err
		}

		ledger := deps.DB.Service().Ledger()

		count, err := ledger.Count(ctx, guildID, userID)
		if err != nil {
			return err
		}

		if count == 0 {
			fmt.Println("No re-bans to be wiped.")
			return nil
		}

		if !c.Bool("yes") && !confirm(fmt.Sprintf("WARNING: This will permanently delete %d re-ban(s). Continue?", count)) {
			deps.Logger.Info("Operation cancelled")
			return nil
		}

		removed, err := ledger.Wipe(ctx, guildID, userID, request)
		if err != nil {
			return err
		}

		deps.Logger.Info("Wiped re-ban records",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Uint64("userID", uint64(userID)),
			zap.Int("removed", removed))

		log.Printf("Wiped %d re-ban(s)", removed)

		return nil
	}
}

// parseIDPair reads two positive numeric arguments.
func parseIDPair(c *cli.Command, missing error) (snowflake.ID, snowflake.ID, error) {
	if c.Args().Len() != 2 {
		return 0, 0, missing
	}

	first, err := parseID(c.Args().Get(0))
	if err != nil {
		return 0, 0, err
	}

	second, err := parseID(c.Args().Get(1))
	if err != nil {
		return 0, 0, err
	}

	return first, second, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, value)
	}

	return snowflake.ID(id), nil
}

// mutationRequest builds the request from the --reason and --operator flags.
func mutationRequest(c *cli.Command) (types.MutationRequest, error) {
	reason := strings.TrimSpace(c.String("reason"))
	if reason == "" {
		return types.MutationRequest{}, ErrReasonRequired
	}

	if c.String("operator") == "" {
		return types.MutationRequest{}, ErrOperatorRequired
	}

	operator, err := parseID(c.String("operator"))
	if err != nil {
		return types.MutationRequest{}, err
	}

	return types.MutationRequest{RequestedBy: operator, Reason: reason}, nil
}

// confirm asks a yes/no question on stdin.
func confirm(question string) bool {
	log.Printf("%s (y/N)", question)

	var response string

	_, _ = fmt.Scanln(&response)

	return strings.EqualFold(strings.TrimSpace(response), "y")
}
