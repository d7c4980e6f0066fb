package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/usecase/history"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse and prune generated phones",
		Commands: []*cli.Command{
			historyListCommand(),
			historyShowCommand(),
			historyDeleteCommand(),
			historyClearCommand(),
		},
	}
}

// openHistory sets up logging and the store for a history subcommand
func openHistory(ctx context.Context, cfg *config) (context.Context, *history.Store, func(), error) {
	ctx = cfg.withLogger(ctx)
	kv, closeStore, err := cfg.newKVStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return ctx, history.New(kv), closeStore, nil
}

func historyListCommand() *cli.Command {
	var (
		cfg         config
		characterID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "character",
			Aliases:     []string{"i"},
			Usage:       "Character ID; without it every character with history is listed",
			Sources:     cli.EnvVars("AIPHONE_CHARACTER_ID"),
			Destination: &characterID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List generated phones, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, store, closeStore, err := openHistory(ctx, &cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			w := c.Root().Writer

			ids := []model.CharacterID{model.CharacterID(characterID)}
			if characterID == "" {
				ids, err = store.Characters(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to list characters")
				}
			}

			for _, id := range ids {
				list, err := store.List(ctx, id)
				if err != nil {
					return goerr.Wrap(err, "failed to list history", goerr.V("character_id", id))
				}
				if len(list) == 0 {
					if characterID != "" {
						fmt.Fprintf(w, "No phone history found for %s\n", id)
					}
					continue
				}
				for _, h := range list {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d chats\n",
						h.ID,
						h.CharacterName,
						h.Timestamp.Format("2006-01-02 15:04:05"),
						len(h.Content.ChatSessions),
					)
				}
			}
			return nil
		},
	}
}

func historyShowCommand() *cli.Command {
	var (
		cfg    config
		asJSON bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the whole phone as JSON",
			Destination: &asJSON,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "show",
		Usage:     "Show one generated phone",
		ArgsUsage: "<history-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return goerr.New("history-id is required")
			}
			historyID := model.HistoryID(c.Args().Get(0))

			ctx, store, closeStore, err := openHistory(ctx, &cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			h, err := store.Get(ctx, historyID)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(h)
			}

			printSummary(w, h.Content)
			printChats(w, h.Content)
			return nil
		},
	}
}

func historyDeleteCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one generated phone",
		ArgsUsage: "<history-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return goerr.New("history-id is required")
			}
			historyID := model.HistoryID(c.Args().Get(0))

			ctx, store, closeStore, err := openHistory(ctx, &cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Delete(ctx, historyID.CharacterID(), historyID); err != nil {
				return goerr.Wrap(err, "failed to delete history")
			}
			fmt.Fprintf(c.Root().Writer, "History deleted: %s\n", historyID)
			return nil
		},
	}
}

func historyClearCommand() *cli.Command {
	var (
		cfg         config
		characterID string
		all         bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "character",
			Aliases:     []string{"i"},
			Usage:       "Clear history of this character",
			Destination: &characterID,
		},
		&cli.BoolFlag{
			Name:        "all",
			Aliases:     []string{"a"},
			Usage:       "Clear history of every character",
			Destination: &all,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "clear",
		Usage: "Clear phone history",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if (characterID == "") == !all {
				return goerr.New("exactly one of --character or --all is required")
			}

			ctx, store, closeStore, err := openHistory(ctx, &cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if all {
				if err := store.ClearAll(ctx); err != nil {
					return goerr.Wrap(err, "failed to clear all history")
				}
				fmt.Fprintf(c.Root().Writer, "All phone history cleared\n")
				return nil
			}

			if err := store.Clear(ctx, model.CharacterID(characterID)); err != nil {
				return goerr.Wrap(err, "failed to clear history")
			}
			fmt.Fprintf(c.Root().Writer, "Phone history cleared: %s\n", characterID)
			return nil
		},
	}
}
