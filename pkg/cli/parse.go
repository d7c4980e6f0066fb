package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/parser"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func parseCommand() *cli.Command {
	var (
		characterID   string
		characterName string
		asJSON        bool
	)

	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse a saved model response offline ('-' reads stdin)",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "character",
				Aliases:     []string{"i"},
				Usage:       "Character ID stamped on the result",
				Value:       "local",
				Destination: &characterID,
			},
			&cli.StringFlag{
				Name:        "name",
				Usage:       "Character name stamped on the result",
				Destination: &characterName,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the parsed phone as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return goerr.New("file is required")
			}
			path := c.Args().Get(0)

			var r io.Reader = os.Stdin
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return goerr.Wrap(err, "failed to open response file", goerr.V("path", path))
				}
				defer f.Close()
				r = f
			}

			raw, err := io.ReadAll(r)
			if err != nil {
				return goerr.Wrap(err, "failed to read response", goerr.V("path", path))
			}

			content := parser.Parse(string(raw), model.CharacterID(characterID), characterName)

			w := c.Root().Writer
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(content)
			}
			printSummary(w, content)
			printChats(w, content)
			return nil
		},
	}
}
