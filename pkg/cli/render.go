package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/render"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func renderCommand() *cli.Command {
	var (
		cfg    config
		output string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "HTML file to write (stdout when empty)",
			Destination: &output,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:      "render",
		Usage:     "Render a generated phone as HTML",
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

			if output == "" {
				return render.HTML(c.Root().Writer, h.Content)
			}

			f, err := os.Create(output)
			if err != nil {
				return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
			}
			defer f.Close()

			if err := render.HTML(f, h.Content); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Rendered %s to %s\n", historyID, output)
			return nil
		},
	}
}
