package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/aiphone/pkg/adapter"
	"github.com/m-mizutani/aiphone/pkg/model"
	"github.com/m-mizutani/aiphone/pkg/prompt"
	"github.com/m-mizutani/aiphone/pkg/repository"
	"github.com/m-mizutani/aiphone/pkg/usecase/history"
	"github.com/m-mizutani/aiphone/pkg/usecase/phone"
	"github.com/m-mizutani/aiphone/pkg/usecase/task"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func generateCommand() *cli.Command {
	var (
		cfg    config
		cached bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "cached",
			Usage:       "Show the cached phone when there is one instead of generating",
			Sources:     cli.EnvVars("AIPHONE_CACHED"),
			Destination: &cached,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, promptFlags(&cfg)...)

	return &cli.Command{
		Name:      "generate",
		Usage:     "Generate phones for characters in the background",
		ArgsUsage: "<character-id>...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return goerr.New("character-id is required")
			}
			ctx = cfg.withLogger(ctx)
			w := c.Root().Writer

			// Initialize dependencies
			kv, closeStore, err := cfg.newKVStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			chars, err := repository.LoadCharacters(cfg.characterFile)
			if err != nil {
				return err
			}
			userName := cfg.userName
			if userName == "" {
				userName = chars.UserName
			}

			transport, err := cfg.newTransport(ctx)
			if err != nil {
				return err
			}

			hist := history.New(kv)
			gen := phone.New(transport, prompt.New(chars, prompt.WithUserName(userName)), kv, hist,
				cfg.generatorOptions()...)

			var targets []*model.Character
			for _, arg := range slices.Compact(slices.Sorted(slices.Values(c.Args().Slice()))) {
				ch, err := chars.GetCharacter(ctx, model.CharacterID(arg))
				if err != nil {
					return err
				}
				targets = append(targets, ch)
			}

			if cached {
				for _, ch := range targets {
					content, err := gen.Generate(ctx, ch.ID, ch.DisplayName(), false)
					if err != nil {
						fmt.Fprintf(w, "generation failed for %s, showing fallback: %v\n", ch.ID, err)
					}
					printSummary(w, content)
				}
				return nil
			}

			return runBackground(ctx, w, gen, hist, targets)
		},
	}
}

func runBackground(ctx context.Context, w io.Writer, gen task.Generator, hist *history.Store, targets []*model.Character) error {
	notifier := adapter.MultiNotifier{adapter.NewWriterNotifier(w), adapter.LogNotifier{}}
	mgr := task.New(gen, notifier)

	var (
		mu       sync.Mutex
		finished = map[model.RunID]model.BackgroundTask{}
		update   = make(chan struct{}, 1)
	)
	unsubscribe := mgr.Subscribe(func(tasks []model.BackgroundTask) {
		mu.Lock()
		for _, t := range tasks {
			if t.Status.IsTerminal() {
				finished[t.RunID] = t
			}
		}
		mu.Unlock()

		select {
		case update <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	runs := make([]model.BackgroundTask, 0, len(targets))
	for _, ch := range targets {
		runs = append(runs, mgr.StartGeneration(ctx, ch.ID, ch.DisplayName()))
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = fmt.Sprintf(" generating %d phone(s)", len(runs))
	s.Start()

	for {
		mu.Lock()
		done := 0
		for _, r := range runs {
			if _, ok := finished[r.RunID]; ok {
				done++
			}
		}
		mu.Unlock()

		if done == len(runs) {
			break
		}
		s.Lock()
		s.Suffix = fmt.Sprintf(" generating %d/%d phone(s)", len(runs)-done, len(runs))
		s.Unlock()

		select {
		case <-update:
		case <-ctx.Done():
			s.Stop()
			return goerr.Wrap(ctx.Err(), "interrupted while generating")
		}
	}
	s.Stop()
	mgr.Wait()

	failed := 0
	for _, r := range runs {
		mu.Lock()
		result := finished[r.RunID]
		mu.Unlock()

		if result.Status == model.TaskFailed {
			failed++
			fmt.Fprintf(w, "%s: failed: %s\n", r.CharacterID, result.Error)
			continue
		}

		list, err := hist.List(ctx, r.CharacterID)
		if err != nil || len(list) == 0 {
			fmt.Fprintf(w, "%s: completed, history unavailable\n", r.CharacterID)
			continue
		}
		fmt.Fprintf(w, "history id: %s\n", list[0].ID)
		printSummary(w, list[0].Content)
	}

	if failed > 0 {
		return goerr.New("phone generation failed", goerr.V("failed", failed), goerr.V("total", len(runs)))
	}
	return nil
}
