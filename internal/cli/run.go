package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/elfscript/fireplace"
	"github.com/elfscript/fireplace/internal/history"
	"github.com/elfscript/fireplace/protocol"
)

type runOptions struct {
	part      int
	input     string
	args      []string
	want      string
	noHistory bool
}

func newRunCommand(a *app) *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run [flags] -- COMMAND...",
		Short: "Run a solution on the puzzle input",
		Long: `Runs the solution once per part with the puzzle input on stdin and
prints each answer. Without --part both parts run concurrently.`,
		Example: `  esb run --part 1 -- go run .
  esb run --input day01.txt --want 142 --part 1 -- ./day01`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("args") {
				o.args = nil
			}
			return a.run(cmd.Context(), o, args)
		},
	}
	cmd.Flags().IntVarP(&o.part, "part", "p", 0, "part to run (1 or 2); both when omitted")
	cmd.Flags().StringVarP(&o.input, "input", "i", "", "puzzle input file (default from config)")
	cmd.Flags().StringArrayVarP(&o.args, "args", "a", nil, "extra argument passed verbatim to the solution; repeat for more")
	cmd.Flags().StringVar(&o.want, "want", "", "expected answer, requires --part")
	cmd.Flags().BoolVar(&o.noHistory, "no-history", false, "do not record the answers")
	return cmd
}

func (a *app) run(ctx context.Context, o runOptions, args []string) error {
	command, err := a.command(args)
	if err != nil {
		return err
	}
	parts := fireplace.Parts
	if o.part != 0 {
		p := fireplace.Part(o.part)
		if !p.Valid() {
			return fmt.Errorf("%w: %d", fireplace.ErrUnknownPart, o.part)
		}
		parts = []fireplace.Part{p}
	} else if o.want != "" {
		return errors.New("--want requires --part")
	}
	input := o.input
	if input == "" {
		input = a.cfg.Input
	}

	ctx, cancel, err := a.context(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	results := make([]protocol.Result, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range parts {
		g.Go(func() error {
			inv := protocol.Invocation{
				Command: command,
				Dir:     a.cfg.Dir,
				Part:    p,
				Args:    o.args,
			}
			res, err := a.exec.ExecFile(gctx, inv, input)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var store *history.Store
	if !o.noHistory && a.cfg.History != "" {
		if store, err = history.Open(ctx, a.cfg.History); err != nil {
			a.logger.Warn("history unavailable", zap.Error(err))
		} else {
			defer store.Close()
		}
	}

	failed := false
	for i, res := range results {
		p := parts[i]
		switch res.Status {
		case protocol.StatusInputMissing:
			a.error("Could not find input %s", input)
			return errFailed
		case protocol.StatusProtocolError:
			a.error("Solution %v does not follow the Fireplace protocol.", p)
			if res.Stderr != "" {
				a.error("%s", strings.TrimRight(res.Stderr, "\n"))
			}
			failed = true
			continue
		}

		fmt.Fprintln(a.stdout, res.Answer)
		if store != nil {
			_, err := store.Insert(ctx, history.Run{
				Command:        strings.Join(command, " "),
				Part:           p,
				Answer:         res.Answer,
				HasRunningTime: res.HasRunningTime,
				RunningTime:    res.RunningTime,
				Unit:           res.Unit,
			})
			if err != nil {
				a.logger.Warn("recording run", zap.Error(err))
			}
		}

		switch {
		case o.want == "":
			a.warn("Answer %v: %s%s", p, res.Answer, elapsed(res))
		case res.Answer == o.want:
			a.info("✔ Answer %v: %s%s", p, res.Answer, elapsed(res))
		default:
			a.error("✘ Answer %v: %s. Expected: %s", p, res.Answer, o.want)
			failed = true
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func elapsed(res protocol.Result) string {
	if !res.HasRunningTime {
		return ""
	}
	return fmt.Sprintf(" (%v)", res.Unit.Duration(res.RunningTime))
}
