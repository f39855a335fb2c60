package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/elfscript/fireplace"
	"github.com/elfscript/fireplace/protocol"
)

type testOptions struct {
	part   int
	tests  string
	filter string
}

func newTestCommand(a *app) *cobra.Command {
	var o testOptions
	cmd := &cobra.Command{
		Use:   "test [flags] -- COMMAND...",
		Short: "Check a solution against the TOML test cases",
		Long: `Runs the solution on every case of the *.toml files in the tests
directory and compares the answers:

  [test.sample]
  part = 1
  input = "..."
  answer = 142
  args = ["optional"]`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.test(cmd.Context(), o, args)
		},
	}
	cmd.Flags().IntVarP(&o.part, "part", "p", 0, "only test this part (1 or 2)")
	cmd.Flags().StringVarP(&o.tests, "tests", "t", "", "tests directory (default from config)")
	cmd.Flags().StringVarP(&o.filter, "filter", "f", "", "only run tests whose name contains this text")
	return cmd
}

func (a *app) test(ctx context.Context, o testOptions, args []string) error {
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
	}
	dir := o.tests
	if dir == "" {
		dir = a.cfg.Tests
	}

	files, err := protocol.LoadTestDir(dir)
	if err != nil {
		return err
	}
	var cases []protocol.TestCase
	for _, f := range files {
		for _, inv := range f.Invalid {
			a.error("Test %s is invalid: %s", inv.Name, inv.Reason)
		}
		for _, p := range parts {
			cases = append(cases, f.ForPart(p)...)
		}
	}
	cases = lo.Filter(cases, func(tc protocol.TestCase, _ int) bool {
		return strings.Contains(tc.Name, o.filter)
	})
	if len(cases) == 0 {
		a.error("Could not find tests")
		a.error("Create tests at: %s", dir)
		return errFailed
	}

	ctx, cancel, err := a.context(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	failed := 0
	for _, tc := range cases {
		a.info("Testing: %s. Part %v", tc.Name, tc.Part)
		res, err := a.exec.Exec(ctx, tc.Invocation(command, a.cfg.Dir))
		if err != nil {
			return err
		}
		switch {
		case res.Status != protocol.StatusOK:
			a.error("✘ Could not run %s: %v", tc.Name, res.Status)
			failed++
		case res.Answer == tc.Answer:
			a.info("✔ Answer %v: %s", tc.Part, res.Answer)
		default:
			a.error("✘ Answer %v: %s. Expected: %s", tc.Part, res.Answer, tc.Answer)
			failed++
		}
	}
	if failed > 0 {
		a.error("%d of %d tests failed", failed, len(cases))
		return errFailed
	}
	a.info("%d tests passed", len(cases))
	return nil
}
