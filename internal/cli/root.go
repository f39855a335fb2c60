// Package cli implements the esb command, which runs and tests Fireplace
// solutions from the host side.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elfscript/fireplace/internal/config"
	"github.com/elfscript/fireplace/protocol"
)

// errFailed is returned once the failure has already been shown to the user.
var errFailed = errors.New("failed")

type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgPath string
	verbose bool

	cfg    config.Config
	logger *zap.Logger
	exec   *protocol.Executor
}

// Execute runs the esb command with the process arguments and returns the
// exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCommand(os.Stdout, os.Stderr, nil)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Fatal: "+err.Error()))
		}
		return 1
	}
	return 0
}

// NewRootCommand builds the esb command tree. A nil logger is built from the
// --verbose flag.
func NewRootCommand(stdout, stderr io.Writer, logger *zap.Logger) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, logger: logger}

	root := &cobra.Command{
		Use:   "esb",
		Short: "Run and test Advent of Code solutions over the Fireplace protocol",
		Long: `esb runs Advent of Code solutions that speak the Fireplace v1 protocol.

A solution is any command that reads the puzzle input on stdin, accepts
--part N and --args ..., and prints the answer followed by a running time
line. Pass the command after "--" or set it in esb.toml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.logger == nil {
				zc := zap.NewProductionConfig()
				zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
				if a.verbose {
					zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
				}
				if a.logger, err = zc.Build(); err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
			}
			a.exec = &protocol.Executor{Logger: a.logger}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default ./"+config.DefaultPath+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug information")

	root.AddCommand(
		newRunCommand(a),
		newTestCommand(a),
		newHistoryCommand(a),
	)
	return root
}

// command returns the solution command from the positional arguments or the
// config file.
func (a *app) command(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(a.cfg.Command) > 0 {
		return a.cfg.Command, nil
	}
	return nil, errors.New("no solution command: pass it after -- or set command in " + config.DefaultPath)
}

// context bounds ctx by the configured timeout.
func (a *app) context(ctx context.Context) (context.Context, context.CancelFunc, error) {
	d, err := a.cfg.TimeoutDuration()
	if err != nil {
		return nil, nil, err
	}
	if d == 0 {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	return ctx, cancel, nil
}
