// Package fireplace runs Advent of Code solutions under the Fireplace v1
// protocol.
//
// A solution is a main package with two solving functions, one per puzzle
// part, handed to V1Run:
//
//	func solvePt1(input string, args []string) (any, error) { ... }
//	func solvePt2(input string, args []string) (any, error) { ... }
//
//	func main() {
//		if err := fireplace.V1Run(solvePt1, solvePt2); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The resulting binary reads the puzzle input from stdin and accepts
//
//	-p, --part N     run only part N (1 or 2); both parts run when omitted
//	-a, --args ...   every following token is passed to the solver verbatim
//	--debug          log runner activity to stderr
//
// For every part it runs, it prints the answer on one line and the running
// time on the next, e.g. "25\nRT 1234 ns\n".
package fireplace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Part identifies one of the two halves of a puzzle.
type Part int

const (
	Part1 Part = 1
	Part2 Part = 2
)

// Parts lists both puzzle parts in the order the runner dispatches them.
var Parts = []Part{Part1, Part2}

// Valid reports whether p is Part1 or Part2.
func (p Part) Valid() bool {
	return p == Part1 || p == Part2
}

func (p Part) String() string {
	return "pt" + strconv.Itoa(int(p))
}

// ParsePart parses "1" or "2".
func ParsePart(s string) (Part, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Part(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPart, s)
	}
	return Part(n), nil
}

// Solver solves one part of a puzzle. input is the whole puzzle input with
// trailing whitespace removed and args are the extra arguments given after
// --args (nil when --args was not passed). The returned value is rendered
// with fmt.Sprint, so any fmt.Stringer works.
type Solver func(input string, args []string) (any, error)

// Answer is the rendered outcome of one successful solver call.
type Answer struct {
	Part    Part
	Value   string
	Elapsed time.Duration
}

// Solve calls fn once and renders its result. Every failure, including a
// panic inside fn or a nil answer, is returned as an *Error.
func Solve(part Part, fn Solver, input string, args []string) (ans Answer, err error) {
	if !part.Valid() {
		return Answer{}, &Error{Part: part, Op: "dispatch", Err: ErrUnknownPart}
	}
	if fn == nil {
		return Answer{}, &Error{Part: part, Op: "dispatch", Err: ErrNoSolver}
	}
	defer func() {
		if r := recover(); r != nil {
			ans = Answer{}
			err = &Error{Part: part, Op: "solve", Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()

	t0 := time.Now()
	v, err := fn(input, slices.Clone(args))
	elapsed := time.Since(t0)
	if err != nil {
		var fe *Error
		switch {
		case !errors.As(err, &fe):
		case fe == nil:
			err = errNilError
		case fe == err:
			c := *fe
			if c.Part == 0 {
				c.Part = part
			}
			return Answer{}, &c
		}
		return Answer{}, &Error{Part: part, Op: "solve", Err: err}
	}
	if v == nil {
		return Answer{}, &Error{Part: part, Op: "solve", Err: ErrNoAnswer}
	}
	return Answer{Part: part, Value: fmt.Sprint(v), Elapsed: elapsed}, nil
}

// Runner hands puzzle input to a pair of solvers and writes their answers in
// the Fireplace v1 format. The zero value reads from os.Stdin and writes to
// os.Stdout and os.Stderr.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives runner activity. When nil, a development logger on
	// Stderr is used with --debug and nothing is logged otherwise.
	Logger *zap.Logger
}

// V1Run runs the process as a Fireplace v1 solution. Its result should
// become the exit status of the program.
func V1Run(pt1, pt2 Solver) error {
	var r Runner
	return r.Run(os.Args[1:], pt1, pt2)
}

// Run parses argv, reads the input and dispatches the requested parts. It
// returns the first error encountered; parts after a failing one are not run.
func (r *Runner) Run(argv []string, pt1, pt2 Solver) error {
	opts, err := parseArgs(argv)
	if err != nil {
		return err
	}
	logger := r.logger(opts.debug)
	defer logger.Sync()

	input, err := readInput(r.stdin())
	if err != nil {
		logger.Debug("reading input", zap.Error(err))
		return err
	}
	logger.Debug("input acquired", zap.Int("bytes", len(input)), zap.Strings("args", opts.args))

	parts := Parts
	if opts.part != 0 {
		parts = []Part{opts.part}
	}
	solvers := map[Part]Solver{Part1: pt1, Part2: pt2}
	out := r.stdout()
	for _, p := range parts {
		ans, err := Solve(p, solvers[p], input, opts.args)
		if err != nil {
			logger.Debug("part failed", zap.Stringer("part", p), zap.Error(err))
			return err
		}
		logger.Debug("part solved", zap.Stringer("part", p), zap.Duration("took", ans.Elapsed))
		if _, err := fmt.Fprintf(out, "%s\n%s\n", ans.Value, FormatRunningTime(ans.Elapsed)); err != nil {
			return &Error{Part: p, Op: "write", Err: err}
		}
	}
	return nil
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin == nil {
		return os.Stdin
	}
	return r.Stdin
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func (r *Runner) logger(debug bool) *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	if !debug {
		return zap.NewNop()
	}
	// stdout belongs to the protocol.
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(r.stderr()),
		zapcore.DebugLevel,
	)
	return zap.New(core).Named("fireplace")
}

func readInput(rd io.Reader) (string, error) {
	b, err := io.ReadAll(rd)
	if err != nil {
		return "", &Error{Op: "input", Err: err}
	}
	if !utf8.Valid(b) {
		return "", &Error{Op: "input", Err: ErrInvalidUTF8}
	}
	return strings.TrimRightFunc(string(b), isSpace), nil
}

// isSpace matches the characters Python's str.isspace accepts: the Unicode
// White_Space set plus the ASCII file, group, record and unit separators.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || ('\x1c' <= r && r <= '\x1f')
}

type options struct {
	part  Part
	args  []string
	debug bool
}

// splitExtraArgs cuts argv at the first -a/--args. Everything after it is an
// extra argument, including tokens that look like flags.
func splitExtraArgs(argv []string) (flags, extra []string) {
	for i, a := range argv {
		switch {
		case a == "-a" || a == "--args":
			return argv[:i], append([]string{}, argv[i+1:]...)
		case strings.HasPrefix(a, "--args="):
			return argv[:i], append([]string{strings.TrimPrefix(a, "--args=")}, argv[i+1:]...)
		}
	}
	return argv, nil
}

func parseArgs(argv []string) (options, error) {
	var o options
	flagArgs, extra := splitExtraArgs(argv)
	o.args = extra

	fs := pflag.NewFlagSet("fireplace", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	part := fs.StringP("part", "p", "", "run solution part 1 or part 2")
	fs.BoolVar(&o.debug, "debug", false, "log runner activity to stderr")
	fs.BoolP("args", "a", false, "additional arguments for running the solutions")
	if err := fs.Parse(flagArgs); err != nil {
		return o, &Error{Op: "args", Err: err}
	}
	if fs.NArg() > 0 {
		return o, &Error{Op: "args", Err: fmt.Errorf("unexpected arguments %q", fs.Args())}
	}
	if fs.Changed("part") {
		p, err := ParsePart(*part)
		if err != nil {
			return o, &Error{Op: "args", Err: err}
		}
		o.part = p
	}
	return o, nil
}
