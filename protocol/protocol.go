// Package protocol drives Fireplace v1 solutions from the host side: it runs
// a solution command with the puzzle input on stdin and checks that the
// output follows the protocol.
package protocol

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"github.com/elfscript/fireplace"
)

// Status is the outcome of one protocol execution.
type Status int

const (
	StatusOK Status = iota
	StatusInputMissing
	StatusProtocolError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInputMissing:
		return "input missing"
	case StatusProtocolError:
		return "protocol error"
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// Invocation describes one run of a solution for one part.
type Invocation struct {
	// Command is the solution command, e.g. ["go", "run", "."].
	Command []string
	// Dir is the working directory; empty means the current one.
	Dir  string
	Part fireplace.Part
	// Args are passed after --args. A nil slice omits --args entirely.
	Args  []string
	Input string
}

// Argv returns the full command line for the invocation.
func (inv Invocation) Argv() []string {
	argv := slices.Clone(inv.Command)
	argv = append(argv, "--part", strconv.Itoa(int(inv.Part)))
	if inv.Args != nil {
		argv = append(argv, "--args")
		argv = append(argv, inv.Args...)
	}
	return argv
}

// Result is what a solution reported. RunningTime and Unit are only set when
// HasRunningTime is true.
type Result struct {
	Status         Status
	Answer         string
	HasRunningTime bool
	RunningTime    int64
	Unit           fireplace.MetricPrefix
	// Stderr holds whatever the solution wrote to stderr.
	Stderr string
}

// Exec runs the solution described by inv. Protocol violations are reported
// through Result.Status; the error is reserved for failures to run the
// command at all, including cancellation of ctx.
func Exec(ctx context.Context, inv Invocation) (Result, error) {
	if len(inv.Command) == 0 {
		return Result{}, errors.New("protocol: empty command")
	}
	if !inv.Part.Valid() {
		return Result{}, fmt.Errorf("protocol: %w: %d", fireplace.ErrUnknownPart, inv.Part)
	}
	argv := inv.Argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Stdin = strings.NewReader(inv.Input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{Status: StatusProtocolError, Stderr: stderr.String()}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("protocol: running %q: %w", argv[0], err)
	}
	res := ParseOutput(stdout.String())
	res.Stderr = stderr.String()
	return res, nil
}

// ExecFile is Exec with the input read from path. A missing file yields
// StatusInputMissing.
func ExecFile(ctx context.Context, inv Invocation, path string) (Result, error) {
	input, ok, err := readInput(path)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Status: StatusInputMissing}, nil
	}
	inv.Input = input
	return Exec(ctx, inv)
}

// readInput reports ok=false without an error when path does not exist.
func readInput(path string) (string, bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// ParseOutput interprets the stdout of a solution that exited successfully.
// The output must end with a newline. When the last line is a running time
// line it is parsed and removed; everything before it is the answer.
func ParseOutput(stdout string) Result {
	body, ok := strings.CutSuffix(stdout, "\n")
	if !ok {
		return Result{Status: StatusProtocolError}
	}
	res := Result{Status: StatusOK, Answer: body}
	lines := strings.Split(body, "\n")
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "RT ") {
		return res
	}
	rt, unit, err := fireplace.ParseRunningTime(last)
	if err != nil {
		return Result{Status: StatusProtocolError}
	}
	res.Answer = strings.Join(lines[:len(lines)-1], "\n")
	res.HasRunningTime = true
	res.RunningTime = rt
	res.Unit = unit
	return res
}
