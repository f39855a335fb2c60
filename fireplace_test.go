package fireplace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testInput    = "Any input"
	pt2Solution  = 2
	twoLineInput = "Two lines\ninput"
)

func echoPt1(input string, args []string) (any, error) {
	if args != nil {
		return strings.Join(args, " "), nil
	}
	return strings.TrimSpace(input), nil
}

func constPt2(string, []string) (any, error) {
	return pt2Solution, nil
}

func run(t *testing.T, input string, argv ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	r := &Runner{
		Stdin:  strings.NewReader(input),
		Stdout: &stdout,
		Stderr: &stderr,
	}
	err := r.Run(argv, echoPt1, constPt2)
	return stdout.String(), err
}

func TestRunPrintsAnswerThenRunningTime(t *testing.T) {
	out, err := run(t, testInput, "--part", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, testInput, lines[0])

	rt, unit, err := ParseRunningTime(lines[1])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rt, int64(0))
	assert.Equal(t, Nano, unit)
}

func TestRunMultiLineAnswer(t *testing.T) {
	out, err := run(t, twoLineInput, "-p", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(out, twoLineInput+"\n"))
}

func TestRunParts(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		want  []string
		input string
	}{
		{name: "part two", argv: []string{"--part", "2"}, want: []string{"2"}, input: testInput},
		{name: "shorthand", argv: []string{"-p", "2"}, want: []string{"2"}, input: testInput},
		{name: "equals", argv: []string{"--part=2"}, want: []string{"2"}, input: testInput},
		{name: "both parts", argv: nil, want: []string{testInput, "2"}, input: testInput},
		{name: "args", argv: []string{"-p", "1", "--args", "a", "b", "c"}, want: []string{"a b c"}, input: testInput},
		{name: "args shorthand", argv: []string{"-p", "1", "-a", "x"}, want: []string{"x"}, input: testInput},
		{name: "args look like flags", argv: []string{"-p", "1", "-a", "-5", "--part"}, want: []string{"-5 --part"}, input: testInput},
		{name: "args before part", argv: []string{"--args", "z"}, want: []string{"z", "2"}, input: testInput},
		{name: "empty args", argv: []string{"-p", "1", "--args"}, want: []string{""}, input: testInput},
		{name: "trailing whitespace trimmed", argv: []string{"-p", "1"}, want: []string{"abc"}, input: "abc \n\n\t"},
		{name: "empty input", argv: []string{"-p", "2"}, want: []string{"2"}, input: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.input, tt.argv...)
			require.NoError(t, err)
			var got []string
			for i, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
				if i%2 == 0 {
					got = append(got, line)
				} else if !strings.HasPrefix(line, "RT ") {
					t.Fatalf("line %d = %q, want running time", i, line)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want error
	}{
		{name: "part three", argv: []string{"--part", "3"}, want: ErrUnknownPart},
		{name: "part zero", argv: []string{"-p", "0"}, want: ErrUnknownPart},
		{name: "part word", argv: []string{"-p", "one"}, want: ErrUnknownPart},
		{name: "unknown flag", argv: []string{"--year", "2023"}},
		{name: "positional", argv: []string{"-p", "1", "stray"}},
		{name: "missing value", argv: []string{"--part"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, testInput, tt.argv...)
			var fe *Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "args", fe.Op)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			assert.Empty(t, out)
		})
	}
}

func TestRunInputErrors(t *testing.T) {
	var stdout bytes.Buffer
	r := &Runner{Stdin: strings.NewReader("\xff\xfe"), Stdout: &stdout}
	err := r.Run([]string{"-p", "1"}, echoPt1, constPt2)
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	r = &Runner{Stdin: iotest.ErrReader(errors.New("boom")), Stdout: &stdout}
	err = r.Run(nil, echoPt1, constPt2)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "input", fe.Op)
	assert.Empty(t, stdout.String())
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	calls := 0
	fail := func(string, []string) (any, error) {
		calls++
		return nil, Errorf("bad input line %d", 3)
	}
	second := func(string, []string) (any, error) {
		calls++
		return "unreachable", nil
	}
	var stdout bytes.Buffer
	r := &Runner{Stdin: strings.NewReader(""), Stdout: &stdout}
	err := r.Run(nil, fail, second)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, Part1, fe.Part)
	assert.Equal(t, "solve", fe.Op)
	assert.Equal(t, "fireplace: pt1 solve: bad input line 3", err.Error())
	assert.Equal(t, 1, calls)
	assert.Empty(t, stdout.String())
}

func TestRunReportsEarlierParts(t *testing.T) {
	fail := func(string, []string) (any, error) { return nil, errors.New("not implemented") }
	var stdout bytes.Buffer
	r := &Runner{Stdin: strings.NewReader(""), Stdout: &stdout}
	err := r.Run(nil, constPt2, fail)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(stdout.String(), "2\nRT "))
}

func TestRunDebugLogsToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	r := &Runner{Stdin: strings.NewReader(testInput), Stdout: &stdout, Stderr: &stderr}
	require.NoError(t, r.Run([]string{"--debug", "-p", "2"}, echoPt1, constPt2))
	assert.Contains(t, stderr.String(), "part solved")
	assert.True(t, strings.HasPrefix(stdout.String(), "2\nRT "))
}

type stringer struct{ x, y int }

func (s stringer) String() string { return fmt.Sprintf("%d,%d", s.x, s.y) }

func TestSolve(t *testing.T) {
	tests := []struct {
		name    string
		fn      Solver
		want    string
		wantErr error
	}{
		{name: "int", fn: func(string, []string) (any, error) { return 25, nil }, want: "25"},
		{name: "string", fn: func(string, []string) (any, error) { return "December", nil }, want: "December"},
		{name: "stringer", fn: func(string, []string) (any, error) { return stringer{3, 4}, nil }, want: "3,4"},
		{name: "nil answer", fn: func(string, []string) (any, error) { return nil, nil }, wantErr: ErrNoAnswer},
		{name: "panic", fn: func(string, []string) (any, error) { panic("index out of range") }, wantErr: ErrPanic},
		{name: "no solver", fn: nil, wantErr: ErrNoSolver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Solve(Part2, tt.fn, "", nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var fe *Error
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, Part2, fe.Part)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, Part2, got.Part)
		})
	}
}

func TestSolveIsolatesArgs(t *testing.T) {
	args := []string{"a", "b"}
	mutate := func(_ string, args []string) (any, error) {
		args[0] = "mutated"
		return len(args), nil
	}
	for _, p := range Parts {
		_, err := Solve(p, mutate, testInput, args)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b"}, args)
}

func TestSolveConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := Parts[i%2]
			fn := map[Part]Solver{Part1: echoPt1, Part2: constPt2}[p]
			ans, err := Solve(p, fn, fmt.Sprint(i), nil)
			if err == nil && p == Part1 && ans.Value != fmt.Sprint(i) {
				err = fmt.Errorf("got %q, want %d", ans.Value, i)
			}
			errs[i] = err
		}()
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestParsePart(t *testing.T) {
	tests := []struct {
		in   string
		want Part
		ok   bool
	}{
		{"1", Part1, true},
		{" 2 ", Part2, true},
		{"3", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParsePart(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParsePart(%q) = %v, %v; want %v, ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
	}
}

func TestSolveWrappedError(t *testing.T) {
	wrapped := func(string, []string) (any, error) {
		return nil, fmt.Errorf("row 2: %w", Errorf("bad digit %q", 'x'))
	}
	_, err := Solve(Part1, wrapped, "", nil)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, Part1, fe.Part)
	assert.Equal(t, "fireplace: pt1 solve: row 2: bad digit 'x'", err.Error())

	typedNil := func(string, []string) (any, error) {
		var e *Error
		return nil, e
	}
	_, err = Solve(Part2, typedNil, "", nil)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, Part2, fe.Part)
	assert.NotErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "nil *fireplace.Error")
}

func TestRunTrimsTrailingWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abc \t\r\n\n", "abc"},
		{"abc\u00a0\u0085\u2003", "abc"},
		{"abc\x1c\x1d\x1e\x1f", "abc"},
		{"  abc", "  abc"},
		{"abc\u200b", "abc\u200b"},
	}
	for _, tt := range tests {
		var got string
		solve := func(input string, _ []string) (any, error) {
			got = input
			return 0, nil
		}
		r := &Runner{Stdin: strings.NewReader(tt.input), Stdout: io.Discard}
		if err := r.Run([]string{"-p", "1"}, solve, nil); err != nil {
			t.Fatalf("Run(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("input %q = %q, want %q", tt.input, got, tt.want)
		}
	}
}
