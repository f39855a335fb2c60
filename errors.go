package fireplace

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPart = errors.New("part does not exist")
	ErrNoSolver    = errors.New("no solver for part")
	ErrNoAnswer    = errors.New("solver returned no answer")
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
	ErrPanic       = errors.New("solver panicked")

	errNilError = errors.New("solver returned a nil *fireplace.Error")
)

// Error is the only failure a runner reports. Op names the stage that failed:
// "args", "input", "dispatch", "solve" or "write". Part is zero for failures
// that happen before any part is dispatched.
type Error struct {
	Part Part
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Part != 0:
		return fmt.Sprintf("fireplace: %v %s: %v", e.Part, e.Op, e.Err)
	case e.Op == "solve":
		// Not yet attributed to a part; Solve adds the prefix.
		return fmt.Sprint(e.Err)
	}
	return fmt.Sprintf("fireplace: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf returns a solver failure. The runner fills in the part, also when
// the failure comes back wrapped in further context.
func Errorf(format string, args ...any) error {
	return &Error{Op: "solve", Err: fmt.Errorf(format, args...)}
}
