package protocol

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"tailscale.com/util/deephash"
)

// Executor runs invocations and remembers successful results, so running the
// same command on the same input, part and arguments twice only spawns the
// solution once. It is safe for concurrent use.
type Executor struct {
	Logger *zap.Logger

	mu    sync.Mutex
	cache map[deephash.Sum]Result
}

type cacheKey struct {
	Argv  []string
	Dir   string
	Input string
}

func (e *Executor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Exec is like the package-level Exec but memoised.
func (e *Executor) Exec(ctx context.Context, inv Invocation) (Result, error) {
	// Argv rather than Args: nil and empty args run different command lines.
	k := cacheKey{Argv: inv.Argv(), Dir: inv.Dir, Input: inv.Input}
	key := deephash.Hash(&k)
	log := e.logger().With(zap.Strings("argv", inv.Argv()), zap.Stringer("part", inv.Part))

	e.mu.Lock()
	res, ok := e.cache[key]
	e.mu.Unlock()
	if ok {
		log.Debug("reusing result")
		return res, nil
	}

	log.Debug("executing", zap.String("dir", inv.Dir), zap.Int("input_bytes", len(inv.Input)))
	res, err := Exec(ctx, inv)
	if err != nil {
		log.Debug("execution failed", zap.Error(err))
		return Result{}, err
	}
	log.Debug("executed", zap.Stringer("status", res.Status), zap.Int64("running_time", res.RunningTime))
	if res.Status != StatusOK {
		return res, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache == nil {
		e.cache = make(map[deephash.Sum]Result)
	}
	e.cache[key] = res
	return res, nil
}

// ExecFile is like the package-level ExecFile but memoised.
func (e *Executor) ExecFile(ctx context.Context, inv Invocation, path string) (Result, error) {
	input, ok, err := readInput(path)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Status: StatusInputMissing}, nil
	}
	inv.Input = input
	return e.Exec(ctx, inv)
}
