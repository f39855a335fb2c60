package protocol

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func executions(t *testing.T, log string) []string {
	t.Helper()
	b, err := os.ReadFile(log)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

func TestExecutorMemoises(t *testing.T) {
	log := filepath.Join(t.TempDir(), "runs.log")
	t.Setenv("FIREPLACE_HELPER_LOG", log)
	cmd := helperCommand(t, "ok")
	e := &Executor{Logger: zaptest.NewLogger(t)}
	ctx := context.Background()

	inv := Invocation{Command: cmd, Part: 1, Input: testInput}
	for range 3 {
		res, err := e.Exec(ctx, inv)
		require.NoError(t, err)
		assert.Equal(t, testInput, res.Answer)
	}
	assert.Len(t, executions(t, log), 1)

	// Any difference in the invocation is a new execution.
	for _, other := range []Invocation{
		{Command: cmd, Part: 2, Input: testInput},
		{Command: cmd, Part: 1, Input: "other"},
		{Command: cmd, Part: 1, Input: testInput, Args: []string{}},
	} {
		_, err := e.Exec(ctx, other)
		require.NoError(t, err)
	}
	assert.Len(t, executions(t, log), 4)
}

func TestExecutorDoesNotCacheFailures(t *testing.T) {
	log := filepath.Join(t.TempDir(), "runs.log")
	t.Setenv("FIREPLACE_HELPER_LOG", log)
	e := &Executor{}
	inv := Invocation{Command: helperCommand(t, "exit"), Part: 1}
	for range 2 {
		res, err := e.Exec(context.Background(), inv)
		require.NoError(t, err)
		assert.Equal(t, StatusProtocolError, res.Status)
	}
	assert.Len(t, executions(t, log), 2)
}

func TestExecutorConcurrent(t *testing.T) {
	e := &Executor{}
	cmd := helperCommand(t, "ok")
	var wg sync.WaitGroup
	answers := make([]string, 4)
	for i := range answers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Exec(context.Background(), Invocation{Command: cmd, Part: 1, Input: strings.Repeat("x", i+1)})
			if err == nil {
				answers[i] = res.Answer
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"x", "xx", "xxx", "xxxx"}, answers)
}

func TestExecutorExecFile(t *testing.T) {
	e := &Executor{}
	res, err := e.ExecFile(context.Background(), Invocation{Command: helperCommand(t, "ok"), Part: 2}, filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, StatusInputMissing, res.Status)
}
