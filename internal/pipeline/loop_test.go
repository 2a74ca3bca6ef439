package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryLoopTerminatesAfterOneIterationOnImmediatePass(t *testing.T) {
	runner := &stubStage{name: "runner"}
	debugger := &stubStage{
		name: "debugger",
		runFn: func(_ context.Context, _ *State, _ int) (Signal, error) {
			return SignalTerminate, nil
		},
	}

	loop := NewRetryLoop("loop", 3, runner, debugger)
	status, err := loop.Run(context.Background(), NewState())

	require.NoError(t, err)
	assert.Equal(t, LoopTerminatedEarly, status)
	assert.Equal(t, 1, runner.runs)
	assert.Equal(t, 1, debugger.runs)
}

func TestRetryLoopRunsExactlyThreeIterationsWhenNeverPassing(t *testing.T) {
	runner := &stubStage{name: "runner"}
	debugger := &stubStage{name: "debugger"}

	loop := NewRetryLoop("loop", 3, runner, debugger)
	status, err := loop.Run(context.Background(), NewState())

	require.NoError(t, err)
	assert.Equal(t, LoopTerminatedByLimit, status)
	assert.Equal(t, 3, runner.runs, "runner must run exactly 3 times, never 4")
	assert.Equal(t, 3, debugger.runs)
}

func TestRetryLoopTerminatesMidIterationSkippingLaterStages(t *testing.T) {
	first := &stubStage{
		name: "first",
		runFn: func(_ context.Context, _ *State, _ int) (Signal, error) {
			return SignalTerminate, nil
		},
	}
	second := &stubStage{name: "second"}

	loop := NewRetryLoop("loop", 3, first, second)
	status, err := loop.Run(context.Background(), NewState())

	require.NoError(t, err)
	assert.Equal(t, LoopTerminatedEarly, status)
	assert.Equal(t, 0, second.runs)
}

func TestRetryLoopPassOnSecondIteration(t *testing.T) {
	runner := &stubStage{name: "runner"}
	debugger := &stubStage{
		name: "debugger",
		runFn: func(_ context.Context, _ *State, run int) (Signal, error) {
			if run == 2 {
				return SignalTerminate, nil
			}
			return SignalContinue, nil
		},
	}

	loop := NewRetryLoop("loop", 3, runner, debugger)
	status, err := loop.Run(context.Background(), NewState())

	require.NoError(t, err)
	assert.Equal(t, LoopTerminatedEarly, status)
	assert.Equal(t, 2, runner.runs)
}

func TestRetryLoopStageErrorAborts(t *testing.T) {
	boom := errors.New("sandbox on fire")
	runner := &stubStage{
		name: "runner",
		runFn: func(_ context.Context, _ *State, _ int) (Signal, error) {
			return SignalContinue, boom
		},
	}

	loop := NewRetryLoop("loop", 3, runner)
	_, err := loop.Run(context.Background(), NewState())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, runner.runs)
}

func TestRetryLoopDefaultsIterationCap(t *testing.T) {
	loop := NewRetryLoop("loop", 0, &stubStage{name: "noop"})
	assert.Equal(t, DefaultMaxIterations, loop.MaxIterations())
}

func TestRetryLoopHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &stubStage{name: "runner"}
	loop := NewRetryLoop("loop", 3, runner)
	_, err := loop.Run(ctx, NewState())

	require.Error(t, err)
	assert.Equal(t, 0, runner.runs)
}
