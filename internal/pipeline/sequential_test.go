package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineRunsStagesInOrder(t *testing.T) {
	var order []string
	makeStage := func(name string) *stubStage {
		return &stubStage{
			name: name,
			runFn: func(_ context.Context, _ *State, _ int) (Signal, error) {
				order = append(order, name)
				return SignalContinue, nil
			},
		}
	}

	p := NewPipeline("design", makeStage("a"), makeStage("b"), makeStage("c"))
	require.NoError(t, p.Run(context.Background(), NewState()))

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestPipelineLaterStagesSeeEarlierWrites(t *testing.T) {
	writer := &stubStage{
		name: "writer",
		runFn: func(_ context.Context, state *State, _ int) (Signal, error) {
			state.Set(KeyGeneratedTestCode, "written by first stage")
			return SignalContinue, nil
		},
	}

	var seen string
	reader := &stubStage{
		name: "reader",
		runFn: func(_ context.Context, state *State, _ int) (Signal, error) {
			seen = state.TestCode()
			return SignalContinue, nil
		},
	}

	p := NewPipeline("design", writer, reader)
	require.NoError(t, p.Run(context.Background(), NewState()))

	assert.Equal(t, "written by first stage", seen)
}

func TestPipelineStageErrorHaltsRun(t *testing.T) {
	boom := errors.New("completion failed")
	failing := &stubStage{
		name: "failing",
		runFn: func(_ context.Context, _ *State, _ int) (Signal, error) {
			return SignalContinue, boom
		},
	}
	after := &stubStage{name: "after"}

	p := NewPipeline("design", failing, after)
	err := p.Run(context.Background(), NewState())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.Equal(t, 0, after.runs)
}

func TestPipelineIgnoresTerminationSignals(t *testing.T) {
	terminating := &stubStage{
		name: "terminating",
		runFn: func(_ context.Context, _ *State, _ int) (Signal, error) {
			return SignalTerminate, nil
		},
	}
	after := &stubStage{name: "after"}

	p := NewPipeline("design", terminating, after)
	require.NoError(t, p.Run(context.Background(), NewState()))

	assert.Equal(t, 1, after.runs)
}
