package pipeline

import (
	"context"
	"fmt"

	"github.com/krishnaji/testmozart/internal/logging"
)

// LoopStatus records how a retry loop finished.
type LoopStatus string

const (
	// LoopRunning is the status while iterations are still in flight.
	LoopRunning LoopStatus = "RUNNING"
	// LoopTerminatedEarly means a body stage signaled success before the
	// iteration cap was reached.
	LoopTerminatedEarly LoopStatus = "TERMINATED_EARLY"
	// LoopTerminatedByLimit means the cap was exhausted without a
	// termination signal.
	LoopTerminatedByLimit LoopStatus = "TERMINATED_BY_LIMIT"
)

// DefaultMaxIterations caps the execute-and-refine cycle.
const DefaultMaxIterations = 3

// RetryLoop repeats a body of stages until one of them signals termination
// or the iteration cap is hit. The same shared state is threaded through
// every iteration, so refinements accumulate.
type RetryLoop struct {
	name          string
	body          []Stage
	maxIterations int
}

// NewRetryLoop builds a bounded retry loop. A non-positive maxIterations
// falls back to DefaultMaxIterations.
func NewRetryLoop(name string, maxIterations int, body ...Stage) *RetryLoop {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &RetryLoop{name: name, body: body, maxIterations: maxIterations}
}

func (l *RetryLoop) Name() string { return l.name }

// MaxIterations reports the configured cap.
func (l *RetryLoop) MaxIterations() int { return l.maxIterations }

// Run drives the loop. It returns the terminal status: early termination
// when a body stage signals it, limit termination when the cap runs out.
// A stage error aborts the loop immediately with status RUNNING preserved
// in the error path semantics (the caller sees the error, not a status).
func (l *RetryLoop) Run(ctx context.Context, state *State) (LoopStatus, error) {
	for iteration := 1; iteration <= l.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return LoopRunning, err
		}
		logging.Pipeline("%s: iteration %d/%d", l.name, iteration, l.maxIterations)

		for _, stage := range l.body {
			signal, err := stage.Run(ctx, state)
			if err != nil {
				return LoopRunning, fmt.Errorf("iteration %d, stage %s: %w", iteration, stage.Name(), err)
			}
			if signal == SignalTerminate {
				logging.Pipeline("%s: stage %s signaled termination on iteration %d", l.name, stage.Name(), iteration)
				return LoopTerminatedEarly, nil
			}
		}
	}

	logging.Pipeline("%s: iteration limit %d reached without success", l.name, l.maxIterations)
	return LoopTerminatedByLimit, nil
}
