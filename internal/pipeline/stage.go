package pipeline

import (
	"context"
)

// Signal is the loop-control value a stage returns from a completed turn.
// The loop driver inspects it at iteration boundaries; outside a loop it is
// ignored.
type Signal int

const (
	// SignalContinue lets the enclosing driver proceed normally.
	SignalContinue Signal = iota
	// SignalTerminate asks the enclosing loop to stop iterating.
	SignalTerminate
)

// Stage is one unit of agent work. A stage reads its declared keys, performs
// its task (a model completion, a tool invocation, or both), and commits
// exactly one output key. A stage must not return successfully with its
// output key unset.
type Stage interface {
	// Name identifies the stage in logs and errors.
	Name() string
	// Reads lists the state keys this stage consumes.
	Reads() []string
	// OutputKey is the single state key this stage writes.
	OutputKey() string
	// Run performs the stage's turn against the current state.
	Run(ctx context.Context, state *State) (Signal, error)
}
