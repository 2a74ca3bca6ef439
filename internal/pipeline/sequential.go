package pipeline

import (
	"context"
	"fmt"

	"github.com/krishnaji/testmozart/internal/logging"
)

// Pipeline runs an ordered list of stages exactly once over a shared state.
// Each stage sees every write committed by the stages before it. The first
// stage error halts the run; remaining stages do not execute.
type Pipeline struct {
	name   string
	stages []Stage
}

// NewPipeline assembles a sequential pipeline.
func NewPipeline(name string, stages ...Stage) *Pipeline {
	return &Pipeline{name: name, stages: stages}
}

func (p *Pipeline) Name() string { return p.name }

// Run executes the stages in order. Termination signals from individual
// stages are ignored here; only the retry loop interprets them.
func (p *Pipeline) Run(ctx context.Context, state *State) error {
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		logging.Pipeline("%s: running stage %s", p.name, stage.Name())
		if _, err := stage.Run(ctx, state); err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
	}
	return nil
}
