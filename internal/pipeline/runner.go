package pipeline

import (
	"context"

	"github.com/krishnaji/testmozart/internal/logging"
	"github.com/krishnaji/testmozart/internal/sandbox"
)

// RunnerStage executes the generated suite against the source in the
// sandbox, then normalizes the raw output. The committed value is exactly
// the normalized result, nothing more.
//
// Collaborator failures (no executor for the language, sandbox unreachable)
// are converted into FAIL-shaped results at this boundary instead of
// propagating, so the debugger and the final reporter can still act.
type RunnerStage struct {
	config sandbox.Config
}

// NewRunnerStage creates the runner stage.
func NewRunnerStage(cfg sandbox.Config) *RunnerStage {
	return &RunnerStage{config: cfg}
}

func (s *RunnerStage) Name() string { return "TestRunner" }

func (s *RunnerStage) Reads() []string {
	return []string{KeySourceCode, KeyGeneratedTestCode, KeyLanguage}
}

func (s *RunnerStage) OutputKey() string { return KeyTestResults }

func (s *RunnerStage) Run(ctx context.Context, state *State) (Signal, error) {
	executor, err := sandbox.ForLanguage(state.Language(), s.config)
	if err != nil {
		state.Set(KeyTestResults, failShaped("no executor for language: "+state.Language()))
		logging.Stage("%s: %v", s.Name(), err)
		return SignalContinue, nil
	}

	raw, err := executor.Execute(ctx, state.SourceCode(), state.TestCode())
	if err != nil {
		state.Set(KeyTestResults, failShaped("sandbox execution failed: "+err.Error()))
		logging.Stage("%s: execution error: %v", s.Name(), err)
		return SignalContinue, nil
	}

	result := sandbox.ParseResults(raw)
	state.Set(KeyTestResults, result)
	logging.Stage("%s: committed results status=%s failures=%d",
		s.Name(), result.Status, len(result.Failures))
	return SignalContinue, nil
}

// failShaped wraps a collaborator error as a FAIL result.
func failShaped(summary string) sandbox.Result {
	return sandbox.Result{
		Status:   sandbox.StatusFail,
		Summary:  summary,
		Failures: []sandbox.Failure{},
	}
}
