package pipeline

import (
	"context"
	"fmt"

	"github.com/krishnaji/testmozart/internal/llm"
	"github.com/krishnaji/testmozart/internal/logging"
)

// DebuggerStage inspects the latest test results. On PASS it signals loop
// termination and leaves the code untouched; otherwise it rewrites the suite
// to address the reported failures.
type DebuggerStage struct {
	client llm.Client
}

// NewDebuggerStage creates the debugger stage.
func NewDebuggerStage(client llm.Client) *DebuggerStage {
	return &DebuggerStage{client: client}
}

func (s *DebuggerStage) Name() string { return "DebuggerAndRefiner" }

func (s *DebuggerStage) Reads() []string {
	return []string{KeyStaticAnalysisReport, KeyGeneratedTestCode, KeyTestResults}
}

func (s *DebuggerStage) OutputKey() string { return KeyGeneratedTestCode }

func (s *DebuggerStage) Run(ctx context.Context, state *State) (Signal, error) {
	results := state.Results()
	if results.Passed() {
		// Re-commit the passing code unchanged; the turn still owns its
		// output key.
		state.Set(KeyGeneratedTestCode, state.TestCode())
		logging.Stage("%s: tests passed, signaling loop exit", s.Name())
		return SignalTerminate, nil
	}

	instruction := buildDebuggerInstruction(state)

	text, err := s.client.CompleteWithSystem(ctx, debuggerSystemPrompt, instruction)
	if err != nil {
		return SignalContinue, fmt.Errorf("debugging completion failed: %w", err)
	}

	code := stripCodeFences(text)
	if code == "" {
		return SignalContinue, fmt.Errorf("debugging produced empty code")
	}

	state.Set(KeyGeneratedTestCode, code)
	logging.Stage("%s: committed corrected code (%d chars)", s.Name(), len(code))
	return SignalContinue, nil
}
