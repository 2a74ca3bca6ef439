package pipeline

import (
	"context"
	"fmt"

	"github.com/krishnaji/testmozart/internal/llm"
	"github.com/krishnaji/testmozart/internal/logging"
)

// ImplementerStage synthesizes a runnable test suite implementing every
// designed scenario.
type ImplementerStage struct {
	client llm.Client
}

// NewImplementerStage creates the implementer stage.
func NewImplementerStage(client llm.Client) *ImplementerStage {
	return &ImplementerStage{client: client}
}

func (s *ImplementerStage) Name() string { return "TestImplementer" }

func (s *ImplementerStage) Reads() []string {
	return []string{KeyTestScenarios, KeyLanguage}
}

func (s *ImplementerStage) OutputKey() string { return KeyGeneratedTestCode }

func (s *ImplementerStage) Run(ctx context.Context, state *State) (Signal, error) {
	instruction := buildImplementerInstruction(state)

	text, err := s.client.CompleteWithSystem(ctx, implementerSystemPrompt, instruction)
	if err != nil {
		return SignalContinue, fmt.Errorf("test implementation completion failed: %w", err)
	}

	code := stripCodeFences(text)
	if code == "" {
		return SignalContinue, fmt.Errorf("test implementation produced empty code")
	}

	state.Set(KeyGeneratedTestCode, code)
	logging.Stage("%s: committed %d chars of test code", s.Name(), len(code))
	return SignalContinue, nil
}
