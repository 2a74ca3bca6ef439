package pipeline

import (
	"context"
	"fmt"

	"github.com/krishnaji/testmozart/internal/llm"
	"github.com/krishnaji/testmozart/internal/logging"
	"github.com/krishnaji/testmozart/internal/scenario"
)

// DesignerStage turns the static analysis report into structured test
// scenarios: one model completion, then the scenario parser. Zero recovered
// scenarios is a stage failure because the implementer cannot proceed on an
// empty list.
type DesignerStage struct {
	client llm.Client
}

// NewDesignerStage creates the designer stage.
func NewDesignerStage(client llm.Client) *DesignerStage {
	return &DesignerStage{client: client}
}

func (s *DesignerStage) Name() string { return "TestCaseDesigner" }

func (s *DesignerStage) Reads() []string {
	return []string{KeyStaticAnalysisReport}
}

func (s *DesignerStage) OutputKey() string { return KeyTestScenarios }

func (s *DesignerStage) Run(ctx context.Context, state *State) (Signal, error) {
	instruction := buildDesignerInstruction(state)

	text, err := s.client.CompleteWithSystem(ctx, designerSystemPrompt, instruction)
	if err != nil {
		return SignalContinue, fmt.Errorf("scenario design completion failed: %w", err)
	}

	scenarios, err := scenario.Parse(text)
	if err != nil {
		return SignalContinue, fmt.Errorf("scenario design produced no usable scenarios: %w", err)
	}

	state.Set(KeyTestScenarios, scenarios)
	logging.Stage("%s: committed %d scenarios", s.Name(), len(scenarios))
	return SignalContinue, nil
}
