package pipeline

import (
	"context"
	"fmt"
)

// mockClient satisfies llm.Client with per-test behavior.
type mockClient struct {
	completeFunc           func(ctx context.Context, prompt string) (string, error)
	completeWithSystemFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

func (m *mockClient) Complete(ctx context.Context, prompt string) (string, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, prompt)
	}
	return "", fmt.Errorf("mockClient.Complete not configured")
}

func (m *mockClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if m.completeWithSystemFunc != nil {
		return m.completeWithSystemFunc(ctx, systemPrompt, userPrompt)
	}
	return "", fmt.Errorf("mockClient.CompleteWithSystem not configured")
}

// stubStage is a scriptable pipeline stage for loop and sequencing tests.
type stubStage struct {
	name   string
	reads  []string
	output string
	runs   int
	runFn  func(ctx context.Context, state *State, run int) (Signal, error)
}

func (s *stubStage) Name() string      { return s.name }
func (s *stubStage) Reads() []string   { return s.reads }
func (s *stubStage) OutputKey() string { return s.output }

func (s *stubStage) Run(ctx context.Context, state *State) (Signal, error) {
	s.runs++
	if s.runFn != nil {
		return s.runFn(ctx, state, s.runs)
	}
	return SignalContinue, nil
}
