// Package pipeline implements the test-generation workflow core: the
// run-scoped shared state store, the stage contract, the sequential pipeline,
// the bounded refinement loop, and the orchestrator that composes them.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/krishnaji/testmozart/internal/analysis"
	"github.com/krishnaji/testmozart/internal/sandbox"
	"github.com/krishnaji/testmozart/internal/scenario"
)

// Well-known shared state keys. Each key has exactly one producing stage;
// every key except the two initialization keys is seeded with a default so
// downstream readers never observe an absent key.
const (
	KeySourceCode           = "source_code"
	KeyLanguage             = "language"
	KeyStaticAnalysisReport = "static_analysis_report"
	KeyTestScenarios        = "test_scenarios"
	KeyGeneratedTestCode    = "generated_test_code"
	KeyTestResults          = "test_results"
	KeyInitializationError  = "initialization_error"
)

// State is the mutable key-value context threaded through every stage of one
// run. A state is owned by exactly one run and is never shared across runs;
// stages execute strictly one at a time, so no locking is needed.
type State struct {
	runID  string
	values map[string]interface{}
}

// NewState creates a fresh store with all non-initialization keys seeded to
// their documented defaults.
func NewState() *State {
	return &State{
		runID: uuid.New().String(),
		values: map[string]interface{}{
			KeyStaticAnalysisReport: analysis.Report{},
			KeyTestScenarios:        []scenario.Scenario{},
			KeyGeneratedTestCode:    "",
			KeyTestResults:          sandbox.NotRun(),
		},
	}
}

// RunID identifies this run in logs.
func (s *State) RunID() string {
	return s.runID
}

// Set commits a value under a well-known key.
func (s *State) Set(key string, value interface{}) {
	s.values[key] = value
}

// Get returns the raw value under a key, nil if unset.
func (s *State) Get(key string) interface{} {
	return s.values[key]
}

// Has reports whether a key has been set.
func (s *State) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// =============================================================================
// TYPED ACCESSORS
// =============================================================================

// SourceCode returns the code under test, empty until initialization.
func (s *State) SourceCode() string {
	v, _ := s.values[KeySourceCode].(string)
	return v
}

// Language returns the source language, empty until initialization.
func (s *State) Language() string {
	v, _ := s.values[KeyLanguage].(string)
	return v
}

// Report returns the static analysis report.
func (s *State) Report() analysis.Report {
	v, _ := s.values[KeyStaticAnalysisReport].(analysis.Report)
	return v
}

// Scenarios returns the designed test scenarios.
func (s *State) Scenarios() []scenario.Scenario {
	v, _ := s.values[KeyTestScenarios].([]scenario.Scenario)
	return v
}

// TestCode returns the current generated test suite.
func (s *State) TestCode() string {
	v, _ := s.values[KeyGeneratedTestCode].(string)
	return v
}

// Results returns the latest normalized test results.
func (s *State) Results() sandbox.Result {
	v, ok := s.values[KeyTestResults].(sandbox.Result)
	if !ok {
		return sandbox.NotRun()
	}
	return v
}

// InitializationError returns the recorded initialization failure, if any.
func (s *State) InitializationError() string {
	v, _ := s.values[KeyInitializationError].(string)
	return v
}
