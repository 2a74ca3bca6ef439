package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/krishnaji/testmozart/internal/analysis"
	"github.com/krishnaji/testmozart/internal/llm"
	"github.com/krishnaji/testmozart/internal/logging"
	"github.com/krishnaji/testmozart/internal/sandbox"
)

// Request is the structured form of a generation request. Raw source text is
// also accepted; see Initialize.
type Request struct {
	SourceCode string `json:"source_code"`
	Language   string `json:"language,omitempty"`
}

// RunReport is the outcome of a full orchestrated run.
type RunReport struct {
	RunID      string
	Status     string
	LoopStatus LoopStatus
	TestCode   string
	Results    sandbox.Result
	Markdown   string
}

// Config carries the orchestrator's tunables.
type Config struct {
	MaxIterations   int
	DefaultLanguage string
	Sandbox         sandbox.Config
	ShippedModule   string
}

// DefaultOrchestratorConfig returns production defaults.
func DefaultOrchestratorConfig() Config {
	return Config{
		MaxIterations:   DefaultMaxIterations,
		DefaultLanguage: "python",
		Sandbox:         sandbox.DefaultConfig(),
		ShippedModule:   "sample_code",
	}
}

// Orchestrator wires the full generation flow: initialization, the design
// pipeline, the bounded execute-and-refine loop, and the final report.
type Orchestrator struct {
	config   Config
	client   llm.Client
	analyzer *analysis.Analyzer
	reporter *Reporter
}

// NewOrchestrator builds an orchestrator. The caller owns the LLM client;
// Close releases only the resources the orchestrator created itself.
func NewOrchestrator(cfg Config, client llm.Client) *Orchestrator {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "python"
	}

	return &Orchestrator{
		config:   cfg,
		client:   client,
		analyzer: analysis.NewAnalyzer(),
		reporter: NewReporter(cfg.Sandbox.SourceModule, cfg.ShippedModule),
	}
}

// Close releases parser resources.
func (o *Orchestrator) Close() {
	if o.analyzer != nil {
		o.analyzer.Close()
	}
}

// Initialize seeds the state from raw user input. Input that decodes as a
// JSON object with a source_code field is treated as a structured request;
// anything else is taken verbatim as source code in the default language.
// Unusable input records an initialization error and the run continues
// degraded rather than aborting.
func (o *Orchestrator) Initialize(state *State, input string) {
	source := input
	language := o.config.DefaultLanguage

	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		// A decoded object carrying the source_code key is a structured
		// request even when the value is empty; the empty check below then
		// records the degradation. Malformed JSON falls through as raw
		// text: a Python dict literal or brace-heavy source must not be
		// rejected.
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &fields); err == nil {
			if _, ok := fields["source_code"]; ok {
				var req Request
				if err := json.Unmarshal([]byte(trimmed), &req); err == nil {
					source = req.SourceCode
					if req.Language != "" {
						language = req.Language
					}
				}
			}
		}
	}

	if strings.TrimSpace(source) == "" {
		state.Set(KeyInitializationError, "no usable source code in request")
		logging.Session("initialization degraded: empty source in request")
	}

	state.Set(KeySourceCode, source)
	state.Set(KeyLanguage, language)
	logging.Session("initialized run %s (language=%s, %d chars source)", state.RunID(), language, len(source))
}

// Run executes the complete flow over the given raw input and returns the
// final report. Stage errors outside the retry loop's FAIL-conversion
// boundary halt the run.
func (o *Orchestrator) Run(ctx context.Context, input string) (*RunReport, error) {
	state := NewState()
	o.Initialize(state, input)

	design := NewPipeline("TestCaseGenerationPipeline",
		NewAnalyzerStage(o.analyzer),
		NewDesignerStage(o.client),
		NewImplementerStage(o.client),
	)
	if err := design.Run(ctx, state); err != nil {
		return nil, fmt.Errorf("generation pipeline: %w", err)
	}

	loop := NewRetryLoop("ExecutionAndRefinementLoop", o.config.MaxIterations,
		NewRunnerStage(o.config.Sandbox),
		NewDebuggerStage(o.client),
	)
	status, err := loop.Run(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("refinement loop: %w", err)
	}

	report := &RunReport{
		RunID:      state.RunID(),
		Status:     state.Results().Status,
		LoopStatus: status,
		TestCode:   o.reporter.RewriteImports(state.TestCode()),
		Results:    state.Results(),
		Markdown:   o.reporter.Render(state),
	}
	logging.Session("run %s finished: tests=%s, loop=%s", report.RunID, report.Status, report.LoopStatus)
	return report, nil
}
