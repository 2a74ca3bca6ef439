package pipeline

import (
	"context"
	"fmt"

	"github.com/krishnaji/testmozart/internal/analysis"
	"github.com/krishnaji/testmozart/internal/logging"
)

// AnalyzerStage invokes the structural-analysis tool on the source under
// test. The tool result is committed verbatim as the stage output; no model
// call runs afterwards, so the turn ends as soon as the tool returns.
type AnalyzerStage struct {
	analyzer *analysis.Analyzer
}

// NewAnalyzerStage creates the analyzer stage.
func NewAnalyzerStage(analyzer *analysis.Analyzer) *AnalyzerStage {
	return &AnalyzerStage{analyzer: analyzer}
}

func (s *AnalyzerStage) Name() string { return "CodeAnalyzer" }

func (s *AnalyzerStage) Reads() []string {
	return []string{KeySourceCode, KeyLanguage}
}

func (s *AnalyzerStage) OutputKey() string { return KeyStaticAnalysisReport }

func (s *AnalyzerStage) Run(ctx context.Context, state *State) (Signal, error) {
	report, err := s.analyzer.Analyze(ctx, state.SourceCode(), state.Language())
	if err != nil {
		return SignalContinue, fmt.Errorf("structural analysis failed: %w", err)
	}

	state.Set(KeyStaticAnalysisReport, report)
	logging.Stage("%s: committed report (%d classes, %d functions)",
		s.Name(), len(report.Classes), len(report.Functions))
	return SignalContinue, nil
}
