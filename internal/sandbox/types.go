// Package sandbox executes generated test code against source code in an
// isolated environment and normalizes the raw output into structured results.
// Python suites run under pytest in a throwaway venv; Go suites run in-process
// under the yaegi interpreter.
package sandbox

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupportedLanguage is returned for languages without an executor.
var ErrUnsupportedLanguage = errors.New("sandbox: unsupported language")

// Test run status values. NOT_RUN is the seeded default before the first
// runner turn.
const (
	StatusNotRun = "NOT_RUN"
	StatusPass   = "PASS"
	StatusFail   = "FAIL"
)

// RawResult is the opaque output of a sandboxed execution: exit code plus
// captured streams. Normalization into Result happens separately so the
// runner stage can chain the two tools the way the workflow requires.
type RawResult struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// Failure describes a single failing test.
type Failure struct {
	TestName     string `json:"test_name"`
	ErrorMessage string `json:"error_message"`
	Traceback    string `json:"traceback"`
}

// Result is the normalized test outcome written to shared state.
type Result struct {
	Status   string    `json:"status"`
	Summary  string    `json:"summary"`
	Failures []Failure `json:"failures"`
}

// NotRun returns the default result seeded before any execution.
func NotRun() Result {
	return Result{Status: StatusNotRun, Summary: "", Failures: []Failure{}}
}

// Passed reports whether the result carries a passing status.
func (r Result) Passed() bool {
	return r.Status == StatusPass
}

// Executor runs a generated test suite against source code and returns the
// raw execution output.
type Executor interface {
	Execute(ctx context.Context, sourceCode, testCode string) (RawResult, error)
}

// Config holds executor settings shared across languages.
type Config struct {
	// PythonBinary creates the venv for the pytest executor.
	PythonBinary string
	// TestTimeout bounds the whole sandbox run.
	TestTimeout time.Duration
	// SourceModule is the import name the source is shipped under inside the
	// sandbox.
	SourceModule string
	// KeepWorkdir preserves the temp directory for inspection.
	KeepWorkdir bool
}

// DefaultConfig returns sensible executor defaults.
func DefaultConfig() Config {
	return Config{
		PythonBinary: "python3",
		TestTimeout:  2 * time.Minute,
		SourceModule: "source_to_test",
		KeepWorkdir:  false,
	}
}

// ForLanguage returns the executor for a run request's language.
func ForLanguage(language string, cfg Config) (Executor, error) {
	switch language {
	case "python", "py":
		return NewPytestExecutor(cfg), nil
	case "go", "golang":
		return NewYaegiExecutor(cfg), nil
	default:
		return nil, ErrUnsupportedLanguage
	}
}
