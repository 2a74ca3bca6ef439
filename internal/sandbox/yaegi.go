package sandbox

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/krishnaji/testmozart/internal/logging"
)

// YaegiExecutor runs Go test suites in-process under the yaegi interpreter.
// No compilation step, no binaries, no filesystem or network access from the
// interpreted code: only whitelisted stdlib packages may be imported.
//
// Contract with the generated suite: the test code declares its checks and a
// `func RunTests() error` entry point that returns nil when every check
// passes and a descriptive error for the first failure.
type YaegiExecutor struct {
	config          Config
	allowedPackages map[string]bool
}

// NewYaegiExecutor creates a yaegi-based executor.
func NewYaegiExecutor(cfg Config) *YaegiExecutor {
	if cfg.TestTimeout <= 0 {
		cfg.TestTimeout = 2 * time.Minute
	}
	return &YaegiExecutor{
		config: cfg,
		allowedPackages: map[string]bool{
			"strings":       true,
			"strconv":       true,
			"fmt":           true,
			"errors":        true,
			"math":          true,
			"regexp":        true,
			"encoding/json": true,
			"time":          true,
			"sort":          true,
			"bytes":         true,

			// Blocked: os, os/exec, net, net/http, syscall, unsafe
		},
	}
}

// validateImports rejects code importing packages outside the whitelist.
// Imports are resolved with go/parser so aliased and dot imports cannot
// slip past; code whose import section does not parse is rejected outright.
func (e *YaegiExecutor) validateImports(code string) error {
	src := "package sandbox\n" + stripPackageClause(code)
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ImportsOnly)
	if err != nil {
		return fmt.Errorf("sandbox: cannot resolve imports: %w", err)
	}
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return fmt.Errorf("sandbox: malformed import %s", spec.Path.Value)
		}
		if !e.allowedPackages[path] {
			return fmt.Errorf("sandbox: import %q not allowed", path)
		}
	}
	return nil
}

// Execute evaluates the source and the test suite, then invokes RunTests.
// Interpreter-level failures (bad syntax, blocked imports) surface as
// RawResult exit code 2 so normalization yields a FAIL the debugger can act
// on instead of aborting the run.
func (e *YaegiExecutor) Execute(ctx context.Context, sourceCode, testCode string) (result RawResult, err error) {
	// The interpreter runs model-written code. A suite that violates the
	// RunTests contract must come back as a failing result, never as a
	// panic tearing down the run.
	defer func() {
		if r := recover(); r != nil {
			result = RawResult{ExitCode: 2, Stderr: fmt.Sprintf("sandbox panic: %v", r)}
			err = nil
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.config.TestTimeout)
	defer cancel()

	for _, code := range []string{sourceCode, testCode} {
		if err := e.validateImports(code); err != nil {
			return RawResult{ExitCode: 2, Stderr: err.Error()}, nil
		}
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return RawResult{}, fmt.Errorf("sandbox: load stdlib symbols: %w", err)
	}

	start := time.Now()
	logging.Sandbox("Running Go suite under yaegi")

	if _, err := i.EvalWithContext(ctx, stripPackageClause(sourceCode)); err != nil {
		return RawResult{ExitCode: 2, Stderr: fmt.Sprintf("source evaluation failed: %v", err)}, nil
	}
	if _, err := i.EvalWithContext(ctx, stripPackageClause(testCode)); err != nil {
		return RawResult{ExitCode: 2, Stderr: fmt.Sprintf("test evaluation failed: %v", err)}, nil
	}

	v, evalErr := i.EvalWithContext(ctx, "RunTests()")
	if evalErr != nil {
		return RawResult{ExitCode: 2, Stderr: fmt.Sprintf("RunTests failed: %v", evalErr)}, nil
	}

	logging.Sandbox("yaegi finished in %v", time.Since(start))

	if v.IsValid() {
		switch ret := v.Interface().(type) {
		case nil:
			// Nil error: all checks passed.
		case error:
			return RawResult{ExitCode: 1, Stdout: ret.Error()}, nil
		default:
			return RawResult{
				ExitCode: 2,
				Stderr:   fmt.Sprintf("RunTests returned %T, want error", ret),
			}, nil
		}
	}
	return RawResult{ExitCode: 0, Stdout: "all tests passed"}, nil
}

var packageClause = regexp.MustCompile(`(?m)^package\s+\w+\s*$`)

// stripPackageClause removes package declarations so snippets evaluate in the
// interpreter's single REPL scope.
func stripPackageClause(code string) string {
	return packageClause.ReplaceAllString(code, "")
}
