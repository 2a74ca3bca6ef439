package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/krishnaji/testmozart/internal/logging"
)

// PytestExecutor runs Python test suites with pytest inside a throwaway
// virtual environment in a temp directory. Nothing touches the caller's
// filesystem outside that directory.
type PytestExecutor struct {
	config Config
}

// NewPytestExecutor creates a pytest executor.
func NewPytestExecutor(cfg Config) *PytestExecutor {
	if cfg.PythonBinary == "" {
		cfg.PythonBinary = "python3"
	}
	if cfg.TestTimeout <= 0 {
		cfg.TestTimeout = 2 * time.Minute
	}
	if cfg.SourceModule == "" {
		cfg.SourceModule = "source_to_test"
	}
	return &PytestExecutor{config: cfg}
}

// Execute writes both code strings into a temp directory, provisions a venv
// with pytest, and runs the suite. A non-zero pytest exit code is not an
// error here; it is the expected shape of a failing run and is reported
// through RawResult.
func (e *PytestExecutor) Execute(ctx context.Context, sourceCode, testCode string) (RawResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.TestTimeout)
	defer cancel()

	workDir, err := os.MkdirTemp("", "testmozart-sandbox-")
	if err != nil {
		return RawResult{}, fmt.Errorf("sandbox: create workdir: %w", err)
	}
	if !e.config.KeepWorkdir {
		defer os.RemoveAll(workDir)
	} else {
		logging.Sandbox("Preserving sandbox workdir: %s", workDir)
	}

	sourcePath := filepath.Join(workDir, e.config.SourceModule+".py")
	testPath := filepath.Join(workDir, "test_generated.py")

	if err := os.WriteFile(sourcePath, []byte(sourceCode), 0644); err != nil {
		return RawResult{}, fmt.Errorf("sandbox: write source: %w", err)
	}
	if err := os.WriteFile(testPath, []byte(testCode), 0644); err != nil {
		return RawResult{}, fmt.Errorf("sandbox: write tests: %w", err)
	}

	venvDir := filepath.Join(workDir, "venv")
	if out, err := e.run(ctx, workDir, e.config.PythonBinary, "-m", "venv", venvDir); err != nil {
		return RawResult{}, fmt.Errorf("sandbox: create venv: %w\n%s", err, out)
	}

	binDir := "bin"
	if runtime.GOOS == "windows" {
		binDir = "Scripts"
	}
	pipExe := filepath.Join(venvDir, binDir, "pip")
	pytestExe := filepath.Join(venvDir, binDir, "pytest")

	if out, err := e.run(ctx, workDir, pipExe, "install", "pytest"); err != nil {
		return RawResult{}, fmt.Errorf("sandbox: install pytest: %w\n%s", err, out)
	}

	// Run from workDir so pytest resolves the source module import. A
	// failing suite exits non-zero; only spawn-level failures are errors.
	start := time.Now()
	logging.Sandbox("Running pytest in %s", workDir)

	cmd := exec.CommandContext(ctx, pytestExe, testPath)
	cmd.Dir = workDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	exitCode := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return RawResult{}, fmt.Errorf("sandbox: run pytest: %w", runErr)
		}
	}

	logging.Sandbox("pytest finished: exit=%d in %v", exitCode, time.Since(start))
	return RawResult{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// run executes a setup command, returning combined output for diagnostics.
func (e *PytestExecutor) run(ctx context.Context, dir, binary string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}
