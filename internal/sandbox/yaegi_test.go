package sandbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goSource = `package sample

func Add(a, b int) int { return a + b }
`

const goPassingTests = `package sample

import "fmt"

func RunTests() error {
	if got := Add(2, 3); got != 5 {
		return fmt.Errorf("Add(2, 3): expected 5, got %d", got)
	}
	if got := Add(0, 0); got != 0 {
		return fmt.Errorf("Add(0, 0): expected 0, got %d", got)
	}
	return nil
}
`

const goFailingTests = `package sample

import "fmt"

func RunTests() error {
	if got := Add(2, 2); got != 5 {
		return fmt.Errorf("Add(2, 2): expected 5, got %d", got)
	}
	return nil
}
`

func TestYaegiExecutePass(t *testing.T) {
	e := NewYaegiExecutor(DefaultConfig())

	raw, err := e.Execute(context.Background(), goSource, goPassingTests)
	require.NoError(t, err)
	assert.Equal(t, 0, raw.ExitCode)

	result := ParseResults(raw)
	assert.Equal(t, StatusPass, result.Status)
}

func TestYaegiExecuteFail(t *testing.T) {
	e := NewYaegiExecutor(DefaultConfig())

	raw, err := e.Execute(context.Background(), goSource, goFailingTests)
	require.NoError(t, err)
	assert.Equal(t, 1, raw.ExitCode)
	assert.Contains(t, raw.Stdout, "expected 5, got 4")

	result := ParseResults(raw)
	assert.Equal(t, StatusFail, result.Status)
}

func TestYaegiRejectsBlockedImports(t *testing.T) {
	e := NewYaegiExecutor(DefaultConfig())

	evil := `package sample

import "os/exec"

func RunTests() error {
	_ = exec.Command("rm")
	return nil
}
`
	raw, err := e.Execute(context.Background(), goSource, evil)
	require.NoError(t, err)
	assert.Equal(t, 2, raw.ExitCode)
	assert.Contains(t, raw.Stderr, "not allowed")
}

func TestYaegiSyntaxErrorIsFailShaped(t *testing.T) {
	e := NewYaegiExecutor(DefaultConfig())

	raw, err := e.Execute(context.Background(), goSource, "func RunTests() error { this is not go }")
	require.NoError(t, err)
	assert.Equal(t, 2, raw.ExitCode)

	result := ParseResults(raw)
	assert.Equal(t, StatusFail, result.Status)
}

func TestYaegiNonErrorRunTestsIsFailShaped(t *testing.T) {
	e := NewYaegiExecutor(DefaultConfig())

	// A suite that violates the RunTests contract must come back as a
	// failing result, never crash the run.
	wrongSignature := `func RunTests() int { return 0 }`

	raw, err := e.Execute(context.Background(), goSource, wrongSignature)
	require.NoError(t, err)
	assert.Equal(t, 2, raw.ExitCode)
	assert.Contains(t, raw.Stderr, "want error")

	result := ParseResults(raw)
	assert.Equal(t, StatusFail, result.Status)
}

func TestYaegiRejectsAliasedBlockedImport(t *testing.T) {
	e := NewYaegiExecutor(DefaultConfig())

	evil := `package sample

import x "os"

func RunTests() error {
	_, _ = x.Getwd()
	return nil
}
`
	raw, err := e.Execute(context.Background(), goSource, evil)
	require.NoError(t, err)
	assert.Equal(t, 2, raw.ExitCode)
	assert.Contains(t, raw.Stderr, "not allowed")
}

func TestValidateImports(t *testing.T) {
	e := NewYaegiExecutor(DefaultConfig())

	assert.NoError(t, e.validateImports("import \"fmt\"\n"))
	assert.NoError(t, e.validateImports("import (\n\t\"fmt\"\n\t\"strings\"\n)\n"))
	assert.Error(t, e.validateImports("import \"net/http\"\n"))
	assert.Error(t, e.validateImports("import (\n\t\"fmt\"\n\t\"os\"\n)\n"))
	// Aliased and dot imports must not slip past the whitelist.
	assert.Error(t, e.validateImports("import x \"os\"\n"))
	assert.Error(t, e.validateImports("import (\n\tx \"os/exec\"\n)\n"))
	assert.Error(t, e.validateImports("import . \"os\"\n"))
	assert.NoError(t, e.validateImports("import f \"fmt\"\n"))
}
