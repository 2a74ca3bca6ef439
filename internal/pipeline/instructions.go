package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/krishnaji/testmozart/internal/scenario"
)

// Instruction builders are pure functions of the current state, evaluated
// immediately before each stage's model call. Keeping them side-effect-free
// makes the prompt wiring independently testable.

const designerSystemPrompt = `You are an expert Software Quality Assurance engineer. Your task is to design abstract test scenarios for a piece of source code based on its structural analysis report.

For every public function and method in the report, design scenarios covering the happy path, edge cases, and error conditions.

Format each scenario exactly as:
Description: <what is being tested>
Expected Outcome: <the expected result or behavior>

Separate scenarios with a line containing only '---'. Output nothing else.`

// buildDesignerInstruction embeds the analysis report for scenario design.
func buildDesignerInstruction(state *State) string {
	report, err := json.MarshalIndent(state.Report(), "", "  ")
	if err != nil {
		report = []byte("{}")
	}
	return fmt.Sprintf("You will receive the static analysis report as a JSON object:\n\n%s", report)
}

const implementerSystemPrompt = `You are an expert developer specializing in writing high-quality unit tests. Convert every abstract test scenario you are given into a complete, runnable test file.

Requirements:
- Implement every scenario as one test function with a real assertion.
- Include all imports the suite needs to run on its own.
- Your output MUST be only the test code. No explanations, no markdown fences.`

// buildImplementerInstruction embeds the scenarios and per-scenario
// skeletons, plus the language-specific import contract.
func buildImplementerInstruction(state *State) string {
	scenarios := state.Scenarios()
	scenariosJSON, err := json.MarshalIndent(scenarios, "", "  ")
	if err != nil {
		scenariosJSON = []byte("[]")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You will receive the test scenarios as a JSON array:\n\n%s\n", scenariosJSON)

	switch state.Language() {
	case "go", "golang":
		b.WriteString("\nWrite Go code. Declare each check inside a single `func RunTests() error` that returns nil when every check passes and a descriptive error for the first failure. Only stdlib imports are available.\n")
	default:
		b.WriteString("\nWrite pytest code. Import the code under test with `from source_to_test import ...`. Use these skeletons as the shape of each test function:\n")
		for _, s := range scenarios {
			if skel, err := scenario.Skeleton(s, "pytest"); err == nil {
				b.WriteString("\n" + skel + "\n")
			}
		}
	}

	return b.String()
}

const debuggerSystemPrompt = `You are an expert Senior Software Debugging Engineer. Your sole purpose is to analyze a failed test run and fix the generated test code.

You will receive the source structure report, the failing test code, and the structured test results. Meticulously analyze the failures: incorrect assertions, wrong arguments, flawed test logic, or missing imports.

CRITICAL INSTRUCTIONS:
- Your output MUST be only the complete, corrected test code.
- Ensure the corrected code includes every import it needs, including importing the code under test from 'source_to_test'.
- Do NOT include explanations, apologies, or markdown formatting.
- Preserve the parts of the test file that were correct; modify only what is necessary.`

// buildDebuggerInstruction embeds everything the debugger needs to rewrite
// the failing suite.
func buildDebuggerInstruction(state *State) string {
	report, err := json.MarshalIndent(state.Report(), "", "  ")
	if err != nil {
		report = []byte("{}")
	}
	results, err := json.MarshalIndent(state.Results(), "", "  ")
	if err != nil {
		results = []byte("{}")
	}

	return fmt.Sprintf(`Static analysis report of the code under test:

%s

The test code that failed:

%s

The structured test results:

%s`, report, state.TestCode(), results)
}

// stripCodeFences removes a wrapping markdown code fence if the model added
// one despite instructions.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	// Drop the opening fence (with optional language tag) and a closing fence.
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
