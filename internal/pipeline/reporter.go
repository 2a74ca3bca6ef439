package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/krishnaji/testmozart/internal/logging"
	"github.com/krishnaji/testmozart/internal/sandbox"
)

// Reporter turns the final shared state into a human-readable summary.
// Generated suites import the sandbox module name; the reporter rewrites
// those imports to the shipped module name so the code drops into the
// user's project as-is.
type Reporter struct {
	sandboxModule string
	shippedModule string
}

// NewReporter builds a reporter with the given module rename mapping.
func NewReporter(sandboxModule, shippedModule string) *Reporter {
	return &Reporter{sandboxModule: sandboxModule, shippedModule: shippedModule}
}

// RewriteImports replaces every occurrence of the sandbox module name with
// the shipped module name. Plain textual replacement matches what the
// sandbox writes: the module name only ever appears in import statements.
func (r *Reporter) RewriteImports(code string) string {
	if r.sandboxModule == "" || r.sandboxModule == r.shippedModule {
		return code
	}
	return strings.ReplaceAll(code, r.sandboxModule, r.shippedModule)
}

// Render produces the final report. A passing run yields the test suite in
// a fenced code block with a success banner. Anything else also appends the
// last structured results as fenced JSON so the user can see what failed.
func (r *Reporter) Render(state *State) string {
	code := r.RewriteImports(state.TestCode())
	results := state.Results()
	language := state.Language()
	if language == "" {
		language = "python"
	}

	var b strings.Builder

	if initErr := state.InitializationError(); initErr != "" {
		fmt.Fprintf(&b, "> Initialization warning: %s\n\n", initErr)
	}

	if results.Passed() {
		b.WriteString("## All tests passed\n\n")
		b.WriteString("The generated suite passed against your code. Save it alongside your module:\n\n")
	} else {
		fmt.Fprintf(&b, "## Test generation finished with status %s\n\n", results.Status)
		b.WriteString("The suite below is the best attempt; review the results before using it.\n\n")
	}

	fmt.Fprintf(&b, "```%s\n%s\n```\n", language, strings.TrimRight(code, "\n"))

	if !results.Passed() {
		b.WriteString("\n### Last test results\n\n")
		fmt.Fprintf(&b, "```json\n%s\n```\n", marshalResults(results))
	}

	logging.Report("rendered final report (status=%s, %d chars code)", results.Status, len(code))
	return b.String()
}

func marshalResults(results sandbox.Result) string {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"status\": %q}", results.Status)
	}
	return string(data)
}
