package scenario

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonIdentChars = regexp.MustCompile(`[^a-z0-9\s_]`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// FunctionName converts a natural-language description into a valid test
// function name with the framework's discovery prefix.
func FunctionName(description string) string {
	s := strings.ToLower(description)
	s = nonIdentChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "_")
	if s == "" {
		s = "case"
	}
	if !strings.HasPrefix(s, "test_") {
		s = "test_" + s
	}
	return s
}

// Skeleton produces boilerplate test code for one scenario: imports-free
// function signature plus a docstring, with the body left for the model to
// fill in. Only pytest is supported.
func Skeleton(s Scenario, framework string) (string, error) {
	if !strings.EqualFold(framework, "pytest") {
		return "", fmt.Errorf("scenario: unsupported framework %q", framework)
	}

	name := FunctionName(s.Description)
	return fmt.Sprintf(`def %s():
    """
    Tests: %s
    Expected Outcome: %s
    """
    ...`, name, s.Description, s.ExpectedOutcome), nil
}
