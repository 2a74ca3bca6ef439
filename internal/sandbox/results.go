package sandbox

import (
	"strings"
)

// ParseResults normalizes raw sandbox output into a structured Result with a
// mandatory status. Exit code 0 means every test passed; 1 means tests ran
// and some failed; anything else is an execution-level error reported as a
// failure with whatever diagnostics the streams carry.
func ParseResults(raw RawResult) Result {
	if raw.ExitCode == 0 {
		return Result{
			Status:   StatusPass,
			Summary:  summaryLine(raw.Stdout, "all tests passed"),
			Failures: []Failure{},
		}
	}

	if raw.ExitCode != 1 {
		summary := "Test execution error (non-zero exit code)."
		if strings.TrimSpace(raw.Stdout) == "" && raw.Stderr != "" {
			summary = "Test execution error:\n" + raw.Stderr
		}
		return Result{Status: StatusFail, Summary: summary, Failures: []Failure{}}
	}

	result := Result{
		Status:   StatusFail,
		Summary:  summaryLine(raw.Stdout, "Test run complete."),
		Failures: parsePytestFailures(raw.Stdout),
	}

	// Non-pytest output (the Go executor reports the failing check on
	// stdout): keep the raw text as a single failure entry.
	if len(result.Failures) == 0 && strings.TrimSpace(raw.Stdout) != "" {
		result.Failures = append(result.Failures, Failure{
			TestName:     "test run",
			ErrorMessage: firstLine(raw.Stdout),
			Traceback:    strings.TrimSpace(raw.Stdout),
		})
	}

	return result
}

// summaryLine extracts the pytest summary ("1 failed, 2 passed in 0.03s")
// from the last line of output, falling back to a fixed string.
func summaryLine(stdout, fallback string) string {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) == 0 {
		return fallback
	}
	last := strings.Trim(lines[len(lines)-1], "= ")
	if strings.Contains(last, "failed") || strings.Contains(last, "passed") ||
		strings.Contains(last, "error") || strings.Contains(last, "no tests ran") {
		return last
	}
	return fallback
}

// parsePytestFailures extracts per-test failure sections. Pytest marks each
// failing test with an underscore-underlined header; the section body runs
// until the next header or the short summary block.
func parsePytestFailures(stdout string) []Failure {
	lines := strings.Split(stdout, "\n")

	type section struct {
		name  string
		start int
	}
	var sections []section

	for idx, line := range lines {
		if name, ok := failureHeader(line); ok {
			sections = append(sections, section{name: name, start: idx + 1})
			continue
		}
		if strings.Contains(line, "short test summary info") && len(sections) > 0 {
			// Terminates the last section; recorded via the loop below.
			sections = append(sections, section{name: "", start: idx})
			break
		}
	}

	var failures []Failure
	for i, sec := range sections {
		if sec.name == "" {
			continue
		}
		end := len(lines)
		if i+1 < len(sections) {
			end = sections[i+1].start - 1
			if sections[i+1].name == "" {
				end = sections[i+1].start
			}
		}
		body := strings.TrimSpace(strings.Join(lines[sec.start:end], "\n"))
		failures = append(failures, Failure{
			TestName:     sec.name,
			ErrorMessage: errorMessage(body),
			Traceback:    body,
		})
	}

	return failures
}

// failureHeader matches pytest's "_____ test_name _____" section header and
// returns the bare test function name.
func failureHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "_____") || !strings.HasSuffix(trimmed, "_____") {
		return "", false
	}
	name := strings.TrimSpace(strings.Trim(trimmed, "_"))
	if name == "" {
		return "", false
	}
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		name = name[idx+2:]
	}
	return name, true
}

// errorMessage pulls the assertion message from a traceback: the last line
// pytest prefixes with "E ", else the final line.
func errorMessage(traceback string) string {
	lines := strings.Split(traceback, "\n")
	msg := "No specific error message found."
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "E ") {
			msg = strings.TrimSpace(trimmed[2:])
		}
	}
	if msg == "No specific error message found." && len(lines) > 0 {
		if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
			msg = last
		}
	}
	return msg
}

func firstLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}
