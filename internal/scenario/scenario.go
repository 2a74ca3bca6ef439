// Package scenario defines structured test scenarios and the parser that
// recovers them from free-text model output.
package scenario

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoScenarios is returned when parsing recovers zero valid scenarios.
// Partial success is acceptable; total failure is not.
var ErrNoScenarios = errors.New("scenario: could not parse any valid scenarios")

// Scenario is a single abstract test intent: what is being tested and what
// should happen.
type Scenario struct {
	Description     string `json:"description"`
	ExpectedOutcome string `json:"expected_outcome"`
}

// Validate rejects scenarios missing either field. A candidate that fails
// validation is discarded by the parser, never defaulted.
func (s Scenario) Validate() error {
	if strings.TrimSpace(s.Description) == "" {
		return fmt.Errorf("scenario: empty description")
	}
	if strings.TrimSpace(s.ExpectedOutcome) == "" {
		return fmt.Errorf("scenario: empty expected outcome")
	}
	return nil
}
