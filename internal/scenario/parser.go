package scenario

import (
	"regexp"
	"strings"

	"github.com/krishnaji/testmozart/internal/logging"
)

// Parsing strategy: split the text into candidate blocks, then extract a
// (description, expected outcome) pair from each. Two block delimiters and
// two field formats are tolerated because model output drifts between them.
//
// The tagged "Description:"/"Expected Outcome:" format is authoritative; the
// legacy "SCENARIO:"/"EXPECTED:" format is consulted only when the primary
// finds nothing in a block.
var (
	// Secondary block split: enumerated "Scenario N:" markers, optionally
	// bulleted.
	enumeratedSplit = regexp.MustCompile(`(?i)\*?\s*Scenario \d+:`)

	// Primary field format. Description runs until the next label or the end
	// of the block.
	primaryDesc    = regexp.MustCompile(`(?is)description:\s*(.*?)(?:\n\s*-?\s*(?:inputs|expected outcome):|$)`)
	primaryOutcome = regexp.MustCompile(`(?is)expected outcome:\s*(.*)`)

	// Legacy field format.
	legacyDesc    = regexp.MustCompile(`(?is)scenario:\s*(.+?)\s*expected:`)
	legacyOutcome = regexp.MustCompile(`(?is)expected:\s*(.+)`)
)

// Parse converts a natural-language scenario listing into validated
// scenarios. Blocks that fail both field formats, or fail validation, are
// logged and skipped. Zero recovered scenarios is ErrNoScenarios.
func Parse(text string) ([]Scenario, error) {
	blocks := strings.Split(strings.TrimSpace(text), "---")
	if len(blocks) < 2 {
		// No separator lines; the model may have enumerated instead.
		blocks = enumeratedSplit.Split(text, -1)
	}

	var scenarios []Scenario
	for _, block := range blocks {
		if strings.TrimSpace(block) == "" {
			continue
		}

		s, ok := extract(block)
		if !ok {
			logging.Scenario("Skipping unparseable scenario block: %.80q", block)
			continue
		}
		if err := s.Validate(); err != nil {
			logging.Scenario("Skipping invalid scenario block: %v", err)
			continue
		}
		scenarios = append(scenarios, s)
	}

	if len(scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	logging.ScenarioDebug("Parsed %d scenarios from %d blocks", len(scenarios), len(blocks))
	return scenarios, nil
}

// extract pulls a scenario from one block, primary format first.
func extract(block string) (Scenario, bool) {
	if desc := primaryDesc.FindStringSubmatch(block); desc != nil {
		if outcome := primaryOutcome.FindStringSubmatch(block); outcome != nil {
			return Scenario{
				Description:     strings.TrimSpace(desc[1]),
				ExpectedOutcome: strings.TrimSpace(outcome[1]),
			}, true
		}
	}

	if desc := legacyDesc.FindStringSubmatch(block); desc != nil {
		if outcome := legacyOutcome.FindStringSubmatch(block); outcome != nil {
			return Scenario{
				Description:     strings.TrimSpace(desc[1]),
				ExpectedOutcome: strings.TrimSpace(outcome[1]),
			}, true
		}
	}

	return Scenario{}, false
}
