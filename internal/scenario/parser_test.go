package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacyFormat(t *testing.T) {
	input := "SCENARIO: adds two positives\nEXPECTED: returns their sum\n---\nSCENARIO: handles zero\nEXPECTED: returns the other operand"

	scenarios, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	assert.Equal(t, "adds two positives", scenarios[0].Description)
	assert.Equal(t, "returns their sum", scenarios[0].ExpectedOutcome)
	assert.Equal(t, "handles zero", scenarios[1].Description)
	assert.Equal(t, "returns the other operand", scenarios[1].ExpectedOutcome)
}

func TestParseTaggedFormat(t *testing.T) {
	input := `Description: divides evenly
Expected Outcome: returns the quotient
---
Description: divides by zero
Expected Outcome: raises ZeroDivisionError`

	scenarios, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "divides evenly", scenarios[0].Description)
	assert.Equal(t, "returns the quotient", scenarios[0].ExpectedOutcome)
	assert.Equal(t, "raises ZeroDivisionError", scenarios[1].ExpectedOutcome)
}

func TestParseEnumeratedSplit(t *testing.T) {
	// No --- separators; blocks marked with "Scenario N:" bullets instead.
	input := `* Scenario 1:
Description: sorts ascending
Expected Outcome: list is ordered
* Scenario 2:
Description: empty input
Expected Outcome: returns empty list`

	scenarios, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "sorts ascending", scenarios[0].Description)
	assert.Equal(t, "returns empty list", scenarios[1].ExpectedOutcome)
}

// The tagged format is authoritative; the legacy patterns are consulted only
// when the primary finds nothing in a block.
func TestParsePrimaryPrecedence(t *testing.T) {
	input := `Description: primary wins
Expected Outcome: primary outcome
SCENARIO: legacy noise
EXPECTED: legacy outcome`

	scenarios, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "primary wins", scenarios[0].Description)
}

func TestParseSkipsInvalidBlocks(t *testing.T) {
	input := `SCENARIO: valid case
EXPECTED: works
---
this block has no recognizable labels at all
---
SCENARIO: another valid case
EXPECTED: also works`

	scenarios, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
}

func TestParseNoValidScenarios(t *testing.T) {
	_, err := Parse("nothing to see here\n---\nstill nothing")
	assert.ErrorIs(t, err, ErrNoScenarios)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrNoScenarios)
}

func TestParseCaseInsensitive(t *testing.T) {
	input := "scenario: lowercase labels\nexpected: still parsed"
	scenarios, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "lowercase labels", scenarios[0].Description)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Scenario{Description: "d", ExpectedOutcome: "e"}.Validate())
	assert.Error(t, Scenario{Description: "", ExpectedOutcome: "e"}.Validate())
	assert.Error(t, Scenario{Description: "d", ExpectedOutcome: "  "}.Validate())
}
