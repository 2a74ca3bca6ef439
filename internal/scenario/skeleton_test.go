package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionName(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"Adds two positive integers", "test_adds_two_positive_integers"},
		{"Handles division by zero!", "test_handles_division_by_zero"},
		{"  Trims   whitespace  ", "test_trims_whitespace"},
		{"test_already_prefixed", "test_already_prefixed"},
		{"", "test_case"},
		{"!!!", "test_case"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FunctionName(tc.description), "description: %q", tc.description)
	}
}

func TestSkeletonPytest(t *testing.T) {
	s := Scenario{
		Description:     "Adds two positive integers",
		ExpectedOutcome: "The function returns their sum",
	}

	code, err := Skeleton(s, "pytest")
	require.NoError(t, err)

	assert.Contains(t, code, "def test_adds_two_positive_integers():")
	assert.Contains(t, code, "Tests: Adds two positive integers")
	assert.Contains(t, code, "Expected Outcome: The function returns their sum")
}

func TestSkeletonUnsupportedFramework(t *testing.T) {
	_, err := Skeleton(Scenario{Description: "x", ExpectedOutcome: "y"}, "unittest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unittest")
}
