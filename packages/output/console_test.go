package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/codex/packages/core/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *runner.Result {
	return &runner.Result{
		RunID: "run-1",
		Combo: "standard",
		Plan:  []string{"unit", "integration", "stress"},
		Results: []*runner.TierResult{
			{Name: "unit", Outcome: runner.OutcomePassed, Duration: 120 * time.Millisecond, Command: "python3 -m pytest tests/unit"},
			{Name: "integration", Outcome: runner.OutcomeFailed, ExitCode: 1, Duration: 340 * time.Millisecond},
			{Name: "stress", Outcome: runner.OutcomeSkipped},
		},
		Passed:   1,
		Failed:   1,
		Skipped:  1,
		Duration: 460 * time.Millisecond,
	}
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatHeader("1.0")
	f.FormatResult(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "codex 1.0")
	assert.Contains(t, out, "✓ unit")
	assert.Contains(t, out, "✗ integration")
	assert.Contains(t, out, "exit code 1")
	assert.Contains(t, out, "- stress (skipped)")
	assert.Contains(t, out, "1 passed")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "1 skipped")
}

func TestConsoleFormatter_FormatPlan(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatPlan("standard", []string{"unit", "integration"})

	out := buf.String()
	assert.Contains(t, out, "combo standard resolves to:")
	assert.Contains(t, out, "  - unit")
	assert.Contains(t, out, "  - integration")
}

func TestConsoleFormatter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	f.FormatResult(sampleResult())

	assert.Contains(t, buf.String(), "command: python3 -m pytest tests/unit")
}

func TestConsoleFormatter_UnreachedTiers(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	result := sampleResult()
	result.Results = result.Results[:2] // critical stop before stress

	f.FormatResult(result)

	assert.Contains(t, buf.String(), "1 tier(s) not run after critical failure")
}

func TestConsoleFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatError(errors.New("missing config file at codex.yaml"))

	assert.Contains(t, buf.String(), "Error: missing config file at codex.yaml")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatHeader("1.0")
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(460*time.Millisecond))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "run-1", out.RunID)
	assert.Equal(t, "standard", out.Combo)
	assert.Equal(t, 3, out.Summary.Planned)
	assert.Equal(t, 1, out.Summary.Passed)
	assert.Equal(t, 1, out.Summary.Failed)
	assert.Equal(t, 1, out.Summary.Skipped)
	assert.False(t, out.Summary.Success)
	require.Len(t, out.Tiers, 3)
	assert.Equal(t, "passed", out.Tiers[0].Outcome)
	assert.Equal(t, "failed", out.Tiers[1].Outcome)
	assert.Equal(t, 1, out.Tiers[1].ExitCode)
	assert.Equal(t, "skipped", out.Tiers[2].Outcome)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(460*time.Millisecond))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))

	assert.Equal(t, "codex", suites.Name)
	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Skipped)
	require.Len(t, suites.TestSuites, 1)

	suite := suites.TestSuites[0]
	assert.Equal(t, "standard", suite.Name)
	require.Len(t, suite.TestCases, 3)
	assert.Nil(t, suite.TestCases[0].Failure)
	require.NotNil(t, suite.TestCases[1].Failure)
	assert.Equal(t, "exit code 1", suite.TestCases[1].Failure.Message)
	assert.NotNil(t, suite.TestCases[2].Skipped)
}
