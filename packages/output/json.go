package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/codex/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID    string      `json:"runId"`
	Combo    string      `json:"combo"`
	Summary  JSONSummary `json:"summary"`
	Tiers    []JSONTier  `json:"tiers"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Planned int  `json:"planned"`
	Passed  int  `json:"passed"`
	Failed  int  `json:"failed"`
	Skipped int  `json:"skipped"`
	Success bool `json:"success"`
}

// JSONTier represents a single tier result
type JSONTier struct {
	Name     string  `json:"name"`
	Outcome  string  `json:"outcome"`
	ExitCode int     `json:"exitCode"`
	Duration float64 `json:"duration"`
	Command  string  `json:"command,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// JSONFormatter formats run results as JSON
type JSONFormatter struct {
	writer io.Writer
	output JSONOutput
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

func (f *JSONFormatter) FormatResult(result *runner.Result) {
	f.output.RunID = result.RunID
	f.output.Combo = result.Combo
	f.output.Summary = JSONSummary{
		Planned: len(result.Plan),
		Passed:  result.Passed,
		Failed:  result.Failed,
		Skipped: result.Skipped,
		Success: result.OK(),
	}

	for _, tr := range result.Results {
		tier := JSONTier{
			Name:     tr.Name,
			Outcome:  tr.Outcome.String(),
			ExitCode: tr.ExitCode,
			Duration: float64(tr.Duration.Milliseconds()),
			Command:  tr.Command,
		}
		if tr.Err != nil {
			tier.Error = tr.Err.Error()
		}
		f.output.Tiers = append(f.output.Tiers, tier)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual tier results
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	f.output.Duration = float64(totalDuration.Milliseconds())
	f.output.Time = time.Now().Format(time.RFC3339)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.output)
}
