package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/codex/packages/core/runner"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("codex"), version)
}

func (f *ConsoleFormatter) FormatPlan(combo string, plan []string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(f.writer, "combo %s resolves to:\n", cyan(combo))
	for _, name := range plan {
		fmt.Fprintf(f.writer, "  - %s\n", name)
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "\n")

	for _, tr := range result.Results {
		switch tr.Outcome {
		case runner.OutcomeSkipped:
			fmt.Fprintf(f.writer, "  %s %s (skipped)\n", yellow("-"), tr.Name)
		case runner.OutcomePassed:
			fmt.Fprintf(f.writer, "  %s %s %s\n", green("✓"), tr.Name, cyan(fmt.Sprintf("(%dms)", tr.Duration.Milliseconds())))
		case runner.OutcomeFailed:
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("✗"), tr.Name, cyan(fmt.Sprintf("(%dms)", tr.Duration.Milliseconds())))
			if tr.Err != nil {
				fmt.Fprintf(f.writer, "    %s %v\n", red("→"), tr.Err)
			} else {
				fmt.Fprintf(f.writer, "    %s exit code %d\n", red("→"), tr.ExitCode)
			}
		}

		if f.verbose && tr.Command != "" {
			fmt.Fprintf(f.writer, "    command: %s\n", tr.Command)
		}
	}

	executed := len(result.Results)
	planned := len(result.Plan)
	if planned > executed {
		fmt.Fprintf(f.writer, "\n  %s\n", red(fmt.Sprintf("%d tier(s) not run after critical failure", planned-executed)))
	}

	fmt.Fprintf(f.writer, "\nTiers: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.Passed)))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed)))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", result.Skipped)))
	}
	fmt.Fprintf(f.writer, "%d total\n", executed)
	fmt.Fprintf(f.writer, "Time:  %dms\n", result.Duration.Milliseconds())
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}
