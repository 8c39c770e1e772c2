package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/codex/packages/core/config"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Outcome is the result of one tier execution.
type Outcome int

const (
	// OutcomePassed means the tier's invocation exited 0.
	OutcomePassed Outcome = iota
	// OutcomeFailed means the invocation exited nonzero or could not
	// be launched.
	OutcomeFailed
	// OutcomeSkipped means the tier was disabled and never invoked.
	// Skipped tiers count toward neither success nor failure.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	}
	return "unknown"
}

// TierResult is the outcome of one tier in the plan.
type TierResult struct {
	Name     string
	Outcome  Outcome
	ExitCode int
	Duration time.Duration
	Command  string
	Err      error
}

// Result aggregates the outcomes of one run.
type Result struct {
	RunID    string
	Combo    string
	Plan     []string
	Results  []*TierResult
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

// OK reports whether every executed tier passed. Skipped tiers and
// tiers never reached after a critical failure do not count against it.
func (r *Result) OK() bool {
	return r.Failed == 0
}

// Config controls tier execution.
type Config struct {
	// Timeout bounds each tier's invocation. Zero means no timeout.
	Timeout time.Duration
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

type Runner struct {
	config *Config
	exec   CommandRunner
}

type Option func(*Runner)

// WithCommandRunner substitutes the command execution backend.
func WithCommandRunner(cr CommandRunner) Option {
	return func(r *Runner) {
		r.exec = cr
	}
}

func NewRunner(cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	r := &Runner{
		config: cfg,
		exec:   ExecRunner{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the plan strictly sequentially. A failed tier marks the
// aggregate failed; a failed critical tier additionally stops the run,
// leaving the remaining tiers unexecuted. Context cancellation fails
// the in-flight tier and stops the run.
//
// Run returns an error only for plan names missing from the tier map,
// which cannot happen when the plan came from expansion against the
// same config.
func (r *Runner) Run(ctx context.Context, combo string, planned []string, cfg *config.Config) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID: uuid.NewString(),
		Combo: combo,
		Plan:  planned,
	}

	for _, name := range planned {
		tier, ok := cfg.TestTiers[name]
		if !ok {
			return nil, fmt.Errorf("tier %q is not defined in test_tiers", name)
		}

		tr := r.runTier(ctx, name, tier, cfg.Runner)
		result.Results = append(result.Results, tr)

		if tr.Outcome == OutcomeFailed && tier.Critical {
			fmt.Fprintf(r.config.Stderr, "critical tier %q failed, stopping\n", name)
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	for _, tr := range result.Results {
		switch tr.Outcome {
		case OutcomePassed:
			result.Passed++
		case OutcomeFailed:
			result.Failed++
		case OutcomeSkipped:
			result.Skipped++
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// runTier executes a single tier and returns its outcome. It has no
// effect on runner state; the aggregate is folded by Run.
func (r *Runner) runTier(ctx context.Context, name string, tier *config.Tier, settings config.RunnerSettings) *TierResult {
	tr := &TierResult{Name: name}

	if !tier.Enabled() {
		tr.Outcome = OutcomeSkipped
		fmt.Fprintf(r.config.Stdout, "skipping tier %q (default_enabled = false)\n", name)
		return tr
	}

	cmdName, args := BuildCommand(settings, tier)
	tr.Command = strings.Join(append([]string{cmdName}, args...), " ")

	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(r.config.Stdout, "\n%s\n", bold("=== Running tier: "+name+" ==="))
	if r.config.Verbose {
		fmt.Fprintf(r.config.Stdout, "command: %s\n", tr.Command)
	}

	runCtx := ctx
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	code, err := r.exec.Run(runCtx, &CommandSpec{
		Name:   cmdName,
		Args:   args,
		Env:    BuildEnv(os.Environ(), settings.SourceDir),
		Stdout: r.config.Stdout,
		Stderr: r.config.Stderr,
	})
	tr.Duration = time.Since(start)
	tr.ExitCode = code

	switch {
	case err != nil:
		tr.Err = err
		tr.Outcome = OutcomeFailed
	case code == 0:
		tr.Outcome = OutcomePassed
	default:
		tr.Outcome = OutcomeFailed
	}

	return tr
}
