package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/codex/packages/core/config"
	"github.com/abdul-hamid-achik/codex/packages/core/plan"
	"github.com/abdul-hamid-achik/codex/packages/core/runner"
	"github.com/abdul-hamid-achik/codex/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a combination of test tiers",
	Long: `Resolve a combination into a dependency-ordered plan and run
each tier as an external test-runner invocation.

Examples:
  codex run
  codex run --combo smoke
  codex run --combo nightly --config ci/codex.yaml
  codex run --dry-run
  codex run -o junit --output-file results.xml`,
	Args: cobra.NoArgs,
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	comboFlag      string
	configFlag     string
	verboseFlag    int
	noColorFlag    bool
	dryRunFlag     bool
	outputFlag     string
	outputFileFlag string
	timeoutFlag    string
	watchFlag      bool
)

func init() {
	runCmd.Flags().StringVar(&comboFlag, "combo", getEnvString("CODEX_COMBO", config.DefaultCombination), "Combination name to run (env: CODEX_COMBO)")
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("CODEX_CONFIG", config.DefaultConfigFile), "Path to codex.yaml (env: CODEX_CONFIG)")
	runCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("CODEX_NO_COLOR", false), "Disable colored output (env: CODEX_NO_COLOR)")
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Resolve and print the plan without running anything")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("CODEX_OUTPUT", "console"), "Output format: console, json, junit (env: CODEX_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("CODEX_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: CODEX_OUTPUT_FILE)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("CODEX_TIMEOUT", "0"), "Per-tier timeout, 0 to disable (e.g. 10m) (env: CODEX_TIMEOUT)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the config and test paths, re-run on change")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatHeader(version string)
	FormatResult(result *runner.Result)
	FormatError(err error)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// PlanFormatter interface for formatters that render the resolved plan
// before execution
type PlanFormatter interface {
	FormatPlan(combo string, plan []string)
}

func newFormatter(outWriter *os.File) Formatter {
	switch strings.ToLower(outputFlag) {
	case "json":
		opts := []output.JSONOption{}
		if outWriter != nil {
			opts = append(opts, output.JSONWithWriter(outWriter))
		}
		return output.NewJSONFormatter(opts...)
	case "junit":
		opts := []output.JUnitOption{}
		if outWriter != nil {
			opts = append(opts, output.JUnitWithWriter(outWriter))
		}
		return output.NewJUnitFormatter(opts...)
	default: // "console"
		consoleOpts := []output.ConsoleOption{
			output.WithVerbose(verboseFlag > 0),
			output.WithNoColor(noColorFlag),
		}
		if outWriter != nil {
			consoleOpts = append(consoleOpts, output.WithWriter(outWriter))
		}
		return output.NewConsoleFormatter(consoleOpts...)
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	var outWriter *os.File
	var err error
	if outputFileFlag != "" {
		outWriter, err = os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outWriter.Close()
	}

	formatter := newFormatter(outWriter)
	formatter.FormatHeader(version)

	timeout, err := time.ParseDuration(timeoutFlag)
	if err != nil {
		return fmt.Errorf("invalid timeout value %q: %w (use format like 10m, 30s)", timeoutFlag, err)
	}

	// Configuration and plan resolution failures are fatal before any
	// tier runs.
	cfg, planned, err := resolvePlan()
	if err != nil {
		formatter.FormatError(err)
		return err
	}

	if dryRunFlag {
		fmt.Fprintf(cmd.OutOrStdout(), "combo %q resolves to %d tier(s):\n", comboFlag, len(planned))
		for _, name := range planned {
			state := ""
			if !cfg.TestTiers[name].Enabled() {
				state = " (disabled)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s%s\n", name, state)
		}
		return nil
	}

	// An interrupt fails the in-flight tier and stops the run.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt, stopping...")
		cancel()
	}()

	r := runner.NewRunner(&runner.Config{
		Timeout: timeout,
		Verbose: verboseFlag > 0,
	})

	runOnce := func(cfg *config.Config, planned []string) (bool, error) {
		if pf, ok := formatter.(PlanFormatter); ok {
			pf.FormatPlan(comboFlag, planned)
		}

		start := time.Now()
		result, err := r.Run(ctx, comboFlag, planned, cfg)
		if err != nil {
			formatter.FormatError(err)
			return false, err
		}

		formatter.FormatResult(result)
		if flushable, ok := formatter.(Flushable); ok {
			if err := flushable.Flush(time.Since(start)); err != nil {
				return false, fmt.Errorf("error writing output: %w", err)
			}
		}
		return result.OK(), nil
	}

	ok, err := runOnce(cfg, planned)
	if err != nil {
		return err
	}

	if !watchFlag {
		if !ok {
			os.Exit(ExitFailure)
		}
		return nil
	}

	return watchAndRerun(ctx, cmd, cfg, func() error {
		// Re-create the output file per run so each re-run replaces
		// the previous report instead of appending after it.
		w := outWriter
		if outputFileFlag != "" {
			f, err := os.Create(outputFileFlag)
			if err != nil {
				fmt.Fprintf(os.Stderr, "cannot recreate output file: %v\n", err)
				return nil
			}
			defer f.Close()
			w = f
		}
		formatter = newFormatter(w)

		cfg, planned, err := resolvePlan()
		if err != nil {
			// Not every formatter renders errors; the error stream
			// always gets the diagnostic.
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return nil
		}
		_, _ = runOnce(cfg, planned)
		return nil
	})
}

// resolvePlan loads the config, validates it, and expands the
// requested combination into an execution plan.
func resolvePlan() (*config.Config, []string, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	requested, err := cfg.CombinationTiers(comboFlag)
	if err != nil {
		return nil, nil, err
	}

	planned, err := plan.Expand(requested, cfg.TestTiers)
	if err != nil {
		return nil, nil, err
	}

	return cfg, planned, nil
}

// watchAndRerun re-runs the combination whenever the config file or a
// watched discovery path changes.
func watchAndRerun(ctx context.Context, cmd *cobra.Command, cfg *config.Config, rerun func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	addDir := func(dir string) {
		if dir == "" || watchedDirs[dir] {
			return
		}
		if err := watcher.Add(dir); err == nil {
			watchedDirs[dir] = true
		}
	}

	addDir(filepath.Dir(configFlag))
	for _, tier := range cfg.TestTiers {
		for _, path := range tier.Discovery.Paths {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				_ = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if info.IsDir() {
						addDir(p)
					}
					return nil
				})
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running combo %q...\n\n", event.Name, comboFlag)
					_ = rerun()
					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
		}
	}
}
