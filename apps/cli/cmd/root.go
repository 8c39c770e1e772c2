package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "codex",
	Short: "Tier-based test orchestration.",
	Long: `codex reads a codex.yaml describing named test tiers and
combinations, resolves a combination into a dependency-ordered plan,
and runs each tier as an external test-runner invocation.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitFailure)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
