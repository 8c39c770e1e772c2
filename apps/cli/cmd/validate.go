package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/codex/packages/core/config"
	"github.com/abdul-hamid-achik/codex/packages/core/plan"
	"github.com/spf13/cobra"
)

var validateConfigFlag string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the config without running anything",
	Long: `Validate codex.yaml against the config schema, check that every
referenced tier is defined, and check every combination for dependency
cycles.

Examples:
  codex validate
  codex validate --config ci/codex.yaml`,
	Args: cobra.NoArgs,
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigFlag, "config", getEnvString("CODEX_CONFIG", config.DefaultConfigFile), "Path to codex.yaml (env: CODEX_CONFIG)")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	if err := config.ValidateFile(validateConfigFlag); err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", validateConfigFlag, err)
		return fmt.Errorf("validation failed")
	}

	cfg, err := config.Load(validateConfigFlag)
	if err != nil {
		return err
	}

	hasErrors := false
	for _, name := range cfg.CombinationNames() {
		if _, err := plan.Expand(cfg.Combinations[name].Tiers, cfg.TestTiers); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in combination %q: %v\n", name, err)
			hasErrors = true
		}
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", validateConfigFlag)
	return nil
}
