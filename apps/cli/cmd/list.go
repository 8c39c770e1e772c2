package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/codex/packages/core/config"
	"github.com/spf13/cobra"
)

var listConfigFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tiers and combinations from the config",
	Long: `List the test tiers and combinations defined in codex.yaml.

Examples:
  codex list
  codex list --config ci/codex.yaml`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func init() {
	listCmd.Flags().StringVar(&listConfigFlag, "config", getEnvString("CODEX_CONFIG", config.DefaultConfigFile), "Path to codex.yaml (env: CODEX_CONFIG)")
}

func listCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(listConfigFlag)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nTiers:\n")
	for _, name := range cfg.TierNames() {
		tier := cfg.TestTiers[name]
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
		if len(tier.DependsOn) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "    depends_on: %s\n", strings.Join(tier.DependsOn, ", "))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "    paths: %s\n", strings.Join(tier.Discovery.Paths, ", "))
		if len(tier.Discovery.MarkersAny) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "    markers: %s\n", strings.Join(tier.Discovery.MarkersAny, ", "))
		}
		if tier.Critical {
			fmt.Fprintf(cmd.OutOrStdout(), "    critical: true\n")
		}
		if !tier.Enabled() {
			fmt.Fprintf(cmd.OutOrStdout(), "    default_enabled: false\n")
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nCombinations:\n")
	for _, name := range cfg.CombinationNames() {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s: %s\n", name, strings.Join(cfg.Combinations[name].Tiers, ", "))
	}

	return nil
}
