package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/codex/packages/core/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new codex project",
	Long: `Initialize a new codex project in the current directory.

This creates codex.yaml with example tiers and combinations.

Examples:
  codex init
  codex init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.DefaultConfigFile)

	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile)
		}
	}

	configYAML, err := yaml.Marshal(config.StarterConfig())
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFile, configYAML, 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\ncodex project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'codex run --combo smoke' to execute the smoke combination.\n")

	return nil
}
