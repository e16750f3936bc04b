package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long:  "Print the configuration after defaults and environment overrides are applied. Secrets are masked.",
	RunE: func(cmd *cobra.Command, args []string) error {
		redacted := cfg.Redacted()
		out, err := yaml.Marshal(&redacted)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", cfg.ConfigPath)
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
