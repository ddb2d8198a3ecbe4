package cmd

import (
	"fmt"

	"github.com/rustyeddy/chartcalc/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage chartcalc configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  chartcalc config init --file chartcalc.yaml
  chartcalc config validate --file chartcalc.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitFile     string
	configValidateFile string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitFile, "file", "f", "chartcalc.yaml", "config file to create (.yaml, .yml or .json)")
	configValidateCmd.Flags().StringVarP(&configValidateFile, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.Default().SaveToFile(configInitFile); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", configInitFile)
	fmt.Fprintf(cmd.OutOrStdout(), "  chartcalc indicators --config %s --bars <file>\n", configInitFile)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	c, err := config.LoadFromFile(configValidateFile)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidateFile)
	fmt.Fprintf(out, "  Timeframe:     %s\n", c.Timeframe)
	fmt.Fprintf(out, "  Bar mode:      %s\n", c.Synthetic.Mode)
	fmt.Fprintf(out, "  Preprocessing: %t\n", c.Preprocessing.Enabled)
	fmt.Fprintf(out, "  Decomposition: %s, season %d\n", c.Decomposition.Model, c.Decomposition.SeasonLength)
	fmt.Fprintf(out, "  Output:        %s\n", c.Output.Type)
	return nil
}
