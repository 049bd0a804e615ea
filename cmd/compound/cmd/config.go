package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/compound/config"
)

func newConfigCmd() *cobra.Command {
	var (
		output string
		file   string
	)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  compound config init -o compound.yaml
  compound config validate -f compound.yaml`,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintf(out, "\nEdit the file and run with:\n  compound serve --config %s\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "compound.yaml", "output config file path")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(file)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			d := cfg.Defaults
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", file)
			fmt.Fprintf(out, "  Defaults: capital=%s profit=%s%% trades=%d\n", d.CapitalString(), d.ProfitString(), d.NumTrades)
			fmt.Fprintf(out, "  Server: %s (%s)\n", cfg.Server.Addr, cfg.Server.BaseURL)
			fmt.Fprintf(out, "  Log level: %s\n", cfg.Log.Level)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&file, "file", "f", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("file")

	configCmd.AddCommand(initCmd, validateCmd)
	return configCmd
}
