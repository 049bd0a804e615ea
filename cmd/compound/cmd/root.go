package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/compound/config"
	"github.com/rustyeddy/compound/internal/logging"
)

// RootConfig holds the persistent flags and what they resolve to.
type RootConfig struct {
	ConfigPath string
	LogLevel   string

	Config *config.Config
	Log    *zap.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "compound",
		Short: "Compound growth calculator for a fixed profit per trade",
		Long: `Compound shows how a starting capital grows when every trade returns the
same percentage profit.

It provides:
  - A calculator printing the per-trade trajectory and summary
  - Shareable links that restore a scenario
  - An HTTP API serving trajectories, share links and CSV exports`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return rc.load()
	}

	cmd.AddCommand(
		newCalcCmd(rc),
		newServeCmd(rc),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

func (rc *RootConfig) load() error {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		loaded, err := config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	rc.Config = cfg
	rc.Log = logger
	return nil
}

// Execute runs the root command and reports errors on stderr.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}
