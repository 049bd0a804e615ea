package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/compound/server"
)

func newServeCmd(rc *RootConfig) *cobra.Command {
	var addr, baseURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator HTTP API",
		Long: `Serve trajectories, share links and CSV exports over HTTP.

Endpoints:
  GET /api/compute?capital=&profit=&trades=
  GET /api/share?capital=&profit=&trades=
  GET /trades.csv?capital=&profit=&trades=
  GET /healthz
  GET /metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.Config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("base-url") {
				cfg.Server.BaseURL = baseURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			defer rc.Log.Sync() //nolint:errcheck

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(cfg.Server.Addr, cfg.Server.BaseURL, cfg.Defaults, rc.Log, reg)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "public base URL for share links (overrides config)")
	return cmd
}
