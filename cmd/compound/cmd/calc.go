package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/compound/controller"
	"github.com/rustyeddy/compound/format"
	"github.com/rustyeddy/compound/journal"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	labelStyle = lipgloss.NewStyle().Width(20)
	valueStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

type calcOptions struct {
	capital string
	profit  string
	trades  string
	link    string
	details bool
	csv     bool
	share   bool
}

func newCalcCmd(rc *RootConfig) *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the trajectory for one scenario",
		Long: `Compute how capital compounds across trades.

Values start from the configured defaults, are then restored from --url if
given, and finally overridden by --capital, --profit and --trades. Flag
values use the interactive limits (profit 0.1-10, trades 1-100); a share
link may carry wider values (profit up to 1000, trades up to 10000).
Rejected values are reported and ignored.

Examples:
  compound calc --capital 1000 --profit 10 --trades 3 --details
  compound calc --url "https://example.com/?capital=5000&profit=25&trades=400"
  compound calc --csv > trades.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, rc, opts)
		},
	}

	cmd.Flags().StringVar(&opts.capital, "capital", "", "starting capital, e.g. 100,000")
	cmd.Flags().StringVar(&opts.profit, "profit", "", "profit per trade in percent")
	cmd.Flags().StringVar(&opts.trades, "trades", "", "number of trades")
	cmd.Flags().StringVar(&opts.link, "url", "", "restore parameters from a share link")
	cmd.Flags().BoolVar(&opts.details, "details", false, "print the trade-details table")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "print the trade-details table as CSV only")
	cmd.Flags().BoolVar(&opts.share, "share", false, "print a share link for the scenario")
	return cmd
}

func runCalc(cmd *cobra.Command, rc *RootConfig, opts *calcOptions) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	ctl, err := controller.New(rc.Config.Defaults,
		controller.WithLogger(rc.Log),
		controller.WithClipboard(controller.WriterClipboard{W: out}),
	)
	if err != nil {
		return err
	}

	if opts.link != "" {
		if !ctl.RestoreLink(opts.link) {
			fmt.Fprintln(errOut, warnStyle.Render("share link carried no usable parameters, using defaults"))
		}
	}

	edits := []struct {
		flag string
		raw  string
		set  func(string) bool
	}{
		{"capital", opts.capital, ctl.SetCapital},
		{"profit", opts.profit, ctl.SetProfit},
		{"trades", opts.trades, ctl.SetTrades},
	}
	for _, e := range edits {
		if !cmd.Flags().Changed(e.flag) {
			continue
		}
		if !e.set(e.raw) {
			fmt.Fprintln(errOut, warnStyle.Render(fmt.Sprintf("ignored --%s=%q: not a valid value", e.flag, e.raw)))
		}
	}

	snap := ctl.Snapshot()
	if snap.Outcome.Overflowed() {
		fmt.Fprintln(errOut, warnStyle.Render("capital exceeds floating-point range; results are shown as +Inf"))
	}
	if opts.csv {
		j, err := journal.NewCSV(out)
		if err != nil {
			return err
		}
		return journal.Write(j, snap.Outcome.History)
	}

	printSummary(out, snap)
	if opts.details {
		fmt.Fprintln(out)
		fmt.Fprintln(out, titleStyle.Render("Trades Details"))
		if err := journal.Write(journal.NewTable(out), snap.Outcome.History); err != nil {
			return err
		}
	}
	ctl.MarkVisible()

	if opts.share {
		fmt.Fprintln(out)
		if _, err := ctl.Share(cmd.Context(), rc.Config.Server.BaseURL); err != nil {
			return err
		}
		fmt.Fprintln(errOut, controller.ShareToast)
	}
	return nil
}

func printSummary(w io.Writer, snap controller.Snapshot) {
	p, o := snap.Params, snap.Outcome
	row := func(label, value string) {
		fmt.Fprintln(w, labelStyle.Render(label)+valueStyle.Render(value))
	}

	fmt.Fprintln(w, titleStyle.Render("Trading Summary"))
	row("Starting Capital:", format.Dollars(p.StartingCapital))
	row("Profit Per Trade:", format.Percent(p.ProfitPerTrade, 1))
	row("Number of Trades:", fmt.Sprint(p.NumTrades))
	row("Final Capital:", format.Dollars(o.FinalCapital))
	row("Total Profit:", format.Dollars(o.TotalProfit))
	row("Total Return:", format.Percent(o.TotalReturnPercent, 2))
	row("Chart Range:", format.AxisTick(p.StartingCapital)+" to "+format.AxisTick(o.FinalCapital))
}
