package backtest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/internal/cli/shared"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/optimize"
)

// flagValues mirror the config fields a user can override on the command
// line. They are only applied when the flag was actually given.
type flagValues struct {
	symbol   string
	period   string
	interval string
	csvPath  string

	short        int
	long         int
	rsiWindow    int
	rsiThreshold float64

	tp       float64
	sl       float64
	fee      float64
	slippage float64
	cash     float64

	optimize bool
	top      int
	workers  int

	tradesCSV string
	equityCSV string
	plot      string
	org       string

	showTrades bool
}

func New(rc *shared.RootConfig) *cobra.Command {
	def := config.Default()
	fv := flagValues{}

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Backtest the SMA crossover + RSI strategy, or sweep its parameters with --optimize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rc.Load()
			if err != nil {
				return err
			}
			fv.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			src, closeSrc, err := shared.OpenSource(cfg)
			if err != nil {
				return err
			}
			defer closeSrc()

			ctx := cmd.Context()
			req := cfg.Data.Request()
			logger.Infof("loading candles: %s source=%s", req, cfg.Data.Source)
			candles, err := src.Candles(ctx, req)
			if err != nil {
				return err
			}
			logger.Infof("loaded %d candles", len(candles))
			shared.ReportGaps(cfg, candles)

			out := cmd.OutOrStdout()
			if fv.optimize {
				rows, err := optimize.Sweep(ctx, candles, optimize.Options{
					Grid:      cfg.Sweep.Grid,
					Strategy:  cfg.Strategy,
					Execution: cfg.Execution,
					Workers:   cfg.Sweep.Workers,
				})
				if err != nil {
					return err
				}
				n := cfg.Sweep.Top
				if n <= 0 || n > len(rows) {
					n = len(rows)
				}
				fmt.Fprintf(out, "\nTop %d configs:\n", n)
				return journal.PrintSweep(out, rows, cfg.Sweep.Top)
			}

			run, res, err := Single(cfg, candles)
			if err != nil {
				return err
			}
			journal.PrintSummary(out, run)
			if fv.showTrades {
				fmt.Fprintln(out)
				return journal.PrintTrades(out, journal.TradeRecords(run.RunID, res))
			}
			return nil
		},
	}

	f := cmd.Flags()

	// data
	f.StringVar(&fv.symbol, "symbol", def.Data.Symbol, "Ticker or crypto pair, e.g. SOL-USD or AAPL")
	f.StringVar(&fv.period, "period", def.Data.Period, "Look-back period: <n>d, <n>wk, <n>mo, <n>y or ytd")
	f.StringVar(&fv.interval, "interval", def.Data.Interval, "Bar interval: <n>m, <n>h, <n>d, <n>wk")
	f.StringVar(&fv.csvPath, "csv", "", "Read candles from a CSV file instead of downloading")

	// strategy
	f.IntVar(&fv.short, "short", def.Strategy.ShortWindow, "Short SMA window")
	f.IntVar(&fv.long, "long", def.Strategy.LongWindow, "Long SMA window")
	f.IntVar(&fv.rsiWindow, "rsi-window", def.Strategy.RSIWindow, "RSI window")
	f.Float64Var(&fv.rsiThreshold, "rsi-threshold", def.Strategy.RSIThreshold, "Minimum RSI for an entry")

	// execution
	f.Float64Var(&fv.tp, "tp", def.Execution.TakeProfit, "Take-profit fraction (0.05 = 5%)")
	f.Float64Var(&fv.sl, "sl", def.Execution.StopLoss, "Stop-loss fraction (0.01 = 1%)")
	f.Float64Var(&fv.fee, "fee", def.Execution.FeeFrac, "Fee fraction per side")
	f.Float64Var(&fv.slippage, "slippage", def.Execution.SlippageFrac, "Slippage fraction per side")
	f.Float64Var(&fv.cash, "cash", def.Execution.InitialCash, "Starting cash")

	// sweep
	f.BoolVar(&fv.optimize, "optimize", false, "Run the parameter grid search instead of a single backtest")
	f.IntVar(&fv.top, "top", def.Sweep.Top, "Rows to print after a grid search")
	f.IntVar(&fv.workers, "workers", def.Sweep.Workers, "Concurrent backtests during a grid search (0 = GOMAXPROCS)")

	// outputs
	f.StringVar(&fv.tradesCSV, "trades-csv", "", "Write the trade log to this CSV file")
	f.StringVar(&fv.equityCSV, "equity-csv", "", "Write the equity curve to this CSV file")
	f.StringVar(&fv.plot, "plot", "", "Write an HTML equity/price chart to this file")
	f.StringVar(&fv.org, "org", "", "Write an Org-mode run report to this file")
	f.BoolVar(&fv.showTrades, "trades", false, "Print the trade log after the summary")

	return cmd
}

func (fv *flagValues) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("symbol") {
		cfg.Data.Symbol = fv.symbol
	}
	if changed("period") {
		cfg.Data.Period = fv.period
	}
	if changed("interval") {
		cfg.Data.Interval = fv.interval
	}
	if changed("csv") {
		cfg.Data.Source = "csv"
		cfg.Data.CSV = fv.csvPath
	}

	if changed("short") {
		cfg.Strategy.ShortWindow = fv.short
	}
	if changed("long") {
		cfg.Strategy.LongWindow = fv.long
	}
	if changed("rsi-window") {
		cfg.Strategy.RSIWindow = fv.rsiWindow
	}
	if changed("rsi-threshold") {
		cfg.Strategy.RSIThreshold = fv.rsiThreshold
	}

	if changed("tp") {
		cfg.Execution.TakeProfit = fv.tp
	}
	if changed("sl") {
		cfg.Execution.StopLoss = fv.sl
	}
	if changed("fee") {
		cfg.Execution.FeeFrac = fv.fee
	}
	if changed("slippage") {
		cfg.Execution.SlippageFrac = fv.slippage
	}
	if changed("cash") {
		cfg.Execution.InitialCash = fv.cash
	}

	if changed("top") {
		cfg.Sweep.Top = fv.top
	}
	if changed("workers") {
		cfg.Sweep.Workers = fv.workers
	}

	if changed("trades-csv") {
		cfg.Output.TradesCSV = fv.tradesCSV
	}
	if changed("equity-csv") {
		cfg.Output.EquityCSV = fv.equityCSV
	}
	if changed("plot") {
		cfg.Output.Plot = fv.plot
	}
	if changed("org") {
		cfg.Output.Org = fv.org
	}
}
