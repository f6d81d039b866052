package data

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/internal/cli/shared"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/market"
)

func New(rc *shared.RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Candle data tools",
	}

	cmd.AddCommand(
		newFetchCmd(rc),
	)

	return cmd
}

func newFetchCmd(rc *shared.RootConfig) *cobra.Command {
	var (
		symbol   string
		period   string
		interval string
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download candles and write them to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return fmt.Errorf("--out is required")
			}

			cfg, err := rc.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("symbol") {
				cfg.Data.Symbol = symbol
			}
			if cmd.Flags().Changed("period") {
				cfg.Data.Period = period
			}
			if cmd.Flags().Changed("interval") {
				cfg.Data.Interval = interval
			}
			if cfg.Data.Source == "csv" {
				return fmt.Errorf("data fetch needs a download source, config has source=csv")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			src, closeSrc, err := shared.OpenSource(cfg)
			if err != nil {
				return err
			}
			defer closeSrc()

			req := cfg.Data.Request()
			candles, err := src.Candles(cmd.Context(), req)
			if err != nil {
				return err
			}
			stats := shared.ReportGaps(cfg, candles)
			if err := market.WriteCSVFile(outPath, candles); err != nil {
				return err
			}

			logger.Infof("wrote %d candles to %s", len(candles), outPath)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d candles (%d gaps) %s .. %s -> %s\n",
				req.Symbol, len(candles), stats.GapCount,
				candles[0].Time.Format("2006-01-02 15:04"),
				candles[len(candles)-1].Time.Format("2006-01-02 15:04"),
				outPath,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "SOL-USD", "Ticker or crypto pair")
	cmd.Flags().StringVar(&period, "period", "6mo", "Look-back period")
	cmd.Flags().StringVar(&interval, "interval", "1h", "Bar interval")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output CSV path")

	return cmd
}
