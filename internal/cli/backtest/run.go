package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/metrics"
	"github.com/rustyeddy/backtester/pkg/id"
	"github.com/rustyeddy/backtester/plot"
	"github.com/rustyeddy/backtester/strategies"
)

// Single runs one backtest with cfg over candles and writes every output
// cfg.Output names. The returned Run carries the summary.
func Single(cfg *config.Config, candles []market.Candle) (journal.Run, backtest.Result, error) {
	rows, err := strategies.NewSMACrossRSI(cfg.Strategy).Signals(candles)
	if err != nil {
		return journal.Run{}, backtest.Result{}, err
	}
	res := backtest.Run(rows, cfg.Execution)

	run := journal.Run{
		RunID:     id.New(),
		Created:   time.Now().UTC(),
		Symbol:    cfg.Data.Symbol,
		Period:    cfg.Data.Period,
		Interval:  cfg.Data.Interval,
		Dataset:   dataset(cfg),
		Strategy:  cfg.Strategy,
		Execution: cfg.Execution,
		Perf:      metrics.FromResult(res, cfg.Execution.InitialCash),
		TradeLog:  len(res.Trades),
		OrgPath:   cfg.Output.Org,
		PlotPath:  cfg.Output.Plot,
	}
	if len(res.Equity) == 0 {
		run.PlotPath = ""
	}
	if n := len(candles); n > 0 {
		run.Start, run.End = candles[0].Time, candles[n-1].Time
	}
	logger.Debugf("run %s: %d trades, final value %.2f", run.RunID, run.Perf.Trades, run.Perf.FinalValue)

	if err := writeOutputs(cfg.Output, run, rows, res); err != nil {
		return run, res, err
	}
	return run, res, nil
}

func dataset(cfg *config.Config) string {
	if cfg.Data.Source == "csv" {
		return cfg.Data.CSV
	}
	return cfg.Data.Source
}

func writeOutputs(out config.OutputConfig, run journal.Run, rows []market.SignalCandle, res backtest.Result) error {
	if out.TradesCSV != "" || out.EquityCSV != "" {
		j, err := journal.NewCSV(out.TradesCSV, out.EquityCSV)
		if err != nil {
			return fmt.Errorf("csv export: %w", err)
		}
		if err := journal.Record(j, run, res); err != nil {
			_ = j.Close()
			return fmt.Errorf("csv export: %w", err)
		}
		if err := j.Close(); err != nil {
			return fmt.Errorf("csv export: %w", err)
		}
		logger.Infof("wrote trades=%q equity=%q", out.TradesCSV, out.EquityCSV)
	}

	switch {
	case run.PlotPath != "":
		err := plot.WriteFile(run.PlotPath, plot.Input{
			Title:  fmt.Sprintf("%s %s %s", run.Symbol, run.Interval, run.Strategy),
			Equity: res.Equity,
			Rows:   rows,
			Trades: res.Trades,
		})
		if err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		logger.Infof("wrote plot %s", run.PlotPath)
	case out.Plot != "":
		logger.Warnf("plot: nothing simulated, skipping %s", out.Plot)
	}

	if out.Org != "" {
		if err := journal.WriteOrg(run); err != nil {
			return fmt.Errorf("org report: %w", err)
		}
		logger.Infof("wrote org report %s", out.Org)
	}
	return nil
}
