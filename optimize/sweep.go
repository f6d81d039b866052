// Package optimize runs the backtest across a parameter grid and ranks the
// outcomes.
package optimize

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/metrics"
	"github.com/rustyeddy/backtester/strategies"
)

// Row is the outcome of one grid point.
type Row struct {
	Combo
	metrics.Performance
}

// Options configure a sweep. A zero Strategy or Execution is replaced by
// strategies.DefaultParams or backtest.DefaultExecution.
type Options struct {
	Grid      Grid
	Strategy  strategies.StrategyParams // RSI window and other fixed fields
	Execution backtest.ExecutionParams  // cash, fee, slippage
	Workers   int                       // 0 uses GOMAXPROCS
}

// Sweep backtests every valid combination of opts.Grid over candles and
// returns one row per combination, ranked by Rank. Grid points are
// independent and run concurrently; candles are only read.
//
// An empty grid yields no rows and no error.
func Sweep(ctx context.Context, candles []market.Candle, opts Options) ([]Row, error) {
	combos := opts.Grid.Combos()
	rows := make([]Row, len(combos))
	if len(combos) == 0 {
		return rows, nil
	}

	if opts.Strategy == (strategies.StrategyParams{}) {
		opts.Strategy = strategies.DefaultParams()
	}
	if opts.Execution == (backtest.ExecutionParams{}) {
		opts.Execution = backtest.DefaultExecution()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger.Infof("sweep: %d combinations, %d workers", len(combos), workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range combos {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := evaluate(candles, c, opts)
			if err != nil {
				return fmt.Errorf("sweep %+v: %w", c, err)
			}
			rows[i] = row
			logger.Debugf("sweep: %+v return=%.2f%% dd=%.2f%% trades=%d",
				c, row.ReturnPct, row.MaxDrawdownPct, row.Trades)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	Rank(rows)
	return rows, nil
}

func evaluate(candles []market.Candle, c Combo, opts Options) (Row, error) {
	sp := c.Strategy(opts.Strategy)
	ep := c.Execution(opts.Execution)

	res, err := backtest.RunStrategy(candles, sp, ep)
	if err != nil {
		return Row{}, err
	}
	return Row{Combo: c, Performance: metrics.FromResult(res, ep.InitialCash)}, nil
}

// Rank sorts rows by return descending, then by max drawdown descending.
// Drawdowns are negative, so ties favour the shallower drawdown. Equal rows
// keep grid order.
func Rank(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ReturnPct != b.ReturnPct {
			return a.ReturnPct > b.ReturnPct
		}
		return a.MaxDrawdownPct > b.MaxDrawdownPct
	})
}

// Top returns at most n leading rows.
func Top(rows []Row, n int) []Row {
	if n < 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}
