package backtest

import (
	"fmt"

	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/strategies"
)

// RunStrategy generates SMA/RSI signals for candles and simulates them.
func RunStrategy(candles []market.Candle, sp strategies.StrategyParams, ep ExecutionParams) (Result, error) {
	return RunWith(strategies.NewSMACrossRSI(sp), candles, ep)
}

// RunWith simulates the signals produced by gen.
func RunWith(gen strategies.SignalGenerator, candles []market.Candle, ep ExecutionParams) (Result, error) {
	if gen == nil {
		return Result{}, fmt.Errorf("backtest: signal generator is required")
	}
	rows, err := gen.Signals(candles)
	if err != nil {
		return Result{}, fmt.Errorf("backtest: signals: %w", err)
	}
	return Run(rows, ep), nil
}
