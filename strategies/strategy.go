package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/market"
)

// StrategyParams governs signal generation only; execution is configured
// separately in backtest.ExecutionParams.
type StrategyParams struct {
	ShortWindow  int     `json:"short_window" yaml:"short_window"`
	LongWindow   int     `json:"long_window" yaml:"long_window"`
	RSIWindow    int     `json:"rsi_window" yaml:"rsi_window"`
	RSIThreshold float64 `json:"rsi_threshold" yaml:"rsi_threshold"`
}

// DefaultParams returns the SMA(10/40) + RSI(14) > 67 configuration.
func DefaultParams() StrategyParams {
	return StrategyParams{
		ShortWindow:  10,
		LongWindow:   40,
		RSIWindow:    14,
		RSIThreshold: 67,
	}
}

func (p StrategyParams) String() string {
	return fmt.Sprintf("SMA(%d/%d) RSI(%d)>%g", p.ShortWindow, p.LongWindow, p.RSIWindow, p.RSIThreshold)
}

// Validate rejects parameters that cannot produce a meaningful crossover.
func (p StrategyParams) Validate() error {
	if p.ShortWindow <= 0 || p.LongWindow <= 0 || p.RSIWindow <= 0 {
		return fmt.Errorf("windows must be positive (got short=%d long=%d rsi=%d)",
			p.ShortWindow, p.LongWindow, p.RSIWindow)
	}
	if p.ShortWindow >= p.LongWindow {
		return fmt.Errorf("require 0 < short < long (got %d/%d)", p.ShortWindow, p.LongWindow)
	}
	if p.RSIThreshold < 0 || p.RSIThreshold > 100 {
		return fmt.Errorf("rsi threshold must be within [0,100] (got %g)", p.RSIThreshold)
	}
	return nil
}

// SignalGenerator annotates a candle series with indicators and an entry
// signal.
type SignalGenerator interface {
	Signals(candles []market.Candle) ([]market.SignalCandle, error)
}
