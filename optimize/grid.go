package optimize

import (
	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/strategies"
)

// Grid lists the discrete values swept for each parameter.
type Grid struct {
	ShortWindows  []int     `json:"short_windows" yaml:"short_windows"`
	LongWindows   []int     `json:"long_windows" yaml:"long_windows"`
	RSIThresholds []float64 `json:"rsi_thresholds" yaml:"rsi_thresholds"`
	TakeProfits   []float64 `json:"take_profits" yaml:"take_profits"`
	StopLosses    []float64 `json:"stop_losses" yaml:"stop_losses"`
}

// DefaultGrid is the 3x3x3x3x2 grid used by the optimize command.
func DefaultGrid() Grid {
	return Grid{
		ShortWindows:  []int{5, 10, 15},
		LongWindows:   []int{30, 40, 60},
		RSIThresholds: []float64{55, 60, 67},
		TakeProfits:   []float64{0.03, 0.05, 0.10},
		StopLosses:    []float64{0.01, 0.02},
	}
}

// Combo is one point of the grid.
type Combo struct {
	Short        int     `json:"short"`
	Long         int     `json:"long"`
	RSIThreshold float64 `json:"rsi_thr"`
	TakeProfit   float64 `json:"tp"`
	StopLoss     float64 `json:"sl"`
}

// Strategy returns base with the combo's windows and threshold applied.
func (c Combo) Strategy(base strategies.StrategyParams) strategies.StrategyParams {
	base.ShortWindow = c.Short
	base.LongWindow = c.Long
	base.RSIThreshold = c.RSIThreshold
	return base
}

// Execution returns base with the combo's take-profit and stop-loss applied.
func (c Combo) Execution(base backtest.ExecutionParams) backtest.ExecutionParams {
	base.TakeProfit = c.TakeProfit
	base.StopLoss = c.StopLoss
	return base
}

// Combos enumerates the Cartesian product of g in nested order
// (short, long, rsi, tp, sl), dropping combinations with short >= long.
func (g Grid) Combos() []Combo {
	var out []Combo
	for _, sw := range g.ShortWindows {
		for _, lw := range g.LongWindows {
			if sw >= lw {
				continue
			}
			for _, thr := range g.RSIThresholds {
				for _, tp := range g.TakeProfits {
					for _, sl := range g.StopLosses {
						out = append(out, Combo{Short: sw, Long: lw, RSIThreshold: thr, TakeProfit: tp, StopLoss: sl})
					}
				}
			}
		}
	}
	return out
}

// Size is the number of valid combinations.
func (g Grid) Size() int {
	return len(g.Combos())
}
