// Package metrics reduces a simulated equity curve and its closed-trade
// returns to comparable scalar performance figures.
package metrics

import (
	"math"

	"github.com/rustyeddy/backtester/backtest"
)

// HourlyAnnualization is the number of hourly periods in a year.
const HourlyAnnualization = 24 * 365

// Performance is the summary of one backtest. Percentages are already
// multiplied by 100; MaxDrawdownPct is zero or negative.
type Performance struct {
	FinalValue        float64 `json:"final_value"`
	Profit            float64 `json:"profit"`
	ReturnPct         float64 `json:"return_pct"`
	Trades            int     `json:"trades"`
	WinRatePct        float64 `json:"win_rate_pct"`
	AvgTradeReturnPct float64 `json:"avg_trade_return_pct"`
	MaxDrawdownPct    float64 `json:"max_drawdown_pct"`
	ProfitFactor      float64 `json:"profit_factor"`
	Sharpe            float64 `json:"sharpe"`
}

// Summarize computes Performance from an equity curve, the closed-trade
// returns and the starting cash, using hourly annualization for the Sharpe
// ratio. An empty curve means nothing was simulated and the final value is
// the initial cash.
func Summarize(equity []float64, tradeReturns []float64, initialCash float64) Performance {
	return SummarizeAnnualized(equity, tradeReturns, initialCash, HourlyAnnualization)
}

// SummarizeAnnualized is Summarize with an explicit number of periods per
// year for the Sharpe ratio.
func SummarizeAnnualized(equity []float64, tradeReturns []float64, initialCash, periodsPerYear float64) Performance {
	final := initialCash
	if len(equity) > 0 {
		final = equity[len(equity)-1]
	}
	profit := final - initialCash

	p := Performance{
		FinalValue:     final,
		Profit:         profit,
		ReturnPct:      profit / initialCash * 100,
		Trades:         len(tradeReturns),
		MaxDrawdownPct: MaxDrawdownPct(equity),
		ProfitFactor:   ProfitFactor(tradeReturns),
		Sharpe:         SharpeRatio(PctChange(equity), periodsPerYear),
	}

	if n := len(tradeReturns); n > 0 {
		wins := 0
		sum := 0.0
		for _, r := range tradeReturns {
			if r > 0 {
				wins++
			}
			sum += r
		}
		p.WinRatePct = float64(wins) / float64(n) * 100
		p.AvgTradeReturnPct = sum / float64(n) * 100
	}
	return p
}

// FromResult summarizes a backtest.Result.
func FromResult(res backtest.Result, initialCash float64) Performance {
	return Summarize(res.EquityValues(), res.TradeReturns, initialCash)
}

// RunningPeak returns the cumulative maximum of equity.
func RunningPeak(equity []float64) []float64 {
	out := make([]float64, len(equity))
	peak := math.Inf(-1)
	for i, e := range equity {
		if e > peak {
			peak = e
		}
		out[i] = peak
	}
	return out
}

// MaxDrawdownPct returns the deepest decline from the running peak as a
// percentage, always <= 0.
func MaxDrawdownPct(equity []float64) float64 {
	peaks := RunningPeak(equity)
	worst := 0.0
	for i, e := range equity {
		if peaks[i] <= 0 {
			continue
		}
		if dd := e/peaks[i] - 1; dd < worst {
			worst = dd
		}
	}
	return worst * 100
}

// ProfitFactor is the sum of winning returns over the absolute sum of losing
// returns. With no losses it is +Inf if anything was gained and 0 otherwise.
func ProfitFactor(tradeReturns []float64) float64 {
	var gains, losses float64
	for _, r := range tradeReturns {
		switch {
		case r > 0:
			gains += r
		case r < 0:
			losses -= r
		}
	}
	if losses == 0 {
		if gains > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return gains / losses
}

// PctChange returns period-over-period fractional changes. The first point
// has no predecessor so the result is one shorter than equity.
func PctChange(equity []float64) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		out[i-1] = equity[i]/equity[i-1] - 1
	}
	return out
}

// SharpeRatio returns mean/stddev of returns scaled by sqrt(periodsPerYear).
// Non-finite returns are ignored. The standard deviation uses N-1. It is 0
// with fewer than two observations or no dispersion.
func SharpeRatio(returns []float64, periodsPerYear float64) float64 {
	r := make([]float64, 0, len(returns))
	for _, v := range returns {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			r = append(r, v)
		}
	}
	if len(r) < 2 {
		return 0
	}

	mu := mean(r)
	sigma := stddev(r, mu)
	if sigma == 0 || math.IsNaN(sigma) {
		return 0
	}
	return mu / sigma * math.Sqrt(periodsPerYear)
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, mu float64) float64 {
	ss := 0.0
	for _, x := range xs {
		d := x - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
