// Package journal exports a backtest's trade log and equity curve and
// renders human-readable reports of runs and sweeps.
package journal

import (
	"time"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/metrics"
	"github.com/rustyeddy/backtester/strategies"
)

// Run describes one backtest: what was tested, over which span, and how it
// performed.
type Run struct {
	RunID   string
	Created time.Time

	Symbol   string
	Period   string
	Interval string
	Dataset  string

	Strategy  strategies.StrategyParams
	Execution backtest.ExecutionParams

	Start time.Time
	End   time.Time

	Perf metrics.Performance

	// TradeLog is the number of executed orders, BUY and SELL.
	TradeLog int

	OrgPath  string
	PlotPath string
}

// TradeRecord is one executed order of a run.
type TradeRecord struct {
	RunID  string
	Seq    int
	Side   backtest.Side
	Time   time.Time
	Price  float64
	Qty    float64
	Fee    float64
	Reason string
}

// EquitySnapshot is one point of a run's equity curve.
type EquitySnapshot struct {
	RunID  string
	Time   time.Time
	Equity float64
}

type Journal interface {
	RecordRun(Run) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// TradeRecords converts the trade log of res.
func TradeRecords(runID string, res backtest.Result) []TradeRecord {
	out := make([]TradeRecord, len(res.Trades))
	for i, t := range res.Trades {
		out[i] = TradeRecord{
			RunID:  runID,
			Seq:    i + 1,
			Side:   t.Side,
			Time:   t.Time,
			Price:  t.Price,
			Qty:    t.Qty,
			Fee:    t.Fee,
			Reason: t.Reason,
		}
	}
	return out
}

// EquitySnapshots converts the equity curve of res.
func EquitySnapshots(runID string, res backtest.Result) []EquitySnapshot {
	out := make([]EquitySnapshot, len(res.Equity))
	for i, p := range res.Equity {
		out[i] = EquitySnapshot{RunID: runID, Time: p.Time, Equity: p.Equity}
	}
	return out
}

// Record writes run followed by every trade and equity point of res.
func Record(j Journal, run Run, res backtest.Result) error {
	if err := j.RecordRun(run); err != nil {
		return err
	}
	for _, t := range TradeRecords(run.RunID, res) {
		if err := j.RecordTrade(t); err != nil {
			return err
		}
	}
	for _, e := range EquitySnapshots(run.RunID, res) {
		if err := j.RecordEquity(e); err != nil {
			return err
		}
	}
	return nil
}
