package backtest

import (
	"time"

	"github.com/rustyeddy/backtester/market"
)

// Side of an executed order. Only long positions exist, so a BUY always
// opens and a SELL always closes.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Exit and entry reasons recorded on trades.
const (
	ReasonSignal     = "signal"
	ReasonTakeProfit = "take-profit"
	ReasonStopLoss   = "stop-loss"
)

// ExecutionParams configure fills and exits. Fractions are plain ratios:
// 0.05 is 5%. Values are assumed to be validated by the caller.
type ExecutionParams struct {
	InitialCash  float64 `json:"initial_cash" yaml:"initial_cash"`
	TakeProfit   float64 `json:"take_profit" yaml:"take_profit"`
	StopLoss     float64 `json:"stop_loss" yaml:"stop_loss"`
	FeeFrac      float64 `json:"fee" yaml:"fee"`
	SlippageFrac float64 `json:"slippage" yaml:"slippage"`
}

// DefaultExecution returns $10k cash, 5% take-profit, 1% stop-loss, 0.1% fee
// and 0.02% slippage per side.
func DefaultExecution() ExecutionParams {
	return ExecutionParams{
		InitialCash:  10_000,
		TakeProfit:   0.05,
		StopLoss:     0.01,
		FeeFrac:      0.001,
		SlippageFrac: 0.0002,
	}
}

// Trade is one executed order.
type Trade struct {
	Side   Side
	Time   time.Time
	Price  float64 // fill price after slippage
	Qty    float64
	Fee    float64
	Reason string
}

// Position is FLAT when Qty is zero, in which case EntryPrice is undefined.
type Position struct {
	Qty        float64
	EntryPrice market.NullFloat
	EntryTime  time.Time
}

// Flat reports whether no position is held.
func (p Position) Flat() bool {
	return p.Qty == 0
}

// EquityPoint is the mark-to-market portfolio value at a candle's close.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// Result is everything one simulation produces.
type Result struct {
	Equity []EquityPoint
	Trades []Trade

	// TradeReturns holds one gross return per closed round-trip:
	// (sell fill - entry fill) / entry fill. Fees are charged to cash only and
	// are not reflected here.
	TradeReturns []float64

	// Open is the position left at the end of the series. It is never
	// force-closed.
	Open Position
	Cash float64
}

// EquityValues returns the equity curve without timestamps.
func (r Result) EquityValues() []float64 {
	out := make([]float64, len(r.Equity))
	for i, p := range r.Equity {
		out[i] = p.Equity
	}
	return out
}

// account is the mutable state threaded through one run.
type account struct {
	cash float64
	pos  Position

	equity  []EquityPoint
	trades  []Trade
	returns []float64
}

// Run simulates the long-only strategy over rows. Rows whose indicators are
// undefined are skipped. A signal or exit condition observed at the close of
// candle i is always filled at the open of candle i+1.
//
// With fewer than two usable rows nothing can execute and an empty Result is
// returned.
func Run(rows []market.SignalCandle, ep ExecutionParams) Result {
	data := usable(rows)
	if len(data) < 2 {
		return Result{Cash: ep.InitialCash}
	}

	acct := &account{
		cash:   ep.InitialCash,
		equity: make([]EquityPoint, 0, len(data)),
	}

	for i := 0; i < len(data)-1; i++ {
		cur, next := data[i], data[i+1]
		closeI := cur.Close

		acct.mark(cur.Time, closeI)

		// exit is evaluated before entry so a position closed at i+1's open
		// can be reopened on the same bar by a fresh signal.
		if !acct.pos.Flat() && acct.pos.EntryPrice.Valid {
			entry := acct.pos.EntryPrice.Float64
			ret := (closeI - entry) / entry
			switch {
			case ret >= ep.TakeProfit:
				acct.sell(next.Time, next.Open, ReasonTakeProfit, ep)
			case ret <= -ep.StopLoss:
				acct.sell(next.Time, next.Open, ReasonStopLoss, ep)
			}
		}

		if acct.pos.Flat() && cur.EntrySignal {
			acct.buy(next.Time, next.Open, ep)
		}
	}

	last := data[len(data)-1]
	acct.mark(last.Time, last.Close)

	return Result{
		Equity:       acct.equity,
		Trades:       acct.trades,
		TradeReturns: acct.returns,
		Open:         acct.pos,
		Cash:         acct.cash,
	}
}

func usable(rows []market.SignalCandle) []market.SignalCandle {
	out := make([]market.SignalCandle, 0, len(rows))
	for _, r := range rows {
		if r.Usable() {
			out = append(out, r)
		}
	}
	return out
}

func (a *account) mark(t time.Time, closePx float64) {
	a.equity = append(a.equity, EquityPoint{Time: t, Equity: a.cash + a.pos.Qty*closePx})
}

// buy deploys all cash. The fee comes out of the cash being deployed, so
// notional + fee == cash.
func (a *account) buy(t time.Time, rawPx float64, ep ExecutionParams) {
	px := FillPrice(rawPx, Buy, ep.SlippageFrac)
	qty := a.cash / (px * (1 + ep.FeeFrac))
	notional := qty * px
	fee := notional * ep.FeeFrac

	a.cash -= notional + fee
	a.pos = Position{Qty: qty, EntryPrice: market.Some(px), EntryTime: t}
	a.trades = append(a.trades, Trade{Side: Buy, Time: t, Price: px, Qty: qty, Fee: fee, Reason: ReasonSignal})
}

func (a *account) sell(t time.Time, rawPx float64, reason string, ep ExecutionParams) {
	px := FillPrice(rawPx, Sell, ep.SlippageFrac)
	qty := a.pos.Qty
	notional := qty * px
	fee := notional * ep.FeeFrac

	a.cash += notional - fee
	entry := a.pos.EntryPrice.Float64
	a.returns = append(a.returns, (px-entry)/entry)
	a.trades = append(a.trades, Trade{Side: Sell, Time: t, Price: px, Qty: qty, Fee: fee, Reason: reason})
	a.pos = Position{}
}

// FillPrice applies slippage against the trader: buys pay more, sells
// receive less.
func FillPrice(px float64, side Side, slippage float64) float64 {
	if side == Buy {
		return px * (1 + slippage)
	}
	return px * (1 - slippage)
}
