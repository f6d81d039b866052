package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// SMACrossRSI fires an entry when the short SMA crosses above the long SMA
// while the RSI is above a threshold.
type SMACrossRSI struct {
	Params StrategyParams
}

var _ SignalGenerator = SMACrossRSI{}

func NewSMACrossRSI(p StrategyParams) SMACrossRSI {
	return SMACrossRSI{Params: p}
}

// Signals returns a copy of candles annotated with SMA short/long, RSI and
// the entry signal. The input slice is not modified. Only non-positive
// windows are rejected; short >= long simply never produces a signal.
func (s SMACrossRSI) Signals(candles []market.Candle) ([]market.SignalCandle, error) {
	p := s.Params
	closes := market.Closes(candles)

	short, err := indicators.SMA(closes, p.ShortWindow)
	if err != nil {
		return nil, fmt.Errorf("short sma: %w", err)
	}
	long, err := indicators.SMA(closes, p.LongWindow)
	if err != nil {
		return nil, fmt.Errorf("long sma: %w", err)
	}
	rsi, err := indicators.RSI(closes, p.RSIWindow)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}

	out := make([]market.SignalCandle, len(candles))
	prevAbove, havePrev := false, false
	for i, c := range candles {
		row := market.SignalCandle{
			Candle:   c,
			SMAShort: short[i],
			SMALong:  long[i],
			RSI:      rsi[i],
		}

		if row.SMAShort.Valid && row.SMALong.Valid {
			above := row.SMAShort.Float64 > row.SMALong.Float64
			crossUp := havePrev && above && !prevAbove
			row.EntrySignal = crossUp && row.RSI.Valid && row.RSI.Float64 > p.RSIThreshold
			prevAbove, havePrev = above, true
		} else {
			havePrev = false
		}

		out[i] = row
	}
	return out, nil
}

// Signals is shorthand for NewSMACrossRSI(p).Signals(candles).
func Signals(candles []market.Candle, p StrategyParams) ([]market.SignalCandle, error) {
	return NewSMACrossRSI(p).Signals(candles)
}
