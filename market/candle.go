package market

import (
	"fmt"
	"time"
)

// Candle represents one OHLCV bar for a fixed interval.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// NullFloat is a float64 that may be undefined, e.g. an indicator during its
// warm-up window or the entry price of a flat position.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Some returns a defined NullFloat.
func Some(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

func (n NullFloat) String() string {
	if !n.Valid {
		return "NaN"
	}
	return fmt.Sprintf("%g", n.Float64)
}

// SignalCandle is a candle annotated with the indicators and the entry signal
// derived from them.
type SignalCandle struct {
	Candle

	SMAShort NullFloat
	SMALong  NullFloat
	RSI      NullFloat

	EntrySignal bool
}

// Usable reports whether every indicator is defined for this row. Rows that
// are still warming up carry no valid signal.
func (c SignalCandle) Usable() bool {
	return c.SMAShort.Valid && c.SMALong.Valid && c.RSI.Valid
}

// Closes returns the close prices of the candles in order.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Validate checks the series is in strictly increasing time order, which also
// rules out duplicate timestamps.
func Validate(candles []Candle) error {
	for i := 1; i < len(candles); i++ {
		prev, cur := candles[i-1].Time, candles[i].Time
		if cur.Equal(prev) {
			return fmt.Errorf("duplicate candle at %s (index %d)", cur.Format(time.RFC3339), i)
		}
		if cur.Before(prev) {
			return fmt.Errorf("candles out of order at index %d: %s before %s",
				i, cur.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
	}
	return nil
}
