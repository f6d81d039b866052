package indicators

import (
	talib "github.com/markcheno/go-talib"

	"github.com/rustyeddy/backtester/market"
)

// SMA returns the simple moving average of values over window observations.
// The first window-1 entries are undefined.
func SMA(values []float64, window int) (Series, error) {
	if err := checkWindow("SMA", window); err != nil {
		return nil, err
	}
	return rollingMean(values, window), nil
}

// rollingMean wraps talib.Sma, which leaves the lookback region zeroed and
// panics when the input is shorter than the window.
func rollingMean(values []float64, window int) Series {
	out := make(Series, len(values))
	if len(values) < window {
		return out
	}
	raw := talib.Sma(values, window)
	for i := window - 1; i < len(values); i++ {
		out[i] = market.Some(raw[i])
	}
	return out
}
