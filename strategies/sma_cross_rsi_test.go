package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

func candlesFromCloses(closes ...float64) []market.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		out[i] = market.Candle{Time: start.Add(time.Duration(i) * time.Hour), Open: c, High: c, Low: c, Close: c}
	}
	return out
}

func TestSignalsCrossover(t *testing.T) {
	cs := candlesFromCloses(10, 9, 8, 7, 6, 7, 8, 9, 10, 11)
	p := StrategyParams{ShortWindow: 2, LongWindow: 4, RSIWindow: 2, RSIThreshold: 50}

	out, err := Signals(cs, p)
	require.NoError(t, err)
	require.Len(t, out, len(cs))

	var fired []int
	for i, row := range out {
		assert.Equal(t, cs[i], row.Candle)
		if row.EntrySignal {
			fired = append(fired, i)
		}
	}
	assert.Equal(t, []int{6}, fired)

	assert.False(t, out[2].Usable())
	assert.True(t, out[3].Usable())
	assert.InDelta(t, 7.5, out[6].SMAShort.Float64, 1e-9)
	assert.InDelta(t, 7.0, out[6].SMALong.Float64, 1e-9)
	assert.InDelta(t, 100.0, out[6].RSI.Float64, 1e-9)
}

func TestSignalsRSIGate(t *testing.T) {
	cs := candlesFromCloses(10, 9, 8, 7, 6, 7, 8, 9, 10, 11)
	p := StrategyParams{ShortWindow: 2, LongWindow: 4, RSIWindow: 2, RSIThreshold: 100}

	out, err := Signals(cs, p)
	require.NoError(t, err)
	for _, row := range out {
		assert.False(t, row.EntrySignal)
	}
}

func TestSignalsNoCrossOnFirstDefinedRow(t *testing.T) {
	cs := candlesFromCloses(1, 2, 3, 4, 5, 6)
	p := StrategyParams{ShortWindow: 2, LongWindow: 4, RSIWindow: 2, RSIThreshold: 0}

	out, err := Signals(cs, p)
	require.NoError(t, err)
	for i, row := range out {
		assert.False(t, row.EntrySignal, "index %d", i)
	}
}

func TestSignalsFlat(t *testing.T) {
	cs := candlesFromCloses(5, 5, 5, 5, 5, 5, 5, 5)
	out, err := Signals(cs, StrategyParams{ShortWindow: 2, LongWindow: 3, RSIWindow: 2, RSIThreshold: 10})
	require.NoError(t, err)
	for _, row := range out {
		assert.False(t, row.EntrySignal)
	}
	assert.True(t, out[len(out)-1].Usable())
}

func TestSignalsInvalidWindow(t *testing.T) {
	cs := candlesFromCloses(1, 2, 3)
	_, err := Signals(cs, StrategyParams{ShortWindow: 0, LongWindow: 4, RSIWindow: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, indicators.ErrInvalidWindow)

	_, err = Signals(cs, StrategyParams{ShortWindow: 2, LongWindow: 4, RSIWindow: -1})
	assert.ErrorIs(t, err, indicators.ErrInvalidWindow)
}

func TestStrategyParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  StrategyParams
		wantErr string
	}{
		{"defaults", DefaultParams(), ""},
		{"zero window", StrategyParams{ShortWindow: 0, LongWindow: 40, RSIWindow: 14}, "windows must be positive"},
		{"short >= long", StrategyParams{ShortWindow: 40, LongWindow: 40, RSIWindow: 14}, "require 0 < short < long"},
		{"threshold", StrategyParams{ShortWindow: 5, LongWindow: 40, RSIWindow: 14, RSIThreshold: 101}, "rsi threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStrategyParamsString(t *testing.T) {
	assert.Equal(t, "SMA(10/40) RSI(14)>67", DefaultParams().String())
}
