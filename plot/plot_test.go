package plot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/market"
)

func sampleInput() Input {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var in Input
	in.Title = "SOL-USD SMA(10/40)"
	for i := 0; i < 5; i++ {
		ts := t0.Add(time.Duration(i) * time.Hour)
		px := 100 + float64(i)
		in.Equity = append(in.Equity, backtest.EquityPoint{Time: ts, Equity: 10_000 + float64(i*10)})
		row := market.SignalCandle{Candle: market.Candle{Time: ts, Open: px, High: px, Low: px, Close: px}}
		if i >= 2 {
			row.SMAShort = market.Some(px - 1)
			row.SMALong = market.Some(px - 2)
		}
		in.Rows = append(in.Rows, row)
	}
	in.Trades = []backtest.Trade{
		{Side: backtest.Buy, Time: t0.Add(2 * time.Hour), Price: 102},
		{Side: backtest.Sell, Time: t0.Add(4 * time.Hour), Price: 104},
	}
	return in
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleInput()))

	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Equity")
	assert.Contains(t, out, "Drawdown %")
	assert.Contains(t, out, "SMA short")
	assert.Contains(t, out, "2025-01-01 04:00")
}

func TestRenderEquityOnly(t *testing.T) {
	in := sampleInput()
	in.Rows = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, in))
	assert.NotContains(t, buf.String(), "SMA short")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, Input{}))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equity.html")
	require.NoError(t, WriteFile(path, sampleInput()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<html")
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, round(1.2345, 2))
	assert.Equal(t, -0.5, round(-0.49999, 2))
}
