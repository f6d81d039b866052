package data

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backtester/market"
)

var t0 = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func candleAt(h int, px float64) market.Candle {
	return market.Candle{Time: t0.Add(time.Duration(h) * time.Hour), Open: px, High: px, Low: px, Close: px, Volume: 1}
}

func TestClean(t *testing.T) {
	in := []market.Candle{
		candleAt(2, 12),
		candleAt(0, 10),
		candleAt(1, math.NaN()),
		candleAt(3, 0),
		candleAt(2, 99),
		candleAt(4, math.Inf(1)),
		candleAt(5, 15),
	}
	out, err := Clean(Request{Symbol: "X"}, in)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 10.0, out[0].Close)
	assert.Equal(t, 12.0, out[1].Close)
	assert.Equal(t, 15.0, out[2].Close)
	require.NoError(t, market.Validate(out))
}

func TestCleanEmpty(t *testing.T) {
	_, err := Clean(Request{Symbol: "X"}, []market.Candle{candleAt(0, math.NaN())})
	require.ErrorIs(t, err, ErrNoData)

	_, err = Clean(Request{Symbol: "X"}, nil)
	require.ErrorIs(t, err, ErrNoData)
}

func TestParsePeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"6mo", time.Date(2024, 12, 15, 8, 30, 0, 0, time.UTC)},
		{"30d", now.AddDate(0, 0, -30)},
		{"2wk", now.AddDate(0, 0, -14)},
		{"1y", time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)},
		{"YTD", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "mo", "0d", "5x", "-3d"} {
		_, err := ParsePeriod(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want Interval
		dur  time.Duration
	}{
		{"1h", Interval{1, marketdata.Hour}, time.Hour},
		{"15m", Interval{15, marketdata.Min}, 15 * time.Minute},
		{"60m", Interval{1, marketdata.Hour}, time.Hour},
		{"1d", Interval{1, marketdata.Day}, 24 * time.Hour},
		{"1wk", Interval{1, marketdata.Week}, 7 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.dur, got.Duration())
		})
	}

	_, err := ParseInterval("1s")
	assert.Error(t, err)
}

func TestCryptoPair(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"SOL-USD", "SOL/USD", true},
		{"sol/usd", "SOL/USD", true},
		{"BTCUSDT", "BTC/USDT", true},
		{"AAPL", "", false},
		{"USD", "", false},
		{"-USD", "", false},
	}
	for _, tt := range tests {
		got, ok := CryptoPair(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

type fakeBars struct {
	stockSym  string
	cryptoSym string
	stockReq  marketdata.GetBarsRequest
	cryptoReq marketdata.GetCryptoBarsRequest
	stock     []marketdata.Bar
	crypto    []marketdata.CryptoBar
	err       error
}

func (f *fakeBars) GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	f.stockSym, f.stockReq = symbol, req
	return f.stock, f.err
}

func (f *fakeBars) GetCryptoBars(symbol string, req marketdata.GetCryptoBarsRequest) ([]marketdata.CryptoBar, error) {
	f.cryptoSym, f.cryptoReq = symbol, req
	return f.crypto, f.err
}

func fixedNow() time.Time { return t0 }

func TestAlpacaCrypto(t *testing.T) {
	fake := &fakeBars{crypto: []marketdata.CryptoBar{
		{Timestamp: t0.Add(-time.Hour), Open: 101, High: 103, Low: 100, Close: 102, Volume: 5.5},
		{Timestamp: t0.Add(-2 * time.Hour), Open: 100, High: 101, Low: 99, Close: 101, Volume: 2},
	}}
	src := &AlpacaSource{client: fake, now: fixedNow}

	got, err := src.Candles(context.Background(), Request{Symbol: "SOL-USD", Period: "7d", Interval: "1h"})
	require.NoError(t, err)
	assert.Equal(t, "SOL/USD", fake.cryptoSym)
	assert.Equal(t, marketdata.OneHour, fake.cryptoReq.TimeFrame)
	assert.True(t, fake.cryptoReq.Start.Equal(t0.AddDate(0, 0, -7)))
	assert.True(t, fake.cryptoReq.End.Equal(t0))

	require.Len(t, got, 2)
	assert.Equal(t, 100.0, got[0].Open)
	assert.Equal(t, 5.5, got[1].Volume)
}

func TestAlpacaStock(t *testing.T) {
	fake := &fakeBars{stock: []marketdata.Bar{
		{Timestamp: t0.Add(-24 * time.Hour), Open: 180, High: 182, Low: 179, Close: 181, Volume: 1000},
	}}
	src := &AlpacaSource{client: fake, now: fixedNow}

	got, err := src.Candles(context.Background(), Request{Symbol: "aapl", Period: "1mo", Interval: "1d"})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", fake.stockSym)
	assert.Equal(t, marketdata.OneDay, fake.stockReq.TimeFrame)
	require.Len(t, got, 1)
	assert.Equal(t, 1000.0, got[0].Volume)
}

func TestAlpacaErrors(t *testing.T) {
	ctx := context.Background()

	src := &AlpacaSource{client: &fakeBars{}, now: fixedNow}
	_, err := src.Candles(ctx, Request{Symbol: "SOL-USD", Period: "7d", Interval: "1h"})
	require.ErrorIs(t, err, ErrNoData)

	boom := errors.New("boom")
	src = &AlpacaSource{client: &fakeBars{err: boom}, now: fixedNow}
	_, err = src.Candles(ctx, Request{Symbol: "SOL-USD", Period: "7d", Interval: "1h"})
	require.ErrorIs(t, err, boom)

	_, err = src.Candles(ctx, Request{Symbol: " ", Period: "7d", Interval: "1h"})
	require.Error(t, err)

	_, err = src.Candles(ctx, Request{Symbol: "SOL-USD", Period: "7d", Interval: "1s"})
	require.Error(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = src.Candles(canceled, Request{Symbol: "SOL-USD", Period: "7d", Interval: "1h"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCSVSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	in := []market.Candle{candleAt(0, 10), candleAt(1, 11), candleAt(2, 12)}
	require.NoError(t, market.WriteCSVFile(path, in))

	got, err := CSVSource{Path: path}.Candles(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[2].Time.Equal(in[2].Time))

	_, err = CSVSource{}.Candles(context.Background(), Request{})
	require.Error(t, err)
}
