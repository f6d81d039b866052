// Package data loads historical candles from a market data provider, a CSV
// file, or a local SQLite cache of earlier downloads.
package data

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/backtester/market"
)

// ErrNoData is returned when a source has no usable candles for a request.
var ErrNoData = errors.New("no data")

// Request identifies a candle series: a symbol, a look-back period such as
// "6mo", and a bar interval such as "1h".
type Request struct {
	Symbol   string
	Period   string
	Interval string
}

func (r Request) String() string {
	return fmt.Sprintf("%s period=%s interval=%s", r.Symbol, r.Period, r.Interval)
}

// Window resolves the request period to an absolute [start, end) range
// ending at now.
func (r Request) Window(now time.Time) (start, end time.Time, err error) {
	start, err = ParsePeriod(r.Period, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, now.UTC(), nil
}

// Source yields chronologically ordered candles.
type Source interface {
	Candles(ctx context.Context, req Request) ([]market.Candle, error)
}

// Clean drops rows without a finite positive open and close, sorts by time
// and keeps the first candle for any duplicated timestamp. It returns
// ErrNoData if nothing is left.
func Clean(req Request, candles []market.Candle) ([]market.Candle, error) {
	out := make([]market.Candle, 0, len(candles))
	for _, c := range candles {
		if !finitePositive(c.Open) || !finitePositive(c.Close) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := out[:0]
	for i, c := range out {
		if i > 0 && c.Time.Equal(out[i-1].Time) {
			continue
		}
		deduped = append(deduped, c)
	}

	if len(deduped) == 0 {
		return nil, fmt.Errorf("%s: %w", req, ErrNoData)
	}
	return deduped, nil
}

func finitePositive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}
