package data

import (
	"context"
	"fmt"

	"github.com/rustyeddy/backtester/market"
)

// CSVSource serves candles from a local file written by market.WriteCSV.
// The request symbol and period are informational only; the file is the
// series.
type CSVSource struct {
	Path string
}

var _ Source = CSVSource{}

func (s CSVSource) Candles(ctx context.Context, req Request) ([]market.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path == "" {
		return nil, fmt.Errorf("csv source: missing path")
	}
	candles, err := market.ReadCSVFile(s.Path)
	if err != nil {
		return nil, err
	}
	return Clean(Request{Symbol: s.Path}, candles)
}
