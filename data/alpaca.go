package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/market"
)

// barsClient is the subset of *marketdata.Client used here.
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
	GetCryptoBars(symbol string, req marketdata.GetCryptoBarsRequest) ([]marketdata.CryptoBar, error)
}

var _ barsClient = (*marketdata.Client)(nil)

// AlpacaSource downloads historical bars from Alpaca market data. Symbols
// with a quote currency ("SOL-USD", "BTC/USD") are treated as crypto pairs,
// anything else as a US equity.
type AlpacaSource struct {
	client barsClient
	now    func() time.Time
}

var _ Source = (*AlpacaSource)(nil)

// AlpacaOptions carry API credentials. Empty values fall back to the
// APCA_API_KEY_ID / APCA_API_SECRET_KEY environment variables.
type AlpacaOptions struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

func NewAlpacaSource(opts AlpacaOptions) *AlpacaSource {
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    opts.APIKey,
		APISecret: opts.APISecret,
		BaseURL:   opts.BaseURL,
	})
	return &AlpacaSource{client: client, now: time.Now}
}

func (s *AlpacaSource) Candles(ctx context.Context, req Request) ([]market.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Symbol) == "" {
		return nil, fmt.Errorf("alpaca: missing symbol")
	}
	iv, err := ParseInterval(req.Interval)
	if err != nil {
		return nil, err
	}
	start, end, err := req.Window(s.now())
	if err != nil {
		return nil, err
	}

	var candles []market.Candle
	if pair, ok := CryptoPair(req.Symbol); ok {
		bars, err := s.client.GetCryptoBars(pair, marketdata.GetCryptoBarsRequest{
			TimeFrame: iv.TimeFrame(),
			Start:     start,
			End:       end,
		})
		if err != nil {
			return nil, fmt.Errorf("alpaca crypto bars %s: %w", pair, err)
		}
		candles = make([]market.Candle, 0, len(bars))
		for _, b := range bars {
			candles = append(candles, market.Candle{
				Time: b.Timestamp.UTC(), Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume,
			})
		}
	} else {
		sym := strings.ToUpper(strings.TrimSpace(req.Symbol))
		bars, err := s.client.GetBars(sym, marketdata.GetBarsRequest{
			TimeFrame: iv.TimeFrame(),
			Start:     start,
			End:       end,
		})
		if err != nil {
			return nil, fmt.Errorf("alpaca bars %s: %w", sym, err)
		}
		candles = make([]market.Candle, 0, len(bars))
		for _, b := range bars {
			candles = append(candles, market.Candle{
				Time: b.Timestamp.UTC(), Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: float64(b.Volume),
			})
		}
	}

	logger.Debugf("alpaca: %s returned %d bars", req, len(candles))
	return Clean(req, candles)
}

var cryptoQuotes = []string{"USDT", "USDC", "USD"}

// CryptoPair normalizes "SOL-USD", "sol/usd" or "SOLUSD" to Alpaca's
// "SOL/USD" form. ok is false for plain equity tickers.
func CryptoPair(symbol string) (pair string, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if base, quote, found := strings.Cut(strings.ReplaceAll(s, "-", "/"), "/"); found {
		if base == "" || quote == "" {
			return "", false
		}
		return base + "/" + quote, true
	}
	for _, q := range cryptoQuotes {
		if len(s) > len(q)+1 && strings.HasSuffix(s, q) {
			return s[:len(s)-len(q)] + "/" + q, true
		}
	}
	return "", false
}
