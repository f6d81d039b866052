package indicators

import "github.com/rustyeddy/backtester/market"

// RSI returns the relative strength index of closes using simple rolling
// means of gains and losses over window observations. The first close has no
// prior change and counts as neither gain nor loss, so the series is defined
// from index window-1.
//
// When the average loss is zero the RSI is 100, or 50 if the average gain is
// zero as well (a flat window).
func RSI(closes []float64, window int) (Series, error) {
	if err := checkWindow("RSI", window); err != nil {
		return nil, err
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else if d < 0 {
			losses[i] = -d
		}
	}

	avgGain := rollingMean(gains, window)
	avgLoss := rollingMean(losses, window)

	out := make(Series, len(closes))
	for i := range closes {
		if !avgGain[i].Valid || !avgLoss[i].Valid {
			continue
		}
		g, l := avgGain[i].Float64, avgLoss[i].Float64
		switch {
		case l <= 0 && g <= 0:
			out[i] = market.Some(50)
		case l <= 0:
			out[i] = market.Some(100)
		default:
			rs := g / l
			out[i] = market.Some(100 - 100/(1+rs))
		}
	}
	return out, nil
}
