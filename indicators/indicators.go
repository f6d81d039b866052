// Package indicators provides technical analysis indicators for trading
package indicators

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/backtester/market"
)

// ErrInvalidWindow is returned when an indicator window is not positive.
var ErrInvalidWindow = errors.New("window must be > 0")

// Series is an indicator output aligned 1:1 with its input. Values are
// undefined until the indicator has seen enough observations.
type Series []market.NullFloat

func checkWindow(name string, window int) error {
	if window <= 0 {
		return fmt.Errorf("%s(%d): %w", name, window, ErrInvalidWindow)
	}
	return nil
}

// Last returns the most recent defined value.
func (s Series) Last() (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Valid {
			return s[i].Float64, true
		}
	}
	return 0, false
}
