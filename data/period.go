package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// ParsePeriod converts a look-back period to the start time relative to now.
// Accepted forms are <n>d, <n>wk, <n>mo, <n>y and ytd.
func ParsePeriod(period string, now time.Time) (time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	now = now.UTC()
	if p == "ytd" {
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC), nil
	}

	n, unit, err := splitAmount(p)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad period %q: %w", period, err)
	}
	switch unit {
	case "d":
		return now.AddDate(0, 0, -n), nil
	case "w", "wk":
		return now.AddDate(0, 0, -7*n), nil
	case "mo":
		return now.AddDate(0, -n, 0), nil
	case "y":
		return now.AddDate(-n, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("bad period %q: unknown unit %q", period, unit)
}

// Interval is a bar size such as 15m, 1h or 1d.
type Interval struct {
	N    int
	Unit marketdata.TimeFrameUnit
}

// ParseInterval accepts <n>m, <n>h, <n>d, <n>wk and <n>mo.
func ParseInterval(s string) (Interval, error) {
	n, unit, err := splitAmount(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return Interval{}, fmt.Errorf("bad interval %q: %w", s, err)
	}
	switch unit {
	case "m", "min":
		if n%60 == 0 {
			return Interval{N: n / 60, Unit: marketdata.Hour}, nil
		}
		return Interval{N: n, Unit: marketdata.Min}, nil
	case "h":
		return Interval{N: n, Unit: marketdata.Hour}, nil
	case "d":
		return Interval{N: n, Unit: marketdata.Day}, nil
	case "w", "wk":
		return Interval{N: n, Unit: marketdata.Week}, nil
	case "mo":
		return Interval{N: n, Unit: marketdata.Month}, nil
	}
	return Interval{}, fmt.Errorf("bad interval %q: unknown unit %q", s, unit)
}

// TimeFrame returns the Alpaca bar timeframe.
func (iv Interval) TimeFrame() marketdata.TimeFrame {
	return marketdata.NewTimeFrame(iv.N, iv.Unit)
}

// Duration is the nominal bar length. Months count as 30 days.
func (iv Interval) Duration() time.Duration {
	n := time.Duration(iv.N)
	switch iv.Unit {
	case marketdata.Min:
		return n * time.Minute
	case marketdata.Hour:
		return n * time.Hour
	case marketdata.Day:
		return n * 24 * time.Hour
	case marketdata.Week:
		return n * 7 * 24 * time.Hour
	case marketdata.Month:
		return n * 30 * 24 * time.Hour
	}
	return 0
}

func splitAmount(s string) (int, string, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", fmt.Errorf("missing amount")
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, "", err
	}
	if n <= 0 {
		return 0, "", fmt.Errorf("amount must be positive")
	}
	return n, s[i:], nil
}
