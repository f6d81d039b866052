// Package shared holds state common to every subcommand.
package shared

import (
	"os"

	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/data"
	"github.com/rustyeddy/backtester/internal/logger"
	"github.com/rustyeddy/backtester/market"
)

// RootConfig carries the persistent flags of the root command.
type RootConfig struct {
	ConfigPath string
	LogLevel   string
	CachePath  string
}

// Load returns the file configuration, or the defaults when no file was
// given, with the --cache override applied. It does not validate; callers
// validate after applying their own flags.
func (rc *RootConfig) Load() (*config.Config, error) {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		var err error
		cfg, err = config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return nil, err
		}
	}
	if rc.CachePath != "" {
		cfg.Data.Cache = rc.CachePath
	}
	return cfg, nil
}

// OpenSource builds the candle source described by cfg. The returned close
// func releases the cache, if any, and is never nil.
func OpenSource(cfg *config.Config) (data.Source, func() error, error) {
	noop := func() error { return nil }

	if cfg.Data.Source == "csv" {
		return data.CSVSource{Path: cfg.Data.CSV}, noop, nil
	}

	var src data.Source = data.NewAlpacaSource(data.AlpacaOptions{
		APIKey:    os.Getenv("APCA_API_KEY_ID"),
		APISecret: os.Getenv("APCA_API_SECRET_KEY"),
		BaseURL:   os.Getenv("APCA_API_DATA_URL"),
	})
	if cfg.Data.Cache == "" {
		return src, noop, nil
	}

	maxAge, err := cfg.Data.MaxAge()
	if err != nil {
		return nil, noop, err
	}
	cache, err := data.OpenCache(cfg.Data.Cache)
	if err != nil {
		return nil, noop, err
	}
	cs := data.NewCachedSource(src, cache)
	cs.MaxAge = maxAge
	return cs, cache.Close, nil
}

// ReportGaps logs missing bars in candles relative to the configured
// interval and returns the summary.
func ReportGaps(cfg *config.Config, candles []market.Candle) market.GapStats {
	iv, err := data.ParseInterval(cfg.Data.Interval)
	if err != nil {
		return market.GapStats{Bars: len(candles)}
	}
	gaps := market.FindGaps(candles, iv.Duration())
	stats := market.Stats(len(candles), gaps)
	if stats.SuspiciousGaps > 0 {
		logger.Warnf("data: %d gaps (%d suspicious), %d missing bars, longest %d (%s)",
			stats.GapCount, stats.SuspiciousGaps, stats.MissingBars, stats.LongestGap, stats.LongestGapKind)
	} else if stats.GapCount > 0 {
		logger.Debugf("data: %d gaps, %d missing bars", stats.GapCount, stats.MissingBars)
	}
	return stats
}
