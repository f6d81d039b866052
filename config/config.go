package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/data"
	"github.com/rustyeddy/backtester/optimize"
	"github.com/rustyeddy/backtester/strategies"
)

// Config is everything a backtest or sweep needs besides the candles.
type Config struct {
	Data      DataConfig                `json:"data" yaml:"data"`
	Strategy  strategies.StrategyParams `json:"strategy" yaml:"strategy"`
	Execution backtest.ExecutionParams  `json:"execution" yaml:"execution"`
	Sweep     SweepConfig               `json:"sweep" yaml:"sweep"`
	Output    OutputConfig              `json:"output" yaml:"output"`
}

// DataConfig selects where candles come from.
type DataConfig struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Period   string `json:"period" yaml:"period"`
	Interval string `json:"interval" yaml:"interval"`

	// Source is "alpaca" or "csv".
	Source string `json:"source" yaml:"source"`
	CSV    string `json:"csv,omitempty" yaml:"csv,omitempty"`

	// Cache is an optional SQLite file used to keep downloaded candles.
	Cache       string `json:"cache,omitempty" yaml:"cache,omitempty"`
	CacheMaxAge string `json:"cache_max_age,omitempty" yaml:"cache_max_age,omitempty"` // e.g. "1h"
}

// SweepConfig holds the parameter grid and how it is run and reported.
type SweepConfig struct {
	Grid    optimize.Grid `json:"grid" yaml:"grid"`
	Workers int           `json:"workers" yaml:"workers"`
	Top     int           `json:"top" yaml:"top"`
}

// OutputConfig names optional result files. Empty means not written.
type OutputConfig struct {
	TradesCSV string `json:"trades_csv,omitempty" yaml:"trades_csv,omitempty"`
	EquityCSV string `json:"equity_csv,omitempty" yaml:"equity_csv,omitempty"`
	Plot      string `json:"plot,omitempty" yaml:"plot,omitempty"`
	Org       string `json:"org,omitempty" yaml:"org,omitempty"`
}

// Request returns the data request described by c.
func (d DataConfig) Request() data.Request {
	return data.Request{Symbol: d.Symbol, Period: d.Period, Interval: d.Interval}
}

// MaxAge parses CacheMaxAge. Empty means zero.
func (d DataConfig) MaxAge() (time.Duration, error) {
	if d.CacheMaxAge == "" {
		return 0, nil
	}
	return time.ParseDuration(d.CacheMaxAge)
}

// LoadFromFile loads configuration from a YAML or JSON file. Fields the
// file leaves out keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// YAML is a superset of JSON, but keep the JSON error when both fail
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(raw, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", jerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		out []byte
		err error
	)

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		out, err = yaml.Marshal(c)
	} else {
		out, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.Symbol) == "" && c.Data.Source != "csv" {
		return fmt.Errorf("data.symbol is required")
	}
	switch c.Data.Source {
	case "alpaca":
		if _, err := data.ParsePeriod(c.Data.Period, time.Now()); err != nil {
			return fmt.Errorf("data.period: %w", err)
		}
		if _, err := data.ParseInterval(c.Data.Interval); err != nil {
			return fmt.Errorf("data.interval: %w", err)
		}
	case "csv":
		if c.Data.CSV == "" {
			return fmt.Errorf("data.csv is required for csv source")
		}
	default:
		return fmt.Errorf("data.source must be 'alpaca' or 'csv'")
	}
	if _, err := c.Data.MaxAge(); err != nil {
		return fmt.Errorf("data.cache_max_age: %w", err)
	}

	if err := c.Strategy.Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	ep := c.Execution
	if ep.InitialCash <= 0 {
		return fmt.Errorf("execution.initial_cash must be positive")
	}
	if ep.TakeProfit <= 0 {
		return fmt.Errorf("execution.take_profit must be positive")
	}
	if ep.StopLoss <= 0 || ep.StopLoss >= 1 {
		return fmt.Errorf("execution.stop_loss must be between 0 and 1")
	}
	if ep.FeeFrac < 0 || ep.FeeFrac >= 1 {
		return fmt.Errorf("execution.fee must be non-negative and below 1")
	}
	if ep.SlippageFrac < 0 || ep.SlippageFrac >= 1 {
		return fmt.Errorf("execution.slippage must be non-negative and below 1")
	}

	if c.Sweep.Workers < 0 {
		return fmt.Errorf("sweep.workers must be non-negative")
	}
	if c.Sweep.Top < 0 {
		return fmt.Errorf("sweep.top must be non-negative")
	}
	for _, w := range append(append([]int{}, c.Sweep.Grid.ShortWindows...), c.Sweep.Grid.LongWindows...) {
		if w <= 0 {
			return fmt.Errorf("sweep.grid windows must be positive")
		}
	}
	return nil
}

// Default returns the SOL-USD hourly setup over six months.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Symbol:   "SOL-USD",
			Period:   "6mo",
			Interval: "1h",
			Source:   "alpaca",
		},
		Strategy:  strategies.DefaultParams(),
		Execution: backtest.DefaultExecution(),
		Sweep: SweepConfig{
			Grid: optimize.DefaultGrid(),
			Top:  10,
		},
	}
}
