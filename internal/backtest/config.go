// Package backtest implements the historical trade-simulation and
// portfolio-accounting engine: sentiment screening, position sizing,
// intraday exit resolution, capital compounding, and report aggregation.
package backtest

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vantage-lab/senttrade/pkg/errors"
)

// ThresholdMode selects how take-profit and stop-loss amounts are applied.
type ThresholdMode string

const (
	// ThresholdAbsolute treats the amounts as dollar offsets from entry.
	ThresholdAbsolute ThresholdMode = "absolute"
	// ThresholdPercent treats the amounts as percentages of entry price.
	ThresholdPercent ThresholdMode = "percent"
)

// SameBarPolicy selects how a bar that reaches both targets is resolved.
type SameBarPolicy string

const (
	// SameBarNearest deterministically picks the target closer to entry.
	SameBarNearest SameBarPolicy = "nearest"
	// SameBarWeighted flips a seeded coin weighted by target distance.
	SameBarWeighted SameBarPolicy = "weighted"
)

// DefaultUniverse is the technology-sector symbol set used when the config
// does not name its own universe.
var DefaultUniverse = []string{
	"NVDA", "MSFT", "AAPL", "AMZN", "GOOGL",
	"META", "AVGO", "TSM", "TSLA", "ORCL",
	"ADBE", "CSCO", "INTU", "QCOM",
}

// Config is the validated parameter bundle for one backtest run. A Config
// is immutable after Validate succeeds.
type Config struct {
	StartDate time.Time `yaml:"start_date" json:"start_date" validate:"required" jsonschema:"title=Start Date,description=First calendar day of the backtest range"`
	EndDate   time.Time `yaml:"end_date" json:"end_date" validate:"required" jsonschema:"title=End Date,description=Last calendar day of the backtest range (inclusive)"`

	// Universe lists the symbols screened each day. Defaults to the
	// technology-sector set when empty.
	Universe []string `yaml:"universe" json:"universe"`

	// EntryTime and ExitTime are wall-clock HH:MM bounds of the trading
	// window. They define the nominal holding duration in single-bar mode.
	EntryTime string `yaml:"entry_time" json:"entry_time"`
	ExitTime  string `yaml:"exit_time" json:"exit_time"`

	TakeProfit    float64       `yaml:"take_profit" json:"take_profit" validate:"gt=0" jsonschema:"title=Take Profit,description=Take-profit amount in dollars or percent depending on threshold_mode"`
	StopLoss      float64       `yaml:"stop_loss" json:"stop_loss" validate:"gt=0" jsonschema:"title=Stop Loss,description=Stop-loss amount in dollars or percent depending on threshold_mode"`
	ThresholdMode ThresholdMode `yaml:"threshold_mode" json:"threshold_mode" validate:"oneof=absolute percent"`

	SentimentMin float64 `yaml:"sentiment_min" json:"sentiment_min" validate:"gte=-1,lte=1"`
	SentimentMax float64 `yaml:"sentiment_max" json:"sentiment_max" validate:"gte=-1,lte=1"`

	InitialCapital     float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0"`
	CapitalUtilization float64 `yaml:"capital_utilization" json:"capital_utilization" validate:"gt=0,lte=1"`
	MinPositionValue   float64 `yaml:"min_position_value" json:"min_position_value" validate:"gte=0"`

	SameBarPolicy SameBarPolicy `yaml:"same_bar_policy" json:"same_bar_policy" validate:"oneof=nearest weighted"`
	// RngSeed seeds the weighted same-bar policy. Unused by "nearest".
	RngSeed int64 `yaml:"rng_seed" json:"rng_seed"`

	// MaxLookaheadBars caps walk-forward scanning, one trading session by
	// default.
	MaxLookaheadBars int `yaml:"max_lookahead_bars" json:"max_lookahead_bars" validate:"gte=0"`
	// IntradayIntervalMinutes is the bar width requested for walk-forward
	// resolution.
	IntradayIntervalMinutes int `yaml:"intraday_interval_minutes" json:"intraday_interval_minutes" validate:"gte=0"`

	// ProviderTimeout bounds each sentiment or price lookup.
	ProviderTimeout time.Duration `yaml:"provider_timeout" json:"provider_timeout"`
}

// DefaultConfig returns a Config carrying the strategy defaults; start and
// end date must still be set by the caller.
func DefaultConfig() Config {
	return Config{
		Universe:                append([]string(nil), DefaultUniverse...),
		EntryTime:               "06:30",
		ExitTime:                "12:59",
		TakeProfit:              0.50,
		StopLoss:                1.50,
		ThresholdMode:           ThresholdAbsolute,
		SentimentMin:            0.0,
		SentimentMax:            0.7,
		InitialCapital:          100000,
		CapitalUtilization:      0.9,
		MinPositionValue:        100,
		SameBarPolicy:           SameBarNearest,
		MaxLookaheadBars:        390,
		IntradayIntervalMinutes: 1,
		ProviderTimeout:         10 * time.Second,
	}
}

// LoadConfig reads and validates a YAML config file. Missing fields take
// the strategy defaults.
func LoadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfig, err, "failed to read config file %s", path)
	}

	return ParseConfig(content)
}

// ParseConfig unmarshals and validates a YAML config document.
func ParseConfig(content []byte) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal(content, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, "failed to parse config YAML", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks the struct tags and the cross-field invariants. Any
// failure is fatal: no simulation starts with an invalid Config.
func (c *Config) Validate() error {
	if len(c.Universe) == 0 {
		return errors.New(errors.ErrCodeEmptyUniverse, "universe must contain at least one symbol")
	}

	v := validator.New()
	if err := v.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "config failed validation", err)
	}

	if c.StartDate.After(c.EndDate) {
		return errors.Newf(errors.ErrCodeInvalidDateRange, "start date %s after end date %s",
			c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"))
	}

	if c.SentimentMin > c.SentimentMax {
		return errors.Newf(errors.ErrCodeInvalidSentimentBounds, "sentiment lower bound %.2f above upper bound %.2f",
			c.SentimentMin, c.SentimentMax)
	}

	if c.EntryTime != "" {
		if _, err := parseClock(c.EntryTime); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfig, err, "invalid entry_time %q", c.EntryTime)
		}
	}

	if c.ExitTime != "" {
		if _, err := parseClock(c.ExitTime); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfig, err, "invalid exit_time %q", c.ExitTime)
		}
	}

	return nil
}

// NominalHoldingMinutes is the entry-to-exit window length used as the
// holding duration when only a single aggregated bar is available. Falls
// back to one full session when the window is not configured.
func (c *Config) NominalHoldingMinutes() float64 {
	const session = 390

	if c.EntryTime == "" || c.ExitTime == "" {
		return session
	}

	entry, errEntry := parseClock(c.EntryTime)
	exit, errExit := parseClock(c.ExitTime)

	if errEntry != nil || errExit != nil || exit <= entry {
		return session
	}

	return float64(exit - entry)
}

// TargetPrices converts the configured amounts into absolute take-profit
// and stop-loss target prices for the given entry.
func (c *Config) TargetPrices(entryPrice float64) (takeProfit, stopLoss float64) {
	if c.ThresholdMode == ThresholdPercent {
		return entryPrice * (1 + c.TakeProfit/100), entryPrice * (1 - c.StopLoss/100)
	}

	return entryPrice + c.TakeProfit, entryPrice - c.StopLoss
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	var hours, minutes int

	if _, err := fmt.Sscanf(s, "%d:%d", &hours, &minutes); err != nil {
		return 0, err
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}

	return hours*60 + minutes, nil
}
