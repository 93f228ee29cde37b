// Package provider defines the external data interfaces the backtest engine
// consumes: sentiment scores and historical prices. Implementations exist
// for Polygon.io and Binance (prices), Alpaca news (sentiment), and
// deterministic seeded simulators used as offline test doubles.
package provider

import (
	"context"
	"time"

	"github.com/vantage-lab/senttrade/internal/types"
)

// SentimentProvider supplies one sentiment score per symbol and date.
type SentimentProvider interface {
	// GetScore returns the sentiment score for the symbol on the given
	// date, normalized to [-1.0, 1.0]. A provider may define "no data" as
	// neutral 0.0; that contract must be documented on the implementation,
	// never assumed by callers. Lookup failures return a provider error.
	GetScore(ctx context.Context, symbol string, date time.Time) (float64, error)
}

// PriceProvider supplies historical OHLC data per symbol and date.
type PriceProvider interface {
	// GetBar returns the single aggregated bar covering the whole trading
	// day. Returns a ErrCodeNoData error when the symbol did not trade.
	GetBar(ctx context.Context, symbol string, date time.Time) (types.PriceBar, error)
	// GetSeries returns intraday bars for the day in chronological order.
	// Providers without intraday granularity return ErrCodeNoData so the
	// caller can fall back to single-bar resolution.
	GetSeries(ctx context.Context, symbol string, date time.Time, interval time.Duration) ([]types.PriceBar, error)
}
