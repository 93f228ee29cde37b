package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/vantage-lab/senttrade/internal/types"
	"github.com/vantage-lab/senttrade/pkg/errors"
)

// PolygonProvider reads historical aggregates from the Polygon.io REST API.
type PolygonProvider struct {
	client *polygon.Client
}

// NewPolygonProvider creates a Polygon-backed price provider.
func NewPolygonProvider(apiKey string) (PriceProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeProviderAuth, "polygon provider requires an API key")
	}

	return &PolygonProvider{
		client: polygon.New(apiKey),
	}, nil
}

// GetBar returns the daily aggregate for the symbol.
func (p *PolygonProvider) GetBar(ctx context.Context, symbol string, date time.Time) (types.PriceBar, error) {
	dayStart := midnightUTC(date)
	dayEnd := dayStart.Add(24 * time.Hour)

	bars, err := p.listAggs(ctx, symbol, dayStart, dayEnd, 1, models.Day)
	if err != nil {
		return types.PriceBar{}, err
	}

	if len(bars) == 0 {
		return types.PriceBar{}, errors.Newf(errors.ErrCodeNoData, "no daily aggregate for %s on %s", symbol, dayStart.Format("2006-01-02"))
	}

	return bars[0], nil
}

// GetSeries returns minute-level aggregates for the trading day in
// chronological order.
func (p *PolygonProvider) GetSeries(ctx context.Context, symbol string, date time.Time, interval time.Duration) ([]types.PriceBar, error) {
	dayStart := midnightUTC(date)
	dayEnd := dayStart.Add(24 * time.Hour)

	multiplier := int(interval / time.Minute)
	if multiplier < 1 {
		multiplier = 1
	}

	bars, err := p.listAggs(ctx, symbol, dayStart, dayEnd, multiplier, models.Minute)
	if err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoData, "no intraday aggregates for %s on %s", symbol, dayStart.Format("2006-01-02"))
	}

	return bars, nil
}

func (p *PolygonProvider) listAggs(ctx context.Context, symbol string, from, to time.Time, multiplier int, timespan models.Timespan) ([]types.PriceBar, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithLimit(50000)

	iter := p.client.ListAggs(ctx, params)

	var bars []types.PriceBar

	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, types.PriceBar{
			Symbol: symbol,
			Time:   time.Time(agg.Timestamp),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if iter.Err() != nil {
		return nil, errors.Wrapf(errors.ErrCodeProviderFailure, iter.Err(), "error iterating polygon aggregates for %s", symbol)
	}

	return bars, nil
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
