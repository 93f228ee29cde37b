package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/vantage-lab/senttrade/internal/types"
	"github.com/vantage-lab/senttrade/pkg/errors"
)

// BinanceProvider reads historical klines from the public Binance API.
// Intended for crypto universes; no credentials are needed for market data.
type BinanceProvider struct {
	client *binance.Client
}

// NewBinanceProvider creates a Binance-backed price provider.
func NewBinanceProvider() PriceProvider {
	return &BinanceProvider{
		client: binance.NewClient("", ""),
	}
}

// GetBar returns the daily kline for the symbol.
func (p *BinanceProvider) GetBar(ctx context.Context, symbol string, date time.Time) (types.PriceBar, error) {
	bars, err := p.klines(ctx, symbol, date, "1d", 1)
	if err != nil {
		return types.PriceBar{}, err
	}

	if len(bars) == 0 {
		return types.PriceBar{}, errors.Newf(errors.ErrCodeNoData, "no daily kline for %s on %s", symbol, date.Format("2006-01-02"))
	}

	return bars[0], nil
}

// GetSeries returns intraday klines for the day in chronological order.
// Binance caps a single request at 1000 klines, enough for one day of
// minute bars.
func (p *BinanceProvider) GetSeries(ctx context.Context, symbol string, date time.Time, interval time.Duration) ([]types.PriceBar, error) {
	minutes := int(interval / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	bars, err := p.klines(ctx, symbol, date, fmt.Sprintf("%dm", minutes), 1000)
	if err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoData, "no intraday klines for %s on %s", symbol, date.Format("2006-01-02"))
	}

	return bars, nil
}

func (p *BinanceProvider) klines(ctx context.Context, symbol string, date time.Time, interval string, limit int) ([]types.PriceBar, error) {
	dayStart := midnightUTC(date)
	dayEnd := dayStart.Add(24 * time.Hour)

	klines, err := p.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		StartTime(dayStart.UnixMilli()).
		EndTime(dayEnd.UnixMilli() - 1).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeProviderFailure, err, "failed to fetch klines for %s", symbol)
	}

	bars := make([]types.PriceBar, 0, len(klines))

	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		bars = append(bars, types.PriceBar{
			Symbol: symbol,
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return bars, nil
}
