package provider

import (
	"github.com/vantage-lab/senttrade/pkg/errors"
)

// PriceProviderType selects a PriceProvider implementation.
type PriceProviderType string

// SentimentProviderType selects a SentimentProvider implementation.
type SentimentProviderType string

const (
	PricePolygon PriceProviderType = "polygon"
	PriceBinance PriceProviderType = "binance"
	PriceSim     PriceProviderType = "sim"

	SentimentAlpacaNews SentimentProviderType = "alpaca_news"
	SentimentSim        SentimentProviderType = "sim"
)

// ProviderInfo contains metadata about a data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

var priceRegistry = map[PriceProviderType]ProviderInfo{
	PricePolygon: {
		Name:         string(PricePolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market data provider with historical daily and minute OHLCV aggregates",
		RequiresAuth: true,
	},
	PriceBinance: {
		Name:         string(PriceBinance),
		DisplayName:  "Binance",
		Description:  "Cryptocurrency exchange with extensive kline data for crypto trading pairs",
		RequiresAuth: false,
	},
	PriceSim: {
		Name:         string(PriceSim),
		DisplayName:  "Simulated",
		Description:  "Deterministic seeded price generator for offline runs and tests",
		RequiresAuth: false,
	},
}

var sentimentRegistry = map[SentimentProviderType]ProviderInfo{
	SentimentAlpacaNews: {
		Name:         string(SentimentAlpacaNews),
		DisplayName:  "Alpaca News",
		Description:  "News-headline sentiment scored with a financial polarity lexicon",
		RequiresAuth: true,
	},
	SentimentSim: {
		Name:         string(SentimentSim),
		DisplayName:  "Simulated",
		Description:  "Deterministic seeded per-symbol sentiment generator for offline runs and tests",
		RequiresAuth: false,
	},
}

// SupportedPriceProviders returns the names of all price providers.
func SupportedPriceProviders() []string {
	names := make([]string, 0, len(priceRegistry))
	for t := range priceRegistry {
		names = append(names, string(t))
	}

	return names
}

// SupportedSentimentProviders returns the names of all sentiment providers.
func SupportedSentimentProviders() []string {
	names := make([]string, 0, len(sentimentRegistry))
	for t := range sentimentRegistry {
		names = append(names, string(t))
	}

	return names
}

// GetPriceProviderInfo returns metadata for one price provider.
func GetPriceProviderInfo(name string) (ProviderInfo, error) {
	info, exists := priceRegistry[PriceProviderType(name)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeUnknownProvider, "unsupported price provider: %s", name)
	}

	return info, nil
}

// GetSentimentProviderInfo returns metadata for one sentiment provider.
func GetSentimentProviderInfo(name string) (ProviderInfo, error) {
	info, exists := sentimentRegistry[SentimentProviderType(name)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeUnknownProvider, "unsupported sentiment provider: %s", name)
	}

	return info, nil
}

// PriceProviderConfig carries the credentials and tuning for price provider
// construction.
type PriceProviderConfig struct {
	PolygonAPIKey string
	SimSeed       int64
}

// SentimentProviderConfig carries the credentials and tuning for sentiment
// provider construction.
type SentimentProviderConfig struct {
	AlpacaAPIKey    string
	AlpacaAPISecret string
	SimSeed         int64
}

// NewPriceProvider creates a price provider of the given type.
func NewPriceProvider(providerType PriceProviderType, config PriceProviderConfig) (PriceProvider, error) {
	switch providerType {
	case PricePolygon:
		return NewPolygonProvider(config.PolygonAPIKey)
	case PriceBinance:
		return NewBinanceProvider(), nil
	case PriceSim:
		return NewSimPriceProvider(config.SimSeed), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownProvider, "unsupported price provider: %s", providerType)
	}
}

// NewSentimentProvider creates a sentiment provider of the given type.
func NewSentimentProvider(providerType SentimentProviderType, config SentimentProviderConfig) (SentimentProvider, error) {
	switch providerType {
	case SentimentAlpacaNews:
		return NewAlpacaNewsProvider(config.AlpacaAPIKey, config.AlpacaAPISecret)
	case SentimentSim:
		return NewSimSentimentProvider(config.SimSeed), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownProvider, "unsupported sentiment provider: %s", providerType)
	}
}
