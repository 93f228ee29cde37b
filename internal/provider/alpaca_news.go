package provider

import (
	"context"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/vantage-lab/senttrade/pkg/errors"
)

// maxArticlesPerScore caps how many articles feed one day's score. More
// articles past this point add latency without moving the average much.
const maxArticlesPerScore = 10

// AlpacaNewsProvider scores sentiment from Alpaca news headlines using a
// financial polarity lexicon.
//
// Contract: a day with no articles for the symbol returns a neutral 0.0
// score with no error. Only transport and API failures are provider errors.
type AlpacaNewsProvider struct {
	client *marketdata.Client
}

// NewAlpacaNewsProvider creates an Alpaca-news-backed sentiment provider.
func NewAlpacaNewsProvider(apiKey, apiSecret string) (SentimentProvider, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New(errors.ErrCodeProviderAuth, "alpaca news provider requires API key and secret")
	}

	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}

	return &AlpacaNewsProvider{
		client: marketdata.NewClient(opts),
	}, nil
}

// GetScore fetches the day's headlines for the symbol and returns the mean
// lexicon score across at most maxArticlesPerScore articles, clamped to
// [-1.0, 1.0].
func (p *AlpacaNewsProvider) GetScore(ctx context.Context, symbol string, date time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeProviderTimeout, "news lookup cancelled", err)
	}

	dayStart := midnightUTC(date)
	dayEnd := dayStart.Add(24 * time.Hour)

	articles, err := p.client.GetNews(marketdata.GetNewsRequest{
		Symbols:    []string{symbol},
		Start:      dayStart,
		End:        dayEnd,
		TotalLimit: maxArticlesPerScore,
		Sort:       marketdata.SortAsc,
	})
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeProviderFailure, err, "failed to fetch news for %s", symbol)
	}

	if len(articles) == 0 {
		// No articles is defined as neutral for this provider.
		return 0.0, nil
	}

	var total float64

	for _, article := range articles {
		text := article.Headline
		if article.Summary != "" {
			text += " " + article.Summary
		}

		total += ScoreText(text)
	}

	score := total / float64(len(articles))

	return clampScore(score), nil
}

func clampScore(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}

	if score < -1.0 {
		return -1.0
	}

	return score
}
