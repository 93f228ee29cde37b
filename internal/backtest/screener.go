package backtest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vantage-lab/senttrade/internal/logger"
	"github.com/vantage-lab/senttrade/internal/provider"
	"github.com/vantage-lab/senttrade/internal/types"
)

// Candidate is a symbol that passed the sentiment screen on a given day.
type Candidate struct {
	Symbol    string
	Sentiment float64
}

// ScreenResult partitions one day's universe into qualifying candidates,
// rejected symbols, and symbols whose lookup failed. Every universe symbol
// lands in exactly one bucket, in universe order. Rejected entries keep
// their score so a run can show why each symbol fell outside the band.
type ScreenResult struct {
	Candidates []Candidate
	Rejected   []Candidate
	Errored    []string
}

// Screener filters the symbol universe by daily sentiment score.
type Screener struct {
	provider provider.SentimentProvider
	config   *Config
	logger   *logger.Logger
}

// NewScreener creates a Screener backed by the given sentiment provider.
func NewScreener(p provider.SentimentProvider, config *Config, l *logger.Logger) *Screener {
	return &Screener{
		provider: p,
		config:   config,
		logger:   l,
	}
}

// Screen scores every universe symbol for the given day and partitions the
// universe. Both sentiment bounds are inclusive. A provider failure for one
// symbol does not abort the day; the symbol is recorded as errored.
func (s *Screener) Screen(ctx context.Context, date time.Time) ScreenResult {
	result := ScreenResult{}

	for _, symbol := range s.config.Universe {
		score, err := s.fetchScore(ctx, symbol, date)
		if err != nil {
			s.logger.Warn("sentiment lookup failed",
				zap.String("symbol", symbol),
				zap.Time("date", date),
				zap.Error(err))
			result.Errored = append(result.Errored, symbol)
			continue
		}

		if score >= s.config.SentimentMin && score <= s.config.SentimentMax {
			result.Candidates = append(result.Candidates, Candidate{Symbol: symbol, Sentiment: score})
		} else {
			result.Rejected = append(result.Rejected, Candidate{Symbol: symbol, Sentiment: score})
		}
	}

	return result
}

func (s *Screener) fetchScore(ctx context.Context, symbol string, date time.Time) (float64, error) {
	if s.config.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ProviderTimeout)
		defer cancel()
	}

	score, err := s.provider.GetScore(ctx, symbol, date)
	if err != nil {
		return 0, err
	}

	if err := (types.SentimentReading{Symbol: symbol, Date: date, Score: score}).Validate(); err != nil {
		return 0, err
	}

	return score, nil
}
