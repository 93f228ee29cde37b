package types

import (
	"time"

	"github.com/vantage-lab/senttrade/pkg/errors"
)

// SentimentReading is one sentiment score for a symbol on a date.
// Scores are normalized to [-1.0, 1.0].
type SentimentReading struct {
	Symbol string    `csv:"symbol" yaml:"symbol"`
	Date   time.Time `csv:"date" yaml:"date"`
	Score  float64   `csv:"score" yaml:"score"`
}

// Validate checks that the score is within the normalized range.
func (r SentimentReading) Validate() error {
	if r.Score < -1.0 || r.Score > 1.0 {
		return errors.Newf(errors.ErrCodeScoreOutOfRange, "sentiment score %.4f for %s outside [-1.0, 1.0]", r.Score, r.Symbol)
	}

	return nil
}
