package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vantage-lab/senttrade/pkg/errors"
)

func TestPriceBarValidate(t *testing.T) {
	ts := time.Date(2024, 8, 1, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		bar     PriceBar
		wantErr bool
	}{
		{
			name: "valid bar",
			bar:  PriceBar{Symbol: "AAPL", Time: ts, Open: 100, High: 101.5, Low: 99.5, Close: 100.8},
		},
		{
			name: "flat bar",
			bar:  PriceBar{Symbol: "AAPL", Time: ts, Open: 100, High: 100, Low: 100, Close: 100},
		},
		{
			name:    "low above high",
			bar:     PriceBar{Symbol: "AAPL", Time: ts, Open: 100, High: 99, Low: 101, Close: 100},
			wantErr: true,
		},
		{
			name:    "open above high",
			bar:     PriceBar{Symbol: "AAPL", Time: ts, Open: 102, High: 101, Low: 99, Close: 100},
			wantErr: true,
		},
		{
			name:    "close below low",
			bar:     PriceBar{Symbol: "AAPL", Time: ts, Open: 100, High: 101, Low: 99, Close: 98},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bar.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidBar))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSentimentReadingValidate(t *testing.T) {
	day := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, SentimentReading{Symbol: "NVDA", Date: day, Score: 0.62}.Validate())
	assert.NoError(t, SentimentReading{Symbol: "NVDA", Date: day, Score: -1.0}.Validate())
	assert.NoError(t, SentimentReading{Symbol: "NVDA", Date: day, Score: 1.0}.Validate())

	err := SentimentReading{Symbol: "NVDA", Date: day, Score: 1.01}.Validate()
	assert.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeScoreOutOfRange))
}
