package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreText(t *testing.T) {
	tests := []struct {
		name string
		text string
		sign int // -1 negative, 0 neutral, 1 positive
	}{
		{
			name: "positive earnings headline",
			text: "Acme beats expectations as revenue surges to record",
			sign: 1,
		},
		{
			name: "negative headline",
			text: "Acme shares plunge after downgrade and layoffs",
			sign: -1,
		},
		{
			name: "neutral headline",
			text: "Acme schedules annual shareholder meeting for June",
			sign: 0,
		},
		{
			name: "negated positive",
			text: "Acme does not beat estimates this quarter",
			sign: -1,
		},
		{
			name: "empty text",
			text: "",
			sign: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreText(tt.text)
			assert.GreaterOrEqual(t, score, -1.0)
			assert.LessOrEqual(t, score, 1.0)

			switch tt.sign {
			case 1:
				assert.Positive(t, score)
			case -1:
				assert.Negative(t, score)
			default:
				assert.Zero(t, score)
			}
		})
	}
}

func TestScoreTextMixedLandsBetweenExtremes(t *testing.T) {
	pos := ScoreText("profits surge on strong growth")
	neg := ScoreText("stock plunges on weak losses")
	mixed := ScoreText("profits surge but stock drops")

	assert.Greater(t, pos, mixed)
	assert.Less(t, neg, mixed)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 1.0, clampScore(1.7))
	assert.Equal(t, -1.0, clampScore(-2.3))
	assert.Equal(t, 0.42, clampScore(0.42))
}
