package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputePnL(t *testing.T) {
	tests := []struct {
		name       string
		entryPrice float64
		exitPrice  float64
		shares     int64
		want       float64
	}{
		{
			name:       "winning trade",
			entryPrice: 100.00,
			exitPrice:  101.00,
			shares:     50,
			want:       50.00,
		},
		{
			name:       "losing trade",
			entryPrice: 100.00,
			exitPrice:  98.00,
			shares:     25,
			want:       -50.00,
		},
		{
			name:       "flat exit",
			entryPrice: 240.55,
			exitPrice:  240.55,
			shares:     10,
			want:       0,
		},
		{
			name:       "fractional cents round to currency precision",
			entryPrice: 100.004,
			exitPrice:  100.007,
			shares:     3,
			want:       0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputePnL(tt.entryPrice, tt.exitPrice, tt.shares), 1e-9)
		})
	}
}

func TestTradeValidate(t *testing.T) {
	day := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	valid := Trade{
		ID:         "t1",
		Date:       day,
		Symbol:     "AAPL",
		EntryPrice: 100.00,
		Shares:     50,
		ExitPrice:  101.00,
		ExitReason: ExitReasonTakeProfit,
		PnL:        50.00,
	}
	assert.NoError(t, valid.Validate())

	zeroShares := valid
	zeroShares.Shares = 0
	assert.Error(t, zeroShares.Validate())

	badExit := valid
	badExit.ExitPrice = 0
	assert.Error(t, badExit.Validate())

	badPnL := valid
	badPnL.PnL = 49.99
	assert.Error(t, badPnL.Validate())
}

func TestTradeIsWin(t *testing.T) {
	assert.True(t, Trade{PnL: 0.01}.IsWin())
	assert.False(t, Trade{PnL: 0}.IsWin())
	assert.False(t, Trade{PnL: -0.01}.IsWin())
}
