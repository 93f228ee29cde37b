package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage-lab/senttrade/pkg/errors"
)

func TestSizeShares(t *testing.T) {
	tests := []struct {
		name             string
		allocation       float64
		entryPrice       float64
		minPositionValue float64
		wantShares       int64
	}{
		{
			name:       "floors to whole shares",
			allocation: 1000,
			entryPrice: 150,
			wantShares: 6,
		},
		{
			name:       "exact division",
			allocation: 1000,
			entryPrice: 100,
			wantShares: 10,
		},
		{
			name:       "allocation too small for one share",
			allocation: 50,
			entryPrice: 100,
			wantShares: 0,
		},
		{
			name:             "allocation below minimum position value",
			allocation:       90,
			entryPrice:       10,
			minPositionValue: 100,
			wantShares:       0,
		},
		{
			name:             "allocation at minimum position value",
			allocation:       100,
			entryPrice:       10,
			minPositionValue: 100,
			wantShares:       10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := SizeShares(tt.allocation, tt.entryPrice, tt.minPositionValue)
			require.NoError(t, err)
			assert.Equal(t, tt.wantShares, shares)
		})
	}
}

func TestSizeSharesRejectsBadEntryPrice(t *testing.T) {
	_, err := SizeShares(1000, 0, 0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidEntryPrice))

	_, err = SizeShares(1000, -5, 0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidEntryPrice))
}

func TestAllocate(t *testing.T) {
	assert.InDelta(t, 30000, Allocate(90000, 3), 1e-9)
	assert.InDelta(t, 90000, Allocate(90000, 1), 1e-9)
	assert.Zero(t, Allocate(90000, 0))
	assert.Zero(t, Allocate(90000, -1))
}

func TestDeployableCapital(t *testing.T) {
	assert.InDelta(t, 90000, DeployableCapital(100000, 0.9), 1e-9)
	assert.InDelta(t, 100000, DeployableCapital(100000, 1.0), 1e-9)
	assert.Zero(t, DeployableCapital(-500, 0.9))
}
