package backtest

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/vantage-lab/senttrade/pkg/errors"
)

// SizeShares converts an equal-split capital allocation into a whole-share
// quantity at the given entry price. Fractional shares are never issued.
// Returns zero shares when the allocation falls below the minimum position
// value or cannot afford a single share.
func SizeShares(allocation, entryPrice, minPositionValue float64) (int64, error) {
	if entryPrice <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidEntryPrice, "entry price must be positive, got %.4f", entryPrice)
	}

	if allocation < minPositionValue {
		return 0, nil
	}

	shares := decimal.NewFromFloat(allocation).
		Div(decimal.NewFromFloat(entryPrice)).
		IntPart()
	if shares < 0 {
		return 0, nil
	}

	return shares, nil
}

// Allocate splits the day's deployable capital equally across the
// qualifying candidates. The split is computed once per day, before any
// position resolves, so one candidate's outcome never skews another's
// allocation.
func Allocate(availableCapital float64, qualifyingCount int) float64 {
	if qualifyingCount <= 0 {
		return 0
	}

	return availableCapital / float64(qualifyingCount)
}

// DeployableCapital applies the utilization fraction to the current
// capital, keeping the remainder as a cash buffer for the day.
func DeployableCapital(currentCapital, utilization float64) float64 {
	return math.Max(0, currentCapital*utilization)
}
