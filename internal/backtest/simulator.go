package backtest

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/vantage-lab/senttrade/internal/types"
	"github.com/vantage-lab/senttrade/pkg/errors"
	"github.com/vantage-lab/senttrade/pkg/utils"
)

// Outcome is the resolved exit of one simulated position.
type Outcome struct {
	Reason         types.ExitReason
	ExitPrice      float64
	ExitTime       time.Time
	HoldingMinutes float64
}

// Simulator resolves take-profit, stop-loss, and time exits against
// historical bars. Resolution is deterministic for a given config: the
// weighted same-bar policy derives its randomness from the configured seed
// and the trade identity, never from call order.
type Simulator struct {
	config *Config
}

// NewSimulator creates a Simulator for the given config.
func NewSimulator(config *Config) *Simulator {
	return &Simulator{config: config}
}

// ResolveBar resolves a position against a single aggregated bar. Target
// checks are inclusive: touching the take-profit or stop-loss price counts
// as a fill at that price. When the bar's range covers both targets the
// configured same-bar policy decides which fired first.
func (s *Simulator) ResolveBar(symbol string, date time.Time, entryPrice float64, bar types.PriceBar) (Outcome, error) {
	if err := bar.Validate(); err != nil {
		return Outcome{}, errors.Wrapf(errors.ErrCodeInvalidBar, err, "invalid bar for %s", symbol)
	}

	takeProfit, stopLoss := s.config.TargetPrices(entryPrice)
	holding := s.config.NominalHoldingMinutes()
	exitTime := bar.Time.Add(time.Duration(holding) * time.Minute)

	reason, exitPrice := s.resolveRange(symbol, date, entryPrice, bar, takeProfit, stopLoss)
	if reason == "" {
		reason = types.ExitReasonTimeExit
		exitPrice = bar.Close
	}

	return Outcome{
		Reason:         reason,
		ExitPrice:      utils.RoundToCurrency(exitPrice),
		ExitTime:       exitTime,
		HoldingMinutes: holding,
	}, nil
}

// ResolveSeries walks intraday bars forward from entry and reports the
// first bar whose range reaches a target. Scanning is capped at the
// configured lookahead; an unreached target becomes a time exit at the last
// scanned close.
func (s *Simulator) ResolveSeries(symbol string, date time.Time, entryPrice float64, bars []types.PriceBar) (Outcome, error) {
	if len(bars) == 0 {
		return Outcome{}, errors.Newf(errors.ErrCodeNoData, "no intraday bars for %s", symbol)
	}

	takeProfit, stopLoss := s.config.TargetPrices(entryPrice)

	limit := len(bars)
	if s.config.MaxLookaheadBars > 0 && s.config.MaxLookaheadBars < limit {
		limit = s.config.MaxLookaheadBars
	}

	entryTime := bars[0].Time

	for i := 0; i < limit; i++ {
		bar := bars[i]

		if err := bar.Validate(); err != nil {
			return Outcome{}, errors.Wrapf(errors.ErrCodeInvalidBar, err, "invalid bar %d for %s", i, symbol)
		}

		reason, exitPrice := s.resolveRange(symbol, date, entryPrice, bar, takeProfit, stopLoss)
		if reason == "" {
			continue
		}

		return Outcome{
			Reason:         reason,
			ExitPrice:      utils.RoundToCurrency(exitPrice),
			ExitTime:       bar.Time,
			HoldingMinutes: bar.Time.Sub(entryTime).Minutes(),
		}, nil
	}

	last := bars[limit-1]

	return Outcome{
		Reason:         types.ExitReasonTimeExit,
		ExitPrice:      utils.RoundToCurrency(last.Close),
		ExitTime:       last.Time,
		HoldingMinutes: last.Time.Sub(entryTime).Minutes(),
	}, nil
}

// NoDataOutcome is the bookkeeping exit for a position whose price data
// never materialized: flat at entry, zero holding time.
func NoDataOutcome(entryPrice float64, date time.Time) Outcome {
	return Outcome{
		Reason:         types.ExitReasonNoData,
		ExitPrice:      utils.RoundToCurrency(entryPrice),
		ExitTime:       date,
		HoldingMinutes: 0,
	}
}

// resolveRange checks one bar against both targets. Returns an empty
// reason when neither target is inside the bar's range.
func (s *Simulator) resolveRange(symbol string, date time.Time, entryPrice float64, bar types.PriceBar, takeProfit, stopLoss float64) (types.ExitReason, float64) {
	tpHit := bar.High >= takeProfit
	slHit := bar.Low <= stopLoss

	switch {
	case tpHit && slHit:
		if s.pickTakeProfit(symbol, date, entryPrice, takeProfit, stopLoss) {
			return types.ExitReasonTakeProfit, takeProfit
		}
		return types.ExitReasonStopLoss, stopLoss
	case tpHit:
		return types.ExitReasonTakeProfit, takeProfit
	case slHit:
		return types.ExitReasonStopLoss, stopLoss
	default:
		return "", 0
	}
}

// pickTakeProfit decides an ambiguous bar that straddles both targets.
// The nearest policy assumes the closer target was reached first and
// prefers take-profit on an exact tie. The weighted policy flips a coin
// biased toward the closer target, seeded by the trade identity so the
// decision is reproducible across runs.
func (s *Simulator) pickTakeProfit(symbol string, date time.Time, entryPrice, takeProfit, stopLoss float64) bool {
	tpDistance := math.Abs(takeProfit - entryPrice)
	slDistance := math.Abs(entryPrice - stopLoss)

	if s.config.SameBarPolicy == SameBarWeighted {
		total := tpDistance + slDistance
		if total == 0 {
			return true
		}

		rng := rand.New(rand.NewSource(tradeSeed(s.config.RngSeed, symbol, date)))

		return rng.Float64() < slDistance/total
	}

	return tpDistance <= slDistance
}

// tradeSeed derives a per-trade seed from the run seed and the trade
// identity, keeping weighted resolution independent of evaluation order.
func tradeSeed(base int64, symbol string, date time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	h.Write([]byte(date.UTC().Format("2006-01-02")))

	return base ^ int64(h.Sum64())
}
