package types

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vantage-lab/senttrade/pkg/errors"
)

// ExitReason describes how a simulated position was closed.
type ExitReason string

const (
	// ExitReasonTakeProfit means the take-profit target was reached.
	ExitReasonTakeProfit ExitReason = "TAKE_PROFIT"
	// ExitReasonStopLoss means the stop-loss target was reached.
	ExitReasonStopLoss ExitReason = "STOP_LOSS"
	// ExitReasonTimeExit means neither target was reached before the exit
	// window closed; the position exits at the last available close.
	ExitReasonTimeExit ExitReason = "TIME_EXIT"
	// ExitReasonNoData means no price data existed for the exit window.
	// The position resolves at its entry price with zero P&L.
	ExitReasonNoData ExitReason = "NO_DATA"
)

// AllExitReasons lists every terminal exit reason in report order.
var AllExitReasons = []ExitReason{
	ExitReasonTakeProfit,
	ExitReasonStopLoss,
	ExitReasonTimeExit,
	ExitReasonNoData,
}

// Trade is one fully resolved simulated position. Trades are append-only:
// once recorded in the ledger they are never mutated.
type Trade struct {
	ID             string     `csv:"id" yaml:"id"`
	Date           time.Time  `csv:"date" yaml:"date"`
	Symbol         string     `csv:"symbol" yaml:"symbol"`
	Sentiment      float64    `csv:"sentiment" yaml:"sentiment"`
	EntryTime      time.Time  `csv:"entry_time" yaml:"entry_time"`
	EntryPrice     float64    `csv:"entry_price" yaml:"entry_price"`
	Shares         int64      `csv:"shares" yaml:"shares"`
	ExitTime       time.Time  `csv:"exit_time" yaml:"exit_time"`
	ExitPrice      float64    `csv:"exit_price" yaml:"exit_price"`
	ExitReason     ExitReason `csv:"exit_reason" yaml:"exit_reason"`
	PnL            float64    `csv:"pnl" yaml:"pnl"`
	HoldingMinutes float64    `csv:"holding_minutes" yaml:"holding_minutes"`
}

// ComputePnL returns (exitPrice - entryPrice) * shares rounded to currency
// precision. Decimal arithmetic avoids float drift on the multiply.
func ComputePnL(entryPrice, exitPrice float64, shares int64) float64 {
	entry := decimal.NewFromFloat(entryPrice)
	exit := decimal.NewFromFloat(exitPrice)
	qty := decimal.NewFromInt(shares)

	pnl, _ := exit.Sub(entry).Mul(qty).Round(2).Float64()

	return pnl
}

// Validate checks the trade invariants: positive shares, positive exit
// price, and P&L consistent with entry/exit prices.
func (t Trade) Validate() error {
	if t.Shares <= 0 {
		return errors.Newf(errors.ErrCodeInvalidShares, "trade %s has non-positive share count %d", t.ID, t.Shares)
	}

	if t.ExitPrice <= 0 {
		return errors.Newf(errors.ErrCodeInvalidEntryPrice, "trade %s has non-positive exit price %.4f", t.ID, t.ExitPrice)
	}

	if want := ComputePnL(t.EntryPrice, t.ExitPrice, t.Shares); t.PnL != want {
		return errors.Newf(errors.ErrCodeInvalidShares, "trade %s pnl %.2f does not match (%.4f-%.4f)*%d=%.2f", t.ID, t.PnL, t.ExitPrice, t.EntryPrice, t.Shares, want)
	}

	return nil
}

// IsWin reports whether the trade closed with positive P&L.
func (t Trade) IsWin() bool {
	return t.PnL > 0
}
