package types

import "time"

// DailySummary is the per-day ledger record. One summary is appended for
// every simulated trading day, including zero-trade days.
type DailySummary struct {
	Date             time.Time `csv:"date" yaml:"date"`
	Trades           int       `csv:"trades" yaml:"trades"`
	QualifyingCount  int       `csv:"qualifying_count" yaml:"qualifying_count"`
	PnL              float64   `csv:"pnl" yaml:"pnl"`
	CapitalAfterDay  float64   `csv:"capital_after_day" yaml:"capital_after_day"`
}
