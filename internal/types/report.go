package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SummaryStats holds the derived statistics of one finished backtest run.
// Every field is computed from the ledger; nothing here is stored twice.
type SummaryStats struct {
	// Count of all recorded trades.
	TotalTrades int `yaml:"total_trades"`
	// Count of trades with positive pnl.
	WinningTrades int `yaml:"winning_trades"`
	// Count of trades with negative pnl.
	LosingTrades int `yaml:"losing_trades"`
	// WinRate is winning/total * 100, 0 when no trades were recorded.
	WinRate float64 `yaml:"win_rate"`
	// TotalPnL is final capital minus starting capital.
	TotalPnL float64 `yaml:"total_pnl"`
	// TotalReturnPct is TotalPnL / starting capital * 100.
	TotalReturnPct float64 `yaml:"total_return_pct"`
	// MaxDrawdownPct is the largest peak-to-trough capital decline across
	// the daily summaries, as a percentage of the peak.
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct"`
	// AvgHoldingMinutes is the mean holding time across all trades.
	AvgHoldingMinutes float64 `yaml:"avg_holding_minutes"`
	// StartingCapital echoes the configured starting capital.
	StartingCapital float64 `yaml:"starting_capital"`
	// FinalCapital is the capital after the last simulated day.
	FinalCapital float64 `yaml:"final_capital"`
	// TradingDays is the number of simulated days (weekdays in range).
	TradingDays int `yaml:"trading_days"`
	// BestTrade is the trade with the highest pnl, if any trades exist.
	BestTrade *Trade `yaml:"best_trade,omitempty"`
	// WorstTrade is the trade with the lowest pnl, if any trades exist.
	WorstTrade *Trade `yaml:"worst_trade,omitempty"`
	// ExitReasons maps each exit reason to its trade count.
	ExitReasons map[ExitReason]int `yaml:"exit_reasons"`
}

// WriteYAML marshals any report value to YAML at the given path.
func WriteYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal report to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to file: %w", err)
	}

	return nil
}
