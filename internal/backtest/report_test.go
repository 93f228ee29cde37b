package backtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage-lab/senttrade/internal/logger"
	"github.com/vantage-lab/senttrade/internal/types"
)

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name     string
		capitals []float64
		want     float64
	}{
		{
			name:     "peak then trough",
			capitals: []float64{100000, 105000, 98000, 110000},
			want:     6.6667,
		},
		{
			name:     "monotonic growth has no drawdown",
			capitals: []float64{100000, 101000, 102000},
			want:     0,
		},
		{
			name:     "single value",
			capitals: []float64{100000},
			want:     0,
		},
		{
			name:     "empty",
			capitals: nil,
			want:     0,
		},
		{
			name:     "decline from start",
			capitals: []float64{100000, 90000},
			want:     10,
		},
		{
			name:     "later deeper trough wins",
			capitals: []float64{100, 95, 120, 96},
			want:     20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MaxDrawdown(tt.capitals), 0.001)
		})
	}
}

func TestAggregate(t *testing.T) {
	config := validConfig()
	l := logger.NewNopLogger()

	ledger, err := NewPortfolioLedger(100000, l)
	require.NoError(t, err)
	defer ledger.Cleanup()
	require.NoError(t, ledger.Initialize())

	date := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	entry := time.Date(2024, 8, 5, 13, 30, 0, 0, time.UTC)

	record := func(symbol string, pnl float64, reason types.ExitReason, holding float64) {
		require.NoError(t, ledger.RecordTrade(types.Trade{
			ID:             uuid.New().String(),
			Date:           date,
			Symbol:         symbol,
			Sentiment:      0.4,
			EntryTime:      entry,
			EntryPrice:     100,
			Shares:         10,
			ExitTime:       entry.Add(time.Duration(holding) * time.Minute),
			ExitPrice:      100 + pnl/10,
			ExitReason:     reason,
			PnL:            pnl,
			HoldingMinutes: holding,
		}))
	}

	record("AAPL", 500, types.ExitReasonTakeProfit, 20)
	record("MSFT", -150, types.ExitReasonStopLoss, 40)
	record("NVDA", 250, types.ExitReasonTimeExit, 390)
	require.NoError(t, ledger.RecordDay(date, 3, 3, 600))

	diagnostics := Diagnostics{TradingDays: 1}

	report, err := Aggregate(&config, ledger, diagnostics)
	require.NoError(t, err)

	summary := report.Summary
	assert.Equal(t, 3, summary.TotalTrades)
	assert.Equal(t, 2, summary.WinningTrades)
	assert.Equal(t, 1, summary.LosingTrades)
	assert.InDelta(t, 66.667, summary.WinRate, 0.01)
	assert.InDelta(t, 600, summary.TotalPnL, 1e-9)
	assert.InDelta(t, 0.6, summary.TotalReturnPct, 1e-9)
	assert.InDelta(t, 100000, summary.StartingCapital, 1e-9)
	assert.InDelta(t, 100600, summary.FinalCapital, 1e-9)
	assert.InDelta(t, 150, summary.AvgHoldingMinutes, 1e-9)
	assert.Equal(t, 1, summary.TradingDays)

	require.NotNil(t, summary.BestTrade)
	require.NotNil(t, summary.WorstTrade)
	assert.Equal(t, "AAPL", summary.BestTrade.Symbol)
	assert.Equal(t, "MSFT", summary.WorstTrade.Symbol)

	assert.Equal(t, 1, summary.ExitReasons[types.ExitReasonTakeProfit])
	assert.Equal(t, 1, summary.ExitReasons[types.ExitReasonStopLoss])
	assert.Equal(t, 1, summary.ExitReasons[types.ExitReasonTimeExit])
	assert.Equal(t, 0, summary.ExitReasons[types.ExitReasonNoData])
	assert.Len(t, summary.ExitReasons, len(types.AllExitReasons))

	assert.NotEmpty(t, report.RunID)
	assert.Len(t, report.Trades, 3)
	assert.Len(t, report.Days, 1)
}

func TestAggregateEmptyRun(t *testing.T) {
	config := validConfig()
	l := logger.NewNopLogger()

	ledger, err := NewPortfolioLedger(100000, l)
	require.NoError(t, err)
	defer ledger.Cleanup()
	require.NoError(t, ledger.Initialize())

	report, err := Aggregate(&config, ledger, Diagnostics{})
	require.NoError(t, err)

	assert.Zero(t, report.Summary.TotalTrades)
	assert.Zero(t, report.Summary.WinRate)
	assert.Zero(t, report.Summary.MaxDrawdownPct)
	assert.InDelta(t, 100000, report.Summary.FinalCapital, 1e-9)
	assert.Nil(t, report.Summary.BestTrade)
	assert.Nil(t, report.Summary.WorstTrade)

	// Every exit reason is present at zero even when nothing traded, so
	// report consumers see a stable key set.
	require.Len(t, report.Summary.ExitReasons, len(types.AllExitReasons))
	for _, reason := range types.AllExitReasons {
		count, ok := report.Summary.ExitReasons[reason]
		assert.True(t, ok)
		assert.Zero(t, count)
	}
}

func TestReportPersist(t *testing.T) {
	config := validConfig()
	l := logger.NewNopLogger()

	ledger, err := NewPortfolioLedger(100000, l)
	require.NoError(t, err)
	defer ledger.Cleanup()
	require.NoError(t, ledger.Initialize())
	require.NoError(t, ledger.RecordDay(time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC), 0, 0, 0))

	report, err := Aggregate(&config, ledger, Diagnostics{TradingDays: 1})
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, report.Persist(dir, ledger))

	assert.FileExists(t, filepath.Join(dir, "report.yaml"))
	assert.FileExists(t, filepath.Join(dir, "trades.parquet"))
	assert.FileExists(t, filepath.Join(dir, "daily_summaries.parquet"))
}
