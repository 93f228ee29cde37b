package backtest

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vantage-lab/senttrade/internal/types"
	"github.com/vantage-lab/senttrade/pkg/errors"
	"github.com/vantage-lab/senttrade/pkg/utils"
)

// Report is the full result of one backtest run: the echoed config, the
// aggregate statistics, and the raw trade and daily records they were
// computed from.
type Report struct {
	RunID       string               `yaml:"run_id" json:"run_id"`
	GeneratedAt time.Time            `yaml:"generated_at" json:"generated_at"`
	Config      Config               `yaml:"config" json:"config"`
	Summary     types.SummaryStats   `yaml:"summary" json:"summary"`
	Diagnostics Diagnostics          `yaml:"diagnostics" json:"diagnostics"`
	Trades      []types.Trade        `yaml:"trades" json:"trades"`
	Days        []types.DailySummary `yaml:"days" json:"days"`
}

// Aggregate computes the run statistics from the ledger's records.
func Aggregate(config *Config, ledger *PortfolioLedger, diagnostics Diagnostics) (*Report, error) {
	trades, err := ledger.Trades()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReportFailed, "failed to load trades", err)
	}

	days, err := ledger.Days()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReportFailed, "failed to load daily summaries", err)
	}

	counts, err := ledger.ExitReasonCounts()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReportFailed, "failed to load exit reason counts", err)
	}

	exitReasons := make(map[types.ExitReason]int, len(types.AllExitReasons))
	for _, reason := range types.AllExitReasons {
		exitReasons[reason] = counts[reason]
	}

	summary := types.SummaryStats{
		StartingCapital: ledger.InitialCapital(),
		FinalCapital:    ledger.CurrentCapital(),
		TotalTrades:     len(trades),
		TradingDays:     diagnostics.TradingDays,
		ExitReasons:     exitReasons,
	}

	totalHolding := 0.0

	for i := range trades {
		trade := trades[i]

		summary.TotalPnL += trade.PnL
		totalHolding += trade.HoldingMinutes

		if trade.IsWin() {
			summary.WinningTrades++
		} else if trade.PnL < 0 {
			summary.LosingTrades++
		}

		if summary.BestTrade == nil || trade.PnL > summary.BestTrade.PnL {
			best := trade
			summary.BestTrade = &best
		}

		if summary.WorstTrade == nil || trade.PnL < summary.WorstTrade.PnL {
			worst := trade
			summary.WorstTrade = &worst
		}
	}

	summary.TotalPnL = utils.RoundToCurrency(summary.TotalPnL)

	if len(trades) > 0 {
		summary.WinRate = float64(summary.WinningTrades) / float64(len(trades)) * 100
		summary.AvgHoldingMinutes = totalHolding / float64(len(trades))
	}

	if summary.StartingCapital > 0 {
		summary.TotalReturnPct = (summary.FinalCapital - summary.StartingCapital) / summary.StartingCapital * 100
	}

	capitals := make([]float64, 0, len(days)+1)
	capitals = append(capitals, summary.StartingCapital)

	for _, day := range days {
		capitals = append(capitals, day.CapitalAfterDay)
	}

	summary.MaxDrawdownPct = MaxDrawdown(capitals)

	return &Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Config:      *config,
		Summary:     summary,
		Diagnostics: diagnostics,
		Trades:      trades,
		Days:        days,
	}, nil
}

// MaxDrawdown returns the largest peak-to-trough decline of the capital
// series, as a percentage of the running peak.
func MaxDrawdown(capitals []float64) float64 {
	if len(capitals) == 0 {
		return 0
	}

	peak := capitals[0]
	maxDrawdown := 0.0

	for _, capital := range capitals {
		if capital > peak {
			peak = capital
		}

		if peak > 0 {
			drawdown := (peak - capital) / peak * 100
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}

// WriteYAML persists the report as a YAML document at the given path.
func (r *Report) WriteYAML(path string) error {
	if err := types.WriteYAML(path, r); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to write report to %s", path)
	}

	return nil
}

// Persist writes the YAML report plus the parquet ledger export into the
// output directory.
func (r *Report) Persist(dir string, ledger *PortfolioLedger) error {
	if err := ledger.Write(dir); err != nil {
		return err
	}

	return r.WriteYAML(filepath.Join(dir, "report.yaml"))
}
