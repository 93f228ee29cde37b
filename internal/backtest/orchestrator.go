package backtest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/vantage-lab/senttrade/internal/logger"
	"github.com/vantage-lab/senttrade/internal/provider"
	"github.com/vantage-lab/senttrade/internal/types"
	"github.com/vantage-lab/senttrade/pkg/errors"
)

// ProgressFunc receives per-day progress: days completed, total trading
// days in range, and the day just finished.
type ProgressFunc func(completed, total int, date time.Time)

// DiagnosticKind classifies a per-symbol oddity recorded during a run.
type DiagnosticKind string

const (
	// DiagSentimentFailure means the sentiment lookup failed for a symbol.
	DiagSentimentFailure DiagnosticKind = "sentiment_failure"
	// DiagPriceFailure means no usable daily bar existed for a candidate.
	DiagPriceFailure DiagnosticKind = "price_failure"
	// DiagUndersizedPosition means the allocation could not buy one share.
	DiagUndersizedPosition DiagnosticKind = "undersized_position"
	// DiagNoDataTrade means a position resolved flat for lack of exit data.
	DiagNoDataTrade DiagnosticKind = "no_data_trade"
)

// DiagnosticEvent records one skipped or degraded (symbol, date) pair.
type DiagnosticEvent struct {
	Date   time.Time      `yaml:"date" json:"date"`
	Symbol string         `yaml:"symbol" json:"symbol"`
	Kind   DiagnosticKind `yaml:"kind" json:"kind"`
}

// Diagnostics surfaces the non-fatal oddities of a run. Individual symbol
// failures never abort a backtest; each one lands in Events with the
// matching counter bumped, so callers can audit data completeness.
type Diagnostics struct {
	TradingDays           int               `yaml:"trading_days" json:"trading_days"`
	SkippedWeekendDays    int               `yaml:"skipped_weekend_days" json:"skipped_weekend_days"`
	DaysWithoutCandidates int               `yaml:"days_without_candidates" json:"days_without_candidates"`
	SentimentFailures     int               `yaml:"sentiment_failures" json:"sentiment_failures"`
	PriceFailures         int               `yaml:"price_failures" json:"price_failures"`
	UndersizedPositions   int               `yaml:"undersized_positions" json:"undersized_positions"`
	NoDataTrades          int               `yaml:"no_data_trades" json:"no_data_trades"`
	Events                []DiagnosticEvent `yaml:"events,omitempty" json:"events,omitempty"`
}

// addEvent appends a per-symbol event and bumps its counter.
func (d *Diagnostics) addEvent(kind DiagnosticKind, date time.Time, symbol string) {
	switch kind {
	case DiagSentimentFailure:
		d.SentimentFailures++
	case DiagPriceFailure:
		d.PriceFailures++
	case DiagUndersizedPosition:
		d.UndersizedPositions++
	case DiagNoDataTrade:
		d.NoDataTrades++
	}

	d.Events = append(d.Events, DiagnosticEvent{Date: date, Symbol: symbol, Kind: kind})
}

// Engine drives one backtest: day by day it screens the universe, sizes
// positions from the compounded capital, resolves exits, and records
// everything in the ledger.
type Engine struct {
	config     *Config
	sentiment  provider.SentimentProvider
	prices     provider.PriceProvider
	screener   *Screener
	simulator  *Simulator
	ledger     *PortfolioLedger
	logger     *logger.Logger
	onProgress optional.Option[ProgressFunc]
}

// NewEngine wires a validated config to its providers. The ledger is owned
// by the engine and released by Close.
func NewEngine(config *Config, sentiment provider.SentimentProvider, prices provider.PriceProvider, l *logger.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ledger, err := NewPortfolioLedger(config.InitialCapital, l)
	if err != nil {
		return nil, err
	}

	if err := ledger.Initialize(); err != nil {
		ledger.Cleanup()
		return nil, err
	}

	return &Engine{
		config:     config,
		sentiment:  sentiment,
		prices:     prices,
		screener:   NewScreener(sentiment, config, l),
		simulator:  NewSimulator(config),
		ledger:     ledger,
		logger:     l,
		onProgress: optional.None[ProgressFunc](),
	}, nil
}

// SetProgressCallback registers a per-day progress callback.
func (e *Engine) SetProgressCallback(fn ProgressFunc) {
	e.onProgress = optional.Some(fn)
}

// Run executes the full date range and returns the aggregated report.
// Weekends are skipped; a day with no qualifying candidates still produces
// a daily summary so the capital chain has no gaps.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	diagnostics := Diagnostics{}
	tradingDays := CountTradingDays(e.config.StartDate, e.config.EndDate)
	completed := 0

	for date := e.config.StartDate; !date.After(e.config.EndDate); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnknown, "backtest cancelled", err)
		}

		if isWeekend(date) {
			diagnostics.SkippedWeekendDays++
			continue
		}

		diagnostics.TradingDays++

		if err := e.runDay(ctx, date, &diagnostics); err != nil {
			return nil, err
		}

		completed++

		e.onProgress.IfSome(func(fn ProgressFunc) {
			fn(completed, tradingDays, date)
		})
	}

	report, err := Aggregate(e.config, e.ledger, diagnostics)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// Ledger exposes the underlying ledger, mainly for persistence after Run.
func (e *Engine) Ledger() *PortfolioLedger {
	return e.ledger
}

// Close releases the ledger. Call after any persistence is done.
func (e *Engine) Close() error {
	return e.ledger.Cleanup()
}

// runDay screens, sizes, and resolves one trading day. The capital split
// is fixed at day start: every candidate gets an equal slice of the
// deployable capital regardless of how sibling positions resolve.
func (e *Engine) runDay(ctx context.Context, date time.Time, diagnostics *Diagnostics) error {
	screen := e.screener.Screen(ctx, date)
	for _, symbol := range screen.Errored {
		diagnostics.addEvent(DiagSentimentFailure, date, symbol)
	}

	qualifying := len(screen.Candidates)

	e.logger.Debug("screened universe",
		zap.Time("date", date),
		zap.Int("qualifying", qualifying),
		zap.Int("rejected", len(screen.Rejected)),
		zap.Int("errored", len(screen.Errored)))

	if qualifying == 0 {
		diagnostics.DaysWithoutCandidates++
		return e.ledger.RecordDay(date, 0, 0, 0)
	}

	available := DeployableCapital(e.ledger.CurrentCapital(), e.config.CapitalUtilization)
	allocation := Allocate(available, qualifying)

	dayPnL := 0.0
	dayTrades := 0

	for _, candidate := range screen.Candidates {
		trade, ok, err := e.tradeCandidate(ctx, date, candidate, allocation, diagnostics)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		if err := e.ledger.RecordTrade(trade); err != nil {
			return err
		}

		dayPnL += trade.PnL
		dayTrades++
	}

	return e.ledger.RecordDay(date, dayTrades, qualifying, dayPnL)
}

// tradeCandidate opens and resolves a single position. Returns ok=false
// when no trade happened: unpriceable entry or an undersized allocation.
func (e *Engine) tradeCandidate(ctx context.Context, date time.Time, candidate Candidate, allocation float64, diagnostics *Diagnostics) (types.Trade, bool, error) {
	bar, err := e.fetchBar(ctx, candidate.Symbol, date)
	if err != nil {
		e.logger.Warn("daily bar lookup failed",
			zap.String("symbol", candidate.Symbol),
			zap.Time("date", date),
			zap.Error(err))
		diagnostics.addEvent(DiagPriceFailure, date, candidate.Symbol)

		return types.Trade{}, false, nil
	}

	entryPrice := bar.Open

	shares, err := SizeShares(allocation, entryPrice, e.config.MinPositionValue)
	if err != nil {
		e.logger.Warn("daily bar has no usable entry price",
			zap.String("symbol", candidate.Symbol),
			zap.Time("date", date),
			zap.Float64("open", entryPrice),
			zap.Error(err))
		diagnostics.addEvent(DiagPriceFailure, date, candidate.Symbol)

		return types.Trade{}, false, nil
	}

	if shares == 0 {
		diagnostics.addEvent(DiagUndersizedPosition, date, candidate.Symbol)
		return types.Trade{}, false, nil
	}

	outcome := e.resolve(ctx, candidate.Symbol, date, entryPrice, bar, diagnostics)

	trade := types.Trade{
		ID:             uuid.New().String(),
		Date:           date,
		Symbol:         candidate.Symbol,
		Sentiment:      candidate.Sentiment,
		EntryTime:      bar.Time,
		EntryPrice:     entryPrice,
		Shares:         shares,
		ExitTime:       outcome.ExitTime,
		ExitPrice:      outcome.ExitPrice,
		ExitReason:     outcome.Reason,
		PnL:            types.ComputePnL(entryPrice, outcome.ExitPrice, shares),
		HoldingMinutes: outcome.HoldingMinutes,
	}

	return trade, true, nil
}

// resolve prefers intraday walk-forward resolution and falls back to the
// daily bar when no intraday series exists. A resolution failure becomes a
// flat no-data exit rather than a run failure.
func (e *Engine) resolve(ctx context.Context, symbol string, date time.Time, entryPrice float64, bar types.PriceBar, diagnostics *Diagnostics) Outcome {
	interval := time.Duration(e.config.IntradayIntervalMinutes) * time.Minute

	if interval > 0 {
		series, err := e.fetchSeries(ctx, symbol, date, interval)
		if err == nil && len(series) > 0 {
			outcome, serr := e.simulator.ResolveSeries(symbol, date, entryPrice, series)
			if serr == nil {
				return outcome
			}

			e.logger.Warn("intraday resolution failed, falling back to daily bar",
				zap.String("symbol", symbol),
				zap.Error(serr))
		} else if err != nil && !errors.HasCode(err, errors.ErrCodeNoData) {
			e.logger.Warn("intraday series lookup failed, falling back to daily bar",
				zap.String("symbol", symbol),
				zap.Error(err))
		}
	}

	outcome, err := e.simulator.ResolveBar(symbol, date, entryPrice, bar)
	if err != nil {
		e.logger.Warn("daily bar resolution failed, recording no-data exit",
			zap.String("symbol", symbol),
			zap.Error(err))
		diagnostics.addEvent(DiagNoDataTrade, date, symbol)

		return NoDataOutcome(entryPrice, date)
	}

	return outcome
}

func (e *Engine) fetchBar(ctx context.Context, symbol string, date time.Time) (types.PriceBar, error) {
	if e.config.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.ProviderTimeout)
		defer cancel()
	}

	return e.prices.GetBar(ctx, symbol, date)
}

func (e *Engine) fetchSeries(ctx context.Context, symbol string, date time.Time, interval time.Duration) ([]types.PriceBar, error) {
	if e.config.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.ProviderTimeout)
		defer cancel()
	}

	return e.prices.GetSeries(ctx, symbol, date, interval)
}

// CountTradingDays counts the weekdays in the inclusive date range.
func CountTradingDays(start, end time.Time) int {
	count := 0

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if !isWeekend(date) {
			count++
		}
	}

	return count
}

func isWeekend(date time.Time) bool {
	weekday := date.Weekday()

	return weekday == time.Saturday || weekday == time.Sunday
}
