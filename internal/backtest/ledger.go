package backtest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/vantage-lab/senttrade/internal/logger"
	"github.com/vantage-lab/senttrade/internal/types"
	"github.com/vantage-lab/senttrade/pkg/errors"
	"github.com/vantage-lab/senttrade/pkg/utils"
)

// PortfolioLedger is the run's system of record. Every executed trade and
// every completed day is appended to an in-memory DuckDB store, and the
// capital chain is derived strictly from what was recorded.
type PortfolioLedger struct {
	db      *sql.DB
	logger  *logger.Logger
	sq      squirrel.StatementBuilderType
	capital float64
	initial float64
}

// NewPortfolioLedger opens an in-memory ledger seeded with the starting
// capital.
func NewPortfolioLedger(initialCapital float64, l *logger.Logger) (*PortfolioLedger, error) {
	if initialCapital <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidCapital, "initial capital must be positive, got %.2f", initialCapital)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		l.Error("Failed to open ledger database", zap.Error(err))
		return nil, errors.Wrap(errors.ErrCodeLedgerNotOpen, "failed to open ledger database", err)
	}

	return &PortfolioLedger{
		db:      db,
		logger:  l,
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		capital: initialCapital,
		initial: initialCapital,
	}, nil
}

// Initialize creates the trades and daily summary tables.
func (l *PortfolioLedger) Initialize() error {
	_, err := l.db.Exec(`CREATE SEQUENCE IF NOT EXISTS trade_seq`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerInsertFailed, "failed to create trade sequence", err)
	}

	_, err = l.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			seq BIGINT DEFAULT nextval('trade_seq'),
			trade_id TEXT,
			trade_date DATE,
			symbol TEXT,
			sentiment DOUBLE,
			entry_time TIMESTAMP,
			entry_price DOUBLE,
			shares BIGINT,
			exit_time TIMESTAMP,
			exit_price DOUBLE,
			exit_reason TEXT,
			pnl DOUBLE,
			holding_minutes DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerInsertFailed, "failed to create trades table", err)
	}

	_, err = l.db.Exec(`
		CREATE TABLE IF NOT EXISTS daily_summaries (
			seq BIGINT DEFAULT nextval('trade_seq'),
			trade_date DATE,
			trades INTEGER,
			qualifying INTEGER,
			pnl DOUBLE,
			capital_after DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerInsertFailed, "failed to create daily summaries table", err)
	}

	return nil
}

// RecordTrade appends a closed trade and applies its P&L to the running
// capital.
func (l *PortfolioLedger) RecordTrade(trade types.Trade) error {
	if err := trade.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerInsertFailed, "refusing to record invalid trade", err)
	}

	insertQuery := l.sq.
		Insert("trades").
		Columns(
			"trade_id", "trade_date", "symbol", "sentiment", "entry_time", "entry_price",
			"shares", "exit_time", "exit_price", "exit_reason", "pnl", "holding_minutes",
		).
		Values(
			trade.ID, trade.Date, trade.Symbol, trade.Sentiment, trade.EntryTime, trade.EntryPrice,
			trade.Shares, trade.ExitTime, trade.ExitPrice, string(trade.ExitReason), trade.PnL, trade.HoldingMinutes,
		).
		RunWith(l.db)

	if _, err := insertQuery.Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerInsertFailed, "failed to insert trade", err)
	}

	l.capital = utils.RoundToCurrency(l.capital + trade.PnL)

	return nil
}

// RecordDay appends the completed day's summary at the current capital.
func (l *PortfolioLedger) RecordDay(date time.Time, trades, qualifying int, pnl float64) error {
	insertQuery := l.sq.
		Insert("daily_summaries").
		Columns("trade_date", "trades", "qualifying", "pnl", "capital_after").
		Values(date, trades, qualifying, pnl, l.capital).
		RunWith(l.db)

	if _, err := insertQuery.Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerInsertFailed, "failed to insert daily summary", err)
	}

	return nil
}

// CurrentCapital reports the capital after every recorded trade so far.
func (l *PortfolioLedger) CurrentCapital() float64 {
	return l.capital
}

// InitialCapital reports the capital the ledger was seeded with.
func (l *PortfolioLedger) InitialCapital() float64 {
	return l.initial
}

// Trades returns every recorded trade in insertion order.
func (l *PortfolioLedger) Trades() ([]types.Trade, error) {
	selectQuery := l.sq.
		Select(
			"trade_id", "trade_date", "symbol", "sentiment", "entry_time", "entry_price",
			"shares", "exit_time", "exit_price", "exit_reason", "pnl", "holding_minutes",
		).
		From("trades").
		OrderBy("seq ASC").
		RunWith(l.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLedgerQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var trades []types.Trade

	for rows.Next() {
		var t types.Trade
		var reason string

		if err := rows.Scan(
			&t.ID, &t.Date, &t.Symbol, &t.Sentiment, &t.EntryTime, &t.EntryPrice,
			&t.Shares, &t.ExitTime, &t.ExitPrice, &reason, &t.PnL, &t.HoldingMinutes,
		); err != nil {
			return nil, errors.Wrap(errors.ErrCodeLedgerQueryFailed, "failed to scan trade row", err)
		}

		t.ExitReason = types.ExitReason(reason)
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLedgerQueryFailed, "failed to iterate trade rows", err)
	}

	return trades, nil
}

// Days returns every recorded daily summary in chronological insertion
// order.
func (l *PortfolioLedger) Days() ([]types.DailySummary, error) {
	selectQuery := l.sq.
		Select("trade_date", "trades", "qualifying", "pnl", "capital_after").
		From("daily_summaries").
		OrderBy("seq ASC").
		RunWith(l.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLedgerQueryFailed, "failed to query daily summaries", err)
	}
	defer rows.Close()

	var days []types.DailySummary

	for rows.Next() {
		var d types.DailySummary

		if err := rows.Scan(&d.Date, &d.Trades, &d.QualifyingCount, &d.PnL, &d.CapitalAfterDay); err != nil {
			return nil, errors.Wrap(errors.ErrCodeLedgerQueryFailed, "failed to scan daily summary row", err)
		}

		days = append(days, d)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLedgerQueryFailed, "failed to iterate daily summary rows", err)
	}

	return days, nil
}

// ExitReasonCounts aggregates the recorded trades by exit reason.
func (l *PortfolioLedger) ExitReasonCounts() (map[types.ExitReason]int, error) {
	selectQuery := l.sq.
		Select("exit_reason", "COUNT(*)").
		From("trades").
		GroupBy("exit_reason").
		RunWith(l.db)

	rows, err := selectQuery.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLedgerQueryFailed, "failed to aggregate exit reasons", err)
	}
	defer rows.Close()

	counts := make(map[types.ExitReason]int)

	for rows.Next() {
		var reason string
		var count int

		if err := rows.Scan(&reason, &count); err != nil {
			return nil, errors.Wrap(errors.ErrCodeLedgerQueryFailed, "failed to scan exit reason row", err)
		}

		counts[types.ExitReason(reason)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLedgerQueryFailed, "failed to iterate exit reason rows", err)
	}

	return counts, nil
}

// Write exports the ledger tables as parquet files under the given
// directory.
func (l *PortfolioLedger) Write(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeLedgerExportFailed, "failed to create output directory", err)
	}

	tradesPath := filepath.Join(dir, "trades.parquet")

	_, err := l.db.Exec(fmt.Sprintf(`COPY trades TO '%s' (FORMAT PARQUET)`, tradesPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerExportFailed, "failed to export trades", err)
	}

	daysPath := filepath.Join(dir, "daily_summaries.parquet")

	_, err = l.db.Exec(fmt.Sprintf(`COPY daily_summaries TO '%s' (FORMAT PARQUET)`, daysPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeLedgerExportFailed, "failed to export daily summaries", err)
	}

	l.logger.Info("Ledger exported",
		zap.String("trades", tradesPath),
		zap.String("daily_summaries", daysPath))

	return nil
}

// Cleanup closes the underlying database.
func (l *PortfolioLedger) Cleanup() error {
	return l.db.Close()
}
