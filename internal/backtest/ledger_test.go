package backtest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/vantage-lab/senttrade/internal/logger"
	"github.com/vantage-lab/senttrade/internal/types"
)

type LedgerTestSuite struct {
	suite.Suite
	ledger *PortfolioLedger
	logger *logger.Logger
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) SetupSuite() {
	s.logger = logger.NewNopLogger()
}

func (s *LedgerTestSuite) SetupTest() {
	ledger, err := NewPortfolioLedger(100000, s.logger)
	s.Require().NoError(err)
	s.Require().NoError(ledger.Initialize())
	s.ledger = ledger
}

func (s *LedgerTestSuite) TearDownTest() {
	if s.ledger != nil {
		s.ledger.Cleanup()
	}
}

func (s *LedgerTestSuite) newTrade(symbol string, pnl float64, reason types.ExitReason) types.Trade {
	date := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	entry := time.Date(2024, 8, 5, 13, 30, 0, 0, time.UTC)

	return types.Trade{
		ID:             uuid.New().String(),
		Date:           date,
		Symbol:         symbol,
		Sentiment:      0.3,
		EntryTime:      entry,
		EntryPrice:     100,
		Shares:         10,
		ExitTime:       entry.Add(30 * time.Minute),
		ExitPrice:      100 + pnl/10,
		ExitReason:     reason,
		PnL:            pnl,
		HoldingMinutes: 30,
	}
}

func (s *LedgerTestSuite) TestRejectsNonPositiveCapital() {
	_, err := NewPortfolioLedger(0, s.logger)
	s.Assert().Error(err)

	_, err = NewPortfolioLedger(-100, s.logger)
	s.Assert().Error(err)
}

func (s *LedgerTestSuite) TestRecordTradeCompoundsCapital() {
	s.Require().NoError(s.ledger.RecordTrade(s.newTrade("AAPL", 500, types.ExitReasonTakeProfit)))
	s.Assert().InDelta(100500, s.ledger.CurrentCapital(), 1e-9)

	s.Require().NoError(s.ledger.RecordTrade(s.newTrade("MSFT", -150, types.ExitReasonStopLoss)))
	s.Assert().InDelta(100350, s.ledger.CurrentCapital(), 1e-9)

	s.Assert().InDelta(100000, s.ledger.InitialCapital(), 1e-9)
}

func (s *LedgerTestSuite) TestRejectsInvalidTrade() {
	trade := s.newTrade("AAPL", 500, types.ExitReasonTakeProfit)
	trade.Shares = -1

	err := s.ledger.RecordTrade(trade)
	s.Assert().Error(err)
	s.Assert().InDelta(100000, s.ledger.CurrentCapital(), 1e-9)
}

func (s *LedgerTestSuite) TestTradesRoundTrip() {
	first := s.newTrade("AAPL", 500, types.ExitReasonTakeProfit)
	second := s.newTrade("MSFT", -150, types.ExitReasonStopLoss)

	s.Require().NoError(s.ledger.RecordTrade(first))
	s.Require().NoError(s.ledger.RecordTrade(second))

	trades, err := s.ledger.Trades()
	s.Require().NoError(err)
	s.Require().Len(trades, 2)

	s.Assert().Equal("AAPL", trades[0].Symbol)
	s.Assert().Equal("MSFT", trades[1].Symbol)
	s.Assert().Equal(first.ID, trades[0].ID)
	s.Assert().Equal(types.ExitReasonStopLoss, trades[1].ExitReason)
	s.Assert().InDelta(-150, trades[1].PnL, 1e-9)
	s.Assert().EqualValues(10, trades[0].Shares)
}

func (s *LedgerTestSuite) TestDaysRoundTrip() {
	date := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)

	s.Require().NoError(s.ledger.RecordTrade(s.newTrade("AAPL", 500, types.ExitReasonTakeProfit)))
	s.Require().NoError(s.ledger.RecordDay(date, 1, 3, 500))
	s.Require().NoError(s.ledger.RecordDay(date.AddDate(0, 0, 1), 0, 0, 0))

	days, err := s.ledger.Days()
	s.Require().NoError(err)
	s.Require().Len(days, 2)

	s.Assert().Equal(1, days[0].Trades)
	s.Assert().Equal(3, days[0].QualifyingCount)
	s.Assert().InDelta(500, days[0].PnL, 1e-9)
	s.Assert().InDelta(100500, days[0].CapitalAfterDay, 1e-9)

	// Flat day carries the capital forward unchanged.
	s.Assert().Equal(0, days[1].Trades)
	s.Assert().InDelta(100500, days[1].CapitalAfterDay, 1e-9)
}

func (s *LedgerTestSuite) TestExitReasonCounts() {
	s.Require().NoError(s.ledger.RecordTrade(s.newTrade("AAPL", 500, types.ExitReasonTakeProfit)))
	s.Require().NoError(s.ledger.RecordTrade(s.newTrade("MSFT", 300, types.ExitReasonTakeProfit)))
	s.Require().NoError(s.ledger.RecordTrade(s.newTrade("NVDA", -150, types.ExitReasonStopLoss)))

	counts, err := s.ledger.ExitReasonCounts()
	s.Require().NoError(err)

	s.Assert().Equal(2, counts[types.ExitReasonTakeProfit])
	s.Assert().Equal(1, counts[types.ExitReasonStopLoss])
	s.Assert().Zero(counts[types.ExitReasonTimeExit])
}

func (s *LedgerTestSuite) TestWriteExportsParquet() {
	dir := s.T().TempDir()

	s.Require().NoError(s.ledger.RecordTrade(s.newTrade("AAPL", 500, types.ExitReasonTakeProfit)))
	s.Require().NoError(s.ledger.RecordDay(time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC), 1, 1, 500))

	s.Require().NoError(s.ledger.Write(dir))

	for _, name := range []string{"trades.parquet", "daily_summaries.parquet"} {
		info, err := os.Stat(filepath.Join(dir, name))
		s.Require().NoError(err)
		assert.Positive(s.T(), info.Size())
	}
}
