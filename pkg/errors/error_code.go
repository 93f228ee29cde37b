package errors

// ErrorCode identifies a class of failure inside the backtest engine.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Config errors (100-199). These are fatal: a run never starts with an
	// invalid config.
	ErrCodeInvalidConfig          ErrorCode = 100
	ErrCodeInvalidDateRange       ErrorCode = 101
	ErrCodeInvalidSentimentBounds ErrorCode = 102
	ErrCodeInvalidThreshold       ErrorCode = 103
	ErrCodeInvalidUtilization     ErrorCode = 104
	ErrCodeInvalidCapital         ErrorCode = 105
	ErrCodeMissingParameter       ErrorCode = 106
	ErrCodeEmptyUniverse          ErrorCode = 107

	// Provider errors (200-299). Recovered locally: a failing lookup skips
	// the symbol or the day, never the run.
	ErrCodeProviderFailure  ErrorCode = 200
	ErrCodeProviderTimeout  ErrorCode = 201
	ErrCodeNoData           ErrorCode = 202
	ErrCodeScoreOutOfRange  ErrorCode = 203
	ErrCodeProviderAuth     ErrorCode = 204
	ErrCodeUnknownProvider  ErrorCode = 205
	ErrCodeProviderResponse ErrorCode = 206

	// Ledger errors (300-399)
	ErrCodeLedgerInsertFailed ErrorCode = 300
	ErrCodeLedgerQueryFailed  ErrorCode = 301
	ErrCodeLedgerExportFailed ErrorCode = 302
	ErrCodeLedgerNotOpen      ErrorCode = 303

	// Simulation errors (400-499)
	ErrCodeInvalidEntryPrice ErrorCode = 400
	ErrCodeInvalidBar        ErrorCode = 401
	ErrCodeInvalidShares     ErrorCode = 402

	// Report errors (500-599)
	ErrCodeReportFailed      ErrorCode = 500
	ErrCodeReportWriteFailed ErrorCode = 501
)

// IsConfigCode reports whether the code belongs to the fatal config range.
func IsConfigCode(code ErrorCode) bool {
	return code >= 100 && code < 200
}

// IsProviderCode reports whether the code belongs to the recoverable provider range.
func IsProviderCode(code ErrorCode) bool {
	return code >= 200 && code < 300
}
