package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDateRange, "start date after end date")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeInvalidDateRange, err.Code)
	assert.Equal(t, "[101] start date after end date", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeNoData, "no bars for %s on %s", "AAPL", "2024-08-01")
	assert.Equal(t, "[202] no bars for AAPL on 2024-08-01", err.Error())
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeProviderFailure, "sentiment lookup failed", cause)

	assert.Equal(t, "[200] sentiment lookup failed: connection refused", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{
			name: "structured error",
			err:  New(ErrCodeLedgerQueryFailed, "query failed"),
			want: ErrCodeLedgerQueryFailed,
		},
		{
			name: "wrapped structured error",
			err:  Wrap(ErrCodeProviderTimeout, "timeout", stderrors.New("deadline exceeded")),
			want: ErrCodeProviderTimeout,
		},
		{
			name: "plain error",
			err:  stderrors.New("plain"),
			want: ErrCodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestHasCode(t *testing.T) {
	err := New(ErrCodeScoreOutOfRange, "score 1.5 outside [-1, 1]")
	assert.True(t, HasCode(err, ErrCodeScoreOutOfRange))
	assert.False(t, HasCode(err, ErrCodeNoData))
}

func TestCategoryHelpers(t *testing.T) {
	assert.True(t, IsConfigError(New(ErrCodeInvalidUtilization, "fraction above 1")))
	assert.False(t, IsConfigError(New(ErrCodeNoData, "gap")))

	assert.True(t, IsProviderError(New(ErrCodeProviderTimeout, "timed out")))
	assert.True(t, IsProviderError(Newf(ErrCodeNoData, "no data for %s", "TSLA")))
	assert.False(t, IsProviderError(New(ErrCodeInvalidConfig, "bad config")))
}
