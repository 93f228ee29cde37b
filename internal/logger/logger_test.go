package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
	assert.NoError(t, logger.Sync())
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	require.NotNil(t, logger)
	// Must not panic on use.
	logger.Info("discarded")
	assert.NoError(t, logger.Sync())
}

func TestSyncNilLogger(t *testing.T) {
	l := &Logger{}
	assert.NoError(t, l.Sync())
}
