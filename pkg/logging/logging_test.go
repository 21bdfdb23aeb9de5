package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetupBuildsLogger(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		logger, err := Setup(false)
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	})

	t.Run("debug", func(t *testing.T) {
		logger, err := Setup(true)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	})
}

func TestSyncToleratesAnyLogger(t *testing.T) {
	Sync(nil)
	Sync(zap.NewNop())

	logger, err := Setup(false)
	require.NoError(t, err)
	Sync(logger)
}
