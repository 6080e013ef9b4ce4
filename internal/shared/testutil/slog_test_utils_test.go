package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		require.Equal(t, 2, handler.Count())
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("with attrs shares the store", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "dataset")).Warn("slow load")

		require.Equal(t, 1, handler.Count())
		assert.True(t, handler.ContainsAttr("component", "dataset"))
		AssertLogContains(t, handler, slog.LevelWarn, "slow")
	})

	t.Run("no errors", func(t *testing.T) {
		logger, handler := NewTestLogger(nil)
		logger.Info("fine")
		AssertNoErrors(t, handler)
	})
}
