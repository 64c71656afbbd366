package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCaptureLogger(t *testing.T) {
	logger, logs := NewCaptureLogger(slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("run recorded", "run_id", "abc")

	assert.NotContains(t, logs.String(), "hidden")
	assert.Contains(t, logs.String(), "run recorded")
	assert.Contains(t, logs.String(), "run_id=abc")
}

func TestNewTestLogger(t *testing.T) {
	logger := NewTestLogger(t)
	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
}
