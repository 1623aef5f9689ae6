package bansheelog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGatesByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, slog.LevelInfo)

	logger.Debug("should not appear")
	assert.Empty(t, buf.String())

	logger.Info("should appear")
	assert.Contains(t, buf.String(), "INFO:")
	assert.Contains(t, buf.String(), "should appear")
}

func TestLevelTraceIsBelowDebug(t *testing.T) {
	assert.Less(t, int(LevelTrace), int(slog.LevelDebug))

	buf := &bytes.Buffer{}
	logger := New(buf, LevelTrace)

	logger.Log(nil, LevelTrace, "trace line")
	assert.Contains(t, buf.String(), "TRACE:")
	assert.Contains(t, buf.String(), "trace line")
}

func TestWithAttrsCarriesThroughToHandle(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, slog.LevelInfo).With(slog.Int("hart", 3))

	logger.Info("ping")
	assert.Contains(t, buf.String(), "hart=3")
}

func TestDiscardDropsEverything(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() {
		logger.Error("should be silently dropped")
	})
}
