package cpustate

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetZeroesEverything(t *testing.T) {
	var s State
	s.Regs[5] = 0xdeadbeef
	s.FRegs[2] = 0x1122334455667788
	s.PC = 0x1000
	s.Instret = 42
	s.SsrEnable = 1

	s.Reset()

	assert.Equal(t, State{}, s)
}

func TestLogGridSkipsFormattingWhenDisabled(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var s State
	s.LogGrid(logger, slog.LevelDebug, 0)

	assert.Empty(t, buf.String())
}

func TestLogGridEmitsRegisterDumpWhenEnabled(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var s State
	s.Regs[5] = 0xdeadbeef
	s.PC = 0x100
	s.LogGrid(logger, slog.LevelDebug, 2)

	out := buf.String()
	assert.Contains(t, out, "cpu state")
	assert.Contains(t, out, "hart=2")
	assert.Contains(t, out, "x5=deadbeef")
}
