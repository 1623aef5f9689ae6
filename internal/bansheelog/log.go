// Package bansheelog wraps log/slog the way the RISC-V host project (this
// module's CPU-emulator cousin in the reference codebase) wraps its own
// logging: a mutex-guarded handler around an io.Writer, plus a level gate.
// It adds one thing that host project has no need for: a custom Trace
// level below Debug, because the spec calls for four distinct log levels
// (error/info/debug/trace) and slog ships no level below Debug.
package bansheelog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LevelTrace sits one notch below slog.LevelDebug. Per-instruction decode
// traces and per-word memory preload traces are logged at this level so
// they can be silenced independently of ordinary debug output.
const LevelTrace = slog.Level(-8)

// handler gates and serializes writes to out. Unlike the stdlib handlers,
// it is safe to share across the engine's per-hart goroutines without an
// external mutex, since every Cpu callback may log. attrs carries
// whatever With/WithGroup accumulated on this handler (and its parents)
// before this record, so it prints alongside the record's own attrs.
type handler struct {
	out   io.Writer
	attrs []slog.Attr
	mu    *sync.Mutex
	level *slog.LevelVar
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &handler{out: h.out, attrs: merged, mu: h.mu, level: h.level}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return h.WithAttrs([]slog.Attr{slog.Group(name)})
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	level := levelString(r.Level)
	parts := []string{r.Time.Format("2006/01/02 15:04:05"), level, r.Message}
	for _, a := range h.attrs {
		parts = append(parts, a.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, a.String())
		return true
	})
	line := strings.Join(parts, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write([]byte(line))
	return err
}

func levelString(l slog.Level) string {
	switch {
	case l <= LevelTrace:
		return "TRACE:"
	case l < slog.LevelInfo:
		return "DEBUG:"
	case l < slog.LevelWarn:
		return "INFO:"
	case l < slog.LevelError:
		return "WARN:"
	default:
		return "ERROR:"
	}
}

// New builds a *slog.Logger writing to out, gated at the given minimum
// level (use LevelTrace to see everything). A nil out defaults to os.Stderr.
func New(out io.Writer, level slog.Level) *slog.Logger {
	if out == nil {
		out = os.Stderr
	}
	lv := &slog.LevelVar{}
	lv.Set(level)
	return slog.New(&handler{
		out:   out,
		mu:    &sync.Mutex{},
		level: lv,
	})
}

// Discard is a logger that drops everything, useful as a safe default for
// embedders that never configure one explicitly.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
