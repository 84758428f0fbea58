package compiler

import (
	"context"
	"io"
	"log/slog"
)

// InfrastructureLogger derives a compiler logger from base that only lets
// through records allowed by level.
func InfrastructureLogger(base *slog.Logger, level LogLevel) *slog.Logger {
	if level == LogLevelNone {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(&levelHandler{min: slogLevel(level), inner: base.Handler()})
}

func slogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelLog, LogLevelVerbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// levelHandler raises the minimum level of an existing handler.
type levelHandler struct {
	min   slog.Level
	inner slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.min && h.inner.Enabled(ctx, l)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{min: h.min, inner: h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{min: h.min, inner: h.inner.WithGroup(name)}
}
