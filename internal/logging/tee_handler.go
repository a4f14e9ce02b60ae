package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// teeHandler sends every record to the console handler and to the JSON
// daemon log. The console is authoritative: a failing log file is reported
// there once and never fails the call.
type teeHandler struct {
	console slog.Handler
	file    slog.Handler
	// fileFailed is shared by every handler derived through WithAttrs or
	// WithGroup so the failure is reported once per process.
	fileFailed *atomic.Bool
}

func newTeeHandler(console, file slog.Handler) slog.Handler {
	switch {
	case console == nil && file == nil:
		return NoopHandler{}
	case file == nil:
		return console
	case console == nil:
		return file
	}
	return &teeHandler{console: console, file: file, fileFailed: new(atomic.Bool)}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.file.Enabled(ctx, record.Level) {
		if err := h.file.Handle(ctx, record.Clone()); err != nil && h.fileFailed.CompareAndSwap(false, true) {
			h.reportFileFailure(ctx, err)
		}
	}
	if !h.console.Enabled(ctx, record.Level) {
		return nil
	}
	return h.console.Handle(ctx, record)
}

func (h *teeHandler) reportFileFailure(ctx context.Context, err error) {
	if !h.console.Enabled(ctx, slog.LevelWarn) {
		return
	}
	warn := slog.NewRecord(time.Now(), slog.LevelWarn, "daemon log file write failed; continuing on console only", 0)
	warn.AddAttrs(
		String(FieldEventType, "log_file_failed"),
		Error(err),
		String(FieldErrorHint, "check free space and permissions of logging.dir"),
		String(FieldImpact, LogFileName+" is missing entries"),
	)
	_ = h.console.Handle(ctx, warn)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{console: h.console.WithAttrs(attrs), file: h.file.WithAttrs(attrs), fileFailed: h.fileFailed}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{console: h.console.WithGroup(name), file: h.file.WithGroup(name), fileFailed: h.fileFailed}
}

// TeeLogger copies everything base logs into the daemon log file handler.
func TeeLogger(base *slog.Logger, file slog.Handler) *slog.Logger {
	if base == nil {
		return slog.New(newTeeHandler(nil, file))
	}
	return slog.New(newTeeHandler(base.Handler(), file))
}
