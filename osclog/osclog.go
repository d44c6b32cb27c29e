// Package osclog holds the process-wide diagnostics logger. By default all
// records are discarded; the application installs a real handler with
// SetLogger.
package osclog

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// Replaces the process-wide logger. Passing nil restores the silent default.
// Safe for concurrent use
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Returns the current logger
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// Returns a text logger writing to `w`, at debug level if `verbose` is set
// and info level otherwise
func NewText(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Returns `l` tagged with the subsystem name, falling back to the
// process-wide logger when `l` is nil
func For(l *slog.Logger, subsystem string) *slog.Logger {
	if l == nil {
		l = Logger()
	}
	return l.With(slog.String("subsystem", subsystem))
}
