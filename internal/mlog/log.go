// Package mlog provides the small structured-logging wrapper used
// throughout the parser. It carries a package field and a handful of
// helpers over log/slog; the parser logs at debug level for tolerated
// anomalies and never lets logging affect control flow.
package mlog

import (
	"context"
	"log/slog"
)

// Log is a *slog.Logger plus a fixed "pkg" field, attached to every record.
type Log struct {
	Logger *slog.Logger
	pkg    string
}

// New returns a Log for package pkg, logging through base. If base is nil,
// slog.Default() is used.
func New(pkg string, base *slog.Logger) Log {
	if base == nil {
		base = slog.Default()
	}
	return Log{Logger: base.With(slog.String("pkg", pkg)), pkg: pkg}
}

// Debug logs a debug-level message with optional attributes.
func (l Log) Debug(msg string, attrs ...slog.Attr) {
	l.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

// Debugx logs a debug-level message together with the error that triggered
// it. Used when the parser tolerates a malformed input and continues.
func (l Log) Debugx(msg string, err error, attrs ...slog.Attr) {
	all := append([]slog.Attr{slog.Any("err", err)}, attrs...)
	l.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, all...)
}

// Info logs an info-level message with optional attributes.
func (l Log) Info(msg string, attrs ...slog.Attr) {
	l.Logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}
