package colscan

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with scan-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBlock adds a block field to the logger.
func (l *Logger) WithBlock(block int) *Logger {
	return &Logger{
		Logger: l.Logger.With("block", block),
	}
}

// WithColumn adds a column ordinal field to the logger.
func (l *Logger) WithColumn(ordinal int) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", ordinal),
	}
}

// LogBlockScan logs the outcome of scanning one block.
func (l *Logger) LogBlockScan(ctx context.Context, block, pages, matched int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "block scan failed",
			"block", block,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "block scan completed",
			"block", block,
			"pages", pages,
			"matched", matched,
		)
	}
}

// LogPrune logs a block skipped by its statistics.
func (l *Logger) LogPrune(ctx context.Context, block int) {
	l.DebugContext(ctx, "block pruned",
		"block", block,
	)
}
