// Package logging contains the leveled, structured logger used across headcast.
package logging

import (
	"io"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger = NewDebugLogger("headcast")

	// GlobalLogLevel forces every headcast logger to write debug logs when set to DEBUG. The CLI
	// sets it with --debug.
	GlobalLogLevel = NewAtomicLevelAt(INFO)
)

// ReplaceGlobal replaces the global logger.
func ReplaceGlobal(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// Global returns the global logger.
func Global() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

func newLogger(name string, level Level, inUTC bool, appenders ...Appender) *impl {
	return &impl{
		name:      name,
		level:     NewAtomicLevelAt(level),
		inUTC:     inUTC,
		appenders: appenders,
	}
}

// NewLogger returns a logger that writes Info+ logs to stdout in UTC.
func NewLogger(name string) Logger {
	return newLogger(name, INFO, true, NewStdoutAppender())
}

// NewDebugLogger returns a logger that writes Debug+ logs to stdout in UTC.
func NewDebugLogger(name string) Logger {
	return newLogger(name, DEBUG, true, NewStdoutAppender())
}

// NewWriterLogger returns a logger at level that writes uncolored logs to w in UTC.
func NewWriterLogger(name string, level Level, w io.Writer) Logger {
	return newLogger(name, level, true, NewWriterAppender(w))
}
