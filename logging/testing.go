package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// testAppender writes through tb.Log so output is attributed to the test that logged it.
type testAppender struct {
	tb testing.TB
}

// NewTestAppender returns an appender that logs through tb.Log.
func NewTestAppender(tb testing.TB) Appender {
	return testAppender{tb}
}

func (a testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	a.tb.Helper()
	line, err := formatLine(entry, fields, false)
	a.tb.Log(line)
	return err
}

func (a testAppender) Sync() error {
	return nil
}

// NewTestLogger returns a Debug+ logger that writes through tb.Log in local time.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also records entries in memory so tests can
// assert on them.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	return newLogger("", DEBUG, false, NewTestAppender(tb), observerCore), observedLogs
}
