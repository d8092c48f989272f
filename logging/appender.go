package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// DefaultTimeFormatStr is the default time format string for log appenders.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is an output for log entries. This is a subset of the `zapcore.Core` interface.
type Appender interface {
	// Write submits a structured log entry to the appender for logging.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync is for signaling that any buffered logs to `Write` should be flushed. E.g: at shutdown.
	Sync() error
}

// ConsoleAppender will create human readable logs to the underlying writer.
type ConsoleAppender struct {
	io.Writer
	colored bool
}

// NewStdoutAppender creates a new appender that outputs to stdout with colored levels.
func NewStdoutAppender() ConsoleAppender {
	return ConsoleAppender{os.Stdout, true}
}

// NewWriterAppender creates a new appender that outputs to the input writer without colors.
func NewWriterAppender(writer io.Writer) ConsoleAppender {
	return ConsoleAppender{writer, false}
}

// Write outputs the log entry to the underlying stream.
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	line, err := formatLine(entry, fields, appender.colored)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(appender.Writer, line)
	return err
}

// formatLine renders an entry as tab separated time, level, logger name, caller, message and
// JSON fields. Empty parts are left out. On an encoding error the line is returned without its
// fields.
func formatLine(entry zapcore.Entry, fields []zapcore.Field, colored bool) (string, error) {
	parts := make([]string, 0, 6)
	parts = append(parts, entry.Time.Format(DefaultTimeFormatStr))

	level := strings.ToUpper(entry.Level.String())
	if colored {
		level = colorLevel(entry.Level, level)
	}
	parts = append(parts, level)
	if entry.LoggerName != "" {
		parts = append(parts, entry.LoggerName)
	}
	if entry.Caller.Defined {
		parts = append(parts, entry.Caller.TrimmedPath())
	}
	parts = append(parts, entry.Message)
	if len(fields) == 0 {
		return strings.Join(parts, "\t"), nil
	}

	encoded, err := encodeFields(fields)
	if err != nil {
		return strings.Join(parts, "\t"), err
	}
	return strings.Join(append(parts, encoded), "\t"), nil
}

// Sync is a no-op.
func (appender ConsoleAppender) Sync() error {
	return nil
}

// encodeFields uses zap's json encoder, which keeps the fields in order, as opposed to the random
// iteration order of a map.
func encodeFields(fields []zapcore.Field) (string, error) {
	jsonEncoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{SkipLineEnding: true})
	buf, err := jsonEncoder.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return "", err
	}
	defer buf.Free()
	return buf.String(), nil
}

func colorLevel(level zapcore.Level, text string) string {
	var code int
	switch level {
	case zapcore.DebugLevel:
		code = 35
	case zapcore.InfoLevel:
		code = 34
	case zapcore.WarnLevel:
		code = 33
	default:
		code = 31
	}
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", code, text)
}
