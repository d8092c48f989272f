package logging

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	name  string
	level AtomicLevel
	inUTC bool

	appenders []Appender
}

// emitCallerSkip skips emit and the public method that called it.
const emitCallerSkip = 2

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = imp.name + "." + subname
	}
	return &impl{
		name:      name,
		level:     NewAtomicLevelAt(imp.level.Get()),
		inUTC:     imp.inUTC,
		appenders: imp.appenders,
	}
}

func (imp *impl) Sync() error {
	var err error
	for _, appender := range imp.appenders {
		err = multierr.Append(err, appender.Sync())
	}
	return err
}

func (imp *impl) enabled(ctx context.Context, level Level) bool {
	if GlobalLogLevel.Get() == DEBUG || level >= imp.level.Get() {
		return true
	}
	return level == DEBUG && DebugTrace(ctx) != ""
}

// emit is the single write path for every level method. message is only evaluated once the
// entry is known to be enabled.
func (imp *impl) emit(ctx context.Context, level Level, message func() string, keysAndValues []interface{}) {
	if !imp.enabled(ctx, level) {
		return
	}
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: imp.name,
		Message:    message(),
		Caller:     zapcore.NewEntryCaller(runtime.Caller(emitCallerSkip)),
	}
	if imp.inUTC {
		entry.Time = entry.Time.UTC()
	}
	fields := pairFields(keysAndValues)
	if trace := DebugTrace(ctx); trace != "" {
		fields = append(fields, zap.String("trace", trace))
	}
	for _, appender := range imp.appenders {
		if err := appender.Write(entry, fields); err != nil {
			//nolint:errcheck
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// pairFields reads keysAndValues as alternating keys and values. A trailing key without a value
// is kept, with an error as its value.
func pairFields(keysAndValues []interface{}) []zapcore.Field {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 == len(keysAndValues) {
			fields = append(fields, zap.Error(errors.Errorf("unpaired log key %q", key)))
			break
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func sprint(args []interface{}) func() string {
	return func() string { return fmt.Sprint(args...) }
}

func sprintf(template string, args []interface{}) func() string {
	return func() string { return fmt.Sprintf(template, args...) }
}

func literal(msg string) func() string {
	return func() string { return msg }
}

func (imp *impl) Debug(args ...interface{}) {
	imp.emit(context.Background(), DEBUG, sprint(args), nil)
}

func (imp *impl) Debugf(template string, args ...interface{}) {
	imp.emit(context.Background(), DEBUG, sprintf(template, args), nil)
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.emit(context.Background(), DEBUG, literal(msg), keysAndValues)
}

func (imp *impl) CDebug(ctx context.Context, args ...interface{}) {
	imp.emit(ctx, DEBUG, sprint(args), nil)
}

func (imp *impl) CDebugf(ctx context.Context, template string, args ...interface{}) {
	imp.emit(ctx, DEBUG, sprintf(template, args), nil)
}

func (imp *impl) CDebugw(ctx context.Context, msg string, keysAndValues ...interface{}) {
	imp.emit(ctx, DEBUG, literal(msg), keysAndValues)
}

func (imp *impl) Info(args ...interface{}) {
	imp.emit(context.Background(), INFO, sprint(args), nil)
}

func (imp *impl) Infof(template string, args ...interface{}) {
	imp.emit(context.Background(), INFO, sprintf(template, args), nil)
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.emit(context.Background(), INFO, literal(msg), keysAndValues)
}

func (imp *impl) Warn(args ...interface{}) {
	imp.emit(context.Background(), WARN, sprint(args), nil)
}

func (imp *impl) Warnf(template string, args ...interface{}) {
	imp.emit(context.Background(), WARN, sprintf(template, args), nil)
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.emit(context.Background(), WARN, literal(msg), keysAndValues)
}

func (imp *impl) Error(args ...interface{}) {
	imp.emit(context.Background(), ERROR, sprint(args), nil)
}

func (imp *impl) Errorf(template string, args ...interface{}) {
	imp.emit(context.Background(), ERROR, sprintf(template, args), nil)
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.emit(context.Background(), ERROR, literal(msg), keysAndValues)
}
