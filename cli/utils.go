package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/headcast-ar/headcast/logging"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// infof prints a message prefixed with a bold cyan "Info: ".
func infof(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.Bold, color.FgCyan).Fprint(w, "Info: ")
	printf(w, format, a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	printf(w, format, a...)
}

// newLogger returns the command's logger, writing to the app's error writer. --debug lowers it,
// and every other headcast logger, to debug.
func newLogger(c *cli.Context) logging.Logger {
	level := logging.INFO
	if c.Bool(generalFlagDebug) {
		level = logging.DEBUG
		logging.GlobalLogLevel.Set(logging.DEBUG)
	}
	logger := logging.NewWriterLogger("headcast", level, c.App.ErrWriter)
	logging.ReplaceGlobal(logger)
	return logger
}

// parseFloats parses exactly n comma separated numbers.
func parseFloats(raw string, n int) ([]float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != n {
		return nil, errors.Errorf("expected %d comma separated numbers, got %q", n, raw)
	}
	out := make([]float64, 0, n)
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid number in %q", raw)
		}
		out = append(out, v)
	}
	return out, nil
}
