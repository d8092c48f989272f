package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"github.com/headcast-ar/headcast/logging"
	"github.com/headcast-ar/headcast/services/headtracker"
)

// printingSink writes every marker update to a writer.
type printingSink struct {
	out    io.Writer
	frame  int
	logger logging.Logger
}

func (s *printingSink) UpdateMarkers(ctx context.Context, markers []headtracker.Marker) error {
	for _, m := range markers {
		if !m.Active {
			s.logger.CDebugw(ctx, "inactive marker", "frame", s.frame, "index", m.Index)
			continue
		}
		c, _ := colorful.MakeColor(m.Color)
		printf(s.out, "frame %d marker %d: (%.4f, %.4f, %.4f) confidence %.2f color %s",
			s.frame, m.Index, m.Position.X, m.Position.Y, m.Position.Z, m.Confidence, c.Hex())
	}
	return nil
}

// ReplayAction runs the head tracker over a frame log, using the recorded timestamps as the
// tracker's clock.
func ReplayAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg := headtracker.DefaultConfig()
	if path := c.Path(replayFlagConfig); path != "" {
		loaded, err := headtracker.NewConfigFromJSONFile(path)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	interval, err := cfg.Interval()
	if err != nil {
		return err
	}

	//nolint:gosec
	f, err := os.Open(c.Path(replayFlagFrames))
	if err != nil {
		return errors.Wrap(err, "error opening frame log")
	}
	defer goutils.UncheckedErrorFunc(f.Close)
	records, err := headtracker.ReadFrameRecords(f)
	if err != nil {
		return err
	}

	replayClock := clock.NewMock()
	sink := &printingSink{out: c.App.Writer, logger: logger}
	tracker, err := headtracker.NewTracker(cfg, nil, sink, logger, replayClock)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(tracker.Close)

	debugFrame := c.Int(replayFlagDebugFrame)
	for i, rec := range records {
		i, rec := i, rec
		if rec.Timestamp.IsZero() {
			if i > 0 {
				replayClock.Add(interval)
			}
		} else {
			replayClock.Set(rec.Timestamp)
		}
		frame, err := rec.Frame()
		if err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
		sink.frame = i
		ctx := c.Context
		if i == debugFrame {
			ctx = logging.WithDebugTrace(ctx, fmt.Sprintf("frame-%d", i))
		}
		if _, err := tracker.ProcessFrame(ctx, frame); err != nil {
			logger.CDebugw(ctx, "frame not processed", "frame", i, "error", err)
		}
	}
	stats := tracker.Stats()
	if stats.Failed > 0 {
		warningf(c.App.Writer, "%d frames failed, rerun with --debug for details", stats.Failed)
	}
	infof(c.App.Writer, "%d frames: %d processed, %d skipped, %d failed",
		len(records), stats.Processed, stats.Skipped, stats.Failed)
	return nil
}
