// Package headtracker turns face detections and depth into world-space head markers.
package headtracker

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"

	"github.com/headcast-ar/headcast/logging"
	"github.com/headcast-ar/headcast/rimage"
	"github.com/headcast-ar/headcast/rimage/transform"
	"github.com/headcast-ar/headcast/utils"
	"github.com/headcast-ar/headcast/vision/objectdetection"
)

var (
	// ErrThrottled is returned for frames that arrive before the update interval has elapsed.
	ErrThrottled = errors.New("frame skipped, update interval has not elapsed")
	// ErrNoDepthData is returned when faces were found but the frame carries no depth.
	ErrNoDepthData = errors.New("no depth data in frame")
	// ErrAlreadyStarted is returned when Start is called on a running tracker.
	ErrAlreadyStarted = errors.New("tracker already started")
)

// Stats counts what the tracker did with the frames it was given.
type Stats struct {
	Processed int64
	Skipped   int64
	Failed    int64
}

// Tracker places one marker per detected head at the head's position in world space.
type Tracker struct {
	cfg      Config
	detector objectdetection.Detector
	sink     MarkerSink
	logger   logging.Logger
	clock    clock.Clock
	caster   *transform.RayCaster
	aligner  *rimage.DepthAligner
	limit    objectdetection.Postprocessor

	// frameMu orders frames through detection and the sink. mu only guards markers and workers,
	// so detectors and sinks may call Markers.
	frameMu sync.Mutex
	limiter *rate.Limiter

	mu      sync.Mutex
	markers []Marker
	workers *utils.StoppableWorkers

	processed atomic.Int64
	skipped   atomic.Int64
	failed    atomic.Int64
}

// NewTracker returns a tracker. The detector may be nil if every frame carries precomputed
// detections. A nil clock uses the wall clock.
func NewTracker(
	cfg Config,
	detector objectdetection.Detector,
	sink MarkerSink,
	logger logging.Logger,
	clk clock.Clock,
) (*Tracker, error) {
	if err := cfg.Validate("tracker"); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, errors.New("tracker needs a marker sink")
	}
	interval, err := cfg.Interval()
	if err != nil {
		return nil, err
	}
	aligner, err := rimage.NewDepthAligner(cfg.Alignment)
	if err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}

	markers := make([]Marker, cfg.MaxMarkers)
	for i := range markers {
		markers[i].Index = i
	}
	return &Tracker{
		cfg:      cfg,
		detector: detector,
		sink:     sink,
		logger:   logger,
		clock:    clk,
		caster:   transform.NewRayCaster(cfg.DepthOffset),
		aligner:  aligner,
		limit:    objectdetection.NewLimit(cfg.MaxMarkers),
		markers:  markers,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

// ProcessFrame runs one tracking step and hands the updated markers to the sink. Concurrent
// calls are processed one at a time.
func (t *Tracker) ProcessFrame(ctx context.Context, frame Frame) ([]Marker, error) {
	t.frameMu.Lock()
	defer t.frameMu.Unlock()

	// a single token refilled once per interval, read against the injected clock
	if !t.limiter.AllowN(t.clock.Now(), 1) {
		t.skipped.Inc()
		return nil, ErrThrottled
	}

	markers, err := t.update(ctx, frame)
	if err != nil {
		t.failed.Inc()
		return nil, err
	}
	if err := t.sink.UpdateMarkers(ctx, markers); err != nil {
		t.failed.Inc()
		return nil, errors.Wrap(err, "error updating markers")
	}
	t.processed.Inc()
	return markers, nil
}

func (t *Tracker) update(ctx context.Context, frame Frame) ([]Marker, error) {
	detections, err := t.detect(ctx, frame)
	if err != nil {
		return nil, err
	}
	markers := t.Markers()
	if len(detections) == 0 {
		t.logger.CDebugw(ctx, "no faces detected", "timestamp", frame.Timestamp)
		for i := range markers {
			markers[i].Active = false
		}
		return t.store(markers), nil
	}

	heads := t.limit(detections)
	if frame.Depth == nil {
		return nil, ErrNoDepthData
	}
	if frame.Intrinsics == nil {
		return nil, transform.NewNoIntrinsicsError("frame has no intrinsics")
	}
	if err := frame.Intrinsics.CheckValid(); err != nil {
		return nil, err
	}
	rgbSize := frame.RGBSize()
	if rgbSize.X <= 0 || rgbSize.Y <= 0 {
		return nil, errors.Errorf("invalid rgb size %v", rgbSize)
	}

	for i := range markers {
		if i >= len(heads) {
			markers[i].Active = false
			continue
		}
		head := heads[i]
		center := objectdetection.Center(head)
		depthPixel, sample := t.aligner.DepthAtRGBPixel(frame.Depth, center, rgbSize)
		if !sample.Valid {
			t.logger.CDebugw(ctx, "no valid depth for head", "index", i, "rgb", center, "depth_pixel", depthPixel)
			markers[i].Active = false
			continue
		}

		// the detector's rows grow downwards while screen space grows upwards
		screen := r2.Point{X: center.X, Y: rgbSize.Y - center.Y}
		markers[i].Position = t.caster.CastRayFromScreenToWorldPoint(frame.Intrinsics, frame.CameraPose, screen, sample.Depth)
		markers[i].Confidence = head.Score()
		markers[i].Color = ConfidenceColor(head.Score(), t.cfg.MinConfidence, t.cfg.MaxConfidence)
		markers[i].Active = true
	}
	return t.store(markers), nil
}

// store replaces the tracker's markers and returns a copy for the caller.
func (t *Tracker) store(markers []Marker) []Marker {
	t.mu.Lock()
	defer t.mu.Unlock()
	copy(t.markers, markers)
	return t.snapshot()
}

func (t *Tracker) detect(ctx context.Context, frame Frame) ([]objectdetection.Detection, error) {
	if frame.Detections != nil {
		return frame.Detections, nil
	}
	if t.detector == nil {
		return nil, errors.New("frame has no detections and tracker has no detector")
	}
	if frame.Image == nil {
		return nil, errors.New("frame has no image to detect faces in")
	}
	detections, err := t.detector.Detect(ctx, frame.Image)
	if err != nil {
		return nil, errors.Wrap(err, "error detecting faces")
	}
	return detections, nil
}

func (t *Tracker) snapshot() []Marker {
	out := make([]Marker, len(t.markers))
	copy(out, t.markers)
	return out
}

// Markers returns the markers as of the last processed frame.
func (t *Tracker) Markers() []Marker {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Stats returns frame counts since the tracker was created.
func (t *Tracker) Stats() Stats {
	return Stats{
		Processed: t.processed.Load(),
		Skipped:   t.skipped.Load(),
		Failed:    t.failed.Load(),
	}
}

// Start processes frames from the source in the background until the source's channel closes or
// the tracker is closed.
func (t *Tracker) Start(source FrameSource) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.workers != nil {
		return ErrAlreadyStarted
	}
	frames := source.Frames()
	t.workers = utils.NewStoppableWorkers(func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case frame, ok := <-frames:
				if !ok {
					t.logger.Debug("frame source closed")
					return
				}
				if _, err := t.ProcessFrame(ctx, frame); err != nil && !errors.Is(err, ErrThrottled) {
					t.logger.Warnw("error processing frame", "timestamp", frame.Timestamp, "error", err)
				}
			}
		}
	})
	return nil
}

// Close stops the background worker, if any.
func (t *Tracker) Close() error {
	t.mu.Lock()
	workers := t.workers
	t.mu.Unlock()
	if workers != nil {
		workers.Stop()
	}
	stats := t.Stats()
	t.logger.Infow("tracker closed", "processed", stats.Processed, "skipped", stats.Skipped, "failed", stats.Failed)
	return nil
}
