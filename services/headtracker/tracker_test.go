package headtracker

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"github.com/headcast-ar/headcast/logging"
	"github.com/headcast-ar/headcast/rimage"
	"github.com/headcast-ar/headcast/rimage/transform"
	"github.com/headcast-ar/headcast/spatialmath"
	"github.com/headcast-ar/headcast/vision/objectdetection"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
)

type recordingSink struct {
	mu      sync.Mutex
	updates [][]Marker
	err     error
}

func (s *recordingSink) UpdateMarkers(ctx context.Context, markers []Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, markers)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Alignment = rimage.AlignmentConfig{
		DepthWidth:      640,
		DepthHeight:     480,
		Ratio:           1,
		ResolutionScale: 1,
	}
	return cfg
}

func uniformDepth(depth float32) *rimage.DepthFrame {
	dm := rimage.NewDepthFrame(640, 480)
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			dm.Set(x, y, depth)
		}
	}
	return dm
}

func testFrame(dets ...objectdetection.Detection) Frame {
	if dets == nil {
		dets = []objectdetection.Detection{}
	}
	return Frame{
		RGBWidth:  640,
		RGBHeight: 480,
		Intrinsics: &transform.IntrinsicCalibration{
			Width: 640, Height: 480, Fx: 500, Fy: 500, Ppx: 320, Ppy: 240,
		},
		CameraPose: spatialmath.NewZeroPose(),
		Depth:      uniformDepth(2),
		Detections: dets,
	}
}

// face returns a detection centered on (cx, cy).
func face(cx, cy, score float64) objectdetection.Detection {
	return objectdetection.NewDetectionFromXYWH(cx-20, cy-20, 40, 40, score)
}

func newTestTracker(t *testing.T, cfg Config, det objectdetection.Detector) (*Tracker, *recordingSink, *clock.Mock) {
	t.Helper()
	sink := &recordingSink{}
	mock := clock.NewMock()
	tracker, err := NewTracker(cfg, det, sink, logging.NewTestLogger(t), mock)
	test.That(t, err, test.ShouldBeNil)
	return tracker, sink, mock
}

func TestProcessFrameCastsHead(t *testing.T) {
	tracker, sink, _ := newTestTracker(t, testConfig(), nil)

	markers, err := tracker.ProcessFrame(context.Background(), testFrame(face(320, 240, 1.0)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, markers, test.ShouldHaveLength, 1)
	test.That(t, markers[0].Active, test.ShouldBeTrue)
	test.That(t, markers[0].Position.X, test.ShouldAlmostEqual, 0)
	test.That(t, markers[0].Position.Y, test.ShouldAlmostEqual, 0)
	test.That(t, markers[0].Position.Z, test.ShouldAlmostEqual, 2.1)
	test.That(t, markers[0].Color, test.ShouldResemble, green)
	test.That(t, markers[0].Confidence, test.ShouldEqual, 1.0)
	test.That(t, sink.count(), test.ShouldEqual, 1)
	test.That(t, tracker.Stats(), test.ShouldResemble, Stats{Processed: 1})
}

func TestProcessFrameFlipsRows(t *testing.T) {
	tracker, _, _ := newTestTracker(t, testConfig(), nil)

	// a face in the upper half of the image is above the optical axis
	markers, err := tracker.ProcessFrame(context.Background(), testFrame(face(320, 140, 0.6)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, markers[0].Position.Y, test.ShouldBeGreaterThan, 0)
	test.That(t, markers[0].Position.X, test.ShouldAlmostEqual, 0)
	test.That(t, markers[0].Position.Norm(), test.ShouldAlmostEqual, 2.1)
	test.That(t, markers[0].Color, test.ShouldResemble, red)
}

func TestProcessFrameThrottles(t *testing.T) {
	tracker, sink, mock := newTestTracker(t, testConfig(), nil)
	ctx := context.Background()

	_, err := tracker.ProcessFrame(ctx, testFrame(face(320, 240, 1)))
	test.That(t, err, test.ShouldBeNil)

	mock.Add(100 * time.Millisecond)
	_, err = tracker.ProcessFrame(ctx, testFrame(face(320, 240, 1)))
	test.That(t, errors.Is(err, ErrThrottled), test.ShouldBeTrue)

	mock.Add(200 * time.Millisecond)
	_, err = tracker.ProcessFrame(ctx, testFrame(face(320, 240, 1)))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, sink.count(), test.ShouldEqual, 2)
	test.That(t, tracker.Stats(), test.ShouldResemble, Stats{Processed: 2, Skipped: 1})
}

func TestProcessFrameNoFaces(t *testing.T) {
	tracker, sink, mock := newTestTracker(t, testConfig(), nil)
	ctx := context.Background()

	_, err := tracker.ProcessFrame(ctx, testFrame(face(320, 240, 1)))
	test.That(t, err, test.ShouldBeNil)

	mock.Add(time.Second)
	frame := testFrame()
	frame.Depth = nil
	markers, err := tracker.ProcessFrame(ctx, frame)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, markers[0].Active, test.ShouldBeFalse)
	test.That(t, markers[0].Position.Z, test.ShouldAlmostEqual, 2.1)
	test.That(t, sink.count(), test.ShouldEqual, 2)
}

func TestProcessFrameNoDepth(t *testing.T) {
	tracker, sink, _ := newTestTracker(t, testConfig(), nil)

	frame := testFrame(face(320, 240, 1))
	frame.Depth = nil
	_, err := tracker.ProcessFrame(context.Background(), frame)
	test.That(t, errors.Is(err, ErrNoDepthData), test.ShouldBeTrue)
	test.That(t, sink.count(), test.ShouldEqual, 0)
	test.That(t, tracker.Stats(), test.ShouldResemble, Stats{Failed: 1})
}

func TestProcessFrameInvalidDepth(t *testing.T) {
	tracker, _, _ := newTestTracker(t, testConfig(), nil)

	frame := testFrame(face(320, 240, 1))
	frame.Depth = rimage.NewDepthFrame(640, 480)
	frame.Depth.Set(320, 240, -1)
	markers, err := tracker.ProcessFrame(context.Background(), frame)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, markers[0].Active, test.ShouldBeFalse)
}

func TestProcessFrameCapsMarkers(t *testing.T) {
	cfg := testConfig()
	cfg.MaxMarkers = 2
	tracker, _, mock := newTestTracker(t, cfg, nil)
	ctx := context.Background()

	markers, err := tracker.ProcessFrame(ctx, testFrame(face(100, 100, 0.9), face(200, 200, 0.9), face(300, 300, 0.9)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, markers, test.ShouldHaveLength, 2)
	test.That(t, markers[0].Active, test.ShouldBeTrue)
	test.That(t, markers[1].Active, test.ShouldBeTrue)
	test.That(t, markers[1].Index, test.ShouldEqual, 1)

	mock.Add(time.Second)
	markers, err = tracker.ProcessFrame(ctx, testFrame(face(100, 100, 0.9)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, markers[0].Active, test.ShouldBeTrue)
	test.That(t, markers[1].Active, test.ShouldBeFalse)
	test.That(t, tracker.Markers(), test.ShouldResemble, markers)
}

func TestProcessFrameUsesDetector(t *testing.T) {
	var calls int
	det := objectdetection.DetectorFunc(func(ctx context.Context, img image.Image) ([]objectdetection.Detection, error) {
		calls++
		return []objectdetection.Detection{face(320, 240, 0.8)}, nil
	})
	tracker, _, mock := newTestTracker(t, testConfig(), det)
	ctx := context.Background()

	frame := testFrame()
	frame.Detections = nil
	_, err := tracker.ProcessFrame(ctx, frame)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, calls, test.ShouldEqual, 0)

	mock.Add(time.Second)
	frame.Image = image.NewRGBA(image.Rect(0, 0, 640, 480))
	markers, err := tracker.ProcessFrame(ctx, frame)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, calls, test.ShouldEqual, 1)
	test.That(t, markers[0].Active, test.ShouldBeTrue)
	test.That(t, markers[0].Confidence, test.ShouldEqual, 0.8)
}

func TestProcessFrameSinkError(t *testing.T) {
	tracker, sink, _ := newTestTracker(t, testConfig(), nil)
	sink.err = errors.New("sink gone")

	_, err := tracker.ProcessFrame(context.Background(), testFrame(face(320, 240, 1)))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "sink gone")
	test.That(t, tracker.Stats().Failed, test.ShouldEqual, int64(1))
}

// readBackSink reads the tracker's markers from inside UpdateMarkers.
type readBackSink struct {
	tracker *Tracker
	seen    []Marker
}

func (s *readBackSink) UpdateMarkers(ctx context.Context, markers []Marker) error {
	s.seen = s.tracker.Markers()
	return nil
}

func TestProcessFrameSinkReadsMarkers(t *testing.T) {
	sink := &readBackSink{}
	tracker, err := NewTracker(testConfig(), nil, sink, logging.NewTestLogger(t), clock.NewMock())
	test.That(t, err, test.ShouldBeNil)
	sink.tracker = tracker

	done := make(chan struct{})
	var markers []Marker
	go func() {
		defer close(done)
		markers, err = tracker.ProcessFrame(context.Background(), testFrame(face(320, 240, 1)))
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ProcessFrame did not return while its sink read the markers")
	}
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sink.seen, test.ShouldResemble, markers)
	test.That(t, sink.seen[0].Active, test.ShouldBeTrue)
}

func TestStartAndClose(t *testing.T) {
	cfg := testConfig()
	cfg.UpdateInterval = "0s"
	logger, logs := logging.NewObservedTestLogger(t)
	sink := &recordingSink{}
	tracker, err := NewTracker(cfg, nil, sink, logger, nil)
	test.That(t, err, test.ShouldBeNil)

	source := make(ChannelSource, 3)
	test.That(t, tracker.Start(source), test.ShouldBeNil)
	test.That(t, tracker.Start(source), test.ShouldEqual, ErrAlreadyStarted)

	source <- testFrame(face(320, 240, 1))
	noDepth := testFrame(face(320, 240, 1))
	noDepth.Depth = nil
	source <- noDepth
	close(source)

	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, tracker.Stats(), test.ShouldResemble, Stats{Processed: 1, Failed: 1})
	})
	test.That(t, tracker.Close(), test.ShouldBeNil)
	test.That(t, sink.count(), test.ShouldEqual, 1)
	test.That(t, logs.FilterMessage("error processing frame").Len(), test.ShouldEqual, 1)
}

func TestNewTrackerValidates(t *testing.T) {
	cfg := testConfig()
	cfg.MaxMarkers = 0
	_, err := NewTracker(cfg, nil, &recordingSink{}, logging.NewTestLogger(t), nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewTracker(testConfig(), nil, nil, logging.NewTestLogger(t), nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfidenceColor(t *testing.T) {
	test.That(t, ConfidenceColor(0.2, 0.6, 1), test.ShouldResemble, red)
	test.That(t, ConfidenceColor(0.6, 0.6, 1), test.ShouldResemble, red)
	test.That(t, ConfidenceColor(1.5, 0.6, 1), test.ShouldResemble, green)
	test.That(t, ConfidenceColor(0.5, 0, 1), test.ShouldResemble, color.NRGBA{R: 128, G: 128, A: 255})
}
