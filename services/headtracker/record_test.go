package headtracker

import (
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/headcast-ar/headcast/vision/objectdetection"
)

const frameLog = `{"timestamp":"2024-03-01T10:00:00Z","rgb_width_px":4,"rgb_height_px":2,` +
	`"intrinsics":{"width_px":4,"height_px":2,"fx":2,"fy":2,"ppx":2,"ppy":1},` +
	`"pose":{"position":[1,2,3],"rotation":[1,0,0,0]},` +
	`"detections":[[0,0,2,2,0,0,0,0,0,0,0,0,0,0,0.9]],` +
	`"depth":{"width_px":2,"height_px":1,"data":[1.5,2.5]}}
{"rgb_width_px":4,"rgb_height_px":2,"detections":[]}
`

func TestReadFrameRecords(t *testing.T) {
	records, err := ReadFrameRecords(strings.NewReader(frameLog))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, records, test.ShouldHaveLength, 2)

	frame, err := records[0].Frame()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frame.Timestamp.Hour(), test.ShouldEqual, 10)
	test.That(t, frame.Intrinsics.Fx, test.ShouldEqual, 2.0)
	test.That(t, frame.CameraPose.Point().Z, test.ShouldEqual, 3.0)
	test.That(t, frame.Detections, test.ShouldHaveLength, 1)
	test.That(t, objectdetection.Center(frame.Detections[0]).X, test.ShouldEqual, 1.0)
	test.That(t, frame.Depth.DepthAt(1, 0).Depth, test.ShouldEqual, 2.5)

	frame, err = records[1].Frame()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frame.Depth, test.ShouldBeNil)
	test.That(t, frame.Detections, test.ShouldBeEmpty)
	test.That(t, frame.CameraPose.Point().Norm(), test.ShouldEqual, 0.0)
}

func TestFrameRecordErrors(t *testing.T) {
	_, err := ReadFrameRecords(strings.NewReader(`{"rgb_width_px": "wide"}`))
	test.That(t, err, test.ShouldNotBeNil)

	rec := FrameRecord{Detections: [][]float32{{1, 2, 3}}}
	_, err = rec.Frame()
	test.That(t, err, test.ShouldNotBeNil)

	rec = FrameRecord{Depth: &DepthRecord{Width: 2, Height: 2, Data: []float32{1}}}
	_, err = rec.Frame()
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected 4")
}
