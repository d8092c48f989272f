package headtracker

import (
	"encoding/json"
	"io"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/headcast-ar/headcast/rimage"
	"github.com/headcast-ar/headcast/rimage/transform"
	"github.com/headcast-ar/headcast/spatialmath"
	"github.com/headcast-ar/headcast/vision/objectdetection"
)

// PoseRecord is a camera pose as stored in a frame log. Rotation is a quaternion w, x, y, z.
type PoseRecord struct {
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"`
}

// DepthRecord is a row-major depth image as stored in a frame log.
type DepthRecord struct {
	Width  int       `json:"width_px"`
	Height int       `json:"height_px"`
	Data   []float32 `json:"data"`
}

// FrameRecord is one line of a frame log. Detections are raw face detector rows.
type FrameRecord struct {
	Timestamp  time.Time                       `json:"timestamp"`
	RGBWidth   int                             `json:"rgb_width_px"`
	RGBHeight  int                             `json:"rgb_height_px"`
	Intrinsics *transform.IntrinsicCalibration `json:"intrinsics"`
	Pose       *PoseRecord                     `json:"pose,omitempty"`
	Detections [][]float32                     `json:"detections"`
	Depth      *DepthRecord                    `json:"depth,omitempty"`
}

// Frame converts the record into a frame. A missing pose is the identity pose.
func (rec *FrameRecord) Frame() (Frame, error) {
	detections, err := objectdetection.ParseFaceRows(rec.Detections)
	if err != nil {
		return Frame{}, err
	}
	pose := spatialmath.NewZeroPose()
	if rec.Pose != nil {
		q := rec.Pose.Rotation
		var orientation spatialmath.Orientation
		if q != [4]float64{} {
			orientation = spatialmath.NewQuaternion(q[0], q[1], q[2], q[3])
		}
		pose = spatialmath.NewPose(r3.Vector{X: rec.Pose.Position[0], Y: rec.Pose.Position[1], Z: rec.Pose.Position[2]}, orientation)
	}
	var depth *rimage.DepthFrame
	if rec.Depth != nil {
		if len(rec.Depth.Data) != rec.Depth.Width*rec.Depth.Height {
			return Frame{}, errors.Errorf("depth has %d samples, expected %d", len(rec.Depth.Data), rec.Depth.Width*rec.Depth.Height)
		}
		depth = rimage.NewDepthFrame(rec.Depth.Width, rec.Depth.Height)
		for i, d := range rec.Depth.Data {
			depth.Set(i%rec.Depth.Width, i/rec.Depth.Width, d)
		}
	}
	return Frame{
		Timestamp:  rec.Timestamp,
		RGBWidth:   rec.RGBWidth,
		RGBHeight:  rec.RGBHeight,
		Intrinsics: rec.Intrinsics,
		CameraPose: pose,
		Depth:      depth,
		Detections: detections,
	}, nil
}

// ReadFrameRecords decodes a stream of JSON frame records, one per line.
func ReadFrameRecords(r io.Reader) ([]FrameRecord, error) {
	dec := json.NewDecoder(r)
	var records []FrameRecord
	for {
		var rec FrameRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, errors.Wrapf(err, "error decoding frame record %d", len(records))
		}
		records = append(records, rec)
	}
}
