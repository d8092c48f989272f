package headtracker

import (
	"image"
	"time"

	"github.com/golang/geo/r2"

	"github.com/headcast-ar/headcast/rimage"
	"github.com/headcast-ar/headcast/rimage/transform"
	"github.com/headcast-ar/headcast/spatialmath"
	"github.com/headcast-ar/headcast/vision/objectdetection"
)

// Frame is everything the tracker needs from one capture. Detections, when set, are used instead
// of running the detector on Image.
type Frame struct {
	Timestamp  time.Time
	Image      image.Image
	RGBWidth   int
	RGBHeight  int
	Intrinsics *transform.IntrinsicCalibration
	CameraPose spatialmath.Pose
	Depth      *rimage.DepthFrame
	Detections []objectdetection.Detection
}

// RGBSize returns the RGB image size, preferring the explicit width and height.
func (f *Frame) RGBSize() r2.Point {
	if (f.RGBWidth == 0 || f.RGBHeight == 0) && f.Image != nil {
		b := f.Image.Bounds()
		return r2.Point{X: float64(b.Dx()), Y: float64(b.Dy())}
	}
	return r2.Point{X: float64(f.RGBWidth), Y: float64(f.RGBHeight)}
}

// FrameSource delivers frames until its channel is closed.
type FrameSource interface {
	Frames() <-chan Frame
}

// ChannelSource is a FrameSource backed by a channel.
type ChannelSource chan Frame

// Frames returns the channel.
func (cs ChannelSource) Frames() <-chan Frame {
	return cs
}
