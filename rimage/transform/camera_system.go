package transform

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/headcast-ar/headcast/spatialmath"
)

// Projector can cast a 2D observation with a depth from a posed camera into world space.
type Projector interface {
	CastRay(*IntrinsicCalibration, spatialmath.Pose, ImagePoint, float64) (r3.Vector, error)
}

// Undistorter corrects a viewport point for lens distortion.
type Undistorter interface {
	Undistort(*IntrinsicCalibration, r2.Point) r2.Point
}

// Undistort implements Undistorter with UndistortPoint.
func (rc *RayCaster) Undistort(intrinsics *IntrinsicCalibration, distorted r2.Point) r2.Point {
	return UndistortPoint(intrinsics, distorted)
}

// A CameraSystem both undistorts and projects.
type CameraSystem interface {
	Projector
	Undistorter
}

var _ CameraSystem = (*RayCaster)(nil)
