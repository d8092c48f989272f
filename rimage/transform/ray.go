package transform

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/headcast-ar/headcast/spatialmath"
)

// WorldRay is a ray from a camera's position through an undistorted image point.
type WorldRay struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// PointAt returns the point at the given distance along the ray.
func (ray WorldRay) PointAt(distance float64) r3.Vector {
	return ray.Origin.Add(ray.Direction.Mul(distance))
}

// RayFromViewportPoint builds the world ray through an already undistorted viewport point.
func RayFromViewportPoint(
	intrinsics *IntrinsicCalibration,
	viewportPoint r2.Point,
	position r3.Vector,
	rotation spatialmath.Orientation,
) WorldRay {
	direction := cameraRayDirection(intrinsics, viewportPoint)
	return WorldRay{
		Origin:    position,
		Direction: spatialmath.RotateVector(rotation, direction),
	}
}

// cameraRayDirection returns the unit direction, in the camera frame with +z forward, of the ray
// through a viewport point. The principal point's vertical coordinate is measured from the
// bottom of the sensor, which matches the sensor's native pixel layout.
func cameraRayDirection(intrinsics *IntrinsicCalibration, viewportPoint r2.Point) r3.Vector {
	width, height := float64(intrinsics.Width), float64(intrinsics.Height)
	pixel := r2.Point{X: viewportPoint.X * width, Y: viewportPoint.Y * height}
	offset := r2.Point{X: pixel.X - intrinsics.Ppx, Y: pixel.Y - (height - intrinsics.Ppy)}
	unitFocal := r2.Point{X: offset.X / intrinsics.Fx, Y: offset.Y / intrinsics.Fy}
	return r3.Vector{X: unitFocal.X, Y: unitFocal.Y, Z: 1}.Normalize()
}

// AngleFromOpticalAxis returns the angle, in radians, between the camera-frame ray through a
// pixel and the optical axis. Distortion is not applied.
func AngleFromOpticalAxis(intrinsics *IntrinsicCalibration, pixel r2.Point) float64 {
	viewport := r2.Point{X: pixel.X / float64(intrinsics.Width), Y: pixel.Y / float64(intrinsics.Height)}
	return float64(cameraRayDirection(intrinsics, viewport).Angle(r3.Vector{Z: 1}))
}
