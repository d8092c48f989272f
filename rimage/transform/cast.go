package transform

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/headcast-ar/headcast/spatialmath"
)

// DefaultDepthOffset is added to every depth sample before casting so the returned point does not
// land on or behind the observed surface because of depth quantization.
const DefaultDepthOffset = 0.1

// RayCaster casts image observations with a depth to world-space points. The zero value casts
// with no depth offset; use NewRayCaster or DefaultRayCaster for the usual behavior.
type RayCaster struct {
	DepthOffset float64
}

// NewRayCaster returns a RayCaster with the given depth offset.
func NewRayCaster(depthOffset float64) *RayCaster {
	return &RayCaster{DepthOffset: depthOffset}
}

// DefaultRayCaster returns a RayCaster using DefaultDepthOffset.
func DefaultRayCaster() *RayCaster {
	return NewRayCaster(DefaultDepthOffset)
}

// CastRayFromViewportToWorldPoint undistorts a viewport point, builds its world ray from the
// camera pose, and returns the point at depth+DepthOffset along that ray. No scene geometry is
// intersected.
func (rc *RayCaster) CastRayFromViewportToWorldPoint(
	intrinsics *IntrinsicCalibration,
	cameraPose spatialmath.Pose,
	viewportPoint r2.Point,
	depth float64,
) r3.Vector {
	undistorted := UndistortPoint(intrinsics, viewportPoint)
	ray := RayFromViewportPoint(intrinsics, undistorted, cameraPose.Point(), cameraPose.Orientation())
	return ray.PointAt(depth + rc.DepthOffset)
}

// CastRayFromScreenToWorldPoint converts a screen pixel to viewport units and casts it.
func (rc *RayCaster) CastRayFromScreenToWorldPoint(
	intrinsics *IntrinsicCalibration,
	cameraPose spatialmath.Pose,
	screenPoint r2.Point,
	depth float64,
) r3.Vector {
	viewportPoint := r2.Point{
		X: screenPoint.X / float64(intrinsics.Width),
		Y: screenPoint.Y / float64(intrinsics.Height),
	}
	return rc.CastRayFromViewportToWorldPoint(intrinsics, cameraPose, viewportPoint, depth)
}

// CastRay casts a unit-tagged point, dispatching on its unit.
func (rc *RayCaster) CastRay(
	intrinsics *IntrinsicCalibration,
	cameraPose spatialmath.Pose,
	point ImagePoint,
	depth float64,
) (r3.Vector, error) {
	viewport, err := point.ToViewport(intrinsics)
	if err != nil {
		return r3.Vector{}, err
	}
	return rc.CastRayFromViewportToWorldPoint(intrinsics, cameraPose, viewport.Vector(), depth), nil
}

// CastRayFromViewportToWorldPoint casts a viewport point with DefaultDepthOffset.
func CastRayFromViewportToWorldPoint(
	intrinsics *IntrinsicCalibration,
	cameraPose spatialmath.Pose,
	viewportPoint r2.Point,
	depth float64,
) r3.Vector {
	return DefaultRayCaster().CastRayFromViewportToWorldPoint(intrinsics, cameraPose, viewportPoint, depth)
}

// CastRayFromScreenToWorldPoint casts a screen pixel with DefaultDepthOffset.
func CastRayFromScreenToWorldPoint(
	intrinsics *IntrinsicCalibration,
	cameraPose spatialmath.Pose,
	screenPoint r2.Point,
	depth float64,
) r3.Vector {
	return DefaultRayCaster().CastRayFromScreenToWorldPoint(intrinsics, cameraPose, screenPoint, depth)
}
