package cli

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/urfave/cli/v2"

	"github.com/headcast-ar/headcast/rimage/transform"
	"github.com/headcast-ar/headcast/spatialmath"
)

// CastAction prints the world point at a depth along the ray through an image point.
func CastAction(c *cli.Context) error {
	logger := newLogger(c)
	intrinsics, err := transform.NewIntrinsicCalibrationFromJSONFile(c.Path(castFlagIntrinsics))
	if err != nil {
		return err
	}
	pose, err := parsePose(c.String(castFlagPosition), c.String(castFlagRotation))
	if err != nil {
		return err
	}
	xy, err := parseFloats(c.String(castFlagPoint), 2)
	if err != nil {
		return err
	}
	unit, err := transform.ParsePointUnit(c.String(castFlagUnit))
	if err != nil {
		return err
	}
	point := transform.ImagePoint{X: xy[0], Y: xy[1], Unit: unit}

	caster := transform.NewRayCaster(c.Float64(castFlagDepthOffset))
	logger.Debugw("casting", "point", point, "pose", pose, "depth", c.Float64(castFlagDepth))
	world, err := caster.CastRay(intrinsics, pose, point, c.Float64(castFlagDepth))
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%.6f %.6f %.6f", world.X, world.Y, world.Z)
	return nil
}

// UndistortAction prints a viewport point corrected for lens distortion.
func UndistortAction(c *cli.Context) error {
	intrinsics, err := transform.NewIntrinsicCalibrationFromJSONFile(c.Path(castFlagIntrinsics))
	if err != nil {
		return err
	}
	xy, err := parseFloats(c.String(castFlagPoint), 2)
	if err != nil {
		return err
	}
	corrected := transform.UndistortPoint(intrinsics, r2.Point{X: xy[0], Y: xy[1]})
	printf(c.App.Writer, "%.6f %.6f", corrected.X, corrected.Y)
	return nil
}

func parsePose(position, rotation string) (spatialmath.Pose, error) {
	p, err := parseFloats(position, 3)
	if err != nil {
		return nil, err
	}
	q, err := parseFloats(rotation, 4)
	if err != nil {
		return nil, err
	}
	return spatialmath.NewPose(r3.Vector{X: p[0], Y: p[1], Z: p[2]}, spatialmath.NewQuaternion(q[0], q[1], q[2], q[3])), nil
}
