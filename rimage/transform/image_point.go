package transform

import (
	"math"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// PointUnit tags the coordinate system of an ImagePoint.
type PointUnit string

const (
	// PixelUnit points are in sensor pixels, origin at the image top-left.
	PixelUnit = PointUnit("pixel")
	// ViewportUnit points are normalized so the image spans [0,1]x[0,1].
	ViewportUnit = PointUnit("viewport")
)

// ParsePointUnit parses "pixel" or "viewport", case-insensitively.
func ParsePointUnit(s string) (PointUnit, error) {
	switch PointUnit(strings.ToLower(s)) {
	case PixelUnit:
		return PixelUnit, nil
	case ViewportUnit:
		return ViewportUnit, nil
	default:
		return "", errors.Errorf("unknown point unit %q, expected %q or %q", s, PixelUnit, ViewportUnit)
	}
}

// ImagePoint is a 2D observation that carries its unit, so pixel and viewport coordinates cannot
// be mixed up silently.
type ImagePoint struct {
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Unit PointUnit `json:"unit"`
}

// NewPixelPoint returns an ImagePoint in pixels.
func NewPixelPoint(x, y float64) ImagePoint {
	return ImagePoint{X: x, Y: y, Unit: PixelUnit}
}

// NewViewportPoint returns an ImagePoint in viewport-normalized units.
func NewViewportPoint(x, y float64) ImagePoint {
	return ImagePoint{X: x, Y: y, Unit: ViewportUnit}
}

// Vector returns the raw coordinates.
func (p ImagePoint) Vector() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p ImagePoint) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// ToViewport converts the point to viewport units using the sensor resolution.
func (p ImagePoint) ToViewport(intrinsics *IntrinsicCalibration) (ImagePoint, error) {
	switch p.Unit {
	case ViewportUnit:
		return p, nil
	case PixelUnit:
		return NewViewportPoint(p.X/float64(intrinsics.Width), p.Y/float64(intrinsics.Height)), nil
	default:
		return ImagePoint{}, errors.Errorf("cannot convert point with unit %q", p.Unit)
	}
}

// ToPixel converts the point to pixels using the sensor resolution.
func (p ImagePoint) ToPixel(intrinsics *IntrinsicCalibration) (ImagePoint, error) {
	switch p.Unit {
	case PixelUnit:
		return p, nil
	case ViewportUnit:
		return NewPixelPoint(p.X*float64(intrinsics.Width), p.Y*float64(intrinsics.Height)), nil
	default:
		return ImagePoint{}, errors.Errorf("cannot convert point with unit %q", p.Unit)
	}
}
