package transform

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// numDistortionParameters is the length of the [k1, k2, p1, p2, k3] coefficient list.
const numDistortionParameters = 5

// DistortionCoefficients are the Brown-Conrady lens coefficients: K1, K2 and K3 are radial,
// P1 and P2 are tangential. They serialize as the list [k1, k2, p1, p2, k3].
type DistortionCoefficients struct {
	K1 float64
	K2 float64
	P1 float64
	P2 float64
	K3 float64
}

// InvalidDistortionError is used when the distortion parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrap(errors.New("invalid distortion parameters"), msg)
}

// NewDistortionCoefficients takes in a slice of floats ordered [k1, k2, p1, p2, k3]. Missing
// trailing values are zero.
func NewDistortionCoefficients(inp []float64) (DistortionCoefficients, error) {
	if len(inp) > numDistortionParameters {
		return DistortionCoefficients{}, InvalidDistortionError(
			fmt.Sprintf("list of parameters too long, expected max %d, got %d", numDistortionParameters, len(inp)))
	}
	padded := make([]float64, numDistortionParameters)
	copy(padded, inp)
	return DistortionCoefficients{K1: padded[0], K2: padded[1], P1: padded[2], P2: padded[3], K3: padded[4]}, nil
}

// Parameters returns the coefficients as [k1, k2, p1, p2, k3].
func (dc DistortionCoefficients) Parameters() []float64 {
	return []float64{dc.K1, dc.K2, dc.P1, dc.P2, dc.K3}
}

// HasTangential reports whether either tangential coefficient is non-zero.
func (dc DistortionCoefficients) HasTangential() bool {
	return !approximately(dc.P1, 0) || !approximately(dc.P2, 0)
}

// MarshalJSON encodes the coefficients as [k1, k2, p1, p2, k3].
func (dc DistortionCoefficients) MarshalJSON() ([]byte, error) {
	return json.Marshal(dc.Parameters())
}

// UnmarshalJSON decodes a [k1, k2, p1, p2, k3] list.
func (dc *DistortionCoefficients) UnmarshalJSON(data []byte) error {
	var params []float64
	if err := json.Unmarshal(data, &params); err != nil {
		return errors.Wrap(err, "distortion must be a list [k1, k2, p1, p2, k3]")
	}
	parsed, err := NewDistortionCoefficients(params)
	if err != nil {
		return err
	}
	*dc = parsed
	return nil
}

// UndistortPoint corrects a viewport-normalized point for lens distortion. The coefficients are
// calibrated in sensor-normalized units, where one unit is the half-diagonal of the sensor in
// pixels, so the point is converted into those units, corrected and converted back. The input is
// not clamped to [0,1].
func UndistortPoint(intrinsics *IntrinsicCalibration, distorted r2.Point) r2.Point {
	// the half sensor size is halved in whole pixels, so odd resolutions round down
	normalizedToPixel := r2.Point{X: float64(intrinsics.Width / 2), Y: float64(intrinsics.Height / 2)}.Norm()
	pixelToNormalized := math.MaxFloat64
	if !approximately(normalizedToPixel, 0) {
		pixelToNormalized = 1 / normalizedToPixel
	}
	viewportToNormalized := r2.Point{
		X: float64(intrinsics.Width) * pixelToNormalized,
		Y: float64(intrinsics.Height) * pixelToNormalized,
	}
	principal := intrinsics.PrincipalPoint().Mul(pixelToNormalized)

	d := r2.Point{X: distorted.X * viewportToNormalized.X, Y: distorted.Y * viewportToNormalized.Y}
	o := d.Sub(principal)

	dist := intrinsics.Distortion
	r2n := o.Dot(o)
	r4n := r2n * r2n
	r6n := r4n * r2n
	radial := dist.K1*r2n + dist.K2*r4n + dist.K3*r6n
	u := d.Add(o.Mul(radial))

	if dist.HasTangential() {
		u.X += dist.P1*(r2n+2*o.X*o.X) + 2*dist.P2*o.X*o.Y
		u.Y += dist.P2*(r2n+2*o.Y*o.Y) + 2*dist.P1*o.X*o.Y
	}

	return r2.Point{X: u.X / viewportToNormalized.X, Y: u.Y / viewportToNormalized.Y}
}

// approximately compares two floats with a tolerance scaled to single precision, so coefficients
// that went through a float32 calibration pipeline compare the way they were produced.
func approximately(a, b float64) bool {
	tolerance := math.Max(1e-6*math.Max(math.Abs(a), math.Abs(b)), 8*math.SmallestNonzeroFloat32)
	return math.Abs(b-a) < tolerance
}
