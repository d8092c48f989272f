package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestAngleConversion(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
}

func TestClampAndLerp(t *testing.T) {
	test.That(t, Clamp(0.5, 0.6, 1), test.ShouldEqual, 0.6)
	test.That(t, Clamp(1.5, 0.6, 1), test.ShouldEqual, 1.0)
	test.That(t, Clamp(0.7, 0.6, 1), test.ShouldEqual, 0.7)
	test.That(t, Clamp(math.NaN(), 0.6, 1), test.ShouldEqual, 0.6)

	test.That(t, Lerp(10, 20, 0.25), test.ShouldEqual, 12.5)
	test.That(t, Lerp(10, 20, -1), test.ShouldEqual, 10.0)
	test.That(t, Lerp(10, 20, 2), test.ShouldEqual, 20.0)

	test.That(t, InverseLerp(0.6, 1, 0.8), test.ShouldAlmostEqual, 0.5)
	test.That(t, InverseLerp(0.6, 1, 0.1), test.ShouldEqual, 0.0)
	test.That(t, InverseLerp(1, 1, 1), test.ShouldEqual, 0.0)

	test.That(t, Float64AlmostEqual(1, 1.0001, 1e-3), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.1, 1e-3), test.ShouldBeFalse)
}
