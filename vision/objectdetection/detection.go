// Package objectdetection defines the face detections consumed by the head tracker.
package objectdetection

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Detection returns a bounding box around an object and a confidence score of the detection.
type Detection interface {
	BoundingBox() *image.Rectangle
	Box() r2.Rect
	Score() float64
}

// Detector returns detections for an image. The model behind it lives outside this repository.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, img image.Image) ([]Detection, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	return f(ctx, img)
}

// NewDetection creates a detection from a float-precision box in pixels and a score.
func NewDetection(box r2.Rect, score float64) Detection {
	return &detection2D{box, score}
}

// NewDetectionFromXYWH creates a detection from a top-left corner, a width and a height.
func NewDetectionFromXYWH(x, y, w, h, score float64) Detection {
	return NewDetection(r2.Rect{X: r1.Interval{Lo: x, Hi: x + w}, Y: r1.Interval{Lo: y, Hi: y + h}}, score)
}

// detection2D is a simple struct for storing 2D detections.
type detection2D struct {
	box   r2.Rect
	score float64
}

// BoundingBox returns the box rounded out to whole pixels.
func (d *detection2D) BoundingBox() *image.Rectangle {
	rect := image.Rect(
		int(math.Floor(d.box.X.Lo)), int(math.Floor(d.box.Y.Lo)),
		int(math.Ceil(d.box.X.Hi)), int(math.Ceil(d.box.Y.Hi)),
	)
	return &rect
}

// Box returns the float-precision box.
func (d *detection2D) Box() r2.Rect {
	return d.box
}

// Score returns a confidence score of the detection between 0.0 and 1.0.
func (d *detection2D) Score() float64 {
	return d.score
}

// String turns the detection into a string.
func (d *detection2D) String() string {
	return fmt.Sprintf("Box: (%.1f, %.1f)-(%.1f, %.1f), Score: %.2f", d.box.X.Lo, d.box.Y.Lo, d.box.X.Hi, d.box.Y.Hi, d.score)
}

// Center returns the center of a detection's box, where a face detection places the head.
func Center(d Detection) r2.Point {
	return d.Box().Center()
}
