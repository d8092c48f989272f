package headtracker

import (
	"context"
	"image/color"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/headcast-ar/headcast/utils"
)

var (
	lowConfidenceColor  = colorful.Color{R: 1}
	highConfidenceColor = colorful.Color{G: 1}
)

// Marker is a world-space head marker.
type Marker struct {
	Index      int
	Position   r3.Vector
	Color      color.NRGBA
	Confidence float64
	Active     bool
}

// MarkerSink receives the full set of markers after every processed frame.
type MarkerSink interface {
	UpdateMarkers(ctx context.Context, markers []Marker) error
}

// MarkerSinkFunc adapts a function to the MarkerSink interface.
type MarkerSinkFunc func(ctx context.Context, markers []Marker) error

// UpdateMarkers calls f.
func (f MarkerSinkFunc) UpdateMarkers(ctx context.Context, markers []Marker) error {
	return f(ctx, markers)
}

// ConfidenceColor blends from red at minConfidence to green at maxConfidence. Confidence outside
// the range is clamped.
func ConfidenceColor(confidence, minConfidence, maxConfidence float64) color.NRGBA {
	clamped := utils.Clamp(confidence, minConfidence, maxConfidence)
	t := utils.InverseLerp(minConfidence, maxConfidence, clamped)
	r, g, b := lowConfidenceColor.BlendRgb(highConfidenceColor, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
