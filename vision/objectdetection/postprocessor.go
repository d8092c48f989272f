package objectdetection

import (
	"github.com/samber/lo"
)

// Postprocessor defines a function that filters/modifies on an incoming array of Detections.
type Postprocessor func([]Detection) []Detection

// NewAreaFilter returns a function that filters out detections below a certain area.
func NewAreaFilter(area float64) Postprocessor {
	return func(in []Detection) []Detection {
		return lo.Filter(in, func(d Detection, _ int) bool {
			size := d.Box().Size()
			return size.X*size.Y >= area
		})
	}
}

// NewScoreFilter returns a function that filters out detections below a certain confidence.
func NewScoreFilter(conf float64) Postprocessor {
	return func(in []Detection) []Detection {
		return lo.Filter(in, func(d Detection, _ int) bool {
			return d.Score() >= conf
		})
	}
}

// NewLimit returns a function that keeps at most n detections, in order.
func NewLimit(n int) Postprocessor {
	limit := max(n, 0)
	return func(in []Detection) []Detection {
		return lo.Slice(in, 0, limit)
	}
}

// Chain applies the postprocessors in order.
func Chain(procs ...Postprocessor) Postprocessor {
	return func(in []Detection) []Detection {
		for _, p := range procs {
			in = p(in)
		}
		return in
	}
}
