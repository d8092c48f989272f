package rimage

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/pkg/errors"
)

// bytesPerDepth is the size of one little-endian float32 depth value.
const bytesPerDepth = 4

// DepthSample is a distance in meters from the camera along its optical axis at one image point.
type DepthSample struct {
	Depth float64
	Valid bool
}

// DepthFrame is a row-major grid of depths in meters, as produced by the depth sensor.
type DepthFrame struct {
	width  int
	height int

	data []float32
}

// NewDepthFrame returns a frame of the given size with all depths zero.
func NewDepthFrame(width, height int) *DepthFrame {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &DepthFrame{width: width, height: height, data: make([]float32, width*height)}
}

// NewDepthFrameFromBytes decodes a row-major buffer of little-endian float32 depths.
func NewDepthFrameFromBytes(width, height int, raw []byte) (*DepthFrame, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid depth frame size (%d, %d)", width, height)
	}
	if expected := width * height * bytesPerDepth; len(raw) != expected {
		return nil, errors.Errorf("depth buffer has %d bytes, expected %d for (%d, %d)", len(raw), expected, width, height)
	}
	dm := NewDepthFrame(width, height)
	for i := range dm.data {
		dm.data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*bytesPerDepth:]))
	}
	return dm, nil
}

// Width returns the horizontal dimension of the frame.
func (dm *DepthFrame) Width() int {
	return dm.width
}

// Height returns the vertical dimension of the frame.
func (dm *DepthFrame) Height() int {
	return dm.height
}

// Bounds returns the rectangle covered by the frame.
func (dm *DepthFrame) Bounds() image.Rectangle {
	return image.Rect(0, 0, dm.width, dm.height)
}

// Contains reports whether (x, y) is inside the frame.
func (dm *DepthFrame) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < dm.width && y < dm.height
}

// Set stores a depth at (x, y). Points outside the frame are ignored.
func (dm *DepthFrame) Set(x, y int, depth float32) {
	if !dm.Contains(x, y) {
		return
	}
	dm.data[y*dm.width+x] = depth
}

// GetDepth returns the raw depth at (x, y).
func (dm *DepthFrame) GetDepth(x, y int) float32 {
	return dm.data[y*dm.width+x]
}

// DepthAt returns the sample at (x, y). Samples outside the frame, non-finite or negative are
// not valid.
func (dm *DepthFrame) DepthAt(x, y int) DepthSample {
	if dm == nil || !dm.Contains(x, y) {
		return DepthSample{}
	}
	d := float64(dm.GetDepth(x, y))
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return DepthSample{}
	}
	return DepthSample{Depth: d, Valid: true}
}

// Bytes encodes the frame back into little-endian float32s.
func (dm *DepthFrame) Bytes() []byte {
	out := make([]byte, len(dm.data)*bytesPerDepth)
	for i, d := range dm.data {
		binary.LittleEndian.PutUint32(out[i*bytesPerDepth:], math.Float32bits(d))
	}
	return out
}
