package rimage

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/headcast-ar/headcast/utils"
)

// AlignmentConfig describes where the depth sensor's field of view sits inside the RGB image.
// The depth image is scaled by Ratio (and ResolutionScale) into RGB pixel space, centered, and
// shifted by the offsets.
type AlignmentConfig struct {
	DepthWidth       int     `json:"depth_width_px"`
	DepthHeight      int     `json:"depth_height_px"`
	Ratio            float64 `json:"ratio"`
	ResolutionScale  float64 `json:"resolution_scale"`
	HorizontalOffset float64 `json:"horizontal_offset_px"`
	VerticalOffset   float64 `json:"vertical_offset_px"`
}

// DefaultAlignmentConfig is the layout of the long range depth stream relative to the RGB camera.
func DefaultAlignmentConfig() AlignmentConfig {
	return AlignmentConfig{
		DepthWidth:       544,
		DepthHeight:      480,
		Ratio:            1.415,
		ResolutionScale:  1,
		HorizontalOffset: 6,
		VerticalOffset:   20,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *AlignmentConfig) Validate(path string) error {
	if cfg.DepthWidth <= 0 || cfg.DepthHeight <= 0 {
		return errors.Errorf("%s: depth size must be positive, got (%d, %d)", path, cfg.DepthWidth, cfg.DepthHeight)
	}
	if cfg.Ratio <= 0 {
		return errors.Errorf("%s: ratio must be positive, got %v", path, cfg.Ratio)
	}
	if cfg.ResolutionScale <= 0 {
		return errors.Errorf("%s: resolution_scale must be positive, got %v", path, cfg.ResolutionScale)
	}
	return nil
}

// DepthAligner maps pixels of the RGB image to pixels of the depth image.
type DepthAligner struct {
	cfg AlignmentConfig
}

// NewDepthAligner returns an aligner for the given layout.
func NewDepthAligner(cfg AlignmentConfig) (*DepthAligner, error) {
	if err := cfg.Validate("alignment"); err != nil {
		return nil, err
	}
	return &DepthAligner{cfg: cfg}, nil
}

// RGBPixelToDepthPixel returns the depth pixel looking at the same point as rgbPixel, given the
// size of the RGB image. Each coordinate is truncated to a whole pixel in scaled space before
// being divided back by the ratio.
func (da *DepthAligner) RGBPixelToDepthPixel(rgbPixel, rgbSize r2.Point) r2.Point {
	scale := da.cfg.ResolutionScale
	adjustedWidth := float64(da.cfg.DepthWidth) * da.cfg.Ratio * scale
	adjustedHeight := float64(da.cfg.DepthHeight) * da.cfg.Ratio * scale

	marginX := (adjustedWidth - rgbSize.X) / 2
	marginY := (adjustedHeight - rgbSize.Y) / 2
	hOff := da.cfg.HorizontalOffset * scale
	vOff := da.cfg.VerticalOffset * scale

	x := utils.Lerp(marginX+hOff, adjustedWidth-marginX+hOff, rgbPixel.X/rgbSize.X)
	y := utils.Lerp(marginY+vOff, adjustedHeight-marginY+vOff, rgbPixel.Y/rgbSize.Y)
	return r2.Point{
		X: float64(int(x)) / da.cfg.Ratio,
		Y: float64(int(y)) / da.cfg.Ratio,
	}
}

// DepthAtRGBPixel maps an RGB pixel into the depth frame and samples it.
func (da *DepthAligner) DepthAtRGBPixel(dm *DepthFrame, rgbPixel, rgbSize r2.Point) (r2.Point, DepthSample) {
	depthPixel := da.RGBPixelToDepthPixel(rgbPixel, rgbSize)
	return depthPixel, dm.DepthAt(int(depthPixel.X), int(depthPixel.Y))
}
