package transform

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intriniscs are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

// IntrinsicCalibration is the pinhole model of one physical sensor: its resolution, focal length,
// principal point and lens distortion. Image-space y increases downward.
type IntrinsicCalibration struct {
	Width      int                    `json:"width_px"`
	Height     int                    `json:"height_px"`
	Fx         float64                `json:"fx"`
	Fy         float64                `json:"fy"`
	Ppx        float64                `json:"ppx"`
	Ppy        float64                `json:"ppy"`
	Distortion DistortionCoefficients `json:"distortion"`
}

// FocalLength returns (Fx, Fy).
func (params *IntrinsicCalibration) FocalLength() r2.Point {
	return r2.Point{X: params.Fx, Y: params.Fy}
}

// PrincipalPoint returns (Ppx, Ppy) in pixels.
func (params *IntrinsicCalibration) PrincipalPoint() r2.Point {
	return r2.Point{X: params.Ppx, Y: params.Ppy}
}

// Size returns the sensor resolution in pixels.
func (params *IntrinsicCalibration) Size() r2.Point {
	return r2.Point{X: float64(params.Width), Y: float64(params.Height)}
}

// CheckValid checks if the fields for IntrinsicCalibration have valid inputs. The projection
// functions do not call it; they stay total over any input.
func (params *IntrinsicCalibration) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("Intrinsics do not exist")
	}
	if params.Width <= 0 || params.Height <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid size (%#v, %#v)", params.Width, params.Height))
	}
	if params.Fx <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fx = %#v", params.Fx))
	}
	if params.Fy <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fy = %#v", params.Fy))
	}
	if params.Ppx < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal X point Ppx = %#v", params.Ppx))
	}
	if params.Ppy < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal Y point Ppy = %#v", params.Ppy))
	}
	return nil
}

// NewIntrinsicCalibrationFromJSONFile takes in a file path to a JSON and turns it into IntrinsicCalibration.
func NewIntrinsicCalibrationFromJSONFile(jsonPath string) (*IntrinsicCalibration, error) {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening JSON file")
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)

	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "error reading JSON data")
	}
	intrinsics := &IntrinsicCalibration{}
	if err := json.Unmarshal(byteValue, intrinsics); err != nil {
		return nil, errors.Wrap(err, "error parsing JSON string")
	}
	return intrinsics, nil
}

// CameraMatrix creates a new camera matrix and returns it.
// Camera matrix:
// [[fx 0 ppx],
//
//	[0 fy ppy],
//	[0 0  1]]
func (params *IntrinsicCalibration) CameraMatrix() *mat.Dense {
	if params == nil {
		return nil
	}
	cameraMatrix := mat.NewDense(3, 3, nil)
	cameraMatrix.Set(0, 0, params.Fx)
	cameraMatrix.Set(1, 1, params.Fy)
	cameraMatrix.Set(0, 2, params.Ppx)
	cameraMatrix.Set(1, 2, params.Ppy)
	cameraMatrix.Set(2, 2, 1)
	return cameraMatrix
}
