package spatialmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Pose represents a 6dof pose, position and orientation, with respect to the world frame.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

type pose struct {
	point       r3.Vector
	orientation Orientation
}

// NewPose takes in a position and orientation and returns a Pose. A nil orientation is no rotation.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		o = NewZeroOrientation()
	}
	return &pose{point: p, orientation: o}
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return NewPose(r3.Vector{}, nil)
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(point r3.Vector) Pose {
	return NewPose(point, nil)
}

func (p *pose) Point() r3.Vector {
	return p.point
}

func (p *pose) Orientation() Orientation {
	return p.orientation
}

func (p *pose) String() string {
	q := p.orientation.Quaternion()
	return fmt.Sprintf("{X:%.4f Y:%.4f Z:%.4f W:%.4f I:%.4f J:%.4f K:%.4f}",
		p.point.X, p.point.Y, p.point.Z, q.Real, q.Imag, q.Jmag, q.Kmag)
}

// Transform maps a point expressed in the frame of p into the world frame.
func Transform(p Pose, local r3.Vector) r3.Vector {
	return RotateVector(p.Orientation(), local).Add(p.Point())
}

// NewPoseFromTransformMatrix converts a 4x4 rigid transform, in column-vector convention
// (translation in the last column), to a Pose. Any scale in the rotation block is removed when
// the rotation is normalized.
func NewPoseFromTransformMatrix(m mat.Matrix) (Pose, error) {
	if m == nil {
		return nil, errors.New("transform matrix is nil")
	}
	if r, c := m.Dims(); r != 4 || c != 4 {
		return nil, errors.Errorf("transform matrix must be 4x4, got %dx%d", r, c)
	}
	var m4 mgl64.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m4.Set(row, col, m.At(row, col))
		}
	}
	point := r3.Vector{X: m4.At(0, 3), Y: m4.At(1, 3), Z: m4.At(2, 3)}
	q := mgl64.Mat4ToQuat(m4)
	return NewPose(point, NewQuaternion(q.W, q.X(), q.Y(), q.Z())), nil
}

// PoseToTransformMatrix is the inverse of NewPoseFromTransformMatrix.
func PoseToTransformMatrix(p Pose) *mat.Dense {
	q := p.Orientation().Quaternion()
	m4 := mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}.Mat4()
	pt := p.Point()
	m4.Set(0, 3, pt.X)
	m4.Set(1, 3, pt.Y)
	m4.Set(2, 3, pt.Z)
	out := mat.NewDense(4, 4, nil)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out.Set(row, col, m4.At(row, col))
		}
	}
	return out
}
