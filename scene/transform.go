package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the position/rotation/scale triple the store copies into and
// out of renderer nodes. Rotation is XYZ Euler angles in radians.
type Transform struct {
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Vec3 `json:"rotation"`
	Scale    mgl32.Vec3 `json:"scale"`
}

func NewTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.Vec3{0, 0, 0},
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func NewTransformAt(pos mgl32.Vec3) Transform {
	t := NewTransform()
	t.Position = pos
	return t
}

// Quat returns the rotation as a quaternion.
func (t Transform) Quat() mgl32.Quat {
	return mgl32.AnglesToQuat(t.Rotation.X(), t.Rotation.Y(), t.Rotation.Z(), mgl32.XYZ)
}

func (t Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Quat().Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

// Handle identifies a renderer-owned transform node. The zero Handle means
// the object has no node.
type Handle uint64

// NodeAccessor reads and writes transforms of renderer nodes. The store never
// looks inside a Handle; it only moves Transform values through this interface.
// Implementations must not call back into the store.
type NodeAccessor interface {
	ReadTransform(h Handle) (Transform, bool)
	WriteTransform(h Handle, t Transform)
}
