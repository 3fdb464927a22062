package volume

import "github.com/go-gl/mathgl/mgl64"

// Transform places a volume in the world: a rotation followed by a translation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// NewTransformFromAxisAngle creates a transform rotating by angle radians around axis,
// then translating by position.
func NewTransformFromAxisAngle(position, axis mgl64.Vec3, angle float64) Transform {
	rotation := mgl64.QuatIdent()
	if axis.LenSqr() > 0 && angle != 0 {
		rotation = mgl64.QuatRotate(angle, axis.Normalize())
	}

	return Transform{Position: position, Rotation: rotation}
}

// Apply maps a local point to world space.
func (t Transform) Apply(point mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Rotate(point).Add(t.Position)
}

// rotation treats the zero quaternion as the identity, so that Transform{} is usable.
func (t Transform) rotation() mgl64.Quat {
	if t.Rotation.W == 0 && t.Rotation.V.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}
