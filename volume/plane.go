package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// normalizeTolerance is the distance to 1 of a squared normal length under which a plane
// is already considered normalized.
const normalizeTolerance = 1.19209289550781e-07

// Plane represents the plane Normal·p + D = 0.
// Points with a positive DotCoordinate are in front of the plane.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// NewPlane creates a plane from its normal and constant.
func NewPlane(normal mgl64.Vec3, d float64) Plane {
	return Plane{Normal: normal, D: d}
}

// NewPlaneFromPoints creates the plane through a, b and c. The normal follows the
// counter-clockwise winding a, b, c.
func NewPlaneFromPoints(a, b, c mgl64.Vec3) Plane {
	normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{Normal: normal, D: -normal.Dot(a)}
}

// Normalize returns the plane scaled so that its normal has unit length.
func (p Plane) Normalize() Plane {
	lengthSq := p.Normal.LenSqr()
	if math.Abs(lengthSq-1) < normalizeTolerance || lengthSq == 0 {
		return p
	}

	inv := 1 / math.Sqrt(lengthSq)
	return Plane{Normal: p.Normal.Mul(inv), D: p.D * inv}
}

// DotCoordinate returns the signed distance of point to the plane, scaled by the normal length.
func (p Plane) DotCoordinate(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// DotNormal returns the dot product of the normal with a direction.
func (p Plane) DotNormal(direction mgl64.Vec3) float64 {
	return p.Normal.Dot(direction)
}

// IntersectsBox classifies box against the plane.
func (p Plane) IntersectsBox(box BoundingBox) PlaneIntersectionType {
	return box.IntersectsPlane(p)
}

// IntersectsSphere classifies sphere against the plane.
func (p Plane) IntersectsSphere(sphere BoundingSphere) PlaneIntersectionType {
	return sphere.IntersectsPlane(p)
}

// IntersectsPoint classifies a point against the plane.
func (p Plane) IntersectsPoint(point mgl64.Vec3) PlaneIntersectionType {
	distance := p.DotCoordinate(point)
	if distance > 0 {
		return Front
	}
	if distance < 0 {
		return Back
	}
	return Intersecting
}
