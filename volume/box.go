package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBox represents an axis-aligned bounding box
type BoundingBox struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewBoundingBoxFromPoints returns the smallest box containing points.
// An empty slice gives the zero box.
func NewBoundingBoxFromPoints(points ...mgl64.Vec3) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}

	box := BoundingBox{Min: points[0], Max: points[0]}
	for _, point := range points[1:] {
		box.Min = minVec(box.Min, point)
		box.Max = maxVec(box.Max, point)
	}

	return box
}

// NewBoundingBoxFromSphere returns the box enclosing sphere.
func NewBoundingBoxFromSphere(sphere BoundingSphere) BoundingBox {
	radius := mgl64.Vec3{sphere.Radius, sphere.Radius, sphere.Radius}
	return BoundingBox{
		Min: sphere.Center.Sub(radius),
		Max: sphere.Center.Add(radius),
	}
}

// Merge returns the smallest box containing both b and other.
func (b BoundingBox) Merge(other BoundingBox) BoundingBox {
	return BoundingBox{Min: minVec(b.Min, other.Min), Max: maxVec(b.Max, other.Max)}
}

// Center returns the middle of the box.
func (b BoundingBox) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the half-size of the box on each axis.
func (b BoundingBox) Extents() mgl64.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Corners returns the 8 corners of the box: the 4 corners of the Max.Z face, then the
// 4 corners of the Min.Z face, each starting at (Min.X, Max.Y) and turning clockwise.
func (b BoundingBox) Corners() [8]mgl64.Vec3 {
	return [8]mgl64.Vec3{
		{b.Min.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Max.Y(), b.Max.Z()},
		{b.Max.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Min.Y(), b.Max.Z()},
		{b.Min.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Max.Y(), b.Min.Z()},
		{b.Max.X(), b.Min.Y(), b.Min.Z()},
		{b.Min.X(), b.Min.Y(), b.Min.Z()},
	}
}

// ContainsPoint checks if a point is inside the box
func (b BoundingBox) ContainsPoint(point mgl64.Vec3) ContainmentType {
	if point.X() >= b.Min.X() && point.X() <= b.Max.X() &&
		point.Y() >= b.Min.Y() && point.Y() <= b.Max.Y() &&
		point.Z() >= b.Min.Z() && point.Z() <= b.Max.Z() {
		return Contains
	}
	return Disjoint
}

// ContainsBox classifies other against b.
func (b BoundingBox) ContainsBox(other BoundingBox) ContainmentType {
	if !b.Intersects(other) {
		return Disjoint
	}

	if b.Min.X() <= other.Min.X() && other.Max.X() <= b.Max.X() &&
		b.Min.Y() <= other.Min.Y() && other.Max.Y() <= b.Max.Y() &&
		b.Min.Z() <= other.Min.Z() && other.Max.Z() <= b.Max.Z() {
		return Contains
	}
	return Intersects
}

// ContainsSphere classifies sphere against b.
func (b BoundingBox) ContainsSphere(sphere BoundingSphere) ContainmentType {
	if !b.IntersectsSphere(sphere) {
		return Disjoint
	}

	c, r := sphere.Center, sphere.Radius
	for axis := 0; axis < 3; axis++ {
		if c[axis]-r < b.Min[axis] || c[axis]+r > b.Max[axis] || b.Max[axis]-b.Min[axis] <= r {
			return Intersects
		}
	}
	return Contains
}

// Intersects checks if two boxes overlap
func (b BoundingBox) Intersects(other BoundingBox) bool {
	// Boxes overlap if they overlap on all three axes
	return b.Max.X() >= other.Min.X() && b.Min.X() <= other.Max.X() &&
		b.Max.Y() >= other.Min.Y() && b.Min.Y() <= other.Max.Y() &&
		b.Max.Z() >= other.Min.Z() && b.Min.Z() <= other.Max.Z()
}

// IntersectsSphere checks if the box and sphere overlap, touching included.
func (b BoundingBox) IntersectsSphere(sphere BoundingSphere) bool {
	closest := clampVec(sphere.Center, b.Min, b.Max)
	return closest.Sub(sphere.Center).LenSqr() <= sphere.Radius*sphere.Radius
}

// IntersectsPlane classifies the box against plane, testing only the two corners that
// are extreme along the plane normal.
func (b BoundingBox) IntersectsPlane(plane Plane) PlaneIntersectionType {
	var nearest, furthest mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		if plane.Normal[axis] >= 0 {
			nearest[axis] = b.Min[axis]
			furthest[axis] = b.Max[axis]
		} else {
			nearest[axis] = b.Max[axis]
			furthest[axis] = b.Min[axis]
		}
	}

	if plane.DotCoordinate(nearest) > 0 {
		return Front
	}
	if plane.DotCoordinate(furthest) < 0 {
		return Back
	}
	return Intersecting
}

// IntersectsRay returns the distance along ray to the box.
func (b BoundingBox) IntersectsRay(ray Ray) (float64, bool) {
	return ray.IntersectsBox(b)
}

// SupportMapping returns the corner of the box furthest along direction.
func (b BoundingBox) SupportMapping(direction mgl64.Vec3) mgl64.Vec3 {
	var support mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		if direction[axis] >= 0 {
			support[axis] = b.Max[axis]
		} else {
			support[axis] = b.Min[axis]
		}
	}
	return support
}

// Anchor returns Min.
func (b BoundingBox) Anchor() mgl64.Vec3 {
	return b.Min
}

// AlternateAnchor returns Max.
func (b BoundingBox) AlternateAnchor() mgl64.Vec3 {
	return b.Max
}

// Transform returns the axis-aligned box enclosing b once rotated and translated.
func (b BoundingBox) Transform(transform Transform) BoundingBox {
	corners := b.Corners()

	worldCorner := transform.Apply(corners[0])
	box := BoundingBox{Min: worldCorner, Max: worldCorner}

	for i := 1; i < 8; i++ {
		worldCorner = transform.Apply(corners[i])
		box.Min = minVec(box.Min, worldCorner)
		box.Max = maxVec(box.Max, worldCorner)
	}

	return box
}

// AABB returns b.
func (b BoundingBox) AABB() BoundingBox {
	return b
}

// Transformed returns b moved by transform, as a Volume.
func (b BoundingBox) Transformed(transform Transform) Volume {
	return b.Transform(transform)
}

// ContainedBy classifies b against frustum.
func (b BoundingBox) ContainedBy(frustum *BoundingFrustum) ContainmentType {
	return frustum.ContainsBox(b)
}

func minVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func maxVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

func clampVec(v, low, high mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(v[0], low[0], high[0]),
		mgl64.Clamp(v[1], low[1], high[1]),
		mgl64.Clamp(v[2], low[2], high[2]),
	}
}
