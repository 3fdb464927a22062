package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingSphere represents a spherical bounding volume
type BoundingSphere struct {
	Center mgl64.Vec3
	Radius float64
}

// NewBoundingSphereFromBox returns the sphere circumscribing box.
func NewBoundingSphereFromBox(box BoundingBox) BoundingSphere {
	center := box.Center()
	return BoundingSphere{Center: center, Radius: box.Max.Sub(center).Len()}
}

// NewBoundingSphereFromPoints returns a sphere containing every point.
//
// Ritter's approximation: start from the most distant pair among the axis extremes, then
// grow the sphere for every point left outside. The result is within a few percent of
// the minimal sphere.
func NewBoundingSphereFromPoints(points ...mgl64.Vec3) BoundingSphere {
	if len(points) == 0 {
		return BoundingSphere{}
	}

	var lowest, highest [3]mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		lowest[axis], highest[axis] = points[0], points[0]
	}
	for _, point := range points[1:] {
		for axis := 0; axis < 3; axis++ {
			if point[axis] < lowest[axis][axis] {
				lowest[axis] = point
			}
			if point[axis] > highest[axis][axis] {
				highest[axis] = point
			}
		}
	}

	widest := 0
	widestSq := -1.0
	for axis := 0; axis < 3; axis++ {
		if spanSq := highest[axis].Sub(lowest[axis]).LenSqr(); spanSq > widestSq {
			widest, widestSq = axis, spanSq
		}
	}

	center := lowest[widest].Add(highest[widest]).Mul(0.5)
	radius := math.Sqrt(widestSq) * 0.5

	for _, point := range points {
		offset := point.Sub(center)
		distance := offset.Len()
		if distance > radius {
			grown := (radius + distance) * 0.5
			center = center.Add(offset.Mul((grown - radius) / distance))
			radius = grown
		}
	}

	return BoundingSphere{Center: center, Radius: radius}
}

// Merge returns the smallest sphere containing both s and other.
func (s BoundingSphere) Merge(other BoundingSphere) BoundingSphere {
	offset := other.Center.Sub(s.Center)
	distance := offset.Len()

	if s.Radius+other.Radius >= distance {
		if s.Radius-other.Radius >= distance {
			return s
		}
		if other.Radius-s.Radius >= distance {
			return other
		}
	}

	direction := offset.Mul(1 / distance)
	low := math.Min(-s.Radius, distance-other.Radius)
	radius := (math.Max(s.Radius, distance+other.Radius) - low) * 0.5

	return BoundingSphere{
		Center: s.Center.Add(direction.Mul(radius + low)),
		Radius: radius,
	}
}

// ContainsPoint checks if a point is inside the sphere, boundary included.
func (s BoundingSphere) ContainsPoint(point mgl64.Vec3) ContainmentType {
	if point.Sub(s.Center).LenSqr() <= s.Radius*s.Radius {
		return Contains
	}
	return Disjoint
}

// ContainsBox classifies box against s.
func (s BoundingSphere) ContainsBox(box BoundingBox) ContainmentType {
	if !box.IntersectsSphere(s) {
		return Disjoint
	}

	radiusSq := s.Radius * s.Radius
	for _, corner := range box.Corners() {
		if corner.Sub(s.Center).LenSqr() > radiusSq {
			return Intersects
		}
	}
	return Contains
}

// ContainsSphere classifies other against s.
func (s BoundingSphere) ContainsSphere(other BoundingSphere) ContainmentType {
	distance := other.Center.Sub(s.Center).Len()

	if s.Radius+other.Radius < distance {
		return Disjoint
	}
	if s.Radius-other.Radius < distance {
		return Intersects
	}
	return Contains
}

// Intersects checks if two spheres overlap, touching included.
func (s BoundingSphere) Intersects(other BoundingSphere) bool {
	radii := s.Radius + other.Radius
	return other.Center.Sub(s.Center).LenSqr() <= radii*radii
}

// IntersectsBox checks if the sphere and box overlap.
func (s BoundingSphere) IntersectsBox(box BoundingBox) bool {
	return box.IntersectsSphere(s)
}

// IntersectsPlane classifies the sphere against plane.
func (s BoundingSphere) IntersectsPlane(plane Plane) PlaneIntersectionType {
	distance := plane.DotCoordinate(s.Center)
	if distance > s.Radius {
		return Front
	}
	if distance < -s.Radius {
		return Back
	}
	return Intersecting
}

// IntersectsRay returns the distance along ray to the sphere. The ray direction must
// be normalized.
func (s BoundingSphere) IntersectsRay(ray Ray) (float64, bool) {
	return ray.IntersectsSphere(s)
}

// SupportMapping returns the point of the sphere furthest along direction.
func (s BoundingSphere) SupportMapping(direction mgl64.Vec3) mgl64.Vec3 {
	length := direction.Len()
	if length == 0 {
		return s.Center
	}
	return s.Center.Add(direction.Mul(s.Radius / length))
}

// Anchor returns the center.
func (s BoundingSphere) Anchor() mgl64.Vec3 {
	return s.Center
}

// Transform returns s rotated and translated. Rotations leave the radius unchanged.
func (s BoundingSphere) Transform(transform Transform) BoundingSphere {
	return BoundingSphere{Center: transform.Apply(s.Center), Radius: s.Radius}
}

// AABB returns the box enclosing s.
func (s BoundingSphere) AABB() BoundingBox {
	return NewBoundingBoxFromSphere(s)
}

// Transformed returns s moved by transform, as a Volume.
func (s BoundingSphere) Transformed(transform Transform) Volume {
	return s.Transform(transform)
}

// ContainedBy classifies s against frustum.
func (s BoundingSphere) ContainedBy(frustum *BoundingFrustum) ContainmentType {
	return frustum.ContainsSphere(s)
}
