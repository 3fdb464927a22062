package volume

import (
	"math"

	"github.com/akmonengine/sight/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// Plane indices of a BoundingFrustum.
const (
	NearPlane = iota
	FarPlane
	LeftPlane
	RightPlane
	TopPlane
	BottomPlane
)

// CornerCount is the number of corners of a frustum.
const CornerCount = 8

// containsEpsilon is the distance in front of a plane still considered inside.
const containsEpsilon = 1e-5

// BoundingFrustum is the volume seen by a camera, bounded by 6 planes with outward normals.
//
// Corners are ordered near top-left, near top-right, near bottom-right, near bottom-left,
// then the same order on the far plane.
//
// The GJK queries (IntersectsBox, IntersectsSphere, IntersectsFrustum) reuse a simplex
// owned by the frustum, so they must not run concurrently on the same frustum; use
// IntersectsWith with a simplex per goroutine instead.
type BoundingFrustum struct {
	matrix  mgl64.Mat4
	planes  [6]Plane
	corners [CornerCount]mgl64.Vec3

	simplex *gjk.Simplex
}

// NewBoundingFrustum creates the frustum of a view-projection matrix, such as
// mgl64.Perspective(...).Mul4(mgl64.LookAtV(...)). The clip space follows the OpenGL
// convention, with z in [-1, 1].
func NewBoundingFrustum(viewProjection mgl64.Mat4) *BoundingFrustum {
	f := &BoundingFrustum{}
	f.SetMatrix(viewProjection)
	return f
}

// Matrix returns the view-projection matrix of the frustum.
func (f *BoundingFrustum) Matrix() mgl64.Mat4 {
	return f.matrix
}

// SetMatrix rebuilds the planes and corners from a view-projection matrix.
//
// A clip-space point (x, y, z, w) is inside when -w <= x, y, z <= w. Each inequality,
// expressed with the rows of the matrix, gives one plane (Gribb & Hartmann).
func (f *BoundingFrustum) SetMatrix(viewProjection mgl64.Mat4) {
	f.matrix = viewProjection

	r0, r1, r2, r3 := viewProjection.Row(0), viewProjection.Row(1), viewProjection.Row(2), viewProjection.Row(3)

	f.planes[NearPlane] = planeFromRow(r3.Add(r2).Mul(-1))
	f.planes[FarPlane] = planeFromRow(r2.Sub(r3))
	f.planes[LeftPlane] = planeFromRow(r3.Add(r0).Mul(-1))
	f.planes[RightPlane] = planeFromRow(r0.Sub(r3))
	f.planes[TopPlane] = planeFromRow(r1.Sub(r3))
	f.planes[BottomPlane] = planeFromRow(r3.Add(r1).Mul(-1))

	for i := range f.planes {
		length := f.planes[i].Normal.Len()
		f.planes[i].Normal = f.planes[i].Normal.Mul(1 / length)
		f.planes[i].D /= length
	}

	f.computeCorners()
}

func planeFromRow(row mgl64.Vec4) Plane {
	return Plane{Normal: mgl64.Vec3{row[0], row[1], row[2]}, D: row[3]}
}

// computeCorners intersects the 4 side edges of the frustum with the top and bottom planes.
func (f *BoundingFrustum) computeCorners() {
	edge := intersectionLine(f.planes[NearPlane], f.planes[LeftPlane])
	f.corners[0] = intersectionPoint(f.planes[TopPlane], edge)
	f.corners[3] = intersectionPoint(f.planes[BottomPlane], edge)

	edge = intersectionLine(f.planes[RightPlane], f.planes[NearPlane])
	f.corners[1] = intersectionPoint(f.planes[TopPlane], edge)
	f.corners[2] = intersectionPoint(f.planes[BottomPlane], edge)

	edge = intersectionLine(f.planes[LeftPlane], f.planes[FarPlane])
	f.corners[4] = intersectionPoint(f.planes[TopPlane], edge)
	f.corners[7] = intersectionPoint(f.planes[BottomPlane], edge)

	edge = intersectionLine(f.planes[FarPlane], f.planes[RightPlane])
	f.corners[5] = intersectionPoint(f.planes[TopPlane], edge)
	f.corners[6] = intersectionPoint(f.planes[BottomPlane], edge)
}

// intersectionLine returns the line shared by two non-parallel planes.
func intersectionLine(a, b Plane) Ray {
	direction := a.Normal.Cross(b.Normal)
	lengthSq := direction.LenSqr()

	position := b.Normal.Mul(-a.D).Add(a.Normal.Mul(b.D)).Cross(direction).Mul(1 / lengthSq)
	return Ray{Position: position, Direction: direction}
}

// intersectionPoint returns the point where line crosses plane.
func intersectionPoint(plane Plane, line Ray) mgl64.Vec3 {
	t := (-plane.D - plane.Normal.Dot(line.Position)) / plane.Normal.Dot(line.Direction)
	return line.At(t)
}

// Near returns the near plane.
func (f *BoundingFrustum) Near() Plane { return f.planes[NearPlane] }

// Far returns the far plane.
func (f *BoundingFrustum) Far() Plane { return f.planes[FarPlane] }

// Left returns the left plane.
func (f *BoundingFrustum) Left() Plane { return f.planes[LeftPlane] }

// Right returns the right plane.
func (f *BoundingFrustum) Right() Plane { return f.planes[RightPlane] }

// Top returns the top plane.
func (f *BoundingFrustum) Top() Plane { return f.planes[TopPlane] }

// Bottom returns the bottom plane.
func (f *BoundingFrustum) Bottom() Plane { return f.planes[BottomPlane] }

// Planes returns the 6 planes, indexed by NearPlane..BottomPlane.
func (f *BoundingFrustum) Planes() [6]Plane {
	return f.planes
}

// Corners returns the 8 corners.
func (f *BoundingFrustum) Corners() [CornerCount]mgl64.Vec3 {
	return f.corners
}

// AABB returns the axis-aligned box enclosing the frustum.
func (f *BoundingFrustum) AABB() BoundingBox {
	return NewBoundingBoxFromPoints(f.corners[:]...)
}

// SupportMapping returns the corner furthest along direction. The first corner wins ties.
func (f *BoundingFrustum) SupportMapping(direction mgl64.Vec3) mgl64.Vec3 {
	best := 0
	bestDot := f.corners[0].Dot(direction)
	for i := 1; i < CornerCount; i++ {
		if dot := f.corners[i].Dot(direction); dot > bestDot {
			best, bestDot = i, dot
		}
	}
	return f.corners[best]
}

// Anchor returns the first corner.
func (f *BoundingFrustum) Anchor() mgl64.Vec3 {
	return f.corners[0]
}

// AlternateAnchor returns the second corner.
func (f *BoundingFrustum) AlternateAnchor() mgl64.Vec3 {
	return f.corners[1]
}

// IntersectsWith runs the GJK test between the frustum and shape with the given simplex.
// It is safe for concurrent use as long as each goroutine passes its own simplex.
func (f *BoundingFrustum) IntersectsWith(shape gjk.Shape, simplex *gjk.Simplex) bool {
	return gjk.Intersect(f, shape, simplex)
}

func (f *BoundingFrustum) intersects(shape gjk.Shape) bool {
	if f.simplex == nil {
		f.simplex = &gjk.Simplex{}
	}
	return gjk.Intersect(f, shape, f.simplex)
}

// IntersectsBox checks whether box and the frustum overlap.
func (f *BoundingFrustum) IntersectsBox(box BoundingBox) bool {
	return f.intersects(box)
}

// IntersectsSphere checks whether sphere and the frustum overlap.
func (f *BoundingFrustum) IntersectsSphere(sphere BoundingSphere) bool {
	return f.intersects(sphere)
}

// IntersectsFrustum checks whether two frustums overlap.
func (f *BoundingFrustum) IntersectsFrustum(other *BoundingFrustum) bool {
	return f.intersects(other)
}

// IntersectsPlane classifies the frustum against plane from its corners.
func (f *BoundingFrustum) IntersectsPlane(plane Plane) PlaneIntersectionType {
	const front, back = 1, 2

	sides := 0
	for _, corner := range f.corners {
		if plane.DotCoordinate(corner) > 0 {
			sides |= front
		} else {
			sides |= back
		}
		if sides == front|back {
			return Intersecting
		}
	}

	if sides == front {
		return Front
	}
	return Back
}

// IntersectsRay returns the distance along ray to the frustum, clipping the ray against
// each plane. A ray starting inside the frustum returns 0.
func (f *BoundingFrustum) IntersectsRay(ray Ray) (float64, bool) {
	if f.ContainsPoint(ray.Position) == Contains {
		return 0, true
	}

	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for _, plane := range f.planes {
		denominator := ray.Direction.Dot(plane.Normal)
		distance := ray.Position.Dot(plane.Normal) + plane.D

		if math.Abs(denominator) < parallelEpsilon {
			// Parallel to the plane, and outside of it
			if distance > 0 {
				return 0, false
			}
			continue
		}

		t := -distance / denominator
		if denominator < 0 {
			// Entering through this plane
			if t > tMax {
				return 0, false
			}
			tMin = max(tMin, t)
		} else {
			// Leaving through this plane
			if t < tMin {
				return 0, false
			}
			tMax = min(tMax, t)
		}
	}

	t := tMin
	if t < 0 {
		t = tMax
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// ContainsPoint classifies point against the frustum. Points within containsEpsilon
// in front of a plane are still contained.
func (f *BoundingFrustum) ContainsPoint(point mgl64.Vec3) ContainmentType {
	for _, plane := range f.planes {
		if plane.DotCoordinate(point) > containsEpsilon {
			return Disjoint
		}
	}
	return Contains
}

// ContainsBox classifies box against the frustum, plane by plane.
//
// Boxes outside the frustum but straddling two of its planes near a corner are reported
// as Intersects; IntersectsBox decides those exactly.
func (f *BoundingFrustum) ContainsBox(box BoundingBox) ContainmentType {
	crossing := false
	for _, plane := range f.planes {
		switch box.IntersectsPlane(plane) {
		case Front:
			return Disjoint
		case Intersecting:
			crossing = true
		}
	}

	if crossing {
		return Intersects
	}
	return Contains
}

// ContainsSphere classifies sphere against the frustum, plane by plane. The same
// corner approximation as ContainsBox applies.
func (f *BoundingFrustum) ContainsSphere(sphere BoundingSphere) ContainmentType {
	inside := 0
	for _, plane := range f.planes {
		distance := plane.DotCoordinate(sphere.Center)
		if distance > sphere.Radius {
			return Disjoint
		}
		if distance < -sphere.Radius {
			inside++
		}
	}

	if inside == len(f.planes) {
		return Contains
	}
	return Intersects
}

// ContainsFrustum classifies other against the frustum: Disjoint when GJK finds no
// overlap, Contains when all the corners of other are inside, Intersects otherwise.
func (f *BoundingFrustum) ContainsFrustum(other *BoundingFrustum) ContainmentType {
	if !f.IntersectsFrustum(other) {
		return Disjoint
	}

	for _, corner := range other.corners {
		if f.ContainsPoint(corner) == Disjoint {
			return Intersects
		}
	}
	return Contains
}
