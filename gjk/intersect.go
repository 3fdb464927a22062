package gjk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations bounds the refinement loop. A full simplex is reached in at most
	// 4 insertions; the remaining budget covers curved shapes converging slowly.
	MaxIterations = 64

	// SeedEpsilon is the squared length under which the seed direction is replaced.
	SeedEpsilon = 1e-5

	// ConvergenceTolerance is the relative decrease of the squared distance under which
	// the search is considered stalled on the boundary of A - B.
	ConvergenceTolerance = 1e-5

	// ContactTolerance scales MaxLengthSquared into the absolute squared distance
	// considered as reaching the origin.
	ContactTolerance = 4e-5
)

// Shape is a convex volume usable by GJK.
type Shape interface {
	// SupportMapping returns the point of the shape that maximises the dot product with
	// direction.
	SupportMapping(direction mgl64.Vec3) mgl64.Vec3
	// Anchor returns any point of the shape. It seeds the search direction.
	Anchor() mgl64.Vec3
}

// AlternateAnchorer is implemented by shapes offering a second seed point, used when the
// anchors of both shapes coincide.
type AlternateAnchorer interface {
	AlternateAnchor() mgl64.Vec3
}

// MinkowskiSupport computes the support point of the Minkowski difference A - B in the
// given direction: furthestPoint(A, direction) - furthestPoint(B, -direction).
func MinkowskiSupport(a, b Shape, direction mgl64.Vec3) mgl64.Vec3 {
	return a.SupportMapping(direction).Sub(b.SupportMapping(direction.Mul(-1)))
}

// Intersects reports whether a and b overlap, using a simplex from SimplexPool.
func Intersects(a, b Shape) bool {
	simplex := SimplexPool.Get().(*Simplex)
	defer SimplexPool.Put(simplex)

	return Intersect(a, b, simplex)
}

// Intersect performs the GJK intersection test between a and b.
//
// Algorithm overview:
//  1. Seed the direction d from b's anchor towards a's anchor
//  2. Take the support point w of A - B along -d
//  3. If w does not pass the origin along -d, the shapes are separated
//  4. Add w to the simplex, d becomes its closest point to the origin
//  5. Stop when the simplex encloses the origin or d is within tolerance of it
//
// The test is conservative on the boundary: when an iteration fails to shrink d by more
// than ConvergenceTolerance, shapes are reported as not intersecting, even when they are
// touching.
//
// The simplex is reset first and is left holding the last simplex of the search.
func Intersect(a, b Shape, simplex *Simplex) bool {
	simplex.Reset()
	direction := seedDirection(a, b)
	lengthSq := math.MaxFloat64

	for i := 0; i < MaxIterations; i++ {
		w := MinkowskiSupport(a, b, direction.Mul(-1))

		// Separating axis: the whole of A - B lies on the positive side of d
		if direction.Dot(w) > 0 {
			return false
		}

		simplex.AddSupportPoint(w)
		direction = simplex.ClosestPoint()

		previous := lengthSq
		lengthSq = direction.LenSqr()
		if previous-lengthSq <= ConvergenceTolerance*previous {
			return false
		}

		if simplex.FullSimplex() || lengthSq < ContactTolerance*simplex.MaxLengthSquared() {
			return true
		}
	}

	return false
}

func seedDirection(a, b Shape) mgl64.Vec3 {
	direction := a.Anchor().Sub(b.Anchor())
	if direction.LenSqr() >= SeedEpsilon {
		return direction
	}

	if alternate, ok := b.(AlternateAnchorer); ok {
		return a.Anchor().Sub(alternate.AlternateAnchor())
	}
	return mgl64.Vec3{1, 0, 0}
}
