package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// slabEpsilon is the direction component under which a ray is parallel to a box slab.
	slabEpsilon = 1e-6
	// parallelEpsilon is the dot product under which a ray is parallel to a plane.
	parallelEpsilon = 1e-5
)

// Ray is a half-line starting at Position.
type Ray struct {
	Position  mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at distance t along the ray, in units of Direction.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Position.Add(r.Direction.Mul(t))
}

// IntersectsBox returns the distance to the first point of box along the ray, using the
// slab method. A ray starting inside the box returns 0.
func (r Ray) IntersectsBox(box BoundingBox) (float64, bool) {
	tMin := 0.0
	tMax := math.MaxFloat64

	for axis := 0; axis < 3; axis++ {
		origin := r.Position[axis]
		direction := r.Direction[axis]

		if math.Abs(direction) < slabEpsilon {
			if origin < box.Min[axis] || origin > box.Max[axis] {
				return 0, false
			}
			continue
		}

		inv := 1 / direction
		near := (box.Min[axis] - origin) * inv
		far := (box.Max[axis] - origin) * inv
		if near > far {
			near, far = far, near
		}

		tMin = max(tMin, near)
		tMax = min(tMax, far)
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}

// IntersectsSphere returns the distance to the first point of sphere along the ray.
// Direction must be normalized. A ray starting inside the sphere returns 0.
func (r Ray) IntersectsSphere(sphere BoundingSphere) (float64, bool) {
	toCenter := sphere.Center.Sub(r.Position)
	lengthSq := toCenter.LenSqr()
	radiusSq := sphere.Radius * sphere.Radius

	if lengthSq <= radiusSq {
		return 0, true
	}

	projection := toCenter.Dot(r.Direction)
	if projection < 0 {
		return 0, false
	}

	distanceSq := lengthSq - projection*projection
	if distanceSq > radiusSq {
		return 0, false
	}

	return projection - math.Sqrt(radiusSq-distanceSq), true
}

// IntersectsPlane returns the distance along the ray to plane. Rays starting marginally
// past the plane report 0.
func (r Ray) IntersectsPlane(plane Plane) (float64, bool) {
	denominator := plane.Normal.Dot(r.Direction)
	if math.Abs(denominator) < parallelEpsilon {
		return 0, false
	}

	t := (-plane.D - plane.Normal.Dot(r.Position)) / denominator
	if t < 0 {
		if t < -parallelEpsilon {
			return 0, false
		}
		t = 0
	}

	return t, true
}
