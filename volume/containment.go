// Package volume provides the bounding volumes used for visibility and picking queries:
// planes, rays, axis-aligned boxes, spheres and view frustums.
//
// Planes follow the convention Normal·p + D = 0, points with a positive distance being
// in front of the plane. Frustum planes point outwards, so a point is inside a frustum
// when it is behind all of its planes.
package volume

// ContainmentType describes how much of a volume lies inside another one.
type ContainmentType int

const (
	// Disjoint volumes do not overlap.
	Disjoint ContainmentType = iota
	// Contains means the tested volume is entirely inside.
	Contains
	// Intersects means the volumes overlap partially.
	Intersects
)

func (c ContainmentType) String() string {
	switch c {
	case Disjoint:
		return "disjoint"
	case Contains:
		return "contains"
	case Intersects:
		return "intersects"
	}
	return "unknown"
}

// PlaneIntersectionType classifies a volume against a plane.
type PlaneIntersectionType int

const (
	// Front means the volume lies entirely on the side the normal points to.
	Front PlaneIntersectionType = iota
	// Back means the volume lies entirely behind the plane.
	Back
	// Intersecting means the plane crosses the volume.
	Intersecting
)

func (p PlaneIntersectionType) String() string {
	switch p {
	case Front:
		return "front"
	case Back:
		return "back"
	case Intersecting:
		return "intersecting"
	}
	return "unknown"
}
