package volume

import "github.com/akmonengine/sight/gjk"

// Volume is a bounding volume that can be placed in the world, culled and picked.
// BoundingBox and BoundingSphere implement it.
type Volume interface {
	gjk.Shape

	// AABB returns the axis-aligned box enclosing the volume.
	AABB() BoundingBox
	// Transformed returns the volume moved by transform.
	Transformed(transform Transform) Volume
	// IntersectsRay returns the distance along ray to the volume.
	IntersectsRay(ray Ray) (float64, bool)
	// ContainedBy classifies the volume against frustum.
	ContainedBy(frustum *BoundingFrustum) ContainmentType
}

var (
	_ Volume = BoundingBox{}
	_ Volume = BoundingSphere{}

	_ gjk.Shape             = (*BoundingFrustum)(nil)
	_ gjk.AlternateAnchorer = BoundingBox{}
	_ gjk.AlternateAnchorer = (*BoundingFrustum)(nil)
)
