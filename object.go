package sight

import (
	"github.com/akmonengine/sight/volume"
)

// Object is a cullable item of the world: a local bounding volume placed by a transform.
type Object struct {
	// Id is an opaque identifier, reported back in events and query results
	Id        any
	Bounds    volume.Volume
	Transform volume.Transform

	// world-space bounds, refreshed by Update
	worldBounds volume.Volume
	aabb        volume.BoundingBox
}

// NewObject creates an object and computes its world bounds.
func NewObject(id any, bounds volume.Volume, transform volume.Transform) *Object {
	o := &Object{Id: id, Bounds: bounds, Transform: transform}
	o.Update()
	return o
}

// SetTransform moves the object.
func (o *Object) SetTransform(transform volume.Transform) {
	o.Transform = transform
	o.Update()
}

// Update recomputes the world bounds after Bounds or Transform changed.
func (o *Object) Update() {
	if o.Bounds == nil {
		o.worldBounds = nil
		o.aabb = volume.BoundingBox{}
		return
	}

	o.worldBounds = o.Bounds.Transformed(o.Transform)
	o.aabb = o.worldBounds.AABB()
}

// WorldBounds returns the bounding volume in world space.
func (o *Object) WorldBounds() volume.Volume {
	return o.worldBounds
}

// AABB returns the world axis-aligned box of the object.
func (o *Object) AABB() volume.BoundingBox {
	return o.aabb
}
