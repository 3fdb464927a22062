package sight

import (
	"github.com/akmonengine/sight/gjk"
	"github.com/akmonengine/sight/volume"
)

// Visibility is the classification of one object against a frustum.
type Visibility struct {
	Index       int
	Object      *Object
	Containment volume.ContainmentType
}

// BroadPhase rebuilds the grid from the objects world AABBs, and returns the indices of
// the objects whose AABB overlaps the AABB of the frustum.
func BroadPhase(spatialGrid *SpatialGrid, objects []*Object, frustum *volume.BoundingFrustum) []int {
	spatialGrid.Clear()
	for i, object := range objects {
		if object.WorldBounds() == nil {
			continue
		}
		spatialGrid.Insert(i, object.AABB())
	}
	spatialGrid.SortCells()

	return spatialGrid.Query(frustum.AABB(), objects)
}

// NarrowPhase classifies each candidate against the frustum, spread over workersCount
// goroutines. The result keeps the order of candidates.
func NarrowPhase(frustum *volume.BoundingFrustum, objects []*Object, candidates []int, workersCount int) []Visibility {
	visibility := make([]Visibility, len(candidates))

	task(workersCount, candidates, func(i int, objectIndex int) {
		object := objects[objectIndex]

		simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
		simplex.Reset()
		containment := Classify(frustum, object.WorldBounds(), simplex)
		gjk.SimplexPool.Put(simplex)

		visibility[i] = Visibility{Index: objectIndex, Object: object, Containment: containment}
	})

	return visibility
}

// Classify returns the containment of bounds in frustum.
//
// The plane test is exact for Contains and Disjoint, but reports Intersects for volumes
// lying outside the frustum near one of its edges. Those are confirmed with GJK, using
// simplex as scratch space.
func Classify(frustum *volume.BoundingFrustum, bounds volume.Volume, simplex *gjk.Simplex) volume.ContainmentType {
	containment := bounds.ContainedBy(frustum)
	if containment != volume.Intersects {
		return containment
	}

	if !frustum.IntersectsWith(bounds, simplex) {
		return volume.Disjoint
	}
	return volume.Intersects
}
