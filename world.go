// Package sight culls bounding volumes against camera frustums, using a hashed grid
// broad phase and a GJK narrow phase.
package sight

import (
	"math"

	"github.com/akmonengine/sight/volume"
	"go.uber.org/zap"
)

const (
	DEFAULT_WORKERS   = 1
	DEFAULT_CELL_SIZE = 4.0
	DEFAULT_CELLS     = 1024
)

// World holds the objects to cull against camera frustums.
type World struct {
	// List of all objects in the world, indexed by Visibility.Index
	Objects     []*Object
	SpatialGrid *SpatialGrid
	Workers     int

	Events Events
	Logger *zap.Logger
}

// Option configures a World.
type Option func(w *World)

// WithWorkers sets the number of goroutines of the narrow phase.
func WithWorkers(workers int) Option {
	return func(w *World) {
		w.Workers = workers
	}
}

// WithSpatialGrid replaces the default broad phase grid.
func WithSpatialGrid(grid *SpatialGrid) Option {
	return func(w *World) {
		w.SpatialGrid = grid
	}
}

// WithLogger sets the logger, zap.NewNop() by default.
func WithLogger(logger *zap.Logger) Option {
	return func(w *World) {
		w.Logger = logger
	}
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		Workers:     DEFAULT_WORKERS,
		SpatialGrid: NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_CELLS),
		Events:      NewEvents(),
		Logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddObject adds an object to the world
func (w *World) AddObject(object *Object) {
	w.Objects = append(w.Objects, object)
}

// RemoveObject removes an object from the world. No exit event is sent for it.
func (w *World) RemoveObject(object *Object) {
	k := -1
	for i, o := range w.Objects {
		if o == object {
			k = i
			break
		}
	}

	if k != -1 {
		w.Objects = append(w.Objects[:k], w.Objects[k+1:]...)
	}

	w.Events.forget(object)
}

// Cull returns the objects visible from frustum, Contains or Intersects, ordered by
// index in Objects. Visibility events are sent before it returns.
//
// Cull must not run concurrently with itself or with changes to the objects.
func (w *World) Cull(frustum *volume.BoundingFrustum) []Visibility {
	w.defaults()

	// Phase 1: world bounds
	w.update()

	// Phase 2.0: Broad phase - grid cells overlapped by the frustum AABB
	candidates := BroadPhase(w.SpatialGrid, w.Objects, frustum)

	// Phase 2.1: Narrow phase - planes, then GJK for the partial cases
	classified := NarrowPhase(frustum, w.Objects, candidates, w.Workers)

	visible := classified[:0]
	for _, v := range classified {
		if v.Containment != volume.Disjoint {
			visible = append(visible, v)
		}
	}

	w.Logger.Debug("cull",
		zap.Int("objects", len(w.Objects)),
		zap.Int("candidates", len(candidates)),
		zap.Int("visible", len(visible)),
	)

	w.Events.recordVisibility(visible)
	w.Events.flush()

	return visible
}

// Pick returns the nearest object hit by ray, and the distance to it along the
// normalized ray direction.
func (w *World) Pick(ray volume.Ray) (*Object, float64, bool) {
	w.defaults()

	if ray.Direction.LenSqr() == 0 {
		return nil, 0, false
	}
	ray.Direction = ray.Direction.Normalize()

	var nearest *Object
	nearestDistance := math.Inf(1)

	for _, object := range w.Objects {
		if object.WorldBounds() == nil {
			continue
		}
		if distance, ok := object.AABB().IntersectsRay(ray); !ok || distance >= nearestDistance {
			continue
		}
		if distance, ok := object.WorldBounds().IntersectsRay(ray); ok && distance < nearestDistance {
			nearest, nearestDistance = object, distance
		}
	}

	if nearest == nil {
		return nil, 0, false
	}
	return nearest, nearestDistance, true
}

func (w *World) update() {
	task(w.Workers, w.Objects, func(_ int, object *Object) {
		object.Update()
	})
}

func (w *World) defaults() {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	if w.SpatialGrid == nil {
		w.SpatialGrid = NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_CELLS)
	}
	if w.Logger == nil {
		w.Logger = zap.NewNop()
	}
}
