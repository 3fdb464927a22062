package sight

import (
	"math"
	"sort"

	"github.com/akmonengine/sight/volume"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey - Coordonnées d'une cellule dans l'espace 3D
type CellKey struct {
	X, Y, Z int
}

// Cell - Conteneur d'indices d'objets dans une cellule
type Cell struct {
	objectIndices []int
}

// SpatialGrid - Grille spatiale uniforme avec hashing pour la broad phase
//
// Cells are hashed into a fixed number of buckets: two distant cells may share a bucket,
// so Query filters its candidates on their AABB.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// ============================================================================
// Constructeur
// ============================================================================

// NewSpatialGrid - Crée une nouvelle grille spatiale
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].objectIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - Arrondit à la puissance de 2 supérieure
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// CellSize returns the edge length of a cell.
func (sg *SpatialGrid) CellSize() float64 {
	return sg.cellSize
}

// Insert - Insère un objet dans toutes les cellules que son AABB occupe
func (sg *SpatialGrid) Insert(objectIndex int, aabb volume.BoundingBox) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	// Larger than the table: every bucket would be visited anyway
	if sg.spanExceedsBuckets(minCell, maxCell) {
		for i := range sg.cells {
			sg.cells[i].objectIndices = append(sg.cells[i].objectIndices, objectIndex)
		}
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellKey := CellKey{x, y, z}
				cellIdx := sg.hashCell(cellKey)

				sg.cells[cellIdx].objectIndices = append(
					sg.cells[cellIdx].objectIndices,
					objectIndex,
				)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].objectIndices = sg.cells[i].objectIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].objectIndices) > 1 {
			sort.Ints(sg.cells[i].objectIndices)
		}
	}
}

// Query returns, in increasing order and without duplicates, the indices of the objects
// whose AABB overlaps aabb. objects must be the slice the indices were inserted from.
func (sg *SpatialGrid) Query(aabb volume.BoundingBox, objects []*Object) []int {
	seen := make([]bool, len(objects))
	candidates := make([]int, 0)

	visit := func(cellIdx int) {
		for _, idx := range sg.cells[cellIdx].objectIndices {
			// Avoid duplicates
			if idx >= len(objects) || seen[idx] {
				continue
			}
			seen[idx] = true

			if objects[idx].AABB().Intersects(aabb) {
				candidates = append(candidates, idx)
			}
		}
	}

	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	if sg.spanExceedsBuckets(minCell, maxCell) {
		for cellIdx := range sg.cells {
			visit(cellIdx)
		}
	} else {
		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					visit(sg.hashCell(CellKey{x, y, z}))
				}
			}
		}
	}

	sort.Ints(candidates)
	return candidates
}

// spanExceedsBuckets reports whether the cells between minCell and maxCell outnumber the
// buckets of the table.
func (sg *SpatialGrid) spanExceedsBuckets(minCell, maxCell CellKey) bool {
	span := float64(maxCell.X-minCell.X+1) *
		float64(maxCell.Y-minCell.Y+1) *
		float64(maxCell.Z-minCell.Z+1)
	return span > float64(len(sg.cells))
}

// worldToCell - Convertit une position monde en coordonnées de cellule
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - Hash une cellule vers un index dans l'array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
