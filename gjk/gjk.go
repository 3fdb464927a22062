// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for intersection tests
// between convex volumes.
//
// GJK decides whether two convex shapes overlap by searching the point of their Minkowski
// difference A - B that is closest to the origin. The Simplex keeps at most four support
// points of A - B and, after every insertion, selects the smallest sub-simplex whose closest
// point to the origin is also the closest point of the whole hull (Johnson's distance
// sub-algorithm). The sub-determinants of every subset are cached and extended
// incrementally: adding a point only computes the cells involving that point.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"math/bits"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// BitsToIndices maps a 4-bit subset mask to the 1-based indices of its members, packed
// 3 bits per slot with the lowest index in the lowest slot. For example mask 0b0101 maps
// to 1 | 3<<3 = 25.
//
// Iterate the members of a mask with:
//
//	for it := BitsToIndices[mask]; it != 0; it >>= 3 {
//		i := (it & 7) - 1
//	}
var BitsToIndices = [16]int{0, 1, 2, 17, 3, 25, 26, 209, 4, 33, 34, 273, 35, 281, 282, 2257}

// fullSimplexBits is the mask with the 4 slots in use: a tetrahedron.
const fullSimplexBits = 15

// Simplex represents a set of 1-4 points in the Minkowski difference space, together with
// the cached data used to compute its closest point to the origin.
//
// All storage is fixed-size, so a Simplex never allocates once created. It is not safe
// for concurrent use; see SimplexPool to give each goroutine its own instance.
type Simplex struct {
	y         [4]mgl64.Vec3
	yLengthSq [4]float64

	// edges[i][j] = y[i] - y[j]
	edges        [4][4]mgl64.Vec3
	edgeLengthSq [4][4]float64

	// det[subset][i] is the cofactor of y[i] in the affine combination of subset
	// that is closest to the origin. Only cells whose subset is made of points
	// inserted while the others were active are meaningful.
	det [16][4]float64

	closestPoint mgl64.Vec3
	simplexBits  int
	maxLengthSq  float64
}

// SimplexPool recycles simplices between intersection queries.
var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// Reset empties the simplex. Cached determinants are left in place: they are
// overwritten before being read again.
func (s *Simplex) Reset() {
	s.simplexBits = 0
	s.maxLengthSq = 0
}

// FullSimplex reports whether the 4 slots are active, meaning the tetrahedron
// encloses the origin.
func (s *Simplex) FullSimplex() bool {
	return s.simplexBits == fullSimplexBits
}

// ClosestPoint returns the point of the current simplex closest to the origin.
func (s *Simplex) ClosestPoint() mgl64.Vec3 {
	return s.closestPoint
}

// MaxLengthSquared returns the largest squared length among the points supporting
// ClosestPoint. Callers use it to scale their tolerances.
func (s *Simplex) MaxLengthSquared() float64 {
	return s.maxLengthSq
}

// Count returns the number of active points.
func (s *Simplex) Count() int {
	return bits.OnesCount(uint(s.simplexBits))
}

// Points returns a copy of the active points, in slot order.
func (s *Simplex) Points() []mgl64.Vec3 {
	points := make([]mgl64.Vec3, 0, 4)
	for it := BitsToIndices[s.simplexBits]; it != 0; it >>= 3 {
		points = append(points, s.y[(it&7)-1])
	}
	return points
}

// AddSupportPoint inserts a new point of the Minkowski difference and reduces the simplex
// to the smallest subset supporting the closest point to the origin.
//
// It returns false when no subset containing the new point is valid: the point does not
// improve the approximation and the simplex is left unchanged. A full simplex accepts no
// more points.
func (s *Simplex) AddSupportPoint(point mgl64.Vec3) bool {
	if s.simplexBits == fullSimplexBits {
		return false
	}

	// Lowest free slot
	index := (BitsToIndices[s.simplexBits^fullSimplexBits] & 7) - 1

	s.y[index] = point
	s.yLengthSq[index] = point.LenSqr()

	for it := BitsToIndices[s.simplexBits]; it != 0; it >>= 3 {
		j := (it & 7) - 1
		edge := s.y[j].Sub(point)
		s.edges[j][index] = edge
		s.edges[index][j] = edge.Mul(-1)

		lengthSq := edge.LenSqr()
		s.edgeLengthSq[index][j] = lengthSq
		s.edgeLengthSq[j][index] = lengthSq
	}

	s.updateDeterminant(index)
	return s.updateSimplex(index)
}

// updateDeterminant fills every det cell of the subsets made of x and active points.
//
// For a subset X and a new member j:
//
//	det[X ∪ {j}][j] = Σ_{i ∈ X} det[X][i] * (y[k] - y[j])·y[i]
//
// where k is any member of X. The member with the shortest edge to j is used, which keeps
// the dot products well conditioned.
func (s *Simplex) updateDeterminant(x int) {
	xBit := 1 << x
	s.det[xBit][x] = 1

	active := BitsToIndices[s.simplexBits]
	previous := 0
	for it := active; it != 0; it >>= 3 {
		a := (it & 7) - 1
		aBit := 1 << a
		ax := aBit | xBit

		s.det[ax][a] = s.edges[x][a].Dot(s.y[x])
		s.det[ax][x] = s.edges[a][x].Dot(s.y[a])

		// Triangles {a, b, x} with b visited before a
		jt := active
		for n := 0; n < previous; n++ {
			b := (jt & 7) - 1
			bBit := 1 << b
			abx := ax | bBit

			k := s.nearer(a, x, b)
			s.det[abx][b] = s.det[ax][a]*s.edges[k][b].Dot(s.y[a]) +
				s.det[ax][x]*s.edges[k][b].Dot(s.y[x])

			k = s.nearer(b, x, a)
			s.det[abx][a] = s.det[bBit|xBit][b]*s.edges[k][a].Dot(s.y[b]) +
				s.det[bBit|xBit][x]*s.edges[k][a].Dot(s.y[x])

			k = s.nearer(a, b, x)
			s.det[abx][x] = s.det[aBit|bBit][b]*s.edges[k][x].Dot(s.y[b]) +
				s.det[aBit|bBit][a]*s.edges[k][x].Dot(s.y[a])

			jt >>= 3
		}
		previous++
	}

	if s.simplexBits|xBit != fullSimplexBits {
		return
	}

	// Tetrahedron: each cell extends the triangle made of the 3 other points.
	for j := 0; j < 4; j++ {
		rest := fullSimplexBits &^ (1 << j)

		k := -1
		for it := BitsToIndices[rest]; it != 0; it >>= 3 {
			i := (it & 7) - 1
			if k < 0 || s.edgeLengthSq[i][j] < s.edgeLengthSq[k][j] {
				k = i
			}
		}

		var det float64
		for it := BitsToIndices[rest]; it != 0; it >>= 3 {
			i := (it & 7) - 1
			det += s.det[rest][i] * s.edges[k][j].Dot(s.y[i])
		}
		s.det[fullSimplexBits][j] = det
	}
}

// nearer returns p if its edge to j is strictly shorter than q's, q otherwise.
func (s *Simplex) nearer(p, q, j int) int {
	if s.edgeLengthSq[p][j] < s.edgeLengthSq[q][j] {
		return p
	}
	return q
}

// updateSimplex selects the new active subset after x was inserted.
//
// Candidate subsets of the previous simplex are visited from the highest mask down to 1,
// each extended with x; the first one satisfying the rule wins. The singleton {x} is
// tried last.
func (s *Simplex) updateSimplex(x int) bool {
	xBits := 1 << x
	yBits := s.simplexBits | xBits

	for sb := s.simplexBits; sb != 0; sb-- {
		if sb&yBits == sb && s.satisfiesRule(sb|xBits, yBits) {
			s.simplexBits = sb | xBits
			s.closestPoint = s.computeClosestPoint()
			return true
		}
	}

	if s.satisfiesRule(xBits, yBits) {
		s.simplexBits = xBits
		s.closestPoint = s.y[x]
		s.maxLengthSq = s.yLengthSq[x]
		return true
	}

	return false
}

// satisfiesRule is Johnson's selection criterion: subset xBits of yBits supports the
// closest point iff every member has a positive cofactor and adding any other point of
// yBits would give that point a non-positive cofactor.
func (s *Simplex) satisfiesRule(xBits, yBits int) bool {
	for it := BitsToIndices[yBits]; it != 0; it >>= 3 {
		i := (it & 7) - 1
		bit := 1 << i

		if bit&xBits != 0 {
			if s.det[xBits][i] <= 0 {
				return false
			}
		} else if s.det[xBits|bit][i] > 0 {
			return false
		}
	}
	return true
}

// computeClosestPoint rebuilds the closest point from the barycentric weights of the
// active subset and refreshes maxLengthSq.
func (s *Simplex) computeClosestPoint() mgl64.Vec3 {
	var sum float64
	var point mgl64.Vec3
	s.maxLengthSq = 0

	for it := BitsToIndices[s.simplexBits]; it != 0; it >>= 3 {
		i := (it & 7) - 1
		det := s.det[s.simplexBits][i]

		sum += det
		point = point.Add(s.y[i].Mul(det))
		s.maxLengthSq = max(s.maxLengthSq, s.yLengthSq[i])
	}

	// Accepted subsets only hold positive cofactors
	if sum == 0 {
		panic("gjk: zero determinant sum on an accepted simplex")
	}

	return point.Mul(1 / sum)
}
