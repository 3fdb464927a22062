package gjk

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Test helper functions

func addAll(t *testing.T, s *Simplex, points ...mgl64.Vec3) {
	t.Helper()
	for i, p := range points {
		if !s.AddSupportPoint(p) {
			t.Fatalf("AddSupportPoint(%v) #%d rejected", p, i)
		}
	}
}

func assertVecNear(t *testing.T, got, want mgl64.Vec3, tolerance float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		if math.Abs(got[i]-want[i]) > tolerance {
			t.Errorf("got %v, want %v (tolerance %g)", got, want, tolerance)
			return
		}
	}
}

// affineClosestPoint solves min |p0 + Σ λi (pi - p0)| by least squares, independently of
// the determinant bookkeeping of the simplex.
func affineClosestPoint(points ...mgl64.Vec3) mgl64.Vec3 {
	if len(points) == 1 {
		return points[0]
	}

	p0 := points[0]
	a := mat.NewDense(3, len(points)-1, nil)
	for col, p := range points[1:] {
		edge := p.Sub(p0)
		for row := 0; row < 3; row++ {
			a.Set(row, col, edge[row])
		}
	}
	b := mat.NewVecDense(3, []float64{-p0[0], -p0[1], -p0[2]})

	var lambda mat.VecDense
	if err := lambda.SolveVec(a, b); err != nil {
		panic(err)
	}

	var offset mat.VecDense
	offset.MulVec(a, &lambda)
	return p0.Add(mgl64.Vec3{offset.AtVec(0), offset.AtVec(1), offset.AtVec(2)})
}

func TestBitsToIndices(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		var got []int
		for it := BitsToIndices[mask]; it != 0; it >>= 3 {
			got = append(got, (it&7)-1)
		}

		var want []int
		for i := 0; i < 4; i++ {
			if mask&(1<<i) != 0 {
				want = append(want, i)
			}
		}

		if len(got) != len(want) {
			t.Fatalf("mask %04b: got indices %v, want %v", mask, got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("mask %04b: got indices %v, want %v", mask, got, want)
				break
			}
		}
	}
}

func TestSimplex_SinglePoint(t *testing.T) {
	s := &Simplex{}
	addAll(t, s, mgl64.Vec3{3, 4, 0})

	assertVecNear(t, s.ClosestPoint(), mgl64.Vec3{3, 4, 0}, 0)
	if s.MaxLengthSquared() != 25 {
		t.Errorf("MaxLengthSquared = %v, want 25", s.MaxLengthSquared())
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
	if s.FullSimplex() {
		t.Error("single point should not be a full simplex")
	}
}

func TestSimplex_Segment(t *testing.T) {
	t.Run("origin projects inside the segment", func(t *testing.T) {
		s := &Simplex{}
		addAll(t, s, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{-1, -1, 1})

		assertVecNear(t, s.ClosestPoint(), mgl64.Vec3{0, 0, 1}, 1e-12)
		if s.Count() != 2 {
			t.Errorf("Count = %d, want 2", s.Count())
		}
		if s.MaxLengthSquared() != 3 {
			t.Errorf("MaxLengthSquared = %v, want 3", s.MaxLengthSquared())
		}
	})

	t.Run("closer new point replaces the old one", func(t *testing.T) {
		s := &Simplex{}
		addAll(t, s, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 0, 0})

		assertVecNear(t, s.ClosestPoint(), mgl64.Vec3{1, 0, 0}, 0)
		if s.Count() != 1 {
			t.Errorf("Count = %d, want 1", s.Count())
		}
		if s.MaxLengthSquared() != 1 {
			t.Errorf("MaxLengthSquared = %v, want 1", s.MaxLengthSquared())
		}
	})

	t.Run("further point is rejected", func(t *testing.T) {
		s := &Simplex{}
		addAll(t, s, mgl64.Vec3{1, 0, 0})

		if s.AddSupportPoint(mgl64.Vec3{2, 0, 0}) {
			t.Error("a point further along the same ray should not be accepted")
		}
		assertVecNear(t, s.ClosestPoint(), mgl64.Vec3{1, 0, 0}, 0)
		if s.Count() != 1 {
			t.Errorf("Count = %d, want 1", s.Count())
		}
	})
}

func TestSimplex_Triangle(t *testing.T) {
	s := &Simplex{}
	a, b, c := mgl64.Vec3{1, 1, 1}, mgl64.Vec3{-1, -1, 1}, mgl64.Vec3{-1, 1, -1}
	addAll(t, s, a, b, c)

	// The closest point of this triangle's plane is its centroid
	assertVecNear(t, s.ClosestPoint(), mgl64.Vec3{-1.0 / 3, 1.0 / 3, 1.0 / 3}, 1e-12)
	if s.Count() != 3 {
		t.Errorf("Count = %d, want 3", s.Count())
	}
}

func TestSimplex_TetrahedronClosure(t *testing.T) {
	s := &Simplex{}
	points := []mgl64.Vec3{{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1}}

	for i, p := range points {
		if s.FullSimplex() {
			t.Fatalf("full simplex reached after %d points", i)
		}
		s.AddSupportPoint(p)
	}

	if !s.FullSimplex() {
		t.Fatalf("expected a full simplex, got %d points", s.Count())
	}
	if got := s.ClosestPoint().Len(); got > 1e-12 {
		t.Errorf("closest point of an enclosing tetrahedron should be the origin, got length %v", got)
	}
	if s.AddSupportPoint(mgl64.Vec3{5, 5, 5}) {
		t.Error("a full simplex should not accept more points")
	}
}

func TestSimplex_TetrahedronNotEnclosing(t *testing.T) {
	s := &Simplex{}
	// All points have x >= 1: the tetrahedron leaves the origin outside
	addAll(t, s, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, -1, 1}, mgl64.Vec3{1, 0, -1})
	s.AddSupportPoint(mgl64.Vec3{3, 0, 0})

	if s.FullSimplex() {
		t.Fatal("origin is outside the tetrahedron, simplex should not be full")
	}
	assertVecNear(t, s.ClosestPoint(), mgl64.Vec3{1, 0, 0}, 1e-12)
}

func TestSimplex_AgainstLeastSquares(t *testing.T) {
	tests := []struct {
		name   string
		points []mgl64.Vec3
	}{
		{"segment", []mgl64.Vec3{{2, -1, 3}, {-1, 2, 1}}},
		{"triangle in plane x=2", []mgl64.Vec3{{2, -1, 1}, {2, 2, -1}, {2, -1, -2}}},
		{"skewed triangle", []mgl64.Vec3{{1, 0.5, 2}, {-2, 1, 1.5}, {0.5, -2, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Simplex{}
			addAll(t, s, tt.points...)

			if s.Count() != len(tt.points) {
				t.Fatalf("Count = %d, want %d (origin should project inside)", s.Count(), len(tt.points))
			}
			assertVecNear(t, s.ClosestPoint(), affineClosestPoint(tt.points...), 1e-9)
		})
	}
}

func TestSimplex_ResetReplay(t *testing.T) {
	sequence := []mgl64.Vec3{{3, 1, 0.5}, {-2, 1.5, 1}, {0.5, -2, 2}, {0.2, 0.3, -3}}

	run := func(s *Simplex) ([]mgl64.Vec3, []bool) {
		var closest []mgl64.Vec3
		var full []bool
		for _, p := range sequence {
			s.AddSupportPoint(p)
			closest = append(closest, s.ClosestPoint())
			full = append(full, s.FullSimplex())
		}
		return closest, full
	}

	reused := &Simplex{}
	// Pollute the cached determinants first
	run(reused)
	reused.AddSupportPoint(mgl64.Vec3{9, 9, 9})

	reused.Reset()
	gotClosest, gotFull := run(reused)
	wantClosest, wantFull := run(&Simplex{})

	for i := range sequence {
		if gotClosest[i] != wantClosest[i] {
			t.Errorf("step %d: closest %v after Reset, %v on a fresh simplex", i, gotClosest[i], wantClosest[i])
		}
		if gotFull[i] != wantFull[i] {
			t.Errorf("step %d: full %v after Reset, %v on a fresh simplex", i, gotFull[i], wantFull[i])
		}
	}
}

func TestSimplex_Points(t *testing.T) {
	s := &Simplex{}
	addAll(t, s, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 0, 0})

	points := s.Points()
	if len(points) != 1 {
		t.Fatalf("expected 1 active point, got %d", len(points))
	}
	// Slot 1 holds the surviving point
	if points[0] != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("expected (1,0,0), got %v", points[0])
	}
}

func TestSimplex_ZeroDeterminantPanics(t *testing.T) {
	s := &Simplex{}
	s.simplexBits = 3
	s.det[3][0] = 1
	s.det[3][1] = -1

	defer func() {
		if recover() == nil {
			t.Error("expected a panic on a zero determinant sum")
		}
	}()
	s.computeClosestPoint()
}

func TestSimplex_NoNaN(t *testing.T) {
	// Coincident and collinear inputs must not poison the closest point
	s := &Simplex{}
	for _, p := range []mgl64.Vec3{{1, 1, 0}, {1, 1, 0}, {2, 2, 0}, {3, 3, 0}} {
		s.AddSupportPoint(p)
		c := s.ClosestPoint()
		if math.IsNaN(c[0]) || math.IsNaN(c[1]) || math.IsNaN(c[2]) {
			t.Fatalf("closest point became NaN after adding %v", p)
		}
	}
	assertVecNear(t, s.ClosestPoint(), mgl64.Vec3{1, 1, 0}, 1e-12)
}

// Benchmark tests

func BenchmarkSimplex_Tetrahedron(b *testing.B) {
	points := []mgl64.Vec3{{1, 1, 1}, {-1, -1, 1}, {-1, 1, -1}, {1, -1, -1}}
	s := &Simplex{}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Reset()
		for _, p := range points {
			s.AddSupportPoint(p)
		}
	}
}
