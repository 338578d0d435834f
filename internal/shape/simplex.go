package shape

import (
	"fmt"
	"math"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

// collinearEpsilon is the relative cross product below which a segment is
// treated as passing through the origin.
const collinearEpsilon = 1e-9

// Simplex is the GJK working set of up to 3 Minkowski-difference points.
// Points are kept newest first: A is the last one added.
type Simplex struct {
	points [3]core.Vec2
	count  int
	origin bool
}

// Len returns the number of points held.
func (s *Simplex) Len() int {
	return s.count
}

// Points returns the points, newest first.
func (s *Simplex) Points() []core.Vec2 {
	out := make([]core.Vec2, s.count)
	copy(out, s.points[:s.count])
	return out
}

// ContainsOrigin reports whether the last Update enclosed the origin.
func (s *Simplex) ContainsOrigin() bool {
	return s.origin
}

// Add pushes p as the newest point, shifting older points back.
func (s *Simplex) Add(p core.Vec2) error {
	if s.count == len(s.points) {
		return ErrSimplexFull
	}
	s.points[2] = s.points[1]
	s.points[1] = s.points[0]
	s.points[0] = p
	s.count++
	return nil
}

// Update reduces the simplex to the feature nearest the origin and returns
// the next search direction. A zero direction means the line case is
// collinear with the origin and the caller has to decide.
//
// With 3 points, origin lying exactly on edge AB or AC counts as outside,
// so touching shapes never enclose the origin.
func (s *Simplex) Update() (core.Vec2, error) {
	switch s.count {
	case 2:
		return s.line(), nil
	case 3:
		return s.triangle(), nil
	default:
		return core.Zero, fmt.Errorf("shape: update with %d points: %w", s.count, ErrSimplexState)
	}
}

func (s *Simplex) line() core.Vec2 {
	a, b := s.points[0], s.points[1]
	ab := b.Sub(a)
	ao := a.Neg()
	if math.Abs(ab.Cross(ao)) <= collinearEpsilon*ab.Norm()*ao.Norm() {
		return core.Zero
	}
	return tripleProduct(ab, ao, ab)
}

func (s *Simplex) triangle() core.Vec2 {
	a, b, c := s.points[0], s.points[1], s.points[2]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Neg()

	abNorm := tripleProduct(ac, ab, ab)
	if abNorm.Dot(ao) >= 0 {
		s.count = 2
		return abNorm
	}

	acNorm := tripleProduct(ab, ac, ac)
	if acNorm.Dot(ao) >= 0 {
		s.points[1] = c
		s.count = 2
		return acNorm
	}

	s.origin = true
	return core.Zero
}

// tripleProduct computes (u x v) x w in the plane: v*(w.u) - u*(w.v).
func tripleProduct(u, v, w core.Vec2) core.Vec2 {
	return v.Scale(w.Dot(u)).Sub(u.Scale(w.Dot(v)))
}
