package shape

import (
	"math"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

// Support returns the body-space vertex farthest along d.
func (p *Polygon) Support(d core.Vec2) core.Vec2 {
	return p.vertices[argmax(p.vertices, d)]
}

// WorldSupport returns the world-space vertex farthest along d.
// Exact ties go to the first vertex in canonical order.
func (p *Polygon) WorldSupport(d core.Vec2) core.Vec2 {
	return p.world[argmax(p.world, d)]
}

// WorldSupportTie returns the world-space support along d, choosing among
// candidates within TieTolerance of the maximum by distance from the
// world origin: the farthest when farthest is set, otherwise the nearest.
// It is a query helper for callers that want a stable pick among nearly
// flush vertices; the Minkowski sum resolves ties by edge direction.
func (p *Polygon) WorldSupportTie(d core.Vec2, farthest bool) core.Vec2 {
	best := p.world[argmax(p.world, d)]
	top := best.Dot(d)
	for _, v := range p.world {
		if v.Dot(d) < top-TieTolerance {
			continue
		}
		if farthest && v.Norm2() > best.Norm2() {
			best = v
		}
		if !farthest && v.Norm2() < best.Norm2() {
			best = v
		}
	}
	return best
}

// parallelTolerance is the relative cross product under which two edges
// count as parallel.
const parallelTolerance = 1e-9

// edgeSupport returns the world vertex of p farthest along e's outward
// normal. When p has an edge parallel to e and facing the same way, first
// and last are that edge's start and end. Otherwise both equal the unique
// support vertex.
func (p *Polygon) edgeSupport(e Edge) (first, last int) {
	n := len(p.world)
	m := argmax(p.world, e.Normal())
	first, last = m, m

	if prev := (m - 1 + n) % n; parallel(e, Edge{Start: p.world[prev], End: p.world[m]}) {
		first = prev
	} else if next := (m + 1) % n; parallel(e, Edge{Start: p.world[m], End: p.world[next]}) {
		last = next
	}
	return first, last
}

// parallel reports whether a and b point the same way within
// parallelTolerance. Zero-length edges are never parallel.
func parallel(a, b Edge) bool {
	u, v := a.Vector(), b.Vector()
	if u.Dot(v) <= 0 {
		return false
	}
	return math.Abs(u.Cross(v)) <= parallelTolerance*u.Norm()*v.Norm()
}

func argmax(vs []core.Vec2, d core.Vec2) int {
	best := 0
	top := vs[0].Dot(d)
	for i := 1; i < len(vs); i++ {
		if dot := vs[i].Dot(d); dot > top {
			best, top = i, dot
		}
	}
	return best
}
