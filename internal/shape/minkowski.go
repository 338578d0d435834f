package shape

import (
	"fmt"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

// mergeEpsilon is the distance under which consecutive sum vertices are merged.
const mergeEpsilon = 1e-9

// Add returns the Minkowski sum of p and other in world space.
//
// Every edge of each polygon is translated by the other polygon's support
// point along the edge's outward normal. The translated edges are then
// chained nearest endpoint first until the walk returns to the first edge.
// When both polygons have parallel edges facing the same way, p's edge is
// placed first so the two chain end to start.
func (p *Polygon) Add(other *Polygon) (*Polygon, error) {
	edges := make([]Edge, 0, len(p.world)+len(other.world))
	for _, e := range p.WorldEdges() {
		first, _ := other.edgeSupport(e)
		edges = append(edges, e.Translate(other.world[first]))
	}
	for _, e := range other.WorldEdges() {
		_, last := p.edgeSupport(e)
		edges = append(edges, e.Translate(p.world[last]))
	}

	loop := walkEdges(edges)
	if len(loop) < 3 {
		return nil, fmt.Errorf("shape: minkowski sum of %d and %d vertices gave %d: %w",
			len(p.world), len(other.world), len(loop), ErrDegenerateSum)
	}

	lo, hi := boundsOf(loop)
	center := lo.Add(hi).Scale(0.5)
	body := make([]core.Vec2, len(loop))
	for i, v := range loop {
		body[i] = v.Sub(center)
	}
	return NewPolygon(center, body)
}

// Sub returns the Minkowski difference p - other.
// It contains the world origin exactly when the two polygons overlap.
func (p *Polygon) Sub(other *Polygon) (*Polygon, error) {
	return p.Add(other.Opposite())
}

// walkEdges chains edges into a closed vertex loop, starting at edges[0] and
// always moving to the unused edge whose start is nearest the current end.
func walkEdges(edges []Edge) []core.Vec2 {
	used := make([]bool, len(edges))
	used[0] = true
	loop := []core.Vec2{edges[0].Start}

	cur := 0
	for steps := 0; steps <= len(edges); steps++ {
		end := edges[cur].End
		next := 0
		best := end.Distance2(edges[0].Start)
		for i, e := range edges {
			if used[i] {
				continue
			}
			if d := end.Distance2(e.Start); d < best {
				next, best = i, d
			}
		}
		if next == 0 {
			break
		}
		used[next] = true
		loop = appendVertex(loop, edges[next].Start)
		cur = next
	}

	if len(loop) > 1 && loop[0].Distance2(loop[len(loop)-1]) <= mergeEpsilon*mergeEpsilon {
		loop = loop[:len(loop)-1]
	}
	return loop
}

func appendVertex(loop []core.Vec2, v core.Vec2) []core.Vec2 {
	if last := loop[len(loop)-1]; last.Distance2(v) <= mergeEpsilon*mergeEpsilon {
		return loop
	}
	return append(loop, v)
}
