// Package shape implements convex polygons, their Minkowski sum and
// difference, and GJK intersection tests between them.
package shape

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

// TieTolerance is the dot-product slack under which two support candidates
// are considered equally far along a direction.
const TieTolerance = 1e-3

// Edge is a directed segment between two consecutive polygon vertices.
type Edge struct {
	Start core.Vec2
	End   core.Vec2
}

// Vector returns End - Start.
func (e Edge) Vector() core.Vec2 {
	return e.End.Sub(e.Start)
}

// Normal returns the edge vector rotated by -90 degrees and normalized.
// For counter-clockwise polygons it points outward.
func (e Edge) Normal() core.Vec2 {
	v := e.Vector()
	return core.V(v.Y, -v.X).Direction()
}

// Translate returns the edge moved by offset.
func (e Edge) Translate(offset core.Vec2) Edge {
	return Edge{Start: e.Start.Add(offset), End: e.End.Add(offset)}
}

// Polygon is a convex polygon with counter-clockwise body-space vertices
// and a world-space anchor.
//
// Vertices are canonicalized at construction: vertex 0 has the largest x,
// ties broken by the largest y. World vertices are cached and refreshed on
// every SetPosition.
type Polygon struct {
	position  core.Vec2
	vertices  []core.Vec2
	world     []core.Vec2
	maxRadius float64
}

// NewPolygon builds a polygon anchored at position from body-space vertices.
// The input slice is copied.
func NewPolygon(position core.Vec2, vertices []core.Vec2) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("shape: new polygon with %d vertices: %w", len(vertices), ErrTooFewVertices)
	}

	first := 0
	for i, v := range vertices {
		best := vertices[first]
		if v.X > best.X || (v.X == best.X && v.Y > best.Y) {
			first = i
		}
	}

	p := &Polygon{
		position: position,
		vertices: make([]core.Vec2, len(vertices)),
		world:    make([]core.Vec2, len(vertices)),
	}
	for i := range vertices {
		v := vertices[(first+i)%len(vertices)]
		p.vertices[i] = v
		if r := v.Norm(); r > p.maxRadius {
			p.maxRadius = r
		}
	}
	p.refresh()
	return p, nil
}

// MustPolygon is like NewPolygon but panics on error.
// It is meant for hardcoded geometry in scenes and tests.
func MustPolygon(position core.Vec2, vertices []core.Vec2) *Polygon {
	p, err := NewPolygon(position, vertices)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Polygon) refresh() {
	for i, v := range p.vertices {
		p.world[i] = v.Add(p.position)
	}
}

// Position returns the world-space anchor.
func (p *Polygon) Position() core.Vec2 {
	return p.position
}

// SetPosition moves the polygon and recomputes its world vertices.
func (p *Polygon) SetPosition(pos core.Vec2) {
	p.position = pos
	p.refresh()
}

// Vertices returns a copy of the body-space vertices.
func (p *Polygon) Vertices() []core.Vec2 {
	out := make([]core.Vec2, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// WorldVertices returns a copy of the world-space vertices.
func (p *Polygon) WorldVertices() []core.Vec2 {
	out := make([]core.Vec2, len(p.world))
	copy(out, p.world)
	return out
}

// WorldFloatVertices returns world vertices flattened as x0, y0, x1, y1, ...
func (p *Polygon) WorldFloatVertices() []float64 {
	out := make([]float64, 0, 2*len(p.world))
	for _, v := range p.world {
		out = append(out, v.X, v.Y)
	}
	return out
}

// Edges returns the body-space edges, wrapping from the last vertex to the first.
func (p *Polygon) Edges() []Edge {
	return edgesOf(p.vertices)
}

// WorldEdges returns the world-space edges.
func (p *Polygon) WorldEdges() []Edge {
	return edgesOf(p.world)
}

func edgesOf(vs []core.Vec2) []Edge {
	edges := make([]Edge, len(vs))
	for i, v := range vs {
		edges[i] = Edge{Start: v, End: vs[(i+1)%len(vs)]}
	}
	return edges
}

// MaxRadius returns the largest distance from the anchor to any vertex.
func (p *Polygon) MaxRadius() float64 {
	return p.maxRadius
}

// Bounds returns the world-space axis-aligned bounding box.
func (p *Polygon) Bounds() (lo, hi core.Vec2) {
	return boundsOf(p.world)
}

func boundsOf(vs []core.Vec2) (lo, hi core.Vec2) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = core.V(math.Min(lo.X, v.X), math.Min(lo.Y, v.Y))
		hi = core.V(math.Max(hi.X, v.X), math.Max(hi.Y, v.Y))
	}
	return lo, hi
}

// Contains reports whether point lies inside the polygon in world space.
// Each edge's cross product with the point is checked for a consistent
// sign. Points exactly on the boundary may go either way.
func (p *Polygon) Contains(point core.Vec2) bool {
	var pos, neg bool
	for _, e := range p.WorldEdges() {
		c := e.Vector().Cross(point.Sub(e.Start))
		if c > 0 {
			pos = true
		} else if c < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// IsCollidingWith reports whether the polygons strictly overlap.
// Touching boundaries and GJK failures both report false.
func (p *Polygon) IsCollidingWith(other *Polygon) bool {
	hit, err := Intersects(p, other)
	if err != nil {
		return false
	}
	return hit
}

// CircleIntersects is a broad-phase test on the bounding circles.
// A false result guarantees the polygons do not overlap.
func (p *Polygon) CircleIntersects(other *Polygon) bool {
	r := p.maxRadius + other.maxRadius
	return p.position.Distance2(other.position) <= r*r
}

// Opposite returns the polygon mirrored through the world origin.
func (p *Polygon) Opposite() *Polygon {
	vs := make([]core.Vec2, len(p.vertices))
	for i, v := range p.vertices {
		vs[i] = v.Neg()
	}
	return MustPolygon(p.position.Neg(), vs)
}

func (p *Polygon) String() string {
	parts := make([]string, len(p.vertices))
	for i, v := range p.vertices {
		parts[i] = v.String()
	}
	return fmt.Sprintf("Position: %s, Vertices: [%s]", p.position, strings.Join(parts, ", "))
}
