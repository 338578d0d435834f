package physics

import (
	"math"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/shape"
)

// Quadtree defaults.
const (
	DefaultQuadMaxItems = 10
	DefaultQuadMaxDepth = 5
)

// AABB is an axis-aligned bounding box in world meters.
type AABB struct {
	Min core.Vec2
	Max core.Vec2
}

// BoundsOf returns the world bounding box of poly.
func BoundsOf(poly *shape.Polygon) AABB {
	lo, hi := poly.Bounds()
	return AABB{Min: lo, Max: hi}
}

// Overlaps reports whether the boxes share any point, edges included.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// Encloses reports whether o lies entirely inside b.
func (b AABB) Encloses(o AABB) bool {
	return o.Min.X >= b.Min.X && o.Max.X <= b.Max.X &&
		o.Min.Y >= b.Min.Y && o.Max.Y <= b.Max.Y
}

// Union returns the smallest box holding both.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: core.V(math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)),
		Max: core.V(math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)),
	}
}

// Expand grows the box by margin on every side.
func (b AABB) Expand(margin float64) AABB {
	m := core.V(margin, margin)
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

type quadEntry struct {
	id  EntityID
	box AABB
}

// QuadTree indexes static item bounds for broad-phase queries.
// Boxes that straddle a split line stay in the parent node.
type QuadTree struct {
	bounds   AABB
	maxItems int
	maxDepth int
	depth    int
	items    []quadEntry
	children []*QuadTree
}

// NewQuadTree creates an empty tree covering bounds.
func NewQuadTree(bounds AABB, maxItems, maxDepth int) *QuadTree {
	if maxItems <= 0 {
		maxItems = DefaultQuadMaxItems
	}
	if maxDepth < 0 {
		maxDepth = DefaultQuadMaxDepth
	}
	return &QuadTree{bounds: bounds, maxItems: maxItems, maxDepth: maxDepth}
}

// Insert adds id with its bounding box. Boxes outside the tree's bounds
// are kept at the root.
func (q *QuadTree) Insert(id EntityID, box AABB) {
	e := quadEntry{id: id, box: box}
	if q.children != nil {
		if c := q.childFor(box); c != nil {
			c.Insert(id, box)
			return
		}
		q.items = append(q.items, e)
		return
	}

	q.items = append(q.items, e)
	if len(q.items) > q.maxItems && q.depth < q.maxDepth {
		q.split()
	}
}

// Query appends to dst every id whose box overlaps box.
func (q *QuadTree) Query(box AABB, dst []EntityID) []EntityID {
	for _, e := range q.items {
		if e.box.Overlaps(box) {
			dst = append(dst, e.id)
		}
	}
	for _, c := range q.children {
		if c.bounds.Overlaps(box) {
			dst = c.Query(box, dst)
		}
	}
	return dst
}

// Len returns the number of indexed boxes.
func (q *QuadTree) Len() int {
	n := len(q.items)
	for _, c := range q.children {
		n += c.Len()
	}
	return n
}

// Depth returns the deepest level in use, with the root at 0.
func (q *QuadTree) Depth() int {
	d := q.depth
	for _, c := range q.children {
		if cd := c.Depth(); cd > d {
			d = cd
		}
	}
	return d
}

func (q *QuadTree) split() {
	mid := q.bounds.Min.Add(q.bounds.Max).Scale(0.5)
	lo, hi := q.bounds.Min, q.bounds.Max
	// Top left, top right, bottom right, bottom left.
	quads := []AABB{
		{Min: core.V(lo.X, mid.Y), Max: core.V(mid.X, hi.Y)},
		{Min: mid, Max: hi},
		{Min: core.V(mid.X, lo.Y), Max: core.V(hi.X, mid.Y)},
		{Min: lo, Max: mid},
	}
	q.children = make([]*QuadTree, len(quads))
	for i, b := range quads {
		q.children[i] = &QuadTree{bounds: b, maxItems: q.maxItems, maxDepth: q.maxDepth, depth: q.depth + 1}
	}

	items := q.items
	q.items = nil
	for _, e := range items {
		q.Insert(e.id, e.box)
	}
}

func (q *QuadTree) childFor(box AABB) *QuadTree {
	for _, c := range q.children {
		if c.bounds.Encloses(box) {
			return c
		}
	}
	return nil
}
