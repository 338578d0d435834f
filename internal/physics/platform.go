package physics

import (
	"fmt"
	"math"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/shape"
)

// Segment is one straight piece of a platform.
type Segment struct {
	Start core.Vec2
	End   core.Vec2
	// Slope is dy/dx. It is infinite or NaN for vertical segments.
	Slope    float64
	Vertical bool
}

// NewSegment computes slope data for the segment from start to end.
func NewSegment(start, end core.Vec2) Segment {
	dx := end.X - start.X
	dy := end.Y - start.Y
	return Segment{
		Start:    start,
		End:      end,
		Slope:    dy / dx,
		Vertical: dx == 0,
	}
}

// HeightAt returns the segment's y at x, or false when x is outside the
// segment's horizontal span or the segment is vertical.
func (s Segment) HeightAt(x float64) (float64, bool) {
	if s.Vertical {
		return 0, false
	}
	lo, hi := math.Min(s.Start.X, s.End.X), math.Max(s.Start.X, s.End.X)
	if x < lo || x > hi {
		return 0, false
	}
	return s.Start.Y + (x-s.Start.X)*s.Slope, true
}

// Platform is a connected chain of terrain segments in world meters.
type Platform struct {
	vertices []core.Vec2
	segments []Segment
}

// NewPlatform chains consecutive vertices into segments. The chain is open:
// pass the first vertex again at the end to close it.
func NewPlatform(vertices []core.Vec2) Platform {
	p := Platform{vertices: make([]core.Vec2, len(vertices))}
	copy(p.vertices, vertices)
	for i := 0; i+1 < len(vertices); i++ {
		p.segments = append(p.segments, NewSegment(vertices[i], vertices[i+1]))
	}
	return p
}

// Vertices returns the chain's vertices.
func (p Platform) Vertices() []core.Vec2 {
	return p.vertices
}

// Segments returns the chain's segments.
func (p Platform) Segments() []Segment {
	return p.segments
}

// FloatVertices returns the vertices flattened as x0, y0, x1, y1, ...
func (p Platform) FloatVertices() []float64 {
	out := make([]float64, 0, 2*len(p.vertices))
	for _, v := range p.vertices {
		out = append(out, v.X, v.Y)
	}
	return out
}

// SurfaceAt returns the highest non-vertical segment height at x.
func (p Platform) SurfaceAt(x float64) (float64, bool) {
	best, found := 0.0, false
	for _, s := range p.segments {
		if y, ok := s.HeightAt(x); ok && (!found || y > best) {
			best, found = y, true
		}
	}
	return best, found
}

// Rectangle is an axis-aligned box given by its center and half extents.
type Rectangle struct {
	Center     core.Vec2
	HalfWidth  float64
	HalfHeight float64
}

// NewRectangle creates a rectangle.
func NewRectangle(center core.Vec2, halfWidth, halfHeight float64) Rectangle {
	return Rectangle{Center: center, HalfWidth: halfWidth, HalfHeight: halfHeight}
}

func (r Rectangle) Left() float64   { return r.Center.X - r.HalfWidth }
func (r Rectangle) Right() float64  { return r.Center.X + r.HalfWidth }
func (r Rectangle) Top() float64    { return r.Center.Y + r.HalfHeight }
func (r Rectangle) Bottom() float64 { return r.Center.Y - r.HalfHeight }

// Intersects reports whether the rectangles overlap with positive area.
func (r Rectangle) Intersects(o Rectangle) bool {
	return r.Left() < o.Right() &&
		r.Right() > o.Left() &&
		r.Top() > o.Bottom() &&
		r.Bottom() < o.Top()
}

// Vertices returns the corners counter-clockwise from the top right, flattened.
func (r Rectangle) Vertices() []float64 {
	return []float64{
		r.Right(), r.Top(),
		r.Left(), r.Top(),
		r.Left(), r.Bottom(),
		r.Right(), r.Bottom(),
	}
}

// Polygon converts the rectangle into a polygon anchored at its center.
func (r Rectangle) Polygon() (*shape.Polygon, error) {
	return shape.NewPolygon(r.Center, []core.Vec2{
		core.V(r.HalfWidth, r.HalfHeight),
		core.V(-r.HalfWidth, r.HalfHeight),
		core.V(-r.HalfWidth, -r.HalfHeight),
		core.V(r.HalfWidth, -r.HalfHeight),
	})
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[Bounding Box: Position %s, Half Width %g, Half Height %g]",
		r.Center, r.HalfWidth, r.HalfHeight)
}
