package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

func TestSegmentSlope(t *testing.T) {
	tests := []struct {
		name     string
		start    core.Vec2
		end      core.Vec2
		slope    float64
		vertical bool
	}{
		{"flat", core.V(0, 1), core.V(4, 1), 0, false},
		{"uphill", core.V(0, 0), core.V(2, 1), 0.5, false},
		{"downhill reversed", core.V(2, 0), core.V(0, 2), -1, false},
		{"vertical", core.V(1, 0), core.V(1, 3), math.Inf(1), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSegment(tc.start, tc.end)
			if s.Vertical != tc.vertical {
				t.Errorf("Vertical = %v, expected %v", s.Vertical, tc.vertical)
			}
			if s.Slope != tc.slope {
				t.Errorf("Slope = %v, expected %v", s.Slope, tc.slope)
			}
		})
	}
}

func TestPlatformSurfaceAt(t *testing.T) {
	p := NewPlatform([]core.Vec2{core.V(0, 0), core.V(2, 1), core.V(4, 1), core.V(4, 0)})

	if n := len(p.Segments()); n != 3 {
		t.Fatalf("Segments() = %d, expected 3", n)
	}

	tests := []struct {
		x        float64
		expected float64
		ok       bool
	}{
		{1, 0.5, true},
		{3, 1, true},
		{2, 1, true},
		{-1, 0, false},
		{5, 0, false},
	}
	for _, tc := range tests {
		y, ok := p.SurfaceAt(tc.x)
		if ok != tc.ok || y != tc.expected {
			t.Errorf("SurfaceAt(%v) = %v, %v, expected %v, %v", tc.x, y, ok, tc.expected, tc.ok)
		}
	}

	if f := p.FloatVertices(); len(f) != 8 || f[2] != 2 || f[3] != 1 {
		t.Errorf("FloatVertices() = %v", f)
	}
}

func TestRectangleEdges(t *testing.T) {
	r := NewRectangle(core.V(1, 2), 3, 0.5)

	if r.Left() != -2 || r.Right() != 4 || r.Top() != 2.5 || r.Bottom() != 1.5 {
		t.Errorf("edges = %v %v %v %v", r.Left(), r.Right(), r.Top(), r.Bottom())
	}
	expected := []float64{4, 2.5, -2, 2.5, -2, 1.5, 4, 1.5}
	for i, v := range r.Vertices() {
		if v != expected[i] {
			t.Fatalf("Vertices() = %v, expected %v", r.Vertices(), expected)
		}
	}
	if s := r.String(); s != "[Bounding Box: Position (1, 2), Half Width 3, Half Height 0.5]" {
		t.Errorf("String() = %q", s)
	}
}

func TestRectangleIntersects(t *testing.T) {
	a := NewRectangle(core.V(0, 0), 1, 1)

	tests := []struct {
		name     string
		other    Rectangle
		expected bool
	}{
		{"overlap", NewRectangle(core.V(1, 1), 1, 1), true},
		{"touching", NewRectangle(core.V(2, 0), 1, 1), false},
		{"apart", NewRectangle(core.V(5, 0), 1, 1), false},
		{"inside", NewRectangle(core.V(0, 0), 0.1, 0.1), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Intersects(tc.other); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectanglePolygonMatchesIntersects(t *testing.T) {
	a := NewRectangle(core.V(0, 0), 1, 0.5)
	for _, c := range []core.Vec2{core.V(1.5, 0), core.V(2, 0), core.V(0, 0.9), core.V(3, 3), core.V(-1.2, 0.2)} {
		b := NewRectangle(c, 0.5, 0.5)
		pa, _ := a.Polygon()
		pb, _ := b.Polygon()
		if got, expected := pa.IsCollidingWith(pb), a.Intersects(b); got != expected {
			t.Errorf("center %v: polygon collision %v, rectangle intersects %v", c, got, expected)
		}
	}
}
