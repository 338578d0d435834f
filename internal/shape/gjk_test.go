package shape

import (
	"testing"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

func TestIntersectsSquares(t *testing.T) {
	tests := []struct {
		name     string
		position core.Vec2
		expected bool
	}{
		{"separated", core.V(10, 10), false},
		{"overlapping diagonally", core.V(0.5, 0.5), true},
		{"overlapping offset", core.V(0.5, 0.25), true},
		{"coincident", core.V(0, 0), true},
		{"almost touching", core.V(0.99, 0), true},
		{"shared vertical edge", core.V(1, 0), false},
		{"shared horizontal edge", core.V(0, 1), false},
		{"shared corner", core.V(1, 1), false},
		{"half shared edge", core.V(1, 0.5), false},
		{"gap", core.V(2, 0), false},
		{"overlap below", core.V(0.3, -0.9), true},
	}

	a := square(0, 0)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := square(tc.position.X, tc.position.Y)

			got, err := Intersects(a, b)
			if err != nil {
				t.Fatalf("Intersects() error = %v", err)
			}
			if got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}

			back, err := Intersects(b, a)
			if err != nil {
				t.Fatalf("reversed Intersects() error = %v", err)
			}
			if back != got {
				t.Errorf("Intersects is not symmetric: %v vs %v", got, back)
			}

			if a.IsCollidingWith(b) != tc.expected {
				t.Errorf("IsCollidingWith() = %v, expected %v", a.IsCollidingWith(b), tc.expected)
			}
		})
	}
}

func TestIntersectsSymmetryMixedShapes(t *testing.T) {
	shapes := []*Polygon{
		MustPolygon(core.V(0, 0), []core.Vec2{core.V(0, 0), core.V(2, 0), core.V(0, 2)}),
		MustPolygon(core.V(1, 1), []core.Vec2{core.V(-1, -0.5), core.V(1, -0.5), core.V(0, 1)}),
		MustPolygon(core.V(3, 0.5), []core.Vec2{core.V(-0.5, -0.5), core.V(0.5, -0.5), core.V(0.5, 0.5), core.V(-0.5, 0.5)}),
		MustPolygon(core.V(-0.5, 1), []core.Vec2{core.V(1, 0), core.V(0.5, 0.8), core.V(-0.5, 0.8), core.V(-1, 0), core.V(-0.5, -0.8), core.V(0.5, -0.8)}),
		square(1.5, -2),
	}

	for i, a := range shapes {
		for j, b := range shapes {
			if i == j {
				continue
			}
			if a.IsCollidingWith(b) != b.IsCollidingWith(a) {
				t.Errorf("shapes %d and %d disagree on collision", i, j)
			}
		}
	}
}

func TestIntersectsMovingAcross(t *testing.T) {
	a := square(0, 0)
	b := square(-3, 0.2)

	var hits int
	for step := 0; step <= 60; step++ {
		b.SetPosition(core.V(-3+float64(step)*0.1, 0.2))
		if a.IsCollidingWith(b) {
			hits++
		}
	}
	// Overlap for x in (-1, 1): steps 21 through 39.
	if hits != 19 {
		t.Errorf("hits = %d, expected 19", hits)
	}
}
