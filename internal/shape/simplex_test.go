package shape

import (
	"errors"
	"testing"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

func simplexOf(t *testing.T, oldestFirst ...core.Vec2) *Simplex {
	t.Helper()
	var s Simplex
	for _, p := range oldestFirst {
		if err := s.Add(p); err != nil {
			t.Fatalf("Add(%v) error = %v", p, err)
		}
	}
	return &s
}

func TestSimplexAddOrder(t *testing.T) {
	s := simplexOf(t, core.V(1, 0), core.V(2, 0), core.V(3, 0))

	pts := s.Points()
	expected := []core.Vec2{core.V(3, 0), core.V(2, 0), core.V(1, 0)}
	for i := range expected {
		if pts[i] != expected[i] {
			t.Errorf("point %d = %v, expected %v", i, pts[i], expected[i])
		}
	}

	if err := s.Add(core.V(4, 0)); !errors.Is(err, ErrSimplexFull) {
		t.Errorf("fourth Add() error = %v, expected ErrSimplexFull", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d after rejected Add, expected 3", s.Len())
	}
}

func TestSimplexUpdateInvalidState(t *testing.T) {
	for _, n := range []int{0, 1} {
		var s Simplex
		for i := 0; i < n; i++ {
			_ = s.Add(core.V(float64(i), 1))
		}
		if _, err := s.Update(); !errors.Is(err, ErrSimplexState) {
			t.Errorf("Update() with %d points error = %v, expected ErrSimplexState", n, err)
		}
	}
}

func TestSimplexLineDirection(t *testing.T) {
	s := simplexOf(t, core.V(-1, 1), core.V(1, 1))

	d, err := s.Update()
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if d != core.V(0, -4) {
		t.Errorf("direction = %v, expected (0, -4)", d)
	}
	if s.ContainsOrigin() {
		t.Error("a segment never contains the origin")
	}
}

func TestSimplexLineCollinearWithOrigin(t *testing.T) {
	s := simplexOf(t, core.V(1, 1), core.V(-1, -1))

	d, err := s.Update()
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !d.IsZero() {
		t.Errorf("direction = %v, expected zero for a collinear segment", d)
	}
}

func TestSimplexTriangle(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  core.Vec2
		contains bool
		dir      core.Vec2
		kept     []core.Vec2
	}{
		{
			name: "encloses origin",
			a:    core.V(0, 1), b: core.V(1, -1), c: core.V(-1, -1),
			contains: true,
		},
		{
			name: "outside ab",
			a:    core.V(2, 1), b: core.V(2, -1), c: core.V(4, 0),
			dir:  core.V(-8, 0),
			kept: []core.Vec2{core.V(2, 1), core.V(2, -1)},
		},
		{
			name: "outside ac",
			a:    core.V(2, -1), b: core.V(4, 0), c: core.V(2, 1),
			dir:  core.V(-8, 0),
			kept: []core.Vec2{core.V(2, -1), core.V(2, 1)},
		},
		{
			name: "origin on ab counts as outside",
			a:    core.V(0, 1), b: core.V(0, -1), c: core.V(2, 0),
			dir:  core.V(-8, 0),
			kept: []core.Vec2{core.V(0, 1), core.V(0, -1)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := simplexOf(t, tc.c, tc.b, tc.a)
			d, err := s.Update()
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if s.ContainsOrigin() != tc.contains {
				t.Fatalf("ContainsOrigin() = %v, expected %v", s.ContainsOrigin(), tc.contains)
			}
			if tc.contains {
				return
			}
			if d != tc.dir {
				t.Errorf("direction = %v, expected %v", d, tc.dir)
			}
			pts := s.Points()
			if len(pts) != len(tc.kept) {
				t.Fatalf("kept %v, expected %v", pts, tc.kept)
			}
			for i := range pts {
				if pts[i] != tc.kept[i] {
					t.Errorf("kept[%d] = %v, expected %v", i, pts[i], tc.kept[i])
				}
			}
		})
	}
}

func TestTripleProduct(t *testing.T) {
	got := tripleProduct(core.V(1, 0), core.V(0, 1), core.V(1, 0))
	if got != core.V(0, 1) {
		t.Errorf("tripleProduct() = %v, expected (0, 1)", got)
	}
}
