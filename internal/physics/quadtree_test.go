package physics

import (
	"sort"
	"testing"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

func aabb(x0, y0, x1, y1 float64) AABB {
	return AABB{Min: core.V(x0, y0), Max: core.V(x1, y1)}
}

func TestQuadTreeQuery(t *testing.T) {
	q := NewQuadTree(aabb(0, 0, 100, 100), 2, 4)

	// A row of small tiles forces splits.
	for i := 0; i < 10; i++ {
		x := float64(i * 10)
		q.Insert(EntityID(i+1), aabb(x, 0, x+5, 5))
	}
	// Straddles the root split lines.
	q.Insert(100, aabb(45, 45, 55, 55))

	if q.Len() != 11 {
		t.Errorf("Len() = %d, expected 11", q.Len())
	}
	if q.Depth() == 0 {
		t.Error("tree should have split")
	}

	tests := []struct {
		name     string
		box      AABB
		expected []EntityID
	}{
		{"first tile", aabb(1, 1, 2, 2), []EntityID{1}},
		{"two tiles", aabb(12, 1, 22, 2), []EntityID{2, 3}},
		{"touching edge counts", aabb(5, 0, 6, 1), []EntityID{1}},
		{"center", aabb(50, 50, 51, 51), []EntityID{100}},
		{"empty area", aabb(80, 80, 90, 90), nil},
		{"outside tree", aabb(200, 200, 300, 300), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := q.Query(tc.box, nil)
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if len(got) != len(tc.expected) {
				t.Fatalf("Query() = %v, expected %v", got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Query() = %v, expected %v", got, tc.expected)
				}
			}
		})
	}
}

func TestQuadTreeOutOfBounds(t *testing.T) {
	q := NewQuadTree(aabb(0, 0, 10, 10), 1, 3)
	q.Insert(1, aabb(-50, -50, -40, -40))
	q.Insert(2, aabb(1, 1, 2, 2))
	q.Insert(3, aabb(8, 8, 9, 9))

	if got := q.Query(aabb(-45, -45, -44, -44), nil); len(got) != 1 || got[0] != 1 {
		t.Errorf("Query() = %v, expected [1]", got)
	}
}

func TestAABB(t *testing.T) {
	a := aabb(0, 0, 2, 2)
	b := aabb(1, 1, 3, 3)

	if !a.Overlaps(b) || a.Overlaps(aabb(3, 3, 4, 4)) {
		t.Error("Overlaps returned unexpected result")
	}
	if !a.Encloses(aabb(0.5, 0.5, 1, 1)) || a.Encloses(b) {
		t.Error("Encloses returned unexpected result")
	}
	if u := a.Union(b); u != aabb(0, 0, 3, 3) {
		t.Errorf("Union() = %v", u)
	}
	if e := a.Expand(1); e != aabb(-1, -1, 3, 3) {
		t.Errorf("Expand() = %v", e)
	}
}

func TestProfiler(t *testing.T) {
	p := NewProfiler()
	p.Log("detect", 3)
	p.Log("detect", 4)
	p.Log("integrate", 1)

	if got := p.Times()["detect"]; got != 7 {
		t.Errorf("detect total = %v, expected 7", got)
	}
	if names := p.Activities(); len(names) != 2 || names[0] != "detect" || names[1] != "integrate" {
		t.Errorf("Activities() = %v", names)
	}

	stop := p.Track("render")
	stop()
	if _, ok := p.Times()["render"]; !ok {
		t.Error("Track should record the activity")
	}

	p.Clear()
	if len(p.Times()) != 0 {
		t.Error("Clear should drop all totals")
	}
}
