package formats

import (
	"errors"
	"testing"

	"github.com/vovakirdan/goblin-physics/internal/core"
)

func TestParseYAML(t *testing.T) {
	data := []byte(`id: room
name: Room
size: {w: 64, h: 32}
spawn: {x: 8, y: 16}
collision:
  - rect: {x: 0, y: 0, w: 64, h: 8}
  - polygon:
      x: 16
      y: 8
      vertices: [[0, 0], [8, 0], [0, 8]]
movers:
  - rect: {x: 32, y: 16, w: 8, h: 4}
    velocity: {x: -4, y: 0}
    travel: 16
metadata:
  author: test
`)

	room, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if room.ID != "room" || room.Name != "Room" {
		t.Errorf("got id %q name %q", room.ID, room.Name)
	}
	if room.Spawn != core.V(8, 16) {
		t.Errorf("Spawn = %v", room.Spawn)
	}
	if len(room.Rects) != 1 || room.Rects[0].W != 64 {
		t.Errorf("Rects = %+v", room.Rects)
	}
	if len(room.Polygons) != 1 || len(room.Polygons[0].Vertices) != 3 || room.Polygons[0].X != 16 {
		t.Errorf("Polygons = %+v", room.Polygons)
	}
	if len(room.Movers) != 1 || room.Movers[0].Travel != 16 || room.Movers[0].Velocity != core.V(-4, 0) {
		t.Errorf("Movers = %+v", room.Movers)
	}
	if room.Metadata["author"] != "test" {
		t.Errorf("Metadata = %v", room.Metadata)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"syntax", "id: [", false},
		{"missing id", "size: {w: 1, h: 1}\n", true},
		{"zero size", "id: x\nsize: {w: 0, h: 1}\n", true},
		{"empty region", "id: x\nsize: {w: 1, h: 1}\ncollision:\n  - {}\n", true},
		{"both shapes", "id: x\nsize: {w: 1, h: 1}\ncollision:\n  - rect: {w: 1, h: 1}\n    polygon: {vertices: [[0, 0], [1, 0], [0, 1]]}\n", true},
		{"short vertex", "id: x\nsize: {w: 1, h: 1}\ncollision:\n  - polygon: {vertices: [[0, 0], [1], [0, 1]]}\n", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tc.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrInvalidRoom) != tc.invalid {
				t.Errorf("errors.Is(ErrInvalidRoom) = %v for %v", !tc.invalid, err)
			}
		})
	}
}
