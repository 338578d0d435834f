// Package formats provides pluggable room file format parsers.
package formats

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/physics"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRoom marks structurally broken room files.
var ErrInvalidRoom = errors.New("formats: invalid room")

// YAMLRoom represents the YAML structure for a room file.
type YAMLRoom struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Size      YAMLSize          `yaml:"size"`
	Spawn     YAMLPoint         `yaml:"spawn"`
	Collision []YAMLRegion      `yaml:"collision"`
	Movers    []YAMLMover       `yaml:"movers,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents room dimensions in pixels.
type YAMLSize struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// YAMLPoint is a pixel position, y up.
type YAMLPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// YAMLRect is a box anchored at its bottom-left corner.
type YAMLRect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// YAMLPolygon is an outline relative to its anchor.
type YAMLPolygon struct {
	X        float64     `yaml:"x"`
	Y        float64     `yaml:"y"`
	Vertices [][]float64 `yaml:"vertices"`
}

// YAMLRegion holds exactly one of Rect or Polygon.
type YAMLRegion struct {
	Rect    *YAMLRect    `yaml:"rect,omitempty"`
	Polygon *YAMLPolygon `yaml:"polygon,omitempty"`
}

// YAMLMover is a moving platform. Travel is the distance in pixels covered
// before the mover turns around; zero means it never turns.
type YAMLMover struct {
	Rect     YAMLRect  `yaml:"rect"`
	Velocity YAMLPoint `yaml:"velocity"`
	Travel   float64   `yaml:"travel,omitempty"`
}

// Mover is a parsed moving platform in pixel space.
type Mover struct {
	Rect     physics.RectRegion
	Velocity core.Vec2
	Travel   float64
}

// Room represents a parsed room ready for use. All values are in pixels.
type Room struct {
	ID       string
	Name     string
	Width    float64
	Height   float64
	Spawn    core.Vec2
	Polygons []physics.PolygonRegion
	Rects    []physics.RectRegion
	Movers   []Mover
	Metadata map[string]string
}

// ParseYAML parses a YAML room file.
func ParseYAML(data []byte) (Room, error) {
	var yr YAMLRoom
	if err := yaml.Unmarshal(data, &yr); err != nil {
		return Room{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if yr.ID == "" {
		return Room{}, fmt.Errorf("%w: missing id", ErrInvalidRoom)
	}
	if yr.Size.W <= 0 || yr.Size.H <= 0 {
		return Room{}, fmt.Errorf("%w: room %s has size %gx%g", ErrInvalidRoom, yr.ID, yr.Size.W, yr.Size.H)
	}

	room := Room{
		ID:       yr.ID,
		Name:     yr.Name,
		Width:    yr.Size.W,
		Height:   yr.Size.H,
		Spawn:    core.V(yr.Spawn.X, yr.Spawn.Y),
		Metadata: yr.Metadata,
	}
	if room.Name == "" {
		room.Name = yr.ID
	}

	for i, r := range yr.Collision {
		switch {
		case r.Rect != nil && r.Polygon != nil:
			return Room{}, fmt.Errorf("%w: collision[%d] has both rect and polygon", ErrInvalidRoom, i)
		case r.Rect != nil:
			room.Rects = append(room.Rects, r.Rect.region())
		case r.Polygon != nil:
			poly, err := r.Polygon.region()
			if err != nil {
				return Room{}, fmt.Errorf("collision[%d]: %w", i, err)
			}
			room.Polygons = append(room.Polygons, poly)
		default:
			return Room{}, fmt.Errorf("%w: collision[%d] is empty", ErrInvalidRoom, i)
		}
	}

	for _, m := range yr.Movers {
		room.Movers = append(room.Movers, Mover{
			Rect:     m.Rect.region(),
			Velocity: core.V(m.Velocity.X, m.Velocity.Y),
			Travel:   m.Travel,
		})
	}

	return room, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

func (r YAMLRect) region() physics.RectRegion {
	return physics.RectRegion{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func (p YAMLPolygon) region() (physics.PolygonRegion, error) {
	verts := make([]core.Vec2, 0, len(p.Vertices))
	for i, v := range p.Vertices {
		if len(v) != 2 {
			return physics.PolygonRegion{}, fmt.Errorf("%w: vertex %d has %d coordinates", ErrInvalidRoom, i, len(v))
		}
		verts = append(verts, core.V(v[0], v[1]))
	}
	return physics.PolygonRegion{X: p.X, Y: p.Y, Vertices: verts}, nil
}
