package physics

import (
	"fmt"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/shape"
)

// PolygonRegion is an authored collision polygon in pixels. Vertices are
// relative to the anchor (X, Y); y grows upward.
type PolygonRegion struct {
	X, Y     float64
	Vertices []core.Vec2
}

// RectRegion is an authored axis-aligned box in pixels with its bottom-left
// corner at (X, Y).
type RectRegion struct {
	X, Y float64
	W, H float64
}

// StaticFromPolygon converts a pixel-space polygon into terrain.
// Clockwise outlines are reversed; concave or repeated-vertex outlines are
// rejected with ErrNotConvex.
func StaticFromPolygon(r PolygonRegion, pixelsPerMeter float64) (*StaticItem, error) {
	scale := metersPer(pixelsPerMeter)
	if len(r.Vertices) < 3 {
		return nil, fmt.Errorf("physics: polygon region at (%g, %g): %w", r.X, r.Y, shape.ErrTooFewVertices)
	}

	body := make([]core.Vec2, len(r.Vertices))
	for i, v := range r.Vertices {
		body[i] = v.Scale(scale)
	}
	for i, v := range body {
		if v == body[(i+1)%len(body)] {
			return nil, fmt.Errorf("physics: polygon region at (%g, %g): repeated vertex %v: %w", r.X, r.Y, r.Vertices[i], ErrNotConvex)
		}
	}
	if !shape.IsConvex(body) {
		return nil, fmt.Errorf("physics: polygon region at (%g, %g): %w", r.X, r.Y, ErrNotConvex)
	}

	poly, err := shape.NewPolygon(core.V(r.X, r.Y).Scale(scale), shape.EnsureCounterClockwise(body))
	if err != nil {
		return nil, fmt.Errorf("physics: polygon region at (%g, %g): %w", r.X, r.Y, err)
	}
	return NewStaticItem(poly), nil
}

// StaticFromRect converts a pixel-space box into terrain.
func StaticFromRect(r RectRegion, pixelsPerMeter float64) (*StaticItem, error) {
	rect, err := rectangleOf(r, pixelsPerMeter)
	if err != nil {
		return nil, err
	}
	poly, err := rect.Polygon()
	if err != nil {
		return nil, fmt.Errorf("physics: rect region at (%g, %g): %w", r.X, r.Y, err)
	}
	return NewStaticItem(poly), nil
}

// KinematicFromRect converts a pixel-space box moving at velocity px/s
// into a kinematic item.
func KinematicFromRect(r RectRegion, velocity core.Vec2, pixelsPerMeter float64) (*KinematicItem, error) {
	rect, err := rectangleOf(r, pixelsPerMeter)
	if err != nil {
		return nil, err
	}
	poly, err := rect.Polygon()
	if err != nil {
		return nil, fmt.Errorf("physics: mover at (%g, %g): %w", r.X, r.Y, err)
	}
	return NewKinematicItem(poly, velocity.Scale(metersPer(pixelsPerMeter))), nil
}

// ToMeters converts a pixel-space point.
func ToMeters(p core.Vec2, pixelsPerMeter float64) core.Vec2 {
	return p.Scale(metersPer(pixelsPerMeter))
}

func rectangleOf(r RectRegion, pixelsPerMeter float64) (Rectangle, error) {
	if r.W <= 0 || r.H <= 0 {
		return Rectangle{}, fmt.Errorf("physics: rect region at (%g, %g) has size %gx%g: %w", r.X, r.Y, r.W, r.H, ErrNotConvex)
	}
	scale := metersPer(pixelsPerMeter)
	center := core.V(r.X+r.W/2, r.Y+r.H/2).Scale(scale)
	return NewRectangle(center, r.W/2*scale, r.H/2*scale), nil
}

// metersPer falls back to PixelsPerMeter for non-positive scales.
func metersPer(pixelsPerMeter float64) float64 {
	if pixelsPerMeter <= 0 {
		return MetersPerPixel
	}
	return 1 / pixelsPerMeter
}
