package tui

import (
	"math"

	"github.com/vovakirdan/goblin-physics/internal/core"
	"github.com/vovakirdan/goblin-physics/internal/physics"
)

// cellAspect is the height/width ratio of a terminal cell.
const cellAspect = 2.0

// Camera maps world meters to screen cells. Y grows upward in the world
// and downward on screen.
type Camera struct {
	Center core.Vec2 // world point shown at the screen center
	Scale  float64   // cells per meter horizontally
}

// FitCamera centers the camera on box and picks the largest scale (capped
// at maxScale) that keeps box on a w x h screen.
func FitCamera(box physics.AABB, w, h int, maxScale float64) Camera {
	c := Camera{
		Center: box.Min.Add(box.Max).Scale(0.5),
		Scale:  maxScale,
	}
	bw := box.Max.X - box.Min.X
	bh := box.Max.Y - box.Min.Y
	if bw > 0 && w > 1 {
		c.Scale = math.Min(c.Scale, float64(w-1)/bw)
	}
	if bh > 0 && h > 1 {
		c.Scale = math.Min(c.Scale, float64(h-1)*cellAspect/bh)
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	return c
}

// Project returns the cell for world point p.
func (c Camera) Project(p core.Vec2, w, h int) (int, int) {
	x := float64(w)/2 + (p.X-c.Center.X)*c.Scale
	y := float64(h)/2 - (p.Y-c.Center.Y)*c.Scale/cellAspect
	return int(math.Floor(x)), int(math.Floor(y))
}

// WorldBounds returns the box enclosing every renderable, or false when
// there is nothing to draw.
func WorldBounds(items []physics.Renderable) (physics.AABB, bool) {
	var (
		box  physics.AABB
		seen bool
	)
	for _, r := range items {
		for i := 0; i+1 < len(r.Vertices); i += 2 {
			p := core.V(r.Vertices[i], r.Vertices[i+1])
			if !seen {
				box, seen = physics.AABB{Min: p, Max: p}, true
				continue
			}
			box = box.Union(physics.AABB{Min: p, Max: p})
		}
	}
	return box, seen
}

// kindStyle is the rune and color used per item kind.
var kindStyle = map[physics.Kind]struct {
	r rune
	c core.Color
}{
	physics.KindStatic:    {'#', core.ColorGray},
	physics.KindKinematic: {'=', core.ColorCyan},
	physics.KindDynamic:   {'@', core.ColorBrightYellow},
}

// DrawWireframes rasterizes each renderable's closed outline. Items listed
// in touching are drawn in red.
func DrawWireframes(dst *core.Screen, cam Camera, items []physics.Renderable, touching map[physics.EntityID]bool) {
	w, h := dst.Width(), dst.Height()
	for _, r := range items {
		st := kindStyle[r.Kind]
		color := st.c
		if touching[r.ID] {
			color = core.ColorBrightRed
		}
		n := len(r.Vertices) / 2
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			x0, y0 := cam.Project(core.V(r.Vertices[2*i], r.Vertices[2*i+1]), w, h)
			x1, y1 := cam.Project(core.V(r.Vertices[2*j], r.Vertices[2*j+1]), w, h)
			dst.DrawLine(x0, y0, x1, y1, st.r, color)
		}
	}
}

// DrawBounds outlines each renderable's axis-aligned bounds.
func DrawBounds(dst *core.Screen, cam Camera, items []physics.Renderable) {
	w, h := dst.Width(), dst.Height()
	for _, r := range items {
		box, ok := WorldBounds([]physics.Renderable{r})
		if !ok {
			continue
		}
		x0, y0 := cam.Project(core.V(box.Min.X, box.Max.Y), w, h)
		x1, y1 := cam.Project(core.V(box.Max.X, box.Min.Y), w, h)
		if x1-x0 < 1 || y1-y0 < 1 {
			continue
		}
		dst.DrawBox(core.NewRect(x0, y0, x1-x0+1, y1-y0+1), core.ColorBlue)
	}
}
