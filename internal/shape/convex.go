package shape

import "github.com/vovakirdan/goblin-physics/internal/core"

// SignedArea returns the shoelace area of a closed vertex loop.
// Positive means counter-clockwise.
func SignedArea(vs []core.Vec2) float64 {
	var sum float64
	for i, v := range vs {
		sum += v.Cross(vs[(i+1)%len(vs)])
	}
	return sum / 2
}

// IsConvex reports whether vs describes a convex polygon in either winding.
// Collinear vertices are allowed; a loop with zero area is not convex.
func IsConvex(vs []core.Vec2) bool {
	if len(vs) < 3 {
		return false
	}
	var pos, neg bool
	n := len(vs)
	for i := 0; i < n; i++ {
		a, b, c := vs[i], vs[(i+1)%n], vs[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return pos || neg
}

// EnsureCounterClockwise returns vs unchanged when it winds
// counter-clockwise and a reversed copy otherwise.
func EnsureCounterClockwise(vs []core.Vec2) []core.Vec2 {
	if SignedArea(vs) >= 0 {
		return vs
	}
	out := make([]core.Vec2, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = v
	}
	return out
}
