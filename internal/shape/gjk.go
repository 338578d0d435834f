package shape

import "github.com/vovakirdan/goblin-physics/internal/core"

// MaxIterations bounds the GJK loop. Convex polygons converge in a handful
// of iterations; hitting the cap means floating-point cycling.
const MaxIterations = 64

// fallbackDirection is used when both anchors coincide.
var fallbackDirection = core.V(1, 0)

// Intersects reports whether a and b overlap with a non-empty interior
// intersection. Shapes that only touch along an edge or at a vertex do not
// intersect.
func Intersects(a, b *Polygon) (bool, error) {
	return intersects(a, b, MaxIterations)
}

func intersects(a, b *Polygon, maxIterations int) (bool, error) {
	support := func(d core.Vec2) core.Vec2 {
		return a.WorldSupport(d).Sub(b.WorldSupport(d.Neg()))
	}

	d := b.Position().Sub(a.Position())
	if d.IsZero() {
		d = fallbackDirection
	}

	var s Simplex
	seed := support(d)
	if seed.IsZero() {
		return false, nil
	}
	if err := s.Add(seed); err != nil {
		return false, err
	}
	d = d.Neg()

	for i := 0; i < maxIterations; i++ {
		p := support(d)
		if p.Dot(d) <= 0 {
			return false, nil
		}
		if err := s.Add(p); err != nil {
			return false, err
		}

		next, err := s.Update()
		if err != nil {
			return false, err
		}
		if s.ContainsOrigin() {
			return true, nil
		}
		if next.IsZero() {
			pts := s.Points()
			return straddles(pts[0], pts[1], support), nil
		}
		d = next
	}
	return false, ErrNoConvergence
}

// straddles resolves a simplex segment a-b that is collinear with the
// origin. The shapes overlap only if the origin lies strictly inside the
// segment and the difference extends past the line on both sides.
func straddles(a, b core.Vec2, support func(core.Vec2) core.Vec2) bool {
	ab := b.Sub(a)
	if a.Neg().Dot(ab) <= 0 || b.Neg().Dot(ab.Neg()) <= 0 {
		return false
	}
	n := ab.Perp()
	return support(n).Dot(n) > 0 && support(n.Neg()).Dot(n.Neg()) > 0
}
