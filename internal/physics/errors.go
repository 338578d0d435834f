package physics

import "errors"

var (
	// ErrInvalidRate is returned for non-positive refresh rates or intervals.
	ErrInvalidRate = errors.New("physics: rate must be positive")

	// ErrNotConvex is returned when authored geometry is not a convex polygon.
	ErrNotConvex = errors.New("physics: polygon is not convex")

	// ErrUnknownEntity is returned for IDs not present in the world.
	ErrUnknownEntity = errors.New("physics: unknown entity")
)
