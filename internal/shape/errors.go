package shape

import "errors"

var (
	// ErrTooFewVertices is returned when a polygon is built from fewer than 3 points.
	ErrTooFewVertices = errors.New("shape: polygon needs at least 3 vertices")

	// ErrSimplexFull is returned when a fourth point is added to a simplex.
	ErrSimplexFull = errors.New("shape: simplex already holds 3 points")

	// ErrSimplexState is returned when Update is called with fewer than 2 points.
	ErrSimplexState = errors.New("shape: simplex update needs 2 or 3 points")

	// ErrNoConvergence is returned when GJK exceeds MaxIterations.
	ErrNoConvergence = errors.New("shape: gjk did not converge")

	// ErrDegenerateSum is returned when a Minkowski sum collapses below 3 vertices.
	ErrDegenerateSum = errors.New("shape: degenerate minkowski sum")
)
