// Package core provides fundamental types and utilities for the physics core
// and its debug viewer. It contains no external dependencies to keep the
// geometry pure and testable.
package core

import (
	"fmt"
	"math"
)

// Vec2 is an immutable 2D vector. All operations return new values.
type Vec2 struct {
	X, Y float64
}

// V creates a new vector.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Zero is the origin.
var Zero = Vec2{}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Div returns v / s. Dividing by zero yields Inf/NaN components.
func (v Vec2) Div(s float64) Vec2 {
	return v.Scale(1 / s)
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the scalar 2D cross product x1*y2 - y1*x2.
// Its sign tells on which side of v the vector o lies.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Norm2 returns the squared length.
func (v Vec2) Norm2() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Norm returns the length.
func (v Vec2) Norm() float64 {
	return math.Sqrt(v.Norm2())
}

// Direction returns the unit vector pointing along v.
// The zero vector yields NaN components; callers must check IsZero first.
func (v Vec2) Direction() Vec2 {
	return v.Div(v.Norm())
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Distance2 returns the squared distance between two points.
func (v Vec2) Distance2(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Distance returns the distance between two points.
func (v Vec2) Distance(o Vec2) float64 {
	return math.Sqrt(v.Distance2(o))
}

// Rotate rotates v by angle radians, counter-clockwise positive.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Perp returns v rotated 90 degrees counter-clockwise, exactly.
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// String formats the vector as "(x, y)".
func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Rect represents an axis-aligned box in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
