// internal/motion/geometry.go
package motion

import (
	"fmt"
	"math"
)

// Point is an integer pixel coordinate as understood by a pointer backend.
type Point struct {
	X, Y int
}

// String renders the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Add returns p + other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Vector converts the point to a fractional vector.
func (p Point) Vector() Vector2D {
	return Vector2D{X: float64(p.X), Y: float64(p.Y)}
}

// Size is the width and height of the addressable screen area.
type Size struct {
	Width, Height int
}

// Clamp limits p to [0, Width-1] x [0, Height-1].
func (s Size) Clamp(p Point) Point {
	return Point{X: clampInt(p.X, 0, s.Width-1), Y: clampInt(p.Y, 0, s.Height-1)}
}

// Contains reports whether p lies inside the screen.
func (s Size) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.Width && p.Y < s.Height
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Vector2D is a fractional position or offset. Simulated positions, noise and
// deviation are all tracked as vectors and only rounded when committed.
type Vector2D struct {
	X float64
	Y float64
}

// Add performs vector addition.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Mul scales the vector.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{X: v.X * scalar, Y: v.Y * scalar}
}

// Scale multiplies each axis by its own factor.
func (v Vector2D) Scale(x, y float64) Vector2D {
	return Vector2D{X: v.X * x, Y: v.Y * y}
}

// Mag calculates the Euclidean length of the vector.
func (v Vector2D) Mag() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether both components are within epsilon of zero.
func (v Vector2D) IsZero() bool {
	return math.Abs(v.X) < smallDelta && math.Abs(v.Y) < smallDelta
}

// smallDelta is the tolerance below which a step or bucket counts as zero.
const smallDelta = 1e-5

// RoundTowards rounds value to an integer in the direction of target: up when
// the target is greater, down otherwise. Successive positions therefore never
// jump past the target because of rounding.
func RoundTowards(value float64, target int) int {
	if float64(target) > value {
		return int(math.Ceil(value))
	}
	return int(math.Floor(value))
}
