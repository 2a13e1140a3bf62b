package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Eq for float64 comparisons.
const (
	Epsilon = 1e-9
)

// Vector2D is a point or a displacement on the simulation plane.
// Fields are public: positions and velocities are plain data read every frame by the renderer.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Locator is anything that sits somewhere on the plane.
// Boids and the pointer both satisfy it, so neighbor scans can measure either one.
type Locator interface {
	Position() Vector2D
}

// Distance returns the Euclidean distance between two located things.
func Distance(a, b Locator) float64 {
	return a.Position().DistanceTo(b.Position())
}

// String implements fmt.Stringer, printing the vector with 2 decimals.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// Value receivers everywhere: a Vector2D is two floats, copying is cheaper than sharing.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// ---------------------------------------------------------------------
// Magnitude
// ---------------------------------------------------------------------

// Len calculates the magnitude (length) of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// ClampLen returns v rescaled to length max when it is longer than max, v otherwise.
// Each component is computed as c/len*max, so a clamped vector is stable under a second clamp
// up to one rounding step.
func (v Vector2D) ClampLen(max float64) Vector2D {
	l := v.Len()
	if l <= max {
		return v
	}
	return Vector2D{v.X / l * max, v.Y / l * max}
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// Angle returns the angle (in radians) of the vector relative to the X-axis.
// Range: [-Pi, Pi]
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate rotates the vector by angle (in radians) around the origin (0,0).
func (v Vector2D) Rotate(angle float64) Vector2D {
	cosTheta := math.Cos(angle)
	sinTheta := math.Sin(angle)
	return Vector2D{
		X: v.X*cosTheta - v.Y*sinTheta,
		Y: v.X*sinTheta + v.Y*cosTheta,
	}
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
