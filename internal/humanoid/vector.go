// internal/humanoid/vector.go
package humanoid

import "math"

// Vector2D represents a point or vector in a 2D Cartesian coordinate system.
// It is used for source/target positions, control points and every sample of
// a generated path.
type Vector2D struct {
	// X is the horizontal component of the vector.
	X float64 `json:"x"`
	// Y is the vertical component of the vector.
	Y float64 `json:"y"`
}

// Add performs vector addition, returning a new Vector2D `v + other`.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub performs vector subtraction, returning a new Vector2D `v - other`.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul performs scalar multiplication, returning a new Vector2D `v * scalar`.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{X: v.X * scalar, Y: v.Y * scalar}
}

// Mag calculates the magnitude (Euclidean length) of the vector, `|v|`.
func (v Vector2D) Mag() float64 {
	// Use math.Hypot for better numerical stability with very large or small components.
	return math.Hypot(v.X, v.Y)
}

// Dist calculates the Euclidean distance between the points represented by `v` and `other`.
func (v Vector2D) Dist(other Vector2D) float64 {
	return v.Sub(other).Mag()
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vector2D) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// Round snaps the vector to the nearest integer pixel, rounding half away from zero.
func (v Vector2D) Round() Pixel {
	return Pixel{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// Pixel is an integer screen coordinate. One Pixel is one frame of a Trajectory.
type Pixel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vector converts the pixel back into floating point space.
func (p Pixel) Vector() Vector2D {
	return Vector2D{X: float64(p.X), Y: float64(p.Y)}
}

// Trajectory is the ordered sequence of pixels a pointer should visit.
type Trajectory []Pixel

// Start returns the first frame. The trajectory must not be empty.
func (t Trajectory) Start() Pixel { return t[0] }

// End returns the last frame. The trajectory must not be empty.
func (t Trajectory) End() Pixel { return t[len(t)-1] }

// Flatten returns the frames as x0, y0, x1, y1, ...
func (t Trajectory) Flatten() []int {
	out := make([]int, 0, 2*len(t))
	for _, p := range t {
		out = append(out, p.X, p.Y)
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
