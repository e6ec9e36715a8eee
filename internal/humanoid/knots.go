package humanoid

import (
	"fmt"
	"math"
	"math/rand"
)

// BoundingBox is the axis-aligned region interior knots are drawn from.
// Down is the smaller Y edge and Up the larger one.
type BoundingBox struct {
	Left, Right float64
	Down, Up    float64
}

// NewBoundingBox returns the tightest box around a and b, grown by margin on
// every side. When a == b the result is a 2*margin square centred on the point.
func NewBoundingBox(a, b Vector2D, margin float64) BoundingBox {
	return BoundingBox{
		Left:  math.Min(a.X, b.X) - margin,
		Right: math.Max(a.X, b.X) + margin,
		Down:  math.Min(a.Y, b.Y) - margin,
		Up:    math.Max(a.Y, b.Y) + margin,
	}
}

// Validate checks that every edge is finite and the edges are ordered.
func (b BoundingBox) Validate() error {
	if !isFinite(b.Left) || !isFinite(b.Right) || !isFinite(b.Down) || !isFinite(b.Up) {
		return fmt.Errorf("%w: bounding box %+v has non-finite edges", ErrInvalidArgument, b)
	}
	if b.Left > b.Right {
		return fmt.Errorf("%w: left %v exceeds right %v", ErrInvalidBoundary, b.Left, b.Right)
	}
	if b.Down > b.Up {
		return fmt.Errorf("%w: down %v exceeds up %v", ErrInvalidBoundary, b.Down, b.Up)
	}
	return nil
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p Vector2D) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Down && p.Y <= b.Up
}

// GenerateKnots draws count interior control points uniformly from box.
// All X coordinates are drawn before the Y coordinates, so a given seed always
// maps to the same knots.
func GenerateKnots(box BoundingBox, count int, rng *rand.Rand) ([]Vector2D, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: knot count %d is negative", ErrInvalidArgument, count)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: knot generation needs a random source", ErrInvalidArgument)
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}

	xs := uniformSamples(rng, box.Left, box.Right, count)
	ys := uniformSamples(rng, box.Down, box.Up, count)

	knots := make([]Vector2D, count)
	for i := range knots {
		knots[i] = Vector2D{X: xs[i], Y: ys[i]}
	}
	return knots, nil
}

func uniformSamples(rng *rand.Rand, lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*rng.Float64()
	}
	return out
}
