package humanoid

import (
	"fmt"
	"math"
)

// Binomial returns the binomial coefficient n! / (k!(n-k)!).
//
// The product is accumulated in integers and divided at every step, which keeps
// the result exact for the small degrees used by trajectory curves. Any
// negative factorial argument yields ErrArithmetic.
func Binomial(n, k int) (float64, error) {
	if n < 0 || k < 0 || k > n {
		return 0, fmt.Errorf("%w: binomial(%d, %d) needs n >= k >= 0", ErrArithmetic, n, k)
	}
	if k > n-k {
		k = n - k
	}
	c := 1
	for i := 1; i <= k; i++ {
		c = c * (n - k + i) / i
	}
	return float64(c), nil
}

// BernsteinPoint evaluates the Bezier curve defined by control at parameter t.
// The degree is len(control)-1; both coordinates use the same basis weights.
func BernsteinPoint(control []Vector2D, t float64) (Vector2D, error) {
	if len(control) == 0 {
		return Vector2D{}, fmt.Errorf("%w: curve needs at least one control point", ErrInvalidArgument)
	}
	if !isFinite(t) {
		return Vector2D{}, fmt.Errorf("%w: curve parameter %v is not finite", ErrInvalidArgument, t)
	}

	n := len(control) - 1
	var p Vector2D
	for i, c := range control {
		coeff, err := Binomial(n, i)
		if err != nil {
			return Vector2D{}, err
		}
		w := coeff * math.Pow(t, float64(i)) * math.Pow(1-t, float64(n-i))
		p = p.Add(c.Mul(w))
	}
	return p, nil
}

// SampleCurve evaluates the curve at sampleCount evenly spaced parameters over
// [0, 1], both ends included.
func SampleCurve(control []Vector2D, sampleCount int) ([]Vector2D, error) {
	if sampleCount < 2 {
		return nil, fmt.Errorf("%w: sample count %d, need at least 2", ErrInvalidArgument, sampleCount)
	}

	points := make([]Vector2D, sampleCount)
	for i := range points {
		t := float64(i) / float64(sampleCount-1)
		p, err := BernsteinPoint(control, t)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}
