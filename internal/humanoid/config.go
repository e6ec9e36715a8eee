// internal/humanoid/config.go
package humanoid

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// seedCounter separates clock seeds taken within the same nanosecond.
var seedCounter atomic.Int64

// maxKnots keeps the curve degree small enough for exact binomial weights.
const maxKnots = 16

// Config holds the parameters of trajectory synthesis. The defaults reproduce
// the tuned values the generator has always shipped with.
type Config struct {
	// Margin grows the source/target bounding box on every side before knots are drawn.
	Margin float64
	// KnotCount is the number of interior control points. The curve degree is KnotCount+1.
	KnotCount int

	// Tremor applied to interior samples.
	DistortionProbability float64
	DistortionMean        float64
	DistortionStdDev      float64

	// Frame count bounds: every trajectory has between MinFrames+2 and MaxFrames frames.
	MinFrames int
	MaxFrames int

	// Seed makes every Synthesize call reproducible. Nil means seed from the clock.
	Seed *int64
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Margin:                80.0,
		KnotCount:             2,
		DistortionProbability: 0.5,
		DistortionMean:        1.0,
		DistortionStdDev:      1.0,
		MinFrames:             0,
		MaxFrames:             150,
	}
}

// Validate rejects configurations the algorithm cannot honour.
func (c Config) Validate() error {
	switch {
	case !isFinite(c.Margin) || c.Margin < 0:
		return fmt.Errorf("%w: margin must be a non-negative finite number, got %v", ErrInvalidArgument, c.Margin)
	case c.KnotCount < 0 || c.KnotCount > maxKnots:
		return fmt.Errorf("%w: knot count must be in [0,%d], got %d", ErrInvalidArgument, maxKnots, c.KnotCount)
	case !isFinite(c.DistortionProbability) || c.DistortionProbability < 0 || c.DistortionProbability > 1:
		return fmt.Errorf("%w: distortion probability must be in [0,1], got %v", ErrInvalidArgument, c.DistortionProbability)
	case !isFinite(c.DistortionMean):
		return fmt.Errorf("%w: distortion mean %v is not finite", ErrInvalidArgument, c.DistortionMean)
	case !isFinite(c.DistortionStdDev) || c.DistortionStdDev < 0:
		return fmt.Errorf("%w: distortion stddev must be a non-negative finite number, got %v", ErrInvalidArgument, c.DistortionStdDev)
	case c.MinFrames < 0:
		return fmt.Errorf("%w: min frames %d is negative", ErrInvalidArgument, c.MinFrames)
	case c.MaxFrames < c.MinFrames+2:
		return fmt.Errorf("%w: max frames %d must be at least min frames + 2 (%d)", ErrInvalidArgument, c.MaxFrames, c.MinFrames+2)
	}
	return nil
}

// WithSeed returns a copy of c pinned to seed.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = &seed
	return c
}

// newRand builds the random source for a single synthesis call.
func (c Config) newRand() *rand.Rand {
	if c.Seed != nil {
		return rand.New(rand.NewSource(*c.Seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano() + seedCounter.Add(1)<<32))
}
