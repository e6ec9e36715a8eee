package humanoid

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"
)

// maxTravel bounds the per-axis distance of a single motion. The geometric
// path holds one sample per pixel of travel, so larger inputs are rejected
// rather than allocated.
const maxTravel = 1 << 20

// maxCoordinate bounds the absolute value of source and target coordinates.
// With the margin and tremor added, every sample still converts to int
// without overflow, including on 32-bit platforms.
const maxCoordinate = 1 << 30

// Path is the full breakdown of one synthesized motion.
type Path struct {
	// Control holds source, knots and target in curve order.
	Control []Vector2D
	// Geometric is the curve sampled once per pixel of travel.
	Geometric []Vector2D
	// Distorted is Geometric with tremor added to interior Y values.
	Distorted []Vector2D
	// Length is the cumulative Euclidean length of Distorted.
	Length float64
	// Indices maps every output frame to the Distorted sample it shows.
	Indices []int
	// Frames is the resulting trajectory.
	Frames Trajectory
}

// Synthesizer turns (source, target) pairs into human-looking pointer trajectories.
// It holds no mutable state, so a single instance may be shared across goroutines.
type Synthesizer struct {
	cfg    Config
	logger *zap.Logger
}

// New validates cfg and returns a Synthesizer. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) (*Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{cfg: cfg, logger: logger.Named("synthesizer")}, nil
}

// Config returns the configuration the synthesizer was built with.
func (s *Synthesizer) Config() Config {
	return s.cfg
}

// Synthesize produces a trajectory from source to target using a random source
// created for this call alone.
func (s *Synthesizer) Synthesize(source, target Vector2D) (Trajectory, error) {
	return s.SynthesizeWithRand(source, target, s.cfg.newRand())
}

// SynthesizeWithRand is Synthesize with an injected random source. The caller
// must not share rng with a concurrent call.
func (s *Synthesizer) SynthesizeWithRand(source, target Vector2D, rng *rand.Rand) (Trajectory, error) {
	path, err := s.Plan(source, target, rng)
	if err != nil {
		return nil, err
	}
	return path.Frames, nil
}

// Plan runs the whole pipeline and returns every intermediate stage.
func (s *Synthesizer) Plan(source, target Vector2D, rng *rand.Rand) (*Path, error) {
	if !source.IsFinite() || !target.IsFinite() {
		return nil, fmt.Errorf("%w: source %v and target %v must be finite", ErrInvalidArgument, source, target)
	}
	if !withinPixelRange(source) || !withinPixelRange(target) {
		return nil, fmt.Errorf("%w: source %v and target %v must lie within ±%d", ErrInvalidArgument, source, target, maxCoordinate)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: synthesis needs a random source", ErrInvalidArgument)
	}
	dx := math.Abs(source.X - target.X)
	dy := math.Abs(source.Y - target.Y)
	if dx > maxTravel || dy > maxTravel {
		return nil, fmt.Errorf("%w: travel (%v, %v) exceeds %d pixels", ErrInvalidArgument, dx, dy, maxTravel)
	}

	box := NewBoundingBox(source, target, s.cfg.Margin)
	knots, err := GenerateKnots(box, s.cfg.KnotCount, rng)
	if err != nil {
		return nil, fmt.Errorf("generating knots: %w", err)
	}

	control := make([]Vector2D, 0, len(knots)+2)
	control = append(control, source)
	control = append(control, knots...)
	control = append(control, target)

	sampleCount := max(int(math.Round(dx)), int(math.Round(dy)), 2)
	geometric, err := SampleCurve(control, sampleCount)
	if err != nil {
		return nil, fmt.Errorf("sampling curve: %w", err)
	}

	distorted := s.distort(geometric, rng)
	length := pathLength(distorted)
	frameCount := s.frameCount(length)
	indices, frames := resample(distorted, frameCount)

	s.logger.Debug("Synthesized trajectory",
		zap.Int("samples", sampleCount),
		zap.Float64("length", length),
		zap.Int("frames", frameCount),
	)

	return &Path{
		Control:   control,
		Geometric: geometric,
		Distorted: distorted,
		Length:    length,
		Indices:   indices,
		Frames:    frames,
	}, nil
}

// distort adds rounded Gaussian tremor to the Y value of interior samples.
// The first and last samples are copied unchanged.
func (s *Synthesizer) distort(points []Vector2D, rng *rand.Rand) []Vector2D {
	out := make([]Vector2D, len(points))
	copy(out, points)
	for i := 1; i < len(out)-1; i++ {
		if rng.Float64() < s.cfg.DistortionProbability {
			out[i].Y += math.Round(rng.NormFloat64()*s.cfg.DistortionStdDev + s.cfg.DistortionMean)
		}
	}
	return out
}

// frameCount grows with the fourth root of the path length, clamped to the
// configured bounds.
func (s *Synthesizer) frameCount(length float64) int {
	n := math.Floor(math.Pow(length, 0.25) * 20)
	lo, hi := float64(s.cfg.MinFrames+2), float64(s.cfg.MaxFrames)
	return int(math.Min(hi, math.Max(lo, n)))
}

func withinPixelRange(v Vector2D) bool {
	return math.Abs(v.X) <= maxCoordinate && math.Abs(v.Y) <= maxCoordinate
}

func pathLength(points []Vector2D) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i].Sub(points[i-1]).Mag()
	}
	return total
}

// easeOutQuad decelerates towards t = 1.
func easeOutQuad(t float64) float64 {
	return -t * (t - 2)
}

// resample picks frameCount samples from points along an ease-out time
// profile. Neighbouring frames may select the same sample.
func resample(points []Vector2D, frameCount int) ([]int, Trajectory) {
	last := len(points) - 1
	indices := make([]int, frameCount)
	frames := make(Trajectory, frameCount)
	for i := range frameCount {
		t := float64(i) / float64(frameCount-1)
		idx := int(easeOutQuad(t) * float64(last))
		idx = min(max(idx, 0), last)
		indices[i] = idx
		frames[i] = points[idx].Round()
	}
	return indices, frames
}
