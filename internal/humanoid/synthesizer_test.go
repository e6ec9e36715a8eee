package humanoid

import (
	"errors"
	"flag"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var update = flag.Bool("update", false, "rewrite golden trajectories")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newTestSynthesizer builds a synthesizer over the default configuration.
func newTestSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()
	s, err := New(DefaultConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

// randomPairs returns deterministic (source, target) pairs covering short hops,
// long sweeps and negative coordinates.
func randomPairs(n int) [][2]Vector2D {
	rng := rand.New(rand.NewSource(99))
	pairs := make([][2]Vector2D, n)
	for i := range pairs {
		scale := []float64{5, 50, 500, 3000}[i%4]
		pairs[i] = [2]Vector2D{
			{X: (rng.Float64()*2 - 1) * scale, Y: (rng.Float64()*2 - 1) * scale},
			{X: (rng.Float64()*2 - 1) * scale, Y: (rng.Float64()*2 - 1) * scale},
		}
	}
	return pairs
}

func TestSynthesize_EndpointsAndLength(t *testing.T) {
	s := newTestSynthesizer(t)
	cfg := s.Config()

	for i, pair := range randomPairs(64) {
		src, dst := pair[0], pair[1]
		traj, err := s.SynthesizeWithRand(src, dst, rand.New(rand.NewSource(int64(i))))
		require.NoError(t, err)

		assert.Equal(t, src.Round(), traj.Start(), "pair %d", i)
		assert.Equal(t, dst.Round(), traj.End(), "pair %d", i)
		assert.GreaterOrEqual(t, len(traj), cfg.MinFrames+2, "pair %d", i)
		assert.LessOrEqual(t, len(traj), cfg.MaxFrames, "pair %d", i)
	}
}

func TestSynthesize_DegenerateInput(t *testing.T) {
	s := newTestSynthesizer(t)
	p := Vector2D{X: 100, Y: 100}

	path, err := s.Plan(p, p, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(path.Frames), 2)
	assert.Equal(t, Pixel{X: 100, Y: 100}, path.Frames.Start())
	assert.Equal(t, Pixel{X: 100, Y: 100}, path.Frames.End())
	for _, f := range path.Frames {
		assert.LessOrEqual(t, f.Vector().Dist(p), s.Config().Margin)
	}
	for _, c := range path.Control {
		assert.True(t, NewBoundingBox(p, p, s.Config().Margin).Contains(c))
	}
}

func TestPlan_MonotonicEasing(t *testing.T) {
	s := newTestSynthesizer(t)
	for i, pair := range randomPairs(32) {
		path, err := s.Plan(pair[0], pair[1], rand.New(rand.NewSource(int64(i))))
		require.NoError(t, err)

		require.Len(t, path.Indices, len(path.Frames))
		assert.Equal(t, 0, path.Indices[0])
		assert.Equal(t, len(path.Distorted)-1, path.Indices[len(path.Indices)-1])
		for j := 1; j < len(path.Indices); j++ {
			assert.GreaterOrEqual(t, path.Indices[j], path.Indices[j-1], "pair %d frame %d", i, j)
		}
	}
}

func TestPlan_DistortionScope(t *testing.T) {
	s := newTestSynthesizer(t)
	for i, pair := range randomPairs(32) {
		path, err := s.Plan(pair[0], pair[1], rand.New(rand.NewSource(int64(i))))
		require.NoError(t, err)

		geo, dis := path.Geometric, path.Distorted
		require.Len(t, dis, len(geo))
		assert.Equal(t, geo[0], dis[0])
		assert.Equal(t, geo[len(geo)-1], dis[len(dis)-1])
		for j := range geo {
			assert.Equal(t, geo[j].X, dis[j].X, "x must never be distorted")
			dy := dis[j].Y - geo[j].Y
			assert.InDelta(t, math.Round(dy), dy, 1e-6, "y offsets are whole pixels")
		}
	}
}

func TestPlan_ControlPointsAndSampleCount(t *testing.T) {
	s := newTestSynthesizer(t)
	src, dst := Vector2D{X: 10.4, Y: 20}, Vector2D{X: 250.6, Y: 60}

	path, err := s.Plan(src, dst, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	require.Len(t, path.Control, 4)
	assert.Equal(t, src, path.Control[0])
	assert.Equal(t, dst, path.Control[3])
	// round(|240.2|) = 240 samples, one per pixel of horizontal travel.
	assert.Len(t, path.Geometric, 240)
	assert.GreaterOrEqual(t, path.Length+1e-9, src.Dist(dst))
}

func TestSynthesize_Determinism(t *testing.T) {
	src, dst := Vector2D{X: 0, Y: 0}, Vector2D{X: 300, Y: 0}

	a, err := New(DefaultConfig().WithSeed(42), nil)
	require.NoError(t, err)
	b, err := New(DefaultConfig().WithSeed(42), nil)
	require.NoError(t, err)

	first, err := a.Synthesize(src, dst)
	require.NoError(t, err)
	second, err := b.Synthesize(src, dst)
	require.NoError(t, err)
	again, err := a.Synthesize(src, dst)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
	assert.Empty(t, cmp.Diff(first, again), "each call must start from a fresh seeded source")

	s := newTestSynthesizer(t)
	p1, err := s.Plan(src, dst, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	p2, err := s.Plan(src, dst, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	assert.False(t, cmp.Equal(p1.Distorted, p2.Distorted), "different seeds should produce different paths")
}

func TestSynthesize_GoldenSeed42(t *testing.T) {
	s, err := New(DefaultConfig().WithSeed(42), nil)
	require.NoError(t, err)

	got, err := s.Synthesize(Vector2D{X: 0, Y: 0}, Vector2D{X: 300, Y: 0})
	require.NoError(t, err)

	// The path is at least as long as the straight line, so at least floor(300^0.25*20) frames.
	assert.GreaterOrEqual(t, len(got), 83)
	assert.LessOrEqual(t, len(got), 150)

	golden := filepath.Join("testdata", "trajectory_seed42.golden.json")
	if *update {
		data, err := json.MarshalIndent(got, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(golden, data, 0o644))
		t.Logf("rewrote golden trajectory (%d frames) in %s", len(got), golden)
	}
	want, err := os.ReadFile(golden)
	require.NoError(t, err, "golden file is missing; regenerate with -update")

	var expected Trajectory
	require.NoError(t, json.Unmarshal(want, &expected))
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("trajectory mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthesize_InvalidInput(t *testing.T) {
	s := newTestSynthesizer(t)
	finite := Vector2D{X: 1, Y: 1}

	for _, bad := range []Vector2D{
		{X: math.NaN(), Y: 0},
		{X: 0, Y: math.Inf(1)},
		{X: math.Inf(-1), Y: math.NaN()},
	} {
		_, err := s.Synthesize(bad, finite)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = s.Synthesize(finite, bad)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}

	_, err := s.Synthesize(Vector2D{}, Vector2D{X: 1e12})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Short hops far from the origin would overflow the pixel conversion.
	for _, pair := range [][2]Vector2D{
		{{X: 1e19, Y: 5}, {X: 1e19 + 200, Y: 5}},
		{{X: 5, Y: -1e19}, {X: 5, Y: -1e19}},
		{{X: maxCoordinate + 1, Y: 0}, {X: maxCoordinate - 10, Y: 0}},
	} {
		traj, err := s.SynthesizeWithRand(pair[0], pair[1], rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrInvalidArgument, "%v -> %v", pair[0], pair[1])
		assert.Nil(t, traj)
	}

	edge := Vector2D{X: -maxCoordinate, Y: maxCoordinate}
	traj, err := s.SynthesizeWithRand(edge, edge.Add(Vector2D{X: 40, Y: -40}), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, Pixel{X: -maxCoordinate, Y: maxCoordinate}, traj.Start())

	_, err = s.SynthesizeWithRand(finite, finite, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSynthesize_FrameBoundsFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinFrames = 10
	cfg.MaxFrames = 12
	s, err := New(cfg, nil)
	require.NoError(t, err)

	for i, pair := range randomPairs(16) {
		traj, err := s.SynthesizeWithRand(pair[0], pair[1], rand.New(rand.NewSource(int64(i))))
		require.NoError(t, err)
		assert.Len(t, traj, 12)
	}
}

func TestSynthesize_NoDistortion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DistortionProbability = 0
	s, err := New(cfg, nil)
	require.NoError(t, err)

	path, err := s.Plan(Vector2D{X: 0, Y: 0}, Vector2D{X: 120, Y: 90}, rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	assert.Equal(t, path.Geometric, path.Distorted)
}

func TestFrameCount(t *testing.T) {
	s := newTestSynthesizer(t)
	testCases := []struct {
		length float64
		want   int
	}{
		{0, 2},
		{1, 20},
		{15, 39},
		{100, 63},
		{1e6, 150},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, s.frameCount(tc.length), "length %v", tc.length)
	}
}

func TestEaseOutQuad(t *testing.T) {
	assert.Equal(t, 0.0, easeOutQuad(0))
	assert.Equal(t, 1.0, easeOutQuad(1))
	assert.Equal(t, 0.75, easeOutQuad(0.5))

	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := easeOutQuad(float64(i) / 100)
		assert.Greater(t, v, prev)
		prev = v
	}
}

func TestSynthesize_Concurrent(t *testing.T) {
	s := newTestSynthesizer(t)
	pairs := randomPairs(40)

	var wg sync.WaitGroup
	errs := make(chan error, len(pairs))
	for _, pair := range pairs {
		wg.Add(1)
		go func(src, dst Vector2D) {
			defer wg.Done()
			traj, err := s.Synthesize(src, dst)
			if err == nil && (traj.Start() != src.Round() || traj.End() != dst.Round()) {
				err = errors.New("endpoint mismatch")
			}
			errs <- err
		}(pair[0], pair[1])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestTrajectory_Flatten(t *testing.T) {
	traj := Trajectory{{X: 1, Y: 2}, {X: 3, Y: 4}}
	assert.Equal(t, []int{1, 2, 3, 4}, traj.Flatten())
}
