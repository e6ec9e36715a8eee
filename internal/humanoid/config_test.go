package humanoid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 80.0, cfg.Margin)
	assert.Equal(t, 2, cfg.KnotCount)
	assert.Equal(t, 0.5, cfg.DistortionProbability)
	assert.Equal(t, 1.0, cfg.DistortionMean)
	assert.Equal(t, 1.0, cfg.DistortionStdDev)
	assert.Equal(t, 0, cfg.MinFrames)
	assert.Equal(t, 150, cfg.MaxFrames)
	assert.Nil(t, cfg.Seed)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"NegativeMargin", func(c *Config) { c.Margin = -1 }},
		{"NaNMargin", func(c *Config) { c.Margin = math.NaN() }},
		{"NegativeKnots", func(c *Config) { c.KnotCount = -1 }},
		{"TooManyKnots", func(c *Config) { c.KnotCount = maxKnots + 1 }},
		{"ProbabilityAboveOne", func(c *Config) { c.DistortionProbability = 1.5 }},
		{"ProbabilityBelowZero", func(c *Config) { c.DistortionProbability = -0.1 }},
		{"InfiniteMean", func(c *Config) { c.DistortionMean = math.Inf(1) }},
		{"NegativeStdDev", func(c *Config) { c.DistortionStdDev = -1 }},
		{"NegativeMinFrames", func(c *Config) { c.MinFrames = -3 }},
		{"MaxBelowMinPlusTwo", func(c *Config) { c.MinFrames = 10; c.MaxFrames = 11 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidArgument)

			_, err := New(cfg, nil)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestConfig_WithSeed(t *testing.T) {
	base := DefaultConfig()
	seeded := base.WithSeed(42)

	assert.Nil(t, base.Seed, "WithSeed must not mutate the receiver")
	require.NotNil(t, seeded.Seed)
	assert.Equal(t, int64(42), *seeded.Seed)
	assert.Equal(t, seeded.newRand().Int63(), seeded.newRand().Int63())
}
