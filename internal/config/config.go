// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/xkilldash9x/humanpath/internal/humanoid"
)

// Config holds the entire application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Trajectory TrajectoryConfig `mapstructure:"trajectory" yaml:"trajectory"`
	Replay     ReplayConfig     `mapstructure:"replay" yaml:"replay"`
	Batch      BatchConfig      `mapstructure:"batch" yaml:"batch"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// TrajectoryConfig mirrors humanoid.Config in file/env form.
type TrajectoryConfig struct {
	Margin                float64 `mapstructure:"margin" yaml:"margin"`
	KnotCount             int     `mapstructure:"knot_count" yaml:"knot_count"`
	DistortionProbability float64 `mapstructure:"distortion_probability" yaml:"distortion_probability"`
	DistortionMean        float64 `mapstructure:"distortion_mean" yaml:"distortion_mean"`
	DistortionStdDev      float64 `mapstructure:"distortion_stddev" yaml:"distortion_stddev"`
	MinFrames             int     `mapstructure:"min_frames" yaml:"min_frames"`
	MaxFrames             int     `mapstructure:"max_frames" yaml:"max_frames"`
	// Seed pins every synthesis to the same random sequence. Unset means clock seeded.
	Seed *int64 `mapstructure:"seed" yaml:"seed"`
}

// ReplayConfig controls how trajectories are played back against a browser.
type ReplayConfig struct {
	RemoteURL       string        `mapstructure:"remote_url" yaml:"remote_url"`
	FramesPerSecond float64       `mapstructure:"frames_per_second" yaml:"frames_per_second"`
	MaxAttempts     int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	SettleDelay     time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	LocateTimeout   time.Duration `mapstructure:"locate_timeout" yaml:"locate_timeout"`
	// EdgeSpan bounds the random starting pointer position along the top or left edge.
	EdgeSpan int `mapstructure:"edge_span" yaml:"edge_span"`
}

// BatchConfig controls offline batch generation.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "humanpath")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Trajectory --
	defaults := humanoid.DefaultConfig()
	v.SetDefault("trajectory.margin", defaults.Margin)
	v.SetDefault("trajectory.knot_count", defaults.KnotCount)
	v.SetDefault("trajectory.distortion_probability", defaults.DistortionProbability)
	v.SetDefault("trajectory.distortion_mean", defaults.DistortionMean)
	v.SetDefault("trajectory.distortion_stddev", defaults.DistortionStdDev)
	v.SetDefault("trajectory.min_frames", defaults.MinFrames)
	v.SetDefault("trajectory.max_frames", defaults.MaxFrames)

	// -- Replay --
	v.SetDefault("replay.remote_url", "")
	v.SetDefault("replay.frames_per_second", 120.0)
	v.SetDefault("replay.max_attempts", 5)
	v.SetDefault("replay.settle_delay", "150ms")
	v.SetDefault("replay.locate_timeout", "10s")
	v.SetDefault("replay.edge_span", 500)

	// -- Batch --
	v.SetDefault("batch.concurrency", 8)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Keys without defaults are invisible to AutomaticEnv, so bind them explicitly.
	v.BindEnv("replay.remote_url", "HUMANPATH_REMOTE_URL")
	v.BindEnv("trajectory.seed", "HUMANPATH_SEED")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.Trajectory.Validate(); err != nil {
		return fmt.Errorf("trajectory configuration invalid: %w", err)
	}
	if err := c.Replay.Validate(); err != nil {
		return fmt.Errorf("replay configuration invalid: %w", err)
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be a positive integer")
	}
	return nil
}

// Validate delegates to the synthesizer's own rules so both layers agree.
func (t TrajectoryConfig) Validate() error {
	return t.ToHumanoid().Validate()
}

// ToHumanoid converts the file representation into the synthesizer's configuration.
func (t TrajectoryConfig) ToHumanoid() humanoid.Config {
	cfg := humanoid.Config{
		Margin:                t.Margin,
		KnotCount:             t.KnotCount,
		DistortionProbability: t.DistortionProbability,
		DistortionMean:        t.DistortionMean,
		DistortionStdDev:      t.DistortionStdDev,
		MinFrames:             t.MinFrames,
		MaxFrames:             t.MaxFrames,
	}
	if t.Seed != nil {
		cfg = cfg.WithSeed(*t.Seed)
	}
	return cfg
}

// Validate checks the Replay configuration.
func (r ReplayConfig) Validate() error {
	if r.FramesPerSecond < 0 {
		return fmt.Errorf("frames_per_second must not be negative")
	}
	if r.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be greater than 0")
	}
	if r.SettleDelay < 0 {
		return fmt.Errorf("settle_delay must not be negative")
	}
	if r.LocateTimeout <= 0 {
		return fmt.Errorf("locate_timeout must be a positive duration")
	}
	if r.EdgeSpan <= 0 {
		return fmt.Errorf("edge_span must be a positive integer")
	}
	return nil
}
