package replay

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xkilldash9x/humanpath/internal/humanoid"
	"go.uber.org/zap"
)

// ClickerConfig tunes the locate/move/verify/click loop.
type ClickerConfig struct {
	// MaxAttempts caps how many times the element may move before giving up.
	MaxAttempts int
	// SettleDelay is waited between arriving and re-locating the element.
	SettleDelay time.Duration
	// LocateTimeout bounds each element lookup.
	LocateTimeout time.Duration
	// EdgeSpan bounds the random starting position on the top or left edge.
	EdgeSpan int
}

// Clicker moves a single pointer along synthesized trajectories and clicks elements.
// The pointer is a shared resource, so Click calls are serialized.
type Clicker struct {
	driver Driver
	player *Player
	synth  *humanoid.Synthesizer
	cfg    ClickerConfig
	logger *zap.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	position humanoid.Vector2D
}

// NewClicker creates a Clicker whose pointer starts at a random point on the top
// or left viewport edge. rng drives only that start position; a nil rng is
// seeded from the clock.
func NewClicker(driver Driver, player *Player, synth *humanoid.Synthesizer, cfg ClickerConfig, logger *zap.Logger, rng *rand.Rand) (*Clicker, error) {
	if driver == nil || player == nil || synth == nil {
		return nil, fmt.Errorf("%w: driver, player and synthesizer are required", humanoid.ErrInvalidArgument)
	}
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("%w: max attempts must be positive, got %d", humanoid.ErrInvalidArgument, cfg.MaxAttempts)
	}
	if cfg.EdgeSpan <= 0 {
		return nil, fmt.Errorf("%w: edge span must be positive, got %d", humanoid.ErrInvalidArgument, cfg.EdgeSpan)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c := &Clicker{
		driver: driver,
		player: player,
		synth:  synth,
		cfg:    cfg,
		logger: logger.Named("clicker"),
		rng:    rng,
	}
	c.position = c.edgeStart()
	return c, nil
}

// edgeStart picks a point on the top edge or the left edge with equal odds.
func (c *Clicker) edgeStart() humanoid.Vector2D {
	offset := float64(c.rng.Intn(c.cfg.EdgeSpan + 1))
	if c.rng.Intn(2) == 0 {
		return humanoid.Vector2D{X: 0, Y: offset}
	}
	return humanoid.Vector2D{X: offset, Y: 0}
}

// Position returns where the pointer was last moved to.
func (c *Clicker) Position() humanoid.Vector2D {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// Click moves the pointer to the center of the element matched by selector and
// clicks it. If the element moved while the pointer travelled, the motion is
// restarted from the current position toward the new location, up to
// MaxAttempts times, after which ErrTargetUnstable is returned.
func (c *Clicker) Click(ctx context.Context, selector string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		attemptID := uuid.NewString()
		logger := c.logger.With(
			zap.String("selector", selector),
			zap.String("attempt_id", attemptID),
			zap.Int("attempt", attempt),
		)

		before, err := c.locate(ctx, selector)
		if err != nil {
			return err
		}
		target := before.Center()

		traj, err := c.synth.Synthesize(c.position, target)
		if err != nil {
			return fmt.Errorf("synthesizing motion to %q: %w", selector, err)
		}
		logger.Debug("Moving pointer",
			zap.Float64("from_x", c.position.X), zap.Float64("from_y", c.position.Y),
			zap.Float64("to_x", target.X), zap.Float64("to_y", target.Y),
			zap.Float64("distance", c.position.Dist(target)),
			zap.Int("frames", len(traj)),
		)

		played, err := c.player.Play(ctx, traj)
		if played > 0 {
			c.position = traj[played-1].Vector()
		}
		if err != nil {
			return fmt.Errorf("playing motion to %q: %w", selector, err)
		}

		if err := sleepContext(ctx, c.cfg.SettleDelay); err != nil {
			return err
		}

		after, err := c.locate(ctx, selector)
		if err != nil {
			return err
		}
		if !after.SameOrigin(before) {
			logger.Info("Target moved during motion, retrying",
				zap.Float64("old_x", before.X), zap.Float64("old_y", before.Y),
				zap.Float64("new_x", after.X), zap.Float64("new_y", after.Y),
			)
			continue
		}

		if err := c.driver.Click(ctx, c.position.X, c.position.Y); err != nil {
			return fmt.Errorf("clicking %q: %w", selector, err)
		}
		logger.Debug("Clicked target")
		return nil
	}

	c.logger.Warn("Giving up on moving target",
		zap.String("selector", selector), zap.Int("attempts", c.cfg.MaxAttempts))
	return fmt.Errorf("%w: %q moved on all %d attempts", ErrTargetUnstable, selector, c.cfg.MaxAttempts)
}

func (c *Clicker) locate(ctx context.Context, selector string) (Box, error) {
	locateCtx := ctx
	if c.cfg.LocateTimeout > 0 {
		var cancel context.CancelFunc
		locateCtx, cancel = context.WithTimeout(ctx, c.cfg.LocateTimeout)
		defer cancel()
	}
	box, err := c.driver.Locate(locateCtx, selector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return Box{}, fmt.Errorf("element %q not found within %s: %w", selector, c.cfg.LocateTimeout, err)
		}
		return Box{}, fmt.Errorf("locating %q: %w", selector, err)
	}
	return box, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
