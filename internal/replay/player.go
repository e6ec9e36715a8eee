package replay

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/humanpath/internal/humanoid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Player dispatches trajectory frames to a Driver in order.
type Player struct {
	driver  Driver
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewPlayer returns a Player emitting at most framesPerSecond moves per second.
// A non-positive rate disables pacing.
func NewPlayer(driver Driver, framesPerSecond float64, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if framesPerSecond > 0 {
		limit = rate.Limit(framesPerSecond)
	}
	return &Player{
		driver:  driver,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.Named("player"),
	}
}

// Play moves the pointer through every frame of traj. It returns the number of
// frames dispatched, which is less than len(traj) only on error.
func (p *Player) Play(ctx context.Context, traj humanoid.Trajectory) (int, error) {
	for i, frame := range traj {
		if err := p.limiter.Wait(ctx); err != nil {
			return i, err
		}
		if err := p.driver.MoveTo(ctx, float64(frame.X), float64(frame.Y)); err != nil {
			if ctx.Err() == nil {
				p.logger.Warn("Failed to dispatch pointer move", zap.Int("frame", i), zap.Error(err))
			}
			return i, fmt.Errorf("moving to frame %d (%d,%d): %w", i, frame.X, frame.Y, err)
		}
	}
	p.logger.Debug("Trajectory played", zap.Int("frames", len(traj)))
	return len(traj), nil
}
