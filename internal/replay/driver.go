// Package replay feeds synthesized trajectories to a pointer device and commits
// clicks once the target element has stopped moving.
package replay

import (
	"context"
	"errors"
	"math"

	"github.com/xkilldash9x/humanpath/internal/humanoid"
)

// ErrTargetUnstable is returned when the element kept moving for every attempt.
var ErrTargetUnstable = errors.New("replay: target element did not settle")

// Box is an element's bounding box in viewport pixels.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// Center returns the middle of the box.
func (b Box) Center() humanoid.Vector2D {
	return humanoid.Vector2D{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// SameOrigin reports whether two boxes share their top-left corner, which is how
// element movement is detected between locating and clicking.
func (b Box) SameOrigin(other Box) bool {
	return b.X == other.X && b.Y == other.Y
}

// boxFromQuad converts a CDP quad (x0,y0 .. x3,y3) into a Box.
func boxFromQuad(quad []float64) (Box, bool) {
	if len(quad) < 8 {
		return Box{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < 8; i += 2 {
		minX = math.Min(minX, quad[i])
		maxX = math.Max(maxX, quad[i])
		minY = math.Min(minY, quad[i+1])
		maxY = math.Max(maxY, quad[i+1])
	}
	if maxX <= minX || maxY <= minY {
		return Box{}, false
	}
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Driver is the low-level pointer device a trajectory is played on.
type Driver interface {
	// MoveTo moves the pointer to (x, y).
	MoveTo(ctx context.Context, x, y float64) error
	// Locate returns the current bounding box of the element matched by selector.
	Locate(ctx context.Context, selector string) (Box, error)
	// Click presses and releases the primary button at (x, y).
	Click(ctx context.Context, x, y float64) error
}
