package replay

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	boxModelRetries = 3
	defaultHold     = 60 * time.Millisecond
)

// CDPDriver drives a browser tab over the Chrome DevTools Protocol. Every ctx
// passed to its methods must descend from a chromedp tab context.
type CDPDriver struct {
	logger *zap.Logger
	hold   time.Duration
}

// NewCDPDriver returns a driver that holds the button for a short, fixed time on click.
func NewCDPDriver(logger *zap.Logger) *CDPDriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CDPDriver{logger: logger.Named("cdp"), hold: defaultHold}
}

// MoveTo implements Driver.
func (d *CDPDriver) MoveTo(ctx context.Context, x, y float64) error {
	return chromedp.Run(ctx, input.DispatchMouseEvent(input.MouseMoved, x, y))
}

// Click implements Driver.
func (d *CDPDriver) Click(ctx context.Context, x, y float64) error {
	return chromedp.Run(ctx,
		input.DispatchMouseEvent(input.MousePressed, x, y).
			WithButton(input.Left).
			WithClickCount(1),
		chromedp.Sleep(d.hold),
		input.DispatchMouseEvent(input.MouseReleased, x, y).
			WithButton(input.Left).
			WithClickCount(1),
	)
}

// Locate implements Driver. The element is scrolled into view first, then its
// content box is read, retrying while the layout has not produced one yet.
func (d *CDPDriver) Locate(ctx context.Context, selector string) (Box, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(ctx,
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Nodes(selector, &nodes, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return Box{}, ctx.Err()
		}
		if len(nodes) == 0 {
			return Box{}, fmt.Errorf("no visible nodes for selector %q: %w", selector, err)
		}
		d.logger.Debug("Node lookup reported an error but found nodes, proceeding", zap.Error(err))
	}
	if len(nodes) == 0 {
		return Box{}, fmt.Errorf("selector %q matched no nodes", selector)
	}

	var box Box
	err = chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var lookupErr error
		box, lookupErr = d.contentBox(ctx, nodes[0].NodeID)
		return lookupErr
	}))
	if err != nil {
		return Box{}, fmt.Errorf("reading geometry of %q: %w", selector, err)
	}
	return box, nil
}

func (d *CDPDriver) contentBox(ctx context.Context, nodeID cdp.NodeID) (Box, error) {
	var err error
	for i := 0; i < boxModelRetries; i++ {
		var model *dom.BoxModel
		model, err = dom.GetBoxModel().WithNodeID(nodeID).Do(ctx)
		if err == nil {
			if model != nil {
				if box, ok := boxFromQuad(model.Content); ok {
					return box, nil
				}
			}
			err = fmt.Errorf("element has no geometric representation")
		}
		d.logger.Debug("Box model unavailable, retrying", zap.Int("attempt", i+1), zap.Error(err))

		backoff := time.Millisecond * time.Duration(50*math.Pow(2, float64(i)))
		if sleepErr := chromedp.Sleep(backoff).Do(ctx); sleepErr != nil {
			return Box{}, sleepErr
		}
	}
	return Box{}, fmt.Errorf("no box model after %d attempts: %w", boxModelRetries, err)
}
