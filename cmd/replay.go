package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"
	"github.com/xkilldash9x/humanpath/internal/config"
	"github.com/xkilldash9x/humanpath/internal/humanoid"
	"github.com/xkilldash9x/humanpath/internal/observability"
	"github.com/xkilldash9x/humanpath/internal/replay"
	"go.uber.org/zap"
)

type replayOptions struct {
	navigate  string
	selectors []string
}

func newReplayCmd() *cobra.Command {
	opts := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Click page elements in a running browser with synthesized pointer motion",
		Example: `  humanpath replay --remote-url ws://127.0.0.1:9222 --navigate https://example.com --selector "a"
  humanpath replay --selector "#accept" --selector "button[type=submit]"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runReplay(cmd.Context(), cfg, observability.GetLogger(), opts)
		},
	}

	cmd.Flags().String("remote-url", "", "DevTools endpoint of a running browser (overrides replay.remote_url)")
	cmd.Flags().Float64("fps", 0, "pointer moves per second, 0 for unpaced (overrides replay.frames_per_second)")
	cmd.Flags().StringVar(&opts.navigate, "navigate", "", "URL to load before clicking")
	cmd.Flags().StringArrayVarP(&opts.selectors, "selector", "s", nil, "CSS selector to click, repeatable and clicked in order")
	_ = cmd.MarkFlagRequired("selector")
	return cmd
}

func runReplay(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts *replayOptions) error {
	if cfg.Replay.RemoteURL == "" {
		return errors.New("no browser to attach to: set --remote-url or replay.remote_url")
	}

	synth, err := humanoid.New(cfg.Trajectory.ToHumanoid(), logger)
	if err != nil {
		return err
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, cfg.Replay.RemoteURL)
	defer allocCancel()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	// The first Run attaches to the browser.
	actions := []chromedp.Action{}
	if opts.navigate != "" {
		actions = append(actions, chromedp.Navigate(opts.navigate))
	}
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return fmt.Errorf("attaching to browser at %s: %w", cfg.Replay.RemoteURL, err)
	}

	driver := replay.NewCDPDriver(logger)
	player := replay.NewPlayer(driver, cfg.Replay.FramesPerSecond, logger)
	clicker, err := replay.NewClicker(driver, player, synth, replay.ClickerConfig{
		MaxAttempts:   cfg.Replay.MaxAttempts,
		SettleDelay:   cfg.Replay.SettleDelay,
		LocateTimeout: cfg.Replay.LocateTimeout,
		EdgeSpan:      cfg.Replay.EdgeSpan,
	}, logger, nil)
	if err != nil {
		return err
	}

	for _, selector := range opts.selectors {
		if err := clicker.Click(tabCtx, selector); err != nil {
			return err
		}
		logger.Info("Clicked element", zap.String("selector", selector))
	}
	return nil
}
