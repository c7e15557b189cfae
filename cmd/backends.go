// File: cmd/backends.go
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pointerflow/internal/backend"
	"github.com/xkilldash9x/pointerflow/internal/config"
	"github.com/xkilldash9x/pointerflow/internal/motion"
)

// openBackend is replaced in tests.
var openBackend = openConfiguredBackend

// openConfiguredBackend builds the backend named by cfg.Type, wrapped in an
// offset region when one is configured. The returned cleanup must always be
// called.
func openConfiguredBackend(ctx context.Context, cfg config.BackendConfig, logger *zap.Logger) (motion.AsyncBackend, func(), error) {
	var (
		b       motion.AsyncBackend
		cleanup = func() {}
	)

	switch cfg.Type {
	case config.BackendVirtual:
		b = backend.Async(backend.NewVirtual(motion.Size{Width: cfg.Width, Height: cfg.Height}))
	case config.BackendTerminal:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return nil, nil, fmt.Errorf("failed to initialize terminal: %w", err)
		}
		b = backend.Async(backend.NewTerminal(screen))
		cleanup = screen.Fini
	case config.BackendCDP:
		tabCtx, cancel, err := openBrowser(ctx, cfg.CDP, logger)
		if err != nil {
			return nil, nil, err
		}
		b = backend.NewCDP(tabCtx, nil, logger)
		cleanup = cancel
	default:
		return nil, nil, fmt.Errorf("unknown backend type %q", cfg.Type)
	}

	if cfg.Region.Enabled() {
		region := backend.Region{X: cfg.Region.X, Y: cfg.Region.Y, Width: cfg.Region.Width, Height: cfg.Region.Height}
		offset, err := backend.NewOffsetAsync(b, region)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		logger.Debug("Restricting moves to region.",
			zap.Int("x", region.X), zap.Int("y", region.Y),
			zap.Int("width", region.Width), zap.Int("height", region.Height))
		b = offset
	}
	return b, cleanup, nil
}

// openBrowser attaches to cfg.RemoteURL or launches a local browser, then
// opens a tab on cfg.StartURL.
func openBrowser(ctx context.Context, cfg config.CDPConfig, logger *zap.Logger) (context.Context, context.CancelFunc, error) {
	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if cfg.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, cfg.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.NoSandbox,
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		if !cfg.Headless {
			opts = append(opts, chromedp.Flag("headless", false))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar().Debugf))
	cancel := func() {
		tabCancel()
		allocCancel()
	}

	// The first Run allocates the browser and must use the tab context itself.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}

	navCtx, navCancel := context.WithTimeout(tabCtx, cfg.Timeout)
	defer navCancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(cfg.StartURL)); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to open %s: %w", cfg.StartURL, err)
	}
	logger.Info("Browser ready.", zap.String("url", cfg.StartURL), zap.Bool("remote", cfg.RemoteURL != ""))
	return tabCtx, cancel, nil
}

// resolveSeed returns seed, or a clock-derived seed when it is zero.
func resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// backendClock adapts an AsyncBackend's clock for trace recording.
func backendClock(ctx context.Context, b motion.AsyncBackend) func() time.Time {
	return func() time.Time {
		t, err := b.Now(ctx)
		if err != nil {
			return time.Now()
		}
		return t
	}
}
