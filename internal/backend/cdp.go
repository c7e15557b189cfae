// internal/backend/cdp.go
package backend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pointerflow/internal/motion"
)

// Executor is the narrow slice of the DevTools protocol the CDP backend
// needs. It exists so the backend can be tested without a browser.
type Executor interface {
	// Sleep pauses execution for a given duration (context-aware).
	Sleep(ctx context.Context, d time.Duration) error
	// DispatchMouseEvent sends a raw low-level mouse event.
	DispatchMouseEvent(ctx context.Context, p *input.DispatchMouseEventParams) error
	// GetLayoutMetrics retrieves the browser's visual viewport.
	GetLayoutMetrics(ctx context.Context) (*page.VisualViewport, error)
}

// CDPExecutor runs commands against the chromedp target carried by ctx.
type CDPExecutor struct{}

// NewCDPExecutor creates the production executor.
func NewCDPExecutor() *CDPExecutor {
	return &CDPExecutor{}
}

func (e *CDPExecutor) Sleep(ctx context.Context, d time.Duration) error {
	return chromedp.Run(ctx, chromedp.Sleep(d))
}

func (e *CDPExecutor) DispatchMouseEvent(ctx context.Context, p *input.DispatchMouseEventParams) error {
	return chromedp.Run(ctx, p)
}

func (e *CDPExecutor) GetLayoutMetrics(ctx context.Context) (*page.VisualViewport, error) {
	var viewport *page.VisualViewport
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		// Only the CSS visual viewport of the 7-value result is needed.
		_, _, _, _, cssVisualViewport, _, err := page.GetLayoutMetrics().Do(ctx)
		viewport = cssVisualViewport
		return err
	}))
	return viewport, err
}

// ErrNoViewport is returned when the browser reports no usable viewport.
var ErrNoViewport = errors.New("browser reported no visual viewport")

// dispatchTimeout bounds a single DevTools round trip.
const dispatchTimeout = 10 * time.Second

// CDP drives the mouse of a Chrome tab through Input.dispatchMouseEvent. The
// DevTools protocol cannot read the mouse position back, so PointerPosition
// reports the last position this backend dispatched.
type CDP struct {
	// tabCtx carries the chromedp target; every call derives from it.
	tabCtx context.Context
	exec   Executor
	logger *zap.Logger

	mu  sync.Mutex
	pos motion.Point
}

var _ motion.AsyncBackend = (*CDP)(nil)

// NewCDP creates a backend for the tab behind tabCtx, a context returned by
// chromedp.NewContext. A nil exec uses the real protocol.
func NewCDP(tabCtx context.Context, exec Executor, logger *zap.Logger) *CDP {
	if exec == nil {
		exec = NewCDPExecutor()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CDP{tabCtx: tabCtx, exec: exec, logger: logger.Named("cdp")}
}

// do runs fn on the tab context, bounded by dispatchTimeout and cancelled
// together with the caller's ctx.
func (c *CDP) do(ctx context.Context, op string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(c.tabCtx, dispatchTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := fn(opCtx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			c.logger.Debug("DevTools call timed out.", zap.String("op", op), zap.Duration("timeout", dispatchTimeout))
			return fmt.Errorf("cdp: %s timed out after %v: %w", op, dispatchTimeout, opCtx.Err())
		}
		return fmt.Errorf("cdp: %s: %w", op, err)
	}
	return nil
}

func (c *CDP) Now(ctx context.Context) (time.Time, error) {
	return time.Now(), ctx.Err()
}

func (c *CDP) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	return c.do(ctx, "sleep", func(opCtx context.Context) error {
		return c.exec.Sleep(opCtx, d)
	})
}

// ScreenSize reports the CSS size of the visual viewport.
func (c *CDP) ScreenSize(ctx context.Context) (motion.Size, error) {
	var size motion.Size
	err := c.do(ctx, "get layout metrics", func(opCtx context.Context) error {
		vp, err := c.exec.GetLayoutMetrics(opCtx)
		if err != nil {
			return err
		}
		if vp == nil || vp.ClientWidth < 1 || vp.ClientHeight < 1 {
			return ErrNoViewport
		}
		size = motion.Size{Width: int(math.Floor(vp.ClientWidth)), Height: int(math.Floor(vp.ClientHeight))}
		return nil
	})
	return size, err
}

func (c *CDP) SetPointerPosition(ctx context.Context, x, y int) error {
	p := input.DispatchMouseEvent(input.MouseMoved, float64(x), float64(y))
	err := c.do(ctx, "dispatch mouse event", func(opCtx context.Context) error {
		return c.exec.DispatchMouseEvent(opCtx, p)
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.pos = motion.Point{X: x, Y: y}
	c.mu.Unlock()
	return nil
}

func (c *CDP) PointerPosition(ctx context.Context) (motion.Point, error) {
	if err := ctx.Err(); err != nil {
		return motion.Point{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos, nil
}
