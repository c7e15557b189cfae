// internal/backend/adapters.go
package backend

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pointerflow/internal/motion"
)

// Async presents a blocking backend as an AsyncBackend. Calls never fail, but
// each one returns the context error if ctx is already done. A sleep that has
// started runs to completion.
func Async(b motion.Backend) motion.AsyncBackend {
	return asyncAdapter{b: b}
}

type asyncAdapter struct {
	b motion.Backend
}

func (a asyncAdapter) Now(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	return a.b.Now(), nil
}

func (a asyncAdapter) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.b.Sleep(d)
	return nil
}

func (a asyncAdapter) ScreenSize(ctx context.Context) (motion.Size, error) {
	if err := ctx.Err(); err != nil {
		return motion.Size{}, err
	}
	return a.b.ScreenSize(), nil
}

func (a asyncAdapter) SetPointerPosition(ctx context.Context, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.b.SetPointerPosition(x, y)
	return nil
}

func (a asyncAdapter) PointerPosition(ctx context.Context) (motion.Point, error) {
	if err := ctx.Err(); err != nil {
		return motion.Point{}, err
	}
	return a.b.PointerPosition(), nil
}

// BlockingAdapter presents an AsyncBackend as a blocking Backend bound to a
// single context. The blocking interface has no error returns, so failures
// are logged, the first one is kept for Err, and the call degrades to a
// no-op (reads return the last known value).
type BlockingAdapter struct {
	ctx    context.Context
	b      motion.AsyncBackend
	logger *zap.Logger

	mu     sync.Mutex
	err    error
	last   motion.Point
	screen motion.Size
}

var _ motion.Backend = (*BlockingAdapter)(nil)

// Blocking wraps b so it can be driven by Mover.Move. A nil logger disables logging.
func Blocking(ctx context.Context, b motion.AsyncBackend, logger *zap.Logger) *BlockingAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlockingAdapter{ctx: ctx, b: b, logger: logger.Named("blocking_adapter")}
}

// Err returns the first error reported by the wrapped backend, if any.
func (a *BlockingAdapter) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *BlockingAdapter) record(op string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err == nil {
		a.err = err
	}
	a.logger.Warn("Backend call failed.", zap.String("op", op), zap.Error(err))
}

func (a *BlockingAdapter) Now() time.Time {
	t, err := a.b.Now(a.ctx)
	if err != nil {
		a.record("now", err)
		return time.Now()
	}
	return t
}

func (a *BlockingAdapter) Sleep(d time.Duration) {
	if err := a.b.Sleep(a.ctx, d); err != nil {
		a.record("sleep", err)
	}
}

func (a *BlockingAdapter) ScreenSize() motion.Size {
	s, err := a.b.ScreenSize(a.ctx)
	if err != nil {
		a.record("screen size", err)
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.screen
	}
	a.mu.Lock()
	a.screen = s
	a.mu.Unlock()
	return s
}

func (a *BlockingAdapter) SetPointerPosition(x, y int) {
	if err := a.b.SetPointerPosition(a.ctx, x, y); err != nil {
		a.record("set pointer position", err)
	}
}

func (a *BlockingAdapter) PointerPosition() motion.Point {
	p, err := a.b.PointerPosition(a.ctx)
	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		if a.err == nil {
			a.err = err
		}
		a.logger.Warn("Backend call failed.", zap.String("op", "pointer position"), zap.Error(err))
		return a.last
	}
	a.last = p
	return p
}
