// internal/motion/backend.go
package motion

import (
	"context"
	"time"
)

// Backend is a pointer device driven with plain blocking calls.
// Implementations are not required to be safe for concurrent use; a move owns
// its backend for the duration of the call.
type Backend interface {
	// Now returns the backend's notion of the current time.
	Now() time.Time
	// Sleep blocks for d.
	Sleep(d time.Duration)
	// ScreenSize reports the addressable area.
	ScreenSize() Size
	// SetPointerPosition moves the pointer.
	SetPointerPosition(x, y int)
	// PointerPosition reads the real pointer position.
	PointerPosition() Point
}

// AsyncBackend is the context-aware twin of Backend. Every call is a
// potential suspension point and may fail, e.g. when the backend is remote.
type AsyncBackend interface {
	Now(ctx context.Context) (time.Time, error)
	// Sleep pauses execution, respecting context cancellation.
	Sleep(ctx context.Context, d time.Duration) error
	ScreenSize(ctx context.Context) (Size, error)
	SetPointerPosition(ctx context.Context, x, y int) error
	PointerPosition(ctx context.Context) (Point, error)
}

// Observer is called synchronously after every coordinate is committed to the backend.
type Observer func(x, y int)

// port is the single view of a backend the stepping engine is written against.
// The blocking and async drivers only differ in which port they hand it.
type port interface {
	now(ctx context.Context) (time.Time, error)
	sleep(ctx context.Context, d time.Duration) error
	screenSize(ctx context.Context) (Size, error)
	setPosition(ctx context.Context, p Point) error
	position(ctx context.Context) (Point, error)
}

type blockingPort struct {
	b Backend
}

func (p blockingPort) now(context.Context) (time.Time, error) { return p.b.Now(), nil }

func (p blockingPort) sleep(_ context.Context, d time.Duration) error {
	p.b.Sleep(d)
	return nil
}

func (p blockingPort) screenSize(context.Context) (Size, error) { return p.b.ScreenSize(), nil }

func (p blockingPort) setPosition(_ context.Context, pt Point) error {
	p.b.SetPointerPosition(pt.X, pt.Y)
	return nil
}

func (p blockingPort) position(context.Context) (Point, error) { return p.b.PointerPosition(), nil }

type asyncPort struct {
	b AsyncBackend
}

func (p asyncPort) now(ctx context.Context) (time.Time, error) {
	t, err := p.b.Now(ctx)
	if err != nil {
		return time.Time{}, backendError("now", err)
	}
	return t, nil
}

func (p asyncPort) sleep(ctx context.Context, d time.Duration) error {
	if err := p.b.Sleep(ctx, d); err != nil {
		return backendError("sleep", err)
	}
	return nil
}

func (p asyncPort) screenSize(ctx context.Context) (Size, error) {
	s, err := p.b.ScreenSize(ctx)
	if err != nil {
		return Size{}, backendError("screen size", err)
	}
	return s, nil
}

func (p asyncPort) setPosition(ctx context.Context, pt Point) error {
	if err := p.b.SetPointerPosition(ctx, pt.X, pt.Y); err != nil {
		return backendError("set pointer position", err)
	}
	return nil
}

func (p asyncPort) position(ctx context.Context) (Point, error) {
	pt, err := p.b.PointerPosition(ctx)
	if err != nil {
		return Point{}, backendError("pointer position", err)
	}
	return pt, nil
}
