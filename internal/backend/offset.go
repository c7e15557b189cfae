// internal/backend/offset.go
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xkilldash9x/pointerflow/internal/motion"
)

// ErrEmptyRegion is returned when a region has no area.
var ErrEmptyRegion = errors.New("region must have a positive width and height")

// Region is a rectangle in the coordinate space of an underlying backend.
type Region struct {
	X, Y          int
	Width, Height int
}

func (r Region) validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrEmptyRegion, r.Width, r.Height)
	}
	return nil
}

// Offset exposes a sub-rectangle of another backend (a window, a second
// monitor, a negative-coordinate display) as a screen whose origin is (0, 0).
// Coordinates are translated in both directions; nothing is clamped here, the
// mover already keeps targets inside ScreenSize.
type Offset struct {
	inner  motion.Backend
	region Region
}

var _ motion.Backend = (*Offset)(nil)

// NewOffset wraps inner so that (0, 0) maps to (region.X, region.Y) and the
// reported screen is region.Width x region.Height.
func NewOffset(inner motion.Backend, region Region) (*Offset, error) {
	if err := region.validate(); err != nil {
		return nil, err
	}
	return &Offset{inner: inner, region: region}, nil
}

// NewOffsetFromRect is NewOffset for the rectangle spanning (x1, y1)
// inclusive to (x2, y2) exclusive.
func NewOffsetFromRect(inner motion.Backend, x1, y1, x2, y2 int) (*Offset, error) {
	return NewOffset(inner, Region{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1})
}

// Region returns the translated rectangle.
func (o *Offset) Region() Region { return o.region }

func (o *Offset) Now() time.Time        { return o.inner.Now() }
func (o *Offset) Sleep(d time.Duration) { o.inner.Sleep(d) }

// ScreenSize reports the region's size, not the underlying screen's.
func (o *Offset) ScreenSize() motion.Size {
	return motion.Size{Width: o.region.Width, Height: o.region.Height}
}

func (o *Offset) SetPointerPosition(x, y int) {
	o.inner.SetPointerPosition(x+o.region.X, y+o.region.Y)
}

func (o *Offset) PointerPosition() motion.Point {
	p := o.inner.PointerPosition()
	return motion.Point{X: p.X - o.region.X, Y: p.Y - o.region.Y}
}

// OffsetAsync is Offset for an AsyncBackend.
type OffsetAsync struct {
	inner  motion.AsyncBackend
	region Region
}

var _ motion.AsyncBackend = (*OffsetAsync)(nil)

// NewOffsetAsync is NewOffset for an AsyncBackend.
func NewOffsetAsync(inner motion.AsyncBackend, region Region) (*OffsetAsync, error) {
	if err := region.validate(); err != nil {
		return nil, err
	}
	return &OffsetAsync{inner: inner, region: region}, nil
}

func (o *OffsetAsync) Now(ctx context.Context) (time.Time, error) { return o.inner.Now(ctx) }

func (o *OffsetAsync) Sleep(ctx context.Context, d time.Duration) error {
	return o.inner.Sleep(ctx, d)
}

func (o *OffsetAsync) ScreenSize(context.Context) (motion.Size, error) {
	return motion.Size{Width: o.region.Width, Height: o.region.Height}, nil
}

func (o *OffsetAsync) SetPointerPosition(ctx context.Context, x, y int) error {
	return o.inner.SetPointerPosition(ctx, x+o.region.X, y+o.region.Y)
}

func (o *OffsetAsync) PointerPosition(ctx context.Context) (motion.Point, error) {
	p, err := o.inner.PointerPosition(ctx)
	if err != nil {
		return motion.Point{}, err
	}
	return motion.Point{X: p.X - o.region.X, Y: p.Y - o.region.Y}, nil
}
