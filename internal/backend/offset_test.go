// internal/backend/offset_test.go
package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pointerflow/internal/motion"
)

// rawPointer is a Backend that neither clamps nor waits, standing in for a
// desktop that spans more than one monitor.
type rawPointer struct {
	screen motion.Size
	pos    motion.Point
	moves  []motion.Point
	clock  time.Time
}

func (r *rawPointer) Now() time.Time                { return r.clock }
func (r *rawPointer) Sleep(d time.Duration)         { r.clock = r.clock.Add(d) }
func (r *rawPointer) ScreenSize() motion.Size       { return r.screen }
func (r *rawPointer) PointerPosition() motion.Point { return r.pos }

func (r *rawPointer) SetPointerPosition(x, y int) {
	r.pos = motion.Point{X: x, Y: y}
	r.moves = append(r.moves, r.pos)
}

func robotMover(t *testing.T) *motion.Mover {
	t.Helper()
	m, err := motion.NewMover(motion.RobotNature(motion.DefaultRobotMsPer100px), nil)
	require.NoError(t, err)
	return m
}

func TestNewOffset_RejectsEmptyRegion(t *testing.T) {
	inner := &rawPointer{screen: motion.Size{Width: 800, Height: 500}}

	tests := []struct {
		name   string
		region Region
	}{
		{"Zero width", Region{Width: 0, Height: 10}},
		{"Zero height", Region{Width: 10, Height: 0}},
		{"Negative", Region{Width: -5, Height: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOffset(inner, tt.region)
			assert.ErrorIs(t, err, ErrEmptyRegion)
			_, err = NewOffsetAsync(Async(inner), tt.region)
			assert.ErrorIs(t, err, ErrEmptyRegion)
		})
	}

	_, err := NewOffsetFromRect(inner, 10, 10, 10, 20)
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

func TestOffset_ExtendsScreenBeyondUnderlying(t *testing.T) {
	inner := &rawPointer{screen: motion.Size{Width: 800, Height: 500}}
	o, err := NewOffset(inner, Region{Width: 1800, Height: 1500})
	require.NoError(t, err)
	assert.Equal(t, motion.Size{Width: 1800, Height: 1500}, o.ScreenSize())

	final, err := robotMover(t).Move(context.Background(), o, nil, motion.Point{X: 5000, Y: 5000}, nil)
	require.NoError(t, err)

	assert.Equal(t, motion.Point{X: 1799, Y: 1499}, final)
	assert.Equal(t, motion.Point{X: 1799, Y: 1499}, inner.pos)
}

func TestOffset_NegativeOrigin(t *testing.T) {
	inner := &rawPointer{screen: motion.Size{Width: 800, Height: 500}, pos: motion.Point{X: -1000, Y: -1000}}
	o, err := NewOffsetFromRect(inner, -1000, -1000, 800, 500)
	require.NoError(t, err)
	assert.Equal(t, Region{X: -1000, Y: -1000, Width: 1800, Height: 1500}, o.Region())
	assert.Equal(t, motion.Point{}, o.PointerPosition())

	mover := robotMover(t)

	final, err := mover.Move(context.Background(), o, nil, motion.Point{X: 500, Y: 100}, nil)
	require.NoError(t, err)
	assert.Equal(t, motion.Point{X: 500, Y: 100}, final)
	assert.Equal(t, motion.Point{X: -500, Y: -900}, inner.pos)
	for _, p := range inner.moves {
		assert.GreaterOrEqual(t, p.X, -1000)
		assert.GreaterOrEqual(t, p.Y, -1000)
	}

	// Targets left of the region clamp to its origin.
	final, err = mover.Move(context.Background(), o, nil, motion.Point{X: -1, Y: -1}, nil)
	require.NoError(t, err)
	assert.Equal(t, motion.Point{}, final)
	assert.Equal(t, motion.Point{X: -1000, Y: -1000}, inner.pos)
}

func TestOffset_PassesTimeThrough(t *testing.T) {
	inner := &rawPointer{clock: time.Unix(100, 0)}
	o, err := NewOffset(inner, Region{X: 3, Y: 4, Width: 10, Height: 10})
	require.NoError(t, err)

	o.Sleep(time.Second)
	assert.Equal(t, time.Unix(101, 0), o.Now())

	o.SetPointerPosition(1, 2)
	assert.Equal(t, motion.Point{X: 4, Y: 6}, inner.pos)
	assert.Equal(t, motion.Point{X: 1, Y: 2}, o.PointerPosition())
}

func TestOffsetAsync(t *testing.T) {
	inner := &rawPointer{screen: motion.Size{Width: 800, Height: 500}, pos: motion.Point{X: -1000, Y: -1000}}
	o, err := NewOffsetAsync(Async(inner), Region{X: -1000, Y: -1000, Width: 1800, Height: 1500})
	require.NoError(t, err)
	ctx := context.Background()

	size, err := o.ScreenSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, motion.Size{Width: 1800, Height: 1500}, size)

	final, err := robotMover(t).MoveContext(ctx, o, nil, motion.Point{X: 500, Y: 100}, nil)
	require.NoError(t, err)
	assert.Equal(t, motion.Point{X: 500, Y: 100}, final)
	assert.Equal(t, motion.Point{X: -500, Y: -900}, inner.pos)
}

func TestOffsetAsync_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	o, err := NewOffsetAsync(&failingAsync{err: boom}, Region{Width: 10, Height: 10})
	require.NoError(t, err)

	_, err = o.PointerPosition(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, o.SetPointerPosition(context.Background(), 1, 1), boom)
}
