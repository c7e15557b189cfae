// internal/backend/virtual.go
package backend

import (
	"sync"
	"time"

	"github.com/xkilldash9x/pointerflow/internal/motion"
)

// DriftFunc returns where the pointer actually lands when asked to go to
// requested. call counts SetPointerPosition calls starting at 1.
type DriftFunc func(call int, requested motion.Point) motion.Point

// Sample is one pointer position with the virtual time it was set at.
type Sample struct {
	At    time.Time
	Point motion.Point
}

// Virtual is an in-memory pointer with a virtual clock. Sleeping advances the
// clock instantly, so a move that would take seconds on a real screen
// completes immediately while keeping its timeline. Positions are clamped to
// the screen like an OS cursor. Safe for concurrent use.
type Virtual struct {
	mu     sync.Mutex
	screen motion.Size
	pos    motion.Point
	clock  time.Time
	drift  DriftFunc
	calls  int
	slept  time.Duration
	trail  []Sample
}

var _ motion.Backend = (*Virtual)(nil)

// VirtualOption configures a Virtual backend.
type VirtualOption func(*Virtual)

// WithStart places the pointer before the first move.
func WithStart(p motion.Point) VirtualOption {
	return func(v *Virtual) { v.pos = p }
}

// WithClock sets the initial virtual time.
func WithClock(t time.Time) VirtualOption {
	return func(v *Virtual) { v.clock = t }
}

// WithDrift makes the pointer land somewhere other than requested, mimicking
// a user nudging the mouse or a lossy remote backend.
func WithDrift(fn DriftFunc) VirtualOption {
	return func(v *Virtual) { v.drift = fn }
}

// NewVirtual creates a virtual pointer on a screen of the given size.
func NewVirtual(screen motion.Size, opts ...VirtualOption) *Virtual {
	v := &Virtual{
		screen: screen,
		clock:  time.Unix(0, 0).UTC(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.pos = screen.Clamp(v.pos)
	return v
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.clock
}

func (v *Virtual) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clock = v.clock.Add(d)
	v.slept += d
}

func (v *Virtual) ScreenSize() motion.Size {
	return v.screen
}

func (v *Virtual) SetPointerPosition(x, y int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	p := motion.Point{X: x, Y: y}
	if v.drift != nil {
		p = v.drift(v.calls, p)
	}
	v.pos = v.screen.Clamp(p)
	v.trail = append(v.trail, Sample{At: v.clock, Point: v.pos})
}

func (v *Virtual) PointerPosition() motion.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pos
}

// Trail returns every position the pointer was set to, in order.
func (v *Virtual) Trail() []Sample {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Sample, len(v.trail))
	copy(out, v.trail)
	return out
}

// Elapsed is the total virtual time spent sleeping.
func (v *Virtual) Elapsed() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.slept
}
