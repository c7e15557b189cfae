// internal/motion/mocks_test.go
package motion

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/xkilldash9x/pointerflow/internal/flow"
)

// mockSource is a rand.Source that cycles through fixed Float64 results.
// Values must lie in [0, 1).
type mockSource struct {
	values []float64
	idx    int
}

func (s *mockSource) Int63() int64 {
	v := s.values[s.idx%len(s.values)]
	s.idx++
	return int64(v * (1 << 63))
}

func (s *mockSource) Seed(int64) {}

// newMockRand returns a *rand.Rand whose Float64 calls yield values in order, repeating.
func newMockRand(values ...float64) *rand.Rand {
	return rand.New(&mockSource{values: values})
}

// cyclingRand mirrors the 0, 0.1, ... 0.9 sequence the stepper tests run on.
func cyclingRand() *rand.Rand {
	return newMockRand(0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9)
}

// mockPointer implements Backend. Sleeping is a no-op and time only moves by
// tick on every Now call, so moves run instantly while still recording what
// was asked of it.
type mockPointer struct {
	mu     sync.Mutex
	screen Size
	pos    Point
	now    time.Time
	tick   time.Duration

	moves  []Point
	sleeps []time.Duration
	calls  int

	// MockSetPointerPosition replaces the default behaviour when set. It runs
	// with the mutex held and may modify pos directly.
	MockSetPointerPosition func(call int, p Point)
}

func newMockPointer(width, height int) *mockPointer {
	return &mockPointer{screen: Size{Width: width, Height: height}}
}

func (m *mockPointer) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now
	m.now = m.now.Add(m.tick)
	return now
}

func (m *mockPointer) Sleeps() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.sleeps))
	copy(out, m.sleeps)
	return out
}

func (m *mockPointer) Sleep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sleeps = append(m.sleeps, d)
}

func (m *mockPointer) ScreenSize() Size {
	return m.screen
}

func (m *mockPointer) SetPointerPosition(x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p := Point{X: x, Y: y}
	m.moves = append(m.moves, p)
	if m.MockSetPointerPosition != nil {
		m.MockSetPointerPosition(m.calls, p)
		return
	}
	m.pos = p
}

func (m *mockPointer) PointerPosition() Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

func (m *mockPointer) Moves() []Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Point, len(m.moves))
	copy(out, m.moves)
	return out
}

// mockAsyncPointer exposes a mockPointer through AsyncBackend and can fail
// or cancel on a given SetPointerPosition call.
type mockAsyncPointer struct {
	*mockPointer

	returnErr    error
	failOnCall   int
	cancelOnCall int
	cancelFunc   context.CancelFunc
}

func (m *mockAsyncPointer) Now(ctx context.Context) (time.Time, error) {
	return m.mockPointer.Now(), nil
}

func (m *mockAsyncPointer) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mockPointer.Sleep(d)
	return nil
}

func (m *mockAsyncPointer) ScreenSize(ctx context.Context) (Size, error) {
	return m.mockPointer.ScreenSize(), nil
}

func (m *mockAsyncPointer) SetPointerPosition(ctx context.Context, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mockPointer.SetPointerPosition(x, y)

	m.mu.Lock()
	call := m.calls
	m.mu.Unlock()

	if m.returnErr != nil && call >= m.failOnCall {
		return m.returnErr
	}
	if m.cancelOnCall > 0 && call == m.cancelOnCall && m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}

func (m *mockAsyncPointer) PointerPosition(ctx context.Context) (Point, error) {
	return m.mockPointer.PointerPosition(), nil
}

// fixedSpeed always returns the same Flow and duration.
func fixedSpeed(f *flow.Flow, d time.Duration) SpeedPolicy {
	return SpeedFunc(func(*rand.Rand, float64) (*flow.Flow, time.Duration) { return f, d })
}

// scriptedOvershoot schedules one overshoot per offset and hands them out in
// order. Every following leg takes half the time.
type scriptedOvershoot struct {
	offsets []Point
	next    int
}

func (s *scriptedOvershoot) Overshoots(*flow.Flow, time.Duration, float64) int {
	return len(s.offsets)
}

func (s *scriptedOvershoot) OvershootAmount(*rand.Rand, float64, float64, time.Duration, int) Point {
	p := s.offsets[s.next]
	s.next++
	return p
}

func (s *scriptedOvershoot) NextDuration(d time.Duration, _ int) time.Duration {
	return d / 2
}

// testNature is a linear, noise-free nature with a single-bucket flow.
func testNature(overshoots int) Nature {
	n := DefaultNature()
	n.Speed = fixedSpeed(flow.MustNew([]float64{100}), 10*time.Millisecond)
	o := NewDefaultOvershoot()
	o.Count = overshoots
	n.Overshoot = o
	n.Noise = NoNoise
	n.Deviation = NoDeviation
	return n
}
