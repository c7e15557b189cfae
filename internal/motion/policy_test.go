// internal/motion/policy_test.go
package motion

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pointerflow/internal/flow"
)

func TestDefaultOvershoot_Overshoots(t *testing.T) {
	o := NewDefaultOvershoot()

	tests := []struct {
		name     string
		distance float64
		want     int
	}{
		{"Below minimum distance", 9.9, 0},
		{"At minimum distance", 10, 3},
		{"Long move", 1500, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, o.Overshoots(flow.ConstantSpeed(), time.Second, tt.distance))
		})
	}
}

func TestDefaultOvershoot_OvershootAmount(t *testing.T) {
	o := NewDefaultOvershoot()

	// hypot(200, 0)/20 = 10, so the miss per axis is int(r*10 - 5).
	amount := o.OvershootAmount(newMockRand(0.95, 0.15), 200, 0, time.Second, 3)
	assert.Equal(t, Point{X: 12, Y: -9}, amount)

	amount = o.OvershootAmount(newMockRand(0.95, 0.15), 200, 0, time.Second, 1)
	assert.Equal(t, Point{X: 4, Y: -3}, amount)
}

func TestDefaultOvershoot_AmountIsMultipleOfRemaining(t *testing.T) {
	o := NewDefaultOvershoot()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		remaining := 1 + i%5
		dx, dy := rng.Float64()*2000-1000, rng.Float64()*2000-1000
		amount := o.OvershootAmount(rng, dx, dy, time.Second, remaining)
		require.Zero(t, amount.X%remaining, "x offset %d for remaining %d", amount.X, remaining)
		require.Zero(t, amount.Y%remaining, "y offset %d for remaining %d", amount.Y, remaining)

		limit := (math.Hypot(dx, dy)/o.RandomModifierDivider/2 + 1) * float64(remaining)
		require.LessOrEqual(t, math.Abs(float64(amount.X)), limit)
		require.LessOrEqual(t, math.Abs(float64(amount.Y)), limit)
	}
}

func TestDefaultOvershoot_NextDuration(t *testing.T) {
	o := NewDefaultOvershoot()

	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"Speeds up and truncates to whole ms", 100 * time.Millisecond, 55 * time.Millisecond},
		{"Floors at the minimum leg duration", 50 * time.Millisecond, 40 * time.Millisecond},
		{"Long leg", time.Second, 555 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, o.NextDuration(tt.in, 1))
		})
	}
}

func TestNoOvershoot(t *testing.T) {
	var o NoOvershoot
	assert.Zero(t, o.Overshoots(flow.ConstantSpeed(), time.Second, 1e6))
	assert.Equal(t, Point{}, o.OvershootAmount(cyclingRand(), 100, 100, time.Second, 1))
	assert.Equal(t, time.Second, o.NextDuration(time.Second, 0))
}

func TestDefaultSpeed_FlowWithTime(t *testing.T) {
	t.Run("Zero buckets extend the duration", func(t *testing.T) {
		f := flow.MustNew([]float64{1, 0, 1, 1})
		s := DefaultSpeed{BaseTime: 500 * time.Millisecond, Flows: []*flow.Flow{f}}

		got, d := s.FlowWithTime(newMockRand(0.5, 0), 100)

		assert.Same(t, f, got)
		// 750ms drawn, plus 750/4 for the single zero bucket, truncated.
		assert.Equal(t, 937*time.Millisecond, d)
	})

	t.Run("Picks flows by index", func(t *testing.T) {
		a, b := flow.MustNew([]float64{1}), flow.MustNew([]float64{1, 2})
		s := DefaultSpeed{BaseTime: 100 * time.Millisecond, Flows: []*flow.Flow{a, b}}

		got, d := s.FlowWithTime(newMockRand(0, 0.6), 100)
		assert.Same(t, b, got)
		assert.Equal(t, 100*time.Millisecond, d)
	})

	t.Run("Random flow competes when enabled", func(t *testing.T) {
		a := flow.MustNew([]float64{1})
		s := DefaultSpeed{BaseTime: 100 * time.Millisecond, Flows: []*flow.Flow{a}, IncludeRandomFlow: true}

		got, d := s.FlowWithTime(newMockRand(0, 0.9, 0.3, 0.7), 100)
		assert.NotSame(t, a, got)
		assert.Equal(t, 100, got.Len())
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
	})

	t.Run("Falls back to constant speed without flows", func(t *testing.T) {
		s := DefaultSpeed{BaseTime: 100 * time.Millisecond}

		got, d := s.FlowWithTime(newMockRand(0), 100)
		assert.Equal(t, flow.ConstantSpeed().Buckets(), got.Buckets())
		assert.Equal(t, 100*time.Millisecond, d)
	})

	t.Run("Duration stays within one to two base times", func(t *testing.T) {
		s := NewDefaultSpeed()
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 100; i++ {
			f, d := s.FlowWithTime(rng, 100)
			require.NotNil(t, f)
			require.GreaterOrEqual(t, d, s.BaseTime)
		}
	})
}

func TestConstantSpeed(t *testing.T) {
	s := ConstantSpeed(100)

	f, d := s.FlowWithTime(nil, 250)
	assert.Equal(t, 250*time.Millisecond, d)
	assert.Zero(t, f.ZeroBuckets())

	_, d = s.FlowWithTime(nil, 0)
	assert.Zero(t, d)
}

func TestDefaultNoise(t *testing.T) {
	n := NewDefaultNoise()

	t.Run("No noise for a zero step", func(t *testing.T) {
		assert.Equal(t, Vector2D{}, n.Noise(newMockRand(0), 0, 0))
	})

	t.Run("No noise for fast steps", func(t *testing.T) {
		assert.Equal(t, Vector2D{}, n.Noise(newMockRand(0), 8, 0))
		assert.Equal(t, Vector2D{}, n.Noise(newMockRand(0), 30, 40))
	})

	t.Run("No noise when the draw misses", func(t *testing.T) {
		// slack 7 gives a 14% chance.
		assert.Equal(t, Vector2D{}, n.Noise(newMockRand(0.2), 1, 0))
	})

	t.Run("Jitter scales with slack", func(t *testing.T) {
		got := n.Noise(newMockRand(0.1, 0.9, 0.2), 1, 0)
		assert.InDelta(t, 1.4, got.X, 1e-9)
		assert.InDelta(t, -1.05, got.Y, 1e-9)
	})
}

func TestSinusoidalDeviation(t *testing.T) {
	d := NewSinusoidalDeviation()

	tests := []struct {
		name       string
		completion float64
		want       float64
	}{
		{"Flat at the start", 0, 0},
		{"Peaks halfway", 0.5, 20},
		{"Quarter way", 0.25, 10},
		{"Flat at the end", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Deviation(200, tt.completion)
			assert.InDelta(t, tt.want, got.X, 1e-9)
			assert.InDelta(t, tt.want, got.Y, 1e-9)
		})
	}
}

func TestPerlinDeviation(t *testing.T) {
	p := NewPerlinDeviation(7, 10, 2)

	start := p.Deviation(500, 0)
	end := p.Deviation(500, 1)
	assert.True(t, start.IsZero(), "start %v", start)
	assert.True(t, end.IsZero(), "end %v", end)

	again := NewPerlinDeviation(7, 10, 2)
	varies := false
	for c := 0.0; c <= 1; c += 0.05 {
		got := p.Deviation(500, c)
		assert.Equal(t, got, again.Deviation(500, c))
		assert.LessOrEqual(t, math.Abs(got.X), 2*500/10.0)
		assert.LessOrEqual(t, math.Abs(got.Y), 2*500/10.0)
		if !got.IsZero() {
			varies = true
		}
	}
	assert.True(t, varies)
}

func TestFuncAdapters(t *testing.T) {
	f := flow.ConstantSpeed()
	var speed SpeedPolicy = SpeedFunc(func(*rand.Rand, float64) (*flow.Flow, time.Duration) { return f, time.Second })
	got, d := speed.FlowWithTime(nil, 1)
	assert.Same(t, f, got)
	assert.Equal(t, time.Second, d)

	assert.Equal(t, Vector2D{}, NoNoise.Noise(nil, 1, 1))
	assert.Equal(t, Vector2D{}, NoDeviation.Deviation(100, 0.5))
}
