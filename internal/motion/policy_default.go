// internal/motion/policy_default.go
package motion

import (
	"math"
	"math/rand"
	"time"

	"github.com/xkilldash9x/pointerflow/internal/flow"
)

// DefaultSpeed draws a duration uniformly from [BaseTime, 2*BaseTime) and one
// of Flows at random. When IncludeRandomFlow is set a freshly generated random
// Flow competes with the fixed ones. Zero buckets represent pauses, so the
// duration is extended by one bucket's worth of time for each of them.
type DefaultSpeed struct {
	BaseTime          time.Duration
	Flows             []*flow.Flow
	IncludeRandomFlow bool
}

// NewDefaultSpeed returns a DefaultSpeed over all built-in templates with a
// 500ms base time.
func NewDefaultSpeed() DefaultSpeed {
	return DefaultSpeed{
		BaseTime: 500 * time.Millisecond,
		Flows: mustTemplates(
			flow.NameConstantSpeed, flow.NameVariating, flow.NameInterrupted, flow.NameInterrupted2,
			flow.NameSlowStartup, flow.NameSlowStartup2, flow.NameAdjusting, flow.NameJagged, flow.NameStopping,
		),
	}
}

// FlowWithTime implements SpeedPolicy.
func (s DefaultSpeed) FlowWithTime(rng *rand.Rand, _ float64) (*flow.Flow, time.Duration) {
	base := msOf(s.BaseTime)
	ms := base + rng.Float64()*base

	candidates := len(s.Flows)
	if s.IncludeRandomFlow {
		candidates++
	}
	var f *flow.Flow
	switch idx := int(rng.Float64() * float64(candidates)); {
	case candidates == 0:
		f = flow.ConstantSpeed()
	case idx >= len(s.Flows):
		f = flow.RandomFlow(rng)
	default:
		f = s.Flows[idx]
	}

	perBucket := ms / float64(f.Len())
	ms += perBucket * float64(f.ZeroBuckets())
	return f, millis(ms)
}

// DefaultOvershoot schedules a fixed number of overshoots for moves longer
// than MinDistance. Each overshoot misses by a random amount proportional to
// the remaining distance and to how many overshoots are still to come, and
// every following leg is SpeedupDivider times faster down to MinLegDuration.
type DefaultOvershoot struct {
	Count                 int
	MinDistance           float64
	MinLegDuration        time.Duration
	RandomModifierDivider float64
	SpeedupDivider        float64
}

// NewDefaultOvershoot returns the stock overshoot settings.
func NewDefaultOvershoot() DefaultOvershoot {
	return DefaultOvershoot{
		Count:                 3,
		MinDistance:           10,
		MinLegDuration:        40 * time.Millisecond,
		RandomModifierDivider: 20,
		SpeedupDivider:        1.8,
	}
}

// Overshoots implements OvershootPolicy.
func (o DefaultOvershoot) Overshoots(_ *flow.Flow, _ time.Duration, distance float64) int {
	if distance < o.MinDistance {
		return 0
	}
	return o.Count
}

// OvershootAmount implements OvershootPolicy. The random miss is truncated to
// whole pixels before being multiplied by remaining, so the offset of the
// k-th overshoot is always a multiple of k.
func (o DefaultOvershoot) OvershootAmount(rng *rand.Rand, dx, dy float64, _ time.Duration, remaining int) Point {
	modifier := math.Hypot(dx, dy) / o.RandomModifierDivider
	x := int(rng.Float64()*modifier-modifier/2) * remaining
	y := int(rng.Float64()*modifier-modifier/2) * remaining
	return Point{X: x, Y: y}
}

// NextDuration implements OvershootPolicy.
func (o DefaultOvershoot) NextDuration(d time.Duration, _ int) time.Duration {
	next := millis(msOf(d) / o.SpeedupDivider)
	if next < o.MinLegDuration {
		return o.MinLegDuration
	}
	return next
}

// NoOvershoot always goes straight for the target.
type NoOvershoot struct{}

// Overshoots implements OvershootPolicy.
func (NoOvershoot) Overshoots(*flow.Flow, time.Duration, float64) int { return 0 }

// OvershootAmount implements OvershootPolicy.
func (NoOvershoot) OvershootAmount(*rand.Rand, float64, float64, time.Duration, int) Point {
	return Point{}
}

// NextDuration implements OvershootPolicy.
func (NoOvershoot) NextDuration(d time.Duration, _ int) time.Duration { return d }

// DefaultNoise adds jitter to slow steps. The chance of a jitter event and its
// amplitude both fall as the step grows and vanish for steps of 8px or more.
type DefaultNoise struct {
	NoisinessDivider float64
}

// NewDefaultNoise returns DefaultNoise with divider 2.
func NewDefaultNoise() DefaultNoise {
	return DefaultNoise{NoisinessDivider: 2}
}

// Noise implements NoisePolicy.
func (n DefaultNoise) Noise(rng *rand.Rand, xStep, yStep float64) Vector2D {
	if math.Abs(xStep) < smallDelta && math.Abs(yStep) < smallDelta {
		return Vector2D{}
	}
	slack := math.Max(0, 8-math.Hypot(xStep, yStep))
	if rng.Float64() >= slack/50 {
		return Vector2D{}
	}
	return Vector2D{
		X: (rng.Float64() - 0.5) * slack / n.NoisinessDivider,
		Y: (rng.Float64() - 0.5) * slack / n.NoisinessDivider,
	}
}

// SinusoidalDeviation bends a leg into an arc that is flat at both ends and
// peaks at distance/SlopeDivider halfway through.
type SinusoidalDeviation struct {
	SlopeDivider float64
}

// NewSinusoidalDeviation returns SinusoidalDeviation with slope divider 10.
func NewSinusoidalDeviation() SinusoidalDeviation {
	return SinusoidalDeviation{SlopeDivider: 10}
}

// Deviation implements DeviationPolicy.
func (s SinusoidalDeviation) Deviation(distance, completion float64) Vector2D {
	f := sinusoidalEnvelope(completion)
	amplitude := distance / s.SlopeDivider
	return Vector2D{X: f * amplitude, Y: f * amplitude}
}

// sinusoidalEnvelope is 0 at completion 0 and 1, and 1 at 0.5.
func sinusoidalEnvelope(completion float64) float64 {
	return (1 - math.Cos(completion*2*math.Pi)) / 2
}
