// internal/motion/policy.go
package motion

import (
	"math/rand"
	"time"

	"github.com/xkilldash9x/pointerflow/internal/flow"
)

// SpeedPolicy picks the velocity profile and planned duration for a leg of the given length.
// Implementations must not mutate the returned Flow after handing it out.
type SpeedPolicy interface {
	FlowWithTime(rng *rand.Rand, distance float64) (*flow.Flow, time.Duration)
}

// OvershootPolicy decides whether a move misses its target on purpose before
// correcting. The PlanBuilder asks it three separate questions: how many
// overshoots to schedule, by how much each one misses, and how much faster
// each following leg is.
type OvershootPolicy interface {
	// Overshoots returns the number of overshoot legs for the initial leg.
	Overshoots(f *flow.Flow, d time.Duration, distance float64) int
	// OvershootAmount returns the offset from the true target for the
	// overshoot with the given number of overshoots remaining (counting itself).
	OvershootAmount(rng *rand.Rand, dx, dy float64, d time.Duration, remaining int) Point
	// NextDuration compresses the duration for the next leg.
	NextDuration(d time.Duration, remaining int) time.Duration
}

// NoisePolicy returns a random per-step offset. The stepper accumulates the
// result over a leg, so noise behaves like a random walk around the ideal path.
type NoisePolicy interface {
	Noise(rng *rand.Rand, xStep, yStep float64) Vector2D
}

// DeviationPolicy returns a deterministic arc offset for the given leg
// length and spatial completion in [0, 1]. It is not accumulated.
type DeviationPolicy interface {
	Deviation(distance, completion float64) Vector2D
}

// SpeedFunc adapts a function to SpeedPolicy.
type SpeedFunc func(rng *rand.Rand, distance float64) (*flow.Flow, time.Duration)

// FlowWithTime calls f.
func (f SpeedFunc) FlowWithTime(rng *rand.Rand, distance float64) (*flow.Flow, time.Duration) {
	return f(rng, distance)
}

// NoiseFunc adapts a function to NoisePolicy.
type NoiseFunc func(rng *rand.Rand, xStep, yStep float64) Vector2D

// Noise calls f.
func (f NoiseFunc) Noise(rng *rand.Rand, xStep, yStep float64) Vector2D {
	return f(rng, xStep, yStep)
}

// DeviationFunc adapts a function to DeviationPolicy.
type DeviationFunc func(distance, completion float64) Vector2D

// Deviation calls f.
func (f DeviationFunc) Deviation(distance, completion float64) Vector2D {
	return f(distance, completion)
}

// NoNoise never offsets the path.
var NoNoise NoisePolicy = NoiseFunc(func(*rand.Rand, float64, float64) Vector2D { return Vector2D{} })

// NoDeviation keeps every leg on its straight line.
var NoDeviation DeviationPolicy = DeviationFunc(func(float64, float64) Vector2D { return Vector2D{} })

// ConstantSpeed is a SpeedPolicy that moves at an even pace taking
// msPer100px milliseconds for every hundred pixels.
func ConstantSpeed(msPer100px float64) SpeedPolicy {
	f := flow.ConstantSpeed()
	perPixel := msPer100px / 100
	return SpeedFunc(func(_ *rand.Rand, distance float64) (*flow.Flow, time.Duration) {
		return f, millis(perPixel * distance)
	})
}

// millis truncates a fractional millisecond count to a whole-millisecond duration.
func millis(ms float64) time.Duration {
	return time.Duration(int64(ms)) * time.Millisecond
}

// msOf returns d as fractional milliseconds.
func msOf(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
