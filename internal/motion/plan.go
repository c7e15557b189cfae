// internal/motion/plan.go
package motion

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pointerflow/internal/flow"
)

// Leg is one straight sub-movement of a move.
type Leg struct {
	// Dest is where the leg ends.
	Dest Point
	// DX and DY are the signed distances from the leg's start to Dest.
	DX, DY int
	// Distance is hypot(DX, DY).
	Distance float64
	// Duration is the planned time for the leg.
	Duration time.Duration
	// Flow is the velocity profile along the leg.
	Flow *flow.Flow
}

// Start returns where the leg begins.
func (l Leg) Start() Point {
	return Point{X: l.Dest.X - l.DX, Y: l.Dest.Y - l.DY}
}

func (l Leg) String() string {
	return fmt.Sprintf("Leg{dest=%s d=(%d, %d) distance=%.2f duration=%s}", l.Dest, l.DX, l.DY, l.Distance, l.Duration)
}

func newLeg(from, dest Point, d time.Duration, f *flow.Flow) Leg {
	delta := dest.Sub(from)
	return Leg{
		Dest:     dest,
		DX:       delta.X,
		DY:       delta.Y,
		Distance: math.Hypot(float64(delta.X), float64(delta.Y)),
		Duration: d,
		Flow:     f,
	}
}

// Plan is the first-in-first-out sequence of legs for one move. Any overshoot
// legs come first; the last leg always ends on the true target.
type Plan struct {
	legs []Leg
}

// Len returns the number of legs still queued.
func (p *Plan) Len() int { return len(p.legs) }

// Legs returns a copy of the queued legs.
func (p *Plan) Legs() []Leg {
	out := make([]Leg, len(p.legs))
	copy(out, p.legs)
	return out
}

// Next dequeues the next leg.
func (p *Plan) Next() (Leg, bool) {
	if len(p.legs) == 0 {
		return Leg{}, false
	}
	leg := p.legs[0]
	p.legs = p.legs[1:]
	return leg, true
}

// PlanBuilder decomposes a move into legs.
type PlanBuilder struct {
	Speed     SpeedPolicy
	Overshoot OvershootPolicy
	// Screen bounds overshoot destinations.
	Screen Size
	Logger *zap.Logger
}

// Build plans a move from the current position to dest. Overshoot targets are
// clamped to the screen. Overshoot legs that happen to land on dest at the end
// of the sequence are dropped, since the terminal leg already goes there; the
// ones in the middle are kept because the pointer visibly passes through them.
func (b PlanBuilder) Build(rng *rand.Rand, from, dest Point) *Plan {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	delta := dest.Sub(from)
	initialDistance := math.Hypot(float64(delta.X), float64(delta.Y))
	f, d := b.Speed.FlowWithTime(rng, initialDistance)
	overshoots := b.Overshoot.Overshoots(f, d, initialDistance)

	if overshoots <= 0 {
		logger.Debug("Planned direct move.",
			zap.Stringer("from", from), zap.Stringer("to", dest))
		return &Plan{legs: []Leg{newLeg(from, dest, d, f)}}
	}

	legs := make([]Leg, 0, overshoots+1)
	last := from
	for remaining := overshoots; remaining > 0; remaining-- {
		toTarget := dest.Sub(last)
		amount := b.Overshoot.OvershootAmount(rng, float64(toTarget.X), float64(toTarget.Y), d, remaining)
		legDest := b.Screen.Clamp(dest.Add(amount))

		legDelta := legDest.Sub(last)
		legFlow, _ := b.Speed.FlowWithTime(rng, math.Hypot(float64(legDelta.X), float64(legDelta.Y)))
		legs = append(legs, newLeg(last, legDest, d, legFlow))

		last = legDest
		d = b.Overshoot.NextDuration(d, remaining-1)
	}

	for len(legs) > 0 && legs[len(legs)-1].Dest == dest {
		pruned := legs[len(legs)-1]
		last = pruned.Start()
		legs = legs[:len(legs)-1]
		logger.Debug("Pruned overshoot that landed on target.", zap.Stringer("leg", pruned))
	}

	toTarget := dest.Sub(last)
	finalFlow, finalDuration := b.Speed.FlowWithTime(rng, math.Hypot(float64(toTarget.X), float64(toTarget.Y)))
	legs = append(legs, newLeg(last, dest, b.Overshoot.NextDuration(finalDuration, 0), finalFlow))

	logger.Debug("Planned move.",
		zap.Stringer("from", from), zap.Stringer("to", dest),
		zap.Int("legs", len(legs)), zap.Int("overshoots", len(legs)-1))
	return &Plan{legs: legs}
}
