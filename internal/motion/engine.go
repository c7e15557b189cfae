// internal/motion/engine.go
package motion

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// settleDelay is the pause after force-correcting the pointer at the end of a leg.
const settleDelay = 2 * time.Millisecond

// run holds the mutable state of a single move. It is never shared.
type run struct {
	nature   Nature
	port     port
	rng      *rand.Rand
	observer Observer
	logger   *zap.Logger

	screen Size
	dest   Point
	// last is the most recent position read from or written to the backend.
	last  Point
	state State
}

func (r *run) setState(s State) {
	if r.state == s {
		return
	}
	r.logger.Debug("Move state changed.", zap.Stringer("from", r.state), zap.Stringer("to", s))
	r.state = s
}

// checkpoint aborts the move once ctx is done.
func (r *run) checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}
	return nil
}

// fail reports err unless the failure was caused by cancellation, in which
// case the cancellation wins.
func (r *run) fail(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cancelled(ctxErr)
	}
	return err
}

func (r *run) now(ctx context.Context) (time.Time, error) {
	t, err := r.port.now(ctx)
	if err != nil {
		return time.Time{}, r.fail(ctx, err)
	}
	return t, nil
}

func (r *run) sleep(ctx context.Context, d time.Duration) error {
	if err := r.checkpoint(ctx); err != nil {
		return err
	}
	if d < 0 {
		d = 0
	}
	if err := r.port.sleep(ctx, d); err != nil {
		return r.fail(ctx, err)
	}
	return nil
}

func (r *run) position(ctx context.Context) (Point, error) {
	p, err := r.port.position(ctx)
	if err != nil {
		return r.last, r.fail(ctx, err)
	}
	r.last = p
	return p, nil
}

func (r *run) setPosition(ctx context.Context, p Point) error {
	if err := r.port.setPosition(ctx, p); err != nil {
		return r.fail(ctx, err)
	}
	r.last = p
	return nil
}

// execute drives the pointer to target and returns where it came to rest.
func (r *run) execute(ctx context.Context, target Point) (Point, error) {
	if err := r.checkpoint(ctx); err != nil {
		return r.last, err
	}
	screen, err := r.port.screenSize(ctx)
	if err != nil {
		return r.last, r.fail(ctx, err)
	}
	r.screen = screen
	r.dest = screen.Clamp(target)

	builder := PlanBuilder{
		Speed:     r.nature.Speed,
		Overshoot: r.nature.Overshoot,
		Screen:    screen,
		Logger:    r.logger,
	}

	if err := r.checkpoint(ctx); err != nil {
		return r.last, err
	}
	pos, err := r.position(ctx)
	if err != nil {
		return pos, err
	}
	r.logger.Debug("Starting pointer move.",
		zap.Stringer("from", pos), zap.Stringer("to", r.dest), zap.Stringer("requested", target))

	plan := &Plan{}
	if pos != r.dest {
		plan = builder.Build(r.rng, pos, r.dest)
	}
	overshoots := plan.Len() - 1

	replans := 0
	for pos != r.dest {
		leg, ok := plan.Next()
		if !ok {
			if replans >= r.nature.MaxReplans {
				return pos, fmt.Errorf("%w: pointer at %s, target %s, after %d replans",
					ErrTargetUnreachable, pos, r.dest, replans)
			}
			replans++

			if err := r.checkpoint(ctx); err != nil {
				return pos, err
			}
			if pos, err = r.position(ctx); err != nil {
				return pos, err
			}
			r.logger.Warn("Plan exhausted before reaching target; replanning.",
				zap.Stringer("position", pos), zap.Stringer("target", r.dest), zap.Int("replan", replans))
			if pos == r.dest {
				break
			}
			plan = builder.Build(r.rng, pos, r.dest)
			overshoots = plan.Len() - 1
			continue
		}

		if plan.Len() > 0 {
			r.logger.Debug("Using overshoot.",
				zap.Int("overshoot", overshoots-plan.Len()+1), zap.Int("of", overshoots),
				zap.Stringer("aim", leg.Dest))
		}
		if pos, err = r.executeLeg(ctx, leg); err != nil {
			return pos, err
		}
	}

	r.setState(StateDone)
	r.logger.Debug("Pointer move completed.", zap.Stringer("position", pos))
	return pos, nil
}

// stepCount is ceil(min(distance, max(durationMs/divider, minSteps))): enough
// steps to look smooth, but never more than one per pixel travelled.
func (r *run) stepCount(leg Leg) int {
	bySpeed := math.Max(msOf(leg.Duration)/r.nature.TimeToStepsDivider, float64(r.nature.MinSteps))
	return int(math.Ceil(math.Min(leg.Distance, bySpeed)))
}

func (r *run) executeLeg(ctx context.Context, leg Leg) (Point, error) {
	r.setState(StateExecutingLeg)
	steps := r.stepCount(leg)
	r.logger.Debug("Executing leg.", zap.Stringer("leg", leg), zap.Int("steps", steps))

	if steps > 0 {
		if err := r.stepLoop(ctx, leg, steps); err != nil {
			return r.last, err
		}
	}
	return r.settle(ctx, leg)
}

func (r *run) stepLoop(ctx context.Context, leg Leg, steps int) error {
	r.setState(StateStepLoop)

	start, err := r.now(ctx)
	if err != nil {
		return err
	}
	stepTime := millis(msOf(leg.Duration) / float64(steps))

	origin, err := r.position(ctx)
	if err != nil {
		return err
	}
	simulated := origin.Vector()

	// One amplitude per axis for the whole leg so the arc keeps its shape.
	multX := (r.rng.Float64() - 0.5) * 2
	multY := (r.rng.Float64() - 0.5) * 2

	fadeSteps := float64(r.nature.EffectFadeSteps)
	dx, dy := float64(leg.DX), float64(leg.DY)
	var completed, noise Vector2D

	for i := 0; i < steps; i++ {
		if err := r.checkpoint(ctx); err != nil {
			return err
		}

		timeCompletion := float64(i) / float64(steps)
		fadeStep := math.Max(float64(i-(steps-r.nature.EffectFadeSteps)+1), 0)
		fade := (fadeSteps - fadeStep) / fadeSteps

		step := Vector2D{
			X: leg.Flow.StepSize(dx, steps, timeCompletion),
			Y: leg.Flow.StepSize(dy, steps, timeCompletion),
		}
		completed = completed.Add(step)
		completion := math.Min(1, completed.Mag()/leg.Distance)

		noise = noise.Add(r.nature.Noise.Noise(r.rng, step.X, step.Y))
		deviation := r.nature.Deviation.Deviation(leg.Distance, completion)
		simulated = simulated.Add(step)

		exact := simulated.
			Add(deviation.Scale(multX, multY).Mul(fade)).
			Add(noise.Mul(fade))
		p := r.screen.Clamp(Point{
			X: RoundTowards(exact.X, leg.Dest.X),
			Y: RoundTowards(exact.Y, leg.Dest.Y),
		})

		if err := r.setPosition(ctx, p); err != nil {
			return err
		}
		if r.observer != nil {
			r.observer(p.X, p.Y)
		}

		end := start.Add(stepTime * time.Duration(i+1))
		now, err := r.now(ctx)
		if err != nil {
			return err
		}
		if err := r.sleep(ctx, end.Sub(now)); err != nil {
			return err
		}
	}
	return nil
}

// settle makes sure the pointer really is at the end of the leg and, when the
// leg was an overshoot, waits for a human reaction time before correcting.
func (r *run) settle(ctx context.Context, leg Leg) (Point, error) {
	r.setState(StateLegSettle)

	pos, err := r.position(ctx)
	if err != nil {
		return pos, err
	}
	if pos != leg.Dest {
		r.logger.Warn("Pointer off leg endpoint; correcting.",
			zap.Stringer("actual", pos), zap.Stringer("expected", leg.Dest))
		if err := r.setPosition(ctx, leg.Dest); err != nil {
			return r.last, err
		}
		if err := r.sleep(ctx, settleDelay); err != nil {
			return r.last, err
		}
		if pos, err = r.position(ctx); err != nil {
			return pos, err
		}
	}

	if pos != r.dest {
		reaction := millis(msOf(r.nature.ReactionTimeBase) + r.rng.Float64()*msOf(r.nature.ReactionTimeVariation))
		if err := r.sleep(ctx, reaction); err != nil {
			return pos, err
		}
	}
	r.logger.Debug("Leg settled.", zap.Stringer("position", pos))
	return pos, nil
}
