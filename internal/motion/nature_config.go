// internal/motion/nature_config.go
package motion

import (
	"fmt"

	"github.com/xkilldash9x/pointerflow/internal/config"
)

// NatureFromConfig resolves the configured preset and applies the overrides
// on top of it. seed feeds the Perlin generators and should be the same seed
// used for the move's rand source so a run can be replayed.
func NatureFromConfig(cfg config.MotionConfig, seed int64) (Nature, error) {
	var n Nature
	if cfg.Preset == PresetRobot && cfg.RobotMsPer100px > 0 {
		n = RobotNature(cfg.RobotMsPer100px)
	} else {
		var err error
		if n, err = PresetNature(cfg.Preset); err != nil {
			return Nature{}, err
		}
	}

	o := cfg.Overrides
	if o.TimeToStepsDivider != nil {
		n.TimeToStepsDivider = *o.TimeToStepsDivider
	}
	if o.MinSteps != nil {
		n.MinSteps = *o.MinSteps
	}
	if o.EffectFadeSteps != nil {
		n.EffectFadeSteps = *o.EffectFadeSteps
	}
	if o.ReactionTimeBase != nil {
		n.ReactionTimeBase = *o.ReactionTimeBase
	}
	if o.ReactionTimeVariation != nil {
		n.ReactionTimeVariation = *o.ReactionTimeVariation
	}
	if o.MaxReplans != nil {
		n.MaxReplans = *o.MaxReplans
	}
	if o.Overshoots != nil {
		n.Overshoot = overshootWithCount(n.Overshoot, *o.Overshoots)
	}
	if o.DisableNoise {
		n.Noise = NoNoise
	}

	switch cfg.Deviation {
	case config.DeviationPreset:
	case config.DeviationSinusoidal:
		n.Deviation = SinusoidalDeviation{SlopeDivider: slopeDividerOf(n.Deviation)}
	case config.DeviationPerlin:
		n.Deviation = NewPerlinDeviation(seed, slopeDividerOf(n.Deviation), cfg.PerlinFrequency)
	case config.DeviationNone:
		n.Deviation = NoDeviation
	default:
		return Nature{}, fmt.Errorf("%w: unknown deviation %q", ErrInvalidNature, cfg.Deviation)
	}

	if err := n.Validate(); err != nil {
		return Nature{}, err
	}
	return n, nil
}

// overshootWithCount keeps the preset's overshoot tuning where it has one.
func overshootWithCount(p OvershootPolicy, count int) OvershootPolicy {
	if count == 0 {
		return NoOvershoot{}
	}
	o, ok := p.(DefaultOvershoot)
	if !ok {
		o = NewDefaultOvershoot()
	}
	o.Count = count
	return o
}

func slopeDividerOf(p DeviationPolicy) float64 {
	switch d := p.(type) {
	case SinusoidalDeviation:
		return d.SlopeDivider
	case *PerlinDeviation:
		return d.SlopeDivider
	}
	return NewSinusoidalDeviation().SlopeDivider
}
