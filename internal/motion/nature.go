// internal/motion/nature.go
package motion

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xkilldash9x/pointerflow/internal/flow"
)

// Nature bundles the policies and timing constants that give a move its
// character. It is a plain value: copy it and change fields to derive a
// variant without touching the preset.
type Nature struct {
	// TimeToStepsDivider converts a leg's duration in ms to a step count.
	TimeToStepsDivider float64
	// MinSteps is the lower bound on steps per leg (before the distance cap).
	MinSteps int
	// EffectFadeSteps is the number of final steps over which noise and
	// deviation fade out so the leg lands exactly.
	EffectFadeSteps int
	// ReactionTimeBase and ReactionTimeVariation define the pause after an
	// overshoot leg: base plus a uniform random share of the variation.
	ReactionTimeBase      time.Duration
	ReactionTimeVariation time.Duration
	// MaxReplans bounds how often a move may rebuild its plan after the
	// backend failed to leave the pointer on target.
	MaxReplans int

	Speed     SpeedPolicy
	Overshoot OvershootPolicy
	Noise     NoisePolicy
	Deviation DeviationPolicy
}

// Preset names accepted by PresetNature.
const (
	PresetDefault     = "default"
	PresetGranny      = "granny"
	PresetFastGamer   = "fast_gamer"
	PresetAverageUser = "average_user"
	PresetRobot       = "robot"
)

// DefaultRobotMsPer100px is the pace of the robot preset when looked up by name.
const DefaultRobotMsPer100px = 100

// DefaultNature returns the baseline human.
func DefaultNature() Nature {
	return Nature{
		TimeToStepsDivider:    8,
		MinSteps:              10,
		EffectFadeSteps:       15,
		ReactionTimeBase:      20 * time.Millisecond,
		ReactionTimeVariation: 120 * time.Millisecond,
		MaxReplans:            10,
		Speed:                 NewDefaultSpeed(),
		Overshoot:             NewDefaultOvershoot(),
		Noise:                 NewDefaultNoise(),
		Deviation:             NewSinusoidalDeviation(),
	}
}

// GrannyNature is slow and shaky, misses often and takes its time correcting.
func GrannyNature() Nature {
	n := DefaultNature()
	n.Speed = DefaultSpeed{
		BaseTime:          time.Second,
		Flows:             mustTemplates(flow.NameJagged, flow.NameInterrupted, flow.NameInterrupted2, flow.NameAdjusting, flow.NameStopping),
		IncludeRandomFlow: true,
	}
	n.Deviation = SinusoidalDeviation{SlopeDivider: 9}
	n.Noise = DefaultNoise{NoisinessDivider: 1.6}
	n.ReactionTimeBase = 100 * time.Millisecond

	o := NewDefaultOvershoot()
	o.Count = 3
	o.MinDistance = 3
	o.MinLegDuration = 400 * time.Millisecond
	o.SpeedupDivider = 1.8 * 2
	n.Overshoot = o

	n.TimeToStepsDivider = 8 - 2
	return n
}

// FastGamerNature moves quickly and overshoots more.
func FastGamerNature() Nature {
	n := DefaultNature()
	n.Speed = DefaultSpeed{
		BaseTime: 250 * time.Millisecond,
		Flows:    mustTemplates(flow.NameVariating, flow.NameSlowStartup, flow.NameSlowStartup2, flow.NameAdjusting, flow.NameJagged),
	}
	n.ReactionTimeVariation = 100 * time.Millisecond

	o := NewDefaultOvershoot()
	o.Count = 4
	n.Overshoot = o
	return n
}

// AverageUserNature is an everyday office user.
func AverageUserNature() Nature {
	n := DefaultNature()
	n.Speed = DefaultSpeed{
		BaseTime: 400 * time.Millisecond,
		Flows: mustTemplates(
			flow.NameVariating, flow.NameInterrupted, flow.NameInterrupted2, flow.NameSlowStartup,
			flow.NameSlowStartup2, flow.NameAdjusting, flow.NameJagged, flow.NameStopping,
		),
	}
	n.ReactionTimeVariation = 110 * time.Millisecond

	o := NewDefaultOvershoot()
	o.Count = 4
	n.Overshoot = o
	return n
}

// RobotNature moves in a straight line at constant speed with no noise,
// deviation or overshoot. Useful for demos and for debugging a backend.
func RobotNature(msPer100px float64) Nature {
	n := DefaultNature()
	n.Speed = ConstantSpeed(msPer100px)
	n.Overshoot = NoOvershoot{}
	n.Noise = NoNoise
	n.Deviation = NoDeviation
	return n
}

var presets = map[string]func() Nature{
	PresetDefault:     DefaultNature,
	PresetGranny:      GrannyNature,
	PresetFastGamer:   FastGamerNature,
	PresetAverageUser: AverageUserNature,
	PresetRobot:       func() Nature { return RobotNature(DefaultRobotMsPer100px) },
}

// PresetNature looks up a preset by name (case-insensitive).
func PresetNature(name string) (Nature, error) {
	build, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Nature{}, fmt.Errorf("%w: unknown preset %q (available: %s)",
			ErrInvalidNature, name, strings.Join(PresetNames(), ", "))
	}
	return build(), nil
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the Nature can drive a move.
func (n Nature) Validate() error {
	switch {
	case n.TimeToStepsDivider <= 0:
		return fmt.Errorf("%w: time_to_steps_divider must be positive", ErrInvalidNature)
	case n.MinSteps <= 0:
		return fmt.Errorf("%w: min_steps must be a positive integer", ErrInvalidNature)
	case n.EffectFadeSteps <= 0:
		return fmt.Errorf("%w: effect_fade_steps must be a positive integer", ErrInvalidNature)
	case n.ReactionTimeBase < 0 || n.ReactionTimeVariation < 0:
		return fmt.Errorf("%w: reaction times must not be negative", ErrInvalidNature)
	case n.MaxReplans < 0:
		return fmt.Errorf("%w: max_replans must not be negative", ErrInvalidNature)
	case n.Speed == nil, n.Overshoot == nil, n.Noise == nil, n.Deviation == nil:
		return fmt.Errorf("%w: every policy must be set", ErrInvalidNature)
	}
	return nil
}

func mustTemplates(names ...string) []*flow.Flow {
	flows, err := flow.Templates(names...)
	if err != nil {
		panic(err)
	}
	return flows
}
