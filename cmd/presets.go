// File: cmd/presets.go
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/pointerflow/internal/config"
	"github.com/xkilldash9x/pointerflow/internal/motion"
)

// presetSummary is the printable part of a Nature. Policies are reduced to
// the knobs a user can reason about.
type presetSummary struct {
	BaseTime              string  `yaml:"base_time,omitempty"`
	Flows                 int     `yaml:"flows,omitempty"`
	RandomFlow            bool    `yaml:"random_flow,omitempty"`
	Overshoots            int     `yaml:"overshoots"`
	TimeToStepsDivider    float64 `yaml:"time_to_steps_divider"`
	MinSteps              int     `yaml:"min_steps"`
	EffectFadeSteps       int     `yaml:"effect_fade_steps"`
	ReactionTimeBase      string  `yaml:"reaction_time_base"`
	ReactionTimeVariation string  `yaml:"reaction_time_variation"`
	MaxReplans            int     `yaml:"max_replans"`
}

func summarize(n motion.Nature) presetSummary {
	s := presetSummary{
		TimeToStepsDivider:    n.TimeToStepsDivider,
		MinSteps:              n.MinSteps,
		EffectFadeSteps:       n.EffectFadeSteps,
		ReactionTimeBase:      n.ReactionTimeBase.String(),
		ReactionTimeVariation: n.ReactionTimeVariation.String(),
		MaxReplans:            n.MaxReplans,
	}
	if speed, ok := n.Speed.(motion.DefaultSpeed); ok {
		s.BaseTime = speed.BaseTime.String()
		s.Flows = len(speed.Flows)
		s.RandomFlow = speed.IncludeRandomFlow
	}
	if o, ok := n.Overshoot.(motion.DefaultOvershoot); ok {
		s.Overshoots = o.Count
	}
	return s
}

func newPresetsCmd() *cobra.Command {
	var effective bool

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "Lists the movement presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !effective {
				return writePresets(cmd.OutOrStdout())
			}
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			applyMotionFlagOverrides(cmd, cfg)
			return writeEffective(cmd.OutOrStdout(), cfg.Motion())
		},
	}

	addMotionFlags(presetsCmd)
	presetsCmd.Flags().BoolVar(&effective, "effective", false, "Print the motion configuration and the Nature it resolves to.")
	return presetsCmd
}

func writePresets(w io.Writer) error {
	summaries := make(map[string]presetSummary, len(motion.PresetNames()))
	for _, name := range motion.PresetNames() {
		n, err := motion.PresetNature(name)
		if err != nil {
			return err
		}
		summaries[name] = summarize(n)
	}
	return encodeYAML(w, summaries)
}

func writeEffective(w io.Writer, m config.MotionConfig) error {
	n, err := motion.NatureFromConfig(m, resolveSeed(m.Seed))
	if err != nil {
		return err
	}
	return encodeYAML(w, struct {
		Motion config.MotionConfig `yaml:"motion"`
		Nature presetSummary       `yaml:"nature"`
	}{m, summarize(n)})
}

func encodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
