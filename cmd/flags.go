// File: cmd/flags.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/pointerflow/internal/config"
)

func addMotionFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "Movement preset (overrides motion.preset).")
	cmd.Flags().Int64("seed", 0, "Random seed; 0 seeds from the clock (overrides motion.seed).")
	cmd.Flags().String("deviation", "", "Arc shape: sinusoidal, perlin or none (overrides motion.deviation).")
}

func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().String("backend", "", "Backend: virtual, terminal or cdp (overrides backend.type).")
}

// applyMotionFlagOverrides copies explicitly set flags over the loaded
// configuration. Flags left at their zero value never override the file.
func applyMotionFlagOverrides(cmd *cobra.Command, cfg config.Interface) {
	flags := cmd.Flags()
	if flags.Changed("preset") {
		preset, _ := flags.GetString("preset")
		cfg.SetMotionPreset(preset)
	}
	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		cfg.SetMotionSeed(seed)
	}
	if flags.Changed("deviation") {
		deviation, _ := flags.GetString("deviation")
		cfg.SetMotionDeviation(deviation)
	}
}

func applyBackendFlagOverrides(cmd *cobra.Command, cfg config.Interface) {
	if cmd.Flags().Changed("backend") {
		t, _ := cmd.Flags().GetString("backend")
		cfg.SetBackendType(t)
	}
}
