// File: cmd/diagnose.go
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/pointerflow/internal/backend"
	"github.com/xkilldash9x/pointerflow/internal/observability"
)

func newDiagnoseCmd() *cobra.Command {
	var opts backend.DiagnoseOptions

	diagnoseCmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Checks that the backend puts the pointer where it is told to",
		Long: `Sweeps the pointer over a grid covering the backend's screen (or backend.region)
and reads the position back after every probe. Any difference means the reported
screen size or the coordinate mapping is wrong and moves will need correcting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			applyBackendFlagOverrides(cmd, cfg)

			logger := observability.GetLogger()
			b, closeBackend, err := openBackend(ctx, cfg.Backend(), logger)
			if err != nil {
				return err
			}
			defer closeBackend()

			report, err := backend.Diagnose(ctx, b, opts, logger)
			printReport(cmd.OutOrStdout(), report)
			return err
		},
	}

	addBackendFlags(diagnoseCmd)
	diagnoseCmd.Flags().IntVar(&opts.Stride, "stride", backend.DefaultDiagnoseStride, "Distance between probes in pixels.")
	diagnoseCmd.Flags().Float64Var(&opts.ProbesPerSecond, "rate", 200, "Maximum probes per second; 0 disables pacing.")
	diagnoseCmd.Flags().IntVar(&opts.MaxProbes, "max-probes", 0, "Stop after this many probes; 0 covers the whole grid.")
	return diagnoseCmd
}

func printReport(w io.Writer, report backend.DiagnoseReport) {
	fmt.Fprintf(w, "Screen %dx%d: %d probes, %d mismatches\n",
		report.Screen.Width, report.Screen.Height, report.Probes, len(report.Mismatches))
	for _, m := range report.Mismatches {
		fmt.Fprintf(w, "  wanted %s got %s\n", m.Want, m.Got)
	}
}
