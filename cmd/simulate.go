// File: cmd/simulate.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/pointerflow/internal/backend"
	"github.com/xkilldash9x/pointerflow/internal/config"
	"github.com/xkilldash9x/pointerflow/internal/motion"
	"github.com/xkilldash9x/pointerflow/internal/observability"
	"github.com/xkilldash9x/pointerflow/internal/trace"
)

func newSimulateCmd() *cobra.Command {
	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generates trajectories offline on virtual screens",
		Long: `Runs independent moves between random points on virtual screens and writes one
JSON trace per move. Virtual backends never sleep, so thousands of moves take seconds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			applyMotionFlagOverrides(cmd, cfg)
			if err := applySimulationFlagOverrides(cmd, cfg); err != nil {
				return err
			}

			logger := observability.Component("simulate")
			paths, err := runSimulation(ctx, logger, cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if cfg.Simulation().OutputDir != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d traces to %s\n", len(paths), cfg.Simulation().OutputDir)
			}
			return nil
		},
	}

	addMotionFlags(simulateCmd)
	simulateCmd.Flags().IntP("count", "n", 0, "Number of moves (overrides simulation.count).")
	simulateCmd.Flags().IntP("concurrency", "j", 0, "Moves simulated in parallel (overrides simulation.concurrency).")
	simulateCmd.Flags().StringP("out", "o", "", "Directory for trace files, or '-' for stdout (overrides simulation.output_dir).")
	return simulateCmd
}

func applySimulationFlagOverrides(cmd *cobra.Command, cfg config.Interface) error {
	flags := cmd.Flags()
	if flags.Changed("count") {
		n, _ := flags.GetInt("count")
		if n <= 0 {
			return fmt.Errorf("--count must be a positive integer, got %d", n)
		}
		cfg.SetSimulationCount(n)
	}
	if flags.Changed("concurrency") {
		n, _ := flags.GetInt("concurrency")
		if n <= 0 {
			return fmt.Errorf("--concurrency must be a positive integer, got %d", n)
		}
		cfg.SetSimulationConcurrency(n)
	}
	if flags.Changed("out") {
		out, _ := flags.GetString("out")
		expanded, err := homedir.Expand(out)
		if err != nil {
			return fmt.Errorf("failed to expand output directory: %w", err)
		}
		cfg.SetSimulationOutputDir(expanded)
	}
	return nil
}

// runSimulation runs simulation.count moves, each on its own virtual screen
// with its own random source derived from the seed, and returns the trace
// file paths in move order. With output_dir "-" traces go to stdout instead
// and no paths are returned.
func runSimulation(ctx context.Context, logger *zap.Logger, cfg config.Interface, stdout io.Writer) ([]string, error) {
	sim := cfg.Simulation()
	seed := resolveSeed(cfg.Motion().Seed)

	nature, err := motion.NatureFromConfig(cfg.Motion(), seed)
	if err != nil {
		return nil, err
	}
	mover, err := motion.NewMover(nature, logger)
	if err != nil {
		return nil, err
	}

	toStdout := sim.OutputDir == "-"
	if !toStdout {
		if err := os.MkdirAll(sim.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	logger.Info("Starting simulation.",
		zap.Int("count", sim.Count),
		zap.Int("concurrency", sim.Concurrency),
		zap.String("preset", cfg.Motion().Preset),
		zap.Int64("seed", seed))

	screen := motion.Size{Width: sim.Width, Height: sim.Height}
	paths := make([]string, sim.Count)
	var stdoutMu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(sim.Concurrency)

	for i := 0; i < sim.Count; i++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(i)))
			start := motion.Point{X: rng.Intn(screen.Width), Y: rng.Intn(screen.Height)}
			target := motion.Point{X: rng.Intn(screen.Width), Y: rng.Intn(screen.Height)}

			v := backend.NewVirtual(screen, backend.WithStart(start))
			rec := trace.NewRecorder(start, target, trace.WithClock(v.Now), trace.WithPreset(cfg.Motion().Preset))

			if _, err := mover.Move(gCtx, v, rng, target, rec.Observer()); err != nil {
				return fmt.Errorf("simulated move %d failed: %w", i, err)
			}
			logger.Debug("Simulated move.",
				zap.Int("index", i),
				zap.String("id", rec.ID()),
				zap.Int("points", len(rec.Points())),
				zap.Duration("elapsed", v.Elapsed()))

			if toStdout {
				stdoutMu.Lock()
				defer stdoutMu.Unlock()
				return rec.WriteJSON(stdout)
			}

			path := filepath.Join(sim.OutputDir, rec.ID()+".json")
			if err := writeTraceFile(path, rec); err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if toStdout {
		return nil, nil
	}
	logger.Info("Simulation complete.", zap.Int("traces", len(paths)), zap.String("dir", sim.OutputDir))
	return paths, nil
}

func writeTraceFile(path string, rec *trace.Recorder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close trace file: %w", cerr)
		}
	}()
	return rec.WriteJSON(f)
}
