// File: cmd/move.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pointerflow/internal/config"
	"github.com/xkilldash9x/pointerflow/internal/motion"
	"github.com/xkilldash9x/pointerflow/internal/observability"
	"github.com/xkilldash9x/pointerflow/internal/trace"
)

func newMoveCmd() *cobra.Command {
	var tracePath string

	moveCmd := &cobra.Command{
		Use:   "move X Y [X Y ...]",
		Short: "Moves the pointer through one or more destinations",
		Long: `Moves the pointer to each destination in turn using the configured preset.
Coordinates are relative to the backend's screen, or to backend.region when set.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return fmt.Errorf("requires an even number of coordinates, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			targets, err := parseTargets(args)
			if err != nil {
				return err
			}
			applyMotionFlagOverrides(cmd, cfg)
			applyBackendFlagOverrides(cmd, cfg)

			logger := observability.Component("move")
			b, closeBackend, err := openBackend(ctx, cfg.Backend(), logger)
			if err != nil {
				return err
			}
			defer closeBackend()

			var traceOut io.Writer
			switch tracePath {
			case "":
			case "-":
				traceOut = cmd.OutOrStdout()
			default:
				f, err := os.Create(tracePath)
				if err != nil {
					return fmt.Errorf("failed to create trace file: %w", err)
				}
				defer f.Close()
				traceOut = f
			}

			return runMove(ctx, logger, cfg, b, targets, cmd.OutOrStdout(), traceOut)
		},
	}

	addMotionFlags(moveCmd)
	addBackendFlags(moveCmd)
	moveCmd.Flags().StringVar(&tracePath, "trace", "", "Write a JSON trace of every move to this file ('-' for stdout).")
	return moveCmd
}

// runMove moves b through targets with one Mover and one random source, so a
// fixed seed replays the whole sequence.
func runMove(ctx context.Context, logger *zap.Logger, cfg config.Interface, b motion.AsyncBackend, targets []motion.Point, out, traceOut io.Writer) error {
	seed := resolveSeed(cfg.Motion().Seed)
	nature, err := motion.NatureFromConfig(cfg.Motion(), seed)
	if err != nil {
		return err
	}
	mover, err := motion.NewMover(nature, logger)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("Moving pointer.",
		zap.String("preset", cfg.Motion().Preset),
		zap.Int64("seed", seed),
		zap.Int("destinations", len(targets)))

	for _, target := range targets {
		from, err := b.PointerPosition(ctx)
		if err != nil {
			return fmt.Errorf("failed to read pointer position: %w", err)
		}
		rec := trace.NewRecorder(from, target,
			trace.WithClock(backendClock(ctx, b)),
			trace.WithPreset(cfg.Motion().Preset))

		final, err := mover.MoveContext(ctx, b, rng, target, rec.Observer())
		if err != nil {
			return fmt.Errorf("move to %s failed: %w", target, err)
		}
		fmt.Fprintf(out, "%s -> %s (%d points)\n", from, final, len(rec.Points()))

		if traceOut != nil {
			if err := rec.WriteJSON(traceOut); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseTargets reads X Y pairs.
func parseTargets(args []string) ([]motion.Point, error) {
	targets := make([]motion.Point, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		x, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid x coordinate %q: %w", args[i], err)
		}
		y, err := strconv.Atoi(args[i+1])
		if err != nil {
			return nil, fmt.Errorf("invalid y coordinate %q: %w", args[i+1], err)
		}
		targets = append(targets, motion.Point{X: x, Y: y})
	}
	return targets, nil
}
