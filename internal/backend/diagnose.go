// internal/backend/diagnose.go
package backend

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/pointerflow/internal/motion"
)

// ErrPointerMismatch is returned by Diagnose when the backend did not leave
// the pointer where it was told to.
var ErrPointerMismatch = errors.New("pointer did not land on the requested position")

// DiagnoseOptions tunes a diagnosis sweep.
type DiagnoseOptions struct {
	// Stride is the grid spacing in pixels. Defaults to 50.
	Stride int
	// ProbesPerSecond paces the sweep so slow or remote backends keep up.
	// Zero means no pacing.
	ProbesPerSecond float64
	// MaxProbes stops the sweep early. Zero means the whole grid.
	MaxProbes int
}

// DefaultDiagnoseStride is the grid spacing used when none is given.
const DefaultDiagnoseStride = 50

// Mismatch is one probe that missed.
type Mismatch struct {
	Want motion.Point
	Got  motion.Point
}

// DiagnoseReport summarizes a sweep.
type DiagnoseReport struct {
	Screen     motion.Size
	Probes     int
	Mismatches []Mismatch
}

// Diagnose checks that a backend reports the same screen it accepts commands
// for: it sweeps the pointer over a grid covering the whole screen, including
// the far edges, and reads each position back. The pointer is returned to
// where it started. If any probe missed, the report lists every miss and the
// error wraps ErrPointerMismatch describing the first.
func Diagnose(ctx context.Context, b motion.AsyncBackend, opts DiagnoseOptions, logger *zap.Logger) (DiagnoseReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("diagnose")
	if opts.Stride <= 0 {
		opts.Stride = DefaultDiagnoseStride
	}

	var report DiagnoseReport
	screen, err := b.ScreenSize(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read screen size: %w", err)
	}
	report.Screen = screen
	if screen.Width <= 0 || screen.Height <= 0 {
		return report, fmt.Errorf("%w: screen size %dx%d", ErrEmptyRegion, screen.Width, screen.Height)
	}

	origin, err := b.PointerPosition(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read pointer position: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.ProbesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.ProbesPerSecond), 1)
	}

	logger.Info("Starting backend diagnosis.",
		zap.Int("width", screen.Width), zap.Int("height", screen.Height), zap.Int("stride", opts.Stride))

	sweepErr := func() error {
		for _, y := range gridAxis(screen.Height, opts.Stride) {
			for _, x := range gridAxis(screen.Width, opts.Stride) {
				if opts.MaxProbes > 0 && report.Probes >= opts.MaxProbes {
					return nil
				}
				if err := limiter.Wait(ctx); err != nil {
					return err
				}
				want := motion.Point{X: x, Y: y}
				if err := b.SetPointerPosition(ctx, x, y); err != nil {
					return fmt.Errorf("failed to move pointer to %s: %w", want, err)
				}
				got, err := b.PointerPosition(ctx)
				if err != nil {
					return fmt.Errorf("failed to read pointer position: %w", err)
				}
				report.Probes++
				if got != want {
					logger.Debug("Probe missed.", zap.Stringer("want", want), zap.Stringer("got", got))
					report.Mismatches = append(report.Mismatches, Mismatch{Want: want, Got: got})
				}
			}
		}
		return nil
	}()

	if err := b.SetPointerPosition(ctx, origin.X, origin.Y); err != nil && sweepErr == nil {
		sweepErr = fmt.Errorf("failed to restore pointer to %s: %w", origin, err)
	}
	if sweepErr != nil {
		return report, sweepErr
	}

	logger.Info("Backend diagnosis finished.",
		zap.Int("probes", report.Probes), zap.Int("mismatches", len(report.Mismatches)))
	if len(report.Mismatches) > 0 {
		first := report.Mismatches[0]
		return report, fmt.Errorf("%w: %d of %d probes missed, first wanted %s got %s",
			ErrPointerMismatch, len(report.Mismatches), report.Probes, first.Want, first.Got)
	}
	return report, nil
}

// gridAxis returns 0, stride, 2*stride, ... and always ends on size-1.
func gridAxis(size, stride int) []int {
	var out []int
	for v := 0; v < size; v += stride {
		out = append(out, v)
	}
	if out[len(out)-1] != size-1 {
		out = append(out, size-1)
	}
	return out
}
