// internal/motion/mover.go
package motion

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mover moves a pointer along human-looking trajectories shaped by a Nature.
// A Mover is immutable and safe to share; each move owns its random source
// and backend.
type Mover struct {
	nature Nature
	logger *zap.Logger
}

// NewMover validates the Nature and returns a Mover. A nil logger disables logging.
func NewMover(nature Nature, logger *zap.Logger) (*Mover, error) {
	if err := nature.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mover{nature: nature, logger: logger.Named("motion")}, nil
}

// Nature returns a copy of the Mover's configuration.
func (m *Mover) Nature() Nature {
	return m.nature
}

// Move drives a blocking backend to dest, which is clamped to the screen
// first. It returns the final pointer position. rng may be nil, in which case
// a time-seeded source is used; it must not be used concurrently elsewhere
// while the move runs. obs may be nil.
//
// Cancellation of ctx is observed between steps and before every sleep; the
// returned error then satisfies errors.Is(err, ErrMoveCancelled) as well as
// errors.Is(err, ctx.Err()).
func (m *Mover) Move(ctx context.Context, b Backend, rng *rand.Rand, dest Point, obs Observer) (Point, error) {
	return m.start(ctx, blockingPort{b: b}, rng, dest, obs)
}

// MoveContext is Move for a context-aware backend. Backend failures abort
// the move with an error wrapping ErrBackend.
func (m *Mover) MoveContext(ctx context.Context, b AsyncBackend, rng *rand.Rand, dest Point, obs Observer) (Point, error) {
	return m.start(ctx, asyncPort{b: b}, rng, dest, obs)
}

// Result is the outcome of an asynchronous move.
type Result struct {
	Position Point
	Err      error
}

// MoveAsync runs MoveContext on its own goroutine. The returned channel
// receives exactly one Result and is then closed. The observer is invoked
// from that goroutine.
func (m *Mover) MoveAsync(ctx context.Context, b AsyncBackend, rng *rand.Rand, dest Point, obs Observer) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		pos, err := m.MoveContext(ctx, b, rng, dest, obs)
		out <- Result{Position: pos, Err: err}
	}()
	return out
}

func (m *Mover) start(ctx context.Context, p port, rng *rand.Rand, dest Point, obs Observer) (Point, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r := &run{
		nature:   m.nature,
		port:     p,
		rng:      rng,
		observer: obs,
		logger:   m.logger.With(zap.String("move_id", uuid.NewString())),
		state:    StateIdle,
	}
	return r.execute(ctx, dest)
}
