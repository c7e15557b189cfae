// internal/trace/recorder.go
package trace

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/pointerflow/internal/motion"
)

// Point is one committed pointer coordinate with the wall-clock offset since
// the recorder started.
type Point struct {
	X        int   `json:"x"`
	Y        int   `json:"y"`
	OffsetMs int64 `json:"offset_ms"`
}

// Trace is the serialized form of a recording.
type Trace struct {
	ID        string    `json:"id"`
	Preset    string    `json:"preset,omitempty"`
	From      Point     `json:"from"`
	Target    Point     `json:"target"`
	StartedAt time.Time `json:"started_at"`
	Points    []Point   `json:"points"`
}

// Recorder collects the coordinates of one or more moves. Its Observe method
// is a motion.Observer. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	id     string
	preset string
	from   motion.Point
	target motion.Point
	start  time.Time
	now    func() time.Time
	points []Point
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock replaces time.Now, typically with a virtual backend's clock.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithPreset tags the trace with the name of the nature that produced it.
func WithPreset(name string) Option {
	return func(r *Recorder) { r.preset = name }
}

// NewRecorder starts a recording for a move from one point to another.
func NewRecorder(from, target motion.Point, opts ...Option) *Recorder {
	r := &Recorder{
		id:     uuid.NewString(),
		from:   from,
		target: target,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.start = r.now()
	return r
}

// ID is the unique id of this recording.
func (r *Recorder) ID() string { return r.id }

// Observe records a coordinate.
func (r *Recorder) Observe(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.points = append(r.points, Point{X: x, Y: y, OffsetMs: r.now().Sub(r.start).Milliseconds()})
}

// Observer returns Observe as a motion.Observer.
func (r *Recorder) Observer() motion.Observer {
	return r.Observe
}

// Points returns the recorded coordinates in order.
func (r *Recorder) Points() []motion.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]motion.Point, len(r.points))
	for i, p := range r.points {
		out[i] = motion.Point{X: p.X, Y: p.Y}
	}
	return out
}

// Trace returns a snapshot of the recording.
func (r *Recorder) Trace() Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Trace{
		ID:        r.id,
		Preset:    r.preset,
		From:      Point{X: r.from.X, Y: r.from.Y},
		Target:    Point{X: r.target.X, Y: r.target.Y},
		StartedAt: r.start,
		Points:    append([]Point(nil), r.points...),
	}
}

// WriteJSON writes the trace as a single JSON document.
func (r *Recorder) WriteJSON(w io.Writer) error {
	data, err := json.Marshal(r.Trace())
	if err != nil {
		return fmt.Errorf("failed to marshal trace %s: %w", r.id, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write trace %s: %w", r.id, err)
	}
	return nil
}

// ReadJSON decodes a trace written by WriteJSON.
func ReadJSON(rd io.Reader) (Trace, error) {
	var t Trace
	if err := json.NewDecoder(rd).Decode(&t); err != nil {
		return Trace{}, fmt.Errorf("failed to decode trace: %w", err)
	}
	return t, nil
}
