// internal/flow/flow.go
package flow

import (
	"errors"
	"fmt"
	"math"
)

// AverageBucketValue is the mean every normalized Flow is scaled to.
const AverageBucketValue = 100.0

var (
	// ErrInvalidCharacteristics is returned when a Flow cannot be built from the given values.
	ErrInvalidCharacteristics = errors.New("invalid flow characteristics")
	// ErrInvalidResample is returned by Stretch and Reduce when the target length does not fit the operation.
	ErrInvalidResample = errors.New("invalid resample target length")
)

// Flow describes how fast the pointer travels over the duration of a movement.
//
// Every bucket covers an equal slice of time, so [1, 2, 3, 4] describes a movement
// that accelerates until the last quarter is four times faster than the first.
// Values are relative: [1, 2, 3, 4] and [10, 20, 30, 40] are the same Flow.
// A Flow is immutable once constructed.
type Flow struct {
	buckets []float64
}

// New normalizes the characteristics so that their arithmetic mean is exactly
// AverageBucketValue. Negative, non-finite or all-zero input is rejected.
func New(characteristics []float64) (*Flow, error) {
	if len(characteristics) == 0 {
		return nil, fmt.Errorf("%w: at least one bucket is required", ErrInvalidCharacteristics)
	}

	var sum float64
	for i, c := range characteristics {
		if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: bucket %d has value %v", ErrInvalidCharacteristics, i, c)
		}
		sum += c
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w: all buckets are zero", ErrInvalidCharacteristics)
	}

	multiplier := AverageBucketValue * float64(len(characteristics)) / sum
	buckets := make([]float64, len(characteristics))
	for i, c := range characteristics {
		buckets[i] = c * multiplier
	}
	return &Flow{buckets: buckets}, nil
}

// MustNew is like New but panics on invalid input. Intended for package-level templates.
func MustNew(characteristics []float64) *Flow {
	f, err := New(characteristics)
	if err != nil {
		panic(err)
	}
	return f
}

// Buckets returns a copy of the normalized buckets.
func (f *Flow) Buckets() []float64 {
	out := make([]float64, len(f.buckets))
	copy(out, f.buckets)
	return out
}

// Len returns the number of buckets.
func (f *Flow) Len() int {
	return len(f.buckets)
}

// StepSize returns how far to move along one axis for the step that starts at
// completion (a time fraction in [0, 1)) when the axis distance is covered in
// the given number of steps. Summing StepSize(d, n, i/n) for i in [0, n) yields d.
func (f *Flow) StepSize(distance float64, steps int, completion float64) float64 {
	if steps <= 0 {
		return 0
	}
	n := float64(len(f.buckets))
	from := completion * n
	until := (completion + 1/float64(steps)) * n

	contents := f.contents(from, until)
	return contents * distance / (n * AverageBucketValue)
}

// contents sums the buckets in the fractional range [from, until). Partial
// buckets at either end contribute proportionally to the covered fraction.
func (f *Flow) contents(from, until float64) float64 {
	var sum float64
	first := int(from)
	for i := first; float64(i) < until && i < len(f.buckets); i++ {
		start, end := 0.0, 1.0
		if until < float64(i+1) {
			end = until - math.Trunc(until)
		}
		if i == first {
			start = from - float64(first)
		}
		sum += f.buckets[i] * (end - start)
	}
	return sum
}

// ZeroBuckets counts buckets whose value is effectively zero.
func (f *Flow) ZeroBuckets() int {
	var n int
	for _, b := range f.buckets {
		if b < 1e-5 {
			n++
		}
	}
	return n
}
