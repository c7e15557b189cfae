// internal/flow/templates.go
package flow

import (
	"fmt"
	"math/rand"
	"sort"
)

// templateLength is the bucket count every template is stretched to.
const templateLength = 100

// Named shapes that cover common human pointing styles.
const (
	NameConstantSpeed = "constant"
	NameVariating     = "variating"
	NameInterrupted   = "interrupted"
	NameInterrupted2  = "interrupted2"
	NameSlowStartup   = "slow_startup"
	NameSlowStartup2  = "slow_startup2"
	NameJagged        = "jagged"
	NameStopping      = "stopping"
	NameAdjusting     = "adjusting"
)

var templateShapes = map[string][]float64{
	// Even velocity for the entire movement.
	NameConstantSpeed: {10, 10, 10, 10, 10, 10, 10, 10, 10, 10},

	// Speeds up and slows down a few times.
	NameVariating: {4, 5, 6, 7, 8, 8, 7, 6, 5, 4, 4, 5, 6, 7, 8, 8, 7, 6, 5, 4},

	// A hesitation mid-movement where the pointer comes to a full stop.
	NameInterrupted: {1, 2, 3, 4, 5, 4, 3, 2, 1, 0, 0, 0, 0, 0, 0, 1, 2, 3, 4, 5, 4, 3, 2, 1},

	// A short stop after a fast start, then a slower finish.
	NameInterrupted2: {2, 4, 6, 8, 9, 8, 6, 4, 2, 0, 0, 0, 1, 2, 3, 4, 4, 3, 2, 1},

	// Slow acceleration that reaches top speed late.
	NameSlowStartup: {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10},

	// Slow acceleration followed by a gentle deceleration.
	NameSlowStartup2: {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10, 9, 8, 7, 6, 5, 4, 3},

	// Nervous, uneven velocity.
	NameJagged: {1, 3, 2, 5, 2, 6, 3, 7, 4, 9, 3, 8, 5, 9, 4, 7, 3, 6, 2, 4},

	// Fast start and a long deceleration close to a standstill.
	NameStopping: {10, 10, 10, 9, 9, 8, 8, 7, 6, 5, 4, 3, 3, 2, 2, 1, 1, 1, 1, 0},

	// Main movement followed by a slow corrective phase.
	NameAdjusting: {3, 5, 8, 10, 10, 10, 9, 7, 5, 3, 2, 1, 1, 2, 2, 1, 1, 2, 1, 1},
}

var templates = func() map[string]*Flow {
	out := make(map[string]*Flow, len(templateShapes))
	for name, shape := range templateShapes {
		stretched, err := Stretch(shape, templateLength, nil)
		if err != nil {
			panic(fmt.Sprintf("flow template %q: %v", name, err))
		}
		out[name] = MustNew(stretched)
	}
	return out
}()

// Template returns the named built-in Flow.
func Template(name string) (*Flow, error) {
	f, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown flow template %q", name)
	}
	return f, nil
}

// Templates resolves a list of template names.
func Templates(names ...string) ([]*Flow, error) {
	out := make([]*Flow, 0, len(names))
	for _, name := range names {
		f, err := Template(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// TemplateNames returns the names of all built-in templates in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConstantSpeed returns the flat template.
func ConstantSpeed() *Flow { return templates[NameConstantSpeed] }

// RandomFlow builds a Flow with a random velocity in every bucket. The result
// is guaranteed to have at least one non-zero bucket.
func RandomFlow(rng *rand.Rand) *Flow {
	shape := make([]float64, templateLength)
	for i := range shape {
		shape[i] = float64(rng.Intn(10))
	}
	shape[rng.Intn(len(shape))]++
	return MustNew(shape)
}
