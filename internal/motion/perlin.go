// internal/motion/perlin.go
package motion

import (
	"github.com/aquilax/go-perlin"
)

// Standard Perlin parameters.
const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = int32(3)
)

// PerlinDeviation bends legs along smooth Perlin noise instead of a pure arc.
// The noise is multiplied by the sinusoidal envelope, so the offset is still
// zero at the start and the end of every leg. Given the same seed the
// deviation for a (distance, completion) pair never changes.
type PerlinDeviation struct {
	// SlopeDivider scales the peak amplitude to distance/SlopeDivider.
	SlopeDivider float64
	// Frequency is the number of noise periods sampled over one leg.
	Frequency float64

	noiseX *perlin.Perlin
	noiseY *perlin.Perlin
}

// NewPerlinDeviation builds a PerlinDeviation whose X and Y curves come from
// independent generators derived from seed.
func NewPerlinDeviation(seed int64, slopeDivider, frequency float64) *PerlinDeviation {
	return &PerlinDeviation{
		SlopeDivider: slopeDivider,
		Frequency:    frequency,
		noiseX:       perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed),
		noiseY:       perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed+1),
	}
}

// Deviation implements DeviationPolicy.
func (p *PerlinDeviation) Deviation(distance, completion float64) Vector2D {
	envelope := sinusoidalEnvelope(completion)
	amplitude := distance / p.SlopeDivider
	// Offset the sample point so a leg never starts on a lattice point.
	x := completion*p.Frequency + 0.5
	return Vector2D{
		X: p.noiseX.Noise1D(x) * envelope * amplitude,
		Y: p.noiseY.Noise1D(x) * envelope * amplitude,
	}
}
