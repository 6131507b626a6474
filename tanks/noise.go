package tanks

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 1
)

// NoiseField is a seeded, single-octave 3D Perlin field. Its permutation tables
// are fixed at construction, so concurrent Sample calls need no locking.
type NoiseField struct {
	seed      int64
	generator *perlin.Perlin
}

// NewNoiseField builds the field for seed.
func NewNoiseField(seed int64) *NoiseField {
	return &NoiseField{
		seed:      seed,
		generator: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
	}
}

// Seed returns the seed the field was built with.
func (n *NoiseField) Seed() int64 {
	return n.seed
}

// Sample returns the noise value at (x, y, z), nominally within [-1, 1].
func (n *NoiseField) Sample(x, y, z float64) float64 {
	return n.generator.Noise3D(x, y, z)
}

// Heading returns the unwrapped heading angle for agent id standing at pos.
// The agent id is the middle sample coordinate, which offsets each agent's
// trajectory through the field.
func (n *NoiseField) Heading(id uint32, pos mgl64.Vec3, frequency float64) float64 {
	v := n.Sample(pos.X()/frequency, float64(id), pos.Z()/frequency)
	return (0.5 + v) * 4 * math.Pi
}

// Noise is the singleton holding the process-wide noise field.
type Noise struct {
	Field *NoiseField
}
