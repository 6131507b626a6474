package tanks

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// Tuning holds the simulation constants. It is stored as a singleton and read by
// every system; DefaultTuning returns the reference values.
type Tuning struct {
	// NoiseFrequency divides horizontal positions before sampling the noise field.
	NoiseFrequency float64
	// AgentSpeed is the tank ground speed in units per second.
	AgentSpeed float64

	// MuzzleOffset is the cannon tip in tank-local space.
	MuzzleOffset mgl64.Vec3
	// MuzzleDirection is the launch direction in tank-local space; it is scaled
	// by MuzzleSpeed, not normalised.
	MuzzleDirection mgl64.Vec3
	MuzzleSpeed     float64

	Gravity       float64
	FloorHeight   float64
	BounceDamping float64
	// DespawnSpeedSq is compared against the squared speed of a projectile.
	DespawnSpeedSq float64

	// CameraOffset is the camera position in the player's local space.
	CameraOffset mgl64.Vec3
	// CameraLookOffset is added to the player position to get the look target.
	CameraLookOffset mgl64.Vec3
}

// DefaultTuning returns the reference constants.
func DefaultTuning() Tuning {
	return Tuning{
		NoiseFrequency:   10.0,
		AgentSpeed:       5.0,
		MuzzleOffset:     mgl64.Vec3{0, 1.235, 0.324},
		MuzzleDirection:  mgl64.Vec3{0, 0.717, 0.8},
		MuzzleSpeed:      20.0,
		Gravity:          9.82,
		FloorHeight:      0.1,
		BounceDamping:    0.8,
		DespawnSpeedSq:   0.1,
		CameraOffset:     mgl64.Vec3{0, 5.0, -10.0},
		CameraLookOffset: mgl64.Vec3{0, 1.0, 0},
	}
}

// Validate rejects tunings the systems cannot evaluate.
func (t *Tuning) Validate() error {
	if t.NoiseFrequency == 0 {
		return errors.New("tuning: noise frequency must be non-zero")
	}
	if t.DespawnSpeedSq <= 0 {
		return errors.New("tuning: despawn threshold must be positive")
	}
	return nil
}
