package tanks

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tankfield/ecs"
)

// Up is the world vertical axis. Heights are measured along Y.
var Up = mgl64.Vec3{0, 1, 0}

// Transform is an entity pose: a world position and a rotation.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// Identity returns a transform at the origin with no rotation.
func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// At returns an unrotated transform at p.
func At(p mgl64.Vec3) Transform {
	return Transform{Translation: p, Rotation: mgl64.QuatIdent()}
}

// Yaw returns the rotation of angle radians about the vertical axis.
func Yaw(angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, Up)
}

// Agent marks an autonomous tank. ID seeds its noise trajectory and is never reused.
type Agent struct {
	ID uint32
}

// Material is an opaque handle for the rendering layer. The simulation copies it
// from a tank to its projectiles and never looks inside.
type Material uint32

// PlayerMaterial is the handle reserved for the player tank.
const PlayerMaterial Material = 0

// PlayerTank marks the entity the camera follows. Exactly one must exist.
type PlayerTank struct{}

// Camera marks the camera entity. Exactly one must exist. Target is the point the
// camera looks at and, like the camera Transform, is rewritten every tick.
type Camera struct {
	Target mgl64.Vec3
}

// Projectile marks a cannonball.
type Projectile struct{}

// Velocity is a linear velocity in units per second.
type Velocity struct {
	Value mgl64.Vec3
}

// RegisterComponents registers every component type the simulation spawns.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Agent](registry)
	ecs.RegisterComponent[Material](registry)
	ecs.RegisterComponent[PlayerTank](registry)
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[Projectile](registry)
	ecs.RegisterComponent[Velocity](registry)
}
