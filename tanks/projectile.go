package tanks

import (
	"sync/atomic"

	"github.com/plus3/tankfield/ecs"
)

// Launch returns the initial pose and velocity of a projectile fired from firing.
// Both local muzzle vectors are rotated into world space by the firer's rotation;
// the projectile keeps that rotation for its whole life.
func (t *Tuning) Launch(firing Transform) (Transform, Velocity) {
	pose := Transform{
		Translation: firing.Translation.Add(firing.Rotation.Rotate(t.MuzzleOffset)),
		Rotation:    firing.Rotation,
	}
	velocity := Velocity{
		Value: firing.Rotation.Rotate(t.MuzzleDirection.Mul(t.MuzzleSpeed)),
	}
	return pose, velocity
}

// SpawnProjectile queues exactly one projectile fired from firing.
func SpawnProjectile(commands *ecs.Commands, firing Transform, material Material, t *Tuning) {
	pose, velocity := t.Launch(firing)
	commands.Spawn(pose, velocity, material, Projectile{})
}

// Integrate advances one projectile by dt and reports whether it should despawn.
// Order matters: translate with last tick's velocity, bounce off the floor,
// apply gravity, then test the squared speed.
func (t *Tuning) Integrate(pose *Transform, velocity *Velocity, dt float64) bool {
	pose.Translation = pose.Translation.Add(velocity.Value.Mul(dt))

	if pose.Translation[1] < t.FloorHeight {
		pose.Translation[1] = t.FloorHeight
		velocity.Value[0] *= t.BounceDamping
		velocity.Value[1] *= -t.BounceDamping
		velocity.Value[2] *= t.BounceDamping
	}

	velocity.Value[1] -= t.Gravity * dt

	return velocity.Value.Dot(velocity.Value) < t.DespawnSpeedSq
}

// ProjectileSystem integrates all projectiles in parallel. Spent projectiles are
// queued for deletion and removed at the end of the tick.
type ProjectileSystem struct {
	Projectiles ecs.Query[struct {
		ecs.EntityId
		*Transform
		*Velocity
		*Projectile
	}]
	Tuning ecs.Singleton[Tuning]
	Stats  ecs.Singleton[SimStats]

	Metrics *Metrics
	// Workers and ChunkSize are passed to Query.SetParallelism.
	Workers   int
	ChunkSize int
}

func (s *ProjectileSystem) Execute(frame *ecs.UpdateFrame) {
	tuning := s.Tuning.MustGet()
	dt := frame.DeltaTime

	var despawned atomic.Int64
	s.Projectiles.SetParallelism(s.Workers, s.ChunkSize)
	s.Projectiles.ParEach(func(id ecs.EntityId, p struct {
		ecs.EntityId
		*Transform
		*Velocity
		*Projectile
	}) {
		if tuning.Integrate(p.Transform, p.Velocity, dt) {
			frame.Commands.Delete(id)
			despawned.Add(1)
		}
	})

	n := despawned.Load()
	s.Stats.MustGet().Despawned += uint64(n)
	s.Metrics.addDespawned(int(n))
}
