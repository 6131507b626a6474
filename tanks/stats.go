package tanks

import "github.com/plus3/tankfield/ecs"

// SimStats is the singleton holding simulation counters. Projectiles and Agents
// describe the world after the last end-of-tick flush.
type SimStats struct {
	Tick          uint64
	Elapsed       float64
	LastDeltaTime float64

	Agents      int
	Projectiles int

	// Spawned and Despawned are running totals.
	Spawned   uint64
	Despawned uint64
}

// Live returns the number of projectiles fired and not yet removed.
func (s SimStats) Live() uint64 {
	return s.Spawned - s.Despawned
}

// projectileShape is the component set SpawnProjectile uses.
var projectileShape = []any{Transform{}, Velocity{}, Material(0), Projectile{}}

// StatsSystem runs last. It advances the clock counters and, once the tick's
// commands have been applied, records the entity counts.
type StatsSystem struct {
	Agents ecs.Query[struct{ *Agent }]
	Stats  ecs.Singleton[SimStats]

	Metrics *Metrics
}

func (s *StatsSystem) Execute(frame *ecs.UpdateFrame) {
	stats := s.Stats.MustGet()
	stats.Tick = frame.Tick
	stats.Elapsed += frame.DeltaTime
	stats.LastDeltaTime = frame.DeltaTime
	stats.Agents = s.Agents.Len()

	frame.Commands.Defer(func() {
		stats.Projectiles = 0
		if a := frame.Storage.GetArchetype(projectileShape...); a != nil {
			stats.Projectiles = a.Len()
		}
		s.Metrics.setLive(stats.Projectiles)
	})
}
