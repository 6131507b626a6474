package tanks

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tankfield/ecs"
)

// Forward returns the horizontal unit direction for heading angle.
func Forward(angle float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(angle), 0, math.Cos(angle)}
}

// Drive moves pose along heading angle for dt seconds at speed and snaps its
// rotation to that heading.
func Drive(pose Transform, angle, speed, dt float64) Transform {
	pose.Translation = pose.Translation.Add(Forward(angle).Mul(dt * speed))
	pose.Rotation = Yaw(angle)
	return pose
}

// AgentMotionSystem steers every agent through the noise field and has it fire
// one projectile per tick from its new pose.
type AgentMotionSystem struct {
	Agents ecs.Query[struct {
		*Agent
		*Transform
		*Material
	}]
	Noise  ecs.Singleton[Noise]
	Tuning ecs.Singleton[Tuning]
	Stats  ecs.Singleton[SimStats]

	Metrics *Metrics
}

func (s *AgentMotionSystem) Execute(frame *ecs.UpdateFrame) {
	field := s.Noise.MustGet().Field
	tuning := s.Tuning.MustGet()

	fired := 0
	for agent := range s.Agents.Values() {
		// The heading is sampled at the position held before this tick's move.
		angle := field.Heading(agent.Agent.ID, agent.Transform.Translation, tuning.NoiseFrequency)
		*agent.Transform = Drive(*agent.Transform, angle, tuning.AgentSpeed, frame.DeltaTime)

		SpawnProjectile(frame.Commands, *agent.Transform, *agent.Material, tuning)
		fired++
	}

	s.Stats.MustGet().Spawned += uint64(fired)
	s.Metrics.addSpawned(fired)
}
