package tanks_test

import (
	"testing"

	"github.com/plus3/tankfield/tanks"
)

// warmWorld returns a world that has reached its steady projectile population.
func warmWorld(b *testing.B, agents, workers int) *tanks.World {
	opts := tanks.DefaultOptions()
	opts.Agents = agents
	opts.Workers = workers
	world, err := tanks.NewWorld(opts)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 900; i++ {
		world.Step(1.0 / 60)
	}
	return world
}

func BenchmarkStep(b *testing.B) {
	world := warmWorld(b, tanks.DefaultAgents, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		world.Step(1.0 / 60)
	}
}

func BenchmarkStepSingleWorker(b *testing.B) {
	world := warmWorld(b, tanks.DefaultAgents, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		world.Step(1.0 / 60)
	}
}

func BenchmarkIntegrate(b *testing.B) {
	tuning := tanks.DefaultTuning()
	pose, velocity := tuning.Launch(tanks.Identity())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if tuning.Integrate(&pose, &velocity, 1.0/60) {
			pose, velocity = tuning.Launch(tanks.Identity())
		}
	}
}

func BenchmarkHeading(b *testing.B) {
	field := tanks.NewNoiseField(1)
	pose := tanks.Identity()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pose.Translation[0] = float64(i) * 0.01
		_ = field.Heading(uint32(i%19+1), pose.Translation, 10)
	}
}
