package tanks

import (
	"fmt"
	"time"

	"github.com/plus3/tankfield/ecs"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// DefaultAgents is the number of autonomous tanks in the reference scene.
const DefaultAgents = 19

// Options configures NewWorld.
type Options struct {
	Seed   int64
	Agents int
	Tuning Tuning

	// Workers caps the goroutines used by the projectile pass; 0 means GOMAXPROCS.
	Workers   int
	ChunkSize int

	Logger zerolog.Logger
	// Meter receives the simulation instruments. Nil uses the global meter.
	Meter metric.Meter
}

// DefaultOptions returns the reference scene with logging disabled.
func DefaultOptions() Options {
	return Options{
		Agents:    DefaultAgents,
		Tuning:    DefaultTuning(),
		ChunkSize: ecs.DefaultChunkSize,
		Logger:    zerolog.Nop(),
	}
}

// World owns the entity storage and the tick pipeline of one simulation.
type World struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	stats     *ecs.Singleton[SimStats]
	input     *ecs.Singleton[PlayerInput]
	metrics   *Metrics
	logger    zerolog.Logger
}

// NewWorld builds the storage, adds the singletons, populates the scene and
// registers the systems in tick order.
func NewWorld(opts Options) (*World, error) {
	if err := opts.Tuning.Validate(); err != nil {
		return nil, err
	}
	if opts.Agents < 0 {
		return nil, fmt.Errorf("agent count must not be negative, got %d", opts.Agents)
	}

	metrics, err := NewMetrics(opts.Meter)
	if err != nil {
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	ecs.NewSingleton(storage, Noise{Field: NewNoiseField(opts.Seed)})
	ecs.NewSingleton(storage, opts.Tuning)
	w := &World{
		storage: storage,
		stats:   ecs.NewSingleton(storage, SimStats{}),
		input:   ecs.NewSingleton(storage, PlayerInput{}),
		metrics: metrics,
		logger:  opts.Logger,
	}

	Setup(storage, opts.Agents)
	w.stats.MustGet().Agents = opts.Agents

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&PlayerSystem{})
	scheduler.Register(&AgentMotionSystem{Metrics: metrics})
	scheduler.Register(&ProjectileSystem{
		Metrics:   metrics,
		Workers:   opts.Workers,
		ChunkSize: opts.ChunkSize,
	})
	scheduler.Register(&CameraSystem{})
	scheduler.Register(&StatsSystem{Metrics: metrics})
	w.scheduler = scheduler

	w.logger.Info().
		Int64("seed", opts.Seed).
		Int("agents", opts.Agents).
		Int("workers", opts.Workers).
		Int("chunkSize", opts.ChunkSize).
		Msg("world ready")

	return w, nil
}

// Setup spawns the reference scene: the player tank, the camera and agents with
// ids 1..agents, all at the origin with identity rotation.
func Setup(storage *ecs.Storage, agents int) {
	storage.Spawn(PlayerTank{}, Identity(), PlayerMaterial)
	storage.Spawn(Camera{}, Identity())
	for id := 1; id <= agents; id++ {
		storage.Spawn(Agent{ID: uint32(id)}, Identity(), Material(id))
	}
}

// Step runs one tick of dt seconds.
func (w *World) Step(dt float64) ecs.FlushResult {
	start := time.Now()
	res := w.scheduler.Once(dt)
	w.metrics.recordTick(time.Since(start))

	if e := w.logger.Trace(); e.Enabled() {
		e.Uint64("tick", w.stats.MustGet().Tick).
			Int("spawned", res.Spawned).
			Int("despawned", res.Deleted).
			Msg("tick")
	}
	return res
}

// Stats returns a copy of the simulation counters.
func (w *World) Stats() SimStats {
	return *w.stats.MustGet()
}

// SetInput replaces the player input applied from the next tick.
func (w *World) SetInput(input PlayerInput) {
	*w.input.MustGet() = input
}

// Storage exposes the entity store to renderers and diagnostics.
func (w *World) Storage() *ecs.Storage {
	return w.storage
}

// Scheduler exposes the tick pipeline for its per-system stats.
func (w *World) Scheduler() *ecs.Scheduler {
	return w.scheduler
}
