package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/tankfield/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *movementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for item := range s.Entities.Values() {
		item.Position.X += item.Velocity.DX * frame.DeltaTime
		item.Position.Y += item.Velocity.DY * frame.DeltaTime
	}
}

type tickRecorder struct {
	Ticks  ecs.Singleton[Counter]
	frames []uint64
}

func (s *tickRecorder) Execute(frame *ecs.UpdateFrame) {
	s.Ticks.Get().Value++
	s.frames = append(s.frames, frame.Tick)
}

type orderProbe struct {
	name string
	log  *[]string
}

func (s *orderProbe) Execute(*ecs.UpdateFrame) {
	*s.log = append(*s.log, s.name)
}

func TestSchedulerRunsSystemsInOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var log []string
	scheduler.Register(&orderProbe{name: "agents", log: &log})
	scheduler.Register(&orderProbe{name: "projectiles", log: &log})
	scheduler.Register(&orderProbe{name: "camera", log: &log})

	scheduler.Once(0.1)
	scheduler.Once(0.1)
	assert.Equal(t, []string{"agents", "projectiles", "camera", "agents", "projectiles", "camera"}, log)
}

func TestSchedulerRefreshesQueriesEachTick(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	movement := &movementSystem{}
	scheduler.Register(movement)

	first := storage.Spawn(Position{}, Velocity{DX: 1, DY: 2})
	scheduler.Once(1.0)
	second := storage.Spawn(Position{}, Velocity{DX: 1})
	scheduler.Once(0.5)

	assert.Equal(t, 2, movement.ExecuteCount)
	assert.Equal(t, Position{X: 1.5, Y: 3}, *ecs.ReadComponent[Position](storage, first))
	assert.Equal(t, Position{X: 0.5}, *ecs.ReadComponent[Position](storage, second))
}

func TestSchedulerBindsSingletons(t *testing.T) {
	registry := newTestRegistry()
	storage := ecs.NewStorage(registry)
	counter := ecs.NewSingleton[Counter](storage, Counter{Value: 10})

	scheduler := ecs.NewScheduler(storage)
	recorder := &tickRecorder{}
	scheduler.Register(recorder)

	scheduler.Once(0)
	scheduler.Once(0)
	scheduler.Once(0)

	assert.Equal(t, 13, counter.Get().Value)
	assert.Equal(t, []uint64{1, 2, 3}, recorder.frames)
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	stats := scheduler.GetStats()
	assert.Equal(t, 0, stats.SystemCount)
	assert.Equal(t, int64(0), stats.TotalExecutions)

	scheduler.Register(&movementSystem{})
	scheduler.Register(&spawnSystem{})
	for i := 0; i < 5; i++ {
		scheduler.Once(1.0 / 60.0)
	}

	stats = scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(10), stats.TotalExecutions)
	assert.Equal(t, uint64(5), stats.Ticks)
	assert.Equal(t, 2, stats.LastFlush.Spawned)

	require.Len(t, stats.Systems, 2)
	assert.Equal(t, "movementSystem", stats.Systems[0].Name)
	assert.Equal(t, "spawnSystem", stats.Systems[1].Name)
	for _, st := range stats.Systems {
		assert.Equal(t, int64(5), st.ExecutionCount)
		assert.LessOrEqual(t, st.MinDuration, st.AvgDuration)
		assert.LessOrEqual(t, st.AvgDuration, st.MaxDuration)
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&spawnSystem{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
	assert.Greater(t, scheduler.GetStats().Ticks, uint64(0))
}
