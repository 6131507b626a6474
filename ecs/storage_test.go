package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/tankfield/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		generation  uint8
		index       uint32
	}{
		{0, 0, 0},
		{0xFFFFFFFF, 0xFF, ecs.MaxSlot},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0x12345678, 0x9A, 0xBCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,gen=%d,index=%d", tt.archetypeId, tt.generation, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.generation, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.generation, id.Generation())
			assert.Equal(t, tt.index, id.Index())
		})
	}
}

func TestSpawnAndGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3, Y: 4}, Name("scout"))
	assert.NotEqual(t, ecs.EntityId(0), id)
	assert.True(t, storage.Alive(id))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, Position{X: 3, Y: 4}, *pos)

	name := ecs.ReadComponent[Name](storage, id)
	require.NotNil(t, name)
	assert.Equal(t, Name("scout"), *name)

	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Name]()))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))
}

func TestComponentPointerIsLive(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	ecs.ReadComponent[Position](storage, id).X = 42
	assert.Equal(t, 42.0, ecs.ReadComponent[Position](storage, id).X)
}

func TestSameComponentSetSharesArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})
	c := storage.Spawn(Position{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a.ArchetypeId(), c.ArchetypeId())
	assert.Len(t, storage.Archetypes(), 2)
	assert.Equal(t, 3, storage.Len())

	archetype := storage.GetArchetype(Position{}, Velocity{})
	require.NotNil(t, archetype)
	assert.Equal(t, a.ArchetypeId(), archetype.ID())
	assert.Equal(t, 2, archetype.Len())
}

func TestArchetypeIdsAreStableAcrossStorages(t *testing.T) {
	registry := newTestRegistry()
	first := ecs.NewStorage(registry).Spawn(Position{}, Health{})
	second := ecs.NewStorage(registry).Spawn(Health{}, Position{})
	assert.Equal(t, first, second)
}

func TestDeleteEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	e1 := storage.Spawn(Position{X: 1})
	e2 := storage.Spawn(Position{X: 2})

	assert.True(t, storage.Delete(e1))
	assert.False(t, storage.Delete(e1), "second delete is a no-op")
	assert.False(t, storage.Alive(e1))
	assert.Nil(t, ecs.ReadComponent[Position](storage, e1))
	assert.Equal(t, 2.0, ecs.ReadComponent[Position](storage, e2).X)
	assert.Equal(t, 1, storage.Len())
}

func TestDeletedSlotIsReused(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	e1 := storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2})
	storage.Delete(e1)

	e3 := storage.Spawn(Position{X: 3})
	assert.Equal(t, e1.Index(), e3.Index())
	assert.NotEqual(t, e1, e3, "reused slot gets a new generation")
	assert.Equal(t, 3.0, ecs.ReadComponent[Position](storage, e3).X)
}

func TestStaleIdDoesNotResolveToReusedSlot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	old := storage.Spawn(Position{X: 1})
	require.True(t, storage.Delete(old))
	fresh := storage.Spawn(Position{X: 2})
	require.Equal(t, old.Index(), fresh.Index())

	assert.False(t, storage.Alive(old))
	assert.Nil(t, ecs.ReadComponent[Position](storage, old))
	assert.False(t, storage.HasComponent(old, reflect.TypeFor[Position]()))
	assert.Nil(t, ecs.NewView[struct{ *Position }](storage).Get(old))

	assert.False(t, storage.Delete(old), "stale delete must not remove the new occupant")
	assert.True(t, storage.Alive(fresh))
	assert.Equal(t, 2.0, ecs.ReadComponent[Position](storage, fresh).X)
}

func TestManyEntitiesAcrossBlocks(t *testing.T) {
	registry := newTestRegistry()
	ecs.RegisterComponent[Counter](registry)
	storage := ecs.NewStorage(registry)

	ids := make([]ecs.EntityId, 1000)
	for i := range ids {
		ids[i] = storage.Spawn(Counter{Value: i})
	}
	first := ecs.ReadComponent[Counter](storage, ids[0])

	for i, id := range ids {
		assert.Equal(t, i, ecs.ReadComponent[Counter](storage, id).Value)
	}
	assert.Same(t, first, ecs.ReadComponent[Counter](storage, ids[0]), "growing storage must not move components")
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() })
	assert.Panics(t, func() { storage.Spawn(Position{}, Position{}) })
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
	assert.Panics(t, func() { storage.Spawn(Counter{}) }, "unregistered component")
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var health *Health
	assert.False(t, storage.ReadSingleton(&health))

	storage.AddSingleton(Health{Current: 10, Max: 20})
	require.True(t, storage.ReadSingleton(&health))
	assert.Equal(t, 10, health.Current)

	health.Current = 15
	var again *Health
	require.True(t, storage.ReadSingleton(&again))
	assert.Same(t, health, again)

	storage.AddSingleton(Health{Current: 1, Max: 1})
	assert.Equal(t, 1, health.Current, "replacing a singleton keeps its address")
}

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Equal(t, 0, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.TotalEntityCount)
	assert.Equal(t, 0, stats.SingletonCount)

	storage.Spawn(Position{}, Name("a"))
	storage.Spawn(Position{}, Name("b"))
	doomed := storage.Spawn(Velocity{})
	storage.Spawn(Velocity{})
	storage.Delete(doomed)
	ecs.NewSingleton[Health](storage)

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Health"}, stats.SingletonTypes)

	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, []string{"ecs_test.Name", "ecs_test.Position"}, stats.ArchetypeBreakdown[0].ComponentTypes)
	assert.Equal(t, 2, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Equal(t, 1, stats.ArchetypeBreakdown[1].EntityCount)
}
