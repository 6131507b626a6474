package ecs_test

import (
	"testing"

	"github.com/plus3/tankfield/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewIterRequiredComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 2}, Velocity{DX: 2}, Name("named"))
	storage.Spawn(Position{X: 3})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	sum := 0.0
	for _, item := range view.Iter() {
		assert.Equal(t, item.Position.X, item.Velocity.DX)
		sum += item.Position.X
	}
	assert.Equal(t, 3.0, sum)
	assert.Equal(t, 2, view.Count())
}

func TestViewOptionalComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	withName := storage.Spawn(Position{X: 1}, Name("alpha"))
	without := storage.Spawn(Position{X: 2})

	view := ecs.NewView[struct {
		*Position
		Name *Name `ecs:"optional"`
	}](storage)

	item := view.Get(withName)
	require.NotNil(t, item)
	require.NotNil(t, item.Name)
	assert.Equal(t, Name("alpha"), *item.Name)

	item = view.Get(without)
	require.NotNil(t, item)
	assert.Nil(t, item.Name)
	assert.Equal(t, 2, view.Count())
}

func TestViewEntityIdField(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	a := storage.Spawn(Position{X: 1})
	b := storage.Spawn(Position{X: 2}, Marker{})

	embedded := ecs.NewView[struct {
		ecs.EntityId
		*Position
	}](storage)
	seen := map[ecs.EntityId]float64{}
	for id, item := range embedded.Iter() {
		assert.Equal(t, id, item.EntityId)
		seen[item.EntityId] = item.Position.X
	}
	assert.Equal(t, map[ecs.EntityId]float64{a: 1, b: 2}, seen)

	named := ecs.NewView[struct {
		Id ecs.EntityId
		*Marker
	}](storage)
	item := named.Get(b)
	require.NotNil(t, item)
	assert.Equal(t, b, item.Id)
	assert.Nil(t, named.Get(a))
}

func TestViewMutatesStorage(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Velocity{DX: 2})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)
	for item := range view.Values() {
		item.Position.X += item.Velocity.DX
	}
	assert.Equal(t, 3.0, ecs.ReadComponent[Position](storage, id).X)
}

func TestViewRejectsBadShapes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ Position }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			Position *Position `ecs:"sometimes"`
		}](storage)
	})
	assert.Panics(t, func() {
		ecs.NewView[struct {
			A ecs.EntityId
			B ecs.EntityId
		}](storage)
	})
}
