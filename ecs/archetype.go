package ecs

import (
	"iter"
	"reflect"
	"slices"
)

// Archetype holds every entity that has exactly one particular set of component types.
// Columns are appended and deleted in lockstep, so a slot index addresses the same
// entity in every column.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []componentColumn
	// generations is indexed by slot and bumped on every delete.
	generations []uint8
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]componentColumn, len(types)),
	}
	for idx, typ := range types {
		a.columns[idx] = registry.newColumn(typ)
	}
	return a
}

// spawn writes one entity into the archetype and returns its slot.
// components must contain exactly one value per archetype type.
func (a *Archetype) spawn(components []any) uint32 {
	slot := -1
	for _, comp := range components {
		idx := a.columnIndex(componentType(comp))
		if idx < 0 {
			panic("component " + componentType(comp).String() + " does not belong to archetype")
		}
		slot = a.columns[idx].Append(comp)
	}
	if slot > MaxSlot {
		panic("archetype " + a.String() + " exceeds its slot capacity")
	}
	for len(a.generations) <= slot {
		a.generations = append(a.generations, 0)
	}
	return uint32(slot)
}

// entityId returns the current id of slot.
func (a *Archetype) entityId(slot int) EntityId {
	return NewEntityId(a.id, a.generations[slot], uint32(slot))
}

// resolve returns the slot of id if it still names a live entity of this archetype.
func (a *Archetype) resolve(id EntityId) (int, bool) {
	slot := int(id.Index())
	if len(a.columns) == 0 || !a.columns[0].Has(slot) {
		return 0, false
	}
	if a.generations[slot] != id.Generation() {
		return 0, false
	}
	return slot, true
}

func (a *Archetype) columnIndex(t reflect.Type) int {
	for i, typ := range a.types {
		if typ == t {
			return i
		}
	}
	return -1
}

// component returns a pointer to the component of type t on id, or nil.
func (a *Archetype) component(id EntityId, t reflect.Type) any {
	idx := a.columnIndex(t)
	if idx < 0 {
		return nil
	}
	slot, ok := a.resolve(id)
	if !ok {
		return nil
	}
	return a.columns[idx].Get(slot)
}

func (a *Archetype) delete(id EntityId) bool {
	slot, ok := a.resolve(id)
	if !ok {
		return false
	}
	for _, col := range a.columns {
		col.Delete(slot)
	}
	a.generations[slot]++
	return true
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(t reflect.Type) bool {
	return slices.Contains(a.types, t)
}

// ID returns the archetype's identifier, which is also the upper half of its entity ids.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the component types of this archetype, sorted by name.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in the archetype.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// String renders the archetype as its sorted type list, e.g. "{tanks.Agent,tanks.Transform}".
func (a *Archetype) String() string {
	return typeList(a.types)
}

// Iter returns an iterator over the ids of all live entities in this archetype.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for slot := range a.columns[0].Iter() {
			if !yield(a.entityId(slot)) {
				return
			}
		}
	}
}
