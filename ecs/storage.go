package ecs

import (
	"reflect"
	"slices"
	"strings"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage owns all entities, grouped by archetype, plus the singleton components.
// It is not safe for concurrent structural changes; systems mutate it through
// Commands, which are flushed between ticks.
type Storage struct {
	registry   *ComponentRegistry
	archetypes *intmap.Map[uint32, *Archetype]
	// order keeps archetypes in creation order so iteration is reproducible.
	order      []*Archetype
	singletons map[reflect.Type]*singletonEntry
}

type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: intmap.New[uint32, *Archetype](32),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry backing this storage.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := componentTypes(components)
	archetype := s.archetypeFor(types)
	slot := archetype.spawn(components)
	return archetype.entityId(int(slot))
}

// archetypeFor returns the archetype for the sorted type set, creating it on first use.
func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := hashTypes(types)
	if archetype, ok := s.archetypes.Get(id); ok {
		if !slices.Equal(archetype.types, types) {
			panic("archetype id collision between " + archetype.String() + " and " + typeList(types))
		}
		return archetype
	}

	archetype := newArchetype(id, types, s.registry)
	s.archetypes.Put(id, archetype)
	s.order = append(s.order, archetype)
	return archetype
}

// Delete removes the entity and reports whether it existed. Stale ids, including
// ids whose slot has since been reused, are ignored.
func (s *Storage) Delete(id EntityId) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return false
	}
	return archetype.delete(id)
}

// Alive reports whether id refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return false
	}
	_, ok = archetype.resolve(id)
	return ok
}

// GetComponent returns a pointer to the component of type t on the entity, or nil.
func (s *Storage) GetComponent(id EntityId, t reflect.Type) any {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return nil
	}
	return archetype.component(id, t)
}

// HasComponent checks if a live entity has a specific component type
func (s *Storage) HasComponent(id EntityId, t reflect.Type) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return false
	}
	if _, live := archetype.resolve(id); !live {
		return false
	}
	return archetype.HasComponent(t)
}

// GetArchetype returns the archetype holding exactly the given component values' types, or nil.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	archetype, _ := s.archetypes.Get(hashTypes(componentTypes(components)))
	return archetype
}

// Archetypes returns all archetypes in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return s.order
}

// Len returns the number of live entities across all archetypes.
func (s *Storage) Len() int {
	n := 0
	for _, archetype := range s.order {
		n += archetype.Len()
	}
	return n
}

// AddSingleton stores value as the singleton of its type, replacing any previous value.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	if t == nil {
		panic("cannot add nil singleton")
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.ValueOf(value))

	if entry, ok := s.singletons[t]; ok {
		// Keep the existing address so cached Singleton accessors stay valid.
		reflect.NewAt(t, entry.dataPtr).Elem().Set(ptr.Elem())
		return
	}
	s.singletons[t] = &singletonEntry{typ: t, dataPtr: ptr.UnsafePointer()}
}

// ReadSingleton points *target at the stored singleton of type T.
// target must be a **T; it returns false when no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}
	out := rv.Elem()
	entry := s.getSingletonEntry(out.Type().Elem())
	if entry == nil {
		return false
	}
	out.Set(reflect.NewAt(entry.typ, entry.dataPtr))
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// componentTypes returns the sorted component types of the given values.
func componentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		types = append(types, componentType(comp))
	}
	sortTypes(types)
	for i := 1; i < len(types); i++ {
		if types[i] == types[i-1] {
			panic("duplicate component type " + types[i].String())
		}
	}
	return types
}

// componentType returns the stored type of a component value. Pointers are
// dereferenced once; maps, channels and funcs are rejected.
func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t == nil {
		panic("nil component")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return t
}

func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
}

func typeList(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}

// hashTypes is FNV-1a over the sorted type names. Names are stable across runs,
// so archetype ids (and thus entity ids) are reproducible for the same spawn order.
func hashTypes(types []reflect.Type) uint32 {
	var h uint32 = 2166136261
	const prime uint32 = 16777619

	for _, t := range types {
		name := t.PkgPath() + "." + t.String()
		for i := 0; i < len(name); i++ {
			h ^= uint32(name[i])
			h *= prime
		}
		h ^= 0xff
		h *= prime
	}
	if h == 0 {
		h = 1
	}
	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a typed pointer to the entity's T component, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
