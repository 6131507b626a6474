package ecs

// EntityId packs the archetype id (upper 32 bits), a slot generation (8 bits) and
// the storage slot (lower 24 bits). Deleting an entity bumps its slot's generation,
// so an id held past the delete stops resolving even after the slot is reused.
// Generations wrap after 256 deletes of the same slot.
type EntityId uint64

const (
	slotBits       = 24
	generationBits = 8

	// MaxSlot is the highest slot index an archetype can hold.
	MaxSlot = 1<<slotBits - 1
)

// NewEntityId creates an EntityId from an archetype ID, slot generation and slot index.
// index must not exceed MaxSlot.
func NewEntityId(archetypeId uint32, generation uint8, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(generation)<<slotBits | uint64(index&MaxSlot))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Generation extracts the slot generation the id was issued with.
func (e EntityId) Generation() uint8 {
	return uint8(e >> slotBits)
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & MaxSlot)
}
