package world

// PartHandle is a stable, generational reference to a Part. Reusing a slot
// bumps its generation, so a stale handle into a removed-and-reused slot
// fails Get rather than silently resolving to the wrong part.
type PartHandle struct {
	index      uint32
	generation uint32
}

// Arena is a generational arena of Parts: the only way parts are addressed
// across the session/game boundary, so a part tree never needs raw pointers
// or cyclic ownership.
type Arena struct {
	slots    []arenaSlot
	freeList []uint32
}

type arenaSlot struct {
	generation uint32
	occupied   bool
	part       Part
}

// NewArena returns an empty arena.
func NewArena() *Arena { return &Arena{} }

// Insert stores part and returns its handle.
func (a *Arena) Insert(part Part) PartHandle {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		slot := &a.slots[idx]
		slot.occupied = true
		slot.part = part
		return PartHandle{index: idx, generation: slot.generation}
	}
	a.slots = append(a.slots, arenaSlot{generation: 1, occupied: true, part: part})
	return PartHandle{index: uint32(len(a.slots) - 1), generation: 1}
}

// Get returns the part at h, or false if the handle is stale or unknown.
func (a *Arena) Get(h PartHandle) (*Part, bool) {
	if int(h.index) >= len(a.slots) {
		return nil, false
	}
	slot := &a.slots[h.index]
	if !slot.occupied || slot.generation != h.generation {
		return nil, false
	}
	return &slot.part, true
}

// Remove deletes the part at h, bumping its slot's generation so stale
// handles stop resolving. Reports whether h was live.
func (a *Arena) Remove(h PartHandle) (Part, bool) {
	if int(h.index) >= len(a.slots) {
		return Part{}, false
	}
	slot := &a.slots[h.index]
	if !slot.occupied || slot.generation != h.generation {
		return Part{}, false
	}
	removed := slot.part
	slot.occupied = false
	slot.part = Part{}
	slot.generation++
	a.freeList = append(a.freeList, h.index)
	return removed, true
}

// Each calls fn for every live part in the arena.
func (a *Arena) Each(fn func(PartHandle, *Part)) {
	for i := range a.slots {
		slot := &a.slots[i]
		if slot.occupied {
			fn(PartHandle{index: uint32(i), generation: slot.generation}, &slot.part)
		}
	}
}
