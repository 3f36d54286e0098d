package world

// World owns every live part, the planet table, and the physics
// collaborator. The game task is the only task that ever touches a World.
type World struct {
	phys          Physics
	parts         *Arena
	partsByBody   map[BodyHandle]PartHandle
	partsByWireID map[uint16]PartHandle
	Planets       *Planets
}

// NewWorld builds an empty world with a freshly seeded solar system.
func NewWorld(phys Physics) *World {
	w := &World{
		phys:          phys,
		parts:         NewArena(),
		partsByBody:   make(map[BodyHandle]PartHandle),
		partsByWireID: make(map[uint16]PartHandle),
	}
	w.Planets = NewPlanets(phys)
	return w
}

// Inflate builds a part tree from desc at the given world position, owned
// by ownerPlayer (nil for unowned/free parts), and returns its root handle.
func (w *World) Inflate(desc *RecursivePartDescription, x, y float32, ownerPlayer *uint16) PartHandle {
	return w.inflate(desc, recurseDetails{x: x, y: y, rot: 0, trueFace: FacingUp}, ownerPlayer)
}

// Deflate serializes the part tree rooted at h.
func (w *World) Deflate(h PartHandle) *RecursivePartDescription { return w.deflate(h) }

// Get returns the part at h.
func (w *World) Get(h PartHandle) (*Part, bool) { return w.parts.Get(h) }

// GetByWireID resolves a u16 wire identifier back to a handle.
func (w *World) GetByWireID(id uint16) (PartHandle, bool) {
	h, ok := w.partsByWireID[id]
	if !ok {
		return PartHandle{}, false
	}
	if _, live := w.parts.Get(h); !live {
		delete(w.partsByWireID, id)
		return PartHandle{}, false
	}
	return h, true
}

// partByBody resolves a collider's owning body back to a part handle, used
// when the physics collaborator reports a contact against a collider.
func (w *World) partByBody(b BodyHandle) (PartHandle, bool) {
	h, ok := w.partsByBody[b]
	return h, ok
}

// Each visits every live part.
func (w *World) Each(fn func(PartHandle, *Part)) { w.parts.Each(fn) }

// Position returns a part's world position and (cos, sin) rotation.
func (w *World) Position(h PartHandle) (Vec2, float32, float32, bool) {
	part, ok := w.parts.Get(h)
	if !ok {
		return Vec2{}, 0, 0, false
	}
	pos, cos, sin := w.phys.Position(part.Body)
	return pos, cos, sin, true
}

// Velocity returns a part's linear velocity.
func (w *World) Velocity(h PartHandle) (Vec2, bool) {
	part, ok := w.parts.Get(h)
	if !ok {
		return Vec2{}, false
	}
	return w.phys.LinearVelocity(part.Body), true
}
