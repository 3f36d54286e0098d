package world

// WireID is the u16 identifier a Part is known by on the wire (AddPart.ID,
// MovePart.ID, CommitGrab.GrabbedID, ...). It is derived from the arena
// index, so it is stable for the part's lifetime and gets reused only after
// the slot is recycled (guarded by the arena's generation check on lookup).
func (h PartHandle) WireID() uint16 { return uint16(h.index) }

// Attachment binds a parent part's slot to a child part via a fixed joint.
type Attachment struct {
	Child PartHandle
	Joint JointHandle
}

// Part is one rigid-body game object: a kind, the physics body/collider
// backing it, and up to four attachment slots holding children.
type Part struct {
	Kind        PartKind
	Body        BodyHandle
	Collider    ColliderHandle
	Attachments [4]*Attachment
}

// recurseDetails carries the accumulated world-space pose context while
// walking a part tree (rotation and facing composition), mirroring the
// original engine's PartVisitDetails.
type recurseDetails struct {
	x, y     float32
	rot      float32
	trueFace Facing
}

// inflate builds one part (and, recursively, its described attachments) in
// the world at the given pose, wiring up bodies/colliders/joints through
// the physics collaborator.
func (w *World) inflate(desc *RecursivePartDescription, details recurseDetails, owner *uint16) PartHandle {
	status := BodyDynamic
	mass := Mass(desc.Kind)
	body := w.phys.AddBody(status, mass, Vec2{details.x, details.y}, details.rot)

	var tag Tag128
	if owner != nil {
		tag = PartOfPlayerTag(*owner)
	} else {
		tag = InvalidTag128
	}
	offset := ColliderOffset(desc.Kind)
	collider := w.phys.AddCollider(body, unitHalfExtent, offset, tag)

	part := Part{Kind: desc.Kind, Body: body, Collider: collider}
	handle := w.parts.Insert(part)
	w.partsByBody[body] = handle
	w.partsByWireID[handle.WireID()] = handle

	slots := AttachmentLocations(desc.Kind)
	for i := 0; i < 4; i++ {
		child := desc.Attachments[i]
		slot := slots[i]
		if child == nil || slot == nil {
			continue
		}
		trueFace := slot.Facing.ComposeTrueFacing(details.trueFace)
		dx, dy := trueFace.DeltaRelPart()
		childRot := details.rot + slot.Facing.rotationRadians()
		childDetails := recurseDetails{
			x:        details.x + dx,
			y:        details.y + dy,
			rot:      childRot,
			trueFace: trueFace,
		}
		childHandle := w.inflate(child, childDetails, owner)
		anchorParent := Vec2{dx / 2, dy / 2}
		anchorChild := Vec2{-dx / 2, -dy / 2}
		joint := w.phys.AddFixedJoint(body, w.mustBody(childHandle), anchorParent, anchorChild)

		// Re-fetch: inflate may have grown the arena's backing slice.
		p, _ := w.parts.Get(handle)
		p.Attachments[i] = &Attachment{Child: childHandle, Joint: joint}
	}
	return handle
}

func (w *World) mustBody(h PartHandle) BodyHandle {
	p, ok := w.parts.Get(h)
	if !ok {
		return 0
	}
	return p.Body
}

// deflate serializes a part (and its surviving attachments) back into a
// RecursivePartDescription for beam-out. Cargo parts are elided to prevent
// duplicating player-created resources, per spec §4.5.
func (w *World) deflate(h PartHandle) *RecursivePartDescription {
	part, ok := w.parts.Get(h)
	if !ok {
		return nil
	}
	desc := &RecursivePartDescription{Kind: part.Kind}
	for i, att := range part.Attachments {
		if att == nil {
			continue
		}
		child, ok := w.parts.Get(att.Child)
		if !ok || child.Kind == PartCargo {
			continue
		}
		desc.Attachments[i] = w.deflate(att.Child)
	}
	return desc
}

// DetachAttachment breaks the fixed joint at parent's slot i, if any, and
// returns the detached subtree's root handle. The subtree's colliders lose
// their player tag (they become free-floating and player-agnostic), but the
// subtree is not itself deleted: callers recurse into it separately.
func (w *World) DetachAttachment(parent PartHandle, slot int) (PartHandle, bool) {
	p, ok := w.parts.Get(parent)
	if !ok || slot < 0 || slot >= 4 || p.Attachments[slot] == nil {
		return PartHandle{}, false
	}
	att := p.Attachments[slot]
	child := att.Child
	w.phys.RemoveJoint(att.Joint)
	p.Attachments[slot] = nil

	w.DetachAllBelow(child)
	return child, true
}

// makePlayerAgnostic strips player ownership from one part's collider tag
// (not recursive: callers walk the subtree themselves).
func (w *World) makePlayerAgnostic(part *Part) {
	w.phys.SetColliderTag(part.Collider, InvalidTag128)
}

// DetachAllBelow strips player ownership from h and every part still
// attached beneath it, without breaking any joints. Used after
// DetachAttachment to make a whole broken-off subtree player-agnostic, not
// just its root.
func (w *World) DetachAllBelow(h PartHandle) {
	part, ok := w.parts.Get(h)
	if !ok {
		return
	}
	w.makePlayerAgnostic(part)
	for _, att := range part.Attachments {
		if att != nil {
			w.DetachAllBelow(att.Child)
		}
	}
}

// DeleteRecursive removes a part and everything still attached to it,
// releasing bodies/colliders/joints back to the physics collaborator.
func (w *World) DeleteRecursive(h PartHandle) {
	part, ok := w.parts.Remove(h)
	if !ok {
		return
	}
	delete(w.partsByBody, part.Body)
	delete(w.partsByWireID, h.WireID())
	for _, att := range part.Attachments {
		if att == nil {
			continue
		}
		w.phys.RemoveJoint(att.Joint)
		w.DeleteRecursive(att.Child)
	}
	w.phys.RemoveCollider(part.Collider)
	w.phys.RemoveBody(part.Body)
}

// RecursivePartDescription is the JSON persistence shape of a part tree
// (spec §6): a kind and up to N_slots optional child descriptions.
type RecursivePartDescription struct {
	Kind        PartKind                       `json:"kind"`
	Attachments [4]*RecursivePartDescription `json:"attachments"`
}
