package world

// grabAuxMass is the mass given to the auxiliary body a grab's ball joint
// anchors to: heavy enough that the dragged part follows the mouse rather
// than the mouse point following the part.
const grabAuxMass = 100.0

// grabTargetMass is substituted for a grabbed part's own mass for the
// duration of the grab, so the rest of the ship doesn't fight the drag.
const grabTargetMass = 0.001

// Grab is one player's active mouse-drag: an auxiliary kinematic body that
// MoveGrab moves to the cursor on each MoveGrab message, ball-jointed to the
// part being dragged.
type Grab struct {
	Part        PartHandle
	originalMass float32
	auxBody     BodyHandle
	joint       JointHandle
}

// CommitGrab starts a new grab on the part with the given wire id, at world
// point (x, y). Returns false if the id doesn't resolve to a live part.
func (w *World) CommitGrab(grabbedID uint16, x, y float32) (*Grab, bool) {
	h, ok := w.GetByWireID(grabbedID)
	if !ok {
		return nil, false
	}
	part, ok := w.parts.Get(h)
	if !ok {
		return nil, false
	}

	aux := w.phys.AddBody(BodyKinematic, grabAuxMass, Vec2{x, y}, 0)
	original := w.phys.Mass(part.Body)
	w.phys.SetAdditionalMass(part.Body, grabTargetMass-original)
	joint := w.phys.AddBallJoint(aux, part.Body, Vec2{}, Vec2{})

	return &Grab{Part: h, originalMass: original, auxBody: aux, joint: joint}, true
}

// MoveGrab updates the anchor body to follow the cursor to (x, y).
func (w *World) MoveGrab(g *Grab, x, y float32) {
	if g == nil {
		return
	}
	w.phys.SetNextKinematicPosition(g.auxBody, Vec2{x, y}, 0)
}

// ReleaseGrab tears down the ball joint and auxiliary body, and restores the
// grabbed part's original mass.
func (w *World) ReleaseGrab(g *Grab) {
	if g == nil {
		return
	}
	w.phys.RemoveJoint(g.joint)
	w.phys.RemoveBody(g.auxBody)
	if part, ok := w.parts.Get(g.Part); ok {
		// CommitGrab set the additional mass to grabTargetMass-originalMass;
		// taking that back out of the current mass leaves the base mass.
		base := w.phys.Mass(part.Body) - (grabTargetMass - g.originalMass)
		w.phys.SetAdditionalMass(part.Body, g.originalMass-base)
	}
}
