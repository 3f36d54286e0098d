package world

// Gravitational constant, folded into the dominant-axis force decomposition
// below. Spec fixes G=1.
const gravityConstant = 1.0

// PART_JOINT_MAX_FORCE / PART_JOINT_MAX_TORQUE: a fixed joint whose resolved
// impulse reaches or exceeds either threshold snaps, detaching its child
// subtree.
const (
	partJointMaxForce  = 52.5
	partJointMaxTorque = 15.0
)

// SimEventKind discriminates the events a Simulation.Step can emit.
type SimEventKind int

const (
	EventPartsDetached SimEventKind = iota
	EventPlayerTouchPlanet
	EventPlayerUntouchPlanet
	EventPlayerIncinerated
)

// SimEvent is one notable occurrence during a tick, for the game task to
// translate into wire messages.
type SimEvent struct {
	Kind   SimEventKind
	Parts  []PartHandle // EventPartsDetached: every part in the freed subtree
	Player uint16        // EventPlayerTouchPlanet / EventPlayerUntouchPlanet / EventPlayerIncinerated
	Part   PartHandle
	Planet uint8
}

// Simulation owns a World and drives its tick loop: orbit advance, gravity,
// N physics substeps, joint-overload detach, and contact processing.
type Simulation struct {
	World        *World
	TickPeriod   float32
	StepsPerBatch int
}

// NewSimulation wires a tick loop around w with the spec defaults: 1/20s
// ticks, 3 substeps per tick.
func NewSimulation(w *World) *Simulation {
	return &Simulation{World: w, TickPeriod: 1.0 / 20.0, StepsPerBatch: 3}
}

// Step advances the simulation by one tick and returns the events produced.
func (s *Simulation) Step() []SimEvent {
	w := s.World
	w.Planets.AdvanceOrbits(w.phys)
	s.applyGravity()

	substep := s.TickPeriod / float32(s.StepsPerBatch)
	var contactEvents []ContactEvent
	var events []SimEvent
	for i := 0; i < s.StepsPerBatch; i++ {
		contactEvents = append(contactEvents, w.phys.Step(substep)...)
		// Scan after every substep, not just the last: a joint's resolved
		// impulse reflects only the substep that produced it, so an overload
		// in an early substep would otherwise be masked by a calmer final one.
		events = append(events, s.scanJointOverloads()...)
	}

	events = append(events, s.processContacts(contactEvents)...)
	s.stickActiveContacts()
	return events
}

// applyGravity attracts every part body toward every planet, decomposed
// along the dominant axis to avoid atan2 per spec §4.3.
func (s *Simulation) applyGravity() {
	w := s.World
	type body struct {
		handle BodyHandle
		mass   float32
	}
	var planets []body
	w.Planets.Each(func(c *CelestialObject) {
		planets = append(planets, body{c.Body, c.Mass})
	})

	w.Each(func(_ PartHandle, part *Part) {
		partPos, _, _ := w.phys.Position(part.Body)
		partMass := w.phys.Mass(part.Body)
		for _, planet := range planets {
			planetPos, _, _ := w.phys.Position(planet.handle)
			dx := planetPos.X - partPos.X
			dy := planetPos.Y - partPos.Y
			distSq := dx*dx + dy*dy
			if distSq < 1e-6 {
				continue
			}
			magnitude := gravityConstant * partMass * planet.mass / distSq

			var fx, fy float32
			if abs(dx) > abs(dy) {
				fx = sign(dx) * magnitude
				fy = magnitude * dy / abs(dx)
			} else {
				fx = magnitude * dx / abs(dy)
				fy = sign(dy) * magnitude
			}
			w.phys.ApplyForce(part.Body, Vec2{fx, fy})
		}
	})
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// scanJointOverloads inspects every live fixed joint's resolved impulse and
// detaches (recursively, player-agnostically) any subtree whose anchoring
// joint exceeded the force/torque thresholds.
func (s *Simulation) scanJointOverloads() []SimEvent {
	w := s.World
	type overload struct {
		parent PartHandle
		slot   int
	}
	var overloaded []overload

	w.Each(func(h PartHandle, part *Part) {
		for i, att := range part.Attachments {
			if att == nil {
				continue
			}
			linear, angular := w.phys.JointImpulse(att.Joint)
			if linear >= partJointMaxForce || angular >= partJointMaxTorque {
				overloaded = append(overloaded, overload{h, i})
			}
		}
	})

	var events []SimEvent
	for _, o := range overloaded {
		child, ok := w.DetachAttachment(o.parent, o.slot)
		if !ok {
			continue
		}
		var freed []PartHandle
		collectSubtree(w, child, &freed)
		events = append(events, SimEvent{Kind: EventPartsDetached, Parts: freed})
	}
	return events
}

func collectSubtree(w *World, h PartHandle, out *[]PartHandle) {
	part, ok := w.parts.Get(h)
	if !ok {
		return
	}
	*out = append(*out, h)
	for _, att := range part.Attachments {
		if att != nil {
			collectSubtree(w, att.Child, out)
		}
	}
}

// processContacts turns collider-level Started/Stopped transitions into
// player/planet touch events, per spec §4.3 step 5. A core touching the
// sun on contact start is a structural failure on par with joint overload:
// it incinerates the whole player instead of registering an ordinary touch.
func (s *Simulation) processContacts(contacts []ContactEvent) []SimEvent {
	var events []SimEvent
	for _, c := range contacts {
		player, part, planet, ok := s.resolvePlanetTouch(c.ColliderA, c.ColliderB)
		if !ok {
			continue
		}
		if c.Kind == ContactStarted && s.isCoreTouchingSun(part, planet) {
			events = append(events, SimEvent{Kind: EventPlayerIncinerated, Player: player})
			continue
		}
		kind := EventPlayerTouchPlanet
		if c.Kind == ContactStopped {
			kind = EventPlayerUntouchPlanet
		}
		events = append(events, SimEvent{Kind: kind, Player: player, Part: part, Planet: planet})
	}
	return events
}

// isCoreTouchingSun reports whether part is a player's core and planet is
// the sun.
func (s *Simulation) isCoreTouchingSun(part PartHandle, planetID uint8) bool {
	planet, ok := s.World.Planets.Get(planetID)
	if !ok || planet.Kind != PlanetSun {
		return false
	}
	p, ok := s.World.Get(part)
	return ok && p.Kind == PartCore
}

// resolvePlanetTouch reports whether exactly one of a/b is a planet
// collider and the other a player's part collider, returning the player,
// part handle, and planet id.
func (s *Simulation) resolvePlanetTouch(a, b ColliderHandle) (player uint16, part PartHandle, planet uint8, ok bool) {
	w := s.World
	tagA := w.phys.ColliderTag(a)
	tagB := w.phys.ColliderTag(b)

	planetID, aIsPlanet := tagA.IsPlanet()
	playerID, bIsPart := tagB.IsPartOfPlayer()
	partCollider := b
	if aIsPlanet && bIsPart {
		ok = true
	} else {
		planetID, ok = tagB.IsPlanet()
		if !ok {
			return 0, PartHandle{}, 0, false
		}
		playerID, ok = tagA.IsPartOfPlayer()
		if !ok {
			return 0, PartHandle{}, 0, false
		}
		partCollider = a
	}

	body := w.phys.ColliderBody(partCollider)
	h, ok := w.partByBody(body)
	if !ok {
		return 0, PartHandle{}, 0, false
	}
	return playerID, h, planetID, true
}

// stickActiveContacts sets a part's velocity to its touched planet's
// current orbital velocity for every active planet contact, so docked
// assemblies don't drift against the integrator.
func (s *Simulation) stickActiveContacts() {
	w := s.World
	for _, pair := range w.phys.ActiveContactPairs() {
		_, part, planetID, ok := s.resolvePlanetTouch(pair.ColliderA, pair.ColliderB)
		if !ok {
			continue
		}
		planet, ok := w.Planets.Get(planetID)
		if !ok {
			continue
		}
		partHandle, ok := w.Get(part)
		if !ok {
			continue
		}
		w.phys.SetLinearVelocity(partHandle.Body, planet.Orbit.LastVelocity())
	}
}
