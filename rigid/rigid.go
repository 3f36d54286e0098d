// Package rigid is a minimal 2-D rigid-body engine implementing
// world.Physics: semi-implicit Euler integration for free bodies, rigid
// parent-to-child snapping for fixed joints (recording the snap as the
// joint's resolved impulse, for overload detection), a spring pull for ball
// joints, and brute-force circle-circle contact detection. It exists only
// because no 2-D physics library was available to depend on; it is
// deliberately the simplest engine that satisfies world.Physics, the same
// way the teacher's own server/physics.go hand-rolls ship movement with
// plain float64 math instead of reaching for a library.
package rigid

import (
	"math"

	"glap/world"
)

type bodyState struct {
	status         world.BodyStatus
	mass           float32
	additionalMass float32
	pos            world.Vec2
	angle          float32
	vel            world.Vec2
	force          world.Vec2
	hasNext        bool
	nextPos        world.Vec2
	nextAngle      float32
	live           bool
}

func (b *bodyState) effectiveMass() float32 {
	m := b.mass + b.additionalMass
	if m < 0.001 {
		return 0.001
	}
	return m
}

type colliderState struct {
	body       world.BodyHandle
	halfExtent float32
	offset     world.Vec2
	tag        world.Tag128
	live       bool
}

type jointKind int

const (
	jointFixed jointKind = iota
	jointBall
)

type jointState struct {
	kind          jointKind
	bodyA, bodyB  world.BodyHandle
	anchorA       world.Vec2
	anchorB       world.Vec2
	relAngle      float32 // fixed joints only: bodyB.angle - bodyA.angle at creation
	lastLinear    float32
	lastAngular   float32
	live          bool
}

type pairKey struct{ a, b world.ColliderHandle }

func newPairKey(a, b world.ColliderHandle) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Simulation is a concrete world.Physics backed by in-memory slices, 1-based
// handles (0 is always invalid).
type Simulation struct {
	bodies     []bodyState
	colliders  []colliderState
	joints     []jointState
	contacts   map[pairKey]bool
}

// New returns an empty simulation.
func New() *Simulation {
	return &Simulation{contacts: make(map[pairKey]bool)}
}

func rotate(v world.Vec2, angle float32) world.Vec2 {
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	return world.Vec2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// AddBody implements world.Physics.
func (s *Simulation) AddBody(status world.BodyStatus, mass float32, pos world.Vec2, angle float32) world.BodyHandle {
	s.bodies = append(s.bodies, bodyState{status: status, mass: mass, pos: pos, angle: angle, live: true})
	return world.BodyHandle(len(s.bodies))
}

func (s *Simulation) body(h world.BodyHandle) *bodyState {
	if h == 0 || int(h) > len(s.bodies) {
		return nil
	}
	b := &s.bodies[h-1]
	if !b.live {
		return nil
	}
	return b
}

// RemoveBody implements world.Physics.
func (s *Simulation) RemoveBody(h world.BodyHandle) {
	if b := s.body(h); b != nil {
		b.live = false
	}
}

// BodyStatusOf implements world.Physics.
func (s *Simulation) BodyStatusOf(h world.BodyHandle) world.BodyStatus {
	if b := s.body(h); b != nil {
		return b.status
	}
	return world.BodyStatic
}

// SetAdditionalMass implements world.Physics.
func (s *Simulation) SetAdditionalMass(h world.BodyHandle, mass float32) {
	if b := s.body(h); b != nil {
		b.additionalMass = mass
	}
}

// Mass implements world.Physics.
func (s *Simulation) Mass(h world.BodyHandle) float32 {
	if b := s.body(h); b != nil {
		return b.effectiveMass()
	}
	return 1
}

// Position implements world.Physics.
func (s *Simulation) Position(h world.BodyHandle) (world.Vec2, float32, float32) {
	b := s.body(h)
	if b == nil {
		return world.Vec2{}, 1, 0
	}
	return b.pos, float32(math.Cos(float64(b.angle))), float32(math.Sin(float64(b.angle)))
}

// SetPosition implements world.Physics.
func (s *Simulation) SetPosition(h world.BodyHandle, pos world.Vec2, angle float32) {
	if b := s.body(h); b != nil {
		b.pos = pos
		b.angle = angle
	}
}

// SetNextKinematicPosition implements world.Physics.
func (s *Simulation) SetNextKinematicPosition(h world.BodyHandle, pos world.Vec2, angle float32) {
	if b := s.body(h); b != nil {
		b.hasNext = true
		b.nextPos = pos
		b.nextAngle = angle
	}
}

// LinearVelocity implements world.Physics.
func (s *Simulation) LinearVelocity(h world.BodyHandle) world.Vec2 {
	if b := s.body(h); b != nil {
		return b.vel
	}
	return world.Vec2{}
}

// SetLinearVelocity implements world.Physics.
func (s *Simulation) SetLinearVelocity(h world.BodyHandle, v world.Vec2) {
	if b := s.body(h); b != nil {
		b.vel = v
	}
}

// ApplyForce implements world.Physics.
func (s *Simulation) ApplyForce(h world.BodyHandle, force world.Vec2) {
	if b := s.body(h); b != nil {
		b.force = b.force.Add(force)
	}
}

// ApplyForceAtPoint implements world.Physics. This engine has no rotational
// inertia model, so a force applied off-center still only contributes
// linear motion; torque-producing callers (thrust spin) rely on the fixed
// joint's recorded angular load rather than an actual body spin.
func (s *Simulation) ApplyForceAtPoint(h world.BodyHandle, force world.Vec2, worldPoint world.Vec2) {
	s.ApplyForce(h, force)
}

// AddCollider implements world.Physics.
func (s *Simulation) AddCollider(body world.BodyHandle, halfExtent float32, localOffset world.Vec2, tag world.Tag128) world.ColliderHandle {
	s.colliders = append(s.colliders, colliderState{body: body, halfExtent: halfExtent, offset: localOffset, tag: tag, live: true})
	return world.ColliderHandle(len(s.colliders))
}

func (s *Simulation) collider(h world.ColliderHandle) *colliderState {
	if h == 0 || int(h) > len(s.colliders) {
		return nil
	}
	c := &s.colliders[h-1]
	if !c.live {
		return nil
	}
	return c
}

// SetColliderTag implements world.Physics.
func (s *Simulation) SetColliderTag(c world.ColliderHandle, tag world.Tag128) {
	if cs := s.collider(c); cs != nil {
		cs.tag = tag
	}
}

// ColliderTag implements world.Physics.
func (s *Simulation) ColliderTag(c world.ColliderHandle) world.Tag128 {
	if cs := s.collider(c); cs != nil {
		return cs.tag
	}
	return world.InvalidTag128
}

// ColliderBody implements world.Physics.
func (s *Simulation) ColliderBody(c world.ColliderHandle) world.BodyHandle {
	if cs := s.collider(c); cs != nil {
		return cs.body
	}
	return 0
}

// RemoveCollider implements world.Physics.
func (s *Simulation) RemoveCollider(c world.ColliderHandle) {
	if cs := s.collider(c); cs != nil {
		cs.live = false
	}
	for key := range s.contacts {
		if key.a == c || key.b == c {
			delete(s.contacts, key)
		}
	}
}

// AddFixedJoint implements world.Physics. anchorA/anchorB are the local
// offsets (in each body's own frame, at creation time) the joint holds
// together; bodyB is treated as the child that follows bodyA.
func (s *Simulation) AddFixedJoint(bodyA, bodyB world.BodyHandle, anchorA, anchorB world.Vec2) world.JointHandle {
	relAngle := float32(0)
	if a, b := s.body(bodyA), s.body(bodyB); a != nil && b != nil {
		relAngle = b.angle - a.angle
	}
	s.joints = append(s.joints, jointState{kind: jointFixed, bodyA: bodyA, bodyB: bodyB, anchorA: anchorA, anchorB: anchorB, relAngle: relAngle, live: true})
	return world.JointHandle(len(s.joints))
}

// AddBallJoint implements world.Physics.
func (s *Simulation) AddBallJoint(bodyA, bodyB world.BodyHandle, anchorA, anchorB world.Vec2) world.JointHandle {
	s.joints = append(s.joints, jointState{kind: jointBall, bodyA: bodyA, bodyB: bodyB, anchorA: anchorA, anchorB: anchorB, live: true})
	return world.JointHandle(len(s.joints))
}

func (s *Simulation) joint(h world.JointHandle) *jointState {
	if h == 0 || int(h) > len(s.joints) {
		return nil
	}
	j := &s.joints[h-1]
	if !j.live {
		return nil
	}
	return j
}

// RemoveJoint implements world.Physics.
func (s *Simulation) RemoveJoint(h world.JointHandle) {
	if j := s.joint(h); j != nil {
		j.live = false
	}
}

// JointImpulse implements world.Physics.
func (s *Simulation) JointImpulse(h world.JointHandle) (float32, float32) {
	if j := s.joint(h); j != nil {
		return j.lastLinear, j.lastAngular
	}
	return 0, 0
}

// Step implements world.Physics: integrate free bodies, snap fixed-joint
// children onto their parents (recording the correction as load), pull
// ball-jointed bodies toward their anchor, then recompute contacts.
func (s *Simulation) Step(dt float32) []world.ContactEvent {
	for i := range s.bodies {
		b := &s.bodies[i]
		if !b.live || b.status != world.BodyDynamic {
			b.force = world.Vec2{}
			continue
		}
		b.vel = b.vel.Add(b.force.Scale(dt / b.effectiveMass()))
		b.pos = b.pos.Add(b.vel.Scale(dt))
		b.force = world.Vec2{}
	}
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.live && b.status == world.BodyKinematic && b.hasNext {
			b.pos = b.nextPos
			b.angle = b.nextAngle
			b.hasNext = false
		}
	}

	for i := range s.joints {
		j := &s.joints[i]
		if !j.live {
			continue
		}
		switch j.kind {
		case jointFixed:
			s.resolveFixedJoint(j, dt)
		case jointBall:
			s.resolveBallJoint(j, dt)
		}
	}

	return s.recomputeContacts()
}

func (s *Simulation) resolveFixedJoint(j *jointState, dt float32) {
	parent, child := s.body(j.bodyA), s.body(j.bodyB)
	if parent == nil || child == nil {
		return
	}
	targetAngle := parent.angle + j.relAngle
	relPos := j.anchorA.Sub(j.anchorB)
	targetPos := parent.pos.Add(rotate(relPos, parent.angle))

	correction := targetPos.Sub(child.pos)
	correctionMag := float32(math.Hypot(float64(correction.X), float64(correction.Y)))
	angleDelta := targetAngle - child.angle

	if dt > 0 {
		j.lastLinear = child.effectiveMass() * correctionMag / dt
		j.lastAngular = child.effectiveMass() * 0.25 * float32(math.Abs(float64(angleDelta))) / dt
	}

	child.pos = targetPos
	child.angle = targetAngle
}

// resolveBallJoint softly pulls bodyB toward bodyA's anchor point, modeling
// the mouse-grab constraint without hard-snapping (so a grabbed part still
// feels draggable rather than teleported).
func (s *Simulation) resolveBallJoint(j *jointState, dt float32) {
	a, b := s.body(j.bodyA), s.body(j.bodyB)
	if a == nil || b == nil {
		return
	}
	const springConstant = 40.0
	anchorWorld := a.pos.Add(rotate(j.anchorA, a.angle))
	targetWorld := b.pos.Add(rotate(j.anchorB, b.angle))
	delta := anchorWorld.Sub(targetWorld)
	if b.status == world.BodyDynamic {
		force := delta.Scale(springConstant * b.effectiveMass())
		b.vel = b.vel.Add(force.Scale(dt / b.effectiveMass()))
	}
}

func (s *Simulation) colliderWorldPos(c *colliderState) world.Vec2 {
	body := s.body(c.body)
	if body == nil {
		return world.Vec2{}
	}
	return body.pos.Add(rotate(c.offset, body.angle))
}

func (s *Simulation) recomputeContacts() []world.ContactEvent {
	var events []world.ContactEvent
	seen := make(map[pairKey]bool, len(s.contacts))

	for i := 0; i < len(s.colliders); i++ {
		ci := &s.colliders[i]
		if !ci.live {
			continue
		}
		for j := i + 1; j < len(s.colliders); j++ {
			cj := &s.colliders[j]
			if !cj.live || ci.body == cj.body {
				continue
			}
			pi, pj := s.colliderWorldPos(ci), s.colliderWorldPos(cj)
			dx, dy := pi.X-pj.X, pi.Y-pj.Y
			distSq := dx*dx + dy*dy
			touchDist := ci.halfExtent + cj.halfExtent
			key := newPairKey(world.ColliderHandle(i+1), world.ColliderHandle(j+1))
			touching := distSq <= touchDist*touchDist

			if touching {
				seen[key] = true
				if !s.contacts[key] {
					events = append(events, world.ContactEvent{Kind: world.ContactStarted, ColliderA: key.a, ColliderB: key.b})
				}
			}
		}
	}
	for key := range s.contacts {
		if !seen[key] {
			events = append(events, world.ContactEvent{Kind: world.ContactStopped, ColliderA: key.a, ColliderB: key.b})
		}
	}
	s.contacts = seen
	return events
}

// ActiveContactPairs implements world.Physics.
func (s *Simulation) ActiveContactPairs() []world.ContactPair {
	pairs := make([]world.ContactPair, 0, len(s.contacts))
	for key := range s.contacts {
		pairs = append(pairs, world.ContactPair{ColliderA: key.a, ColliderB: key.b})
	}
	return pairs
}
