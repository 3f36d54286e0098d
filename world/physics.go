package world

// Physics is the 2-D rigid-body collaborator this repository consumes but
// does not implement as its core subject matter (spec §6): bodies,
// colliders, and joints live behind this interface so the simulation logic
// in this package never depends on a specific physics engine. Package rigid
// provides one concrete adapter; a production deployment could swap in a
// full-featured engine without touching Simulation.
type Physics interface {
	AddBody(status BodyStatus, mass float32, pos Vec2, angle float32) BodyHandle
	RemoveBody(h BodyHandle)
	BodyStatusOf(h BodyHandle) BodyStatus
	SetAdditionalMass(h BodyHandle, mass float32)
	Mass(h BodyHandle) float32
	Position(h BodyHandle) (pos Vec2, cos, sin float32)
	SetPosition(h BodyHandle, pos Vec2, angle float32)
	SetNextKinematicPosition(h BodyHandle, pos Vec2, angle float32)
	LinearVelocity(h BodyHandle) Vec2
	SetLinearVelocity(h BodyHandle, v Vec2)
	ApplyForce(h BodyHandle, force Vec2)
	ApplyForceAtPoint(h BodyHandle, force Vec2, worldPoint Vec2)

	AddCollider(body BodyHandle, halfExtent float32, localOffset Vec2, tag Tag128) ColliderHandle
	SetColliderTag(c ColliderHandle, tag Tag128)
	ColliderTag(c ColliderHandle) Tag128
	ColliderBody(c ColliderHandle) BodyHandle
	RemoveCollider(c ColliderHandle)

	AddFixedJoint(bodyA, bodyB BodyHandle, anchorA, anchorB Vec2) JointHandle
	AddBallJoint(bodyA, bodyB BodyHandle, anchorA, anchorB Vec2) JointHandle
	RemoveJoint(h JointHandle)
	// JointImpulse reports the resolved impulse magnitude the joint
	// absorbed during the most recent Step, used for overload detection.
	JointImpulse(h JointHandle) (linear float32, angular float32)

	// Step advances the world by dt and returns contact transitions that
	// occurred during the step.
	Step(dt float32) []ContactEvent
	// ActiveContactPairs lists collider pairs currently touching, for the
	// "stick to orbital velocity" behavior.
	ActiveContactPairs() []ContactPair
}

// BodyStatus mirrors a rigid-body engine's body kinds.
type BodyStatus int

const (
	BodyDynamic BodyStatus = iota
	BodyKinematic
	BodyStatic
)

// Vec2 is a 2-D vector in world units.
type Vec2 struct{ X, Y float32 }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

type BodyHandle uint32
type ColliderHandle uint32
type JointHandle uint32

// ContactKind distinguishes the start and end of a contact.
type ContactKind int

const (
	ContactStarted ContactKind = iota
	ContactStopped
)

// ContactEvent is a Started/Stopped transition between two colliders.
type ContactEvent struct {
	Kind               ContactKind
	ColliderA, ColliderB ColliderHandle
}

// ContactPair is a currently-active touching pair.
type ContactPair struct {
	ColliderA, ColliderB ColliderHandle
}
