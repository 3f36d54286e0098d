package rigid

import (
	"math"
	"testing"

	"glap/world"
)

func TestDynamicBodyIntegratesForce(t *testing.T) {
	s := New()
	b := s.AddBody(world.BodyDynamic, 2, world.Vec2{}, 0)
	s.ApplyForce(b, world.Vec2{X: 4, Y: 0})
	s.Step(1.0)

	pos, _, _ := s.Position(b)
	if pos.X <= 0 {
		t.Fatalf("expected body to move in +X after force, got pos=%+v", pos)
	}
	if s.LinearVelocity(b).X <= 0 {
		t.Fatalf("expected positive velocity after force, got %+v", s.LinearVelocity(b))
	}
}

func TestStaticBodyIgnoresForce(t *testing.T) {
	s := New()
	b := s.AddBody(world.BodyStatic, 10, world.Vec2{X: 5, Y: 5}, 0)
	s.ApplyForce(b, world.Vec2{X: 100, Y: 100})
	s.Step(1.0)

	pos, _, _ := s.Position(b)
	if pos.X != 5 || pos.Y != 5 {
		t.Fatalf("static body moved: %+v", pos)
	}
}

func TestKinematicBodyTeleportsToNextPosition(t *testing.T) {
	s := New()
	b := s.AddBody(world.BodyKinematic, 1, world.Vec2{}, 0)
	s.SetNextKinematicPosition(b, world.Vec2{X: 10, Y: -3}, 1.5)
	s.Step(1.0 / 20.0)

	pos, cos, sin := s.Position(b)
	if pos.X != 10 || pos.Y != -3 {
		t.Fatalf("Position() = %+v, want (10,-3)", pos)
	}
	wantCos, wantSin := float32(math.Cos(1.5)), float32(math.Sin(1.5))
	if cos != wantCos || sin != wantSin {
		t.Fatalf("cos/sin = %v/%v, want %v/%v", cos, sin, wantCos, wantSin)
	}
}

func TestFixedJointKeepsChildAttached(t *testing.T) {
	s := New()
	parent := s.AddBody(world.BodyDynamic, 5, world.Vec2{}, 0)
	child := s.AddBody(world.BodyDynamic, 1, world.Vec2{X: 1, Y: 0}, 0)
	s.AddFixedJoint(parent, child, world.Vec2{X: 0.5, Y: 0}, world.Vec2{X: -0.5, Y: 0})

	s.ApplyForce(parent, world.Vec2{X: 10, Y: 0})
	for i := 0; i < 5; i++ {
		s.Step(1.0 / 20.0)
	}

	parentPos, _, _ := s.Position(parent)
	childPos, _, _ := s.Position(child)
	gotOffset := childPos.Sub(parentPos)
	if math.Abs(float64(gotOffset.X-1)) > 1e-3 || math.Abs(float64(gotOffset.Y)) > 1e-3 {
		t.Fatalf("child drifted from rigid offset: got %+v, want (1,0)", gotOffset)
	}
}

func TestFixedJointReportsLoadUnderForce(t *testing.T) {
	s := New()
	parent := s.AddBody(world.BodyDynamic, 5, world.Vec2{}, 0)
	child := s.AddBody(world.BodyDynamic, 1, world.Vec2{X: 1, Y: 0}, 0)
	joint := s.AddFixedJoint(parent, child, world.Vec2{X: 0.5, Y: 0}, world.Vec2{X: -0.5, Y: 0})

	s.ApplyForce(child, world.Vec2{X: 0, Y: 1000})
	s.Step(1.0 / 20.0)

	linear, _ := s.JointImpulse(joint)
	if linear <= 0 {
		t.Fatalf("expected positive joint load after large force on child, got %v", linear)
	}
}

func TestColliderContactStartedAndStopped(t *testing.T) {
	s := New()
	a := s.AddBody(world.BodyDynamic, 1, world.Vec2{X: 0, Y: 0}, 0)
	b := s.AddBody(world.BodyDynamic, 1, world.Vec2{X: 10, Y: 0}, 0)
	ca := s.AddCollider(a, 0.5, world.Vec2{}, world.PlanetTag(1))
	cb := s.AddCollider(b, 0.5, world.Vec2{}, world.PartOfPlayerTag(1))

	events := s.Step(1.0 / 20.0)
	if len(events) != 0 {
		t.Fatalf("expected no contacts while far apart, got %+v", events)
	}

	s.SetPosition(b, world.Vec2{X: 0.5, Y: 0}, 0)
	events = s.Step(1.0 / 20.0)
	foundStart := false
	for _, e := range events {
		if e.Kind == world.ContactStarted {
			foundStart = true
		}
	}
	if !foundStart {
		t.Fatalf("expected ContactStarted once overlapping, got %+v", events)
	}
	if len(s.ActiveContactPairs()) != 1 {
		t.Fatalf("expected 1 active contact pair, got %d", len(s.ActiveContactPairs()))
	}

	s.SetPosition(b, world.Vec2{X: 50, Y: 0}, 0)
	events = s.Step(1.0 / 20.0)
	foundStop := false
	for _, e := range events {
		if e.Kind == world.ContactStopped {
			foundStop = true
		}
	}
	if !foundStop {
		t.Fatalf("expected ContactStopped once separated, got %+v", events)
	}
	_ = ca
	_ = cb
}

func TestRemoveBodyAndColliderInvalidateHandles(t *testing.T) {
	s := New()
	b := s.AddBody(world.BodyDynamic, 1, world.Vec2{}, 0)
	c := s.AddCollider(b, 0.5, world.Vec2{}, world.InvalidTag128)

	s.RemoveBody(b)
	if s.BodyStatusOf(b) != world.BodyStatic {
		t.Fatalf("removed body should report a safe default status")
	}
	s.RemoveCollider(c)
	if s.ColliderTag(c) != world.InvalidTag128 {
		t.Fatalf("removed collider should report InvalidTag128")
	}
}
