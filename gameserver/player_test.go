package gameserver

import (
	"testing"

	"glap/world"
)

func TestColorForIsStableAndWrapsPalette(t *testing.T) {
	if colorFor(1) != colorFor(1) {
		t.Fatal("colorFor should be deterministic for a given id")
	}
	if colorFor(0) != colorFor(uint16(len(chatColors))) {
		t.Fatal("colorFor should wrap around the palette length")
	}
}

func TestTouchUntouchTracksPerPartPlanetSet(t *testing.T) {
	p := newPlayer(1, "Alice")
	part := world.PartHandle{}

	if p.canBeamoutNow(nil) {
		t.Fatal("fresh player should not be able to beam out before touching anything")
	}

	p.touch(part, 3)
	if _, ok := p.touching[part][3]; !ok {
		t.Fatal("expected touch to record planet 3 against the part")
	}

	p.untouch(part, 3)
	if _, ok := p.touching[part]; ok {
		t.Fatal("expected untouch to drop the part entry once its planet set is empty")
	}
}

func TestTouchingSetAdaptsToBoolMap(t *testing.T) {
	p := newPlayer(1, "Alice")
	a := world.PartHandle{}
	p.touch(a, 5)

	set := p.touchingSet()
	if !set[a] {
		t.Fatalf("touchingSet()[a] = false, want true")
	}
}

func TestForgetPartDropsBookkeeping(t *testing.T) {
	p := newPlayer(1, "Alice")
	part := world.PartHandle{}
	p.touch(part, 2)

	p.forgetPart(part)
	if _, ok := p.touching[part]; ok {
		t.Fatal("expected forgetPart to remove all bookkeeping for the part")
	}
}

func TestCanBeamoutNowRequiresBeamoutEnabledPlanet(t *testing.T) {
	phys := newTestPhysics(t)
	planets := world.NewPlanets(phys)

	var earthID, sunID uint8
	planets.Each(func(c *world.CelestialObject) {
		switch c.Kind {
		case world.PlanetEarth:
			earthID = c.ID
		case world.PlanetSun:
			sunID = c.ID
		}
	})

	p := newPlayer(1, "Alice")
	part := world.PartHandle{}

	p.touch(part, sunID)
	if p.canBeamoutNow(planets) {
		t.Fatal("touching the sun (CanBeamout:false) should not allow beaming out")
	}

	p.touch(part, earthID)
	if !p.canBeamoutNow(planets) {
		t.Fatal("touching Earth (CanBeamout:true) should allow beaming out")
	}
}
