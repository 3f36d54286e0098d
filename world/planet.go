package world

import (
	"math"

	"glap/codec"
)

// PlanetKind re-exports the wire enum.
type PlanetKind = codec.PlanetKind

const (
	PlanetEarth   = codec.PlanetEarth
	PlanetVenus   = codec.PlanetVenus
	PlanetMars    = codec.PlanetMars
	PlanetMoon    = codec.PlanetMoon
	PlanetSun     = codec.PlanetSun
	PlanetMercury = codec.PlanetMercury
	PlanetNeptune = codec.PlanetNeptune
	PlanetUranus  = codec.PlanetUranus
	PlanetJupiter = codec.PlanetJupiter
	PlanetSaturn  = codec.PlanetSaturn
	PlanetPluto   = codec.PlanetPluto
	PlanetTrade   = codec.PlanetTrade
)

// Orbit is a parameterized ellipse: radius (rx, ry) around OrbitAround,
// rotated by Rotation, advanced one tick per call to Step.
type Orbit struct {
	OrbitAround   uint8
	Radius        [2]float32
	Rotation      float32
	TotalTicks    uint32
	TicksElapsed  uint32
	lastVelocity  Vec2
}

// CelestialObject is a planet, moon, sun, or station.
type CelestialObject struct {
	ID           uint8
	Kind         PlanetKind
	Radius       float32
	Mass         float32
	Orbit        *Orbit
	Body         BodyHandle
	Collider     ColliderHandle
	Position     Vec2
	CargoUpgrade *PartKind
	CanBeamout   bool
}

// Planets is the solar system: every celestial object, keyed by its 8-bit
// id, forming a DAG of orbits rooted at the sun.
type Planets struct {
	byID map[uint8]*CelestialObject
	ids  []uint8 // creation order, stable iteration for broadcast-at-connect
	next uint8
}

// NewPlanets seeds a fixed solar system, grounded on
// original_source/src/world/planets.rs's body sizes/orbit periods, scaled
// down to keep the numbers in SPEC_FULL.md's simulation readable.
func NewPlanets(phys Physics) *Planets {
	p := &Planets{byID: make(map[uint8]*CelestialObject)}

	const earthMass = 600.0
	const earthSize = 25.0

	sun := p.addStatic(phys, PlanetSun, earthMass*50, earthSize*4.7, nil, false)

	earth := p.addKinematicOrbit(phys, PlanetEarth, earthMass, earthSize, sun.ID,
		[2]float32{1500, 1500}, 0, 3600*20*3, nil, true)

	p.addDynamicOrbit(phys, PlanetMoon, earthMass/35, earthSize/4, earth.ID,
		[2]float32{100, 100}, 0, 600*20*3, kindPtr(PartLandingThruster), true)

	mercury := p.addKinematicOrbit(phys, PlanetMercury, earthMass*0.055, earthSize*0.38, sun.ID,
		[2]float32{700, 700}, 0.3, 1300*20*3, nil, false)
	_ = mercury

	p.addKinematicOrbit(phys, PlanetVenus, earthMass*0.815, earthSize*0.95, sun.ID,
		[2]float32{1100, 1100}, 0.6, 2200*20*3, nil, false)

	p.addKinematicOrbit(phys, PlanetMars, earthMass*0.107, earthSize*0.53, sun.ID,
		[2]float32{2100, 2100}, 1.1, 5600*20*3, kindPtr(PartCargo), true)

	p.addKinematicOrbit(phys, PlanetJupiter, earthMass*317.8, earthSize*11.2, sun.ID,
		[2]float32{4500, 4500}, 1.8, 42000*20*3, nil, false)

	p.addKinematicOrbit(phys, PlanetSaturn, earthMass*95.2, earthSize*9.45, sun.ID,
		[2]float32{6200, 6200}, 2.3, 98000*20*3, nil, false)

	p.addKinematicOrbit(phys, PlanetUranus, earthMass*14.5, earthSize*4.0, sun.ID,
		[2]float32{8200, 8200}, 2.9, 280000*20*3, nil, false)

	p.addKinematicOrbit(phys, PlanetNeptune, earthMass*17.1, earthSize*3.88, sun.ID,
		[2]float32{9600, 9600}, 3.4, 550000*20*3, nil, false)

	p.addKinematicOrbit(phys, PlanetPluto, earthMass*0.0022, earthSize*0.18, sun.ID,
		[2]float32{11000, 11000}, 4.0, 900000*20*3, nil, false)

	p.addStatic(phys, PlanetTrade, earthMass*0.5, earthSize*0.7, nil, true)

	return p
}

func kindPtr(k PartKind) *PartKind { return &k }

func (p *Planets) nextID() uint8 {
	id := p.next
	p.next++
	return id
}

func (p *Planets) addStatic(phys Physics, kind PlanetKind, mass, radius float32, cargo *PartKind, canBeamout bool) *CelestialObject {
	id := p.nextID()
	body := phys.AddBody(BodyStatic, mass, Vec2{0, 0}, 0)
	collider := phys.AddCollider(body, radius, Vec2{}, PlanetTag(id))
	obj := &CelestialObject{ID: id, Kind: kind, Radius: radius, Mass: mass, Body: body, Collider: collider, CargoUpgrade: cargo, CanBeamout: canBeamout}
	p.byID[id] = obj
	p.ids = append(p.ids, id)
	return obj
}

func (p *Planets) addKinematicOrbit(phys Physics, kind PlanetKind, mass, radius float32, around uint8, orbitRadius [2]float32, rotation float32, totalTicks uint32, cargo *PartKind, canBeamout bool) *CelestialObject {
	return p.addOrbiting(phys, BodyKinematic, kind, mass, radius, around, orbitRadius, rotation, totalTicks, cargo, canBeamout)
}

func (p *Planets) addDynamicOrbit(phys Physics, kind PlanetKind, mass, radius float32, around uint8, orbitRadius [2]float32, rotation float32, totalTicks uint32, cargo *PartKind, canBeamout bool) *CelestialObject {
	return p.addOrbiting(phys, BodyDynamic, kind, mass, radius, around, orbitRadius, rotation, totalTicks, cargo, canBeamout)
}

func (p *Planets) addOrbiting(phys Physics, status BodyStatus, kind PlanetKind, mass, radius float32, around uint8, orbitRadius [2]float32, rotation float32, totalTicks uint32, cargo *PartKind, canBeamout bool) *CelestialObject {
	id := p.nextID()
	// Start on the orbit at ticks_elapsed = 0, the same point AdvanceOrbits
	// returns to after every full period.
	var pos Vec2
	if parent, ok := p.byID[around]; ok {
		pos = parent.Position
	}
	cosR, sinR := float32(math.Cos(float64(rotation))), float32(math.Sin(float64(rotation)))
	pos = Vec2{pos.X + cosR*orbitRadius[0], pos.Y + sinR*orbitRadius[0]}
	body := phys.AddBody(status, mass, pos, 0)
	collider := phys.AddCollider(body, radius, Vec2{}, PlanetTag(id))
	obj := &CelestialObject{
		ID: id, Kind: kind, Radius: radius, Mass: mass, Body: body, Collider: collider, Position: pos,
		CargoUpgrade: cargo, CanBeamout: canBeamout,
		Orbit: &Orbit{OrbitAround: around, Radius: orbitRadius, Rotation: rotation, TotalTicks: totalTicks},
	}
	p.byID[id] = obj
	p.ids = append(p.ids, id)
	return obj
}

// Get returns the celestial object with the given id.
func (p *Planets) Get(id uint8) (*CelestialObject, bool) {
	obj, ok := p.byID[id]
	return obj, ok
}

// Each visits every celestial object in creation order.
func (p *Planets) Each(fn func(*CelestialObject)) {
	for _, id := range p.ids {
		fn(p.byID[id])
	}
}

// AdvanceOrbits advances every orbiting celestial by one tick, per spec
// §4.3 step 1: position = parent.position + R(rotation)*(rx*cosθ, ry*sinθ),
// θ = 2π * ticks_elapsed / total_ticks.
func (p *Planets) AdvanceOrbits(phys Physics) {
	for _, id := range p.ids {
		obj := p.byID[id]
		if obj.Orbit == nil {
			continue
		}
		orbit := obj.Orbit
		orbit.TicksElapsed = (orbit.TicksElapsed + 1) % orbit.TotalTicks

		parent, ok := p.byID[orbit.OrbitAround]
		var parentPos Vec2
		if ok {
			parentPos = parent.Position
		}

		theta := 2 * math.Pi * float64(orbit.TicksElapsed) / float64(orbit.TotalTicks)
		cosT, sinT := float32(math.Cos(theta)), float32(math.Sin(theta))
		localX := orbit.Radius[0] * cosT
		localY := orbit.Radius[1] * sinT

		cosR, sinR := float32(math.Cos(float64(orbit.Rotation))), float32(math.Sin(float64(orbit.Rotation)))
		rotatedX := cosR*localX - sinR*localY
		rotatedY := sinR*localX + cosR*localY

		newPos := Vec2{parentPos.X + rotatedX, parentPos.Y + rotatedY}
		orbit.lastVelocity = newPos.Sub(obj.Position)
		obj.Position = newPos

		switch phys.BodyStatusOf(obj.Body) {
		case BodyKinematic:
			phys.SetNextKinematicPosition(obj.Body, newPos, 0)
		default:
			phys.SetPosition(obj.Body, newPos, 0)
		}
	}
}

// LastVelocity returns the orbital velocity computed on the most recent
// AdvanceOrbits call, used to make a docked part "stick" to its planet.
func (o *Orbit) LastVelocity() Vec2 {
	if o == nil {
		return Vec2{}
	}
	return o.lastVelocity
}
