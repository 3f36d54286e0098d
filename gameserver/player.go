// Package gameserver is the game task: it owns the world, the player table,
// and the simulation tick loop, and is the sole consumer of
// session.ToGameEvent and sole producer of session.ToSerializerEvent.
package gameserver

import "glap/world"

// chatColors is the palette a new player's chat messages are drawn from,
// indexed by player id so a given player's color is stable across
// reconnects within the same id lease.
var chatColors = []string{
	"#dd55ff",
	"#55ddff",
	"#ffdd55",
	"#55ff88",
	"#ff5577",
	"#aa88ff",
}

func colorFor(id uint16) string {
	return chatColors[int(id)%len(chatColors)]
}

// Player is one connected or suspended player's game-task-side state.
type Player struct {
	ID           uint16
	Name         string
	Color        string
	Core         world.PartHandle
	Power        uint32
	MaxPower     uint32
	Grab         *world.Grab
	Thrust       world.ThrustFlags
	SessionToken string
	BeamoutToken string
	IsAdmin      bool
	Suspended    bool

	// touching maps a part of this player's assembly to the set of planet
	// ids it currently contacts. Driven by EventPlayerTouchPlanet /
	// EventPlayerUntouchPlanet; consulted both for landing-gear thrust
	// (world.ApplyThrust's touching argument) and for CanBeamoutNow.
	touching map[world.PartHandle]map[uint8]struct{}
}

func newPlayer(id uint16, name string) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Color:    colorFor(id),
		MaxPower: defaultMaxPower,
		Power:    defaultMaxPower,
		touching: make(map[world.PartHandle]map[uint8]struct{}),
	}
}

func (p *Player) touch(part world.PartHandle, planet uint8) {
	set, ok := p.touching[part]
	if !ok {
		set = make(map[uint8]struct{})
		p.touching[part] = set
	}
	set[planet] = struct{}{}
}

func (p *Player) untouch(part world.PartHandle, planet uint8) {
	set, ok := p.touching[part]
	if !ok {
		return
	}
	delete(set, planet)
	if len(set) == 0 {
		delete(p.touching, part)
	}
}

// forgetPart drops all touch bookkeeping for a part that detached from this
// player's assembly: it is no longer this player's concern.
func (p *Player) forgetPart(part world.PartHandle) {
	delete(p.touching, part)
}

// touchingSet adapts p's per-part touch bookkeeping to the map[PartHandle]bool
// shape world.ApplyThrust expects.
func (p *Player) touchingSet() map[world.PartHandle]bool {
	out := make(map[world.PartHandle]bool, len(p.touching))
	for part, planets := range p.touching {
		out[part] = len(planets) > 0
	}
	return out
}

// canBeamoutNow reports whether any part of p's assembly currently touches a
// planet whose CanBeamout flag is set.
func (p *Player) canBeamoutNow(planets *world.Planets) bool {
	for _, planetIDs := range p.touching {
		for id := range planetIDs {
			if obj, ok := planets.Get(id); ok && obj.CanBeamout {
				return true
			}
		}
	}
	return false
}
