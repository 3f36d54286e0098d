package gameserver

import (
	"glap/codec"
	"glap/session"
	"glap/world"
)

// buildSnapshot gathers the current per-player and free-floating part
// poses the serializer needs for its per-tick culled fan-out.
func (g *Game) buildSnapshot() *session.WorldUpdate {
	update := &session.WorldUpdate{Players: make(map[uint16]session.PlayerSnapshot, len(g.Players))}

	for id, p := range g.Players {
		pos, _, _, ok := g.World.Position(p.Core)
		if !ok {
			continue
		}
		vel, _ := g.World.Velocity(p.Core)

		var parts []session.PartMove
		walkParts(g.World, p.Core, func(h world.PartHandle, _ *world.Part) {
			ppos, cos, sin, ok := g.World.Position(h)
			if !ok {
				return
			}
			parts = append(parts, session.PartMove{ID: h.WireID(), X: ppos.X, Y: ppos.Y, RotCos: cos, RotSin: sin})
		})

		update.Players[id] = session.PlayerSnapshot{
			ID: id, Name: p.Name, CoreX: pos.X, CoreY: pos.Y, VelX: vel.X, VelY: vel.Y,
			Parts: parts, Power: p.Power, IsAdmin: p.IsAdmin, CanBeamoutNow: p.canBeamoutNow(g.World.Planets),
		}
	}

	g.World.Each(func(h world.PartHandle, _ *world.Part) {
		if _, owned := g.partOwner[h]; owned {
			return
		}
		pos, cos, sin, ok := g.World.Position(h)
		if !ok {
			return
		}
		update.FreeParts = append(update.FreeParts, session.PartMove{ID: h.WireID(), X: pos.X, Y: pos.Y, RotCos: cos, RotSin: sin})
	})

	return update
}

// broadcastPlayerAdded announces a newly spawned player and every part of
// their starting assembly to every connected player.
func (g *Game) broadcastPlayerAdded(p *Player) {
	msgs := []codec.ToClientMsg{codec.AddPlayer{ID: p.ID, CoreID: p.Core.WireID(), Name: p.Name}}
	walkParts(g.World, p.Core, func(h world.PartHandle, part *world.Part) {
		owner := p.ID
		msgs = append(msgs,
			codec.AddPart{ID: h.WireID(), Kind: part.Kind},
			codec.UpdatePartMeta{ID: h.WireID(), OwningPlayer: &owner, ThrustMode: thrustModeByte(part.Kind)},
		)
	})
	g.sendBatchBroadcast(msgs)
}

// sendWorldDump sends p a full MessagePack-framed snapshot of every
// celestial object, every player's parts (p's own parts only if sendSelf,
// per spec.md §4.4's SendEntireWorld{send_self}), and every free part.
func (g *Game) sendWorldDump(p *Player, sendSelf bool) {
	var msgs []codec.ToClientMsg

	g.World.Planets.Each(func(c *world.CelestialObject) {
		msgs = append(msgs, codec.AddCelestialObject{ID: c.ID, Kind: c.Kind, Radius: c.Radius, Position: [2]float32{c.Position.X, c.Position.Y}})
		if c.Orbit != nil {
			msgs = append(msgs, codec.InitCelestialOrbit{
				ID: c.ID, OrbitAroundBody: c.Orbit.OrbitAround, OrbitRadius: c.Orbit.Radius,
				OrbitRotation: c.Orbit.Rotation, OrbitTotalTicks: c.Orbit.TotalTicks,
			})
		}
	})

	for id, other := range g.Players {
		if id == p.ID && !sendSelf {
			continue
		}
		msgs = append(msgs, codec.AddPlayer{ID: other.ID, CoreID: other.Core.WireID(), Name: other.Name})
		walkParts(g.World, other.Core, func(h world.PartHandle, part *world.Part) {
			owner := other.ID
			pos, cos, sin, ok := g.World.Position(h)
			if !ok {
				return
			}
			msgs = append(msgs,
				codec.AddPart{ID: h.WireID(), Kind: part.Kind},
				codec.UpdatePartMeta{ID: h.WireID(), OwningPlayer: &owner, ThrustMode: thrustModeByte(part.Kind)},
				codec.MovePart{ID: h.WireID(), X: pos.X, Y: pos.Y, RotationN: cos, RotationI: sin},
			)
		})
	}

	g.World.Each(func(h world.PartHandle, part *world.Part) {
		if _, owned := g.partOwner[h]; owned {
			return
		}
		pos, cos, sin, ok := g.World.Position(h)
		if !ok {
			return
		}
		msgs = append(msgs,
			codec.AddPart{ID: h.WireID(), Kind: part.Kind},
			codec.UpdatePartMeta{ID: h.WireID(), OwningPlayer: nil, ThrustMode: thrustModeByte(part.Kind)},
			codec.MovePart{ID: h.WireID(), X: pos.X, Y: pos.Y, RotationN: cos, RotationI: sin},
		)
	})

	msgs = append(msgs, codec.UpdateMyMeta{MaxPower: p.MaxPower, CanBeamout: p.canBeamoutNow(g.World.Planets)})

	g.sendBatchUnicast(p.ID, msgs)
}

func (g *Game) sendBatchBroadcast(msgs []codec.ToClientMsg) {
	g.ToSerial <- session.ToSerializerEvent{Kind: session.EventBroadcast, Msg: codec.MessagePack{Count: uint16(len(msgs))}}
	for _, m := range msgs {
		g.ToSerial <- session.ToSerializerEvent{Kind: session.EventBroadcast, Msg: m}
	}
}

func (g *Game) sendBatchUnicast(id uint16, msgs []codec.ToClientMsg) {
	g.ToSerial <- session.ToSerializerEvent{Kind: session.EventUnicast, PlayerID: id, Msg: codec.MessagePack{Count: uint16(len(msgs))}}
	for _, m := range msgs {
		g.ToSerial <- session.ToSerializerEvent{Kind: session.EventUnicast, PlayerID: id, Msg: m}
	}
}
