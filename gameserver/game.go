package gameserver

import (
	"context"
	"strings"
	"time"

	"glap/beam"
	"glap/codec"
	"glap/metrics"
	"glap/session"
	"glap/world"
)

// defaultMaxPower is the power budget a freshly spawned (not beamed-in)
// player starts with.
const defaultMaxPower = 100

// shrugText is the literal message body SendChatMessage{"/shrug"} expands
// to, matching the client-visible kaomoji.
const shrugText = `¯\_(ツ)_/¯`

// Game owns the World and Simulation, the player table, and is the only
// consumer of session.ToGameEvent / producer of session.ToSerializerEvent.
// It is the single task that ever mutates the world, per the ownership
// rule in spec.md §3.
type Game struct {
	World *world.World
	Sim   *world.Simulation

	Players map[uint16]*Player

	Inbox    <-chan session.ToGameEvent
	ToSerial chan<- session.ToSerializerEvent
	Beam     *beam.Client
	Suspended *session.SuspendedPlayers

	// partOwner tracks which player's assembly a live part belongs to, for
	// the UpdatePartMeta.OwningPlayer field. Maintained at spawn/inflate
	// time by walking the tree, and cleared for parts named in an
	// EventPartsDetached event: once detached they become free-floating and
	// player-agnostic, matching the world package's own collider tag.
	partOwner map[world.PartHandle]uint16

	nextID uint16
}

// NewGame wires a fresh world (with its own physics engine) around inbox
// and toSerial.
func NewGame(phys world.Physics, inbox <-chan session.ToGameEvent, toSerial chan<- session.ToSerializerEvent, beamClient *beam.Client, suspended *session.SuspendedPlayers) *Game {
	w := world.NewWorld(phys)
	return &Game{
		World:     w,
		Sim:       world.NewSimulation(w),
		Players:   make(map[uint16]*Player),
		Inbox:     inbox,
		ToSerial:  toSerial,
		Beam:      beamClient,
		Suspended: suspended,
		partOwner: make(map[world.PartHandle]uint16),
		nextID:    1,
	}
}

// NextID mints a fresh player id, skipping 0 and any id currently occupied
// (live or suspended) in the player table.
func (g *Game) NextID() uint16 {
	for {
		id := g.nextID
		g.nextID++
		if g.nextID == 0 {
			g.nextID = 1
		}
		if id == 0 {
			continue
		}
		if _, live := g.Players[id]; live {
			continue
		}
		return id
	}
}

// Run drives the tick loop until Inbox is closed. Inbound events are
// processed both opportunistically between ticks and, immediately before
// each tick, drained completely so a tick's snapshot reflects every event
// received since the previous one.
func (g *Game) Run() {
	ticker := time.NewTicker(time.Duration(g.Sim.TickPeriod * float32(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-g.Inbox:
			if !ok {
				return
			}
			g.handleEvent(ev)
		case <-ticker.C:
			g.drainInbox()
			g.tick()
		}
	}
}

// drainInbox processes every event currently queued without blocking, so a
// tick never steps the simulation against stale input.
func (g *Game) drainInbox() {
	for {
		select {
		case ev, ok := <-g.Inbox:
			if !ok {
				return
			}
			g.handleEvent(ev)
		default:
			return
		}
	}
}

func (g *Game) handleEvent(ev session.ToGameEvent) {
	switch ev.Kind {
	case session.EventNewPlayer:
		g.spawnPlayer(ev.PlayerID, ev.Name, ev.SessionToken)
	case session.EventPlayerReconnect:
		g.reconnectPlayer(ev.PlayerID, ev.Name, ev.SessionToken, ev.SendSelf)
	case session.EventPlayerQuit:
		g.removePlayer(ev.PlayerID, true, true)
	case session.EventPlayerSuspend:
		g.suspendPlayer(ev.PlayerID)
	case session.EventInput:
		g.handleInput(ev.PlayerID, ev.Msg)
	}
}

// spawnPlayer beams in a saved layout if one exists for sessionToken,
// otherwise inflates defaultLayout, and announces the new player.
func (g *Game) spawnPlayer(id uint16, name, sessionToken string) {
	p := newPlayer(id, name)
	p.SessionToken = sessionToken

	layout := defaultLayout()
	if resp, ok := g.Beam.Beamin(context.Background(), sessionToken); ok {
		layout = resp.Layout
		p.IsAdmin = resp.IsAdmin
		p.BeamoutToken = resp.BeamoutToken
	} else {
		p.BeamoutToken = beam.NewToken()
	}

	x, y := spawnPosition(id)
	owner := id
	core := g.World.Inflate(layout, x, y, &owner)
	p.Core = core
	g.Players[id] = p

	walkParts(g.World, core, func(h world.PartHandle, _ *world.Part) {
		g.partOwner[h] = id
	})

	g.ToSerial <- session.ToSerializerEvent{Kind: session.EventUnicast, PlayerID: id, Msg: codec.HandshakeAccepted{
		ID: id, CoreID: core.WireID(), CanBeamout: p.canBeamoutNow(g.World.Planets),
	}}
	g.sendWorldDump(p, false)
	g.broadcastPlayerAdded(p)
}

// reconnectPlayer restores a suspended player's session and, per spec
// §4.4, sends them a full world dump including their own parts.
func (g *Game) reconnectPlayer(id uint16, name, sessionToken string, sendSelf bool) {
	p, ok := g.Players[id]
	if !ok {
		g.spawnPlayer(id, name, sessionToken)
		return
	}
	p.Suspended = false
	p.SessionToken = sessionToken

	g.ToSerial <- session.ToSerializerEvent{Kind: session.EventUnicast, PlayerID: id, Msg: codec.HandshakeAccepted{
		ID: id, CoreID: p.Core.WireID(), CanBeamout: p.canBeamoutNow(g.World.Planets),
	}}
	g.sendWorldDump(p, sendSelf)
}

// suspendPlayer stops applying thrust for id and marks it disconnected, but
// leaves its parts in place for the reconnect grace window. tick removes
// the player once session.SuspendedPlayers reports the suspension expired.
func (g *Game) suspendPlayer(id uint16) {
	if p, ok := g.Players[id]; ok {
		p.Suspended = true
		p.Thrust = world.ThrustFlags{}
		if p.Grab != nil {
			g.World.ReleaseGrab(p.Grab)
			p.Grab = nil
		}
	}
}

// removePlayer deletes id's parts recursively and broadcasts RemovePlayer
// when announce is set. The deflated layout is beamed out only when persist
// is set: an incinerated player's assembly is destroyed, not saved.
func (g *Game) removePlayer(id uint16, announce bool, persist bool) {
	p, ok := g.Players[id]
	if !ok {
		return
	}
	if p.Grab != nil {
		g.World.ReleaseGrab(p.Grab)
	}

	layout := g.World.Deflate(p.Core)
	walkParts(g.World, p.Core, func(h world.PartHandle, _ *world.Part) { delete(g.partOwner, h) })
	g.World.DeleteRecursive(p.Core)
	delete(g.partOwner, p.Core)
	delete(g.Players, id)

	if persist {
		g.Beam.Beamout(p.BeamoutToken, layout)
	}

	if announce {
		g.ToSerial <- session.ToSerializerEvent{Kind: session.EventBroadcast, Msg: codec.RemovePlayer{ID: id}}
	}
}

// handleInput applies one decoded client message to player id's state.
func (g *Game) handleInput(id uint16, msg codec.ToServerMsg) {
	p, ok := g.Players[id]
	if !ok || p.Suspended {
		return
	}
	switch m := msg.(type) {
	case codec.SetThrusters:
		p.Thrust = world.ThrustFlags{Forward: m.Forward, Backward: m.Backward, Clockwise: m.Clockwise, CounterClockwise: m.CounterClockwise}
	case codec.CommitGrab:
		if p.Grab != nil {
			g.World.ReleaseGrab(p.Grab)
		}
		p.Grab, _ = g.World.CommitGrab(m.GrabbedID, m.X, m.Y)
	case codec.MoveGrab:
		g.World.MoveGrab(p.Grab, m.X, m.Y)
	case codec.ReleaseGrab:
		g.World.ReleaseGrab(p.Grab)
		p.Grab = nil
	case codec.BeamOut:
		g.handleBeamOut(p)
	case codec.SendChatMessage:
		g.handleChat(p, m.Msg)
	case codec.RequestUpdate:
		g.ToSerial <- session.ToSerializerEvent{Kind: session.EventRequestUpdate, PlayerID: id}
	}
}

func (g *Game) handleBeamOut(p *Player) {
	if !p.canBeamoutNow(g.World.Planets) {
		return
	}
	g.ToSerial <- session.ToSerializerEvent{Kind: session.EventBroadcast, Msg: codec.BeamOutAnimation{PlayerID: p.ID}}
	g.removePlayer(p.ID, true, true)
}

// handleChat recognizes "/shrug" as a client-side-free command the game
// task expands under the sender's own name and color; every other message,
// including unrecognized slash commands per spec.md §9's open question, is
// relayed verbatim. "/disconnect" never reaches here: the session reader
// intercepts it before forwarding.
func (g *Game) handleChat(p *Player, text string) {
	if strings.TrimSpace(text) == "/shrug" {
		text = shrugText
	}
	g.ToSerial <- session.ToSerializerEvent{Kind: session.EventBroadcast, Msg: codec.ChatMessage{
		Username: p.Name, Msg: text, Color: p.Color,
	}}
}

// tick applies thrust for every connected player, steps the simulation,
// translates its events into wire messages, and emits one world snapshot.
func (g *Game) tick() {
	start := time.Now()
	for _, id := range g.Suspended.ExpireBefore(start) {
		g.removePlayer(id, true, true)
	}

	for _, p := range g.Players {
		if p.Suspended {
			continue
		}
		g.World.ApplyThrust(p.Core, p.Thrust, &p.Power, p.touchingSet())
	}

	events := g.Sim.Step()
	metrics.TickDuration.Observe(time.Since(start).Seconds())

	for _, ev := range events {
		g.handleSimEvent(ev)
	}

	g.ToSerial <- session.ToSerializerEvent{Kind: session.EventWorldUpdateTick, World: g.buildSnapshot()}
}

func (g *Game) handleSimEvent(ev world.SimEvent) {
	switch ev.Kind {
	case world.EventPartsDetached:
		for _, part := range ev.Parts {
			if owner, ok := g.partOwner[part]; ok {
				if p, ok := g.Players[owner]; ok {
					p.forgetPart(part)
				}
				delete(g.partOwner, part)
			}
			mode := uint8(0)
			if live, ok := g.World.Get(part); ok {
				mode = thrustModeByte(live.Kind)
			}
			g.ToSerial <- session.ToSerializerEvent{Kind: session.EventBroadcast, Msg: codec.UpdatePartMeta{
				ID: part.WireID(), OwningPlayer: nil, ThrustMode: mode,
			}}
		}
	case world.EventPlayerTouchPlanet:
		if p, ok := g.Players[ev.Player]; ok {
			p.touch(ev.Part, ev.Planet)
			g.ToSerial <- session.ToSerializerEvent{Kind: session.EventUnicast, PlayerID: ev.Player, Msg: codec.UpdateMyMeta{
				MaxPower: p.MaxPower, CanBeamout: p.canBeamoutNow(g.World.Planets),
			}}
		}
	case world.EventPlayerUntouchPlanet:
		if p, ok := g.Players[ev.Player]; ok {
			p.untouch(ev.Part, ev.Planet)
			g.ToSerial <- session.ToSerializerEvent{Kind: session.EventUnicast, PlayerID: ev.Player, Msg: codec.UpdateMyMeta{
				MaxPower: p.MaxPower, CanBeamout: p.canBeamoutNow(g.World.Planets),
			}}
		}
	case world.EventPlayerIncinerated:
		if p, ok := g.Players[ev.Player]; ok {
			g.ToSerial <- session.ToSerializerEvent{Kind: session.EventBroadcast, Msg: codec.IncinerationAnimation{PlayerID: p.ID}}
			g.removePlayer(p.ID, true, false)
		}
	}
}

// spawnPosition lays new players out on a deterministic grid, far enough
// apart that handshakes don't collide in the same collider cell.
func spawnPosition(id uint16) (float32, float32) {
	const spacing = 40
	const cols = 20
	col := int(id) % cols
	row := int(id) / cols
	return float32(col)*spacing - (cols/2)*spacing, float32(row)*spacing + 200
}
