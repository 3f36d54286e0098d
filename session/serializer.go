package session

import (
	"log"

	"glap/codec"
)

// writerEntry is one connection's registered send queue and the means to
// force it closed on overflow.
type writerEntry struct {
	queue  chan<- codec.ToClientMsg
	closer func()
}

// Serializer owns the writer-channel registry and turns per-tick world
// snapshots into per-player, culled wire messages. It runs alone on one
// goroutine: all registry mutation and fan-out happens here, so no locking
// is needed around the registry itself.
type Serializer struct {
	Inbox <-chan ToSerializerEvent

	writers     map[PlayerID]writerEntry
	wantsUpdate map[PlayerID]bool
}

// NewSerializer returns a Serializer reading from inbox.
func NewSerializer(inbox <-chan ToSerializerEvent) *Serializer {
	return &Serializer{
		Inbox:       inbox,
		writers:     make(map[PlayerID]writerEntry),
		wantsUpdate: make(map[PlayerID]bool),
	}
}

// Run processes events from Inbox until it's closed.
func (s *Serializer) Run() {
	for ev := range s.Inbox {
		s.handle(ev)
	}
}

func (s *Serializer) handle(ev ToSerializerEvent) {
	switch ev.Kind {
	case EventNewWriter:
		s.writers[ev.PlayerID] = writerEntry{queue: ev.Writer, closer: ev.Closer}
	case EventDeleteWriter:
		delete(s.writers, ev.PlayerID)
		delete(s.wantsUpdate, ev.PlayerID)
	case EventRequestUpdate:
		s.wantsUpdate[ev.PlayerID] = true
	case EventBroadcast:
		s.broadcast(ev.Msg)
	case EventUnicast:
		s.enqueue(ev.PlayerID, ev.Msg)
	case EventMulticast:
		for _, id := range ev.PlayerIDs {
			s.enqueue(id, ev.Msg)
		}
	case EventWorldUpdateTick:
		if ev.World != nil {
			s.sendWorldUpdate(ev.World)
		}
	}
}

// enqueue offers msg to id's writer queue. A full queue is resource
// exhaustion for that one connection, not a reason to stall every other
// player's fan-out: log it, drop the registry entry, and force the
// connection closed so the client is no longer nominally-connected while
// silently falling behind.
func (s *Serializer) enqueue(id PlayerID, msg codec.ToClientMsg) {
	entry, ok := s.writers[id]
	if !ok {
		return
	}
	if Enqueue(entry.queue, msg) {
		return
	}
	log.Printf("session: serializer: player %d: SendQueueFull, closing", id)
	delete(s.writers, id)
	delete(s.wantsUpdate, id)
	if entry.closer != nil {
		entry.closer()
	}
}

// broadcast fans a message out to every registered writer, best-effort.
func (s *Serializer) broadcast(msg codec.ToClientMsg) {
	for id := range s.writers {
		s.enqueue(id, msg)
	}
}

// sendWorldUpdate sends each player that has an outstanding RequestUpdate a
// culled batch: their own core/velocity/parts, plus any other player's
// parts and free-floating parts within cullRadius of their core.
func (s *Serializer) sendWorldUpdate(world *WorldUpdate) {
	for id := range s.writers {
		if !s.wantsUpdate[id] {
			continue
		}
		self, ok := world.Players[id]
		if !ok {
			continue
		}
		s.wantsUpdate[id] = false

		batch := s.buildBatch(world, self)
		s.enqueue(id, codec.MessagePack{Count: uint16(len(batch))})
		for _, m := range batch {
			s.enqueue(id, m)
		}
	}
}

func (s *Serializer) buildBatch(world *WorldUpdate, self PlayerSnapshot) []codec.ToClientMsg {
	var batch []codec.ToClientMsg
	batch = append(batch, codec.UpdatePlayerVelocity{ID: self.ID, VelX: self.VelX, VelY: self.VelY})
	for _, part := range self.Parts {
		batch = append(batch, codec.MovePart{ID: part.ID, X: part.X, Y: part.Y, RotationN: part.RotCos, RotationI: part.RotSin})
	}

	for otherID, other := range world.Players {
		if otherID == self.ID {
			continue
		}
		if !withinCullRadius(self.CoreX, self.CoreY, other.CoreX, other.CoreY) {
			continue
		}
		for _, part := range other.Parts {
			batch = append(batch, codec.MovePart{ID: part.ID, X: part.X, Y: part.Y, RotationN: part.RotCos, RotationI: part.RotSin})
		}
	}

	for _, part := range world.FreeParts {
		if !withinCullRadius(self.CoreX, self.CoreY, part.X, part.Y) {
			continue
		}
		batch = append(batch, codec.MovePart{ID: part.ID, X: part.X, Y: part.Y, RotationN: part.RotCos, RotationI: part.RotSin})
	}

	batch = append(batch, codec.PostSimulationTick{YourPower: self.Power})
	return batch
}

func withinCullRadius(cx, cy, x, y float32) bool {
	dx, dy := x-cx, y-cy
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= cullRadius && dy <= cullRadius
}
