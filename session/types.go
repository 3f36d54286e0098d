// Package session implements the three-actor connection pipeline: one
// reader task per connection, one serializer task, and one writer task per
// connection, connected by channels to the game task (package gameserver).
package session

import "glap/codec"

// PlayerID is the wire player identifier: 16-bit, rolling, monotone absent
// wraparound, reused only after a long suspension window expires.
type PlayerID = uint16

// ToGameEventKind discriminates the events a reader (or the reconnect
// machinery) sends to the game task.
type ToGameEventKind int

const (
	EventNewPlayer ToGameEventKind = iota
	EventPlayerReconnect
	EventPlayerQuit
	EventPlayerSuspend
	EventInput
)

// ToGameEvent is one message from the session layer to the game task.
type ToGameEvent struct {
	Kind         ToGameEventKind
	PlayerID     PlayerID
	Name         string
	SessionToken string
	Msg          codec.ToServerMsg // EventInput only
	SendSelf     bool              // EventPlayerReconnect: include the player's own parts in the dump
}

// PartMove is one part's current pose, used both for a player's own parts
// and for free-floating parts.
type PartMove struct {
	ID              uint16
	X, Y            float32
	RotCos, RotSin  float32
}

// PlayerSnapshot is one player's per-tick state, gathered by the game task
// and handed to the serializer for culling and fan-out.
type PlayerSnapshot struct {
	ID                 PlayerID
	Name               string
	CoreX, CoreY       float32
	VelX, VelY         float32
	Parts              []PartMove
	Power              uint32
	IsAdmin            bool
	CanBeamoutNow      bool
}

// WorldUpdate is the game task's per-tick snapshot of everything the
// serializer might fan out.
type WorldUpdate struct {
	Players   map[PlayerID]PlayerSnapshot
	FreeParts []PartMove
}

// ToSerializerEventKind discriminates the events the serializer consumes.
type ToSerializerEventKind int

const (
	EventNewWriter ToSerializerEventKind = iota
	EventDeleteWriter
	EventRequestUpdate
	EventWorldUpdateTick
	EventBroadcast
	EventUnicast
	EventMulticast
)

// ToSerializerEvent is one message into the serializer's inbox, sent either
// by a reader (registry changes, explicit update requests) or the game task
// (world snapshots and arbitrary wire messages to fan out). Broadcast,
// Unicast, and Multicast carry any ToClientMsg the game task builds (chat,
// AddPlayer, RemovePlayer, animations, ...); the serializer itself has no
// opinion about message content, only about which writers see it.
type ToSerializerEvent struct {
	Kind      ToSerializerEventKind
	PlayerID  PlayerID                 // EventDeleteWriter, EventRequestUpdate, EventUnicast
	PlayerIDs []PlayerID               // EventMulticast
	Writer    chan<- codec.ToClientMsg // EventNewWriter
	Closer    func()                   // EventNewWriter: force-closes the connection on SendQueueFull
	World     *WorldUpdate             // EventWorldUpdateTick
	Msg       codec.ToClientMsg        // EventBroadcast, EventUnicast, EventMulticast
}

// writerQueueCapacity bounds every per-connection writer channel: a slow
// client's backlog can grow this large before the serializer treats the
// full queue as SendQueueFull and closes that connection, rather than
// blocking the whole tick.
const writerQueueCapacity = 50

// cullRadius is the half-width of the square window, centered on a
// player's core, within which other parts are sent to that player.
const cullRadius = 200.0
