package session

import (
	"bufio"
	"log"
	"net"
	"strings"
	"time"

	"glap/codec"
	"glap/metrics"
	"glap/wsproto"
)

// SuspensionGrace is the reconnect window a dropped connection's player id
// is held open for, per spec.md §4.4 ("implementation-defined... source
// keeps the entry until popped"). 60s gives a client time to reload a tab.
const SuspensionGrace = 60 * time.Second

// Reader owns one connection's inbound direction: WS upgrade, handshake,
// then a loop forwarding ToServerMsg to the game task until the socket
// errors or closes.
type Reader struct {
	Conn       net.Conn
	ToGame     chan<- ToGameEvent
	ToSerial   chan<- ToSerializerEvent
	Suspended  *SuspendedPlayers
	NextID     func() PlayerID
}

// Run performs the upgrade and handshake, then loops until the connection
// drops, dispatching to the game and serializer tasks as it goes.
func (r *Reader) Run() {
	defer r.Conn.Close()
	metrics.ConnectedSessions.Inc()
	defer metrics.ConnectedSessions.Dec()

	br := bufio.NewReader(r.Conn)
	if err := wsproto.Accept(br, r.Conn); err != nil {
		log.Printf("session: reader: upgrade failed: %v", err)
		return
	}
	conn := wsproto.NewConn(br, r.Conn)

	msg, err := conn.ReadMessage()
	if err != nil {
		log.Printf("session: reader: waiting for handshake: %v", err)
		return
	}
	if msg.Opcode != wsproto.OpBinary {
		log.Printf("session: reader: first message was not binary")
		return
	}
	toServer, err := codec.DecodeToServer(msg.Payload)
	if err != nil {
		log.Printf("session: reader: decoding handshake: %v", err)
		return
	}
	handshake, ok := toServer.(codec.Handshake)
	if !ok {
		log.Printf("session: reader: first message was not a handshake")
		return
	}

	id, reconnected := r.resolveIdentity(handshake)
	token := ""
	if handshake.Session != nil {
		token = *handshake.Session
	}

	// Register the writer before telling the game task about this player:
	// the game task reacts to NewPlayer/PlayerReconnect by unicasting
	// straight back (HandshakeAccepted, a world dump), and those sends must
	// find a registered writer waiting or they're silently dropped.
	writer, queue := NewWriter(id, conn)
	go writer.Run()
	r.ToSerial <- ToSerializerEvent{Kind: EventNewWriter, PlayerID: id, Writer: queue, Closer: writer.Close}

	if reconnected {
		r.ToGame <- ToGameEvent{Kind: EventPlayerReconnect, PlayerID: id, Name: handshake.Name, SessionToken: token, SendSelf: true}
	} else {
		r.ToGame <- ToGameEvent{Kind: EventNewPlayer, PlayerID: id, Name: handshake.Name, SessionToken: token}
	}

	r.readLoop(conn, id)

	close(queue)
	r.ToSerial <- ToSerializerEvent{Kind: EventDeleteWriter, PlayerID: id}
	if token != "" {
		r.Suspended.Suspend(id, token, time.Now(), SuspensionGrace)
		r.ToGame <- ToGameEvent{Kind: EventPlayerSuspend, PlayerID: id, SessionToken: token}
	} else {
		r.ToGame <- ToGameEvent{Kind: EventPlayerQuit, PlayerID: id}
	}
}

// resolveIdentity reclaims a suspended player id for a matching session
// token, or mints a fresh one via NextID.
func (r *Reader) resolveIdentity(h codec.Handshake) (PlayerID, bool) {
	if h.Session != nil {
		if id, ok := r.Suspended.Reclaim(*h.Session, time.Now()); ok {
			return id, true
		}
	}
	return r.NextID(), false
}

func (r *Reader) readLoop(conn *wsproto.Conn, id PlayerID) {
	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		switch msg.Opcode {
		case wsproto.OpClose:
			conn.WriteClose()
			return
		case wsproto.OpPing:
			conn.WritePong(msg.Payload)
			continue
		case wsproto.OpPong, wsproto.OpText:
			continue
		case wsproto.OpBinary:
		default:
			continue
		}

		toServer, err := codec.DecodeToServer(msg.Payload)
		if err != nil {
			log.Printf("session: reader: decoding message from player %d: %v", id, err)
			return
		}

		if chat, ok := toServer.(codec.SendChatMessage); ok && r.isDisconnectCommand(chat.Msg) {
			conn.WriteClose()
			return
		}

		r.ToGame <- ToGameEvent{Kind: EventInput, PlayerID: id, Msg: toServer}
	}
}

// isDisconnectCommand recognizes the one chat command the session layer
// itself must act on: closing a socket is a session-layer capability the
// game task doesn't have. Every other chat text, including "/shrug", is
// forwarded to the game task, which owns the player name/color needed to
// build the ChatMessage.
func (r *Reader) isDisconnectCommand(text string) bool {
	return strings.TrimSpace(text) == "/disconnect"
}
