package session

import (
	"log"
	"time"

	"glap/codec"
	"glap/wsproto"
)

// finalDrainGrace is the longest drainFinal waits for further queued
// messages before it returns.
const finalDrainGrace = 5 * time.Second

// Writer owns one connection's outbound direction: it drains queue and
// frames each message, until the queue is closed and drained or the
// connection errors.
type Writer struct {
	PlayerID PlayerID
	conn     *wsproto.Conn
	queue    chan codec.ToClientMsg
}

// NewWriter returns a writer with a bounded queue, and the send-side of
// that queue for the serializer to register via EventNewWriter.
func NewWriter(id PlayerID, conn *wsproto.Conn) (*Writer, chan codec.ToClientMsg) {
	queue := make(chan codec.ToClientMsg, writerQueueCapacity)
	return &Writer{PlayerID: id, conn: conn, queue: queue}, queue
}

// Run drains the queue until it's closed or a write fails, and returns at
// once on a failed write. Every message queued before the close is written
// by the range loop, so the drainFinal call after it finds the queue closed
// and returns without waiting: Run does not hold the connection open for
// finalDrainGrace after the close, and it never closes the socket itself.
func (w *Writer) Run() {
	for msg := range w.queue {
		if err := w.conn.WriteBinary(msg.Encode()); err != nil {
			log.Printf("session: writer for player %d: %v", w.PlayerID, err)
			return
		}
	}
	w.drainFinal()
}

// Close forcibly closes the underlying connection, unblocking Run (and any
// in-flight Write) so it returns and drains. Used by the serializer when
// this writer's queue overflows: a player that can't keep up is disconnected
// rather than left receiving a silently thinned stream.
func (w *Writer) Close() {
	w.conn.Close()
}

func (w *Writer) drainFinal() {
	deadline := time.NewTimer(finalDrainGrace)
	defer deadline.Stop()
	for {
		select {
		case msg, ok := <-w.queue:
			if !ok {
				return
			}
			if err := w.conn.WriteBinary(msg.Encode()); err != nil {
				return
			}
		case <-deadline.C:
			return
		}
	}
}

// Enqueue offers msg to the writer's queue without blocking. Reports
// whether it was accepted: a full queue means a slow client, and the caller
// (the serializer) treats that as SendQueueFull rather than stall the whole
// tick on one backed-up connection.
func Enqueue(queue chan<- codec.ToClientMsg, msg codec.ToClientMsg) bool {
	select {
	case queue <- msg:
		return true
	default:
		return false
	}
}
