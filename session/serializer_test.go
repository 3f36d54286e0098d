package session

import (
	"testing"

	"glap/codec"
)

func drain(t *testing.T, queue chan codec.ToClientMsg) []codec.ToClientMsg {
	t.Helper()
	var out []codec.ToClientMsg
	for {
		select {
		case m := <-queue:
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestSerializerBroadcastsToEveryWriter(t *testing.T) {
	inbox := make(chan ToSerializerEvent, 8)
	s := NewSerializer(inbox)

	q1 := make(chan codec.ToClientMsg, 8)
	q2 := make(chan codec.ToClientMsg, 8)
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 1, Writer: q1})
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 2, Writer: q2})

	s.handle(ToSerializerEvent{Kind: EventBroadcast, Msg: codec.ChatMessage{Username: "server", Msg: "hi", Color: "gray"}})

	for _, q := range []chan codec.ToClientMsg{q1, q2} {
		msgs := drain(t, q)
		if len(msgs) != 1 {
			t.Fatalf("got %d messages, want 1", len(msgs))
		}
		chat, ok := msgs[0].(codec.ChatMessage)
		if !ok || chat.Username != "server" || chat.Msg != "hi" || chat.Color != "gray" {
			t.Fatalf("got %#v, want ChatMessage{server,hi,gray}", msgs[0])
		}
	}
}

func TestSerializerUnicastReachesOnlyTargetedWriter(t *testing.T) {
	inbox := make(chan ToSerializerEvent, 8)
	s := NewSerializer(inbox)

	q1 := make(chan codec.ToClientMsg, 8)
	q2 := make(chan codec.ToClientMsg, 8)
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 1, Writer: q1})
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 2, Writer: q2})

	s.handle(ToSerializerEvent{Kind: EventUnicast, PlayerID: 1, Msg: codec.HandshakeAccepted{ID: 1, CoreID: 5}})

	if msgs := drain(t, q1); len(msgs) != 1 {
		t.Fatalf("got %d messages for target, want 1", len(msgs))
	}
	if msgs := drain(t, q2); len(msgs) != 0 {
		t.Fatalf("got %d messages for non-target, want 0", len(msgs))
	}
}

func TestSerializerMulticastReachesOnlyListedWriters(t *testing.T) {
	inbox := make(chan ToSerializerEvent, 8)
	s := NewSerializer(inbox)

	q1 := make(chan codec.ToClientMsg, 8)
	q2 := make(chan codec.ToClientMsg, 8)
	q3 := make(chan codec.ToClientMsg, 8)
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 1, Writer: q1})
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 2, Writer: q2})
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 3, Writer: q3})

	s.handle(ToSerializerEvent{Kind: EventMulticast, PlayerIDs: []PlayerID{1, 3}, Msg: codec.RemovePart{ID: 9}})

	if msgs := drain(t, q1); len(msgs) != 1 {
		t.Fatalf("got %d messages for listed writer 1, want 1", len(msgs))
	}
	if msgs := drain(t, q2); len(msgs) != 0 {
		t.Fatalf("got %d messages for unlisted writer 2, want 0", len(msgs))
	}
	if msgs := drain(t, q3); len(msgs) != 1 {
		t.Fatalf("got %d messages for listed writer 3, want 1", len(msgs))
	}
}

func TestSerializerDeleteWriterStopsFanout(t *testing.T) {
	inbox := make(chan ToSerializerEvent, 8)
	s := NewSerializer(inbox)

	q := make(chan codec.ToClientMsg, 8)
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 1, Writer: q})
	s.handle(ToSerializerEvent{Kind: EventDeleteWriter, PlayerID: 1})
	s.handle(ToSerializerEvent{Kind: EventBroadcast, Msg: codec.RemovePlayer{ID: 1}})

	if msgs := drain(t, q); len(msgs) != 0 {
		t.Fatalf("got %d messages after delete, want 0", len(msgs))
	}
}

func TestSerializerWorldUpdateOnlySentAfterRequestUpdate(t *testing.T) {
	inbox := make(chan ToSerializerEvent, 8)
	s := NewSerializer(inbox)

	q := make(chan codec.ToClientMsg, 8)
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 1, Writer: q})

	world := &WorldUpdate{Players: map[PlayerID]PlayerSnapshot{1: {ID: 1, CoreX: 0, CoreY: 0, Power: 50}}}
	s.handle(ToSerializerEvent{Kind: EventWorldUpdateTick, World: world})
	if msgs := drain(t, q); len(msgs) != 0 {
		t.Fatalf("got %d messages before RequestUpdate, want 0", len(msgs))
	}

	s.handle(ToSerializerEvent{Kind: EventRequestUpdate, PlayerID: 1})
	s.handle(ToSerializerEvent{Kind: EventWorldUpdateTick, World: world})

	msgs := drain(t, q)
	if len(msgs) < 2 {
		t.Fatalf("got %d messages, want at least MessagePack + PostSimulationTick", len(msgs))
	}
	if _, ok := msgs[0].(codec.MessagePack); !ok {
		t.Fatalf("first message is %#v, want MessagePack", msgs[0])
	}
	if tick, ok := msgs[len(msgs)-1].(codec.PostSimulationTick); !ok || tick.YourPower != 50 {
		t.Fatalf("last message is %#v, want PostSimulationTick{YourPower:50}", msgs[len(msgs)-1])
	}

	// One-shot pull: a second tick without another RequestUpdate sends nothing.
	s.handle(ToSerializerEvent{Kind: EventWorldUpdateTick, World: world})
	if msgs := drain(t, q); len(msgs) != 0 {
		t.Fatalf("got %d messages on second tick without RequestUpdate, want 0", len(msgs))
	}
}

func TestSerializerCullsDistantParts(t *testing.T) {
	inbox := make(chan ToSerializerEvent, 8)
	s := NewSerializer(inbox)

	q := make(chan codec.ToClientMsg, 32)
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 1, Writer: q})
	s.handle(ToSerializerEvent{Kind: EventRequestUpdate, PlayerID: 1})

	world := &WorldUpdate{
		Players: map[PlayerID]PlayerSnapshot{
			1: {ID: 1, CoreX: 0, CoreY: 0},
			2: {ID: 2, CoreX: 50, CoreY: 0, Parts: []PartMove{{ID: 100, X: 50, Y: 0}}},
			3: {ID: 3, CoreX: 9000, CoreY: 9000, Parts: []PartMove{{ID: 200, X: 9000, Y: 9000}}},
		},
		FreeParts: []PartMove{
			{ID: 300, X: 10, Y: 10},
			{ID: 400, X: 9000, Y: 9000},
		},
	}
	s.handle(ToSerializerEvent{Kind: EventWorldUpdateTick, World: world})

	msgs := drain(t, q)
	seen := map[uint16]bool{}
	for _, m := range msgs {
		if mp, ok := m.(codec.MovePart); ok {
			seen[mp.ID] = true
		}
	}
	if !seen[100] {
		t.Errorf("expected nearby player 2's part 100 to be included")
	}
	if seen[200] {
		t.Errorf("expected far player 3's part 200 to be culled")
	}
	if !seen[300] {
		t.Errorf("expected nearby free part 300 to be included")
	}
	if seen[400] {
		t.Errorf("expected far free part 400 to be culled")
	}
}

func TestSerializerClosesAndDropsWriterOnFullQueue(t *testing.T) {
	inbox := make(chan ToSerializerEvent, 8)
	s := NewSerializer(inbox)

	q1 := make(chan codec.ToClientMsg, 1)
	q1 <- codec.RemovePart{ID: 1} // fill the queue so the next send overflows
	q2 := make(chan codec.ToClientMsg, 8)

	closed := false
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 1, Writer: q1, Closer: func() { closed = true }})
	s.handle(ToSerializerEvent{Kind: EventNewWriter, PlayerID: 2, Writer: q2})

	s.handle(ToSerializerEvent{Kind: EventBroadcast, Msg: codec.ChatMessage{Username: "server", Msg: "hi"}})

	if !closed {
		t.Fatal("expected the overflowing writer's closer to be invoked")
	}
	if _, ok := s.writers[1]; ok {
		t.Fatal("expected the overflowing writer to be dropped from the registry")
	}
	if msgs := drain(t, q2); len(msgs) != 1 {
		t.Fatalf("got %d messages for the healthy writer, want 1 (one slow writer must not affect others)", len(msgs))
	}
}

func TestWithinCullRadius(t *testing.T) {
	tests := []struct {
		name     string
		cx, cy   float32
		x, y     float32
		expected bool
	}{
		{"at center", 0, 0, 0, 0, true},
		{"just inside", 0, 0, 200, 200, true},
		{"just outside x", 0, 0, 201, 0, false},
		{"just outside y", 0, 0, 0, 201, false},
		{"negative within", 0, 0, -150, -150, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withinCullRadius(tt.cx, tt.cy, tt.x, tt.y); got != tt.expected {
				t.Errorf("withinCullRadius(%v,%v,%v,%v) = %v, want %v", tt.cx, tt.cy, tt.x, tt.y, got, tt.expected)
			}
		})
	}
}
