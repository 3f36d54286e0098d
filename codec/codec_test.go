package codec

import (
	"reflect"
	"strings"
	"testing"
)

func sessionPtr(s string) *string { return &s }
func u16Ptr(v uint16) *uint16     { return &v }

func TestToServerRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		msg  ToServerMsg
	}{
		{"handshake no session", Handshake{Client: "web", Session: nil, Name: "Alice"}},
		{"handshake with session", Handshake{Client: "web", Session: sessionPtr("tok-123"), Name: "Bob"}},
		{"set thrusters", SetThrusters{Forward: true, Backward: false, Clockwise: true, CounterClockwise: false}},
		{"commit grab", CommitGrab{GrabbedID: 42, X: 1.5, Y: -2.5}},
		{"move grab", MoveGrab{X: 3.25, Y: 4.75}},
		{"release grab", ReleaseGrab{}},
		{"beam out", BeamOut{}},
		{"chat", SendChatMessage{Msg: "hello"}},
		{"request update", RequestUpdate{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := tc.msg.Encode()
			decoded, err := DecodeToServer(encoded)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if !reflect.DeepEqual(decoded, tc.msg) {
				t.Fatalf("round trip mismatch: got %#v, want %#v", decoded, tc.msg)
			}
		})
	}
}

func TestToClientRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		msg  ToClientMsg
	}{
		{"message pack", MessagePack{Count: 7}},
		{"handshake accepted", HandshakeAccepted{ID: 1, CoreID: 2, CanBeamout: true}},
		{"add celestial", AddCelestialObject{ID: 3, Kind: PlanetEarth, Radius: 25.0, Position: [2]float32{10, 20}}},
		{"init orbit", InitCelestialOrbit{ID: 3, OrbitAroundBody: 0, OrbitRadius: [2]float32{1500, 1500}, OrbitRotation: 0, OrbitTotalTicks: 216000}},
		{"update orbit", UpdateCelestialOrbit{ID: 3, OrbitTicksElapsed: 500}},
		{"add part", AddPart{ID: 9, Kind: PartThruster}},
		{"move part", MovePart{ID: 9, X: 1, Y: 2, RotationN: 1, RotationI: 0}},
		{"update part meta no owner", UpdatePartMeta{ID: 9, OwningPlayer: nil, ThrustMode: 0}},
		{"update part meta owned", UpdatePartMeta{ID: 9, OwningPlayer: u16Ptr(5), ThrustMode: 3}},
		{"remove part", RemovePart{ID: 9}},
		{"add player", AddPlayer{ID: 5, CoreID: 9, Name: "Alice"}},
		{"update player meta no grab", UpdatePlayerMeta{ID: 5, ThrustForward: true}},
		{"update player meta grab", UpdatePlayerMeta{ID: 5, GrabbedPart: u16Ptr(11)}},
		{"update player velocity", UpdatePlayerVelocity{ID: 5, VelX: 1.5, VelY: -1.5}},
		{"remove player", RemovePlayer{ID: 5}},
		{"post simulation tick", PostSimulationTick{YourPower: 900}},
		{"update my meta", UpdateMyMeta{MaxPower: 1000, CanBeamout: true}},
		{"beam out animation", BeamOutAnimation{PlayerID: 5}},
		{"incineration animation", IncinerationAnimation{PlayerID: 5}},
		{"chat message", ChatMessage{Username: "Alice", Msg: "hi", Color: "#dd55ff"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := tc.msg.Encode()
			decoded, err := DecodeToClient(encoded)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if !reflect.DeepEqual(decoded, tc.msg) {
				t.Fatalf("round trip mismatch: got %#v, want %#v", decoded, tc.msg)
			}
		})
	}
}

// TestStringTruncationIsLossy asserts the by-design behavior: strings over
// 255 bytes encode to an empty string and decode back to empty, not an
// error and not a truncated-but-nonempty string.
func TestStringTruncationIsLossy(t *testing.T) {
	long := strings.Repeat("x", 300)
	msg := SendChatMessage{Msg: long}
	encoded := msg.Encode()
	decoded, err := DecodeToServer(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	got, ok := decoded.(SendChatMessage)
	if !ok {
		t.Fatalf("decoded into wrong type: %T", decoded)
	}
	if got.Msg != "" {
		t.Fatalf("expected lossy empty string, got %q", got.Msg)
	}
}

func TestDecodeUnknownDiscriminant(t *testing.T) {
	if _, err := DecodeToServer([]byte{255}); err != ErrBadDiscriminant {
		t.Fatalf("expected ErrBadDiscriminant, got %v", err)
	}
	if _, err := DecodeToClient([]byte{255}); err != ErrBadDiscriminant {
		t.Fatalf("expected ErrBadDiscriminant, got %v", err)
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	if _, err := DecodeToServer([]byte{}); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
	// Handshake discriminant with no further bytes.
	if _, err := DecodeToServer([]byte{0}); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}
