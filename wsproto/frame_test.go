package wsproto

import (
	"bufio"
	"bytes"
	"testing"
)

// clientFrame builds a masked client->server frame the way a real browser
// would, for feeding into Conn.ReadMessage.
func clientFrame(t *testing.T, opcode Opcode, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteByte(finBit | byte(opcode))
	maskKey := [4]byte{0x11, 0x22, 0x33, 0x44}
	switch {
	case len(payload) < 126:
		buf.WriteByte(maskBit | byte(len(payload)))
	default:
		t.Fatalf("test helper only supports short payloads")
	}
	buf.Write(maskKey[:])
	masked := make([]byte, len(payload))
	for i, b := range payload {
		masked[i] = b ^ maskKey[i%4]
	}
	buf.Write(masked)
	return buf.Bytes()
}

func TestReadMessageBinary(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	raw := clientFrame(t, OpBinary, payload)
	conn := NewConn(bufio.NewReader(bytes.NewReader(raw)), &bytes.Buffer{})
	msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if msg.Opcode != OpBinary {
		t.Fatalf("expected OpBinary, got %v", msg.Opcode)
	}
	if !bytes.Equal(msg.Payload, payload) {
		t.Fatalf("payload mismatch: got %v, want %v", msg.Payload, payload)
	}
}

func TestReadMessagePing(t *testing.T) {
	raw := clientFrame(t, OpPing, []byte("hi"))
	conn := NewConn(bufio.NewReader(bytes.NewReader(raw)), &bytes.Buffer{})
	msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if msg.Opcode != OpPing {
		t.Fatalf("expected OpPing, got %v", msg.Opcode)
	}
	if string(msg.Payload) != "hi" {
		t.Fatalf("expected echoed ping payload, got %q", msg.Payload)
	}
}

func TestWriteMessageRoundTrip(t *testing.T) {
	var out bytes.Buffer
	conn := NewConn(bufio.NewReader(&bytes.Buffer{}), &out)
	payload := []byte("hello world")
	if err := conn.WriteBinary(payload); err != nil {
		t.Fatalf("WriteBinary failed: %v", err)
	}

	// Read it back unmasked, as a client would.
	readBack := NewConn(bufio.NewReader(bytes.NewReader(out.Bytes())), &bytes.Buffer{})
	msg, err := readBack.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage of our own write failed: %v", err)
	}
	if !bytes.Equal(msg.Payload, payload) {
		t.Fatalf("payload mismatch: got %v, want %v", msg.Payload, payload)
	}
}

func TestAcceptRejectsNonGet(t *testing.T) {
	req := "POST /ws HTTP/1.1\r\nHost: x\r\n\r\n"
	r := bufio.NewReader(bytes.NewReader([]byte(req)))
	var out bytes.Buffer
	if err := Accept(r, &out); err != ErrProtocol {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
}

func TestAcceptRejectsMissingHeaders(t *testing.T) {
	req := "GET /ws HTTP/1.1\r\nHost: x\r\nUpgrade: websocket\r\n\r\n"
	r := bufio.NewReader(bytes.NewReader([]byte(req)))
	var out bytes.Buffer
	if err := Accept(r, &out); err != ErrProtocol {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}
}

func TestAcceptComputesKnownKey(t *testing.T) {
	// From RFC 6455 §1.3's worked example.
	req := "GET /chat HTTP/1.1\r\n" +
		"Host: server.example.com\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
		"Sec-WebSocket-Version: 13\r\n\r\n"
	r := bufio.NewReader(bytes.NewReader([]byte(req)))
	var out bytes.Buffer
	if err := Accept(r, &out); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	want := "Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	if !bytes.Contains(out.Bytes(), []byte(want)) {
		t.Fatalf("response missing expected accept key:\n%s", out.String())
	}
}
