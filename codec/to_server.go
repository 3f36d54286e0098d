package codec

// ToServerMsg is the tagged union of messages a client may send. The
// discriminant byte is the variant's position in this list.
type ToServerMsg interface {
	isToServerMsg()
	Encode() []byte
}

type Handshake struct {
	Client  string
	Session *string
	Name    string
}

type SetThrusters struct {
	Forward          bool
	Backward         bool
	Clockwise        bool
	CounterClockwise bool
}

type CommitGrab struct {
	GrabbedID uint16
	X, Y      float32
}

type MoveGrab struct{ X, Y float32 }

type ReleaseGrab struct{}

type BeamOut struct{}

type SendChatMessage struct{ Msg string }

type RequestUpdate struct{}

func (Handshake) isToServerMsg()       {}
func (SetThrusters) isToServerMsg()    {}
func (CommitGrab) isToServerMsg()      {}
func (MoveGrab) isToServerMsg()        {}
func (ReleaseGrab) isToServerMsg()     {}
func (BeamOut) isToServerMsg()         {}
func (SendChatMessage) isToServerMsg() {}
func (RequestUpdate) isToServerMsg()   {}

func (m Handshake) Encode() []byte {
	out := make([]byte, 0, 16)
	out = putU8(out, 0)
	out = putStr(out, m.Client)
	if m.Session != nil {
		out = putBool(out, true)
		out = putStr(out, *m.Session)
	} else {
		out = putBool(out, false)
	}
	out = putStr(out, m.Name)
	return out
}

func (m SetThrusters) Encode() []byte {
	out := make([]byte, 0, 5)
	out = putU8(out, 1)
	out = putBool(out, m.Forward)
	out = putBool(out, m.Backward)
	out = putBool(out, m.Clockwise)
	out = putBool(out, m.CounterClockwise)
	return out
}

func (m CommitGrab) Encode() []byte {
	out := make([]byte, 0, 11)
	out = putU8(out, 2)
	out = putU16(out, m.GrabbedID)
	out = putF32(out, m.X)
	out = putF32(out, m.Y)
	return out
}

func (m MoveGrab) Encode() []byte {
	out := make([]byte, 0, 9)
	out = putU8(out, 3)
	out = putF32(out, m.X)
	out = putF32(out, m.Y)
	return out
}

func (m ReleaseGrab) Encode() []byte { return []byte{4} }
func (m BeamOut) Encode() []byte     { return []byte{5} }

func (m SendChatMessage) Encode() []byte {
	out := make([]byte, 0, 2+len(m.Msg))
	out = putU8(out, 6)
	out = putStr(out, m.Msg)
	return out
}

func (m RequestUpdate) Encode() []byte { return []byte{7} }

// DecodeToServer decodes one ToServerMsg from a single complete message
// buffer (a WebSocket binary frame's payload). There is no outer length
// prefix; the frame boundary is the message boundary.
func DecodeToServer(buf []byte) (ToServerMsg, error) {
	d := newDecoder(buf)
	disc, err := d.u8()
	if err != nil {
		return nil, err
	}
	switch disc {
	case 0:
		client, err := d.str()
		if err != nil {
			return nil, err
		}
		present, err := d.optPresent()
		if err != nil {
			return nil, err
		}
		var session *string
		if present {
			s, err := d.str()
			if err != nil {
				return nil, err
			}
			session = &s
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		return Handshake{Client: client, Session: session, Name: name}, nil
	case 1:
		fwd, err := d.bool()
		if err != nil {
			return nil, err
		}
		back, err := d.bool()
		if err != nil {
			return nil, err
		}
		cw, err := d.bool()
		if err != nil {
			return nil, err
		}
		ccw, err := d.bool()
		if err != nil {
			return nil, err
		}
		return SetThrusters{Forward: fwd, Backward: back, Clockwise: cw, CounterClockwise: ccw}, nil
	case 2:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		x, y, err := d.floatPair()
		if err != nil {
			return nil, err
		}
		return CommitGrab{GrabbedID: id, X: x, Y: y}, nil
	case 3:
		x, y, err := d.floatPair()
		if err != nil {
			return nil, err
		}
		return MoveGrab{X: x, Y: y}, nil
	case 4:
		return ReleaseGrab{}, nil
	case 5:
		return BeamOut{}, nil
	case 6:
		msg, err := d.str()
		if err != nil {
			return nil, err
		}
		return SendChatMessage{Msg: msg}, nil
	case 7:
		return RequestUpdate{}, nil
	default:
		return nil, ErrBadDiscriminant
	}
}
