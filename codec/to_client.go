package codec

// ToClientMsg is the tagged union of messages the server may send. The
// discriminant byte is the variant's position in this list (18 variants).
type ToClientMsg interface {
	isToClientMsg()
	Encode() []byte
}

// MessagePack signals that the next Count messages form one logical,
// client-observable batch (e.g. a tick's worth of part moves).
type MessagePack struct{ Count uint16 }

type HandshakeAccepted struct {
	ID         uint16
	CoreID     uint16
	CanBeamout bool
}

type AddCelestialObject struct {
	ID       uint8
	Kind     PlanetKind
	Radius   float32
	Position [2]float32
}

type InitCelestialOrbit struct {
	ID               uint8
	OrbitAroundBody  uint8
	OrbitRadius      [2]float32
	OrbitRotation    float32
	OrbitTotalTicks  uint32
}

type UpdateCelestialOrbit struct {
	ID                uint8
	OrbitTicksElapsed uint32
}

type AddPart struct {
	ID   uint16
	Kind PartKind
}

type MovePart struct {
	ID                   uint16
	X, Y                 float32
	RotationN, RotationI float32 // cos, sin
}

type UpdatePartMeta struct {
	ID            uint16
	OwningPlayer  *uint16
	ThrustMode    uint8
}

type RemovePart struct{ ID uint16 }

type AddPlayer struct {
	ID     uint16
	CoreID uint16
	Name   string
}

type UpdatePlayerMeta struct {
	ID                                                       uint16
	ThrustForward, ThrustBackward, ThrustCW, ThrustCCW       bool
	GrabbedPart                                              *uint16
}

type UpdatePlayerVelocity struct {
	ID         uint16
	VelX, VelY float32
}

type RemovePlayer struct{ ID uint16 }

type PostSimulationTick struct{ YourPower uint32 }

type UpdateMyMeta struct {
	MaxPower   uint32
	CanBeamout bool
}

type BeamOutAnimation struct{ PlayerID uint16 }

type IncinerationAnimation struct{ PlayerID uint16 }

type ChatMessage struct {
	Username string
	Msg      string
	Color    string
}

func (MessagePack) isToClientMsg()           {}
func (HandshakeAccepted) isToClientMsg()     {}
func (AddCelestialObject) isToClientMsg()    {}
func (InitCelestialOrbit) isToClientMsg()    {}
func (UpdateCelestialOrbit) isToClientMsg()  {}
func (AddPart) isToClientMsg()               {}
func (MovePart) isToClientMsg()              {}
func (UpdatePartMeta) isToClientMsg()        {}
func (RemovePart) isToClientMsg()            {}
func (AddPlayer) isToClientMsg()             {}
func (UpdatePlayerMeta) isToClientMsg()      {}
func (UpdatePlayerVelocity) isToClientMsg()  {}
func (RemovePlayer) isToClientMsg()          {}
func (PostSimulationTick) isToClientMsg()    {}
func (UpdateMyMeta) isToClientMsg()          {}
func (BeamOutAnimation) isToClientMsg()      {}
func (IncinerationAnimation) isToClientMsg() {}
func (ChatMessage) isToClientMsg()           {}

func (m MessagePack) Encode() []byte {
	out := make([]byte, 0, 3)
	out = putU8(out, 0)
	out = putU16(out, m.Count)
	return out
}

func (m HandshakeAccepted) Encode() []byte {
	out := make([]byte, 0, 6)
	out = putU8(out, 1)
	out = putU16(out, m.ID)
	out = putU16(out, m.CoreID)
	out = putBool(out, m.CanBeamout)
	return out
}

func (m AddCelestialObject) Encode() []byte {
	out := make([]byte, 0, 14)
	out = putU8(out, 2)
	out = putU8(out, m.ID)
	out = m.Kind.serialize(out)
	out = putF32(out, m.Radius)
	out = putFloatPair(out, m.Position[0], m.Position[1])
	return out
}

func (m InitCelestialOrbit) Encode() []byte {
	out := make([]byte, 0, 18)
	out = putU8(out, 3)
	out = putU8(out, m.ID)
	out = putU8(out, m.OrbitAroundBody)
	out = putFloatPair(out, m.OrbitRadius[0], m.OrbitRadius[1])
	out = putF32(out, m.OrbitRotation)
	out = putU32(out, m.OrbitTotalTicks)
	return out
}

func (m UpdateCelestialOrbit) Encode() []byte {
	out := make([]byte, 0, 6)
	out = putU8(out, 4)
	out = putU8(out, m.ID)
	out = putU32(out, m.OrbitTicksElapsed)
	return out
}

func (m AddPart) Encode() []byte {
	out := make([]byte, 0, 4)
	out = putU8(out, 5)
	out = putU16(out, m.ID)
	out = m.Kind.serialize(out)
	return out
}

func (m MovePart) Encode() []byte {
	out := make([]byte, 0, 19)
	out = putU8(out, 6)
	out = putU16(out, m.ID)
	out = putF32(out, m.X)
	out = putF32(out, m.Y)
	out = putF32(out, m.RotationN)
	out = putF32(out, m.RotationI)
	return out
}

func (m UpdatePartMeta) Encode() []byte {
	out := make([]byte, 0, 7)
	out = putU8(out, 7)
	out = putU16(out, m.ID)
	if m.OwningPlayer != nil {
		out = putBool(out, true)
		out = putU16(out, *m.OwningPlayer)
	} else {
		out = putBool(out, false)
	}
	out = putU8(out, m.ThrustMode)
	return out
}

func (m RemovePart) Encode() []byte {
	out := make([]byte, 0, 3)
	out = putU8(out, 8)
	out = putU16(out, m.ID)
	return out
}

func (m AddPlayer) Encode() []byte {
	out := make([]byte, 0, 6+len(m.Name))
	out = putU8(out, 9)
	out = putU16(out, m.ID)
	out = putU16(out, m.CoreID)
	out = putStr(out, m.Name)
	return out
}

func (m UpdatePlayerMeta) Encode() []byte {
	out := make([]byte, 0, 9)
	out = putU8(out, 10)
	out = putU16(out, m.ID)
	out = putBool(out, m.ThrustForward)
	out = putBool(out, m.ThrustBackward)
	out = putBool(out, m.ThrustCW)
	out = putBool(out, m.ThrustCCW)
	if m.GrabbedPart != nil {
		out = putBool(out, true)
		out = putU16(out, *m.GrabbedPart)
	} else {
		out = putBool(out, false)
	}
	return out
}

func (m UpdatePlayerVelocity) Encode() []byte {
	out := make([]byte, 0, 11)
	out = putU8(out, 11)
	out = putU16(out, m.ID)
	out = putF32(out, m.VelX)
	out = putF32(out, m.VelY)
	return out
}

func (m RemovePlayer) Encode() []byte {
	out := make([]byte, 0, 3)
	out = putU8(out, 12)
	out = putU16(out, m.ID)
	return out
}

func (m PostSimulationTick) Encode() []byte {
	out := make([]byte, 0, 5)
	out = putU8(out, 13)
	out = putU32(out, m.YourPower)
	return out
}

func (m UpdateMyMeta) Encode() []byte {
	out := make([]byte, 0, 6)
	out = putU8(out, 14)
	out = putU32(out, m.MaxPower)
	out = putBool(out, m.CanBeamout)
	return out
}

func (m BeamOutAnimation) Encode() []byte {
	out := make([]byte, 0, 3)
	out = putU8(out, 15)
	out = putU16(out, m.PlayerID)
	return out
}

func (m IncinerationAnimation) Encode() []byte {
	out := make([]byte, 0, 3)
	out = putU8(out, 16)
	out = putU16(out, m.PlayerID)
	return out
}

func (m ChatMessage) Encode() []byte {
	out := make([]byte, 0, 3+len(m.Username)+len(m.Msg)+len(m.Color))
	out = putU8(out, 17)
	out = putStr(out, m.Username)
	out = putStr(out, m.Msg)
	out = putStr(out, m.Color)
	return out
}

// DecodeToClient decodes one ToClientMsg from a single complete message
// buffer. Used by tests and by any tooling that needs to read back what the
// serializer produced.
func DecodeToClient(buf []byte) (ToClientMsg, error) {
	d := newDecoder(buf)
	disc, err := d.u8()
	if err != nil {
		return nil, err
	}
	switch disc {
	case 0:
		count, err := d.u16()
		if err != nil {
			return nil, err
		}
		return MessagePack{Count: count}, nil
	case 1:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		coreID, err := d.u16()
		if err != nil {
			return nil, err
		}
		canBeamout, err := d.bool()
		if err != nil {
			return nil, err
		}
		return HandshakeAccepted{ID: id, CoreID: coreID, CanBeamout: canBeamout}, nil
	case 2:
		id, err := d.u8()
		if err != nil {
			return nil, err
		}
		kind, err := decodePlanetKind(d)
		if err != nil {
			return nil, err
		}
		radius, err := d.f32()
		if err != nil {
			return nil, err
		}
		x, y, err := d.floatPair()
		if err != nil {
			return nil, err
		}
		return AddCelestialObject{ID: id, Kind: kind, Radius: radius, Position: [2]float32{x, y}}, nil
	case 3:
		id, err := d.u8()
		if err != nil {
			return nil, err
		}
		around, err := d.u8()
		if err != nil {
			return nil, err
		}
		rx, ry, err := d.floatPair()
		if err != nil {
			return nil, err
		}
		rot, err := d.f32()
		if err != nil {
			return nil, err
		}
		total, err := d.u32()
		if err != nil {
			return nil, err
		}
		return InitCelestialOrbit{ID: id, OrbitAroundBody: around, OrbitRadius: [2]float32{rx, ry}, OrbitRotation: rot, OrbitTotalTicks: total}, nil
	case 4:
		id, err := d.u8()
		if err != nil {
			return nil, err
		}
		elapsed, err := d.u32()
		if err != nil {
			return nil, err
		}
		return UpdateCelestialOrbit{ID: id, OrbitTicksElapsed: elapsed}, nil
	case 5:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		kind, err := decodePartKind(d)
		if err != nil {
			return nil, err
		}
		return AddPart{ID: id, Kind: kind}, nil
	case 6:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		x, err := d.f32()
		if err != nil {
			return nil, err
		}
		y, err := d.f32()
		if err != nil {
			return nil, err
		}
		n, err := d.f32()
		if err != nil {
			return nil, err
		}
		i, err := d.f32()
		if err != nil {
			return nil, err
		}
		return MovePart{ID: id, X: x, Y: y, RotationN: n, RotationI: i}, nil
	case 7:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		present, err := d.optPresent()
		if err != nil {
			return nil, err
		}
		var owner *uint16
		if present {
			o, err := d.u16()
			if err != nil {
				return nil, err
			}
			owner = &o
		}
		mode, err := d.u8()
		if err != nil {
			return nil, err
		}
		return UpdatePartMeta{ID: id, OwningPlayer: owner, ThrustMode: mode}, nil
	case 8:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		return RemovePart{ID: id}, nil
	case 9:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		coreID, err := d.u16()
		if err != nil {
			return nil, err
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		return AddPlayer{ID: id, CoreID: coreID, Name: name}, nil
	case 10:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
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
		present, err := d.optPresent()
		if err != nil {
			return nil, err
		}
		var grabbed *uint16
		if present {
			g, err := d.u16()
			if err != nil {
				return nil, err
			}
			grabbed = &g
		}
		return UpdatePlayerMeta{ID: id, ThrustForward: fwd, ThrustBackward: back, ThrustCW: cw, ThrustCCW: ccw, GrabbedPart: grabbed}, nil
	case 11:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		vx, vy, err := d.floatPair()
		if err != nil {
			return nil, err
		}
		return UpdatePlayerVelocity{ID: id, VelX: vx, VelY: vy}, nil
	case 12:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		return RemovePlayer{ID: id}, nil
	case 13:
		power, err := d.u32()
		if err != nil {
			return nil, err
		}
		return PostSimulationTick{YourPower: power}, nil
	case 14:
		maxPower, err := d.u32()
		if err != nil {
			return nil, err
		}
		canBeamout, err := d.bool()
		if err != nil {
			return nil, err
		}
		return UpdateMyMeta{MaxPower: maxPower, CanBeamout: canBeamout}, nil
	case 15:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		return BeamOutAnimation{PlayerID: id}, nil
	case 16:
		id, err := d.u16()
		if err != nil {
			return nil, err
		}
		return IncinerationAnimation{PlayerID: id}, nil
	case 17:
		username, err := d.str()
		if err != nil {
			return nil, err
		}
		msg, err := d.str()
		if err != nil {
			return nil, err
		}
		color, err := d.str()
		if err != nil {
			return nil, err
		}
		return ChatMessage{Username: username, Msg: msg, Color: color}, nil
	default:
		return nil, ErrBadDiscriminant
	}
}
