package world

import "glap/codec"

// PartKind re-exports the wire enum so callers that only touch the world
// package don't need to import codec directly for this common type.
type PartKind = codec.PartKind

const (
	PartCore            = codec.PartCore
	PartCargo           = codec.PartCargo
	PartLandingThruster = codec.PartLandingThruster
	PartHub             = codec.PartHub
	PartSolarPanel      = codec.PartSolarPanel
	PartEcoThruster     = codec.PartEcoThruster
	PartThruster        = codec.PartThruster
	PartSuperThruster   = codec.PartSuperThruster
	PartPowerHub        = codec.PartPowerHub
	PartHubThruster     = codec.PartHubThruster
	PartLandingWheel    = codec.PartLandingWheel
)

// unitHalfExtent is the half-width of every part's collider: all parts share
// a unit cuboid, per spec §3.
const unitHalfExtent = 0.5

// AttachmentSlot describes one of a part's up to four attachment points.
type AttachmentSlot struct {
	Facing Facing
}

// attachmentTable lists the four slots (Up, Right, Down, Left) a part kind
// exposes. A nil entry means that slot is absent for this kind.
var attachmentTable = map[PartKind][4]*AttachmentSlot{
	PartCore:            {{FacingUp}, {FacingRight}, {FacingDown}, {FacingLeft}},
	PartHub:             {{FacingUp}, {FacingRight}, {FacingDown}, {FacingLeft}},
	PartPowerHub:        {{FacingUp}, {FacingRight}, {FacingDown}, {FacingLeft}},
	PartHubThruster:     {{FacingUp}, {FacingRight}, nil, {FacingLeft}},
	PartCargo:           {nil, nil, nil, nil},
	PartLandingThruster: {nil, nil, nil, nil},
	PartSolarPanel:      {nil, nil, nil, nil},
	PartEcoThruster:     {nil, nil, nil, nil},
	PartThruster:        {nil, nil, nil, nil},
	PartSuperThruster:   {nil, nil, nil, nil},
	PartLandingWheel:    {nil, nil, nil, nil},
}

// AttachmentLocations returns the four slot descriptors for kind, with
// absent slots as nil, matching the original engine's
// `attachment_locations()` table.
func AttachmentLocations(kind PartKind) [4]*AttachmentSlot {
	if table, ok := attachmentTable[kind]; ok {
		return table
	}
	return [4]*AttachmentSlot{}
}

// HorizontalThrustMode is the rotational direction a part's thrust
// contributes to, packed into the wire ThrustMode byte alongside
// VerticalThrustMode.
type HorizontalThrustMode uint8

const (
	ThrustCCW    HorizontalThrustMode = 0
	ThrustCW     HorizontalThrustMode = 1
	ThrustEither HorizontalThrustMode = 2
)

// VerticalThrustMode is the linear direction a part's thrust contributes
// to.
type VerticalThrustMode uint8

const (
	ThrustBackward VerticalThrustMode = 0
	ThrustForward  VerticalThrustMode = 1
)

// CompactThrustMode packs a horizontal/vertical thrust mode pair into the
// single byte UpdatePartMeta.ThrustMode carries on the wire, matching the
// original engine's bit layout: bits 0-1 horizontal, bit 2 vertical.
func CompactThrustMode(h HorizontalThrustMode, v VerticalThrustMode) uint8 {
	out := uint8(h) & 0x3
	if v == ThrustForward {
		out |= 0x4
	}
	return out
}

// ThrustProfile describes how a part kind contributes to player movement.
// A zero Magnitude means the part produces no thrust at all (structural or
// utility parts).
type ThrustProfile struct {
	Magnitude    float32
	Horizontal   HorizontalThrustMode
	Vertical     VerticalThrustMode
	LandingOnly  bool // true for landing gear: force only applies while grounded
	LandingBoost float32
	PowerCost    uint32
}

var thrustProfiles = map[PartKind]ThrustProfile{
	PartCore:            {},
	PartCargo:           {},
	PartHub:             {},
	PartPowerHub:        {},
	PartSolarPanel:      {},
	PartEcoThruster:     {Magnitude: 6, Horizontal: ThrustEither, Vertical: ThrustForward, PowerCost: 1},
	PartThruster:        {Magnitude: 14, Horizontal: ThrustEither, Vertical: ThrustForward, PowerCost: 2},
	PartSuperThruster:   {Magnitude: 28, Horizontal: ThrustEither, Vertical: ThrustForward, PowerCost: 4},
	PartHubThruster:     {Magnitude: 18, Horizontal: ThrustEither, Vertical: ThrustForward, PowerCost: 3},
	PartLandingThruster: {Magnitude: 10, Horizontal: ThrustEither, Vertical: ThrustForward, LandingOnly: true, LandingBoost: 3, PowerCost: 2},
	PartLandingWheel:    {Magnitude: 4, Horizontal: ThrustEither, Vertical: ThrustForward, LandingOnly: true, LandingBoost: 2, PowerCost: 1},
}

// Thrust returns kind's thrust profile.
func Thrust(kind PartKind) ThrustProfile { return thrustProfiles[kind] }

var partMasses = map[PartKind]float32{
	PartCore:            5,
	PartCargo:           2,
	PartLandingThruster: 3,
	PartHub:             1.5,
	PartSolarPanel:      1,
	PartEcoThruster:     1.5,
	PartThruster:        2,
	PartSuperThruster:   3.5,
	PartPowerHub:        2.5,
	PartHubThruster:     2.5,
	PartLandingWheel:    2,
}

// Mass returns kind's mass.
func Mass(kind PartKind) float32 {
	if m, ok := partMasses[kind]; ok {
		return m
	}
	return 1
}

// ColliderOffset is the local offset of kind's collider from its body
// origin. Most kinds sit centered on their body; Hub-like kinds that serve
// as junctions offset slightly, mirroring the original engine's Hub
// translation.
func ColliderOffset(kind PartKind) Vec2 {
	switch kind {
	case PartHub, PartPowerHub, PartHubThruster:
		return Vec2{0, 0.5}
	default:
		return Vec2{0, 0}
	}
}
