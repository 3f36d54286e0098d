package codec

// PartKind enumerates the eleven kinds of ship part. The wire ordinal is the
// declaration order below, matching the original codec exactly.
type PartKind uint8

const (
	PartCore PartKind = iota
	PartCargo
	PartLandingThruster
	PartHub
	PartSolarPanel
	PartEcoThruster
	PartThruster
	PartSuperThruster
	PartPowerHub
	PartHubThruster
	PartLandingWheel
	partKindCount
)

func (k PartKind) valid() bool { return k < partKindCount }

func (k PartKind) serialize(out []byte) []byte { return putU8(out, uint8(k)) }

func decodePartKind(d *decoder) (PartKind, error) {
	v, err := d.u8()
	if err != nil {
		return 0, err
	}
	k := PartKind(v)
	if !k.valid() {
		return 0, ErrBadDiscriminant
	}
	return k, nil
}

// PlanetKind enumerates the twelve celestial object kinds.
type PlanetKind uint8

const (
	PlanetEarth PlanetKind = iota
	PlanetVenus
	PlanetMars
	PlanetMoon
	PlanetSun
	PlanetMercury
	PlanetNeptune
	PlanetUranus
	PlanetJupiter
	PlanetSaturn
	PlanetPluto
	PlanetTrade
	planetKindCount
)

func (k PlanetKind) valid() bool { return k < planetKindCount }

func (k PlanetKind) serialize(out []byte) []byte { return putU8(out, uint8(k)) }

func decodePlanetKind(d *decoder) (PlanetKind, error) {
	v, err := d.u8()
	if err != nil {
		return 0, err
	}
	k := PlanetKind(v)
	if !k.valid() {
		return 0, ErrBadDiscriminant
	}
	return k, nil
}
