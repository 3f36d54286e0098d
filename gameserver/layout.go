package gameserver

import "glap/world"

// defaultLayout is the part tree a player with no beam-in record spawns
// with: a bare core, one thruster for main propulsion, and one landing
// thruster for docking maneuvers, mirroring a minimal starter ship.
func defaultLayout() *world.RecursivePartDescription {
	return &world.RecursivePartDescription{
		Kind: world.PartCore,
		Attachments: [4]*world.RecursivePartDescription{
			0: {Kind: world.PartThruster},        // Up
			2: {Kind: world.PartLandingThruster}, // Down
		},
	}
}

// walkParts visits h and every part still attached beneath it, in the same
// parent-before-children order Inflate builds them in.
func walkParts(w *world.World, h world.PartHandle, fn func(world.PartHandle, *world.Part)) {
	part, ok := w.Get(h)
	if !ok {
		return
	}
	fn(h, part)
	for _, att := range part.Attachments {
		if att != nil {
			walkParts(w, att.Child, fn)
		}
	}
}

// thrustModeByte packs a part kind's thrust profile into the wire byte
// UpdatePartMeta.ThrustMode carries.
func thrustModeByte(kind world.PartKind) uint8 {
	profile := world.Thrust(kind)
	return world.CompactThrustMode(profile.Horizontal, profile.Vertical)
}
