package world

// ThrustFlags mirrors SetThrusters: which of the four directions a player
// is currently holding down.
type ThrustFlags struct {
	Forward, Backward, Clockwise, CounterClockwise bool
}

// Any reports whether at least one flag is set.
func (f ThrustFlags) Any() bool { return f.Forward || f.Backward || f.Clockwise || f.CounterClockwise }

// ApplyThrust walks the part tree rooted at core, applying each part's
// kind-specific force in its own local frame, conditioned on flags and on
// the player having enough power. Landing thrusters only fire while
// touching is true for that part. Power is debited per spec §4.3; a part
// whose cost can't be paid contributes no force this tick.
func (w *World) ApplyThrust(core PartHandle, flags ThrustFlags, power *uint32, touching map[PartHandle]bool) {
	w.walkThrust(core, flags, power, touching)
}

func (w *World) walkThrust(h PartHandle, flags ThrustFlags, power *uint32, touching map[PartHandle]bool) {
	part, ok := w.parts.Get(h)
	if !ok {
		return
	}
	profile := Thrust(part.Kind)
	if profile.Magnitude > 0 {
		w.applyPartThrust(h, part, profile, flags, power, touching[h])
	}
	for _, att := range part.Attachments {
		if att != nil {
			w.walkThrust(att.Child, flags, power, touching)
		}
	}
}

func (w *World) applyPartThrust(h PartHandle, part *Part, profile ThrustProfile, flags ThrustFlags, power *uint32, isTouching bool) {
	if profile.LandingOnly && !isTouching {
		return
	}

	vertActive := (profile.Vertical == ThrustForward && flags.Forward) ||
		(profile.Vertical == ThrustBackward && flags.Backward)
	spinActive := (profile.Horizontal == ThrustCW && flags.Clockwise) ||
		(profile.Horizontal == ThrustCCW && flags.CounterClockwise) ||
		(profile.Horizontal == ThrustEither && (flags.Clockwise || flags.CounterClockwise))
	if !vertActive && !spinActive {
		return
	}
	if *power < profile.PowerCost {
		return
	}
	*power -= profile.PowerCost

	magnitude := profile.Magnitude
	if profile.LandingOnly {
		magnitude *= profile.LandingBoost
	}

	pos, cos, sin := w.phys.Position(part.Body)
	localUp := Vec2{-sin, cos}

	if vertActive {
		w.phys.ApplyForce(part.Body, localUp.Scale(magnitude))
	}
	if spinActive {
		localRight := Vec2{cos, sin}
		sign := float32(1)
		if flags.CounterClockwise && !flags.Clockwise {
			sign = -1
		}
		offset := pos.Add(localUp.Scale(0.5))
		w.phys.ApplyForceAtPoint(part.Body, localRight.Scale(magnitude*sign), offset)
	}
}

