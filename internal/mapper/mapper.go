// Package mapper turns held keys into virtual controller frames and owns
// the fixed-rate mapping loop.
package mapper

import (
	"math"

	"github.com/shredders/keymapper/internal/keys"
	"github.com/shredders/keymapper/internal/profile"
)

// Compute derives one controller frame from a key-state snapshot and a
// profile. It is pure: same inputs, same frame.
func Compute(snap keys.Snapshot, p *profile.Profile) Frame {
	held := func(control string) bool {
		return snap.IsDown(p.KeyFor(control))
	}

	var f Frame
	f.Buttons = ButtonState{
		A:       held(profile.ButtonA),
		B:       held(profile.ButtonB),
		X:       held(profile.ButtonX),
		Y:       held(profile.ButtonY),
		LB:      held(profile.ButtonLB),
		RB:      held(profile.ButtonRB),
		Back:    held(profile.ButtonBack),
		Start:   held(profile.ButtonStart),
		LSClick: held(profile.ButtonLSClick),
		RSClick: held(profile.ButtonRSClick),
	}
	f.Dpad = DpadState{
		Up:    held(profile.ButtonDpadUp),
		Down:  held(profile.ButtonDpadDown),
		Left:  held(profile.ButtonDpadLeft),
		Right: held(profile.ButtonDpadRight),
	}

	mag := p.Magnitude()
	f.Sticks.Left = Vector{
		X: axisValue(direction(held(profile.LeftStickRight), held(profile.LeftStickLeft)), mag),
		Y: axisValue(direction(held(profile.LeftStickUp), held(profile.LeftStickDown)), mag),
	}
	f.Sticks.Right = Vector{
		X: axisValue(direction(held(profile.RightStickRight), held(profile.RightStickLeft)), mag),
		Y: axisValue(direction(held(profile.RightStickUp), held(profile.RightStickDown)), mag),
	}

	// Triggers are digital-to-analog: fully engaged or fully released.
	if held(profile.TriggerLeft) {
		f.Triggers.LT = TriggerMax
	}
	if held(profile.TriggerRight) {
		f.Triggers.RT = TriggerMax
	}
	return f
}

// direction composes two opposing keys into {-1, 0, 1}. Both held
// cancel to 0.
func direction(positive, negative bool) int {
	v := 0
	if positive {
		v++
	}
	if negative {
		v--
	}
	return v
}

// axisValue scales a direction by the stick magnitude and maps it to the
// device's signed range, rounding to the nearest step.
func axisValue(dir int, magnitude float64) int16 {
	v := float64(dir) * magnitude
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(math.Round(v * AxisMax))
}
