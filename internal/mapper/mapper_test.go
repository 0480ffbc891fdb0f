package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shredders/keymapper/internal/keys"
	"github.com/shredders/keymapper/internal/profile"
)

func snapOf(ks ...keys.Key) keys.Snapshot {
	s := make(keys.Snapshot, len(ks))
	for _, k := range ks {
		s[k] = struct{}{}
	}
	return s
}

func TestComputeIsDeterministic(t *testing.T) {
	p := profile.Default()
	p.Bindings[profile.ButtonA] = keys.Char('j')
	p.Bindings[profile.LeftStickUp] = keys.Char('w')
	snap := snapOf(keys.Char('j'), keys.Char('w'))

	first := Compute(snap, p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(snap, p))
	}
}

func TestComputeButtons(t *testing.T) {
	p := profile.Default()
	p.Bindings[profile.ButtonA] = keys.Char('j')
	p.Bindings[profile.ButtonStart] = keys.Named("enter")
	p.Bindings[profile.ButtonDpadUp] = keys.Named("up")

	f := Compute(snapOf(keys.Char('j'), keys.Named("up")), p)
	assert.True(t, f.Buttons.A)
	assert.False(t, f.Buttons.Start)
	assert.True(t, f.Dpad.Up)

	// Release 'j': the next frame drops the button.
	f = Compute(snapOf(keys.Named("up")), p)
	assert.False(t, f.Buttons.A)
}

func TestComputeUnmappedControlsInactive(t *testing.T) {
	// Nothing mapped: any held keys produce a neutral frame.
	f := Compute(snapOf(keys.Char('a'), keys.Named("esc")), profile.Default())
	assert.Equal(t, Frame{}, f)
}

func TestStickComposition(t *testing.T) {
	p := profile.Default()
	p.Bindings[profile.LeftStickUp] = keys.Char('w')
	p.Bindings[profile.LeftStickDown] = keys.Char('s')
	p.Bindings[profile.LeftStickLeft] = keys.Char('a')
	p.Bindings[profile.LeftStickRight] = keys.Char('d')

	tests := []struct {
		name string
		held []keys.Key
		want Vector
	}{
		{"neutral", nil, Vector{0, 0}},
		{"right only", []keys.Key{keys.Char('d')}, Vector{AxisMax, 0}},
		{"left only", []keys.Key{keys.Char('a')}, Vector{-AxisMax, 0}},
		{"up only", []keys.Key{keys.Char('w')}, Vector{0, AxisMax}},
		{"opposites cancel", []keys.Key{keys.Char('w'), keys.Char('s')}, Vector{0, 0}},
		{"diagonal", []keys.Key{keys.Char('w'), keys.Char('d')}, Vector{AxisMax, AxisMax}},
		{"all four cancel", []keys.Key{keys.Char('w'), keys.Char('s'), keys.Char('a'), keys.Char('d')}, Vector{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Compute(snapOf(tt.held...), p)
			assert.Equal(t, tt.want, f.Sticks.Left)
			assert.Equal(t, Vector{}, f.Sticks.Right, "right stick is unmapped and must stay neutral")
		})
	}
}

func TestStickMagnitude(t *testing.T) {
	p := profile.Default()
	p.Bindings[profile.RightStickRight] = keys.Char('l')
	held := snapOf(keys.Char('l'))

	p.StickMagnitude = 0
	assert.Equal(t, int16(0), Compute(held, p).Sticks.Right.X)

	p.StickMagnitude = 1
	assert.Equal(t, int16(AxisMax), Compute(held, p).Sticks.Right.X)

	p.StickMagnitude = 0.5
	assert.Equal(t, int16(16384), Compute(held, p).Sticks.Right.X, "half magnitude rounds to nearest step")

	// Out-of-range magnitudes clamp rather than overflow the axis.
	p.StickMagnitude = 3.5
	assert.Equal(t, int16(AxisMax), Compute(held, p).Sticks.Right.X)
}

func TestOppositeKeysCancelAtAnyMagnitude(t *testing.T) {
	p := profile.Default()
	p.Bindings[profile.LeftStickUp] = keys.Named("up")
	p.Bindings[profile.LeftStickDown] = keys.Named("down")
	held := snapOf(keys.Named("up"), keys.Named("down"))

	for _, mag := range []float64{0.1, 0.5, 1.0} {
		p.StickMagnitude = mag
		assert.Equal(t, int16(0), Compute(held, p).Sticks.Left.Y, "magnitude %v", mag)
	}
}

func TestTriggersAreBinary(t *testing.T) {
	p := profile.Default()
	p.Bindings[profile.TriggerLeft] = keys.Char('q')
	p.Bindings[profile.TriggerRight] = keys.Char('e')

	f := Compute(snapOf(keys.Char('q')), p)
	assert.Equal(t, uint8(TriggerMax), f.Triggers.LT)
	assert.Equal(t, uint8(0), f.Triggers.RT)

	f = Compute(snapOf(), p)
	assert.Equal(t, uint8(0), f.Triggers.LT)
}
