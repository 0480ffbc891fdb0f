package xpad

import (
	"errors"
	"testing"

	"github.com/bendahl/uinput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shredders/keymapper/internal/mapper"
)

type fakePad struct {
	buttons    map[int]bool
	hats       map[uinput.HatDirection]bool
	leftX      float32
	leftY      float32
	rightX     float32
	rightY     float32
	writes     int
	closed     bool
	writeErr   error
	triggerErr error
}

func newFakePad() *fakePad {
	return &fakePad{
		buttons: make(map[int]bool),
		hats:    make(map[uinput.HatDirection]bool),
	}
}

func (p *fakePad) write() error {
	if p.writeErr != nil {
		return p.writeErr
	}
	p.writes++
	return nil
}

func (p *fakePad) setButton(key int, down bool) error {
	if p.triggerErr != nil && (key == uinput.ButtonTriggerLeft || key == uinput.ButtonTriggerRight) {
		return p.triggerErr
	}
	if err := p.write(); err != nil {
		return err
	}
	p.buttons[key] = down
	return nil
}

func (p *fakePad) ButtonDown(key int) error { return p.setButton(key, true) }
func (p *fakePad) ButtonUp(key int) error   { return p.setButton(key, false) }

func (p *fakePad) LeftStickMove(x, y float32) error {
	if err := p.write(); err != nil {
		return err
	}
	p.leftX, p.leftY = x, y
	return nil
}

func (p *fakePad) RightStickMove(x, y float32) error {
	if err := p.write(); err != nil {
		return err
	}
	p.rightX, p.rightY = x, y
	return nil
}

func (p *fakePad) HatPress(d uinput.HatDirection) error {
	if err := p.write(); err != nil {
		return err
	}
	p.hats[d] = true
	return nil
}

func (p *fakePad) HatRelease(d uinput.HatDirection) error {
	if err := p.write(); err != nil {
		return err
	}
	p.hats[d] = false
	return nil
}

func (p *fakePad) Close() error {
	p.closed = true
	return nil
}

func TestApplyFirstFrameWritesEverything(t *testing.T) {
	pad := newFakePad()
	s := &Sink{pad: pad}

	require.NoError(t, s.Apply(mapper.Frame{}))
	// 10 buttons + 4 hat directions + 2 sticks + 2 trigger buttons.
	assert.Equal(t, 18, pad.writes)
}

func TestApplyDeltaOnly(t *testing.T) {
	pad := newFakePad()
	s := &Sink{pad: pad}
	require.NoError(t, s.Apply(mapper.Frame{}))

	before := pad.writes
	require.NoError(t, s.Apply(mapper.Frame{}))
	assert.Equal(t, before, pad.writes, "steady state writes nothing")

	f := mapper.Frame{}
	f.Buttons.A = true
	require.NoError(t, s.Apply(f))
	assert.Equal(t, before+1, pad.writes, "only the changed control is written")
	assert.True(t, pad.buttons[uinput.ButtonSouth])
}

func TestApplyStickConversion(t *testing.T) {
	pad := newFakePad()
	s := &Sink{pad: pad}

	f := mapper.Frame{}
	f.Sticks.Left = mapper.Vector{X: mapper.AxisMax, Y: mapper.AxisMax}
	f.Sticks.Right = mapper.Vector{X: -mapper.AxisMax, Y: 0}
	require.NoError(t, s.Apply(f))

	assert.InDelta(t, 1.0, pad.leftX, 1e-6)
	assert.InDelta(t, -1.0, pad.leftY, 1e-6, "frame up maps to negative device Y")
	assert.InDelta(t, -1.0, pad.rightX, 1e-6)
	assert.InDelta(t, 0.0, pad.rightY, 1e-6)
}

func TestApplyTriggerButtons(t *testing.T) {
	pad := newFakePad()
	s := &Sink{pad: pad}

	f := mapper.Frame{}
	f.Triggers.LT = mapper.TriggerMax
	require.NoError(t, s.Apply(f))
	assert.True(t, pad.buttons[uinput.ButtonTriggerLeft])
	assert.False(t, pad.buttons[uinput.ButtonTriggerRight])

	f.Triggers.LT = 0
	require.NoError(t, s.Apply(f))
	assert.False(t, pad.buttons[uinput.ButtonTriggerLeft])
}

func TestApplyDpad(t *testing.T) {
	pad := newFakePad()
	s := &Sink{pad: pad}

	f := mapper.Frame{}
	f.Dpad.Up = true
	require.NoError(t, s.Apply(f))
	assert.True(t, pad.hats[uinput.HatUp])

	f.Dpad.Up = false
	require.NoError(t, s.Apply(f))
	assert.False(t, pad.hats[uinput.HatUp])
}

func TestApplyErrorRewritesNextCycle(t *testing.T) {
	pad := newFakePad()
	s := &Sink{pad: pad}
	require.NoError(t, s.Apply(mapper.Frame{}))

	f := mapper.Frame{}
	f.Buttons.Start = true

	pad.writeErr = errors.New("device write failed")
	assert.Error(t, s.Apply(f))

	// After the fault clears, the same frame is written again.
	pad.writeErr = nil
	require.NoError(t, s.Apply(f))
	assert.True(t, pad.buttons[uinput.ButtonStart])
}

func TestApplyPartialErrorForcesFullRewrite(t *testing.T) {
	pad := newFakePad()
	s := &Sink{pad: pad}
	require.NoError(t, s.Apply(mapper.Frame{}))

	// Trigger writes fail while button writes still land: the A press
	// reaches the device, the Apply as a whole errors.
	pad.triggerErr = errors.New("trigger write failed")
	f := mapper.Frame{}
	f.Buttons.A = true
	f.Triggers.LT = mapper.TriggerMax
	assert.Error(t, s.Apply(f))
	assert.True(t, pad.buttons[uinput.ButtonSouth])

	// A clean neutral frame must release the button even though the
	// neutral frame never differed from the last fully-applied one.
	pad.triggerErr = nil
	require.NoError(t, s.Apply(mapper.Frame{}))
	assert.False(t, pad.buttons[uinput.ButtonSouth])
	assert.False(t, pad.buttons[uinput.ButtonTriggerLeft])
}

func TestNeutral(t *testing.T) {
	pad := newFakePad()
	s := &Sink{pad: pad}

	f := mapper.Frame{}
	f.Buttons.A = true
	f.Triggers.RT = mapper.TriggerMax
	f.Sticks.Left = mapper.Vector{X: mapper.AxisMax}
	require.NoError(t, s.Apply(f))

	require.NoError(t, s.Neutral())
	assert.False(t, pad.buttons[uinput.ButtonSouth])
	assert.False(t, pad.buttons[uinput.ButtonTriggerRight])
	assert.InDelta(t, 0.0, pad.leftX, 1e-6)
}

func TestClose(t *testing.T) {
	pad := newFakePad()
	s := &Sink{pad: pad}
	require.NoError(t, s.Close())
	assert.True(t, pad.closed)
}
