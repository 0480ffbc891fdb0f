// Package xpad exposes a virtual Xbox-compatible gamepad through uinput.
package xpad

import (
	"fmt"

	"github.com/bendahl/uinput"

	"github.com/shredders/keymapper/internal/mapper"
)

// Identify as a wired Xbox 360 pad so games pick the stock mapping.
const (
	vendorID  = 0x045E
	productID = 0x028E
)

const uinputPath = "/dev/uinput"

// pad is the slice of uinput.Gamepad the sink drives.
type pad interface {
	ButtonDown(key int) error
	ButtonUp(key int) error
	LeftStickMove(x, y float32) error
	RightStickMove(x, y float32) error
	HatPress(direction uinput.HatDirection) error
	HatRelease(direction uinput.HatDirection) error
	Close() error
}

// Sink applies controller frames to the virtual device. It remembers the
// last applied frame and only writes the controls that changed, so a
// steady state costs no device writes at all.
type Sink struct {
	pad     pad
	last    mapper.Frame
	applied bool
}

// Open creates the virtual gamepad device. Failure here means the
// uinput driver is unavailable or inaccessible, which is fatal for the
// mapping loop.
func Open(name string) (*Sink, error) {
	g, err := uinput.CreateGamepad(uinputPath, []byte(name), vendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("create virtual gamepad: %w", err)
	}
	return &Sink{pad: g}, nil
}

// Apply pushes the frame to the device. On error the last-applied
// bookkeeping is left untouched, so the next Apply rewrites whatever
// may not have reached the device.
func (s *Sink) Apply(f mapper.Frame) error {
	force := !s.applied
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, b := range []struct {
		code      int
		cur, prev bool
	}{
		{uinput.ButtonSouth, f.Buttons.A, s.last.Buttons.A},
		{uinput.ButtonEast, f.Buttons.B, s.last.Buttons.B},
		{uinput.ButtonWest, f.Buttons.X, s.last.Buttons.X},
		{uinput.ButtonNorth, f.Buttons.Y, s.last.Buttons.Y},
		{uinput.ButtonBumperLeft, f.Buttons.LB, s.last.Buttons.LB},
		{uinput.ButtonBumperRight, f.Buttons.RB, s.last.Buttons.RB},
		{uinput.ButtonSelect, f.Buttons.Back, s.last.Buttons.Back},
		{uinput.ButtonStart, f.Buttons.Start, s.last.Buttons.Start},
		{uinput.ButtonThumbLeft, f.Buttons.LSClick, s.last.Buttons.LSClick},
		{uinput.ButtonThumbRight, f.Buttons.RSClick, s.last.Buttons.RSClick},
	} {
		if force || b.cur != b.prev {
			keep(s.setButton(b.code, b.cur))
		}
	}

	for _, h := range []struct {
		dir       uinput.HatDirection
		cur, prev bool
	}{
		{uinput.HatUp, f.Dpad.Up, s.last.Dpad.Up},
		{uinput.HatDown, f.Dpad.Down, s.last.Dpad.Down},
		{uinput.HatLeft, f.Dpad.Left, s.last.Dpad.Left},
		{uinput.HatRight, f.Dpad.Right, s.last.Dpad.Right},
	} {
		if force || h.cur != h.prev {
			if h.cur {
				keep(s.pad.HatPress(h.dir))
			} else {
				keep(s.pad.HatRelease(h.dir))
			}
		}
	}

	// evdev Y axes grow downward; the frame's Y grows up.
	if force || f.Sticks.Left != s.last.Sticks.Left {
		keep(s.pad.LeftStickMove(axisNorm(f.Sticks.Left.X), -axisNorm(f.Sticks.Left.Y)))
	}
	if force || f.Sticks.Right != s.last.Sticks.Right {
		keep(s.pad.RightStickMove(axisNorm(f.Sticks.Right.X), -axisNorm(f.Sticks.Right.Y)))
	}

	// Frames carry binary trigger values, so the triggers map onto
	// uinput's trigger button codes.
	if force || f.Triggers.LT != s.last.Triggers.LT {
		keep(s.setButton(uinput.ButtonTriggerLeft, f.Triggers.LT > 0))
	}
	if force || f.Triggers.RT != s.last.Triggers.RT {
		keep(s.setButton(uinput.ButtonTriggerRight, f.Triggers.RT > 0))
	}

	if firstErr != nil {
		// Some writes may have reached the device; force a full
		// rewrite on the next Apply so nothing stays stuck.
		s.applied = false
		return firstErr
	}
	s.last = f
	s.applied = true
	return nil
}

// Neutral resets every control to rest state.
func (s *Sink) Neutral() error {
	return s.Apply(mapper.Frame{})
}

func (s *Sink) Close() error {
	return s.pad.Close()
}

func (s *Sink) setButton(code int, down bool) error {
	if down {
		return s.pad.ButtonDown(code)
	}
	return s.pad.ButtonUp(code)
}

func axisNorm(v int16) float32 {
	n := float32(v) / mapper.AxisMax
	if n < -1 {
		n = -1
	}
	return n
}
