package mapper

// Device ranges of the virtual Xbox-compatible pad.
const (
	AxisMax    = 32767
	TriggerMax = 255
)

type ButtonState struct {
	A       bool `json:"a"`
	B       bool `json:"b"`
	X       bool `json:"x"`
	Y       bool `json:"y"`
	LB      bool `json:"lb"`
	RB      bool `json:"rb"`
	Back    bool `json:"back"`
	Start   bool `json:"start"`
	LSClick bool `json:"ls_click"`
	RSClick bool `json:"rs_click"`
}

type DpadState struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// Vector is a stick position in the device's native signed range.
// Positive Y means up.
type Vector struct {
	X int16 `json:"x"`
	Y int16 `json:"y"`
}

type SticksState struct {
	Left  Vector `json:"left"`
	Right Vector `json:"right"`
}

type TriggersState struct {
	LT uint8 `json:"lt"`
	RT uint8 `json:"rt"`
}

// Frame is one computed controller state. It is recomputed every cycle
// and never persisted.
type Frame struct {
	Buttons  ButtonState   `json:"buttons"`
	Dpad     DpadState     `json:"dpad"`
	Sticks   SticksState   `json:"sticks"`
	Triggers TriggersState `json:"triggers"`
}

// Delta holds only the frame groups that changed between two frames.
type Delta struct {
	Buttons  *ButtonState   `json:"buttons,omitempty"`
	Dpad     *DpadState     `json:"dpad,omitempty"`
	Sticks   *SticksState   `json:"sticks,omitempty"`
	Triggers *TriggersState `json:"triggers,omitempty"`
}

func (d *Delta) IsEmpty() bool {
	return d.Buttons == nil && d.Dpad == nil && d.Sticks == nil && d.Triggers == nil
}

// ComputeDelta compares two frames group by group. All fields are
// integral, so comparison is exact.
func ComputeDelta(old, cur Frame) *Delta {
	d := &Delta{}
	if old.Buttons != cur.Buttons {
		d.Buttons = &cur.Buttons
	}
	if old.Dpad != cur.Dpad {
		d.Dpad = &cur.Dpad
	}
	if old.Sticks != cur.Sticks {
		d.Sticks = &cur.Sticks
	}
	if old.Triggers != cur.Triggers {
		d.Triggers = &cur.Triggers
	}
	return d
}
