// Package profile defines the key-to-control mapping document and its
// persistence rules.
package profile

import (
	"encoding/json"
	"time"

	"github.com/shredders/keymapper/internal/keys"
)

// Control names of the 14 digital buttons.
const (
	ButtonA         = "A"
	ButtonB         = "B"
	ButtonX         = "X"
	ButtonY         = "Y"
	ButtonLB        = "LB"
	ButtonRB        = "RB"
	ButtonBack      = "BACK"
	ButtonStart     = "START"
	ButtonLSClick   = "LS_CLICK"
	ButtonRSClick   = "RS_CLICK"
	ButtonDpadUp    = "DPAD_UP"
	ButtonDpadDown  = "DPAD_DOWN"
	ButtonDpadLeft  = "DPAD_LEFT"
	ButtonDpadRight = "DPAD_RIGHT"
)

// Control names of the 8 stick-direction keys.
const (
	LeftStickUp     = "LEFT_STICK_UP"
	LeftStickDown   = "LEFT_STICK_DOWN"
	LeftStickLeft   = "LEFT_STICK_LEFT"
	LeftStickRight  = "LEFT_STICK_RIGHT"
	RightStickUp    = "RIGHT_STICK_UP"
	RightStickDown  = "RIGHT_STICK_DOWN"
	RightStickLeft  = "RIGHT_STICK_LEFT"
	RightStickRight = "RIGHT_STICK_RIGHT"
)

// Control names of the 2 trigger keys.
const (
	TriggerLeft  = "LT"
	TriggerRight = "RT"
)

// Setting field names in the persisted document.
const (
	fieldStickMagnitude = "STICK_MAGNITUDE"
	fieldExitHoldSec    = "EXIT_HOLD_SEC"
	fieldExitKey1       = "EXIT_KEY_1"
	fieldExitKey2       = "EXIT_KEY_2"
)

// ButtonControls lists the digital button controls in document order.
var ButtonControls = []string{
	ButtonA, ButtonB, ButtonX, ButtonY,
	ButtonLB, ButtonRB, ButtonBack, ButtonStart,
	ButtonLSClick, ButtonRSClick,
	ButtonDpadUp, ButtonDpadDown, ButtonDpadLeft, ButtonDpadRight,
}

// StickControls lists the stick-direction controls.
var StickControls = []string{
	LeftStickUp, LeftStickDown, LeftStickLeft, LeftStickRight,
	RightStickUp, RightStickDown, RightStickLeft, RightStickRight,
}

// TriggerControls lists the trigger controls.
var TriggerControls = []string{TriggerLeft, TriggerRight}

// Controls returns every mappable control name. The set is fixed:
// loading never drops a control and always fills missing ones with the
// unmapped default.
func Controls() []string {
	out := make([]string, 0, len(ButtonControls)+len(StickControls)+len(TriggerControls))
	out = append(out, ButtonControls...)
	out = append(out, StickControls...)
	out = append(out, TriggerControls...)
	return out
}

// Profile is one complete mapping of keys to controller controls plus
// the tunable settings. The mapping loop treats a Profile as immutable;
// edits replace the whole snapshot through the Store.
type Profile struct {
	Bindings       map[string]keys.Key
	StickMagnitude float64
	ExitHoldSec    float64
	ExitKey1       keys.Key
	ExitKey2       keys.Key
}

// Default returns a profile with every control unmapped and the stock
// exit combo (Esc + Backspace held for 0.3s).
func Default() *Profile {
	p := &Profile{
		Bindings:       make(map[string]keys.Key, 24),
		StickMagnitude: 1.0,
		ExitHoldSec:    0.3,
		ExitKey1:       keys.Named("esc"),
		ExitKey2:       keys.Named("backspace"),
	}
	for _, c := range Controls() {
		p.Bindings[c] = keys.Key{}
	}
	return p
}

// KeyFor returns the key bound to a control, or the zero Key when the
// control is unmapped.
func (p *Profile) KeyFor(control string) keys.Key {
	return p.Bindings[control]
}

// Magnitude returns the stick magnitude clamped to [0, 1].
func (p *Profile) Magnitude() float64 {
	switch {
	case p.StickMagnitude < 0:
		return 0
	case p.StickMagnitude > 1:
		return 1
	default:
		return p.StickMagnitude
	}
}

// ExitHold returns the exit-combo hold duration, never negative.
func (p *Profile) ExitHold() time.Duration {
	if p.ExitHoldSec <= 0 {
		return 0
	}
	return time.Duration(p.ExitHoldSec * float64(time.Second))
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Bindings = make(map[string]keys.Key, len(p.Bindings))
	for k, v := range p.Bindings {
		c.Bindings[k] = v
	}
	return &c
}

// Equal reports whether two profiles are identical in every field.
func (p *Profile) Equal(o *Profile) bool {
	if p.StickMagnitude != o.StickMagnitude || p.ExitHoldSec != o.ExitHoldSec ||
		p.ExitKey1 != o.ExitKey1 || p.ExitKey2 != o.ExitKey2 {
		return false
	}
	for _, c := range Controls() {
		if p.Bindings[c] != o.Bindings[c] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the flat persisted document with every known field
// present. Keys serialize as their tagged string form.
func (p *Profile) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(p.Bindings)+4)
	for _, c := range Controls() {
		doc[c] = p.Bindings[c].String()
	}
	doc[fieldStickMagnitude] = p.StickMagnitude
	doc[fieldExitHoldSec] = p.ExitHoldSec
	doc[fieldExitKey1] = p.ExitKey1.String()
	doc[fieldExitKey2] = p.ExitKey2.String()
	return json.Marshal(doc)
}

// UnmarshalJSON merges the document over defaults: unknown fields are
// ignored, missing or unreadable fields keep their default. Only a
// malformed top-level document is an error.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	merged := Default()
	for _, c := range Controls() {
		if k, ok := rawKey(doc[c]); ok {
			merged.Bindings[c] = k
		}
	}
	if v, ok := rawFloat(doc[fieldStickMagnitude]); ok {
		merged.StickMagnitude = v
	}
	if v, ok := rawFloat(doc[fieldExitHoldSec]); ok {
		merged.ExitHoldSec = v
	}
	if k, ok := rawKey(doc[fieldExitKey1]); ok {
		merged.ExitKey1 = k
	}
	if k, ok := rawKey(doc[fieldExitKey2]); ok {
		merged.ExitKey2 = k
	}

	*p = *merged
	return nil
}

func rawKey(raw json.RawMessage) (keys.Key, bool) {
	if raw == nil {
		return keys.Key{}, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return keys.Key{}, false
	}
	return keys.Parse(s), true
}

func rawFloat(raw json.RawMessage) (float64, bool) {
	if raw == nil {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}
