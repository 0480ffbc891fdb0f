package mapper

import (
	"time"

	"github.com/shredders/keymapper/internal/keys"
	"github.com/shredders/keymapper/internal/profile"
)

// ExitDetector tracks how long both configured exit keys have been held
// simultaneously. The hold must be continuous: releasing either key at
// any point resets the timer completely.
type ExitDetector struct {
	now       func() time.Time
	holding   bool
	fired     bool
	holdStart time.Time
}

func NewExitDetector() *ExitDetector {
	return &ExitDetector{now: time.Now}
}

// Check advances the detector by one cycle and reports whether the exit
// combo fired. It fires at most once per continuous hold; the threshold
// is evaluated on cycles after the one that started the hold.
func (d *ExitDetector) Check(snap keys.Snapshot, p *profile.Profile) bool {
	if !snap.IsDown(p.ExitKey1) || !snap.IsDown(p.ExitKey2) {
		d.holding = false
		d.fired = false
		return false
	}

	if !d.holding {
		d.holding = true
		d.holdStart = d.now()
		return false
	}
	if d.fired {
		return false
	}
	if d.now().Sub(d.holdStart) >= p.ExitHold() {
		d.fired = true
		return true
	}
	return false
}
