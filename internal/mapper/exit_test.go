package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shredders/keymapper/internal/keys"
	"github.com/shredders/keymapper/internal/profile"
)

// fakeClock drives the detector deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func exitFixture(holdSec float64) (*ExitDetector, *fakeClock, *profile.Profile, keys.Snapshot) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	d := NewExitDetector()
	d.now = clock.now

	p := profile.Default()
	p.ExitHoldSec = holdSec
	both := snapOf(p.ExitKey1, p.ExitKey2)
	return d, clock, p, both
}

func TestExitNotSignaledBeforeThreshold(t *testing.T) {
	d, clock, p, both := exitFixture(0.3)

	assert.False(t, d.Check(both, p), "first cycle starts the hold")
	clock.advance(100 * time.Millisecond)
	assert.False(t, d.Check(both, p))
	clock.advance(100 * time.Millisecond)
	assert.False(t, d.Check(both, p))
}

func TestExitSignalsOnceAfterThreshold(t *testing.T) {
	d, clock, p, both := exitFixture(0.3)

	d.Check(both, p)
	clock.advance(350 * time.Millisecond)
	assert.True(t, d.Check(both, p))

	// Keep holding: no repeated signal within the same hold.
	clock.advance(time.Second)
	assert.False(t, d.Check(both, p))
}

func TestExitReleaseResetsProgress(t *testing.T) {
	d, clock, p, both := exitFixture(0.3)
	one := snapOf(p.ExitKey1)

	d.Check(both, p)
	clock.advance(250 * time.Millisecond)
	assert.False(t, d.Check(both, p))

	// Release one key just short of the threshold: full reset, no
	// partial credit.
	assert.False(t, d.Check(one, p))
	clock.advance(200 * time.Millisecond)

	assert.False(t, d.Check(both, p), "re-hold restarts the timer")
	clock.advance(250 * time.Millisecond)
	assert.False(t, d.Check(both, p))
	clock.advance(100 * time.Millisecond)
	assert.True(t, d.Check(both, p), "full threshold must elapse again")
}

func TestExitFiresAgainOnNewHold(t *testing.T) {
	d, clock, p, both := exitFixture(0.1)

	d.Check(both, p)
	clock.advance(150 * time.Millisecond)
	assert.True(t, d.Check(both, p))

	assert.False(t, d.Check(snapOf(), p))

	d.Check(both, p)
	clock.advance(150 * time.Millisecond)
	assert.True(t, d.Check(both, p), "a separate continuous hold signals again")
}

func TestExitUnmappedKeysNeverSignal(t *testing.T) {
	d, clock, p, _ := exitFixture(0)
	p.ExitKey1 = keys.Key{}
	p.ExitKey2 = keys.Key{}

	everything := snapOf(keys.Named("esc"), keys.Named("backspace"), keys.Char('a'))
	for i := 0; i < 5; i++ {
		assert.False(t, d.Check(everything, p))
		clock.advance(time.Second)
	}
}

func TestExitScenarioFromProfileDefaults(t *testing.T) {
	// esc+backspace, hold 0.3s: 0.1s then release -> nothing;
	// 0.35s continuous -> fires once.
	d, clock, p, both := exitFixture(0.3)

	d.Check(both, p)
	clock.advance(100 * time.Millisecond)
	assert.False(t, d.Check(both, p))
	assert.False(t, d.Check(snapOf(), p))

	fired := 0
	d.Check(both, p)
	for i := 0; i < 7; i++ {
		clock.advance(50 * time.Millisecond)
		if d.Check(both, p) {
			fired++
		}
	}
	assert.Equal(t, 1, fired)
}
