package mapper

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shredders/keymapper/internal/keys"
	"github.com/shredders/keymapper/internal/profile"
)

// Sink receives computed frames and pushes them to the virtual device.
type Sink interface {
	// Apply pushes the frame to the device and flushes it.
	Apply(Frame) error
	// Neutral resets every control to rest state and flushes.
	Neutral() error
	Close() error
}

// Hook is the global keyboard listener the loop feeds key state from.
type Hook interface {
	Start(onDown, onUp func(keys.Key)) error
	Stop()
}

type loopState int32

const (
	stateStopped loopState = iota
	stateStarting
	stateRunning
	stateStopping
)

const defaultInterval = 10 * time.Millisecond

// Loop runs the mapping cycle at a fixed rate: read the profile
// snapshot, check the exit combo, compute a frame from held keys, apply
// it to the sink, sleep. One Loop owns one run at a time; Start after
// Stopped begins a fresh run.
type Loop struct {
	profiles *profile.Store
	hook     Hook
	openSink func() (Sink, error)
	interval time.Duration
	onStatus func(string)
	frames   chan Frame

	mu       sync.Mutex
	state    loopState
	status   string
	stopCh   chan struct{}
	stopOnce *sync.Once
}

// NewLoop wires a loop. openSink is called on every start so a failed
// device open can be retried on the next start. onStatus may be nil.
func NewLoop(profiles *profile.Store, hook Hook, openSink func() (Sink, error), interval time.Duration, onStatus func(string)) *Loop {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Loop{
		profiles: profiles,
		hook:     hook,
		openSink: openSink,
		interval: interval,
		onStatus: onStatus,
		frames:   make(chan Frame, 64),
		status:   "Ready",
	}
}

// Frames returns the telemetry channel carrying each changed frame.
// Frames are dropped rather than blocking the cycle when the consumer
// falls behind.
func (l *Loop) Frames() <-chan Frame {
	return l.frames
}

// Status returns the current user-facing status string.
func (l *Loop) Status() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Running reports whether a run is active (starting, running, or still
// tearing down).
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state != stateStopped
}

// Start launches the loop goroutine. It is a no-op while a run is
// active.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.state != stateStopped {
		l.mu.Unlock()
		return
	}
	l.state = stateStarting
	l.status = "Starting"
	l.stopCh = make(chan struct{})
	l.stopOnce = &sync.Once{}
	stop := l.stopCh
	l.mu.Unlock()

	l.notify("Starting")
	go l.run(stop)
}

// Stop requests termination. It is safe from any goroutine and never
// blocks on the cycle sleep; teardown happens inside the loop goroutine
// on its next wake.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.state == stateStopped {
		l.mu.Unlock()
		return
	}
	once, ch := l.stopOnce, l.stopCh
	l.mu.Unlock()

	once.Do(func() { close(ch) })
}

func (l *Loop) run(stop <-chan struct{}) {
	sink, err := l.openSink()
	if err != nil {
		log.Error().Err(err).Msg("Virtual gamepad init failed")
		l.finish(fmt.Sprintf("Error: gamepad init failed: %v", err))
		return
	}

	held := keys.NewState()
	if err := l.hook.Start(held.Down, held.Up); err != nil {
		log.Error().Err(err).Msg("Keyboard hook failed")
		// The device is already open; leave it neutral on the way out.
		if nerr := sink.Neutral(); nerr != nil {
			log.Warn().Err(nerr).Msg("Device reset failed")
		}
		if cerr := sink.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Device close failed")
		}
		l.finish(fmt.Sprintf("Error: keyboard hook failed: %v", err))
		return
	}

	l.transition(stateRunning, "Running")
	log.Info().Dur("interval", l.interval).Msg("Mapper running")

	exit := NewExitDetector()
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	var last Frame
	applied := false

cycle:
	for {
		select {
		case <-stop:
			break cycle
		case <-ticker.C:
			p := l.profiles.Current()
			snap := held.Snapshot()

			if exit.Check(snap, p) {
				log.Info().Msg("Exit combo triggered")
				break cycle
			}

			f := Compute(snap, p)
			if err := sink.Apply(f); err != nil {
				log.Warn().Err(err).Msg("Frame apply failed, cycle skipped")
				continue
			}
			if !applied || f != last {
				l.emit(f)
				last, applied = f, true
			}
		}
	}

	l.transition(stateStopping, "Stopping")
	l.hook.Stop()
	if err := sink.Neutral(); err != nil {
		log.Warn().Err(err).Msg("Device reset failed")
	}
	// Mirror the neutralized device on the telemetry channel so
	// observers don't keep showing the last held frame.
	l.emit(Frame{})
	if err := sink.Close(); err != nil {
		log.Warn().Err(err).Msg("Device close failed")
	}
	l.finish("Stopped")
	log.Info().Msg("Mapper stopped")
}

func (l *Loop) transition(s loopState, status string) {
	l.mu.Lock()
	l.state = s
	l.status = status
	l.mu.Unlock()
	l.notify(status)
}

// finish ends the run: terminal status, state back to Stopped.
func (l *Loop) finish(status string) {
	l.mu.Lock()
	l.state = stateStopped
	l.status = status
	l.mu.Unlock()
	l.notify(status)
}

func (l *Loop) notify(status string) {
	if l.onStatus != nil {
		l.onStatus(status)
	}
}

func (l *Loop) emit(f Frame) {
	select {
	case l.frames <- f:
	default:
		// Drop rather than stall the cycle when the consumer lags.
	}
}
