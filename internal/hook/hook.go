// Package hook captures global keyboard input through evdev. Reading
// /dev/input directly sees every key transition regardless of which
// window has focus.
package hook

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/holoplot/go-evdev"
	"github.com/rs/zerolog/log"

	"github.com/shredders/keymapper/internal/keys"
)

// Listener fans key press/release events from every attached keyboard
// into a pair of callbacks. Start and Stop bracket one registration; a
// stopped listener can be started again.
type Listener struct {
	mu      sync.Mutex
	devices []*evdev.InputDevice
	wg      sync.WaitGroup
	running bool
}

func New() *Listener {
	return &Listener{}
}

// Start opens every keyboard-capable input device and begins delivering
// events. Callbacks are invoked from per-device reader goroutines; onUp
// may be nil.
func (l *Listener) Start(onDown, onUp func(keys.Key)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return errors.New("keyboard hook already started")
	}

	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return fmt.Errorf("list input devices: %w", err)
	}

	var opened []*evdev.InputDevice
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			log.Debug().Err(err).Str("path", p.Path).Msg("Skipping input device")
			continue
		}
		if !isKeyboard(dev) {
			dev.Close()
			continue
		}
		log.Debug().Str("device", p.Name).Str("path", p.Path).Msg("Keyboard attached")
		opened = append(opened, dev)
	}
	if len(opened) == 0 {
		return errors.New("no keyboard input devices found (is the user in the input group?)")
	}

	l.devices = opened
	l.running = true
	for _, dev := range opened {
		l.wg.Add(1)
		go l.readLoop(dev, onDown, onUp)
	}
	return nil
}

// Stop closes the devices, which unblocks the reader goroutines, and
// waits for them to drain.
func (l *Listener) Stop() {
	l.mu.Lock()
	devs := l.devices
	l.devices = nil
	l.running = false
	l.mu.Unlock()

	for _, d := range devs {
		d.Close()
	}
	l.wg.Wait()
}

func (l *Listener) readLoop(dev *evdev.InputDevice, onDown, onUp func(keys.Key)) {
	defer l.wg.Done()
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			// Device closed by Stop or unplugged.
			return
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		k := keys.FromEvdev(ev.Code)
		switch ev.Value {
		case 1:
			if onDown != nil {
				onDown(k)
			}
		case 0:
			if onUp != nil {
				onUp(k)
			}
		}
		// Value 2 is autorepeat; held state is already tracked.
	}
}

// isKeyboard filters out mice and other EV_KEY devices that cannot type.
func isKeyboard(dev *evdev.InputDevice) bool {
	hasLetter, hasEnter := false, false
	for _, c := range dev.CapableEvents(evdev.EV_KEY) {
		switch c {
		case evdev.KEY_A:
			hasLetter = true
		case evdev.KEY_ENTER:
			hasEnter = true
		}
	}
	return hasLetter && hasEnter
}

// CaptureNext waits for the next key press using its own short-lived
// listener. It is fully independent of a running mapper hook: both
// registrations read the same devices without interfering, and the
// capture registration is removed as soon as a key arrives.
func CaptureNext(ctx context.Context) (keys.Key, error) {
	l := New()
	ch := make(chan keys.Key, 1)
	if err := l.Start(func(k keys.Key) {
		select {
		case ch <- k:
		default:
		}
	}, nil); err != nil {
		return keys.Key{}, err
	}
	defer l.Stop()

	select {
	case k := <-ch:
		return k, nil
	case <-ctx.Done():
		return keys.Key{}, ctx.Err()
	}
}
