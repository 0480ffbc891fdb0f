package keys

import "sync"

// State is the set of currently held keys. It is written by the keyboard
// hook callbacks and read by the mapping loop, so all access goes through
// an internal mutex.
type State struct {
	mu   sync.RWMutex
	down map[Key]struct{}
}

func NewState() *State {
	return &State{down: make(map[Key]struct{})}
}

// Down records a key press. The zero Key is ignored.
func (s *State) Down(k Key) {
	if k.IsZero() {
		return
	}
	s.mu.Lock()
	s.down[k] = struct{}{}
	s.mu.Unlock()
}

// Up records a key release.
func (s *State) Up(k Key) {
	if k.IsZero() {
		return
	}
	s.mu.Lock()
	delete(s.down, k)
	s.mu.Unlock()
}

// IsDown reports whether the key is currently held. The zero Key is
// never down, so an unmapped control never reads as active.
func (s *State) IsDown(k Key) bool {
	if k.IsZero() {
		return false
	}
	s.mu.RLock()
	_, ok := s.down[k]
	s.mu.RUnlock()
	return ok
}

// Snapshot returns an immutable copy of the held-key set. The mapping
// loop takes one snapshot per cycle so a single frame never observes a
// half-updated set.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	snap := make(Snapshot, len(s.down))
	for k := range s.down {
		snap[k] = struct{}{}
	}
	s.mu.RUnlock()
	return snap
}

// Snapshot is a point-in-time copy of the held-key set.
type Snapshot map[Key]struct{}

// IsDown reports whether the key was held at snapshot time. The zero Key
// is never down.
func (s Snapshot) IsDown(k Key) bool {
	if k.IsZero() {
		return false
	}
	_, ok := s[k]
	return ok
}
