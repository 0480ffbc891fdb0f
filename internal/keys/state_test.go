package keys

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateDownUp(t *testing.T) {
	s := NewState()
	j := Char('j')

	assert.False(t, s.IsDown(j))
	s.Down(j)
	assert.True(t, s.IsDown(j))
	s.Down(j) // repeat press is a no-op
	s.Up(j)
	assert.False(t, s.IsDown(j))
	s.Up(j) // releasing an up key is a no-op
}

func TestStateZeroKeyNeverDown(t *testing.T) {
	s := NewState()
	s.Down(Key{})
	assert.False(t, s.IsDown(Key{}))
	assert.Empty(t, s.Snapshot())
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewState()
	s.Down(Char('w'))
	snap := s.Snapshot()

	s.Up(Char('w'))
	s.Down(Char('s'))

	// The snapshot reflects the state at capture time.
	assert.True(t, snap.IsDown(Char('w')))
	assert.False(t, snap.IsDown(Char('s')))
	assert.False(t, snap.IsDown(Key{}))
}

func TestStateConcurrentAccess(t *testing.T) {
	s := NewState()
	k := Named("esc")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Down(k)
			s.Up(k)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.IsDown(k)
			s.Snapshot()
		}
	}()
	wg.Wait()
}
