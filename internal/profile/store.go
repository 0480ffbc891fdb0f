package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Store publishes the current Profile as an atomically swapped snapshot.
// The mapping loop reads Current once per cycle; the configuration
// surface replaces the whole snapshot on every edit, so a cycle never
// observes a half-updated profile.
type Store struct {
	cur atomic.Pointer[Profile]
}

func NewStore(p *Profile) *Store {
	s := &Store{}
	if p == nil {
		p = Default()
	}
	s.cur.Store(p)
	return s
}

// Current returns the active snapshot. Callers must not mutate it.
func (s *Store) Current() *Profile {
	return s.cur.Load()
}

// Replace publishes a new snapshot.
func (s *Store) Replace(p *Profile) {
	s.cur.Store(p)
}

// LoadFile reads the profile document at path and publishes it. A
// missing file publishes the defaults and is not an error; unreadable
// fields inside an existing file fall back to defaults per the
// document's merge rules.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.Replace(Default())
			return nil
		}
		return fmt.Errorf("read profile: %w", err)
	}

	p := Default()
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	s.Replace(p)
	return nil
}

// SaveFile writes the current snapshot to path, creating parent
// directories as needed.
func (s *Store) SaveFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(s.Current(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Watch reloads the profile whenever the file at path is rewritten, so
// an external edit takes effect within one loop cycle. It returns once
// the watcher is installed; reload failures are logged and skipped.
func (s *Store) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create profile watcher: %w", err)
	}

	// Watch the directory: editors typically replace the file, which
	// would drop a watch on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path || !ev.Op.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if err := s.LoadFile(path); err != nil {
					log.Warn().Err(err).Str("path", path).Msg("Profile reload failed")
					continue
				}
				log.Info().Str("path", path).Msg("Profile reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("Profile watcher error")
			}
		}
	}()

	return nil
}
