package main

import (
	"context"
	"fmt"

	"github.com/shredders/keymapper/internal/config"
	"github.com/shredders/keymapper/internal/hook"
	"github.com/shredders/keymapper/internal/keys"
	"github.com/shredders/keymapper/internal/mapper"
	"github.com/shredders/keymapper/internal/profile"
)

// app wires the profile store and mapper loop behind the control surface
// the web clients and the tray drive.
type app struct {
	cfg      *config.Config
	profiles *profile.Store
	loop     *mapper.Loop
	controls map[string]struct{}
}

func newApp(cfg *config.Config, profiles *profile.Store, loop *mapper.Loop) *app {
	controls := make(map[string]struct{})
	for _, c := range profile.Controls() {
		controls[c] = struct{}{}
	}
	return &app{
		cfg:      cfg,
		profiles: profiles,
		loop:     loop,
		controls: controls,
	}
}

func (a *app) StartMapper() { a.loop.Start() }
func (a *app) StopMapper()  { a.loop.Stop() }

func (a *app) Profile() *profile.Profile {
	return a.profiles.Current()
}

func (a *app) ReplaceProfile(p *profile.Profile) {
	a.profiles.Replace(p)
}

func (a *app) SaveProfile() error {
	return a.profiles.SaveFile(a.cfg.ProfilePath)
}

func (a *app) LoadProfile() error {
	return a.profiles.LoadFile(a.cfg.ProfilePath)
}

func (a *app) ResetProfile() {
	a.profiles.Replace(profile.Default())
}

// Bind assigns a key to a control on the active profile. A zero key
// clears the binding.
func (a *app) Bind(control string, k keys.Key) error {
	if _, ok := a.controls[control]; !ok {
		return fmt.Errorf("unknown control %q", control)
	}
	p := a.profiles.Current().Clone()
	p.Bindings[control] = k
	a.profiles.Replace(p)
	return nil
}

// Capture waits for the next global key press.
func (a *app) Capture(ctx context.Context) (keys.Key, error) {
	return hook.CaptureNext(ctx)
}
