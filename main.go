package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/shredders/keymapper/internal/config"
	"github.com/shredders/keymapper/internal/hook"
	"github.com/shredders/keymapper/internal/hub"
	"github.com/shredders/keymapper/internal/logging"
	"github.com/shredders/keymapper/internal/mapper"
	"github.com/shredders/keymapper/internal/profile"
	"github.com/shredders/keymapper/internal/server"
	"github.com/shredders/keymapper/internal/tray"
	"github.com/shredders/keymapper/internal/xpad"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration failed")
	}
	logging.Setup(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)

	// Profile store: saved profile if present, defaults otherwise.
	profiles := profile.NewStore(profile.Default())
	if err := profiles.LoadFile(cfg.ProfilePath); err != nil {
		log.Warn().Err(err).Str("path", cfg.ProfilePath).Msg("Profile load failed, using defaults")
	}
	go func() {
		if err := profiles.Watch(ctx, cfg.ProfilePath); err != nil {
			log.Warn().Err(err).Msg("Profile watch unavailable")
		}
	}()

	// Mapper loop over the global keyboard hook and the virtual pad.
	// Status updates flow to the web clients through the broadcaster.
	var broadcaster *hub.Broadcaster
	loop := mapper.NewLoop(profiles, hook.New(), func() (mapper.Sink, error) {
		return xpad.Open(cfg.DeviceName)
	}, cfg.CycleInterval, func(status string) {
		if broadcaster != nil {
			broadcaster.BroadcastStatus(status)
		}
	})

	h := hub.NewHub()
	go h.Run()

	broadcaster = hub.NewBroadcaster(h, loop.Frames())
	go broadcaster.Run()

	a := newApp(cfg, profiles, loop)

	frontendFS := getFrontendFS()
	srv := server.New(h, broadcaster, a, frontendFS, cfg.Listen)
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	log.Info().Str("url", cfg.URL()).Msg("KeyMapper started")

	if cfg.Autostart {
		loop.Start()
	}

	// Channel for tray-triggered shutdown
	shutdownRequested := make(chan struct{})

	if !cfg.NoTray {
		go func() {
			t := tray.New(cfg.URL(), loop.Start, loop.Stop, func() {
				close(shutdownRequested)
			})
			t.Run(tray.GetIcon())
		}()
	} else {
		log.Info().Msg("Press Ctrl+C to exit")
	}

	select {
	case <-sigCh:
		log.Info().Msg("Shutting down...")
	case <-shutdownRequested:
		log.Info().Msg("Shutdown requested from tray")
	case err := <-serverErrCh:
		log.Error().Err(err).Msg("HTTP server error")
	}
	cancel()

	// Stop the loop and give it a moment to neutralize the device.
	loop.Stop()
	deadline := time.Now().Add(2 * time.Second)
	for loop.Running() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("KeyMapper stopped")
}
