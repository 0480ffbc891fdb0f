package tray

import (
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
	"github.com/rs/zerolog/log"
)

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Tray manages the system tray icon and menu
type Tray struct {
	url          string
	startFunc    func()
	stopFunc     func()
	shutdownFunc ShutdownFunc
	once         sync.Once
	shuttingDown atomic.Bool
	menuOpen     *systray.MenuItem
	menuStart    *systray.MenuItem
	menuStop     *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a new Tray instance. url is the web interface address shown
// in the tooltip and opened from the menu.
func New(url string, startFn, stopFn func(), shutdownFn ShutdownFunc) *Tray {
	return &Tray{
		url:          url,
		startFunc:    startFn,
		stopFunc:     stopFn,
		shutdownFunc: shutdownFn,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, func() {
		t.onExit()
	})
}

// onReady is called when the tray is ready
func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("KeyMapper")
	systray.SetTooltip("KeyMapper - " + t.url)

	t.menuOpen = systray.AddMenuItem("Open Browser", "Open web interface")
	t.menuStart = systray.AddMenuItem("Start Mapping", "Start the key mapper")
	t.menuStop = systray.AddMenuItem("Stop Mapping", "Stop the key mapper")
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	log.Info().Msg("System tray initialized")
}

// handleMenuClicks processes menu item clicks without blocking
func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuStart.ClickedCh:
			if !t.shuttingDown.Load() {
				t.startFunc()
			}
		case <-t.menuStop.ClickedCh:
			if !t.shuttingDown.Load() {
				t.stopFunc()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

// onExit is called when the tray is exiting
func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	log.Info().Msg("System tray exiting")
}

// openBrowser opens the default web browser
func (t *Tray) openBrowser() {
	if t.shuttingDown.Load() {
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", t.url)
	case "darwin":
		cmd = exec.Command("open", t.url)
	default:
		cmd = exec.Command("xdg-open", t.url)
	}

	if err := cmd.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to open browser")
	}
}
