// Package tray shows the recognition state in the system tray.
package tray

import (
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/handsign/internal/app"
	"github.com/ayusman/handsign/internal/gesture"
)

// Toggle turns recognition on and off. *app.App implements it.
type Toggle interface {
	IsEnabled() bool
	SetEnabled(enabled bool) error
}

// Tray is the system tray menu. It implements app.Sink to display the last
// recognized gesture.
type Tray struct {
	toggle     Toggle
	onSettings func()
	onQuit     func()
	mu         sync.RWMutex

	last gesture.Label

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a Tray controlling toggle.
func New(toggle Toggle) *Tray {
	return &Tray{toggle: toggle}
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func lastTitle(label gesture.Label) string {
	if label == "" {
		return "Last: none"
	}
	return "Last: " + string(label)
}

func (t *Tray) onReady() {
	systray.SetTitle("Handsign")
	systray.SetTooltip("Handsign gesture recognition")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.toggle.IsEnabled()), "Toggle gesture recognition")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem(lastTitle(t.last), "Last detected gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Handsign")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// handleToggle flips the recognition state.
func (t *Tray) handleToggle() {
	enabled := !t.toggle.IsEnabled()
	if err := t.toggle.SetEnabled(enabled); err != nil {
		log.Printf("Failed to save enabled state: %v", err)
	}

	t.mu.Lock()
	if !enabled {
		t.last = ""
	}
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastTitle(t.last))
	}
	t.mu.Unlock()
}

func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Notify records label transitions to actual hand poses.
func (t *Tray) Notify(e app.Event) {
	if !e.Changed || !e.Label.Actionable() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = e.Label
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastTitle(e.Label))
	}
}

// LastGesture returns the most recently displayed gesture.
func (t *Tray) LastGesture() gesture.Label {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}
