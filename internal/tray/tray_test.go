package tray

import (
	"errors"
	"testing"

	"github.com/ayusman/handsign/internal/app"
	"github.com/ayusman/handsign/internal/gesture"
)

type fakeToggle struct {
	enabled bool
	err     error
	calls   int
}

func (f *fakeToggle) IsEnabled() bool { return f.enabled }

func (f *fakeToggle) SetEnabled(enabled bool) error {
	f.calls++
	f.enabled = enabled
	return f.err
}

func TestTray_Notify(t *testing.T) {
	tr := New(&fakeToggle{enabled: true})

	tests := []struct {
		name  string
		event app.Event
		want  gesture.Label
	}{
		{"initial", app.Event{}, ""},
		{"change to fist", app.Event{Label: gesture.Fist, Changed: true}, gesture.Fist},
		{"repeat is ignored", app.Event{Label: gesture.OK}, gesture.Fist},
		{"no hand keeps last", app.Event{Label: gesture.NoHand, Changed: true}, gesture.Fist},
		{"unrecognized keeps last", app.Event{Label: gesture.Unrecognized, Changed: true}, gesture.Fist},
		{"change to rock", app.Event{Label: gesture.Rock, Changed: true}, gesture.Rock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr.Notify(tt.event)
			if got := tr.LastGesture(); got != tt.want {
				t.Errorf("LastGesture() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTray_HandleToggle(t *testing.T) {
	toggle := &fakeToggle{enabled: true}
	tr := New(toggle)
	tr.Notify(app.Event{Label: gesture.Five, Changed: true})

	tr.handleToggle()
	if toggle.enabled {
		t.Error("expected recognition disabled after toggle")
	}
	if tr.LastGesture() != "" {
		t.Errorf("expected last gesture cleared, got %q", tr.LastGesture())
	}

	tr.handleToggle()
	if !toggle.enabled || toggle.calls != 2 {
		t.Errorf("enabled = %v, calls = %d", toggle.enabled, toggle.calls)
	}

	t.Run("save failure still toggles", func(t *testing.T) {
		toggle := &fakeToggle{enabled: true, err: errors.New("read-only")}
		New(toggle).handleToggle()
		if toggle.enabled {
			t.Error("expected in-memory state to change")
		}
	})
}

func TestTray_HandleSettings(t *testing.T) {
	tr := New(&fakeToggle{})
	tr.handleSettings()

	opened := false
	tr.OnSettings(func() { opened = true })
	tr.handleSettings()
	if !opened {
		t.Error("expected settings callback")
	}
}

func TestTitles(t *testing.T) {
	if toggleTitle(true) != "● Enabled" || toggleTitle(false) != "○ Disabled" {
		t.Error("unexpected toggle titles")
	}
	if lastTitle("") != "Last: none" || lastTitle(gesture.Yeah) != "Last: YEAH" {
		t.Error("unexpected last gesture titles")
	}
}
