package main

import (
	"strings"
	"testing"

	"github.com/ayusman/handsign/internal/plugin"
)

func TestCommand(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		params   KeystrokeParams
		wantName string
		wantArg  string
	}{
		{
			name:     "linux plain key",
			goos:     "linux",
			params:   KeystrokeParams{Key: "space"},
			wantName: "xdotool",
			wantArg:  "space",
		},
		{
			name:     "linux shortcut",
			goos:     "linux",
			params:   KeystrokeParams{Key: "t", Modifiers: []string{"Ctrl", "shift", "bogus"}},
			wantName: "xdotool",
			wantArg:  "ctrl+shift+t",
		},
		{
			name:     "darwin shortcut",
			goos:     "darwin",
			params:   KeystrokeParams{Key: "t", Modifiers: []string{"cmd"}},
			wantName: "osascript",
			wantArg:  `keystroke "t" using {command down}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args := command(tt.goos, tt.params)
			if name != tt.wantName {
				t.Errorf("command name = %q, want %q", name, tt.wantName)
			}
			if last := args[len(args)-1]; !strings.Contains(last, tt.wantArg) {
				t.Errorf("last arg = %q, want it to contain %q", last, tt.wantArg)
			}
		})
	}

	if name, _ := command("plan9", KeystrokeParams{Key: "a"}); name != "" {
		t.Errorf("unsupported platform returned %q", name)
	}
}

func TestHandle_Validation(t *testing.T) {
	if _, err := handle(&plugin.Request{Action: "reboot"}); err == nil {
		t.Error("unknown action should fail")
	}
	if _, err := handle(&plugin.Request{Action: "keystroke"}); err == nil {
		t.Error("missing key should fail")
	}
	if _, err := handle(&plugin.Request{Action: "keystroke", Params: []byte("{")}); err == nil {
		t.Error("bad params should fail")
	}
}
