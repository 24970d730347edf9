// Command media is a handsign plugin for volume and playback control. It
// uses pactl and playerctl on Linux and AppleScript on macOS.
package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/ayusman/handsign/internal/plugin"
)

var linuxCommands = map[string][]string{
	"volume-up":        {"pactl", "set-sink-volume", "@DEFAULT_SINK@", "+10%"},
	"volume-down":      {"pactl", "set-sink-volume", "@DEFAULT_SINK@", "-10%"},
	"volume-mute":      {"pactl", "set-sink-mute", "@DEFAULT_SINK@", "toggle"},
	"media-play-pause": {"playerctl", "play-pause"},
	"media-next":       {"playerctl", "next"},
	"media-prev":       {"playerctl", "previous"},
}

var darwinScripts = map[string]string{
	"volume-up":        `set volume output volume ((output volume of (get volume settings)) + 10)`,
	"volume-down":      `set volume output volume ((output volume of (get volume settings)) - 10)`,
	"volume-mute":      `set volume output muted (not (output muted of (get volume settings)))`,
	"media-play-pause": `tell application "System Events" to key code 100`,
	"media-next":       `tell application "System Events" to key code 101`,
	"media-prev":       `tell application "System Events" to key code 98`,
}

func main() {
	plugin.ServeStdio(handle)
}

func handle(req *plugin.Request) (any, error) {
	argv, err := command(runtime.GOOS, req.Action)
	if err != nil {
		return nil, err
	}
	if out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", argv[0], err, strings.TrimSpace(string(out)))
	}
	return nil, nil
}

// command returns the argv that performs action on goos.
func command(goos, action string) ([]string, error) {
	switch goos {
	case "linux":
		if argv, ok := linuxCommands[action]; ok {
			return argv, nil
		}
	case "darwin":
		if script, ok := darwinScripts[action]; ok {
			return []string{"osascript", "-e", script}, nil
		}
	default:
		return nil, fmt.Errorf("unsupported platform %s", goos)
	}
	return nil, fmt.Errorf("unknown action %q", action)
}
