// Command keyboard is a handsign plugin that sends key presses to the
// focused window. It uses xdotool on Linux and AppleScript on macOS.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/ayusman/handsign/internal/plugin"
)

// KeystrokeParams defines parameters for keystroke and shortcut actions.
type KeystrokeParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // super, alt, ctrl, shift
}

// modifier names accepted in params, mapped per platform.
var (
	xdoModifiers = map[string]string{
		"command": "super", "cmd": "super", "super": "super",
		"option": "alt", "alt": "alt",
		"control": "ctrl", "ctrl": "ctrl",
		"shift": "shift",
	}
	appleModifiers = map[string]string{
		"command": "command down", "cmd": "command down", "super": "command down",
		"option": "option down", "alt": "option down",
		"control": "control down", "ctrl": "control down",
		"shift": "shift down",
	}
)

func main() {
	plugin.ServeStdio(handle)
}

func handle(req *plugin.Request) (any, error) {
	switch req.Action {
	case "keystroke", "shortcut":
	default:
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}

	var p KeystrokeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, fmt.Errorf("parse params: %w", err)
		}
	}
	if p.Key == "" {
		return nil, errors.New("key is required")
	}

	name, args := command(runtime.GOOS, p)
	if name == "" {
		return nil, fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	if out, err := exec.Command(name, args...).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return map[string]string{"sent": p.Key}, nil
}

// command builds the invocation that presses p on goos.
func command(goos string, p KeystrokeParams) (string, []string) {
	switch goos {
	case "linux":
		keys := make([]string, 0, len(p.Modifiers)+1)
		for _, m := range p.Modifiers {
			if x, ok := xdoModifiers[strings.ToLower(m)]; ok {
				keys = append(keys, x)
			}
		}
		keys = append(keys, p.Key)
		return "xdotool", []string{"key", "--clearmodifiers", strings.Join(keys, "+")}
	case "darwin":
		script := fmt.Sprintf(`tell application "System Events" to keystroke %q`, p.Key)
		var mods []string
		for _, m := range p.Modifiers {
			if a, ok := appleModifiers[strings.ToLower(m)]; ok {
				mods = append(mods, a)
			}
		}
		if len(mods) > 0 {
			script += " using {" + strings.Join(mods, ", ") + "}"
		}
		return "osascript", []string{"-e", script}
	}
	return "", nil
}
