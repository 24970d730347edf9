package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "notify", "#!/bin/sh\n", "notify", "beep")
	writePlugin(t, root, "keyboard", "#!/bin/sh\n", "keystroke")

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plugins := m.List()
	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(plugins))
	}
	if plugins[0].Manifest.Name != "keyboard" || plugins[1].Manifest.Name != "notify" {
		t.Errorf("List() not sorted by name: %s, %s", plugins[0].Manifest.Name, plugins[1].Manifest.Name)
	}

	p := plugins[1]
	if p.Path != filepath.Join(root, "notify") {
		t.Errorf("Path = %q", p.Path)
	}
	if p.Executable != filepath.Join(root, "notify", "notify.sh") {
		t.Errorf("Executable = %q", p.Executable)
	}
	if len(p.Manifest.Actions) != 2 {
		t.Errorf("expected 2 actions, got %d", len(p.Manifest.Actions))
	}
}

func TestManager_Discover_Skips(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "good", "#!/bin/sh\n", "run")

	// directory without a manifest
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}
	// invalid JSON
	bad := filepath.Join(root, "broken")
	os.MkdirAll(bad, 0755)
	os.WriteFile(filepath.Join(bad, ManifestFile), []byte("{not json"), 0644)
	// manifest without executable
	partial := filepath.Join(root, "partial")
	os.MkdirAll(partial, 0755)
	os.WriteFile(filepath.Join(partial, ManifestFile), []byte(`{"name":"partial"}`), 0644)
	// plain file at the top level
	os.WriteFile(filepath.Join(root, "README"), []byte("hi"), 0644)

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got := len(m.List()); got != 1 {
		t.Fatalf("expected only the valid plugin, got %d", got)
	}
}

func TestManager_Discover_Rescan(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "one", "#!/bin/sh\n", "run")

	m := NewManager(root)
	m.Discover()
	if err := os.RemoveAll(filepath.Join(root, "one")); err != nil {
		t.Fatal(err)
	}
	m.Discover()

	if got := len(m.List()); got != 0 {
		t.Errorf("expected removed plugin to disappear, got %d plugins", got)
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing"))
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v, want nil for missing dir", err)
	}
	if len(m.List()) != 0 {
		t.Error("expected no plugins")
	}
	if m.PluginDir() == "" {
		t.Error("PluginDir() should echo the configured path")
	}
}

func TestManager_GetResolve(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "notify", "#!/bin/sh\n", "notify")

	m := NewManager(root)
	m.Discover()

	if _, err := m.Get("notify"); err != nil {
		t.Errorf("Get() error = %v", err)
	}
	if _, err := m.Get("nope"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrPluginNotFound", err)
	}
	if _, err := m.Resolve("notify", "notify"); err != nil {
		t.Errorf("Resolve() error = %v", err)
	}
	if _, err := m.Resolve("notify", "reboot"); !errors.Is(err, ErrActionNotSupported) {
		t.Errorf("Resolve(reboot) error = %v, want ErrActionNotSupported", err)
	}
	if _, err := m.Resolve("nope", "notify"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Resolve(nope) error = %v, want ErrPluginNotFound", err)
	}
}

func TestManifest_Supports(t *testing.T) {
	m := Manifest{Actions: []string{"a", "b"}}
	if !m.Supports("b") || m.Supports("c") {
		t.Errorf("Supports gave wrong answers for %v", m.Actions)
	}
}
