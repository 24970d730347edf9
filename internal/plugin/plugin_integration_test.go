package plugin

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// buildBundled compiles the bundled plugin name into a fresh plugin directory
// and returns the manager that discovered it.
func buildBundled(t *testing.T, name string) *Manager {
	t.Helper()

	src := filepath.Join("..", "..", "plugins", name)
	manifest, err := os.ReadFile(filepath.Join(src, ManifestFile))
	if err != nil {
		t.Skipf("bundled plugin %s not found: %v", name, err)
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not available")
	}

	root := t.TempDir()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), manifest, 0644); err != nil {
		t.Fatal(err)
	}

	build := exec.Command(goBin, "build", "-o", filepath.Join(dir, name), ".")
	build.Dir = src
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build %s: %v\n%s", name, err, out)
	}

	m := NewManager(root)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	return m
}

func TestBundledPlugins_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// Requests that fail validation inside the plugin, so nothing is pressed
	// or played on the host.
	tests := []struct {
		plugin string
		req    Request
	}{
		{"keyboard", Request{Action: "keystroke", Label: "OK", Params: []byte(`{"key":""}`)}},
		{"media", Request{Action: "self-destruct", Label: "FIST"}},
	}

	for _, tt := range tests {
		t.Run(tt.plugin, func(t *testing.T) {
			m := buildBundled(t, tt.plugin)
			p, err := m.Get(tt.plugin)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}

			resp, err := NewExecutor(30*time.Second).Execute(context.Background(), p, &tt.req)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if resp.Success {
				t.Error("expected the plugin to reject the request")
			}
			if resp.Error == "" {
				t.Error("expected an error message")
			}
		})
	}
}
