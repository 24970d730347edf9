package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/handsign/internal/app"
	"github.com/ayusman/handsign/internal/capture"
	"github.com/ayusman/handsign/internal/detector"
	"github.com/ayusman/handsign/internal/plugin"
	"github.com/ayusman/handsign/internal/server"
	"github.com/ayusman/handsign/internal/source"
	"github.com/ayusman/handsign/internal/store"
	"github.com/ayusman/handsign/internal/tray"
)

// PruneInterval is how often old events are deleted while serving.
const PruneInterval = time.Hour

// ServeOptions configures the serve command.
type ServeOptions struct {
	Addr            string
	Camera          string
	MotionThreshold float64
	Replay          string
	ReplayInterval  time.Duration
	WebDir          string
	Tray            bool
	EventRetention  time.Duration
}

var serveOpts ServeOptions

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run recognition on the camera and serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fromEnv(cmd, "addr", "HANDSIGN_ADDR", &serveOpts.Addr)
		fromEnv(cmd, "camera", "HANDSIGN_CAMERA", &serveOpts.Camera)
		if err := flagFromEnv(cmd, "event-retention", "HANDSIGN_EVENT_RETENTION"); err != nil {
			return err
		}
		return runServe(cmd.Context(), opts, serveOpts)
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&serveOpts.Addr, "addr", ":8080", "HTTP listen address (env HANDSIGN_ADDR)")
	flags.StringVar(&serveOpts.Camera, "camera", "0", "camera index or device path (env HANDSIGN_CAMERA)")
	flags.Float64Var(&serveOpts.MotionThreshold, "motion-threshold", capture.DefaultMotionThreshold, "percent of changed pixels that counts as motion")
	flags.StringVar(&serveOpts.Replay, "replay", "", "read observations from a JSON Lines file instead of the camera, looping")
	flags.DurationVar(&serveOpts.ReplayInterval, "replay-interval", 200*time.Millisecond, "delay between replayed observations")
	flags.StringVar(&serveOpts.WebDir, "web", "", "directory of static web files (default: search web/ and <data-dir>/web)")
	flags.BoolVar(&serveOpts.Tray, "tray", false, "show a system tray menu")
	flags.DurationVar(&serveOpts.EventRetention, "event-retention", 30*24*time.Hour, "delete recorded events older than this, 0 keeps them forever (env HANDSIGN_EVENT_RETENTION)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, o Options, so ServeOptions) error {
	log.Println("Handsign - Hand Gesture Recognition")

	if err := os.MkdirAll(o.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(o.DBPath)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	plugins := plugin.NewManager(o.PluginDir)
	if err := plugins.Discover(); err != nil {
		return fmt.Errorf("discover plugins: %w", err)
	}
	log.Printf("Loaded %d plugins from %s", len(plugins.List()), o.PluginDir)

	preview := capture.NewLatestJPEG()
	src, err := openSource(so, preview)
	if err != nil {
		return err
	}

	a := app.New(src, app.Config{Store: st, Plugins: plugins})
	if err := a.LoadSettings(); err != nil {
		src.Close()
		return fmt.Errorf("load settings: %w", err)
	}
	a.AddSink(app.LogSink)

	hub := server.NewHub()
	a.AddSink(hub)

	webDir := so.WebDir
	if webDir == "" {
		webDir = findWebDir(o.DataDir)
	}
	if webDir != "" {
		log.Printf("Serving static files from: %s", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Plugins:   plugins,
		App:       a,
		Hub:       hub,
		Preview:   preview,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if so.EventRetention > 0 {
		go pruneEvents(ctx, st.Events(), so.EventRetention, PruneInterval)
	}

	appErr := make(chan error, 1)
	go func() {
		defer cancel()
		defer src.Close()
		appErr <- a.Run(ctx)
	}()

	srvErr := make(chan error, 1)
	go func() {
		defer cancel()
		log.Printf("Starting server on %s", so.Addr)
		srvErr <- srv.ListenAndServe(ctx, so.Addr)
	}()

	if so.Tray {
		t := tray.New(a)
		a.AddSink(t)
		t.OnSettings(func() { openBrowser(browserURL(so.Addr)) })
		t.OnQuit(cancel)
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		// Blocks until quit; the tray must own the main thread on macOS.
		t.Run()
		cancel()
	}

	<-ctx.Done()
	return errors.Join(<-appErr, <-srvErr)
}

// pruneEvents deletes events older than retention once, then again every
// interval until ctx is done.
func pruneEvents(ctx context.Context, events *store.EventRepository, retention, interval time.Duration) {
	prune := func() {
		n, err := events.DeleteBefore(time.Now().Add(-retention))
		if err != nil {
			log.Printf("Failed to prune events: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Pruned %d events older than %s", n, retention)
		}
	}

	prune()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}

// openSource returns the replay source when one is configured and the
// camera source otherwise.
func openSource(so ServeOptions, preview *capture.LatestJPEG) (source.LandmarkSource, error) {
	if so.Replay != "" {
		f, err := os.Open(so.Replay)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		obs, err := source.LoadJSONL(f)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", so.Replay, err)
		}
		log.Printf("Replaying %d observations from %s", len(obs), so.Replay)
		return source.NewReplaySource(obs,
			source.WithLoop(),
			source.WithInterval(so.ReplayInterval),
			source.WithStamp(time.Now),
		), nil
	}

	device, err := capture.ParseDevice(so.Camera)
	if err != nil {
		return nil, err
	}

	var d detector.Detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err != nil {
		log.Printf("Warning: MediaPipe unavailable (%v); no hands will be detected", err)
		d = detector.NewMockDetector()
	} else {
		d = mp
	}

	src, err := source.NewCameraSource(capture.NewCamera(device), d, source.CameraConfig{
		MotionThreshold: so.MotionThreshold,
		Preview:         preview,
	})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("camera %s: %w", device, err)
	}
	return src, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

// browserURL turns a listen address into a local URL.
func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
		return
	}
	go cmd.Wait()
}
