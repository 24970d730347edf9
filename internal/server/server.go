// Package server provides the HTTP server for the handsign daemon.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayusman/handsign/internal/app"
	"github.com/ayusman/handsign/internal/capture"
	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/plugin"
	"github.com/ayusman/handsign/internal/server/api"
	"github.com/ayusman/handsign/internal/store"
)

// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
const ShutdownTimeout = 5 * time.Second

// Config holds the server configuration. Routes whose dependency is nil
// are not mounted.
type Config struct {
	StaticDir string
	Store     *store.Store
	Plugins   *plugin.Manager
	App       *app.App
	Hub       *Hub
	Preview   *capture.LatestJPEG
	// Quiet disables request logging.
	Quiet bool
}

// Server represents the HTTP server.
type Server struct {
	config Config
	router chi.Router
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if !s.config.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		var classifier api.Evaluator = gesture.New()
		if s.config.App != nil {
			classifier = s.config.App.Classifier()
		}
		gestures := api.NewGestureHandler(classifier)
		r.Get("/labels", gestures.Labels)
		r.Post("/classify", gestures.Classify)

		if s.config.Store != nil {
			r.Route("/actions", api.NewActionHandler(s.config.Store, s.config.Plugins).Routes)

			events := api.NewEventHandler(s.config.Store)
			r.Get("/events", events.List)
			r.Get("/events/stats", events.Stats)
		}

		var toggle api.Toggle
		if s.config.App != nil {
			toggle = s.config.App
		}
		settings := api.NewSettingsHandler(toggle, s.config.Plugins)
		r.Get("/settings", settings.Get)
		r.Put("/settings", settings.Update)
		r.Get("/plugins", settings.Plugins)
		r.Post("/plugins/rescan", settings.Rescan)

		if s.config.Hub != nil {
			r.Get("/ws", s.config.Hub.ServeHTTP)
		}
		if s.config.Preview != nil {
			r.Get("/stream", NewStreamHandler(s.config.Preview).ServeHTTP)
		}
	})

	if s.config.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type healthResponse struct {
	Status string     `json:"status"`
	Uptime string     `json:"uptime"`
	Stats  *app.Stats `json:"stats,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status: "ok",
		Uptime: time.Since(s.start).Round(time.Second).String(),
	}
	if s.config.App != nil {
		stats := s.config.App.Stats()
		response.Stats = &stats
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if s.config.Hub != nil {
		s.config.Hub.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
