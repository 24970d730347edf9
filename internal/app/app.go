// Package app wires a landmark source to the gesture classifier and fans
// every classified frame out to sinks. Label transitions are recorded and
// trigger the plugin action bound to the new label.
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ayusman/handsign/internal/detector"
	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/plugin"
	"github.com/ayusman/handsign/internal/source"
	"github.com/ayusman/handsign/internal/store"
)

// Pipeline constants.
const (
	// MaxConsecutiveErrors ends Run when the source keeps failing.
	MaxConsecutiveErrors = 50
	// ErrorBackoff is the pause after a failed read.
	ErrorBackoff = 100 * time.Millisecond
	// PluginTimeout bounds a single action run.
	PluginTimeout = 5 * time.Second
	// ActionQueueSize is how many transitions may wait for the action
	// worker before new ones are dropped.
	ActionQueueSize = 16
)

// Classifier labels one frame. *gesture.Classifier implements it.
type Classifier interface {
	Evaluate(present bool, landmarks []detector.Point3D) (gesture.Result, error)
}

// Executor runs one plugin action. *plugin.Executor implements it.
type Executor interface {
	Execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) (*plugin.Response, error)
}

// Config holds the collaborators of an App. Every field is optional.
type Config struct {
	Classifier Classifier
	Store      *store.Store
	Plugins    *plugin.Manager
	Executor   Executor
}

// Stats summarizes what the pipeline has processed.
type Stats struct {
	Frames      uint64        `json:"frames"`
	Dropped     uint64        `json:"dropped"`
	Transitions uint64        `json:"transitions"`
	Last        gesture.Label `json:"last"`
	Enabled     bool          `json:"enabled"`
}

// App is the recognition pipeline.
type App struct {
	source     source.LandmarkSource
	classifier Classifier
	store      *store.Store
	plugins    *plugin.Manager
	executor   Executor

	mu      sync.RWMutex
	sinks   []Sink
	enabled bool
	last    gesture.Label
	stats   Stats

	// Transitions are handed to a single worker so actions run one at a
	// time in the order the labels changed. stopped is guarded by mu.
	queue       chan transition
	stopped     bool
	startWorker sync.Once
	worker      sync.WaitGroup
}

type transition struct {
	ctx   context.Context
	event Event
}

// New creates an App reading from src. Detection starts enabled; call
// LoadSettings to restore the persisted state.
func New(src source.LandmarkSource, config Config) *App {
	if config.Classifier == nil {
		config.Classifier = gesture.New()
	}
	if config.Executor == nil {
		config.Executor = plugin.NewExecutor(PluginTimeout)
	}

	return &App{
		source:     src,
		classifier: config.Classifier,
		store:      config.Store,
		plugins:    config.Plugins,
		executor:   config.Executor,
		enabled:    true,
		queue:      make(chan transition, ActionQueueSize),
	}
}

// AddSink registers s to receive every classified frame. Sinks are called
// synchronously from Run in frame order and must not block.
func (a *App) AddSink(s Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append(a.sinks, s)
}

// LoadSettings restores the enabled flag from the store.
func (a *App) LoadSettings() error {
	if a.store == nil {
		return nil
	}
	enabled, err := a.store.Settings().GetBool(store.SettingEnabled, true)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()
	return nil
}

// SetEnabled turns recognition on or off and persists the choice. While
// disabled, frames are still drained from the source but not classified.
func (a *App) SetEnabled(enabled bool) error {
	a.mu.Lock()
	a.enabled = enabled
	if !enabled {
		a.last = ""
	}
	a.mu.Unlock()

	log.Printf("Recognition enabled: %v", enabled)
	if a.store == nil {
		return nil
	}
	return a.store.Settings().SetBool(store.SettingEnabled, enabled)
}

// IsEnabled returns whether recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Stats returns a snapshot of the pipeline counters.
func (a *App) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.stats
	s.Last = a.last
	s.Enabled = a.enabled
	return s
}

// Classifier returns the classifier used by the pipeline.
func (a *App) Classifier() Classifier {
	return a.classifier
}
