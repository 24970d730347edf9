package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/plugin"
	"github.com/ayusman/handsign/internal/source"
	"github.com/ayusman/handsign/internal/store"
)

// ErrDisabled is returned by Process while recognition is disabled.
var ErrDisabled = errors.New("recognition disabled")

// Run pulls observations from the source until ctx is cancelled or the
// source is exhausted, classifying each one and notifying sinks in frame
// order. Frames with malformed landmarks are logged and dropped. Run waits
// for queued actions to finish before returning; the App cannot trigger
// actions afterwards.
func (a *App) Run(ctx context.Context) error {
	defer a.stopActions()

	failures := 0
	for {
		obs, err := a.source.Next(ctx)
		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, io.EOF):
			log.Println("Landmark source exhausted")
			return nil
		case ctx.Err() != nil:
			return nil
		default:
			failures++
			if failures >= MaxConsecutiveErrors {
				return fmt.Errorf("source failed %d times in a row: %w", failures, err)
			}
			log.Printf("Error reading frame: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(ErrorBackoff):
			}
			continue
		}

		if _, err := a.Process(ctx, obs); err != nil && !errors.Is(err, ErrDisabled) {
			log.Printf("Dropping frame: %v", err)
		}
	}
}

// Process classifies one observation, notifies sinks and queues the action
// for an actionable label transition. It is the body of Run, exposed for
// callers that feed frames themselves.
func (a *App) Process(ctx context.Context, obs source.Observation) (Event, error) {
	a.mu.Lock()
	a.stats.Frames++
	enabled := a.enabled
	a.mu.Unlock()

	if !enabled {
		return Event{}, ErrDisabled
	}

	res, err := a.classifier.Evaluate(obs.Present, obs.Landmarks)
	if err != nil {
		a.mu.Lock()
		a.stats.Dropped++
		a.mu.Unlock()
		return Event{}, err
	}

	e := Event{
		Label:      res.Label,
		Handedness: obs.Handedness,
		Score:      obs.Score,
		Timestamp:  obs.Timestamp,
	}
	if res.Label != gesture.NoHand {
		e.Fingers = res.Fingers.String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	a.mu.Lock()
	if !a.enabled {
		// Disabled while classifying; SetEnabled has already cleared last.
		a.mu.Unlock()
		return Event{}, ErrDisabled
	}
	e.Changed = res.Label != a.last
	a.last = res.Label
	if e.Changed && res.Label.Actionable() {
		a.stats.Transitions++
		a.enqueue(ctx, e)
	}
	sinks := a.sinks
	a.mu.Unlock()

	for _, s := range sinks {
		s.Notify(e)
	}

	return e, nil
}

// enqueue hands a transition to the action worker without blocking. The
// caller holds a.mu.
func (a *App) enqueue(ctx context.Context, e Event) {
	if a.stopped {
		return
	}
	a.startWorker.Do(func() {
		a.worker.Add(1)
		go a.runActions()
	})
	select {
	case a.queue <- transition{ctx: ctx, event: e}:
	default:
		a.stats.Dropped++
		log.Printf("Action queue full, dropping %s transition", e.Label)
	}
}

func (a *App) runActions() {
	defer a.worker.Done()
	for t := range a.queue {
		a.handleTransition(t.ctx, t.event)
	}
}

// stopActions closes the queue and waits for the worker to drain it.
func (a *App) stopActions() {
	a.mu.Lock()
	if !a.stopped {
		a.stopped = true
		close(a.queue)
	}
	a.mu.Unlock()
	a.worker.Wait()
}

// handleTransition runs the action bound to e.Label and records the
// transition with its outcome.
func (a *App) handleTransition(ctx context.Context, e Event) {
	if a.store == nil {
		return
	}

	rec := &store.Event{
		Label:      string(e.Label),
		Fingers:    e.Fingers,
		Handedness: e.Handedness,
		Score:      e.Score,
		CreatedAt:  e.Timestamp.UTC(),
	}

	action, err := a.store.Actions().GetByLabel(string(e.Label))
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		log.Printf("Failed to look up action for %s: %v", e.Label, err)
	case action.Enabled:
		rec.ActionID = action.ID
		if err := a.execute(ctx, action, e.Label); err != nil {
			rec.ActionError = err.Error()
			log.Printf("Action %s/%s for %s failed: %v", action.PluginName, action.ActionName, e.Label, err)
		} else {
			log.Printf("Action %s/%s triggered by %s", action.PluginName, action.ActionName, e.Label)
		}
	}

	if err := a.store.Events().Create(rec); err != nil {
		log.Printf("Failed to record event: %v", err)
	}
}

func (a *App) execute(ctx context.Context, action *store.Action, label gesture.Label) error {
	if a.plugins == nil {
		return plugin.ErrPluginNotFound
	}
	p, err := a.plugins.Resolve(action.PluginName, action.ActionName)
	if err != nil {
		return err
	}

	resp, err := a.executor.Execute(ctx, p, &plugin.Request{
		Action: action.ActionName,
		Label:  string(label),
		Config: action.Config,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("plugin reported failure: %s", resp.Error)
	}
	return nil
}
