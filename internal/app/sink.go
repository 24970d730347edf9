package app

import (
	"log"
	"time"

	"github.com/ayusman/handsign/internal/gesture"
)

// Event is the classification of one frame as seen by sinks.
type Event struct {
	Label      gesture.Label `json:"label"`
	Fingers    string        `json:"fingers"`
	Handedness string        `json:"handedness,omitempty"`
	Score      float64       `json:"score,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	// Changed is set when Label differs from the previous frame's label.
	Changed bool `json:"changed"`
}

// Sink receives classified frames.
type Sink interface {
	Notify(e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(e Event)

// Notify calls f(e).
func (f SinkFunc) Notify(e Event) {
	f(e)
}

// LogSink logs label changes.
var LogSink = SinkFunc(func(e Event) {
	if e.Changed {
		log.Printf("Gesture: %s (%s)", e.Label, e.Fingers)
	}
})
