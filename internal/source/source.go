// Package source yields one hand observation per frame to the pipeline.
package source

import (
	"context"
	"time"

	"github.com/ayusman/handsign/internal/detector"
)

// Observation is the presence flag and landmarks of a single frame. The two
// are always produced together so they can never come from different frames.
type Observation struct {
	Present    bool               `json:"present"`
	Landmarks  []detector.Point3D `json:"landmarks,omitempty"`
	Handedness string             `json:"handedness,omitempty"`
	Score      float64            `json:"score,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// FromHand builds a present observation from a detected hand.
func FromHand(h detector.HandLandmarks, at time.Time) Observation {
	return Observation{
		Present:    true,
		Landmarks:  h.Slice(),
		Handedness: h.Handedness,
		Score:      h.Score,
		Timestamp:  at,
	}
}

// Absent is an observation for a frame without a hand.
func Absent(at time.Time) Observation {
	return Observation{Timestamp: at}
}

// LandmarkSource produces observations in frame order. Next blocks until the
// next frame is available, ctx is done, or the source is exhausted, in which
// case it returns io.EOF.
type LandmarkSource interface {
	Next(ctx context.Context) (Observation, error)
	Close() error
}
