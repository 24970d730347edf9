package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ayusman/handsign/internal/capture"
	"github.com/ayusman/handsign/internal/detector"
)

// Frame pacing defaults.
const (
	// IdleFPS is the frame rate while the scene is still.
	IdleFPS = 5
	// ActiveFPS is the frame rate while something moves.
	ActiveFPS = 15
	// IdleTimeout is how long the scene must stay still before dropping back to IdleFPS.
	IdleTimeout = 2 * time.Second
)

// CameraConfig tunes a CameraSource. Zero fields take the package defaults.
type CameraConfig struct {
	IdleFPS         int
	ActiveFPS       int
	IdleTimeout     time.Duration
	MotionThreshold float64
	// Preview, when set, receives every captured frame as JPEG.
	Preview *capture.LatestJPEG
}

func (c *CameraConfig) applyDefaults() {
	if c.IdleFPS <= 0 {
		c.IdleFPS = IdleFPS
	}
	if c.ActiveFPS <= 0 {
		c.ActiveFPS = ActiveFPS
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = IdleTimeout
	}
}

// CameraSource turns camera frames into observations. Hand detection only
// runs while the scene moves; a still scene repeats the last observation
// with a fresh timestamp, so a held pose keeps its label.
type CameraSource struct {
	camera   capture.Camera
	detector detector.Detector
	motion   *capture.MotionDetector
	config   CameraConfig

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error

	mu         sync.Mutex
	active     bool
	lastMotion time.Time
	lastRead   time.Time
	last       *Observation
	closed     bool
}

// NewCameraSource opens camera and returns a source reading from it. The
// source owns camera and det and closes both in Close.
func NewCameraSource(camera capture.Camera, det detector.Detector, config CameraConfig) (*CameraSource, error) {
	config.applyDefaults()

	if err := camera.Open(); err != nil {
		return nil, fmt.Errorf("open camera: %w", err)
	}
	camera.SetFPS(config.IdleFPS)

	return &CameraSource{
		camera:   camera,
		detector: det,
		motion:   capture.NewMotionDetector(config.MotionThreshold),
		config:   config,
		now:      time.Now,
		wait:     sleep,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Next captures one frame and returns its observation. A camera that runs
// out of frames ends the source with io.EOF.
func (s *CameraSource) Next(ctx context.Context) (Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Observation{}, io.EOF
	}
	if err := s.pace(ctx); err != nil {
		return Observation{}, err
	}

	frame, err := s.camera.ReadFrame()
	now := s.now()
	s.lastRead = now
	if errors.Is(err, capture.ErrNoMoreFrames) {
		return Observation{}, io.EOF
	}
	if err != nil {
		return Observation{}, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	if s.config.Preview != nil {
		if err := s.config.Preview.Publish(frame); err != nil {
			log.Printf("Preview frame dropped: %v", err)
		}
	}

	moved, _ := s.motion.Detect(frame)
	s.updateMode(moved, now)

	if !s.active && s.last != nil {
		o := *s.last
		o.Timestamp = now
		return o, nil
	}

	hands, err := s.detector.Detect(frame)
	if err != nil {
		return Observation{}, fmt.Errorf("detect hands: %w", err)
	}

	o := Absent(now)
	if len(hands) > 0 {
		o = FromHand(hands[0], now)
	}
	s.last = &o
	return o, nil
}

// pace waits until the current frame interval has passed since the last read.
func (s *CameraSource) pace(ctx context.Context) error {
	if s.lastRead.IsZero() {
		return ctx.Err()
	}
	fps := s.config.IdleFPS
	if s.active {
		fps = s.config.ActiveFPS
	}
	remaining := time.Second/time.Duration(fps) - s.now().Sub(s.lastRead)
	if remaining <= 0 {
		return ctx.Err()
	}
	return s.wait(ctx, remaining)
}

func (s *CameraSource) updateMode(moved bool, now time.Time) {
	if moved {
		s.lastMotion = now
		if !s.active {
			s.active = true
			s.camera.SetFPS(s.config.ActiveFPS)
			log.Println("Switched to active mode")
		}
		return
	}
	if s.active && now.Sub(s.lastMotion) > s.config.IdleTimeout {
		s.active = false
		s.camera.SetFPS(s.config.IdleFPS)
		log.Println("Switched to idle mode")
	}
}

// Active reports whether the source is in active mode.
func (s *CameraSource) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Close releases the camera, the motion detector and the hand detector.
func (s *CameraSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.motion.Close()

	return errors.Join(s.camera.Close(), s.detector.Close())
}
