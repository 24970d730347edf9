package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PoseLandmarks returns a synthetic right hand whose fingers are open or
// curled as requested. Open fingers point up the frame (decreasing Y); an open
// thumb points toward decreasing X. The thumb tip is always kept more than
// 0.1 away from the index tip.
func PoseLandmarks(thumb, index, middle, ring, pinky bool) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.85}

	h.Points[ThumbCMC] = Point3D{X: 0.42, Y: 0.78}
	h.Points[ThumbMCP] = Point3D{X: 0.38, Y: 0.72}
	if thumb {
		h.Points[ThumbIP] = Point3D{X: 0.33, Y: 0.66}
		h.Points[ThumbTip] = Point3D{X: 0.28, Y: 0.62}
	} else {
		h.Points[ThumbIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.02}
		h.Points[ThumbTip] = Point3D{X: 0.41, Y: 0.76, Z: -0.03}
	}

	setFinger(&h, IndexMCP, 0.42, index)
	setFinger(&h, MiddleMCP, 0.50, middle)
	setFinger(&h, RingMCP, 0.58, ring)
	setFinger(&h, PinkyMCP, 0.65, pinky)

	return h
}

// setFinger fills the four joints of a finger starting at mcp.
func setFinger(h *HandLandmarks, mcp int, x float64, open bool) {
	h.Points[mcp] = Point3D{X: x, Y: 0.62}
	h.Points[mcp+1] = Point3D{X: x, Y: 0.52, Z: -0.01}
	if open {
		h.Points[mcp+2] = Point3D{X: x, Y: 0.42, Z: -0.01}
		h.Points[mcp+3] = Point3D{X: x, Y: 0.34, Z: -0.01}
		return
	}
	h.Points[mcp+2] = Point3D{X: x, Y: 0.58, Z: -0.04}
	h.Points[mcp+3] = Point3D{X: x, Y: 0.62, Z: -0.02}
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return PoseLandmarks(true, true, true, true, true)
}

// FistLandmarks returns a hand with every finger curled.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks(false, false, false, false, false)
}

// OKLandmarks returns the "OK" sign: index curled onto the thumb tip while
// the middle, ring and pinky fingers stay extended.
func OKLandmarks() HandLandmarks {
	h := PoseLandmarks(false, false, true, true, true)
	tip := h.Points[IndexTip]
	h.Points[ThumbTip] = Point3D{X: tip.X + 0.02, Y: tip.Y + 0.02, Z: tip.Z}
	return h
}
