package gesture

import (
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/handsign/internal/detector"
)

// ErrInvalidInput is returned when a landmark set does not hold exactly
// detector.NumLandmarks points.
var ErrInvalidInput = errors.New("invalid landmark set")

// ProximityThreshold is the largest thumb-tip to index-tip distance, exclusive,
// that still counts as touching. It is expressed in the same normalized image
// units as the landmarks, so it must change together with any change to the
// upstream coordinate space.
const ProximityThreshold = 0.1

// FingerState holds the open/closed state of each finger for one frame.
type FingerState struct {
	Thumb  bool `json:"thumb"`
	Index  bool `json:"index"`
	Middle bool `json:"middle"`
	Ring   bool `json:"ring"`
	Pinky  bool `json:"pinky"`
}

// String renders the state as five characters, thumb first: 'O' open, '-' closed.
func (f FingerState) String() string {
	b := make([]byte, 0, 5)
	for _, open := range []bool{f.Thumb, f.Index, f.Middle, f.Ring, f.Pinky} {
		if open {
			b = append(b, 'O')
		} else {
			b = append(b, '-')
		}
	}
	return string(b)
}

// fingerJoints names the reference joint and the two distal joints compared
// against it for one of the four long fingers.
type fingerJoints struct {
	ref, dip, tip int
}

var (
	indexJoints  = fingerJoints{detector.IndexPIP, detector.IndexDIP, detector.IndexTip}
	middleJoints = fingerJoints{detector.MiddlePIP, detector.MiddleDIP, detector.MiddleTip}
	ringJoints   = fingerJoints{detector.RingPIP, detector.RingDIP, detector.RingTip}
	pinkyJoints  = fingerJoints{detector.PinkyPIP, detector.PinkyDIP, detector.PinkyTip}
)

// validate checks the landmark count.
func validate(landmarks []detector.Point3D) error {
	if len(landmarks) != detector.NumLandmarks {
		return fmt.Errorf("%w: expected %d landmarks, got %d", ErrInvalidInput, detector.NumLandmarks, len(landmarks))
	}
	return nil
}

// EvaluateFingers reduces a 21-point hand to five open/closed flags.
//
// The thumb is open when both its IP joint and tip lie left of (smaller x
// than) the thumb MCP. That test only holds for one hand laterality under one
// camera mirroring; a mirrored or opposite hand reads as a closed thumb. The
// other fingers are open when both distal joints lie above (smaller y than)
// the PIP joint. All comparisons are strict, so ties read as closed.
func EvaluateFingers(landmarks []detector.Point3D) (FingerState, error) {
	if err := validate(landmarks); err != nil {
		return FingerState{}, err
	}

	thumbRef := landmarks[detector.ThumbMCP].X
	return FingerState{
		Thumb:  landmarks[detector.ThumbIP].X < thumbRef && landmarks[detector.ThumbTip].X < thumbRef,
		Index:  fingerOpen(landmarks, indexJoints),
		Middle: fingerOpen(landmarks, middleJoints),
		Ring:   fingerOpen(landmarks, ringJoints),
		Pinky:  fingerOpen(landmarks, pinkyJoints),
	}, nil
}

func fingerOpen(landmarks []detector.Point3D, j fingerJoints) bool {
	ref := landmarks[j.ref].Y
	return landmarks[j.dip].Y < ref && landmarks[j.tip].Y < ref
}

// Distance2D returns the Euclidean distance between a and b in the image
// plane. Z is ignored.
func Distance2D(a, b detector.Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// ThumbNearIndex reports whether the thumb tip and index tip are closer than
// ProximityThreshold.
func ThumbNearIndex(landmarks []detector.Point3D) (bool, error) {
	if err := validate(landmarks); err != nil {
		return false, err
	}
	return Distance2D(landmarks[detector.ThumbTip], landmarks[detector.IndexTip]) < ProximityThreshold, nil
}
