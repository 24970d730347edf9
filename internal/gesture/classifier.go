package gesture

import "github.com/ayusman/handsign/internal/detector"

// state is a tri-state finger requirement used by the decision table.
type state int8

const (
	either state = iota
	open
	closed
)

func (s state) matches(v bool) bool {
	switch s {
	case open:
		return v
	case closed:
		return !v
	default:
		return true
	}
}

// rule maps a finger pattern to a label. thumbNear, when set, additionally
// requires the thumb and index tips to touch.
type rule struct {
	label     Label
	fingers   [5]state // thumb, index, middle, ring, pinky
	thumbNear bool
}

func (r rule) matches(f FingerState, near bool) bool {
	for i, v := range [5]bool{f.Thumb, f.Index, f.Middle, f.Ring, f.Pinky} {
		if !r.fingers[i].matches(v) {
			return false
		}
	}
	return !r.thumbNear || near
}

// rules is evaluated top to bottom and the first match wins. The order is
// the tie-break between patterns and must not be changed.
var rules = []rule{
	{label: Five, fingers: [5]state{open, open, open, open, open}},
	{label: Four, fingers: [5]state{closed, open, open, open, open}},
	{label: Three, fingers: [5]state{open, open, open, closed, closed}},
	{label: Two, fingers: [5]state{open, open, closed, closed, closed}},
	{label: One, fingers: [5]state{closed, open, closed, closed, closed}},
	{label: Yeah, fingers: [5]state{closed, open, open, closed, closed}},
	{label: Rock, fingers: [5]state{closed, open, closed, closed, open}},
	{label: Spiderman, fingers: [5]state{open, open, closed, closed, open}},
	{label: Fist, fingers: [5]state{closed, closed, closed, closed, closed}},
	{label: OK, fingers: [5]state{either, closed, open, open, open}, thumbNear: true},
}

// Decide runs the decision table over an already evaluated finger state.
// near reports whether the thumb tip touches the index tip.
func Decide(f FingerState, near bool) Label {
	for _, r := range rules {
		if r.matches(f, near) {
			return r.label
		}
	}
	return Unrecognized
}

// Classify maps one frame to a gesture label.
//
// When present is false, or landmarks is nil, the result is NoHand and the
// landmarks are not inspected. Otherwise landmarks must hold exactly
// detector.NumLandmarks points or ErrInvalidInput is returned.
func Classify(present bool, landmarks []detector.Point3D) (Label, error) {
	if !present || landmarks == nil {
		return NoHand, nil
	}

	fingers, err := EvaluateFingers(landmarks)
	if err != nil {
		return "", err
	}

	near, err := ThumbNearIndex(landmarks)
	if err != nil {
		return "", err
	}

	return Decide(fingers, near), nil
}

// Result is a label together with the finger state it was derived from.
type Result struct {
	Label   Label       `json:"label"`
	Fingers FingerState `json:"fingers"`
}

// Classifier is the injectable form of Classify. The zero value is ready to
// use and it holds no state.
type Classifier struct{}

// New returns a Classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify implements the package-level Classify.
func (c *Classifier) Classify(present bool, landmarks []detector.Point3D) (Label, error) {
	return Classify(present, landmarks)
}

// Evaluate classifies a frame and also returns the finger state. Fingers is
// the zero value when no hand is present.
func (c *Classifier) Evaluate(present bool, landmarks []detector.Point3D) (Result, error) {
	label, err := Classify(present, landmarks)
	if err != nil {
		return Result{}, err
	}
	if label == NoHand {
		return Result{Label: label}, nil
	}
	// Classify already validated the input.
	fingers, _ := EvaluateFingers(landmarks)
	return Result{Label: label, Fingers: fingers}, nil
}

// Pattern describes the finger requirement of a label as five characters,
// thumb first: 'O' open, '-' closed, '*' either. The second value reports
// whether the label also needs the thumb and index tips to touch. Labels
// outside the table return "", false.
func Pattern(l Label) (string, bool) {
	for _, r := range rules {
		if r.label != l {
			continue
		}
		b := make([]byte, 5)
		for i, s := range r.fingers {
			switch s {
			case open:
				b[i] = 'O'
			case closed:
				b[i] = '-'
			default:
				b[i] = '*'
			}
		}
		return string(b), r.thumbNear
	}
	return "", false
}
