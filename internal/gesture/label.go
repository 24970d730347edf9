// Package gesture classifies a single hand skeleton into a named gesture.
//
// Classification is a pure function of one frame: five per-finger
// open/closed tests feed an ordered decision table. Nothing is carried
// between calls, so a Classifier may be shared by any number of goroutines.
package gesture

import (
	"fmt"
	"strings"
)

// Label is the name of a recognized gesture.
type Label string

// The closed set of labels produced by Classify.
const (
	NoHand       Label = "NO_HAND"
	Five         Label = "FIVE"
	Four         Label = "FOUR"
	Three        Label = "THREE"
	Two          Label = "TWO"
	One          Label = "ONE"
	Yeah         Label = "YEAH"
	Rock         Label = "ROCK"
	Spiderman    Label = "SPIDERMAN"
	Fist         Label = "FIST"
	OK           Label = "OK"
	Unrecognized Label = "UNRECOGNIZED"
)

var allLabels = []Label{
	NoHand, Five, Four, Three, Two, One, Yeah, Rock, Spiderman, Fist, OK, Unrecognized,
}

// Labels returns every label in declaration order.
func Labels() []Label {
	out := make([]Label, len(allLabels))
	copy(out, allLabels)
	return out
}

// ParseLabel looks a label up by name, ignoring case and surrounding space.
func ParseLabel(s string) (Label, error) {
	name := Label(strings.ToUpper(strings.TrimSpace(s)))
	for _, l := range allLabels {
		if l == name {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown gesture label %q", s)
}

// String implements fmt.Stringer.
func (l Label) String() string {
	return string(l)
}

// Actionable reports whether the label names an actual hand pose, as opposed
// to the absence of a hand or a pose outside the table.
func (l Label) Actionable() bool {
	return l != NoHand && l != Unrecognized && l != ""
}
