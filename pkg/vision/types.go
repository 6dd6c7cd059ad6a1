// Package vision carries face and hand observations from inference
// producers to the tick loop.
package vision

import (
	"time"

	"github.com/teslashibe/go-aura/pkg/emotion"
	"github.com/teslashibe/go-aura/pkg/gesture"
)

// Box is a normalized face bounding box.
type Box struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	W          float64 `json:"w"`
	H          float64 `json:"h"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Center returns the box center.
func (b Box) Center() gesture.Point {
	return gesture.Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Face is one face-model reading. Detected=false is a genuine "no face"
// result, distinct from no reading at all.
type Face struct {
	Detected    bool                `json:"detected"`
	Blendshapes emotion.Blendshapes `json:"blendshapes,omitempty"`
	Landmarks   []gesture.Point     `json:"landmarks,omitempty"` // 478-point face mesh, normalized
	Box         *Box                `json:"box,omitempty"`
}

// HasExpression reports whether blendshapes are present. Detector-only
// sources report presence and position without them.
func (f *Face) HasExpression() bool {
	return f != nil && len(f.Blendshapes) > 0
}

// HandObservation is one detected hand. A producer may send a raw gesture,
// landmarks, or both; landmarks are classified when the gesture is absent.
type HandObservation struct {
	Hand      gesture.Hand     `json:"hand"`
	Gesture   *gesture.Gesture `json:"gesture,omitempty"`
	Landmarks []gesture.Point  `json:"landmarks,omitempty"`
	Position  *gesture.Point   `json:"position,omitempty"`
}

// Resolve returns the raw gesture and palm position for this hand.
func (h HandObservation) Resolve() (gesture.Gesture, *gesture.Point) {
	var g gesture.Gesture
	if h.Gesture != nil {
		g = *h.Gesture
	} else {
		g = gesture.Classify(h.Landmarks)
	}

	if h.Position != nil {
		p := *h.Position
		return g, &p
	}
	if p, ok := gesture.PalmCenter(h.Landmarks); ok {
		return g, &p
	}
	return g, nil
}

// Hands is one hand-model reading. A hand missing from Observations was
// not detected in that reading.
type Hands struct {
	Observations []HandObservation `json:"observations"`
}

// Find returns the observation for h.
func (hs *Hands) Find(h gesture.Hand) (HandObservation, bool) {
	if hs == nil {
		return HandObservation{}, false
	}
	for _, o := range hs.Observations {
		if o.Hand == h {
			return o, true
		}
	}
	return HandObservation{}, false
}

// Frame is an immutable snapshot of the latest readings. The sequence
// numbers increase by one per published reading, so a consumer can tell
// "nothing new" from a repeated identical reading.
type Frame struct {
	FaceSeq  uint64
	HandsSeq uint64
	Face     *Face
	Hands    *Hands
	FaceAt   time.Time
	HandsAt  time.Time
}
