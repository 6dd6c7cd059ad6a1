package main

import (
	"math"
	"time"

	"github.com/teslashibe/go-aura/pkg/emotion"
	"github.com/teslashibe/go-aura/pkg/gesture"
	"github.com/teslashibe/go-aura/pkg/vision"
)

// Demo timing.
const (
	phaseLength = 4 * time.Second
	winkEvery   = 7 * time.Second
	winkLength  = 150 * time.Millisecond
	handCycle   = 6 * time.Second
)

// demoOrder is the sequence of expressions the synthetic face cycles through.
var demoOrder = []emotion.Emotion{
	emotion.Happy, emotion.Surprised, emotion.Sad, emotion.Angry, emotion.Neutral,
}

// demoShapes holds the blendshape pose for each expression at full strength.
var demoShapes = map[emotion.Emotion]emotion.Blendshapes{
	emotion.Happy: {
		"mouthSmileLeft": 0.9, "mouthSmileRight": 0.9,
		"cheekSquintLeft": 0.6, "cheekSquintRight": 0.6,
	},
	emotion.Surprised: {
		"jawOpen": 0.8, "eyeWideLeft": 0.9, "eyeWideRight": 0.9,
		"browOuterUpLeft": 0.7, "browOuterUpRight": 0.7,
	},
	emotion.Sad: {
		"browInnerUp": 0.8, "mouthFrownLeft": 0.7, "mouthFrownRight": 0.7,
		emotion.BrowDownLeft: 0.4, emotion.BrowDownRight: 0.4,
		emotion.MouthShrugLower: 0.5,
	},
	emotion.Angry: {
		emotion.BrowDownLeft: 0.9, emotion.BrowDownRight: 0.9,
		emotion.NoseSneerLeft: 0.7, emotion.NoseSneerRight: 0.7,
		"mouthPressLeft": 0.6, "mouthPressRight": 0.6,
	},
	emotion.Neutral: {
		emotion.EyeBlinkLeft: 0.05, emotion.EyeBlinkRight: 0.05,
	},
}

// demoEmotion returns the expression shown at t.
func demoEmotion(t time.Duration) emotion.Emotion {
	return demoOrder[int(t/phaseLength)%len(demoOrder)]
}

// demoFace returns the face reading at t. Each expression eases in and out
// over its phase while the face drifts slowly around the frame.
func demoFace(t time.Duration) *vision.Face {
	phase := float64(t%phaseLength) / float64(phaseLength)
	strength := 0.3 + 0.7*math.Sin(math.Pi*phase)

	shapes := emotion.Blendshapes{}
	for name, v := range demoShapes[demoEmotion(t)] {
		shapes[name] = v * strength
	}
	if t%winkEvery < winkLength {
		shapes[emotion.EyeBlinkLeft] = 0.9
	}

	sec := t.Seconds()
	cx := 0.5 + 0.2*math.Sin(sec*0.5)
	cy := 0.45 + 0.1*math.Sin(sec*0.8)
	return &vision.Face{
		Detected:    true,
		Blendshapes: shapes,
		Box:         &vision.Box{X: cx - 0.15, Y: cy - 0.2, W: 0.3, H: 0.4, Confidence: 0.95},
	}
}

// demoHands returns the hand reading at t: a pushing left hand in the first
// third of each cycle, an attracting right hand in the second, none after.
func demoHands(t time.Duration) *vision.Hands {
	third := handCycle / 3
	at := t % handCycle
	angle := 2 * math.Pi * float64(at) / float64(third)

	var obs []vision.HandObservation
	switch {
	case at < third:
		g := gesture.Push
		obs = append(obs, vision.HandObservation{
			Hand:     gesture.Left,
			Gesture:  &g,
			Position: &gesture.Point{X: 0.25 + 0.1*math.Cos(angle), Y: 0.5 + 0.1*math.Sin(angle)},
		})
	case at < 2*third:
		g := gesture.Attract
		obs = append(obs, vision.HandObservation{
			Hand:     gesture.Right,
			Gesture:  &g,
			Position: &gesture.Point{X: 0.75, Y: 0.5 + 0.15*math.Sin(angle)},
		})
	}
	return &vision.Hands{Observations: obs}
}
