// Package emotion turns facial blendshape scores into smoothed emotion
// state and blends the per-emotion visual profiles that drive particles.
package emotion

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Emotion is one of the five supported emotions.
type Emotion int

const (
	Happy Emotion = iota
	Sad
	Angry
	Surprised
	Neutral
)

// Count is the number of emotions.
const Count = 5

// All lists every emotion in canonical order. Dominant selection and
// blending iterate in this order, so ties resolve to the earlier entry.
var All = [Count]Emotion{Happy, Sad, Angry, Surprised, Neutral}

var names = [Count]string{"happy", "sad", "angry", "surprised", "neutral"}

// String returns the lowercase wire name.
func (e Emotion) String() string {
	if e < 0 || int(e) >= Count {
		return fmt.Sprintf("emotion(%d)", int(e))
	}
	return names[e]
}

// MarshalText implements encoding.TextMarshaler.
func (e Emotion) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Emotion) UnmarshalText(b []byte) error {
	v, err := ParseEmotion(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseEmotion maps a wire name to an Emotion.
func ParseEmotion(s string) (Emotion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return Emotion(i), nil
		}
	}
	return Neutral, fmt.Errorf("%w: %q", ErrUnknownEmotion, s)
}

// Scores holds one value per emotion, indexed by Emotion.
type Scores [Count]float64

// NeutralScores is the resting vector: neutral 1, everything else 0.
func NeutralScores() Scores {
	var s Scores
	s[Neutral] = 1
	return s
}

// Get returns the score for e.
func (s Scores) Get(e Emotion) float64 { return s[e] }

// Map returns the scores keyed by wire name.
func (s Scores) Map() map[string]float64 {
	m := make(map[string]float64, Count)
	for _, e := range All {
		m[e.String()] = s[e]
	}
	return m
}

// MarshalJSON encodes the scores as an object keyed by emotion name.
func (s Scores) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON decodes an object keyed by emotion name. Unknown keys are
// rejected; missing keys read as 0.
func (s *Scores) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var out Scores
	for k, v := range m {
		e, err := ParseEmotion(k)
		if err != nil {
			return err
		}
		out[e] = v
	}
	*s = out
	return nil
}

// Blendshapes are named facial coefficients in [0,1] from the face model.
type Blendshapes map[string]float64

// Get returns the named coefficient, or 0 when absent.
func (b Blendshapes) Get(name string) float64 {
	return b[name]
}

// Result is a smoothed emotion snapshot.
type Result struct {
	Dominant     Emotion `json:"dominant"`
	Intensity    float64 `json:"intensity"`
	Scores       Scores  `json:"scores"`
	FaceDetected bool    `json:"face_detected"`
}

// Dominant returns the highest-scoring emotion and its clamped intensity.
// The scan follows All with a strict comparison, starting from a running
// max of 0 with Neutral as the default, so the first strictly greater
// score wins.
func Dominant(s Scores) (Emotion, float64) {
	best := Neutral
	max := 0.0
	for _, e := range All {
		if s[e] > max {
			max = s[e]
			best = e
		}
	}
	return best, clamp(max, 0, 1)
}

func resultFor(s Scores, detected bool) Result {
	dom, intensity := Dominant(s)
	return Result{
		Dominant:     dom,
		Intensity:    intensity,
		Scores:       s,
		FaceDetected: detected,
	}
}
