package emotion

import "fmt"

// Weight is one blendshape's contribution to an emotion score.
type Weight struct {
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// WeightTable maps each non-neutral emotion to its weighted blendshapes.
// Neutral is derived, never summed.
type WeightTable map[Emotion][]Weight

// DisambiguationConfig holds the thresholds used to separate sad from
// angry, which share the lowered-brow blendshapes.
type DisambiguationConfig struct {
	BrowDownMin   float64 `json:"brow_down_min" yaml:"brow_down_min"`     // brow-down average must exceed this
	SneerMax      float64 `json:"sneer_max" yaml:"sneer_max"`             // ...with nose sneer average below this
	ChinRaiseMin  float64 `json:"chin_raise_min" yaml:"chin_raise_min"`   // ...and mouthShrugLower above this
	SadBoost      float64 `json:"sad_boost" yaml:"sad_boost"`             // sad multiplier when the pattern matches
	AngryDamp     float64 `json:"angry_damp" yaml:"angry_damp"`           // angry multiplier when the pattern matches
	SneerAngryMin float64 `json:"sneer_angry_min" yaml:"sneer_angry_min"` // sneer above this reads as anger
	SneerSadDamp  float64 `json:"sneer_sad_damp" yaml:"sneer_sad_damp"`   // sad multiplier when sneering
}

// ClassifierConfig configures a Classifier.
type ClassifierConfig struct {
	Weights            WeightTable          `json:"weights" yaml:"weights"`
	NeutralSuppression float64              `json:"neutral_suppression" yaml:"neutral_suppression"`
	Disambiguation     DisambiguationConfig `json:"disambiguation" yaml:"disambiguation"`
}

// Blendshape names read by the disambiguation step.
const (
	BrowDownLeft    = "browDownLeft"
	BrowDownRight   = "browDownRight"
	NoseSneerLeft   = "noseSneerLeft"
	NoseSneerRight  = "noseSneerRight"
	MouthShrugLower = "mouthShrugLower"
	EyeBlinkLeft    = "eyeBlinkLeft"
	EyeBlinkRight   = "eyeBlinkRight"
)

// DefaultWeights returns the stock weight table over MediaPipe blendshape
// names. Each emotion's weights sum to 1.
func DefaultWeights() WeightTable {
	return WeightTable{
		Happy: {
			{"mouthSmileLeft", 0.3},
			{"mouthSmileRight", 0.3},
			{"cheekSquintLeft", 0.2},
			{"cheekSquintRight", 0.2},
		},
		Sad: {
			{"browInnerUp", 0.3},
			{"mouthFrownLeft", 0.2},
			{"mouthFrownRight", 0.2},
			{BrowDownLeft, 0.15},
			{BrowDownRight, 0.15},
		},
		Angry: {
			{BrowDownLeft, 0.25},
			{BrowDownRight, 0.25},
			{NoseSneerLeft, 0.15},
			{NoseSneerRight, 0.15},
			{"mouthPressLeft", 0.1},
			{"mouthPressRight", 0.1},
		},
		Surprised: {
			{"jawOpen", 0.3},
			{"eyeWideLeft", 0.2},
			{"eyeWideRight", 0.2},
			{"browOuterUpLeft", 0.15},
			{"browOuterUpRight", 0.15},
		},
	}
}

// DefaultClassifierConfig returns the stock classifier configuration.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Weights:            DefaultWeights(),
		NeutralSuppression: 2.5,
		Disambiguation: DisambiguationConfig{
			BrowDownMin:   0.4,
			SneerMax:      0.1,
			ChinRaiseMin:  0.3,
			SadBoost:      1.5,
			AngryDamp:     0.6,
			SneerAngryMin: 0.2,
			SneerSadDamp:  0.5,
		},
	}
}

// Validate checks the configuration for unusable values.
func (c ClassifierConfig) Validate() error {
	if c.NeutralSuppression <= 0 {
		return fmt.Errorf("%w: neutral_suppression must be positive", ErrInvalidConfig)
	}
	if _, ok := c.Weights[Neutral]; ok {
		return fmt.Errorf("%w: neutral is derived and cannot carry weights", ErrInvalidConfig)
	}
	for e, ws := range c.Weights {
		if e < 0 || int(e) >= Count {
			return fmt.Errorf("%w: weight table has %s", ErrInvalidConfig, e)
		}
		for _, w := range ws {
			if w.Name == "" {
				return fmt.Errorf("%w: empty blendshape name under %s", ErrInvalidConfig, e)
			}
		}
	}
	return nil
}

// Classifier maps blendshapes to raw emotion scores. It holds no mutable
// state and is safe to call from any goroutine at any rate.
type Classifier struct {
	weights [Count][]Weight
	cfg     ClassifierConfig
}

// NewClassifier builds a classifier. The weight table is copied.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	c := &Classifier{cfg: cfg}
	for e, ws := range cfg.Weights {
		if e == Neutral || e < 0 || int(e) >= Count {
			continue
		}
		c.weights[e] = append([]Weight(nil), ws...)
	}
	return c
}

// Config returns the configuration the classifier was built with.
func (c *Classifier) Config() ClassifierConfig {
	return c.cfg
}

// Classify scores the four expressive emotions from blendshapes looked up
// by name, applies the sad/angry disambiguation once, then derives
// neutral as the complement of the strongest expressive score. Missing
// blendshapes count as 0.
func (c *Classifier) Classify(b Blendshapes) Scores {
	var s Scores
	for _, e := range [...]Emotion{Happy, Sad, Angry, Surprised} {
		sum := 0.0
		for _, w := range c.weights[e] {
			sum += b.Get(w.Name) * w.Weight
		}
		s[e] = sum
	}

	d := c.cfg.Disambiguation
	browDown := avg2(b.Get(BrowDownLeft), b.Get(BrowDownRight))
	sneer := avg2(b.Get(NoseSneerLeft), b.Get(NoseSneerRight))
	chin := b.Get(MouthShrugLower)

	if browDown > d.BrowDownMin && sneer < d.SneerMax && chin > d.ChinRaiseMin {
		s[Sad] *= d.SadBoost
		s[Angry] *= d.AngryDamp
	}
	if sneer > d.SneerAngryMin {
		s[Sad] *= d.SneerSadDamp
	}

	maxOther := s[Happy]
	for _, e := range [...]Emotion{Sad, Angry, Surprised} {
		if s[e] > maxOther {
			maxOther = s[e]
		}
	}
	s[Neutral] = max(0, 1-maxOther*c.cfg.NeutralSuppression)
	return s
}
