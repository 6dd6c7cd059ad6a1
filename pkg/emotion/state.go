package emotion

import "fmt"

// StateConfig holds the EMA smoothing factors.
type StateConfig struct {
	// Alpha is the per-update weight given to a fresh classification.
	Alpha float64 `json:"alpha" yaml:"alpha"`

	// FaceLostAlpha is used while decaying toward neutral with no face.
	// It must exceed Alpha so loss settles faster than normal tracking.
	FaceLostAlpha float64 `json:"face_lost_alpha" yaml:"face_lost_alpha"`
}

// DefaultStateConfig returns the stock smoothing factors.
func DefaultStateConfig() StateConfig {
	return StateConfig{
		Alpha:         0.3,
		FaceLostAlpha: 0.5,
	}
}

// Validate checks that both alphas are in (0,1] and face-lost decays faster.
func (c StateConfig) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: alpha must be in (0,1]", ErrInvalidConfig)
	}
	if c.FaceLostAlpha <= 0 || c.FaceLostAlpha > 1 {
		return fmt.Errorf("%w: face_lost_alpha must be in (0,1]", ErrInvalidConfig)
	}
	if c.FaceLostAlpha <= c.Alpha {
		return fmt.Errorf("%w: face_lost_alpha must exceed alpha", ErrInvalidConfig)
	}
	return nil
}

// State is an exponential moving average over emotion scores. It is owned
// by a single goroutine.
type State struct {
	cfg      StateConfig
	smoothed Scores
	detected bool
}

// NewState returns a state resting at neutral.
func NewState(cfg StateConfig) *State {
	return &State{
		cfg:      cfg,
		smoothed: NeutralScores(),
	}
}

// SetConfig replaces the smoothing factors without touching the accumulator.
func (s *State) SetConfig(cfg StateConfig) {
	s.cfg = cfg
}

// Update blends a fresh classification into the accumulator.
func (s *State) Update(raw Scores) Result {
	s.step(raw, s.cfg.Alpha)
	s.detected = true
	return s.Current()
}

// DecayToNeutral pulls the accumulator toward neutral at the face-lost rate.
func (s *State) DecayToNeutral() Result {
	s.step(NeutralScores(), s.cfg.FaceLostAlpha)
	s.detected = false
	return s.Current()
}

// Current returns the latest snapshot without advancing the filter.
func (s *State) Current() Result {
	return resultFor(s.smoothed, s.detected)
}

// Reset restores the resting state.
func (s *State) Reset() {
	s.smoothed = NeutralScores()
	s.detected = false
}

func (s *State) step(target Scores, alpha float64) {
	for i := range s.smoothed {
		s.smoothed[i] += alpha * (target[i] - s.smoothed[i])
	}
}
