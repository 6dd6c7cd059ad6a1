package gesture

import "time"

// Config holds the debounce timings.
type Config struct {
	// StabilityWindow is how long a raw gesture must persist before it is
	// committed.
	StabilityWindow time.Duration `json:"stability_window" yaml:"stability_window"`

	// DecayWindow is how long strength takes to fall from 1 to 0 after
	// the hand disappears.
	DecayWindow time.Duration `json:"decay_window" yaml:"decay_window"`
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{
		StabilityWindow: 150 * time.Millisecond,
		DecayWindow:     300 * time.Millisecond,
	}
}

// State is the debounce/decay machine for one hand. It is owned by a
// single goroutine.
type State struct {
	cfg Config

	committed Gesture
	pending   Gesture
	pendingT  time.Duration

	decaying bool
	decayT   time.Duration

	pos     Point
	hasPos  bool
	commits int

	last Result
}

// NewState returns an idle hand state.
func NewState(cfg Config) *State {
	s := &State{cfg: cfg}
	s.Reset()
	return s
}

// SetConfig replaces the timings without resetting timers.
func (s *State) SetConfig(cfg Config) {
	s.cfg = cfg
}

// Update advances the machine by dt. When detected is false, raw and pos
// are ignored and the committed gesture decays.
func (s *State) Update(raw Gesture, detected bool, pos *Point, dt time.Duration) Result {
	if detected {
		s.decaying = false
		s.decayT = 0
		if pos != nil {
			s.pos = *pos
			s.hasPos = true
		}

		if raw != s.pending {
			s.pending = raw
			s.pendingT = 0
		} else {
			s.pendingT += dt
		}
		if s.pendingT >= s.cfg.StabilityWindow && s.committed != s.pending {
			s.committed = s.pending
			s.commits++
		}

		s.last = Result{
			Gesture:  s.committed,
			Active:   s.committed != None,
			Strength: 1,
			Position: s.position(),
		}
		return s.last
	}

	if !s.decaying {
		s.decaying = true
		s.decayT = 0
	}
	s.decayT += dt

	progress := 1.0
	if s.cfg.DecayWindow > 0 {
		progress = min(1, float64(s.decayT)/float64(s.cfg.DecayWindow))
	}
	strength := 1 - progress

	if progress >= 1 {
		s.committed = None
		s.pending = None
		s.pendingT = 0
		s.hasPos = false
	}

	s.last = Result{
		Gesture:  s.committed,
		Active:   strength > 0,
		Strength: strength,
		Position: s.position(),
	}
	return s.last
}

// Current returns the last computed result without advancing timers.
func (s *State) Current() Result {
	r := s.last
	if r.Position != nil {
		p := *r.Position
		r.Position = &p
	}
	return r
}

// Commits returns how many times a new gesture has been committed.
func (s *State) Commits() int {
	return s.commits
}

// Reset returns the hand to idle.
func (s *State) Reset() {
	s.committed = None
	s.pending = None
	s.pendingT = 0
	s.decaying = false
	s.decayT = 0
	s.hasPos = false
	s.pos = Point{}
	s.last = Result{Gesture: None}
}

func (s *State) position() *Point {
	if !s.hasPos {
		return nil
	}
	p := s.pos
	return &p
}

// Set holds one State per hand.
type Set struct {
	states [2]*State
}

// NewSet creates idle states for both hands.
func NewSet(cfg Config) *Set {
	return &Set{states: [2]*State{NewState(cfg), NewState(cfg)}}
}

// Get returns the state for h.
func (s *Set) Get(h Hand) *State {
	return s.states[h]
}

// SetConfig applies cfg to both hands.
func (s *Set) SetConfig(cfg Config) {
	for _, st := range s.states {
		st.SetConfig(cfg)
	}
}

// Reset idles both hands.
func (s *Set) Reset() {
	for _, st := range s.states {
		st.Reset()
	}
}

// Current returns the last result of both hands in canonical order.
func (s *Set) Current() [2]Result {
	return [2]Result{s.states[Left].Current(), s.states[Right].Current()}
}
