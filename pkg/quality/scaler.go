// Package quality adapts the particle ceiling to the measured frame rate.
package quality

import (
	"fmt"
	"math"
	"time"
)

// Config holds the quality controller tunables.
type Config struct {
	Window       int           `json:"window" yaml:"window"`               // frames in the rolling average
	MinSamples   int           `json:"min_samples" yaml:"min_samples"`     // frames needed before acting
	FPSThreshold float64       `json:"fps_threshold" yaml:"fps_threshold"` // below this, scale down
	Hysteresis   float64       `json:"hysteresis" yaml:"hysteresis"`       // above threshold+this, scale up
	ScaleDelay   time.Duration `json:"scale_delay" yaml:"scale_delay"`     // sustained time before each step
	Floor        int           `json:"floor" yaml:"floor"`                 // never scale below this
	DownFactor   float64       `json:"down_factor" yaml:"down_factor"`
	UpFactor     float64       `json:"up_factor" yaml:"up_factor"`
}

// DefaultConfig returns the stock controller.
func DefaultConfig() Config {
	return Config{
		Window:       30,
		MinSamples:   5,
		FPSThreshold: 30,
		Hysteresis:   5,
		ScaleDelay:   2 * time.Second,
		Floor:        300,
		DownFactor:   0.8,
		UpFactor:     1.1,
	}
}

// ConservativeConfig waits longer and keeps more particles, for demos on
// machines with bursty frame times.
func ConservativeConfig() Config {
	cfg := DefaultConfig()
	cfg.Window = 60
	cfg.ScaleDelay = 4 * time.Second
	cfg.Floor = 500
	return cfg
}

// Validate rejects configurations the controller cannot run.
func (c Config) Validate() error {
	if c.Window <= 0 || c.MinSamples <= 0 {
		return fmt.Errorf("window and min_samples must be positive")
	}
	if c.MinSamples > c.Window {
		return fmt.Errorf("min_samples (%d) exceeds window (%d)", c.MinSamples, c.Window)
	}
	if c.DownFactor <= 0 || c.DownFactor >= 1 {
		return fmt.Errorf("down_factor must be in (0,1)")
	}
	if c.UpFactor <= 1 {
		return fmt.Errorf("up_factor must exceed 1")
	}
	if c.Floor < 0 {
		return fmt.Errorf("floor must be non-negative")
	}
	return nil
}

// Target receives ceiling changes. *particles.Pool satisfies it.
type Target interface {
	Capacity() int
	SetMaxActive(n int)
}

// Scaler lowers the particle ceiling when frame rate stays low and raises
// it again when frame rate recovers. It is owned by the tick goroutine.
type Scaler struct {
	cfg    Config
	target Target

	window  *ring
	ceiling int
	below   time.Duration
	above   time.Duration

	onChange func(old, new int)
}

// NewScaler starts at the target's full capacity.
func NewScaler(cfg Config, target Target) *Scaler {
	s := &Scaler{
		cfg:     cfg,
		target:  target,
		window:  newRing(cfg.Window),
		ceiling: target.Capacity(),
	}
	target.SetMaxActive(s.ceiling)
	return s
}

// OnChange registers a callback fired after every ceiling step.
func (s *Scaler) OnChange(fn func(old, new int)) {
	s.onChange = fn
}

// SetConfig replaces the tunables. The sample window restarts when its
// size changes.
func (s *Scaler) SetConfig(cfg Config) {
	if cfg.Window != s.cfg.Window {
		s.window = newRing(cfg.Window)
	}
	s.cfg = cfg
}

// Update records one frame time and steps the ceiling if warranted.
func (s *Scaler) Update(dt time.Duration) {
	s.window.push(dt.Seconds())
	if s.window.len() < s.cfg.MinSamples {
		return
	}

	fps := s.AverageFPS()
	capacity := s.target.Capacity()
	floor := min(s.cfg.Floor, capacity)

	switch {
	case fps < s.cfg.FPSThreshold:
		s.below += dt
		s.above = 0
		if s.below >= s.cfg.ScaleDelay {
			next := max(floor, int(math.Floor(float64(s.ceiling)*s.cfg.DownFactor)))
			if next < s.ceiling {
				s.apply(next)
			}
			s.below = 0
		}

	case fps > s.cfg.FPSThreshold+s.cfg.Hysteresis:
		s.above += dt
		s.below = 0
		if s.above >= s.cfg.ScaleDelay && s.ceiling < capacity {
			next := min(capacity, int(math.Ceil(float64(s.ceiling)*s.cfg.UpFactor)))
			if next > s.ceiling {
				s.apply(next)
			}
			s.above = 0
		}

	default:
		s.below = 0
		s.above = 0
	}
}

// AverageFPS is the reciprocal of the mean frame time over the window,
// reporting 60 until any positive frame time has been seen.
func (s *Scaler) AverageFPS() float64 {
	mean := s.window.mean()
	if mean <= 0 {
		return 60
	}
	return 1 / mean
}

// Ceiling returns the current particle ceiling.
func (s *Scaler) Ceiling() int {
	return s.ceiling
}

// Scaled reports whether the ceiling is below full capacity.
func (s *Scaler) Scaled() bool {
	return s.ceiling < s.target.Capacity()
}

// Reset restores full capacity and clears history.
func (s *Scaler) Reset() {
	s.window.reset()
	s.below, s.above = 0, 0
	if c := s.target.Capacity(); c != s.ceiling {
		s.apply(c)
	}
}

func (s *Scaler) apply(next int) {
	old := s.ceiling
	s.ceiling = next
	s.target.SetMaxActive(next)
	if s.onChange != nil {
		s.onChange(old, next)
	}
}
