// Package engine runs the per-tick pipeline: vision inputs, emotion and
// gesture state, profile blending, particle simulation and quality
// scaling, in that fixed order on a single goroutine.
package engine

import (
	"fmt"
	"time"

	"github.com/teslashibe/go-aura/pkg/emotion"
	"github.com/teslashibe/go-aura/pkg/gesture"
	"github.com/teslashibe/go-aura/pkg/particles"
	"github.com/teslashibe/go-aura/pkg/quality"
	"github.com/teslashibe/go-aura/pkg/tracking"
)

// Config aggregates every engine tunable.
type Config struct {
	// Timing
	TickRate       int           `json:"tick_rate" yaml:"tick_rate"`             // ticks per second
	MaxDelta       time.Duration `json:"max_delta" yaml:"max_delta"`             // dt clamp, absorbs tab switches and stalls
	Stagger        bool          `json:"stagger" yaml:"stagger"`                 // face on even ticks, hands on odd
	FaceTimeout    time.Duration `json:"face_timeout" yaml:"face_timeout"`       // no face reading this long counts as lost
	HandTimeout    time.Duration `json:"hand_timeout" yaml:"hand_timeout"`       // no hand reading this long counts as lost
	StatusInterval time.Duration `json:"status_interval" yaml:"status_interval"` // status publish period in Run

	// Scene
	Aspect float64 `json:"aspect" yaml:"aspect"` // scene half-width; half-height is 1
	Seed   uint64  `json:"seed" yaml:"seed"`     // 0 picks a random seed

	Classifier emotion.ClassifierConfig `json:"classifier" yaml:"classifier"`
	Emotion    emotion.StateConfig      `json:"emotion" yaml:"emotion"`
	Wink       emotion.WinkConfig       `json:"wink" yaml:"wink"`
	Profiles   emotion.ProfileSet       `json:"profiles" yaml:"profiles"` // happy, sad, angry, surprised, neutral
	Gesture    gesture.Config           `json:"gesture" yaml:"gesture"`
	Particles  particles.Config         `json:"particles" yaml:"particles"`
	Quality    quality.Config           `json:"quality" yaml:"quality"`
	Tracking   tracking.Config          `json:"tracking" yaml:"tracking"`
}

// DefaultConfig returns the stock engine configuration.
func DefaultConfig() Config {
	return Config{
		TickRate:       60,
		MaxDelta:       50 * time.Millisecond,
		Stagger:        true,
		FaceTimeout:    time.Second,
		HandTimeout:    500 * time.Millisecond,
		StatusInterval: 100 * time.Millisecond,

		Aspect: 16.0 / 9.0,

		Classifier: emotion.DefaultClassifierConfig(),
		Emotion:    emotion.DefaultStateConfig(),
		Wink:       emotion.DefaultWinkConfig(),
		Profiles:   emotion.DefaultProfiles(),
		Gesture:    gesture.DefaultConfig(),
		Particles:  particles.DefaultConfig(),
		Quality:    quality.DefaultConfig(),
		Tracking:   tracking.DefaultConfig(),
	}
}

// LowPowerConfig is DefaultConfig with a smaller pool and a more patient
// quality controller.
func LowPowerConfig() Config {
	cfg := DefaultConfig()
	cfg.Particles = particles.LowPowerConfig()
	cfg.Quality = quality.ConservativeConfig()
	cfg.Quality.Floor = 200
	return cfg
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}
	if c.MaxDelta <= 0 {
		return fmt.Errorf("max_delta must be positive")
	}
	if c.Aspect <= 0 {
		return fmt.Errorf("aspect must be positive")
	}
	if c.FaceTimeout < 0 || c.HandTimeout < 0 || c.StatusInterval < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if err := c.Classifier.Validate(); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Emotion.Validate(); err != nil {
		return fmt.Errorf("emotion: %w", err)
	}
	if err := c.Particles.Validate(); err != nil {
		return fmt.Errorf("particles: %w", err)
	}
	if err := c.Quality.Validate(); err != nil {
		return fmt.Errorf("quality: %w", err)
	}
	if c.Quality.Floor > c.Particles.Capacity {
		return fmt.Errorf("quality floor (%d) exceeds particle capacity (%d)", c.Quality.Floor, c.Particles.Capacity)
	}
	if c.Gesture.StabilityWindow < 0 || c.Gesture.DecayWindow < 0 {
		return fmt.Errorf("gesture windows must not be negative")
	}
	if c.Tracking.TickRate <= 0 {
		return fmt.Errorf("tracking tick_rate must be positive")
	}
	for i, p := range c.Profiles {
		if len(p.Colors) == 0 {
			return fmt.Errorf("profile %s has no colors", emotion.Emotion(i))
		}
	}
	return nil
}
