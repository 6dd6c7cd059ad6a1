// Package particles simulates the fixed-capacity particle pool and the
// emitters and force fields that feed it.
package particles

import (
	"fmt"
	"time"
)

// Config holds all particle tunables.
type Config struct {
	// Pool
	Capacity int     `json:"capacity" yaml:"capacity"`   // fixed pool size, allocated once
	MaxSpeed float64 `json:"max_speed" yaml:"max_speed"` // scene units/s
	Damping  float64 `json:"damping" yaml:"damping"`     // velocity multiplier per update

	// Emission
	SpawnRateBase float64       `json:"spawn_rate_base" yaml:"spawn_rate_base"` // particles/s at multiplier 1
	SizeBase      float64       `json:"size_base" yaml:"size_base"`             // point size in pixels
	LifetimeBase  time.Duration `json:"lifetime_base" yaml:"lifetime_base"`
	SpawnJitter   float64       `json:"spawn_jitter" yaml:"spawn_jitter"` // ± origin offset in scene units

	// Force fields
	ForceRadius      float64 `json:"force_radius" yaml:"force_radius"`
	PushStrength     float64 `json:"push_strength" yaml:"push_strength"`
	AttractStrength  float64 `json:"attract_strength" yaml:"attract_strength"`
	EquilibriumRatio float64 `json:"equilibrium_ratio" yaml:"equilibrium_ratio"` // orbit radius as a fraction of ForceRadius
	SpringGain       float64 `json:"spring_gain" yaml:"spring_gain"`
	OrbitGain        float64 `json:"orbit_gain" yaml:"orbit_gain"`
	OrbitDamping     float64 `json:"orbit_damping" yaml:"orbit_damping"` // per second, inside an attract field

	// Turbulence
	NoiseStrength  float64 `json:"noise_strength" yaml:"noise_strength"`   // scaled by the profile noise amplitude
	NoiseFrequency float64 `json:"noise_frequency" yaml:"noise_frequency"` // spatial frequency
	NoiseDrift     float64 `json:"noise_drift" yaml:"noise_drift"`         // field evolution per second
	NoiseSeed      int64   `json:"noise_seed" yaml:"noise_seed"`

	Firework FireworkConfig `json:"firework" yaml:"firework"`
}

// FireworkConfig shapes wink-triggered bursts.
type FireworkConfig struct {
	Count       int           `json:"count" yaml:"count"`
	SpeedMin    float64       `json:"speed_min" yaml:"speed_min"`
	SpeedMax    float64       `json:"speed_max" yaml:"speed_max"`
	LifetimeMin time.Duration `json:"lifetime_min" yaml:"lifetime_min"`
	LifetimeMax time.Duration `json:"lifetime_max" yaml:"lifetime_max"`
	SizeMin     float64       `json:"size_min" yaml:"size_min"`
	SizeMax     float64       `json:"size_max" yaml:"size_max"`
	OffsetX     float64       `json:"offset_x" yaml:"offset_x"` // burst center as a fraction of the half-width
	ColorJitter float64       `json:"color_jitter" yaml:"color_jitter"`
	OriginSpray float64       `json:"origin_spray" yaml:"origin_spray"`
}

// DefaultConfig returns the stock settings for a 1500 particle pool.
func DefaultConfig() Config {
	return Config{
		Capacity: 1500,
		MaxSpeed: 5.0,
		Damping:  0.995,

		SpawnRateBase: 90,
		SizeBase:      6,
		LifetimeBase:  2 * time.Second,
		SpawnJitter:   0.075,

		ForceRadius:      0.6,
		PushStrength:     8,
		AttractStrength:  4,
		EquilibriumRatio: 0.2,
		SpringGain:       0.8,
		OrbitGain:        0.6,
		OrbitDamping:     2,

		NoiseStrength:  0.15,
		NoiseFrequency: 1.8,
		NoiseDrift:     0.3,
		NoiseSeed:      7,

		Firework: FireworkConfig{
			Count:       80,
			SpeedMin:    0.3,
			SpeedMax:    0.9,
			LifetimeMin: 5 * time.Second,
			LifetimeMax: 8 * time.Second,
			SizeMin:     4,
			SizeMax:     10,
			OffsetX:     0.6,
			ColorJitter: 0.1,
			OriginSpray: 0.02,
		},
	}
}

// LowPowerConfig trades density for frame time on weak hardware.
func LowPowerConfig() Config {
	cfg := DefaultConfig()
	cfg.Capacity = 600
	cfg.SpawnRateBase = 45
	cfg.NoiseStrength = 0
	cfg.Firework.Count = 40
	return cfg
}

// Validate checks for values the pool cannot run with.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.MaxSpeed <= 0 {
		return fmt.Errorf("max_speed must be positive")
	}
	if c.Damping <= 0 || c.Damping > 1 {
		return fmt.Errorf("damping must be in (0,1]")
	}
	if c.ForceRadius <= 0 {
		return fmt.Errorf("force_radius must be positive")
	}
	if c.Firework.SpeedMax < c.Firework.SpeedMin || c.Firework.LifetimeMax < c.Firework.LifetimeMin {
		return fmt.Errorf("firework ranges must be ordered")
	}
	return nil
}
