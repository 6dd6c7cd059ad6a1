package particles

import (
	"github.com/aquilax/go-perlin"
)

// Turbulence perturbs particle velocities with a drifting Perlin field so
// calm emotions shimmer and agitated ones churn.
type Turbulence struct {
	noiseX *perlin.Perlin
	noiseY *perlin.Perlin
	cfg    Config
	t      float64
}

// NewTurbulence seeds two independent noise fields, one per axis.
func NewTurbulence(cfg Config) *Turbulence {
	alpha, beta, n := 2.0, 2.0, int32(3)
	return &Turbulence{
		noiseX: perlin.NewPerlin(alpha, beta, n, cfg.NoiseSeed),
		noiseY: perlin.NewPerlin(alpha, beta, n, cfg.NoiseSeed+1),
		cfg:    cfg,
	}
}

// SetConfig replaces strength, frequency and drift. The seed is fixed at
// construction.
func (tb *Turbulence) SetConfig(cfg Config) {
	cfg.NoiseSeed = tb.cfg.NoiseSeed
	tb.cfg = cfg
}

// Apply advances the field by dt and nudges every live particle. amplitude
// is the blended profile's noise amplitude; zero skips the pass.
func (tb *Turbulence) Apply(pool *Pool, amplitude, dt float64) {
	tb.t += dt * tb.cfg.NoiseDrift
	gain := tb.cfg.NoiseStrength * amplitude * dt
	if gain == 0 {
		return
	}
	freq := tb.cfg.NoiseFrequency
	for i := 0; i < pool.active; i++ {
		i3 := i * 3
		x := float64(pool.positions[i3]) * freq
		y := float64(pool.positions[i3+1]) * freq
		pool.velocities[i3] += float32(tb.noiseX.Noise3D(x, y, tb.t) * gain)
		pool.velocities[i3+1] += float32(tb.noiseY.Noise3D(x, y, tb.t) * gain)
	}
}
