package particles

import (
	"math"
	"math/rand/v2"

	"github.com/teslashibe/go-aura/pkg/emotion"
)

var (
	gold = emotion.RGB{1.0, 0.84, 0.0}
	cyan = emotion.RGB{0.0, 1.0, 1.0}
)

// Fireworks spawns radial bursts, one per wink.
type Fireworks struct {
	cfg FireworkConfig
	rng *rand.Rand
}

// NewFireworks creates a burst spawner.
func NewFireworks(cfg FireworkConfig, rng *rand.Rand) *Fireworks {
	return &Fireworks{cfg: cfg, rng: rng}
}

// SetConfig replaces the burst shape.
func (f *Fireworks) SetConfig(cfg FireworkConfig) {
	f.cfg = cfg
}

// Burst fires a gold burst on the left side of the scene for a left wink
// and a cyan one on the right for a right wink. aspect is the scene
// half-width. It returns how many particles fit in the pool.
func (f *Fireworks) Burst(pool *Pool, eye emotion.Eye, aspect float64) int {
	cx := -aspect * f.cfg.OffsetX
	base := gold
	if eye == emotion.RightEye {
		cx = -cx
		base = cyan
	}

	spawned := 0
	for i := 0; i < f.cfg.Count; i++ {
		angle := f.rng.Float64() * 2 * math.Pi
		speed := f.cfg.SpeedMin + f.rng.Float64()*(f.cfg.SpeedMax-f.cfg.SpeedMin)
		lifetime := f.cfg.LifetimeMin.Seconds() + f.rng.Float64()*(f.cfg.LifetimeMax-f.cfg.LifetimeMin).Seconds()
		size := f.cfg.SizeMin + f.rng.Float64()*(f.cfg.SizeMax-f.cfg.SizeMin)

		var c emotion.RGB
		for ch := range c {
			c[ch] = clamp01(base[ch] + (f.rng.Float64()-0.5)*2*f.cfg.ColorJitter)
		}

		x := cx + (f.rng.Float64()-0.5)*2*f.cfg.OriginSpray
		y := (f.rng.Float64() - 0.5) * 2 * f.cfg.OriginSpray

		if !pool.Spawn(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, c, size, lifetime) {
			break
		}
		spawned++
	}
	return spawned
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
