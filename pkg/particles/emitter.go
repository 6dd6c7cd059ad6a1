package particles

import (
	"math"
	"math/rand/v2"

	"github.com/teslashibe/go-aura/pkg/emotion"
)

// Origin supplies spawn positions in scene coordinates.
type Origin interface {
	SpawnPoint(rng *rand.Rand) (x, y float64)
}

// Point is a fixed Origin.
type Point struct{ X, Y float64 }

// SpawnPoint implements Origin.
func (p Point) SpawnPoint(*rand.Rand) (float64, float64) { return p.X, p.Y }

// Emitter converts a blended profile into a steady stream of spawns. The
// fractional part of each tick's quota carries over, so low rates still
// emit at the right average.
type Emitter struct {
	cfg Config
	rng *rand.Rand
	acc float64
}

// NewEmitter creates an emitter drawing randomness from rng.
func NewEmitter(cfg Config, rng *rand.Rand) *Emitter {
	return &Emitter{cfg: cfg, rng: rng}
}

// SetConfig replaces the emission tunables.
func (e *Emitter) SetConfig(cfg Config) {
	e.cfg = cfg
}

// Rate returns particles per second for a profile at the given intensity.
func (e *Emitter) Rate(p emotion.Profile, intensity float64) float64 {
	return e.cfg.SpawnRateBase * p.SpawnRateMultiplier * (0.3 + 0.7*intensity)
}

// Emit spawns this tick's share of particles into pool and returns how
// many were written. When the pool is full the leftover quota is dropped
// rather than banked into a later burst.
func (e *Emitter) Emit(pool *Pool, p emotion.Profile, intensity float64, origin Origin, dt float64) int {
	e.acc += e.Rate(p, intensity) * dt
	n := int(e.acc)
	e.acc -= float64(n)

	radial := p.Radial()
	base := math.Atan2(p.Direction[1], p.Direction[0])
	lifetimeBase := e.cfg.LifetimeBase.Seconds()

	spawned := 0
	for i := 0; i < n; i++ {
		angle := base
		if radial {
			angle = e.rng.Float64() * 2 * math.Pi
		}
		angle += (e.rng.Float64() - 0.5) * p.Spread

		speed := p.Speed * (0.5 + e.rng.Float64()*0.5) * (0.5 + intensity*0.5)
		size := e.cfg.SizeBase * p.SizeMultiplier * (0.5 + e.rng.Float64()*0.5) * (0.7 + intensity*0.3)
		lifetime := lifetimeBase * p.LifetimeMultiplier * (0.8 + e.rng.Float64()*0.4)

		c := emotion.RGB{1, 1, 1}
		if len(p.Colors) > 0 {
			c = p.Colors[e.rng.IntN(len(p.Colors))]
		}

		ox, oy := origin.SpawnPoint(e.rng)
		ox += (e.rng.Float64() - 0.5) * 2 * e.cfg.SpawnJitter
		oy += (e.rng.Float64() - 0.5) * 2 * e.cfg.SpawnJitter

		if !pool.Spawn(ox, oy, math.Cos(angle)*speed, math.Sin(angle)*speed, c, size, lifetime) {
			e.acc = 0
			break
		}
		spawned++
	}
	return spawned
}

// Reset drops any banked fractional quota.
func (e *Emitter) Reset() {
	e.acc = 0
}
