package particles

import (
	"math"

	"github.com/teslashibe/go-aura/pkg/emotion"
	"github.com/teslashibe/go-aura/pkg/gesture"
)

// Pool stores particles as parallel float32 arrays sized once at
// construction. Live particles occupy [0, Active()); a dead particle is
// swapped with the last live one so the live range stays contiguous.
// Spawn, Update and ApplyForceField never allocate. A Pool is owned by a
// single goroutine.
type Pool struct {
	positions  []float32 // xyz, z always 0
	velocities []float32 // xyz
	colors     []float32 // rgb
	sizes      []float32
	lifetimes  []float32 // progress: 0 newborn, 1 dead
	decayRates []float32 // 1 / lifetime seconds

	capacity  int
	active    int
	maxActive int

	maxSpeed float64
	damping  float32

	cfg Config
}

// NewPool allocates a pool for cfg.Capacity particles.
func NewPool(cfg Config) *Pool {
	n := cfg.Capacity
	if n < 0 {
		n = 0
	}
	p := &Pool{
		positions:  make([]float32, n*3),
		velocities: make([]float32, n*3),
		colors:     make([]float32, n*3),
		sizes:      make([]float32, n),
		lifetimes:  make([]float32, n),
		decayRates: make([]float32, n),
		capacity:   n,
		maxActive:  n,
	}
	p.SetConfig(cfg)
	return p
}

// SetConfig updates the motion and force tunables. Capacity is fixed at
// construction and is ignored here.
func (p *Pool) SetConfig(cfg Config) {
	cfg.Capacity = p.capacity
	p.cfg = cfg
	p.maxSpeed = cfg.MaxSpeed
	p.damping = float32(cfg.Damping)
}

// Capacity returns the fixed pool size.
func (p *Pool) Capacity() int { return p.capacity }

// Active returns the number of live particles.
func (p *Pool) Active() int { return p.active }

// MaxActive returns the current ceiling.
func (p *Pool) MaxActive() int { return p.maxActive }

// SetMaxActive sets the live ceiling, clamped to [0, Capacity]. Particles
// already above a lowered ceiling live out their lifetimes.
func (p *Pool) SetMaxActive(n int) {
	p.maxActive = max(0, min(n, p.capacity))
}

// Spawn appends a particle at the end of the live range. It reports false
// and writes nothing once the ceiling is reached. A non-positive lifetime
// gets a decay rate of 1, i.e. one second.
func (p *Pool) Spawn(x, y, vx, vy float64, c emotion.RGB, size, lifetime float64) bool {
	if p.active >= p.maxActive {
		return false
	}
	i := p.active
	i3 := i * 3

	p.positions[i3] = float32(x)
	p.positions[i3+1] = float32(y)
	p.positions[i3+2] = 0

	p.velocities[i3] = float32(vx)
	p.velocities[i3+1] = float32(vy)
	p.velocities[i3+2] = 0

	p.colors[i3] = float32(c[0])
	p.colors[i3+1] = float32(c[1])
	p.colors[i3+2] = float32(c[2])

	p.sizes[i] = float32(size)
	p.lifetimes[i] = 0
	if lifetime > 0 {
		p.decayRates[i] = float32(1 / lifetime)
	} else {
		p.decayRates[i] = 1
	}

	p.active++
	return true
}

// Update ages, retires and integrates every live particle, returning the
// new live count.
func (p *Pool) Update(dt float64) int {
	fdt := float32(dt)
	i := 0
	for i < p.active {
		p.lifetimes[i] += p.decayRates[i] * fdt
		if p.lifetimes[i] >= 1 {
			p.active--
			if i < p.active {
				p.swap(i, p.active)
			}
			// index i now holds the former last particle
			continue
		}

		i3 := i * 3
		p.positions[i3] += p.velocities[i3] * fdt
		p.positions[i3+1] += p.velocities[i3+1] * fdt

		p.velocities[i3] *= p.damping
		p.velocities[i3+1] *= p.damping

		vx, vy := float64(p.velocities[i3]), float64(p.velocities[i3+1])
		if speed := math.Sqrt(vx*vx + vy*vy); speed > p.maxSpeed {
			scale := float32(p.maxSpeed / speed)
			p.velocities[i3] *= scale
			p.velocities[i3+1] *= scale
		}
		i++
	}
	return p.active
}

// ApplyForceField adds a hand-driven force to live particles within radius
// of (cx, cy). Push throws particles outward with a quadratic falloff.
// Attract holds them on a springy orbit around an equilibrium ring and
// damps them so they settle instead of passing through. Particles at the
// exact center or outside the radius are untouched.
func (p *Pool) ApplyForceField(cx, cy float64, kind gesture.Gesture, radius, strength, dt float64) {
	if kind == gesture.None || radius <= 0 {
		return
	}
	equilibrium := radius * p.cfg.EquilibriumRatio
	orbitDamp := max(0, 1-p.cfg.OrbitDamping*dt)

	for i := 0; i < p.active; i++ {
		i3 := i * 3
		dx := float64(p.positions[i3]) - cx
		dy := float64(p.positions[i3+1]) - cy
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist > radius || dist < 0.001 {
			continue
		}
		nx, ny := dx/dist, dy/dist
		t := 1 - dist/radius
		vx, vy := float64(p.velocities[i3]), float64(p.velocities[i3+1])

		switch kind {
		case gesture.Push:
			force := strength * t * t
			vx += nx * force * dt
			vy += ny * force * dt
		case gesture.Attract:
			spring := (dist - equilibrium) * strength * p.cfg.SpringGain
			tangent := strength * t * p.cfg.OrbitGain
			vx -= nx * spring * dt
			vy -= ny * spring * dt
			vx += -ny * tangent * dt
			vy += nx * tangent * dt
			vx *= orbitDamp
			vy *= orbitDamp
		}

		p.velocities[i3] = float32(vx)
		p.velocities[i3+1] = float32(vy)
	}
}

// Clear retires every particle.
func (p *Pool) Clear() {
	p.active = 0
}

// Positions returns xyz triples for live particles. The slice aliases the
// pool and is only valid until the next mutation.
func (p *Pool) Positions() []float32 { return p.positions[:p.active*3] }

// Velocities returns xyz velocity triples for live particles.
func (p *Pool) Velocities() []float32 { return p.velocities[:p.active*3] }

// Colors returns rgb triples for live particles.
func (p *Pool) Colors() []float32 { return p.colors[:p.active*3] }

// Sizes returns point sizes for live particles.
func (p *Pool) Sizes() []float32 { return p.sizes[:p.active] }

// Lifetimes returns lifetime progress in [0,1) for live particles.
func (p *Pool) Lifetimes() []float32 { return p.lifetimes[:p.active] }

func (p *Pool) swap(a, b int) {
	a3, b3 := a*3, b*3
	swap3(p.positions, a3, b3)
	swap3(p.velocities, a3, b3)
	swap3(p.colors, a3, b3)
	p.sizes[a], p.sizes[b] = p.sizes[b], p.sizes[a]
	p.lifetimes[a], p.lifetimes[b] = p.lifetimes[b], p.lifetimes[a]
	p.decayRates[a], p.decayRates[b] = p.decayRates[b], p.decayRates[a]
}

func swap3(s []float32, a, b int) {
	s[a], s[b] = s[b], s[a]
	s[a+1], s[b+1] = s[b+1], s[a+1]
	s[a+2], s[b+2] = s[b+2], s[a+2]
}
