package particles

import (
	"math"
	"testing"

	"github.com/teslashibe/go-aura/pkg/emotion"
	"github.com/teslashibe/go-aura/pkg/gesture"
)

func smallPool(n int) *Pool {
	cfg := DefaultConfig()
	cfg.Capacity = n
	return NewPool(cfg)
}

var red = emotion.RGB{1, 0, 0}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestPool_SpawnRespectsCeiling(t *testing.T) {
	p := smallPool(3)
	for i := 0; i < 3; i++ {
		if !p.Spawn(0, 0, 0, 0, red, 1, 1) {
			t.Fatalf("spawn %d rejected", i)
		}
	}
	if p.Spawn(0, 0, 0, 0, red, 1, 1) {
		t.Error("spawn beyond capacity accepted")
	}
	if p.Active() != 3 {
		t.Errorf("active: got %d, want 3", p.Active())
	}

	p.Clear()
	p.SetMaxActive(1)
	p.Spawn(0.5, 0.5, 0, 0, red, 1, 1)
	if p.Spawn(9, 9, 0, 0, red, 1, 1) {
		t.Error("spawn above max active accepted")
	}
	if p.positions[3] == 9 {
		t.Error("rejected spawn wrote data")
	}
}

func TestPool_SetMaxActiveClamps(t *testing.T) {
	p := smallPool(10)
	p.SetMaxActive(50)
	if p.MaxActive() != 10 {
		t.Errorf("got %d, want 10", p.MaxActive())
	}
	p.SetMaxActive(-4)
	if p.MaxActive() != 0 {
		t.Errorf("got %d, want 0", p.MaxActive())
	}
}

func TestPool_LoweringCeilingDoesNotEvict(t *testing.T) {
	p := smallPool(10)
	for i := 0; i < 8; i++ {
		p.Spawn(0, 0, 0, 0, red, 1, 10)
	}
	p.SetMaxActive(2)
	p.Update(0.016)
	if p.Active() != 8 {
		t.Errorf("active: got %d, want 8", p.Active())
	}
	if p.Spawn(0, 0, 0, 0, red, 1, 1) {
		t.Error("spawn should be rejected while above ceiling")
	}
}

func TestPool_UpdateCompactsDeadParticles(t *testing.T) {
	p := smallPool(8)
	p.Spawn(0, 0, 0, 0, emotion.RGB{1, 0, 0}, 1, 0.5) // dies
	p.Spawn(0, 0, 0, 0, emotion.RGB{0, 1, 0}, 1, 10)  // lives
	p.Spawn(0, 0, 0, 0, emotion.RGB{0, 0, 1}, 1, 0.5) // dies after being swapped into slot 0

	if n := p.Update(0.6); n != 1 {
		t.Fatalf("active: got %d, want 1", n)
	}
	c := p.Colors()
	if len(c) != 3 || c[1] != 1 {
		t.Errorf("survivor should be green in slot 0, got %v", c)
	}
	if l := p.Lifetimes()[0]; !near(l, 0.06) {
		t.Errorf("survivor aged twice or not at all: %.4f", l)
	}
}

func TestPool_NonPositiveLifetimeLastsOneSecond(t *testing.T) {
	p := smallPool(2)
	p.Spawn(0, 0, 0, 0, red, 1, 0)
	p.Update(0.9)
	if p.Active() != 1 {
		t.Fatal("died too early")
	}
	p.Update(0.2)
	if p.Active() != 0 {
		t.Error("should be dead after one second")
	}
}

func TestPool_IntegrateAndDamp(t *testing.T) {
	p := smallPool(1)
	p.Spawn(0, 0, 1, 0, red, 1, 10)
	p.Update(0.01)

	if !near(p.Positions()[0], 0.01) {
		t.Errorf("x: got %.5f, want 0.01", p.Positions()[0])
	}
	if !near(p.Velocities()[0], 0.995) {
		t.Errorf("vx: got %.5f, want 0.995", p.Velocities()[0])
	}
	if p.Positions()[2] != 0 {
		t.Error("z must stay 0")
	}
}

func TestPool_SpeedClamp(t *testing.T) {
	p := smallPool(1)
	p.Spawn(0, 0, 30, 40, red, 1, 10)
	p.Update(0.001)

	v := p.Velocities()
	speed := math.Hypot(float64(v[0]), float64(v[1]))
	if speed > 5.0001 {
		t.Errorf("speed %.4f exceeds max", speed)
	}
	if !near(v[0]/v[1], 0.75) {
		t.Errorf("clamp changed direction: %v", v)
	}
}

func TestPool_ApplyForceField(t *testing.T) {
	tests := []struct {
		name   string
		kind   gesture.Gesture
		x, y   float64
		wantVX float32
		wantVY float32
	}{
		// t = 0.5, force = 8 * 0.25
		{"push inside radius", gesture.Push, 0.3, 0, 0.2, 0},
		// spring (0.3-0.12)*4*0.8, tangent 4*0.5*0.6, damp 0.8
		{"attract inside radius", gesture.Attract, 0.3, 0, -0.04608, 0.096},
		{"outside radius", gesture.Push, 0.7, 0, 0, 0},
		{"at center", gesture.Push, 0, 0, 0, 0},
		{"no gesture", gesture.None, 0.3, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := smallPool(1)
			p.Spawn(tt.x, tt.y, 0, 0, red, 1, 10)
			strength := p.cfg.PushStrength
			if tt.kind == gesture.Attract {
				strength = p.cfg.AttractStrength
			}
			p.ApplyForceField(0, 0, tt.kind, 0.6, strength, 0.1)

			v := p.Velocities()
			if !near(v[0], tt.wantVX) || !near(v[1], tt.wantVY) {
				t.Errorf("velocity: got (%.5f, %.5f), want (%.5f, %.5f)", v[0], v[1], tt.wantVX, tt.wantVY)
			}
		})
	}
}

func TestPool_NoAllocations(t *testing.T) {
	p := smallPool(256)
	allocs := testing.AllocsPerRun(100, func() {
		for i := 0; i < 8; i++ {
			p.Spawn(0.1, 0.2, 0.3, 0.4, red, 2, 0.05)
		}
		p.ApplyForceField(0, 0, gesture.Attract, 0.6, 4, 0.016)
		p.Update(0.016)
	})
	if allocs != 0 {
		t.Errorf("got %.1f allocations per tick, want 0", allocs)
	}
}

func TestPool_OverflowThenExpire(t *testing.T) {
	p := smallPool(100)
	stored := 0
	for i := 0; i < 150; i++ {
		if p.Spawn(0, 0, 0, 0, red, 1, 1) {
			stored++
		}
	}
	if stored != 100 || p.Active() != 100 {
		t.Fatalf("stored %d, active %d, want 100", stored, p.Active())
	}

	if got := p.Update(0.5); got != 100 {
		t.Fatalf("active after 0.5s: got %d, want 100", got)
	}
	for i, life := range p.Lifetimes() {
		if !near(life, 0.5) {
			t.Fatalf("particle %d progress: got %.4f, want 0.5", i, life)
		}
	}

	if got := p.Update(0.6); got != 0 {
		t.Errorf("active after 1.1s: got %d, want 0", got)
	}
}
