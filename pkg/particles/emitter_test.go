package particles

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/teslashibe/go-aura/pkg/emotion"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func flatProfile() emotion.Profile {
	return emotion.Profile{
		Colors:              []emotion.RGB{{0.2, 0.4, 0.6}},
		Speed:               1,
		Direction:           emotion.Vec2{0, 1},
		Spread:              0,
		SizeMultiplier:      1,
		LifetimeMultiplier:  1,
		SpawnRateMultiplier: 1,
	}
}

func TestEmitter_Rate(t *testing.T) {
	e := NewEmitter(DefaultConfig(), seeded())
	p := flatProfile()

	if got := e.Rate(p, 1); math.Abs(got-90) > 1e-9 {
		t.Errorf("full intensity: got %.2f, want 90", got)
	}
	if got := e.Rate(p, 0); math.Abs(got-27) > 1e-9 {
		t.Errorf("zero intensity: got %.2f, want 27", got)
	}
}

func TestEmitter_AccumulatesFractions(t *testing.T) {
	pool := smallPool(100)
	e := NewEmitter(DefaultConfig(), seeded())
	p := flatProfile()
	dt := 0.0625 // 5.625 particles per tick at full intensity

	if n := e.Emit(pool, p, 1, Point{}, dt); n != 5 {
		t.Errorf("first tick: got %d, want 5", n)
	}
	if n := e.Emit(pool, p, 1, Point{}, dt); n != 6 {
		t.Errorf("second tick: got %d, want 6", n)
	}
	if pool.Active() != 11 {
		t.Errorf("active: got %d, want 11", pool.Active())
	}
}

func TestEmitter_AimsAlongDirection(t *testing.T) {
	pool := smallPool(100)
	e := NewEmitter(DefaultConfig(), seeded())
	e.Emit(pool, flatProfile(), 1, Point{X: 0.2, Y: -0.1}, 0.5)

	v := pool.Velocities()
	for i := 0; i < pool.Active(); i++ {
		vx, vy := v[i*3], v[i*3+1]
		if math.Abs(float64(vx)) > 1e-5 || vy <= 0 {
			t.Fatalf("particle %d velocity (%.4f, %.4f) not straight up", i, vx, vy)
		}
	}
	pos := pool.Positions()
	for i := 0; i < pool.Active(); i++ {
		if math.Abs(float64(pos[i*3])-0.2) > 0.0751 {
			t.Fatalf("particle %d spawned outside jitter: %v", i, pos[i*3])
		}
	}
	if c := pool.Colors(); c[0] != 0.2 || !near(c[1], 0.4) {
		t.Errorf("color not taken from palette: %v", c[:3])
	}
}

func TestEmitter_FullPoolDropsQuota(t *testing.T) {
	pool := smallPool(5)
	e := NewEmitter(DefaultConfig(), seeded())
	if n := e.Emit(pool, flatProfile(), 1, Point{}, 1); n != 5 {
		t.Errorf("got %d, want 5", n)
	}
	if e.acc != 0 {
		t.Errorf("quota should be dropped, acc=%.2f", e.acc)
	}
}

func TestEmitter_LifetimeRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LifetimeBase = time.Second
	pool := NewPool(cfg)
	e := NewEmitter(cfg, seeded())
	e.Emit(pool, flatProfile(), 1, Point{}, 0.5)

	for i := 0; i < pool.Active(); i++ {
		life := 1 / float64(pool.decayRates[i])
		if life < 0.8-1e-4 || life > 1.2+1e-4 {
			t.Errorf("particle %d lifetime %.3f outside [0.8, 1.2]", i, life)
		}
	}
}

func TestFireworks_Burst(t *testing.T) {
	cfg := DefaultConfig()
	pool := NewPool(cfg)
	f := NewFireworks(cfg.Firework, seeded())

	if n := f.Burst(pool, emotion.LeftEye, 1.5); n != 80 {
		t.Fatalf("got %d, want 80", n)
	}
	pos := pool.Positions()
	col := pool.Colors()
	for i := 0; i < pool.Active(); i++ {
		if math.Abs(float64(pos[i*3])+0.9) > 0.0201 {
			t.Fatalf("left burst particle %d at x=%.3f", i, pos[i*3])
		}
		if col[i*3+2] > 0.1001 {
			t.Fatalf("left burst should be gold, got %v", col[i*3:i*3+3])
		}
	}

	pool.Clear()
	f.Burst(pool, emotion.RightEye, 1.5)
	if x := pool.Positions()[0]; x < 0.85 {
		t.Errorf("right burst should sit right of center, x=%.3f", x)
	}
}

func TestFireworks_RespectsCeiling(t *testing.T) {
	pool := smallPool(10)
	f := NewFireworks(DefaultConfig().Firework, seeded())
	if n := f.Burst(pool, emotion.LeftEye, 1); n != 10 {
		t.Errorf("got %d, want 10", n)
	}
}

func TestTurbulence(t *testing.T) {
	pool := smallPool(4)
	pool.Spawn(0.37, 0.21, 0, 0, red, 1, 10)
	pool.Spawn(-0.44, 0.59, 0, 0, red, 1, 10)

	tb := NewTurbulence(DefaultConfig())
	tb.Apply(pool, 0, 0.016)
	for _, v := range pool.Velocities() {
		if v != 0 {
			t.Fatalf("zero amplitude moved particles: %v", pool.Velocities())
		}
	}

	tb.Apply(pool, 1.5, 0.016)
	moved := false
	for _, v := range pool.Velocities() {
		if v != 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("turbulence had no effect")
	}
}
