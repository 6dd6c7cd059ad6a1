package quality

import (
	"testing"
	"time"
)

type fakeTarget struct {
	capacity  int
	maxActive int
	sets      int
}

func (f *fakeTarget) Capacity() int { return f.capacity }

func (f *fakeTarget) SetMaxActive(n int) {
	f.maxActive = n
	f.sets++
}

func run(s *Scaler, dt time.Duration, frames int) {
	for i := 0; i < frames; i++ {
		s.Update(dt)
	}
}

func TestScaler_StartsAtCapacity(t *testing.T) {
	tgt := &fakeTarget{capacity: 1500}
	s := NewScaler(DefaultConfig(), tgt)
	if s.Ceiling() != 1500 || tgt.maxActive != 1500 || s.Scaled() {
		t.Errorf("unexpected initial state: ceiling=%d target=%d", s.Ceiling(), tgt.maxActive)
	}
	if fps := s.AverageFPS(); fps != 60 {
		t.Errorf("empty window fps: got %.1f, want 60", fps)
	}
}

func TestScaler_NeedsMinimumSamples(t *testing.T) {
	tgt := &fakeTarget{capacity: 1500}
	s := NewScaler(DefaultConfig(), tgt)
	run(s, 10*time.Second, 4)
	if s.Ceiling() != 1500 {
		t.Errorf("acted on %d samples: ceiling=%d", 4, s.Ceiling())
	}
}

func TestScaler_StepsDownAfterDelay(t *testing.T) {
	tgt := &fakeTarget{capacity: 1500}
	s := NewScaler(DefaultConfig(), tgt)

	// 20 fps; the first 4 frames only fill the window
	run(s, 50*time.Millisecond, 43)
	if s.Ceiling() != 1500 {
		t.Fatalf("stepped early: %d", s.Ceiling())
	}
	s.Update(50 * time.Millisecond)
	if s.Ceiling() != 1200 || tgt.maxActive != 1200 {
		t.Fatalf("after 2s low: got %d, want 1200", s.Ceiling())
	}

	// the timer restarts after each step
	run(s, 50*time.Millisecond, 39)
	if s.Ceiling() != 1200 {
		t.Fatalf("second step too early: %d", s.Ceiling())
	}
	s.Update(50 * time.Millisecond)
	if s.Ceiling() != 960 {
		t.Fatalf("second step: got %d, want 960", s.Ceiling())
	}
}

func TestScaler_ClampsAtFloor(t *testing.T) {
	tgt := &fakeTarget{capacity: 1500}
	s := NewScaler(DefaultConfig(), tgt)

	var steps []int
	s.OnChange(func(_, n int) { steps = append(steps, n) })
	run(s, 100*time.Millisecond, 2000)

	want := []int{1200, 960, 768, 614, 491, 392, 313, 300}
	if len(steps) != len(want) {
		t.Fatalf("steps: got %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d: got %d, want %d", i, steps[i], want[i])
		}
	}
	if s.Ceiling() != 300 {
		t.Errorf("final ceiling: got %d, want 300", s.Ceiling())
	}
}

func TestScaler_RecoversToCapacity(t *testing.T) {
	tgt := &fakeTarget{capacity: 1500}
	s := NewScaler(DefaultConfig(), tgt)
	run(s, 100*time.Millisecond, 500)
	low := s.Ceiling()

	prev := low
	s.OnChange(func(old, n int) {
		if n <= old {
			t.Errorf("recovery stepped down: %d -> %d", old, n)
		}
		if n > 1500 {
			t.Errorf("ceiling above capacity: %d", n)
		}
		prev = n
	})
	run(s, 10*time.Millisecond, 10000)

	if prev != 1500 || s.Ceiling() != 1500 || s.Scaled() {
		t.Errorf("did not recover: ceiling=%d", s.Ceiling())
	}
}

func TestScaler_DeadZoneHoldsCeiling(t *testing.T) {
	tgt := &fakeTarget{capacity: 1500}
	s := NewScaler(DefaultConfig(), tgt)
	run(s, 31250*time.Microsecond, 1000) // 32 fps

	if s.Ceiling() != 1500 {
		t.Errorf("ceiling moved in dead zone: %d", s.Ceiling())
	}
	if s.below != 0 || s.above != 0 {
		t.Errorf("timers should be reset: below=%v above=%v", s.below, s.above)
	}
}

func TestScaler_Reset(t *testing.T) {
	tgt := &fakeTarget{capacity: 1500}
	s := NewScaler(DefaultConfig(), tgt)
	run(s, 100*time.Millisecond, 100)
	if !s.Scaled() {
		t.Fatal("expected scaled state")
	}
	s.Reset()
	if s.Ceiling() != 1500 || tgt.maxActive != 1500 {
		t.Errorf("Reset: ceiling=%d target=%d", s.Ceiling(), tgt.maxActive)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default invalid: %v", err)
	}
	if err := ConservativeConfig().Validate(); err != nil {
		t.Fatalf("conservative invalid: %v", err)
	}
	bad := DefaultConfig()
	bad.MinSamples = 40
	if err := bad.Validate(); err == nil {
		t.Error("expected error when min_samples exceeds window")
	}
}
