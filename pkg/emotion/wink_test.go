package emotion

import (
	"testing"
	"time"
)

func TestWinkDetector(t *testing.T) {
	w := NewWinkDetector(DefaultWinkConfig())
	t0 := time.Unix(1000, 0)

	if got := w.Update(Blendshapes{EyeBlinkLeft: 0.2}, t0); len(got) != 0 {
		t.Fatalf("open eyes should not wink, got %v", got)
	}

	got := w.Update(Blendshapes{EyeBlinkLeft: 0.9}, t0)
	if len(got) != 1 || got[0] != LeftEye {
		t.Fatalf("expected left wink, got %v", got)
	}

	// still closed inside the cooldown
	if got := w.Update(Blendshapes{EyeBlinkLeft: 0.9}, t0.Add(100*time.Millisecond)); len(got) != 0 {
		t.Errorf("cooldown not honored, got %v", got)
	}

	// right eye has its own cooldown
	got = w.Update(Blendshapes{EyeBlinkRight: 0.7}, t0.Add(200*time.Millisecond))
	if len(got) != 1 || got[0] != RightEye {
		t.Errorf("expected right wink, got %v", got)
	}

	got = w.Update(Blendshapes{EyeBlinkLeft: 0.9}, t0.Add(time.Second))
	if len(got) != 1 || got[0] != LeftEye {
		t.Errorf("expected left wink after cooldown, got %v", got)
	}
}

func TestWinkDetector_BothEyes(t *testing.T) {
	w := NewWinkDetector(DefaultWinkConfig())
	got := w.Update(Blendshapes{EyeBlinkLeft: 1, EyeBlinkRight: 1}, time.Unix(5, 0))
	if len(got) != 2 {
		t.Errorf("expected both eyes, got %v", got)
	}
}
