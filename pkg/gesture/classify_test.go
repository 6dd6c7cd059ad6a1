package gesture

import "testing"

// hand builds 21 landmarks with each finger's tip placed above (open) or
// below (curled) its PIP joint.
func hand(curled [4]bool) []Point {
	lm := make([]Point, Landmarks)
	for i := range lm {
		lm[i] = Point{X: 0.5, Y: 0.5}
	}
	for i, f := range fingers {
		lm[f[1]] = Point{X: 0.5, Y: 0.5}
		if curled[i] {
			lm[f[0]] = Point{X: 0.5, Y: 0.6}
		} else {
			lm[f[0]] = Point{X: 0.5, Y: 0.3}
		}
	}
	return lm
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		curled [4]bool
		want   Gesture
	}{
		{"open palm", [4]bool{}, Push},
		{"fist", [4]bool{true, true, true, true}, Attract},
		{"pointing", [4]bool{false, true, true, true}, None},
		{"peace", [4]bool{false, false, true, true}, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(hand(tt.curled)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassify_ShortInput(t *testing.T) {
	if got := Classify(make([]Point, 5)); got != None {
		t.Errorf("got %s, want none", got)
	}
}

func TestPalmCenter(t *testing.T) {
	lm := make([]Point, Landmarks)
	lm[Wrist] = Point{X: 0.2, Y: 0.8}
	lm[MiddleMCP] = Point{X: 0.4, Y: 0.4}

	p, ok := PalmCenter(lm)
	if !ok {
		t.Fatal("expected ok")
	}
	if p.X < 0.2999 || p.X > 0.3001 || p.Y < 0.5999 || p.Y > 0.6001 {
		t.Errorf("got %+v, want (0.3, 0.6)", p)
	}
	if _, ok := PalmCenter(nil); ok {
		t.Error("expected !ok for empty landmarks")
	}
}

func TestParseGesture(t *testing.T) {
	for _, g := range []Gesture{None, Push, Attract} {
		got, err := ParseGesture(g.String())
		if err != nil || got != g {
			t.Errorf("ParseGesture(%q) = %v, %v", g, got, err)
		}
	}
	if _, err := ParseGesture("wave"); err == nil {
		t.Error("expected error")
	}
}
