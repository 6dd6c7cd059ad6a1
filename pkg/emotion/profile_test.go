package emotion

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestBlend_SingleEmotionReproducesProfile(t *testing.T) {
	set := DefaultProfiles()
	for _, e := range All {
		t.Run(e.String(), func(t *testing.T) {
			var s Scores
			s[e] = 1
			got := Blend(set, s)

			want := set[e].Clone()
			if l := want.Direction.Len(); l > RadialThreshold {
				want.Direction = Vec2{want.Direction[0] / l, want.Direction[1] / l}
			} else {
				want.Direction = Vec2{}
			}
			if diff := cmp.Diff(want, got, approx); diff != "" {
				t.Errorf("Blend mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBlend_WeightedSumNotAverage(t *testing.T) {
	set := DefaultProfiles()
	got := Blend(set, Scores{Happy: 0.5})
	if math.Abs(got.Speed-0.2) > eps {
		t.Errorf("speed: got %.3f, want 0.2", got.Speed)
	}
	if got.Direction != (Vec2{0, 1}) {
		t.Errorf("direction should renormalize to unit: got %v", got.Direction)
	}
}

func TestBlend_OpposingDirectionsGoRadial(t *testing.T) {
	set := DefaultProfiles()

	tests := []struct {
		name   string
		scores Scores
	}{
		{"angry and surprised", Scores{Angry: 0.5, Surprised: 0.5}},
		{"happy cancels sad", Scores{Happy: 0.5, Sad: 0.5}},
		{"all zero", Scores{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blend(set, tt.scores)
			if got.Direction != (Vec2{}) {
				t.Errorf("direction: got %v, want zero", got.Direction)
			}
			if !got.Radial() {
				t.Error("profile should report radial")
			}
		})
	}
}

func TestBlend_PadsShortPalettes(t *testing.T) {
	set := DefaultProfiles()
	set[Happy].Colors = []RGB{{1, 0, 0}}

	got := Blend(set, Scores{Happy: 1})
	if len(got.Colors) != 3 {
		t.Fatalf("palette length: got %d, want 3", len(got.Colors))
	}
	for i, c := range got.Colors {
		if diff := cmp.Diff(RGB{1, 0, 0}, c, approx); diff != "" {
			t.Errorf("slot %d (-want +got):\n%s", i, diff)
		}
	}

	mixed := Blend(set, Scores{Happy: 0.5, Sad: 0.5})
	// slot 2: happy pads with red, sad contributes its third color
	want := RGB{0.5 + 0.5*0.5, 0.5 * 0.6, 0.5 * 0.85}
	if diff := cmp.Diff(want, mixed.Colors[2], approx); diff != "" {
		t.Errorf("padded slot (-want +got):\n%s", diff)
	}
}

func TestBlend_DoesNotMutateSet(t *testing.T) {
	set := DefaultProfiles()
	before := set[Sad].Clone()
	Blend(set, Scores{Sad: 1, Angry: 0.4})
	if diff := cmp.Diff(before, set[Sad]); diff != "" {
		t.Errorf("profile set mutated:\n%s", diff)
	}
}

func TestLerp(t *testing.T) {
	set := DefaultProfiles()
	a, b := set[Sad], set[Surprised]

	tests := []struct {
		name string
		t    float64
		want float64 // speed
	}{
		{"start", 0, 0.15},
		{"end", 1, 1.0},
		{"middle", 0.5, 0.575},
		{"clamped low", -3, 0.15},
		{"clamped high", 7, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lerp(a, b, tt.t)
			if math.Abs(got.Speed-tt.want) > eps {
				t.Errorf("speed: got %.4f, want %.4f", got.Speed, tt.want)
			}
		})
	}

	short := Profile{Colors: []RGB{{0, 0, 0}}}
	long := Profile{Colors: []RGB{{1, 1, 1}, {0, 1, 0}}}
	got := Lerp(short, long, 0.5)
	want := []RGB{{0.5, 0.5, 0.5}, {0, 0.5, 0}}
	if diff := cmp.Diff(want, got.Colors, approx); diff != "" {
		t.Errorf("padded lerp (-want +got):\n%s", diff)
	}
}
