package emotion

import "math"

// RGB is a linear color with channels in [0,1].
type RGB [3]float64

// Vec2 is a 2D direction in scene space.
type Vec2 [2]float64

// Len returns the vector length.
func (v Vec2) Len() float64 { return length(v[0], v[1]) }

// RadialThreshold is the direction length below which emission is radial.
const RadialThreshold = 0.001

// Profile describes how particles look and move for one emotion, or for a
// blend of several.
type Profile struct {
	Colors              []RGB   `json:"colors" yaml:"colors"`
	Speed               float64 `json:"speed" yaml:"speed"`
	Direction           Vec2    `json:"direction" yaml:"direction"`
	Spread              float64 `json:"spread" yaml:"spread"` // radians
	SizeMultiplier      float64 `json:"size_multiplier" yaml:"size_multiplier"`
	LifetimeMultiplier  float64 `json:"lifetime_multiplier" yaml:"lifetime_multiplier"`
	SpawnRateMultiplier float64 `json:"spawn_rate_multiplier" yaml:"spawn_rate_multiplier"`
	NoiseAmplitude      float64 `json:"noise_amplitude" yaml:"noise_amplitude"`
}

// Radial reports whether the direction is too short to aim along.
func (p Profile) Radial() bool {
	return p.Direction.Len() < RadialThreshold
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	p.Colors = append([]RGB(nil), p.Colors...)
	return p
}

// ProfileSet holds one profile per emotion, indexed by Emotion.
type ProfileSet [Count]Profile

// DefaultProfiles returns the stock per-emotion profiles.
func DefaultProfiles() ProfileSet {
	const pi = math.Pi
	var set ProfileSet
	set[Happy] = Profile{
		Colors:              []RGB{{1.0, 0.85, 0.3}, {1.0, 0.5, 0.7}, {1.0, 0.95, 0.6}},
		Speed:               0.4,
		Direction:           Vec2{0, 1},
		Spread:              pi * 0.7,
		SizeMultiplier:      1.2,
		LifetimeMultiplier:  1.0,
		SpawnRateMultiplier: 1.3,
		NoiseAmplitude:      1.2,
	}
	set[Sad] = Profile{
		Colors:              []RGB{{0.3, 0.5, 0.9}, {0.2, 0.3, 0.7}, {0.5, 0.6, 0.85}},
		Speed:               0.15,
		Direction:           Vec2{0, -1},
		Spread:              pi * 0.3,
		SizeMultiplier:      0.8,
		LifetimeMultiplier:  1.5,
		SpawnRateMultiplier: 0.7,
		NoiseAmplitude:      0.4,
	}
	set[Angry] = Profile{
		Colors:              []RGB{{1.0, 0.2, 0.1}, {1.0, 0.5, 0.0}, {1.0, 0.8, 0.2}},
		Speed:               0.7,
		Direction:           Vec2{0, 0},
		Spread:              pi,
		SizeMultiplier:      1.0,
		LifetimeMultiplier:  0.6,
		SpawnRateMultiplier: 1.8,
		NoiseAmplitude:      1.8,
	}
	set[Surprised] = Profile{
		Colors:              []RGB{{0.3, 1.0, 1.0}, {1.0, 1.0, 0.4}, {0.6, 0.9, 1.0}},
		Speed:               1.0,
		Direction:           Vec2{0, 0},
		Spread:              pi,
		SizeMultiplier:      1.5,
		LifetimeMultiplier:  0.4,
		SpawnRateMultiplier: 3.0,
		NoiseAmplitude:      0.8,
	}
	set[Neutral] = Profile{
		Colors:              []RGB{{0.7, 0.7, 0.75}, {0.5, 0.55, 0.6}, {0.8, 0.82, 0.85}},
		Speed:               0.08,
		Direction:           Vec2{0, 0.3},
		Spread:              pi * 0.9,
		SizeMultiplier:      0.7,
		LifetimeMultiplier:  2.0,
		SpawnRateMultiplier: 0.4,
		NoiseAmplitude:      0.6,
	}
	return set
}

// colorAt returns slot i of a palette, padding with its last color. An
// empty palette contributes black.
func colorAt(colors []RGB, i int) RGB {
	if len(colors) == 0 {
		return RGB{}
	}
	if i >= len(colors) {
		return colors[len(colors)-1]
	}
	return colors[i]
}

// Blend mixes the profiles by score. Scalars are plain weighted sums; the
// scores are not renormalised. The direction is normalised only when its
// blended length exceeds RadialThreshold, otherwise it collapses to the
// zero vector, which consumers treat as radial emission.
func Blend(set ProfileSet, scores Scores) Profile {
	var out Profile
	slots := 0
	for _, e := range All {
		if n := len(set[e].Colors); n > slots {
			slots = n
		}
	}
	out.Colors = make([]RGB, slots)

	for _, e := range All {
		w := scores[e]
		p := set[e]
		out.Speed += p.Speed * w
		out.Direction[0] += p.Direction[0] * w
		out.Direction[1] += p.Direction[1] * w
		out.Spread += p.Spread * w
		out.SizeMultiplier += p.SizeMultiplier * w
		out.LifetimeMultiplier += p.LifetimeMultiplier * w
		out.SpawnRateMultiplier += p.SpawnRateMultiplier * w
		out.NoiseAmplitude += p.NoiseAmplitude * w
		for i := 0; i < slots; i++ {
			c := colorAt(p.Colors, i)
			out.Colors[i][0] += c[0] * w
			out.Colors[i][1] += c[1] * w
			out.Colors[i][2] += c[2] * w
		}
	}

	if l := out.Direction.Len(); l > RadialThreshold {
		out.Direction[0] /= l
		out.Direction[1] /= l
	} else {
		out.Direction = Vec2{}
	}
	return out
}

// Lerp interpolates from a to b with t clamped to [0,1]. Palettes of
// different lengths are padded with their last color.
func Lerp(a, b Profile, t float64) Profile {
	t = clamp(t, 0, 1)
	slots := max(len(a.Colors), len(b.Colors))
	out := Profile{
		Colors:              make([]RGB, slots),
		Speed:               lerp(a.Speed, b.Speed, t),
		Direction:           Vec2{lerp(a.Direction[0], b.Direction[0], t), lerp(a.Direction[1], b.Direction[1], t)},
		Spread:              lerp(a.Spread, b.Spread, t),
		SizeMultiplier:      lerp(a.SizeMultiplier, b.SizeMultiplier, t),
		LifetimeMultiplier:  lerp(a.LifetimeMultiplier, b.LifetimeMultiplier, t),
		SpawnRateMultiplier: lerp(a.SpawnRateMultiplier, b.SpawnRateMultiplier, t),
		NoiseAmplitude:      lerp(a.NoiseAmplitude, b.NoiseAmplitude, t),
	}
	for i := 0; i < slots; i++ {
		ca, cb := colorAt(a.Colors, i), colorAt(b.Colors, i)
		out.Colors[i] = RGB{lerp(ca[0], cb[0], t), lerp(ca[1], cb[1], t), lerp(ca[2], cb[2], t)}
	}
	return out
}
