package tracking

import (
	"math/rand/v2"

	"github.com/charmbracelet/harmonica"

	"github.com/teslashibe/go-aura/pkg/gesture"
	"github.com/teslashibe/go-aura/pkg/vision"
)

// FaceOval lists the face-mesh landmark indices that trace the jaw and
// forehead contour.
var FaceOval = []int{
	10, 338, 297, 332, 284, 251, 389, 356, 454, 323, 361, 288,
	397, 365, 379, 378, 400, 377, 152, 148, 176, 149, 150, 136,
	172, 58, 132, 93, 234, 127, 162, 21, 54, 103, 67, 109,
}

// meshSize is the smallest landmark count that contains every FaceOval index.
const meshSize = 468

type vec struct{ x, y float64 }

// FaceAnchor turns face readings into a smoothed spawn region. The contour
// shape is smoothed per point relative to its centroid, and the centroid
// itself follows a damped spring so the spawn region glides rather than
// jitters. It implements particles.Origin.
type FaceAnchor struct {
	cfg         Config
	spring      harmonica.Spring
	springDelta float64 // step the spring coefficients were built for

	offsets []vec // smoothed contour, relative to the centroid
	raw     []vec // scratch, reused every update

	center    vec
	velocity  vec
	hasCenter bool

	consecutiveMisses int
}

// NewFaceAnchor creates an anchor with no face.
func NewFaceAnchor(cfg Config) *FaceAnchor {
	a := &FaceAnchor{
		raw:     make([]vec, 0, len(FaceOval)),
		offsets: make([]vec, 0, len(FaceOval)),
	}
	a.SetConfig(cfg)
	return a
}

// SetConfig replaces the smoothing parameters and rebuilds the spring.
func (a *FaceAnchor) SetConfig(cfg Config) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	a.cfg = cfg
	a.springDelta = 0
	a.useSpring(0)
}

// useSpring rebuilds the spring when the step between readings changes.
// A non-positive dt falls back to one tick.
func (a *FaceAnchor) useSpring(dt float64) {
	if dt <= 0 {
		dt = harmonica.FPS(a.cfg.TickRate)
	}
	if dt == a.springDelta {
		return
	}
	a.spring = harmonica.NewSpring(dt, a.cfg.SpringFrequency, a.cfg.SpringDamping)
	a.springDelta = dt
}

// Update folds in a face reading taken dt seconds after the previous one.
// A nil or undetected face counts as a miss and clears the anchor so the
// next face snaps into place.
func (a *FaceAnchor) Update(face *vision.Face, aspect, dt float64) bool {
	if face == nil || !face.Detected {
		a.consecutiveMisses++
		a.Reset()
		return false
	}

	a.raw = a.raw[:0]
	switch lm := face.Landmarks; {
	case len(lm) >= meshSize:
		for _, i := range FaceOval {
			a.raw = append(a.raw, a.toScene(lm[i], aspect))
		}
	case len(lm) > 0:
		for _, p := range lm {
			a.raw = append(a.raw, a.toScene(p, aspect))
		}
	case face.Box != nil:
		a.raw = append(a.raw, a.toScene(face.Box.Center(), aspect))
	default:
		a.consecutiveMisses++
		return a.hasCenter
	}
	a.consecutiveMisses = 0

	var centroid vec
	for _, p := range a.raw {
		centroid.x += p.x
		centroid.y += p.y
	}
	centroid.x /= float64(len(a.raw))
	centroid.y /= float64(len(a.raw))

	alpha := a.cfg.ContourSmoothing
	if len(a.offsets) != len(a.raw) {
		a.offsets = a.offsets[:0]
		for _, p := range a.raw {
			a.offsets = append(a.offsets, vec{p.x - centroid.x, p.y - centroid.y})
		}
	} else {
		for i, p := range a.raw {
			o := &a.offsets[i]
			o.x += alpha * (p.x - centroid.x - o.x)
			o.y += alpha * (p.y - centroid.y - o.y)
		}
	}

	if !a.hasCenter {
		a.center = centroid
		a.velocity = vec{}
		a.hasCenter = true
	} else {
		a.useSpring(dt)
		a.center.x, a.velocity.x = a.spring.Update(a.center.x, a.velocity.x, centroid.x)
		a.center.y, a.velocity.y = a.spring.Update(a.center.y, a.velocity.y, centroid.y)
	}
	return true
}

// Center returns the smoothed anchor center in scene coordinates.
func (a *FaceAnchor) Center() (x, y float64, ok bool) {
	return a.center.x, a.center.y, a.hasCenter
}

// Valid reports whether the anchor currently tracks a face.
func (a *FaceAnchor) Valid() bool {
	return a.hasCenter
}

// SpawnPoint picks a random point on the smoothed contour, or the center
// when only a box is known.
func (a *FaceAnchor) SpawnPoint(rng *rand.Rand) (float64, float64) {
	if len(a.offsets) == 0 {
		return a.center.x, a.center.y
	}
	o := a.offsets[rng.IntN(len(a.offsets))]
	return a.center.x + o.x, a.center.y + o.y
}

// ConsecutiveMisses returns how many readings in a row had no usable face.
func (a *FaceAnchor) ConsecutiveMisses() int {
	return a.consecutiveMisses
}

// Reset forgets the tracked face.
func (a *FaceAnchor) Reset() {
	a.offsets = a.offsets[:0]
	a.center = vec{}
	a.velocity = vec{}
	a.hasCenter = false
}

// ToScene maps a normalized point with this anchor's mapping.
func (a *FaceAnchor) ToScene(p gesture.Point, aspect float64) (float64, float64) {
	return a.cfg.ToScene(p.X, p.Y, aspect)
}

func (a *FaceAnchor) toScene(p gesture.Point, aspect float64) vec {
	x, y := a.cfg.ToScene(p.X, p.Y, aspect)
	return vec{x, y}
}
