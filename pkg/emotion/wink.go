package emotion

import "time"

// Eye identifies which eye winked, from the subject's point of view.
type Eye int

const (
	LeftEye Eye = iota
	RightEye
)

func (e Eye) String() string {
	if e == LeftEye {
		return "left"
	}
	return "right"
}

// WinkConfig tunes wink detection.
type WinkConfig struct {
	Threshold float64       `json:"threshold" yaml:"threshold"` // eyeBlink score counted as closed
	Cooldown  time.Duration `json:"cooldown" yaml:"cooldown"`   // minimum gap between winks per eye
}

// DefaultWinkConfig returns the stock wink settings.
func DefaultWinkConfig() WinkConfig {
	return WinkConfig{
		Threshold: 0.55,
		Cooldown:  600 * time.Millisecond,
	}
}

// WinkDetector fires once per eye closure, rate limited per eye.
type WinkDetector struct {
	cfg  WinkConfig
	last [2]time.Time
	buf  [2]Eye
}

// NewWinkDetector creates a detector.
func NewWinkDetector(cfg WinkConfig) *WinkDetector {
	return &WinkDetector{cfg: cfg}
}

// SetConfig replaces the threshold and cooldown, keeping cooldown history.
func (w *WinkDetector) SetConfig(cfg WinkConfig) {
	w.cfg = cfg
}

// Update returns the eyes that winked at now. The returned slice aliases
// an internal buffer and is valid until the next call.
func (w *WinkDetector) Update(b Blendshapes, now time.Time) []Eye {
	out := w.buf[:0]
	for _, eye := range [...]Eye{LeftEye, RightEye} {
		name := EyeBlinkLeft
		if eye == RightEye {
			name = EyeBlinkRight
		}
		if b.Get(name) < w.cfg.Threshold {
			continue
		}
		if !w.last[eye].IsZero() && now.Sub(w.last[eye]) < w.cfg.Cooldown {
			continue
		}
		w.last[eye] = now
		out = append(out, eye)
	}
	return out
}

// Reset forgets cooldown history.
func (w *WinkDetector) Reset() {
	w.last = [2]time.Time{}
}
