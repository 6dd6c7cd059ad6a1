package engine

import (
	"errors"
	"time"
)

// ErrTuningBusy is returned when tuning updates arrive faster than the
// tick loop drains them.
var ErrTuningBusy = errors.New("engine: tuning queue full")

// TuningParams holds the runtime-adjustable parameters. They can be
// changed through the tuning API without restarting the server.
type TuningParams struct {
	// Emotion smoothing
	EmotionAlpha       float64 `json:"emotion_alpha"`       // EMA alpha while a face is visible
	FaceLostAlpha      float64 `json:"face_lost_alpha"`     // EMA alpha toward neutral after loss
	NeutralSuppression float64 `json:"neutral_suppression"` // how fast expression suppresses neutral

	// Gesture debounce
	StabilityWindowMs float64 `json:"stability_window_ms"`
	DecayWindowMs     float64 `json:"decay_window_ms"`

	// Particles
	SpawnRateBase   float64 `json:"spawn_rate_base"`
	ForceRadius     float64 `json:"force_radius"`
	PushStrength    float64 `json:"push_strength"`
	AttractStrength float64 `json:"attract_strength"`
	NoiseStrength   float64 `json:"noise_strength"`

	// Quality
	FPSThreshold float64 `json:"fps_threshold"`
	QualityFloor int     `json:"quality_floor"`

	// Winks
	WinkThreshold float64 `json:"wink_threshold"`
}

// TuningFromConfig reports the tunable subset of cfg.
func TuningFromConfig(cfg Config) TuningParams {
	return TuningParams{
		EmotionAlpha:       cfg.Emotion.Alpha,
		FaceLostAlpha:      cfg.Emotion.FaceLostAlpha,
		NeutralSuppression: cfg.Classifier.NeutralSuppression,
		StabilityWindowMs:  float64(cfg.Gesture.StabilityWindow) / float64(time.Millisecond),
		DecayWindowMs:      float64(cfg.Gesture.DecayWindow) / float64(time.Millisecond),
		SpawnRateBase:      cfg.Particles.SpawnRateBase,
		ForceRadius:        cfg.Particles.ForceRadius,
		PushStrength:       cfg.Particles.PushStrength,
		AttractStrength:    cfg.Particles.AttractStrength,
		NoiseStrength:      cfg.Particles.NoiseStrength,
		FPSThreshold:       cfg.Quality.FPSThreshold,
		QualityFloor:       cfg.Quality.Floor,
		WinkThreshold:      cfg.Wink.Threshold,
	}
}

// Apply returns cfg with the non-zero fields of p applied.
func (p TuningParams) Apply(cfg Config) Config {
	if p.EmotionAlpha > 0 {
		cfg.Emotion.Alpha = p.EmotionAlpha
	}
	if p.FaceLostAlpha > 0 {
		cfg.Emotion.FaceLostAlpha = p.FaceLostAlpha
	}
	if p.NeutralSuppression > 0 {
		cfg.Classifier.NeutralSuppression = p.NeutralSuppression
	}

	if p.StabilityWindowMs > 0 {
		cfg.Gesture.StabilityWindow = msDuration(p.StabilityWindowMs)
	}
	if p.DecayWindowMs > 0 {
		cfg.Gesture.DecayWindow = msDuration(p.DecayWindowMs)
	}

	if p.SpawnRateBase > 0 {
		cfg.Particles.SpawnRateBase = p.SpawnRateBase
	}
	if p.ForceRadius > 0 {
		cfg.Particles.ForceRadius = p.ForceRadius
	}
	if p.PushStrength > 0 {
		cfg.Particles.PushStrength = p.PushStrength
	}
	if p.AttractStrength > 0 {
		cfg.Particles.AttractStrength = p.AttractStrength
	}
	if p.NoiseStrength > 0 {
		cfg.Particles.NoiseStrength = p.NoiseStrength
	}

	if p.FPSThreshold > 0 {
		cfg.Quality.FPSThreshold = p.FPSThreshold
	}
	if p.QualityFloor > 0 {
		cfg.Quality.Floor = p.QualityFloor
	}

	if p.WinkThreshold > 0 {
		cfg.Wink.Threshold = p.WinkThreshold
	}
	return cfg
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
