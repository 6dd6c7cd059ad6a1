package engine

import (
	"time"

	"github.com/teslashibe/go-aura/pkg/emotion"
	"github.com/teslashibe/go-aura/pkg/gesture"
)

// FrameInfo summarizes one tick.
type FrameInfo struct {
	Tick      uint64
	Delta     time.Duration // clamped dt used for simulation
	Spawned   int
	Fireworks int
	Active    int
	Emotion   emotion.Result
	Hands     [2]gesture.Result
}

// HandStatus is the gesture state of one hand.
type HandStatus struct {
	Hand gesture.Hand `json:"hand"`
	gesture.Result
}

// Status is an immutable snapshot of engine state for the HTTP and
// WebSocket status surfaces.
type Status struct {
	SessionID    string          `json:"session_id"`
	Tick         uint64          `json:"tick"`
	FaceDetected bool            `json:"face_detected"`
	Emotion      emotion.Result  `json:"emotion"`
	Hands        []HandStatus    `json:"hands"`
	Profile      emotion.Profile `json:"profile"`
	Particles    int             `json:"particles"`
	Ceiling      int             `json:"ceiling"`
	Capacity     int             `json:"capacity"`
	FPS          float64         `json:"fps"`
	Scaled       bool            `json:"scaled"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Classification is one face reading as classified by the tick loop.
type Classification struct {
	At          time.Time
	Blendshapes emotion.Blendshapes
	Raw         emotion.Scores
	Result      emotion.Result
}

// ClassificationObserver receives every classification. It runs on the
// tick goroutine and must not block.
type ClassificationObserver interface {
	ObserveClassification(c Classification)
}

// ClassificationFunc adapts a function to ClassificationObserver.
type ClassificationFunc func(Classification)

// ObserveClassification calls f(c).
func (f ClassificationFunc) ObserveClassification(c Classification) { f(c) }

// FrameSink receives encoded particle frames from Run. Both methods are
// called on the tick goroutine and must not block.
type FrameSink interface {
	// WantsFrame reports whether a frame should be encoded this tick.
	WantsFrame() bool
	// PublishFrame takes ownership of an encoded frame.
	PublishFrame(frame []byte)
}

// StatusSink receives status snapshots from Run.
type StatusSink interface {
	PublishStatus(s *Status)
}
