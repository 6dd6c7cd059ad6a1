package vision

import (
	"context"
	"log/slog"
	"time"

	"github.com/teslashibe/go-aura/pkg/debug"
	"github.com/teslashibe/go-aura/pkg/gesture"
	"github.com/teslashibe/go-aura/pkg/tracking/detection"
)

// FrameSource provides JPEG frames. *webcam.Capture satisfies it.
type FrameSource interface {
	CaptureJPEG() ([]byte, error)
}

// LocalSource runs a face detector against a local camera and publishes
// presence/position readings. It carries no blendshapes, so emotion
// stays neutral while particles still follow the face.
type LocalSource struct {
	frames   FrameSource
	detector detection.Detector
	mailbox  *Mailbox
	interval time.Duration
	logger   *slog.Logger

	misses int
}

// NewLocalSource polls frames every interval.
func NewLocalSource(frames FrameSource, detector detection.Detector, mailbox *Mailbox, interval time.Duration, logger *slog.Logger) *LocalSource {
	return &LocalSource{
		frames:   frames,
		detector: detector,
		mailbox:  mailbox,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is done.
func (s *LocalSource) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.detectOnce()
		}
	}
}

// ConsecutiveMisses returns how many polls in a row found no face.
func (s *LocalSource) ConsecutiveMisses() int {
	return s.misses
}

func (s *LocalSource) detectOnce() {
	frame, err := s.frames.CaptureJPEG()
	if err != nil {
		debug.TrackLog("📷 capture failed: %v\n", err)
		return
	}

	dets, err := s.detector.Detect(frame)
	if err != nil {
		s.logger.Warn("face detection failed", "error", err)
		s.misses++
		s.mailbox.PublishFace(&Face{Detected: false})
		return
	}

	best := detection.SelectBest(dets)
	if best == nil {
		s.misses++
		s.mailbox.PublishFace(&Face{Detected: false})
		return
	}

	s.misses = 0
	face := &Face{
		Detected: true,
		Box: &Box{
			X:          best.X,
			Y:          best.Y,
			W:          best.W,
			H:          best.H,
			Confidence: best.Confidence,
		},
	}
	for _, k := range best.Keypoints {
		face.Landmarks = append(face.Landmarks, gesture.Point{X: k.X, Y: k.Y})
	}
	s.mailbox.PublishFace(face)
}
