// Package yunet detects faces with OpenCV's YuNet model.
package yunet

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-aura/pkg/debug"
	"github.com/teslashibe/go-aura/pkg/tracking/detection"
)

// ErrEmptyImage is returned when a frame decodes to nothing.
var ErrEmptyImage = errors.New("empty image")

// YuNet output row layout: box (4), five keypoints (10), score (1).
const (
	yunetKeypointCol = 4
	yunetKeypoints   = 5
	yunetScoreCol    = 14
)

// Detector wraps OpenCV's FaceDetectorYN. Detect is serialized; the
// underlying network is not safe for concurrent inference.
type Detector struct {
	detector gocv.FaceDetectorYN
	config   detection.Config
	mu       sync.Mutex
}

// New loads the YuNet ONNX model.
func New(cfg detection.Config) (*Detector, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("yunet model %s: %w", cfg.ModelPath, err)
	}

	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",
		image.Pt(cfg.InputWidth, cfg.InputHeight),
		float32(cfg.ConfidenceThresh),
		float32(cfg.NMSThresh),
		5000,
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &Detector{
		detector: detector,
		config:   cfg,
	}, nil
}

// Detect finds faces in a JPEG frame.
func (d *Detector) Detect(jpeg []byte) ([]detection.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, ErrEmptyImage
	}

	w := float64(img.Cols())
	h := float64(img.Rows())
	d.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()
	d.detector.Detect(img, &faces)

	dets := make([]detection.Detection, 0, faces.Rows())
	for r := 0; r < faces.Rows(); r++ {
		det := detection.Detection{
			X:          float64(faces.GetFloatAt(r, 0)) / w,
			Y:          float64(faces.GetFloatAt(r, 1)) / h,
			W:          float64(faces.GetFloatAt(r, 2)) / w,
			H:          float64(faces.GetFloatAt(r, 3)) / h,
			Confidence: float64(faces.GetFloatAt(r, yunetScoreCol)),
			Keypoints:  make([]detection.Keypoint, yunetKeypoints),
		}
		for k := 0; k < yunetKeypoints; k++ {
			col := yunetKeypointCol + k*2
			det.Keypoints[k] = detection.Keypoint{
				X: float64(faces.GetFloatAt(r, col)) / w,
				Y: float64(faces.GetFloatAt(r, col+1)) / h,
			}
		}
		dets = append(dets, det)
	}

	if len(dets) > 0 {
		debug.TrackLog("👁️  YuNet found %d face(s)\n", len(dets))
	}
	return dets, nil
}

// Close releases the detector resources
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}

var _ detection.Detector = (*Detector)(nil)
