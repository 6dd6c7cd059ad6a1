// Package detection defines face detection results and the Detector
// interface for the local vision source. Backends live in subpackages.
package detection

// Keypoint is a normalized facial landmark reported by the detector.
type Keypoint struct {
	X, Y float64
}

// Detection is one detected face. X and Y are the top-left corner; all
// values are normalized to the frame.
type Detection struct {
	X, Y       float64
	W, H       float64
	Confidence float64

	// Keypoints holds the right eye, left eye, nose tip, right and left
	// mouth corners when the backend provides them.
	Keypoints []Keypoint
}

// Center returns the center point of the detection
func (d Detection) Center() (x, y float64) {
	return d.X + d.W/2, d.Y + d.H/2
}

// Area returns the area of the bounding box
func (d Detection) Area() float64 {
	return d.W * d.H
}

// Detector is the interface for face detection backends
type Detector interface {
	// Detect finds faces in a JPEG frame
	Detect(jpeg []byte) ([]Detection, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	ModelPath        string  `json:"model_path" yaml:"model_path"`               // Path to ONNX model
	ConfidenceThresh float64 `json:"confidence_thresh" yaml:"confidence_thresh"` // Minimum confidence
	NMSThresh        float64 `json:"nms_thresh" yaml:"nms_thresh"`
	InputWidth       int     `json:"input_width" yaml:"input_width"`
	InputHeight      int     `json:"input_height" yaml:"input_height"`
}

// DefaultConfig returns defaults for the YuNet model
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.6,
		NMSThresh:        0.3,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// SelectBest picks the face to follow when several are in view.
// Priority: confidence * 0.7 + relative area * 0.3
func SelectBest(dets []Detection) *Detection {
	if len(dets) == 0 {
		return nil
	}
	if len(dets) == 1 {
		return &dets[0]
	}

	maxArea := 0.0
	for _, d := range dets {
		maxArea = max(maxArea, d.Area())
	}

	bestScore := -1.0
	var best *Detection
	for i := range dets {
		rel := 0.0
		if maxArea > 0 {
			rel = dets[i].Area() / maxArea
		}
		score := dets[i].Confidence*0.7 + rel*0.3
		if score > bestScore {
			bestScore = score
			best = &dets[i]
		}
	}
	return best
}
