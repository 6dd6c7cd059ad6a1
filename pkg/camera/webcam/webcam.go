// Package webcam reads frames from a local camera through OpenCV.
package webcam

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-aura/pkg/camera"
)

// ErrNoFrame is returned when the device yields an empty frame.
var ErrNoFrame = errors.New("camera returned no frame")

// Capture reads frames from a local webcam.
type Capture struct {
	cfg camera.Config
	vc  *gocv.VideoCapture
	img gocv.Mat
	mu  sync.Mutex
}

// Open starts capturing from cfg.Device.
func Open(cfg camera.Config) (*Capture, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid camera config: %v", errs)
	}
	vc, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.Device, err)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	return &Capture{
		cfg: cfg,
		vc:  vc,
		img: gocv.NewMat(),
	}, nil
}

// Config returns the capture settings.
func (c *Capture) Config() camera.Config {
	return c.cfg
}

// CaptureJPEG grabs one frame and encodes it as JPEG.
func (c *Capture) CaptureJPEG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.vc.Read(&c.img); !ok || c.img.Empty() {
		return nil, ErrNoFrame
	}
	if c.cfg.Mirror {
		gocv.Flip(c.img, &c.img, 1)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, c.img, []int{gocv.IMWriteJpegQuality, c.cfg.Quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases C memory that Close frees
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// Close releases the device.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.img.Close()
	return c.vc.Close()
}
