// Package camera holds webcam capture settings for local face detection.
// The capture itself lives in camera/webcam. Settings follow the same Config/DefaultConfig/preset pattern as the
// rest of the tunables.
package camera

// Config holds webcam capture settings.
type Config struct {
	Device    int  `json:"device" yaml:"device"`       // capture device index
	Width     int  `json:"width" yaml:"width"`         // frame width in pixels
	Height    int  `json:"height" yaml:"height"`       // frame height in pixels
	Framerate int  `json:"framerate" yaml:"framerate"` // requested FPS
	Quality   int  `json:"quality" yaml:"quality"`     // JPEG quality 1-100
	Mirror    bool `json:"mirror" yaml:"mirror"`       // flip horizontally, selfie view
}

// Limits accepted by Validate.
const (
	MaxWidth     = 3840
	MaxHeight    = 2160
	MaxFramerate = 120
)

// DefaultConfig returns the 640x480@30 selfie-view capture used by the
// face pipeline. Landmark models downscale anyway, so higher resolutions
// only cost decode time.
func DefaultConfig() Config {
	return Config{
		Device:    0,
		Width:     640,
		Height:    480,
		Framerate: 30,
		Quality:   85,
		Mirror:    true,
	}
}

// Aspect returns width over height, or 4:3 when unset.
func (c Config) Aspect() float64 {
	if c.Width <= 0 || c.Height <= 0 {
		return 4.0 / 3.0
	}
	return float64(c.Width) / float64(c.Height)
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device < 0 {
		errors = append(errors, "device must be non-negative")
	}
	if c.Width < 160 || c.Width > MaxWidth {
		errors = append(errors, "width must be between 160 and 3840")
	}
	if c.Height < 120 || c.Height > MaxHeight {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > MaxFramerate {
		errors = append(errors, "framerate must be between 1 and 120")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}
