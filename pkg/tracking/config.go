// Package tracking follows the face across readings and maps image
// coordinates into scene space for spawning and force fields.
package tracking

// Config holds face-anchor smoothing and coordinate mapping.
type Config struct {
	// Shape smoothing: EMA alpha applied to each contour point (0-1,
	// higher = more weight on the new reading)
	ContourSmoothing float64 `json:"contour_smoothing" yaml:"contour_smoothing"`

	// Position smoothing: damped spring on the contour center
	SpringFrequency float64 `json:"spring_frequency" yaml:"spring_frequency"` // angular frequency
	SpringDamping   float64 `json:"spring_damping" yaml:"spring_damping"`     // 1 = critically damped
	TickRate        int     `json:"tick_rate" yaml:"tick_rate"`               // spring step when the reading interval is unknown, Hz

	// Coordinate mapping
	MirrorX bool    `json:"mirror_x" yaml:"mirror_x"` // selfie view
	CoverX  float64 `json:"cover_x" yaml:"cover_x"`   // object-fit cover crop correction
	CoverY  float64 `json:"cover_y" yaml:"cover_y"`
}

// DefaultConfig returns the recommended configuration.
func DefaultConfig() Config {
	return Config{
		ContourSmoothing: 0.3,
		SpringFrequency:  9.0,
		SpringDamping:    1.0,
		TickRate:         60,
		MirrorX:          true,
		CoverX:           1.0,
		CoverY:           1.0,
	}
}

// ToScene maps a normalized image point (x,y in [0,1], y down) into the
// orthographic scene: x in [-aspect, aspect], y in [-1, 1], y up.
func (c Config) ToScene(x, y, aspect float64) (float64, float64) {
	sx := (x*2 - 1) * aspect * c.CoverX
	if c.MirrorX {
		sx = -sx
	}
	sy := -(y*2 - 1) * c.CoverY
	return sx, sy
}
