// Package config loads go-aura configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-aura/pkg/camera"
	"github.com/teslashibe/go-aura/pkg/engine"
	"github.com/teslashibe/go-aura/pkg/tracking/detection"
	"github.com/teslashibe/go-aura/pkg/web"
)

// Environment variables read by the helpers below.
const (
	EnvPort     = "AURA_PORT"
	EnvConfig   = "AURA_CONFIG"
	EnvLogLevel = "LOG_LEVEL"
)

// Config is the full server configuration. Every section starts from its
// package defaults; a YAML file only needs the fields it changes.
type Config struct {
	Server      web.Config        `yaml:"server"`
	Engine      engine.Config     `yaml:"engine"`
	Camera      LocalVisionConfig `yaml:"camera"`
	Calibration CalibrationConfig `yaml:"calibration"`
}

// LocalVisionConfig controls the optional in-process camera source.
type LocalVisionConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Interval time.Duration    `yaml:"interval"` // detector poll period
	Capture  camera.Config    `yaml:"capture"`
	Detector detection.Config `yaml:"detector"`
}

// CalibrationConfig controls blendshape recording.
type CalibrationConfig struct {
	Path string `yaml:"path"` // SQLite file, empty disables recording
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: web.DefaultConfig(),
		Engine: engine.DefaultConfig(),
		Camera: LocalVisionConfig{
			Interval: 100 * time.Millisecond,
			Capture:  camera.DefaultConfig(),
			Detector: detection.DefaultConfig(),
		},
	}
}

// Load reads the YAML file at path over Default. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return &ConfigError{Field: "server.port", Message: "port is required"}
	}
	if c.Server.FrameRate <= 0 || c.Server.FrameRate > c.Engine.TickRate {
		return &ConfigError{Field: "server.frame_rate", Message: fmt.Sprintf("frame_rate must be in (0, %d]", c.Engine.TickRate)}
	}
	if err := c.Engine.Validate(); err != nil {
		return &ConfigError{Field: "engine", Message: err.Error(), Err: err}
	}
	if c.Camera.Enabled {
		if c.Camera.Interval <= 0 {
			return &ConfigError{Field: "camera.interval", Message: "interval must be positive"}
		}
		if errs := c.Camera.Capture.Validate(); len(errs) > 0 {
			return &ConfigError{Field: "camera.capture", Message: errs[0]}
		}
		if c.Camera.Detector.ModelPath == "" {
			return &ConfigError{Field: "camera.detector.model_path", Message: "model_path is required when the camera is enabled"}
		}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Port returns the listen port from AURA_PORT.
// Falls back to the provided default if not set.
func Port(defaultPort string) string {
	if port := os.Getenv(EnvPort); port != "" {
		return port
	}
	return defaultPort
}

// ConfigPath returns the config file path from AURA_CONFIG, or "".
func ConfigPath() string {
	return os.Getenv(EnvConfig)
}

// LogLevel returns the log level from LOG_LEVEL, defaulting to "info".
func LogLevel() string {
	if level := os.Getenv(EnvLogLevel); level != "" {
		return level
	}
	return "info"
}
