package emotion

import "errors"

// Sentinel errors for emotion lookups and configuration.
var (
	// ErrUnknownEmotion is returned when an emotion name is not recognized.
	ErrUnknownEmotion = errors.New("unknown emotion")

	// ErrInvalidConfig is returned when a classifier or state config is unusable.
	ErrInvalidConfig = errors.New("invalid emotion config")
)
