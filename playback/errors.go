package playback

import "errors"

// Common errors returned by the playback engine setters
var (
	ErrInvalidSpeedMultiplier = errors.New("speed multiplier must be positive")
	ErrInvalidTickInterval    = errors.New("tick interval must be positive")
	ErrInvalidCameraDistance  = errors.New("camera distance must be non-negative")
	ErrInvalidCameraPitch     = errors.New("camera pitch must be between 0 and 90 degrees")
)
