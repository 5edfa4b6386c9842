package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// PlaybackConfig contains playback engine settings
type PlaybackConfig struct {
	SpeedMultiplier float64 `yaml:"speedMultiplier" validate:"gt=0,lte=100"`
	TickIntervalMS  int     `yaml:"tickIntervalMS" validate:"gt=0"`
	KeepHeading     bool    `yaml:"keepHeading"`
	ApplyTransform  bool    `yaml:"applyTransform"`
}

// CameraConfig contains the fixed camera-follow constants
type CameraConfig struct {
	Distance float64 `yaml:"distance" validate:"gte=0"`
	Pitch    float64 `yaml:"pitch" validate:"gte=0,lte=90"`
}

// SerialConfig contains NMEA serial output configuration
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baudRate" validate:"gt=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Playback PlaybackConfig `yaml:"playback"`
	Camera   CameraConfig   `yaml:"camera"`
	Serial   SerialConfig   `yaml:"serial"`
}

// Default returns a configuration with sensible defaults
func Default() AppConfig {
	return AppConfig{
		Playback: PlaybackConfig{
			SpeedMultiplier: 1.0,
			TickIntervalMS:  100,
			KeepHeading:     false,
			ApplyTransform:  false,
		},
		Camera: CameraConfig{
			Distance: 500.0,
			Pitch:    45.0,
		},
		Serial: SerialConfig{
			BaudRate: 9600,
		},
	}
}

// Load reads a YAML settings file over the defaults and validates the
// result. Fields absent from the file keep their default values.
func Load(path string) (AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
