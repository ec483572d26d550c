package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Heading stabilizer
	SmoothingAlpha   = 0.15 // EMA smoothing factor (15% new, 85% old)
	EmitThresholdDeg = 0.5  // Minimum visible heading change in degrees

	// Display
	TargetFPS    = 30   // Target frames per second
	NeedleEasing = 0.25 // Per-frame fraction of remaining rotation applied

	// Sensors
	SampleInterval = 50 * time.Millisecond // IIO poll cadence (20 Hz)
	HistorySize    = 120                   // Emitted headings kept for the trend strip

	// BLE source
	BLEScanTimeout = 15 * time.Second

	// App
	AppName    = "COMPASS"
	AppVersion = "1.0"
)

// Variant selects which extractor a session uses. Chosen once at session
// start; never switched mid-session.
type Variant string

const (
	VariantMatrix     Variant = "matrix"  // fused rotation-matrix samples
	VariantDualVector Variant = "vectors" // separate gravity + magnetic samples
)

// File is the optional on-disk configuration, merged under CLI flags.
type File struct {
	Source    string  `yaml:"source"`    // auto, iio, ble
	Variant   string  `yaml:"variant"`   // matrix, vectors
	Device    string  `yaml:"device"`    // IIO device or BLE peripheral name
	Alpha     float64 `yaml:"alpha"`     // smoothing factor (0, 1]
	Threshold float64 `yaml:"threshold"` // emit threshold in degrees
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "compass", "config.yaml")
}

// Load reads a config file. A missing file is not an error; it simply yields
// the zero File so flag and constant defaults apply.
func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("read config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	return f, nil
}

func (f File) validate() error {
	if f.Alpha < 0 || f.Alpha > 1 {
		return fmt.Errorf("alpha %v outside (0, 1]", f.Alpha)
	}
	if f.Threshold < 0 {
		return fmt.Errorf("threshold %v is negative", f.Threshold)
	}
	switch f.Variant {
	case "", string(VariantMatrix), string(VariantDualVector):
	default:
		return fmt.Errorf("unknown variant %q", f.Variant)
	}
	switch f.Source {
	case "", "auto", "iio", "ble":
	default:
		return fmt.Errorf("unknown source %q", f.Source)
	}
	return nil
}
