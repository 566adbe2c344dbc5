// Package calibration estimates item difficulty and discrimination from
// observed responses and produces heuristic parameters for new items.
package calibration

import "time"

const (
	// DefaultMinCalibrationSample is the fewest responses an item needs
	// before its parameters are re-estimated.
	DefaultMinCalibrationSample = 30

	// DefaultRecalibrationIntervalDays is how long calibrated parameters
	// stay fresh.
	DefaultRecalibrationIntervalDays = 7

	// discriminationScale converts the point-biserial correlation into a
	// 3PL slope, on top of D.
	discriminationScale = 1.5

	// minAbilityVariance below which responders are too homogeneous to
	// estimate discrimination.
	minAbilityVariance = 0.1

	defaultDiscrimination = 1.0
)

// Config controls when and how items are calibrated.
type Config struct {
	MinCalibrationSample      int `yaml:"min_calibration_sample"`
	RecalibrationIntervalDays int `yaml:"recalibration_interval_days"`
}

// DefaultConfig returns the default calibration settings.
func DefaultConfig() Config {
	return Config{
		MinCalibrationSample:      DefaultMinCalibrationSample,
		RecalibrationIntervalDays: DefaultRecalibrationIntervalDays,
	}
}

// RecalibrationInterval returns the freshness window as a duration.
func (c Config) RecalibrationInterval() time.Duration {
	return time.Duration(c.RecalibrationIntervalDays) * 24 * time.Hour
}
