// Package config loads mathprobe settings from a YAML file with
// MATHPROBE_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathprobe/internal/calibration"
	"github.com/abhisek/mathprobe/internal/report"
)

// Config holds all mathprobe settings.
type Config struct {
	Calibration CalibrationConfig `yaml:"calibration"`
	History     HistoryConfig     `yaml:"history"`
	Report      ReportConfig      `yaml:"report"`
	Log         LogConfig         `yaml:"log"`
	LLM         LLMConfig         `yaml:"llm"`
}

// CalibrationConfig controls the batch recalibration job.
type CalibrationConfig struct {
	calibration.Config `yaml:",inline"`

	// Workers bounds how many items are calibrated concurrently.
	Workers int `yaml:"workers"`
}

// HistoryConfig bounds how much of a learner's log is analysed.
type HistoryConfig struct {
	// ResponseWindow is the number of newest responses loaded per learner.
	ResponseWindow int `yaml:"response_window"`
}

// ReportConfig controls diagnostic reports.
type ReportConfig struct {
	NextItems int `yaml:"next_items"`
}

// LogConfig selects log output.
type LogConfig struct {
	Mode  string `yaml:"mode"` // "dev" or "prod"
	Level string `yaml:"level"`
}

// LLMConfig holds settings for report narration that are not secrets.
// Provider credentials come from the environment only.
type LLMConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Calibration: CalibrationConfig{
			Config:  calibration.DefaultConfig(),
			Workers: 4,
		},
		History: HistoryConfig{ResponseWindow: 500},
		Report:  ReportConfig{NextItems: report.DefaultNextItems},
		Log:     LogConfig{Mode: "dev", Level: "warn"},
		LLM:     LLMConfig{RequestsPerMinute: 20},
	}
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides and validates the result. A missing file is an
// error only when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without consulting the environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(bytes.NewReader(data), &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) error {
	ints := []struct {
		env string
		dst *int
	}{
		{"MATHPROBE_MIN_CALIBRATION_SAMPLE", &cfg.Calibration.MinCalibrationSample},
		{"MATHPROBE_RECALIBRATION_INTERVAL_DAYS", &cfg.Calibration.RecalibrationIntervalDays},
		{"MATHPROBE_CALIBRATION_WORKERS", &cfg.Calibration.Workers},
		{"MATHPROBE_RESPONSE_WINDOW", &cfg.History.ResponseWindow},
		{"MATHPROBE_NEXT_ITEMS", &cfg.Report.NextItems},
		{"MATHPROBE_LLM_REQUESTS_PER_MINUTE", &cfg.LLM.RequestsPerMinute},
	}
	for _, e := range ints {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
		*e.dst = n
	}

	if m := os.Getenv("MATHPROBE_LOG_MODE"); m != "" {
		cfg.Log.Mode = m
	}
	if l := os.Getenv("MATHPROBE_LOG_LEVEL"); l != "" {
		cfg.Log.Level = l
	}
	return nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Calibration.MinCalibrationSample < 1 {
		errs = append(errs, fmt.Errorf("calibration.min_calibration_sample must be >= 1, got %d", c.Calibration.MinCalibrationSample))
	}
	if c.Calibration.RecalibrationIntervalDays < 0 {
		errs = append(errs, fmt.Errorf("calibration.recalibration_interval_days must be >= 0, got %d", c.Calibration.RecalibrationIntervalDays))
	}
	if c.Calibration.Workers < 1 {
		errs = append(errs, fmt.Errorf("calibration.workers must be >= 1, got %d", c.Calibration.Workers))
	}
	if c.History.ResponseWindow < 1 {
		errs = append(errs, fmt.Errorf("history.response_window must be >= 1, got %d", c.History.ResponseWindow))
	}
	if c.Report.NextItems < 1 {
		errs = append(errs, fmt.Errorf("report.next_items must be >= 1, got %d", c.Report.NextItems))
	}
	if c.LLM.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("llm.requests_per_minute must be >= 0, got %d", c.LLM.RequestsPerMinute))
	}
	switch c.Log.Mode {
	case "dev", "prod", "production":
	default:
		errs = append(errs, fmt.Errorf("log.mode must be dev or prod, got %q", c.Log.Mode))
	}
	return errors.Join(errs...)
}
