package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30, cfg.Calibration.MinCalibrationSample)
	assert.Equal(t, 500, cfg.History.ResponseWindow)
	assert.Equal(t, 5, cfg.Report.NextItems)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
calibration:
  min_calibration_sample: 50
  recalibration_interval_days: 14
  workers: 2
report:
  next_items: 8
`))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Calibration.MinCalibrationSample)
	assert.Equal(t, 14, cfg.Calibration.RecalibrationIntervalDays)
	assert.Equal(t, 2, cfg.Calibration.Workers)
	assert.Equal(t, 8, cfg.Report.NextItems)
	assert.Equal(t, 500, cfg.History.ResponseWindow, "unset values keep defaults")
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("calibration:\n  min_sample: 3\n"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("calibration:\n  workers: 0\nlog:\n  mode: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "log.mode")
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mathprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  response_window: 200\n"), 0o644))

	t.Setenv("MATHPROBE_NEXT_ITEMS", "3")
	t.Setenv("MATHPROBE_LOG_MODE", "prod")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.History.ResponseWindow)
	assert.Equal(t, 3, cfg.Report.NextItems)
	assert.Equal(t, "prod", cfg.Log.Mode)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("MATHPROBE_CALIBRATION_WORKERS", "many")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
