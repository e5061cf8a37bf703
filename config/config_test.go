package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citymedic/ambucast/core/model"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, "data/raw/emergency_data.csv", cfg.Data.RawPath)
	require.Equal(t, "data/models/demand_model.json", cfg.Data.ModelPath)
	require.Equal(t, 8, cfg.Features.Resolution)
	require.Equal(t, 100, cfg.Training.Params.NEstimators)
	require.Equal(t, 0.2, cfg.Training.TestFraction)
	require.Equal(t, int64(42), cfg.Training.SplitSeed)
	require.Equal(t, "ambulance_demand_forecast", cfg.Training.Experiment)
	require.Equal(t, "data/tracking/runs.db", cfg.Tracking.SQLitePath)
	require.Equal(t, ":8000", cfg.API.Addr)
	require.Equal(t, 50, cfg.Generator.FleetSize)
	require.Equal(t, model.Bangalore, cfg.Validation.Bounds)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data:
  raw_path: /tmp/raw.csv
generator:
  fleet_size: 10
  days: 3
features:
  resolution: 7
training:
  params:
    n_estimators: 25
    max_depth: 4
  test_fraction: 0.3
api:
  addr: ":9000"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/raw.csv", cfg.Data.RawPath)
	require.Equal(t, 10, cfg.Generator.FleetSize)
	require.Equal(t, 3, cfg.Generator.Days)
	require.Equal(t, 7, cfg.Features.Resolution)
	require.Equal(t, 25, cfg.Training.Params.NEstimators)
	require.Equal(t, 4, cfg.Training.Params.MaxDepth)
	require.Equal(t, 0.3, cfg.Training.TestFraction)
	require.Equal(t, ":9000", cfg.API.Addr)

	// Unset fields still get defaults.
	require.Equal(t, "data/features/features.csv", cfg.Data.FeaturesPath)
	require.Equal(t, 0.1, cfg.Training.Params.LearningRate)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"api": {"addr": ":7777"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7777", cfg.API.Addr)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "addr = ':1'")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("K_API__ADDR", ":4242")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, ":4242", cfg.API.Addr)
}

func TestLoadInvalidTraining(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
training:
  test_fraction: 1.5
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "training")
}

func TestLoadInvalidResolution(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
features:
  resolution: 20
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "features")
}
