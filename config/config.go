package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/citymedic/ambucast/core/gbrt"
	"github.com/citymedic/ambucast/core/gen"
	"github.com/citymedic/ambucast/core/validate"
	"github.com/citymedic/ambucast/infra/tracking"
)

// Config aggregates the per-step configuration sections.
type Config struct {
	Data       DataConfig      `json:"data"`
	Generator  gen.Config      `json:"generator"`
	Validation validate.Config `json:"validation"`
	Features   FeaturesConfig  `json:"features"`
	Training   TrainingConfig  `json:"training"`
	Tracking   TrackingConfig  `json:"tracking"`
	API        APIConfig       `json:"api"`
}

// Load reads the configuration file (yaml or json by extension), applies
// K_-prefixed environment overrides and fills defaults. A missing file is not
// an error: every section has working defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if _, err := os.Stat(path); err == nil {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Data.SetDefaults()
	cfg.Generator.SetDefaults()
	cfg.Validation.SetDefaults()
	cfg.Features.SetDefaults()
	cfg.Training.SetDefaults()
	cfg.Tracking.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.Generator.Validate(); err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	if err := cfg.Features.Validate(); err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	if err := cfg.Training.Validate(); err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}
	return &cfg, nil
}

// DataConfig names the flat files exchanged between pipeline steps.
type DataConfig struct {
	RawPath      string `json:"raw_path"`
	FeaturesPath string `json:"features_path"`
	CellsPath    string `json:"cells_path"`
	ModelPath    string `json:"model_path"`
}

// SetDefaults applies the conventional data layout.
func (c *DataConfig) SetDefaults() {
	if c.RawPath == "" {
		c.RawPath = "data/raw/emergency_data.csv"
	}
	if c.FeaturesPath == "" {
		c.FeaturesPath = "data/features/features.csv"
	}
	if c.CellsPath == "" {
		c.CellsPath = "data/features/hexagon_mapping.csv"
	}
	if c.ModelPath == "" {
		c.ModelPath = "data/models/demand_model.json"
	}
}

// FeaturesConfig tunes the feature pipeline.
type FeaturesConfig struct {
	// Resolution is the H3 resolution of the demand grid.
	Resolution int `json:"resolution"`
}

// SetDefaults applies the city-level grid resolution.
func (c *FeaturesConfig) SetDefaults() {
	if c.Resolution == 0 {
		c.Resolution = 8
	}
}

// Validate checks the resolution range.
func (c FeaturesConfig) Validate() error {
	if c.Resolution < 0 || c.Resolution > 15 {
		return fmt.Errorf("resolution %d out of range 0..15", c.Resolution)
	}
	return nil
}

// TrainingConfig tunes the model-fitting step.
type TrainingConfig struct {
	Params       gbrt.Params `json:"params"`
	TestFraction float64     `json:"test_fraction"`
	SplitSeed    int64       `json:"split_seed"`
	Experiment   string      `json:"experiment"`
}

// SetDefaults applies the reference training setup.
func (c *TrainingConfig) SetDefaults() {
	c.Params.SetDefaults()
	if c.TestFraction == 0 {
		c.TestFraction = 0.2
	}
	if c.SplitSeed == 0 {
		c.SplitSeed = 42
	}
	if c.Experiment == "" {
		c.Experiment = "ambulance_demand_forecast"
	}
}

// Validate checks parameter ranges.
func (c TrainingConfig) Validate() error {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction must be in (0,1)")
	}
	return c.Params.Validate()
}

// TrackingConfig selects the experiment-tracking backends.
type TrackingConfig struct {
	SQLitePath string                `json:"sqlite_path"`
	Influx     tracking.InfluxConfig `json:"influx"`
}

// SetDefaults applies the local tracking database path.
func (c *TrackingConfig) SetDefaults() {
	if c.SQLitePath == "" {
		c.SQLitePath = "data/tracking/runs.db"
	}
}

// APIConfig tunes the prediction service.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies the listen address.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
}
