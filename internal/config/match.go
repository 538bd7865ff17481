package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MatchConfig is the YAML-loadable configuration for a map-matching run:
// HMM tuning, index/graph build options, and the optional Kalman pre-filter.
type MatchConfig struct {
	ObservationRadiusM float64  `yaml:"observation_radius_m"` // candidate-edge search radius (default 50)
	ObservationStdDevM float64  `yaml:"observation_std_dev_m"` // GPS noise sigma for emission probability (default 10)
	SnapThresholdM     float64  `yaml:"snap_threshold_m"`      // road-graph endpoint merge distance (default 5)
	MaxRouteLengthM    float64  `yaml:"max_route_length_m"`    // path-connector bridge length cap (default 50000)
	TopKPaths          int      `yaml:"top_k_paths"`           // Viterbi top-K extraction (default 1)
	Plugins            []string `yaml:"plugins"`               // transition plugins to enable, by name

	Kalman KalmanConfig `yaml:"kalman"`
}

// KalmanConfig holds the settings of the constant-velocity pre-filter in
// internal/kalman. No command in this module reads them, so a match run
// does not apply the pre-filter.
type KalmanConfig struct {
	Enabled          bool    `yaml:"enabled"`
	ProcessNoise     float64 `yaml:"process_noise"`     // default 0.1
	MeasurementNoise float64 `yaml:"measurement_noise"` // default 5.0
}

// DefaultMatchConfig returns a MatchConfig with the defaults documented in
// each field's yaml comment.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		ObservationRadiusM: 50,
		ObservationStdDevM: 10,
		SnapThresholdM:     5,
		MaxRouteLengthM:    50000,
		TopKPaths:          1,
		Plugins:            []string{"topological", "direction", "noUTurn"},
		Kalman: KalmanConfig{
			Enabled:          false,
			ProcessNoise:     0.1,
			MeasurementNoise: 5.0,
		},
	}
}

// LoadMatchConfig loads a MatchConfig from a YAML file, layering it over
// DefaultMatchConfig. If path doesn't exist, the defaults are returned
// unchanged, matching the teacher's LoadLoginServer fallback behaviour.
func LoadMatchConfig(path string) (MatchConfig, error) {
	cfg := DefaultMatchConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
