package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchConfig_Values(t *testing.T) {
	cfg := DefaultMatchConfig()
	if cfg.ObservationRadiusM != 50 {
		t.Errorf("ObservationRadiusM = %v, want 50", cfg.ObservationRadiusM)
	}
	if cfg.TopKPaths != 1 {
		t.Errorf("TopKPaths = %v, want 1", cfg.TopKPaths)
	}
	if cfg.Kalman.Enabled {
		t.Error("Kalman.Enabled = true, want false by default")
	}
}

func TestLoadMatchConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadMatchConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadMatchConfig() error = %v", err)
	}
	if cfg != DefaultMatchConfig() {
		t.Errorf("LoadMatchConfig() = %+v, want defaults", cfg)
	}
}

func TestLoadMatchConfig_OverridesLayerOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.yaml")
	yaml := "observation_radius_m: 75\nkalman:\n  enabled: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := LoadMatchConfig(path)
	if err != nil {
		t.Fatalf("LoadMatchConfig() error = %v", err)
	}
	if cfg.ObservationRadiusM != 75 {
		t.Errorf("ObservationRadiusM = %v, want 75", cfg.ObservationRadiusM)
	}
	if !cfg.Kalman.Enabled {
		t.Error("Kalman.Enabled = false, want true")
	}
	if cfg.SnapThresholdM != 5 {
		t.Errorf("SnapThresholdM = %v, want 5 (default preserved)", cfg.SnapThresholdM)
	}
}
