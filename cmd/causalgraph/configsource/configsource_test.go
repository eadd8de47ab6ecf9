package configsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rawblock/causalgraph-engine/pkg/models"
)

const sampleYAML = `
configs:
  diabetes_cardiovascular:
    exposure_cuis: ["C0011860"]
    outcome_cuis: ["C0007222"]
    exposure_label: "Type2Diabetes"
    outcome_label: "CardiovascularDisease"
    predicates: ["CAUSES", "PREDISPOSES"]
    degree: 2
    threshold: 5
    thresholds_by_degree:
      1: 5
      2: 10
    compute_markov_blanket: true
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "causalgraph.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing sample config: %v", err)
	}
	return path
}

func TestLoadNamedConfigsParsesAndValidates(t *testing.T) {
	path := writeSample(t, sampleYAML)

	configs, err := LoadNamedConfigs(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, ok := configs["diabetes_cardiovascular"]
	if !ok {
		t.Fatal("expected diabetes_cardiovascular config to be present")
	}
	if cfg.Degree != 2 {
		t.Errorf("expected degree 2, got %d", cfg.Degree)
	}
	if cfg.ThresholdForHop(2) != 10 {
		t.Errorf("expected hop-2 threshold 10, got %d", cfg.ThresholdForHop(2))
	}
	if len(cfg.ExposureCUIs) != 1 || cfg.ExposureCUIs[0] != models.CUI("C0011860") {
		t.Errorf("unexpected exposure CUIs: %v", cfg.ExposureCUIs)
	}
}

func TestLoadNamedConfigsRejectsMissingFile(t *testing.T) {
	_, err := LoadNamedConfigs(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, ok := err.(*models.ConfigError); !ok {
		t.Fatalf("expected *models.ConfigError, got %T", err)
	}
}

func TestLoadNamedConfigsRejectsInvalidEntry(t *testing.T) {
	path := writeSample(t, `
configs:
  broken:
    exposure_cuis: ["C0011860"]
    outcome_cuis: ["C0007222"]
    predicates: []
    degree: 1
    threshold: 5
`)
	_, err := LoadNamedConfigs(path)
	if err == nil {
		t.Fatal("expected validation error for empty predicates")
	}
}

func TestApplyFlagOverridesOnlyTouchesSetFields(t *testing.T) {
	base := models.Configuration{Degree: 1, Threshold: 5, OutputDir: "out"}
	result := ApplyFlagOverrides(base, FlagOverrides{Degree: 3})

	if result.Degree != 3 {
		t.Errorf("expected degree override to apply, got %d", result.Degree)
	}
	if result.Threshold != 5 {
		t.Errorf("expected threshold to remain unset, got %d", result.Threshold)
	}
	if result.OutputDir != "out" {
		t.Errorf("expected output dir to remain unset, got %q", result.OutputDir)
	}
}
