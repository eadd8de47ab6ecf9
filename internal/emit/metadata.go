package emit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// WritePerformanceMetrics writes per-stage durations in seconds, keyed
// by stage name, grounded on pushkin.py's TimingContext-fed
// performance_metrics.json. No timestamps are written.
func WritePerformanceMetrics(outputDir string, durations map[string]float64) error {
	payload, err := json.MarshalIndent(durations, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "performance_metrics.json"), payload, 0o644)
}

// runConfiguration is the SPEC_FULL.md §6 supplement: the resolved
// Configuration plus run identity, grounded on pushkin.py's
// save_results_and_metadata run_configuration.json.
type runConfiguration struct {
	SnapshotID         string         `json:"snapshot_id"`
	ResolvedAt         string         `json:"resolved_at"`
	ExposureCUIs       []models.CUI   `json:"exposure_cuis"`
	OutcomeCUIs        []models.CUI   `json:"outcome_cuis"`
	ExposureLabel      string         `json:"exposure_label"`
	OutcomeLabel       string         `json:"outcome_label"`
	Predicates         []models.Predicate `json:"predicates"`
	Degree             int            `json:"degree"`
	Threshold          int            `json:"threshold"`
	ThresholdsByDegree map[int]int    `json:"thresholds_by_degree,omitempty"`
	BlocklistCUIs      []models.CUI   `json:"blocklist_cuis,omitempty"`
	ComputeMarkovBlanket bool         `json:"compute_markov_blanket"`
}

// WriteRunConfiguration persists the resolved configuration that
// produced this run's artifacts, never including connection secrets.
func WriteRunConfiguration(outputDir, snapshotID string, resolvedAt time.Time, cfg models.Configuration) error {
	rc := runConfiguration{
		SnapshotID:           snapshotID,
		ResolvedAt:           resolvedAt.UTC().Format(time.RFC3339),
		ExposureCUIs:         cfg.ExposureCUIs,
		OutcomeCUIs:          cfg.OutcomeCUIs,
		ExposureLabel:        cfg.ExposureLabel,
		OutcomeLabel:         cfg.OutcomeLabel,
		Predicates:           cfg.Predicates,
		Degree:               cfg.Degree,
		Threshold:            cfg.Threshold,
		ThresholdsByDegree:   cfg.ThresholdsByDegree,
		BlocklistCUIs:        cfg.BlocklistCUIs,
		ComputeMarkovBlanket: cfg.ComputeMarkovBlanket,
	}
	payload, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "run_configuration.json"), payload, 0o644)
}

// reasonRecord is the short machine-readable record written in place
// of artifacts when the Pre-flight Probe finds no evidence (P7).
type reasonRecord struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason"`
}

// WriteEvidenceAbsentReason writes the explanatory record required
// when no artifacts are otherwise emitted.
func WriteEvidenceAbsentReason(outputDir string) error {
	payload, err := json.MarshalIndent(reasonRecord{
		Outcome: "EvidenceAbsent",
		Reason:  "pre-flight probe found no (exposure, outcome, predicate) triple meeting the configured threshold",
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "run_outcome.json"), payload, 0o644)
}
