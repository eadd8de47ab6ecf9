// Package engine orchestrates one end-to-end run: Pre-flight (C8) →
// hop loop (C4, using C1/C2) → consolidation (C3) → graph build (C5)
// → optional Markov blanket (C6) → emit (C7). Grounded on
// original_source/graph_creation/pushkin.py's run_analysis(), adapted
// from a module-level script into a single typed entry point per
// SPEC_FULL.md §3 (no package-level mutable registries).
package engine

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rawblock/causalgraph-engine/internal/blanket"
	"github.com/rawblock/causalgraph-engine/internal/consolidate"
	"github.com/rawblock/causalgraph-engine/internal/emit"
	"github.com/rawblock/causalgraph-engine/internal/expand"
	"github.com/rawblock/causalgraph-engine/internal/graph"
	"github.com/rawblock/causalgraph-engine/internal/store"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// EvidenceStore is the full C2 surface the engine needs across its
// stages.
type EvidenceStore interface {
	expand.EvidenceStore
	blanket.EvidenceStore
	SentenceFetcher
	FetchCanonicalNames(ctx context.Context, cuis []models.CUI) (map[models.CUI]string, error)
}

var _ EvidenceStore = (*store.PostgresStore)(nil)

// ProgressFunc is called once per completed stage with its name and
// elapsed seconds; the optional HTTP/WS progress server in
// internal/api wires this to broadcast live updates for long hops
// (SPEC_FULL.md §5 supplement).
type ProgressFunc func(stage string, elapsedSeconds float64)

// Run executes one full pipeline invocation. It returns a
// models.Outcome whose EvidenceFound is false iff the Pre-flight
// Probe found no evidence — that is a controlled result, not an
// error (P7).
func Run(ctx context.Context, cfg models.Configuration, es EvidenceStore, onProgress ProgressFunc) (models.Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return models.Outcome{}, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return models.Outcome{}, err
	}

	timer := NewTimer()
	report := func(stage string) func() {
		stop := timer.Stage(stage)
		return func() {
			stop()
			if onProgress != nil {
				onProgress(stage, timer.Durations()[stage])
			}
			log.Printf("[engine] stage %q completed in %.3fs", stage, timer.Durations()[stage])
		}
	}

	doneExpand := report("expand")
	result, found, err := expand.Run(ctx, cfg, es)
	doneExpand()
	if err != nil {
		return models.Outcome{}, err
	}
	if !found {
		log.Printf("[engine] evidence absent for exposure=%v outcome=%v", cfg.ExposureCUIs, cfg.OutcomeCUIs)
		if err := emit.WriteEvidenceAbsentReason(cfg.OutputDir); err != nil {
			return models.Outcome{}, err
		}
		return models.Outcome{EvidenceFound: false, Durations: timer.Durations()}, nil
	}

	doneFallback := report("fallback_names")
	fallbackNames, err := fetchFallbackNames(ctx, es, cfg, result.Assertions)
	doneFallback()
	if err != nil {
		log.Printf("[engine] partial fetch warning resolving isolated CUI names: %v", err)
		fallbackNames = map[models.CUI]string{}
	}

	doneConsolidate := report("consolidate")
	mapper := consolidate.Build(result.Assertions, cfg, fallbackNames)
	doneConsolidate()

	doneGraph := report("graph")
	g := graph.Build(result.Assertions, mapper)
	doneGraph()

	doneDossier := report("dossier")
	dossier, err := buildDossier(ctx, es, result.Assertions)
	doneDossier()
	if err != nil {
		return models.Outcome{}, err
	}

	var mb *models.MarkovBlanket
	if cfg.ComputeMarkovBlanket {
		doneMB := report("markov_blanket")
		mb, err = blanket.Compute(ctx, cfg, es, mapper)
		doneMB()
		if err != nil {
			return models.Outcome{}, err
		}
	}

	snapshotID := uuid.NewString()

	doneEmit := report("emit")
	if err := emit.WriteDAG(cfg.OutputDir, cfg.Degree, g); err != nil {
		return models.Outcome{}, err
	}
	if err := emit.WriteDossier(cfg.OutputDir, cfg.Degree, dossier); err != nil {
		return models.Outcome{}, err
	}
	if mb != nil {
		if err := emit.WriteMarkovBlanketDAG(cfg.OutputDir, g, mb); err != nil {
			return models.Outcome{}, err
		}
	}
	doneEmit()

	if err := emit.WritePerformanceMetrics(cfg.OutputDir, timer.Durations()); err != nil {
		return models.Outcome{}, err
	}
	if err := emit.WriteRunConfiguration(cfg.OutputDir, snapshotID, time.Now(), cfg); err != nil {
		return models.Outcome{}, err
	}

	return models.Outcome{
		EvidenceFound: true,
		Graph:         g,
		Dossier:       dossier,
		MarkovBlanket: mb,
		SnapshotID:    snapshotID,
		Durations:     timer.Durations(),
	}, nil
}

// fetchFallbackNames recovers a display name for every configured
// exposure/outcome CUI that never appears as subject or object of a
// retained assertion.
func fetchFallbackNames(ctx context.Context, es EvidenceStore, cfg models.Configuration, assertions []models.Assertion) (map[models.CUI]string, error) {
	seen := make(map[models.CUI]bool)
	for _, a := range assertions {
		seen[a.SubjectCUI] = true
		seen[a.ObjectCUI] = true
	}

	var missing []models.CUI
	for _, cui := range cfg.ExposureCUIs {
		if !seen[cui] {
			missing = append(missing, cui)
		}
	}
	for _, cui := range cfg.OutcomeCUIs {
		if !seen[cui] {
			missing = append(missing, cui)
		}
	}
	if len(missing) == 0 {
		return map[models.CUI]string{}, nil
	}
	return es.FetchCanonicalNames(ctx, missing)
}
