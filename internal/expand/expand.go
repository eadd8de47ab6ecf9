// Package expand implements the k-Hop Expander (C4): the breadth-bounded
// traversal from hop 1 to hop k over the predicate-filtered relational
// graph, deferring to the Evidence Store Adapter for every database
// call. Grounded on fetch_k_hop_relationships() /
// fetch_n_hop_relationships() in
// original_source/graph_creation/database_operations.py, and
// structurally on fund_tracer.go's hop-bounded traversal loop.
package expand

import (
	"context"

	"github.com/rawblock/causalgraph-engine/internal/store"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// EvidenceStore is the subset of the C2 adapter the expander needs.
// Defined here, at the point of use, rather than in package store.
type EvidenceStore interface {
	ExistsEvidence(ctx context.Context, exposureCUIs, outcomeCUIs []models.CUI, predicates []models.Predicate, minPMIDs int) (bool, error)
	ExpandHop(ctx context.Context, hop int, opts store.ExpandHopOptions) ([]models.Assertion, error)
}

// Result is the output of one full expansion: every retained
// assertion across all hops, in hop-then-within-hop order, and the
// CUI set discovered at hop 1 — the frontier every later hop expands
// from.
type Result struct {
	Assertions  []models.Assertion
	FirstHopCUIs []models.CUI
}

// Run executes the Pre-flight Probe (C8) and, if evidence exists, the
// full hop loop (C4). evidenceFound is false iff the probe failed; in
// that case Result is the zero value and the caller MUST emit no
// artifacts beyond the reason record (P7).
func Run(ctx context.Context, cfg models.Configuration, es EvidenceStore) (Result, bool, error) {
	found, err := es.ExistsEvidence(ctx, cfg.ExposureCUIs, cfg.OutcomeCUIs, cfg.Predicates, cfg.ThresholdForHop(1))
	if err != nil {
		return Result{}, false, err
	}
	if !found {
		return Result{}, false, nil
	}

	var all []models.Assertion
	var firstHopCUIs []models.CUI

	for hop := 1; hop <= cfg.Degree; hop++ {
		if err := ctx.Err(); err != nil {
			return Result{}, false, err
		}

		var opts store.ExpandHopOptions
		if hop == 1 {
			opts = store.ExpandHopOptions{
				Frontier:     nil,
				ExposureCUIs: cfg.ExposureCUIs,
				OutcomeCUIs:  cfg.OutcomeCUIs,
				Predicates:   cfg.Predicates,
				MinPMIDs:     cfg.ThresholdForHop(hop),
				Blocklist:    cfg.BlocklistCUIs,
			}
		} else {
			// Frontier semantics as implemented: every hop after the
			// first expands from the hop-1 CUI set, never from the
			// immediately preceding hop's. This bounds breadth by
			// design; see DESIGN.md's "Open questions resolved" for
			// why it is preserved rather than "fixed".
			opts = store.ExpandHopOptions{
				Frontier:   firstHopCUIs,
				Predicates: cfg.Predicates,
				MinPMIDs:   cfg.ThresholdForHop(hop),
				Blocklist:  cfg.BlocklistCUIs,
			}
		}

		raw, err := es.ExpandHop(ctx, hop, opts)
		if err != nil {
			return Result{}, false, err
		}

		all = append(all, raw...)

		if hop == 1 {
			firstHopCUIs = collectFrontierCUIs(raw)
		}
	}

	return Result{Assertions: all, FirstHopCUIs: firstHopCUIs}, true, nil
}

func collectFrontierCUIs(assertions []models.Assertion) []models.CUI {
	seen := make(map[models.CUI]bool)
	var out []models.CUI
	for _, a := range assertions {
		if !seen[a.SubjectCUI] {
			seen[a.SubjectCUI] = true
			out = append(out, a.SubjectCUI)
		}
		if !seen[a.ObjectCUI] {
			seen[a.ObjectCUI] = true
			out = append(out, a.ObjectCUI)
		}
	}
	return out
}
