// Package blanket implements the Markov-Blanket Computer (C6): for
// every configured exposure/outcome CUI, parents ∪ children ∪ spouses
// under the same evidence filter, unioned across all targets plus the
// cleaned exposure/outcome labels. Grounded on
// original_source/graph_creation/markov_blanket.py's
// compute_markov_blankets / _compute_outcome_markov_blanket /
// _compute_exposure_markov_blanket.
package blanket

import (
	"context"

	"github.com/rawblock/causalgraph-engine/internal/consolidate"
	"github.com/rawblock/causalgraph-engine/internal/normalize"
	"github.com/rawblock/causalgraph-engine/internal/store"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// EvidenceStore is the subset of C2 the Markov-blanket computation
// needs.
type EvidenceStore interface {
	FetchParents(ctx context.Context, target models.CUI, opts store.BlanketQueryOptions) ([]string, error)
	FetchChildren(ctx context.Context, target models.CUI, opts store.BlanketQueryOptions) (map[string]models.CUI, error)
	FetchSpouses(ctx context.Context, childrenCUIs []models.CUI, opts store.BlanketQueryOptions) ([]string, error)
}

// Compute runs C6 over every exposure and outcome CUI and returns the
// union of their Markov blankets plus the cleaned exposure/outcome
// labels. Both the blocklist and the semantic-type exclusion are
// applied for every target, per SPEC_FULL.md §8's resolution of the
// source's inconsistent application.
func Compute(ctx context.Context, cfg models.Configuration, es EvidenceStore, mapper *consolidate.Mapper) (*models.MarkovBlanket, error) {
	opts := store.BlanketQueryOptions{
		Predicates: cfg.Predicates,
		MinPMIDs:   cfg.Threshold,
		Blocklist:  cfg.BlocklistCUIs,
	}

	union := make(map[string]bool)

	targets := append(append([]models.CUI{}, cfg.OutcomeCUIs...), cfg.ExposureCUIs...)
	for _, t := range targets {
		nodes, err := computeForTarget(ctx, t, es, opts, mapper)
		if err != nil {
			return nil, err
		}
		for n := range nodes {
			union[n] = true
		}
	}

	union[normalize.Clean(cfg.ExposureLabel)] = true
	union[normalize.Clean(cfg.OutcomeLabel)] = true

	return &models.MarkovBlanket{Nodes: union}, nil
}

func computeForTarget(ctx context.Context, target models.CUI, es EvidenceStore, opts store.BlanketQueryOptions, mapper *consolidate.Mapper) (map[string]bool, error) {
	nodes := make(map[string]bool)

	parents, err := es.FetchParents(ctx, target, opts)
	if err != nil {
		return nil, err
	}
	for _, p := range parents {
		nodes[normalize.Clean(p)] = true
	}

	children, err := es.FetchChildren(ctx, target, opts)
	if err != nil {
		return nil, err
	}
	childCUIs := make([]models.CUI, 0, len(children))
	for name, cui := range children {
		nodes[normalize.Clean(name)] = true
		childCUIs = append(childCUIs, cui)
	}

	// Spouses: subjects of any (subject -> child) edge, excluding the
	// target's own canonical name — the P10 self-exclusion guard.
	targetName := mapper.NameForCUI(target)
	spouses, err := es.FetchSpouses(ctx, childCUIs, opts)
	if err != nil {
		return nil, err
	}
	for _, s := range spouses {
		cleaned := normalize.Clean(s)
		if cleaned == targetName {
			continue
		}
		nodes[cleaned] = true
	}

	return nodes, nil
}
