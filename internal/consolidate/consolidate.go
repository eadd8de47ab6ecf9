// Package consolidate implements the Consolidation Mapper (C3): it
// elects one canonical surface name per CUI and folds every exposure
// CUI's canonical name onto a single display label, and likewise for
// outcomes. Grounded on build_cui_to_name_mapping() and
// create_consolidated_node_mapping() in
// original_source/graph_creation/database_operations.py.
package consolidate

import (
	"fmt"
	"sort"

	"github.com/rawblock/causalgraph-engine/internal/normalize"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// Mapper resolves any surface name to its consolidated display label.
type Mapper struct {
	cuiToCanonical map[models.CUI]string
	nameToDisplay  map[string]string
	exposureSet    map[models.CUI]bool
	outcomeSet     map[models.CUI]bool
}

// Build counts each CUI's surface-name occurrences across the
// retained assertion set, elects the most frequent (ties broken
// lexicographically smallest by cleaned form), falls back to
// fallbackNames and finally to Exposure_{CUI}/Outcome_{CUI} for CUIs
// absent from the assertion set entirely (isolated exposure/outcome
// nodes), and builds the exposure/outcome label override.
func Build(assertions []models.Assertion, cfg models.Configuration, fallbackNames map[models.CUI]string) *Mapper {
	counts := make(map[models.CUI]map[string]int)

	record := func(cui models.CUI, name string) {
		if name == "" {
			return
		}
		if counts[cui] == nil {
			counts[cui] = make(map[string]int)
		}
		counts[cui][name]++
	}

	for _, a := range assertions {
		record(a.SubjectCUI, a.SubjectName)
		record(a.ObjectCUI, a.ObjectName)
	}

	m := &Mapper{
		cuiToCanonical: make(map[models.CUI]string),
		nameToDisplay:  make(map[string]string),
		exposureSet:    make(map[models.CUI]bool),
		outcomeSet:     make(map[models.CUI]bool),
	}

	allCUIs := make(map[models.CUI]bool)
	for cui := range counts {
		allCUIs[cui] = true
	}
	for _, cui := range cfg.ExposureCUIs {
		m.exposureSet[cui] = true
		allCUIs[cui] = true
	}
	for _, cui := range cfg.OutcomeCUIs {
		m.outcomeSet[cui] = true
		allCUIs[cui] = true
	}

	for cui := range allCUIs {
		if names, ok := counts[cui]; ok {
			m.cuiToCanonical[cui] = electName(names)
			continue
		}
		if name, ok := fallbackNames[cui]; ok && name != "" {
			m.cuiToCanonical[cui] = name
			continue
		}
		m.cuiToCanonical[cui] = fallbackLabel(cui, m.exposureSet[cui])
	}

	exposureLabel := normalize.Clean(cfg.ExposureLabel)
	outcomeLabel := normalize.Clean(cfg.OutcomeLabel)
	for _, cui := range cfg.ExposureCUIs {
		if name, ok := m.cuiToCanonical[cui]; ok {
			m.nameToDisplay[normalize.Clean(name)] = exposureLabel
		}
	}
	for _, cui := range cfg.OutcomeCUIs {
		if name, ok := m.cuiToCanonical[cui]; ok {
			m.nameToDisplay[normalize.Clean(name)] = outcomeLabel
		}
	}

	return m
}

// fallbackLabel produces the PartialFetchWarning fallback name for a
// CUI with no attested surface name anywhere: Exposure_{CUI} or
// Outcome_{CUI}.
func fallbackLabel(cui models.CUI, isExposure bool) string {
	if isExposure {
		return fmt.Sprintf("Exposure_%s", cui)
	}
	return fmt.Sprintf("Outcome_%s", cui)
}

func electName(counts map[string]int) string {
	best := ""
	bestCount := -1
	for name, count := range counts {
		cleaned := normalize.Clean(name)
		if count > bestCount {
			best, bestCount = name, count
			continue
		}
		if count == bestCount && cleaned < normalize.Clean(best) {
			best = name
		}
	}
	return best
}

// ConsolidatedName cleans rawName and applies the exposure/outcome
// display override; names outside those two sets map to themselves.
func (m *Mapper) ConsolidatedName(rawName string) string {
	cleaned := normalize.Clean(rawName)
	if display, ok := m.nameToDisplay[cleaned]; ok {
		return display
	}
	return cleaned
}

// NameForCUI resolves a CUI's elected canonical name (pre-consolidation,
// post-cleaning) — used by the Markov-Blanket Computer for spouse
// self-exclusion (P10).
func (m *Mapper) NameForCUI(cui models.CUI) string {
	return normalize.Clean(m.cuiToCanonical[cui])
}

// ExposureNodeSet is the set of consolidated labels derived from
// configured exposure CUIs that appear in the elected canonical-name
// map.
func (m *Mapper) ExposureNodeSet() []string {
	return m.consolidatedSetFor(m.exposureSet)
}

// OutcomeNodeSet is the analogous set for outcome CUIs.
func (m *Mapper) OutcomeNodeSet() []string {
	return m.consolidatedSetFor(m.outcomeSet)
}

func (m *Mapper) consolidatedSetFor(cuis map[models.CUI]bool) []string {
	seen := make(map[string]bool)
	var out []string
	for cui := range cuis {
		name, ok := m.cuiToCanonical[cui]
		if !ok {
			continue
		}
		label := m.ConsolidatedName(name)
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}
