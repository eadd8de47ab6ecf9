package engine

import (
	"context"
	"log"

	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// SentenceFetcher is the subset of C2 the dossier builder needs.
type SentenceFetcher interface {
	FetchSentences(ctx context.Context, refs []models.SentenceRef) (map[string][]string, error)
}

// buildDossier assembles the evidence dossier: a compact record per
// retained assertion plus the per-pmid deduplicated sentence text it
// references (P8, P9).
func buildDossier(ctx context.Context, sf SentenceFetcher, assertions []models.Assertion) (models.Dossier, error) {
	var allRefs []models.SentenceRef
	seenRef := make(map[models.SentenceRef]bool)
	for _, a := range assertions {
		for _, r := range a.SentenceRefs {
			if !seenRef[r] {
				seenRef[r] = true
				allRefs = append(allRefs, r)
			}
		}
	}

	pmidSentences, err := sf.FetchSentences(ctx, allRefs)
	if err != nil {
		// PartialFetchWarning: the core logs and continues with an
		// empty sentence map rather than failing the run.
		log.Printf("[engine] partial fetch warning fetching sentences: %v", err)
		pmidSentences = map[string][]string{}
	}

	dossierAssertions := make([]models.DossierAssertion, 0, len(assertions))
	for _, a := range assertions {
		dossierAssertions = append(dossierAssertions, models.DossierAssertion{
			Subject:       a.SubjectName,
			SubjectCUI:    a.SubjectCUI,
			Predicate:     a.Predicate,
			Object:        a.ObjectName,
			ObjectCUI:     a.ObjectCUI,
			EvidenceCount: a.EvidenceCount,
			PMIDRefs:      a.PMIDs,
		})
	}

	return models.Dossier{
		PMIDSentences: pmidSentences,
		Assertions:    dossierAssertions,
	}, nil
}
