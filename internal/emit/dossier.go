// Package emit implements the Artifact Emitter (C7): the DAG artifact
// and the evidence dossier, plus the run_configuration.json /
// performance_metrics.json supplements (SPEC_FULL.md §6). Grounded on
// original_source/graph_creation/pushkin.py's generate_dagitty_scripts
// and save_results_and_metadata.
package emit

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// WriteDossier serializes the evidence dossier with the custom
// pretty-printer: pmid_refs arrays are always single-line (P9 is
// unaffected by formatting), sentence arrays follow the 10-element
// single-line threshold, and pmid_sentences is deduplicated by the
// caller before this is invoked (P8).
func WriteDossier(outputDir string, degree int, d models.Dossier) error {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	writePMIDSentences(&buf, d.PMIDSentences)

	assertions := make([]assertionJSON, len(d.Assertions))
	for i, a := range d.Assertions {
		assertions[i] = assertionJSON{
			Subject:       a.Subject,
			SubjectCUI:    string(a.SubjectCUI),
			Predicate:     string(a.Predicate),
			Object:        a.Object,
			ObjectCUI:     string(a.ObjectCUI),
			EvidenceCount: a.EvidenceCount,
			PMIDRefs:      a.PMIDRefs,
		}
	}
	writeAssertions(&buf, assertions)
	buf.WriteString("}\n")

	path := filepath.Join(outputDir, dossierFilename(degree))
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func dossierFilename(degree int) string {
	return "causal_assertions_" + strconv.Itoa(degree) + ".json"
}
