package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rawblock/causalgraph-engine/pkg/models"
)

func TestWriteDossierForcesPMIDRefsSingleLine(t *testing.T) {
	dir := t.TempDir()
	refs := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		refs = append(refs, "pmid"+string(rune('A'+i%26)))
	}
	d := models.Dossier{
		PMIDSentences: map[string][]string{"pmid1": {"sentence one"}},
		Assertions: []models.DossierAssertion{
			{Subject: "A", SubjectCUI: "C1", Predicate: "CAUSES", Object: "B", ObjectCUI: "C2", EvidenceCount: 50, PMIDRefs: refs},
		},
	}
	if err := WriteDossier(dir, 1, d); err != nil {
		t.Fatalf("WriteDossier: %v", err)
	}
	contents, err := os.ReadFile(filepath.Join(dir, "causal_assertions_1.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, line := range strings.Split(string(contents), "\n") {
		if strings.Contains(line, "pmid_refs") {
			if !strings.Contains(line, "[") || !strings.Contains(line, "]") {
				t.Fatalf("expected pmid_refs array on one line, got: %q", line)
			}
		}
	}
}

func TestWriteDAGTagsExposureOutcomeAndWritesEdges(t *testing.T) {
	dir := t.TempDir()
	g := models.Graph{
		Nodes:     []string{"B_Node", "A_Node", "Exposure", "Outcome"},
		Edges:     []models.Edge{{Subject: "Exposure", Object: "Outcome"}},
		Exposures: []string{"Exposure"},
		Outcomes:  []string{"Outcome"},
	}
	if err := WriteDAG(dir, 1, g); err != nil {
		t.Fatalf("WriteDAG: %v", err)
	}
	contents, err := os.ReadFile(filepath.Join(dir, "degree_1.R"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	script := string(contents)
	if !strings.Contains(script, "Exposure [exposure]") {
		t.Fatalf("expected exposure tag in script: %s", script)
	}
	if !strings.Contains(script, "Outcome [outcome]") {
		t.Fatalf("expected outcome tag in script: %s", script)
	}
	if !strings.Contains(script, "Exposure -> Outcome") {
		t.Fatalf("expected edge line in script: %s", script)
	}
}

func TestWriteMarkovBlanketDAGRestrictsToMBNodes(t *testing.T) {
	dir := t.TempDir()
	g := models.Graph{
		Nodes: []string{"A", "B", "C"},
		Edges: []models.Edge{{Subject: "A", Object: "B"}, {Subject: "B", Object: "C"}},
	}
	mb := &models.MarkovBlanket{Nodes: map[string]bool{"A": true, "B": true}}
	if err := WriteMarkovBlanketDAG(dir, g, mb); err != nil {
		t.Fatalf("WriteMarkovBlanketDAG: %v", err)
	}
	contents, err := os.ReadFile(filepath.Join(dir, "MarkovBlanket_Union.R"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	script := string(contents)
	if strings.Contains(script, "B -> C") {
		t.Fatalf("expected edge with endpoint outside MB excluded: %s", script)
	}
	if !strings.Contains(script, "A -> B") {
		t.Fatalf("expected A -> B retained: %s", script)
	}
}
