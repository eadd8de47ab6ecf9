package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rawblock/causalgraph-engine/internal/store"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

type fakeStore struct {
	exists       bool
	hopResults   map[int][]models.Assertion
	sentences    map[string][]string
	canonNames   map[models.CUI]string
	parents      map[models.CUI][]string
	children     map[models.CUI]map[string]models.CUI
	spouses      []string
}

func (f *fakeStore) ExistsEvidence(ctx context.Context, exposureCUIs, outcomeCUIs []models.CUI, predicates []models.Predicate, minPMIDs int) (bool, error) {
	return f.exists, nil
}

func (f *fakeStore) ExpandHop(ctx context.Context, hop int, opts store.ExpandHopOptions) ([]models.Assertion, error) {
	return f.hopResults[hop], nil
}

func (f *fakeStore) FetchSentences(ctx context.Context, refs []models.SentenceRef) (map[string][]string, error) {
	return f.sentences, nil
}

func (f *fakeStore) FetchCanonicalNames(ctx context.Context, cuis []models.CUI) (map[models.CUI]string, error) {
	return f.canonNames, nil
}

func (f *fakeStore) FetchParents(ctx context.Context, target models.CUI, opts store.BlanketQueryOptions) ([]string, error) {
	return f.parents[target], nil
}

func (f *fakeStore) FetchChildren(ctx context.Context, target models.CUI, opts store.BlanketQueryOptions) (map[string]models.CUI, error) {
	return f.children[target], nil
}

func (f *fakeStore) FetchSpouses(ctx context.Context, childrenCUIs []models.CUI, opts store.BlanketQueryOptions) ([]string, error) {
	return f.spouses, nil
}

func TestRunEmitsArtifactsOnSingleDirectEdge(t *testing.T) {
	dir := t.TempDir()
	cfg := models.Configuration{
		ExposureCUIs:  []models.CUI{"C0011570"},
		OutcomeCUIs:   []models.CUI{"C0002395"},
		ExposureLabel: "Exposure",
		OutcomeLabel:  "Outcome",
		Predicates:    []models.Predicate{"CAUSES"},
		Degree:        1,
		Threshold:     10,
		OutputDir:     dir,
	}
	fs := &fakeStore{
		exists: true,
		hopResults: map[int][]models.Assertion{
			1: {{
				SubjectCUI: "C0011570", SubjectName: "Exposure Concept",
				ObjectCUI: "C0002395", ObjectName: "Outcome Concept",
				Predicate: "CAUSES", EvidenceCount: 50,
				PMIDs: []string{"1", "2"},
			}},
		},
	}

	outcome, err := Run(context.Background(), cfg, fs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.EvidenceFound {
		t.Fatal("expected evidence found")
	}
	if len(outcome.Graph.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %v", outcome.Graph.Edges)
	}
	if outcome.Graph.Edges[0].Subject != "Exposure" || outcome.Graph.Edges[0].Object != "Outcome" {
		t.Fatalf("expected consolidated edge Exposure->Outcome, got %v", outcome.Graph.Edges[0])
	}

	for _, name := range []string{"degree_1.R", "causal_assertions_1.json", "performance_metrics.json", "run_configuration.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected artifact %s to exist: %v", name, err)
		}
	}
}

func TestRunWritesReasonRecordOnEvidenceAbsent(t *testing.T) {
	dir := t.TempDir()
	cfg := models.Configuration{
		ExposureCUIs: []models.CUI{"C0011570"},
		OutcomeCUIs:  []models.CUI{"C0002395"},
		Predicates:   []models.Predicate{"CAUSES"},
		Degree:       1,
		Threshold:    1000000000,
		OutputDir:    dir,
	}
	fs := &fakeStore{exists: false}

	outcome, err := Run(context.Background(), cfg, fs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.EvidenceFound {
		t.Fatal("expected EvidenceAbsent outcome")
	}
	if _, err := os.Stat(filepath.Join(dir, "run_outcome.json")); err != nil {
		t.Fatalf("expected reason record to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "degree_1.R")); err == nil {
		t.Fatal("expected no DAG artifact when evidence absent (P7)")
	}
}

func TestRunRejectsInvalidConfigurationBeforeAnyStoreCall(t *testing.T) {
	cfg := models.Configuration{OutputDir: t.TempDir()}
	fs := &fakeStore{}
	_, err := Run(context.Background(), cfg, fs, nil)
	if err == nil {
		t.Fatal("expected ConfigError")
	}
	if _, ok := err.(*models.ConfigError); !ok {
		t.Fatalf("expected *models.ConfigError, got %T", err)
	}
}
