package graph

import (
	"testing"

	"github.com/rawblock/causalgraph-engine/internal/consolidate"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

func TestBuildDropsSelfLoopsFromConsolidation(t *testing.T) {
	cfg := models.Configuration{
		ExposureCUIs:  []models.CUI{"C1", "C2"},
		OutcomeCUIs:   []models.CUI{"C3"},
		ExposureLabel: "Exposure",
		OutcomeLabel:  "Outcome",
	}
	assertions := []models.Assertion{
		{SubjectCUI: "C1", SubjectName: "A", ObjectCUI: "C2", ObjectName: "B"},
	}
	mapper := consolidate.Build(assertions, cfg, nil)
	g := Build(assertions, mapper)

	if len(g.Edges) != 0 {
		t.Fatalf("expected self-loop dropped, got edges %v", g.Edges)
	}
}

func TestBuildDeduplicatesEdges(t *testing.T) {
	cfg := models.Configuration{
		ExposureCUIs:  []models.CUI{"C1"},
		OutcomeCUIs:   []models.CUI{"C2"},
		ExposureLabel: "Exposure",
		OutcomeLabel:  "Outcome",
	}
	assertions := []models.Assertion{
		{SubjectCUI: "C1", SubjectName: "Exposure", ObjectCUI: "C2", ObjectName: "Outcome", HopLevel: 1},
		{SubjectCUI: "C1", SubjectName: "Exposure", ObjectCUI: "C2", ObjectName: "Outcome", HopLevel: 2},
	}
	mapper := consolidate.Build(assertions, cfg, nil)
	g := Build(assertions, mapper)

	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 deduplicated edge, got %d", len(g.Edges))
	}
}

func TestBuildIncludesIsolatedExposureOutcomeNodes(t *testing.T) {
	cfg := models.Configuration{
		ExposureCUIs:  []models.CUI{"C1"},
		OutcomeCUIs:   []models.CUI{"C2"},
		ExposureLabel: "Isolated_Exposure",
		OutcomeLabel:  "Isolated_Outcome",
	}
	mapper := consolidate.Build(nil, cfg, map[models.CUI]string{"C1": "Isolated Exposure", "C2": "Isolated Outcome"})
	g := Build(nil, mapper)

	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 isolated nodes, got %v", g.Nodes)
	}
	if len(g.Exposures) != 1 || len(g.Outcomes) != 1 {
		t.Fatalf("expected isolated exposure/outcome tagged, got X=%v Y=%v", g.Exposures, g.Outcomes)
	}
}

func TestBuildMultipleExposureCUIsCollapseToOneEdge(t *testing.T) {
	cfg := models.Configuration{
		ExposureCUIs:  []models.CUI{"C0020538", "C0003507"},
		OutcomeCUIs:   []models.CUI{"C0002395"},
		ExposureLabel: "Cardiovascular_Disease",
		OutcomeLabel:  "Dementia",
	}
	assertions := []models.Assertion{
		{SubjectCUI: "C0020538", SubjectName: "Hypertension", ObjectCUI: "C0002395", ObjectName: "Dementia"},
		{SubjectCUI: "C0003507", SubjectName: "Arrhythmia", ObjectCUI: "C0002395", ObjectName: "Dementia"},
	}
	mapper := consolidate.Build(assertions, cfg, nil)
	g := Build(assertions, mapper)

	if len(g.Edges) != 1 {
		t.Fatalf("expected both edges to collapse to 1, got %v", g.Edges)
	}
	if len(g.Exposures) != 1 || g.Exposures[0] != "Cardiovascular_Disease" {
		t.Fatalf("expected single exposure node Cardiovascular_Disease, got %v", g.Exposures)
	}
}
