package expand

import (
	"context"
	"testing"

	"github.com/rawblock/causalgraph-engine/internal/store"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

type fakeStore struct {
	exists      bool
	existsErr   error
	hopResults  map[int][]models.Assertion
	hopErr      error
	seenOpts    map[int]store.ExpandHopOptions
}

func (f *fakeStore) ExistsEvidence(ctx context.Context, exposureCUIs, outcomeCUIs []models.CUI, predicates []models.Predicate, minPMIDs int) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeStore) ExpandHop(ctx context.Context, hop int, opts store.ExpandHopOptions) ([]models.Assertion, error) {
	if f.seenOpts == nil {
		f.seenOpts = make(map[int]store.ExpandHopOptions)
	}
	f.seenOpts[hop] = opts
	if f.hopErr != nil {
		return nil, f.hopErr
	}
	return f.hopResults[hop], nil
}

func baseConfig() models.Configuration {
	return models.Configuration{
		ExposureCUIs: []models.CUI{"C0011570"},
		OutcomeCUIs:  []models.CUI{"C0002395"},
		Predicates:   []models.Predicate{"CAUSES"},
		Degree:       2,
		Threshold:    10,
	}
}

func TestRunReturnsNotFoundWhenPreflightFails(t *testing.T) {
	fs := &fakeStore{exists: false}
	res, found, err := Run(context.Background(), baseConfig(), fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected evidence not found")
	}
	if len(res.Assertions) != 0 {
		t.Fatal("expected no assertions when preflight fails")
	}
}

func TestRunHop2FrontierIsHop1CUIsNotCumulative(t *testing.T) {
	fs := &fakeStore{
		exists: true,
		hopResults: map[int][]models.Assertion{
			1: {
				{SubjectCUI: "C0011570", ObjectCUI: "C9999999", HopLevel: 1},
			},
			2: {
				{SubjectCUI: "C9999999", ObjectCUI: "C0002395", HopLevel: 2},
			},
		},
	}
	cfg := baseConfig()
	cfg.Degree = 3
	res, found, err := Run(context.Background(), cfg, fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected evidence found")
	}
	if len(res.Assertions) != 2 {
		t.Fatalf("expected 2 assertions, got %d", len(res.Assertions))
	}

	hop2Opts := fs.seenOpts[2]
	if len(hop2Opts.Frontier) != 2 {
		t.Fatalf("expected hop2 frontier to be hop1's 2 CUIs, got %d", len(hop2Opts.Frontier))
	}

	// Hop 2 discovered C0002395; a cumulative frontier would now hold 3 CUIs.
	hop3Opts := fs.seenOpts[3]
	if len(hop3Opts.Frontier) != 2 {
		t.Fatalf("expected hop3 frontier to still be hop1's 2 CUIs, got %d", len(hop3Opts.Frontier))
	}

	hop1Opts := fs.seenOpts[1]
	if hop1Opts.Frontier != nil {
		t.Fatal("expected hop1 frontier to be nil")
	}
	if len(hop1Opts.ExposureCUIs) != 1 || len(hop1Opts.OutcomeCUIs) != 1 {
		t.Fatal("expected hop1 to carry exposure/outcome CUIs")
	}
}

func TestRunPerHopThresholdOverride(t *testing.T) {
	cfg := baseConfig()
	cfg.ThresholdsByDegree = map[int]int{1: 50, 2: 10}
	fs := &fakeStore{exists: true, hopResults: map[int][]models.Assertion{}}
	_, _, err := Run(context.Background(), cfg, fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.seenOpts[1].MinPMIDs != 50 {
		t.Fatalf("expected hop1 threshold 50, got %d", fs.seenOpts[1].MinPMIDs)
	}
	if fs.seenOpts[2].MinPMIDs != 10 {
		t.Fatalf("expected hop2 threshold 10, got %d", fs.seenOpts[2].MinPMIDs)
	}
}

func TestRunPropagatesHopError(t *testing.T) {
	fs := &fakeStore{exists: true, hopErr: errFake}
	_, _, err := Run(context.Background(), baseConfig(), fs)
	if err == nil {
		t.Fatal("expected error from hop expansion")
	}
}

var errFake = &models.QueryError{Operation: "test", Cause: errFakeCause{}}

type errFakeCause struct{}

func (errFakeCause) Error() string { return "fake cause" }
