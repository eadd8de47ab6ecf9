// Package models holds the data types shared across the causal-graph
// engine: the relational evidence shapes read from the store, the
// Configuration contract the core consumes, and the artifacts it
// produces.
package models

// CUI is an opaque concept-unique identifier, e.g. "C0011570". It keys
// every map and set in the engine.
type CUI string

// Predicate is a short uppercase relation token, e.g. CAUSES, TREATS.
type Predicate string

// SemanticType is a short code attached to the subject and object of
// every predication row.
type SemanticType string

// ExcludedSemanticTypes is the compiled-in set of semantic types the
// traversal unconditionally drops: activities, behaviors, events,
// geographic areas, machine activities, occupational activities.
var ExcludedSemanticTypes = map[SemanticType]bool{
	"acty": true,
	"bhvr": true,
	"evnt": true,
	"gora": true,
	"mcha": true,
	"ocac": true,
}

// SentenceRef points into the sentence store.
type SentenceRef struct {
	PMID       string
	SentenceID string
}

// Assertion is the atom of evidence: a subject-predicate-object triple
// attested by one or more publications, retained after threshold and
// blocklist filtering at a given hop.
type Assertion struct {
	SubjectCUI     CUI
	SubjectName    string
	SubjectSemType SemanticType
	ObjectCUI      CUI
	ObjectName     string
	ObjectSemType  SemanticType
	Predicate      Predicate
	EvidenceCount  int
	PMIDs          []string
	SentenceRefs   []SentenceRef
	HopLevel       int
}

// Sentence is one evidence sentence recovered from the sentence store.
type Sentence struct {
	PMID       string
	SentenceID string
	Text       string
}

// Concept is a (CUI, canonical name) pair as elected by the
// Consolidation Mapper.
type Concept struct {
	CUI  CUI
	Name string
}

// Configuration is the single value the core consumes. How it is
// built — CLI flags, a named YAML entry — is outside the core; see
// cmd/causalgraph/configsource.
type Configuration struct {
	ExposureCUIs       []CUI
	OutcomeCUIs        []CUI
	ExposureLabel      string
	OutcomeLabel       string
	Predicates         []Predicate
	Degree             int
	Threshold          int
	ThresholdsByDegree map[int]int
	BlocklistCUIs      []CUI
	ComputeMarkovBlanket bool
	OutputDir          string
	Verbose            bool
}

// ThresholdForHop resolves the minimum distinct-pmid count required to
// retain an assertion discovered at the given hop: the per-degree
// override if supplied, else the flat threshold.
func (c Configuration) ThresholdForHop(hop int) int {
	if c.ThresholdsByDegree != nil {
		if t, ok := c.ThresholdsByDegree[hop]; ok {
			return t
		}
	}
	return c.Threshold
}

// Graph is the abstract DAG artifact: a consolidated node set, a
// deduplicated edge set with no self-loops, and the subsets of N
// tagged exposure / outcome.
type Graph struct {
	Nodes     []string
	Edges     []Edge
	Exposures []string
	Outcomes  []string
}

// Edge is a directed edge over consolidated node labels.
type Edge struct {
	Subject string
	Object  string
}

// DossierAssertion is the compact per-assertion record emitted in the
// evidence dossier.
type DossierAssertion struct {
	Subject       string   `json:"subj"`
	SubjectCUI    CUI      `json:"subj_cui"`
	Predicate     Predicate `json:"predicate"`
	Object        string   `json:"obj"`
	ObjectCUI     CUI      `json:"obj_cui"`
	EvidenceCount int      `json:"ev_count"`
	PMIDRefs      []string `json:"pmid_refs"`
}

// Dossier is the evidence dossier: per-pmid deduplicated sentence text
// plus the compact assertion list referencing it.
type Dossier struct {
	PMIDSentences map[string][]string `json:"pmid_sentences"`
	Assertions    []DossierAssertion  `json:"assertions"`
}

// MarkovBlanket is the union of parents, children, and spouses computed
// across every configured exposure and outcome CUI, plus the cleaned
// exposure/outcome labels.
type MarkovBlanket struct {
	Nodes map[string]bool
}

// Outcome is the distinguished result of one engine run: either the
// graph/dossier were produced, or evidence was absent.
type Outcome struct {
	EvidenceFound bool
	Graph         Graph
	Dossier       Dossier
	MarkovBlanket *MarkovBlanket
	SnapshotID    string
	Durations     map[string]float64
}
