package emit

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// WriteDAG serializes the graph as a dagitty-compatible R script
// (SPEC_FULL.md §7's resolution of the DAG-artifact open question),
// text-diff-stable: nodes and edges are written in the lexicographic
// order the Graph Builder already sorted them into.
func WriteDAG(outputDir string, degree int, g models.Graph) error {
	return os.WriteFile(filepath.Join(outputDir, "degree_"+strconv.Itoa(degree)+".R"), dagittyScript(g), 0o644)
}

// WriteMarkovBlanketDAG emits the MB-restricted subgraph: edges whose
// both endpoints are in the Markov blanket, tags preserved.
func WriteMarkovBlanketDAG(outputDir string, g models.Graph, mb *models.MarkovBlanket) error {
	restricted := models.Graph{Exposures: g.Exposures, Outcomes: g.Outcomes}
	for _, n := range g.Nodes {
		if mb.Nodes[n] {
			restricted.Nodes = append(restricted.Nodes, n)
		}
	}
	for _, e := range g.Edges {
		if mb.Nodes[e.Subject] && mb.Nodes[e.Object] {
			restricted.Edges = append(restricted.Edges, e)
		}
	}
	return os.WriteFile(filepath.Join(outputDir, "MarkovBlanket_Union.R"), dagittyScript(restricted), 0o644)
}

func dagittyScript(g models.Graph) []byte {
	exposure := make(map[string]bool, len(g.Exposures))
	for _, n := range g.Exposures {
		exposure[n] = true
	}
	outcome := make(map[string]bool, len(g.Outcomes))
	for _, n := range g.Outcomes {
		outcome[n] = true
	}

	var buf bytes.Buffer
	buf.WriteString("g <- dagitty('dag {\n")
	for _, n := range g.Nodes {
		switch {
		case exposure[n]:
			buf.WriteString(" " + n + " [exposure]\n")
		case outcome[n]:
			buf.WriteString(" " + n + " [outcome]\n")
		default:
			buf.WriteString(" " + n + "\n")
		}
	}
	for _, e := range g.Edges {
		buf.WriteString(" " + e.Subject + " -> " + e.Object + "\n")
	}
	buf.WriteString("}')\n")
	return buf.Bytes()
}
