// Package graph implements the Graph Builder (C5): it converts the
// retained assertion set into a directed graph over consolidated node
// labels, dropping self-loops and duplicate edges. Grounded
// structurally on fund_tracer.go's FlowGraph/AddHop deduplication
// pattern, generalized from a hop-indexed flow trace to a flat
// consolidated-name graph.
package graph

import (
	"sort"

	"github.com/rawblock/causalgraph-engine/internal/consolidate"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// Build runs C5's algorithm: consolidate every assertion endpoint,
// drop self-loops produced by consolidation, deduplicate edges, and
// assemble N as the edge endpoints plus the elected exposure/outcome
// labels (so isolated exposure/outcome nodes still appear).
func Build(assertions []models.Assertion, mapper *consolidate.Mapper) models.Graph {
	edgeSeen := make(map[models.Edge]bool)
	var edges []models.Edge
	nodeSeen := make(map[string]bool)

	for _, a := range assertions {
		u := mapper.ConsolidatedName(a.SubjectName)
		v := mapper.ConsolidatedName(a.ObjectName)
		if u == v {
			continue
		}
		e := models.Edge{Subject: u, Object: v}
		if !edgeSeen[e] {
			edgeSeen[e] = true
			edges = append(edges, e)
		}
		nodeSeen[u] = true
		nodeSeen[v] = true
	}

	for _, label := range mapper.ExposureNodeSet() {
		nodeSeen[label] = true
	}
	for _, label := range mapper.OutcomeNodeSet() {
		nodeSeen[label] = true
	}

	nodes := make([]string, 0, len(nodeSeen))
	for n := range nodeSeen {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Subject != edges[j].Subject {
			return edges[i].Subject < edges[j].Subject
		}
		return edges[i].Object < edges[j].Object
	})

	nodeSet := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		nodeSet[n] = true
	}

	exposures := intersect(mapper.ExposureNodeSet(), nodeSet)
	outcomes := intersect(mapper.OutcomeNodeSet(), nodeSet)

	return models.Graph{
		Nodes:     nodes,
		Edges:     edges,
		Exposures: exposures,
		Outcomes:  outcomes,
	}
}

func intersect(labels []string, set map[string]bool) []string {
	var out []string
	for _, l := range labels {
		if set[l] {
			out = append(out, l)
		}
	}
	return out
}
