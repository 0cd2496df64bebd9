// Package graph is the dependency-graph representation the resolver
// walks. The graph carries the mutable per-node resolution state in a
// side slice (Phase, keyed by node index) rather than on the node, so the
// resolver's bookkeeping stays separate from the mod records; the
// resolver still records each failure on the mod's own ModMetadata
// through its status transition.
package graph

import "github.com/jordanvance/modseq/internal/semver"

// Phase is a node's position in the resolver's state machine.
type Phase int

const (
	// Queued is the initial phase for every node not already Failed.
	Queued Phase = iota
	// Checking means a visit is in progress; observing Checking on entry
	// to a visit is the canonical cycle signal.
	Checking
	// Sorted means the node and all its required dependencies resolved.
	Sorted
	// Failed is terminal; the reason lives on the caller's own record,
	// not in the graph.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Queued:
		return "Queued"
	case Checking:
		return "Checking"
	case Sorted:
		return "Sorted"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// DependencyRequest is one declared edge out of a node, before it has
// been resolved to a target index. TargetID preserves the dependency's
// declared unique_id as written, for diagnostics; TargetKey is its
// case-folded form used for resolution.
type DependencyRequest struct {
	TargetID       string
	TargetKey      string
	IsRequired     bool
	MinimumVersion *semver.Version
}

// Edge is a DependencyRequest resolved to a target node index. Target is
// -1 when no in-corpus node matches TargetKey.
type Edge struct {
	Target         int
	IsRequired     bool
	MinimumVersion *semver.Version
}

// Node is one mod's position in the graph: its resolved outgoing edges.
// Node carries no mutable state; phase lives in Graph.Phases.
type Node struct {
	Edges []Edge
}

// Graph is a directed graph over a fixed set of nodes, indexed
// positionally to match the caller's mod slice.
type Graph struct {
	Nodes  []Node
	Phases []Phase
}

// Build resolves every node's declared dependency requests to target
// indices, using keys to map a node's identity key to its index. A
// request whose TargetKey has no entry in keys resolves to Target -1
// (missing dependency). initiallyFailed marks nodes that arrived at the
// resolver already Failed, so the caller can seed their Phase.
func Build(keys []string, requests [][]DependencyRequest, initiallyFailed []bool) *Graph {
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		if k == "" {
			continue
		}
		index[k] = i
	}

	nodes := make([]Node, len(keys))
	phases := make([]Phase, len(keys))
	for i, reqs := range requests {
		edges := make([]Edge, len(reqs))
		for j, r := range reqs {
			target := -1
			if idx, ok := index[r.TargetKey]; ok {
				target = idx
			}
			edges[j] = Edge{Target: target, IsRequired: r.IsRequired, MinimumVersion: r.MinimumVersion}
		}
		nodes[i] = Node{Edges: edges}
		if initiallyFailed[i] {
			phases[i] = Failed
		} else {
			phases[i] = Queued
		}
	}

	return &Graph{Nodes: nodes, Phases: phases}
}
