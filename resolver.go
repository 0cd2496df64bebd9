package modseq

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jordanvance/modseq/internal/caseid"
	"github.com/jordanvance/modseq/internal/compatdb"
	"github.com/jordanvance/modseq/internal/graph"
)

// Resolve computes a load order for mods: a depth-first topological sort
// over the dependency graph implied by each mod's manifest dependencies
// and content-pack parent, with cycle detection, missing-dependency and
// minimum-version diagnosis, and transitive failure propagation.
//
// Resolve never drops a record. Mods that were already Failed on input
// are carried through (first failure wins) and sorted to the end of the
// output, after every dependency edge between Found mods has been
// honored.
func Resolve(mods []*ModMetadata, db compatdb.DB) []*ModMetadata {
	r := &resolverState{
		mods:     mods,
		db:       db,
		requests: make([][]graph.DependencyRequest, len(mods)),
	}

	keys := make([]string, len(mods))
	failed := make([]bool, len(mods))
	for i, m := range mods {
		if m.Status != Found && m.Status != Failed {
			panic(&InternalError{Msg: fmt.Sprintf("mod %q has unknown status %s", m.DisplayName, m.Status)})
		}
		keys[i] = m.identityKey()
		failed[i] = m.Status == Failed
		r.requests[i] = dependencyRequests(m)
	}
	r.graph = graph.Build(keys, r.requests, failed)

	for i := range mods {
		r.visit(i, nil)
	}

	// The stack holds mods in the order their visits finished, which puts
	// every dependency ahead of its dependents. Mods that arrived already
	// Failed were never pushed; they close out the sequence.
	out := make([]*ModMetadata, 0, len(mods))
	for _, idx := range r.stack {
		out = append(out, mods[idx])
	}
	for i, f := range failed {
		if f {
			out = append(out, mods[i])
		}
	}
	return out
}

// dependencyRequests builds the dependency edges for m: its manifest's
// declared dependencies, followed by an implicit required edge to its
// content-pack parent, if any.
func dependencyRequests(m *ModMetadata) []graph.DependencyRequest {
	if m.Manifest == nil {
		return nil
	}
	reqs := make([]graph.DependencyRequest, 0, len(m.Manifest.Dependencies)+1)
	for _, d := range m.Manifest.Dependencies {
		reqs = append(reqs, graph.DependencyRequest{
			TargetID:       d.UniqueID,
			TargetKey:      caseid.New(d.UniqueID).Key(),
			IsRequired:     d.IsRequired,
			MinimumVersion: d.MinimumVersion,
		})
	}
	if cpf := m.Manifest.ContentPackFor; cpf != nil {
		reqs = append(reqs, graph.DependencyRequest{
			TargetID:       cpf.UniqueID,
			TargetKey:      caseid.New(cpf.UniqueID).Key(),
			IsRequired:     true,
			MinimumVersion: cpf.MinimumVersion,
		})
	}
	return reqs
}

type resolverState struct {
	mods     []*ModMetadata
	db       compatdb.DB
	graph    *graph.Graph
	requests [][]graph.DependencyRequest
	stack    []int
}

// visit implements the depth-first topological sort described for the
// resolver, with cycle detection performed uniformly at the entry of
// each visit: observing Checking on entry to a node already means a
// cycle, so the internal-error path the original algorithm needed when
// a callee observed Checking never arises here.
func (r *resolverState) visit(i int, chain []int) graph.Phase {
	phase := r.graph.Phases[i]
	if phase == graph.Sorted || phase == graph.Failed {
		return phase
	}
	if phase == graph.Checking {
		r.failCycle(i, chain)
		return graph.Failed
	}

	r.graph.Phases[i] = graph.Checking
	childChain := append(append([]int(nil), chain...), i)

	edges := r.graph.Nodes[i].Edges
	if len(edges) == 0 {
		r.finish(i, graph.Sorted)
		return graph.Sorted
	}

	if msg := r.missingRequiredMessage(i, edges); msg != "" {
		r.finishFailed(i, msg)
		return graph.Failed
	}
	if msg := r.versionShortfallMessage(edges); msg != "" {
		r.finishFailed(i, msg)
		return graph.Failed
	}

	for _, e := range edges {
		if e.Target == -1 {
			continue
		}
		result := r.visit(e.Target, childChain)
		if result == graph.Failed {
			// A cycle detected below may have already failed and
			// recorded this node; recording it again would duplicate
			// it in the output.
			if r.graph.Phases[i] == graph.Failed {
				return graph.Failed
			}
			target := r.mods[e.Target]
			r.finishFailed(i, fmt.Sprintf("it needs the '%s' mod, which couldn't be loaded.", target.DisplayName))
			return graph.Failed
		}
	}

	r.finish(i, graph.Sorted)
	return graph.Sorted
}

// failCycle marks every node in the cycle that closes back on i as
// Failed with a circular-reference message naming the chain. Only the
// nodes from i's position in chain onward are part of the cycle itself;
// earlier ancestors are unaffected here and will fail transitively
// through the normal "couldn't be loaded" path as their own frames
// unwind.
func (r *resolverState) failCycle(i int, chain []int) {
	start := -1
	for idx, n := range chain {
		if n == i {
			start = idx
			break
		}
	}
	if start == -1 {
		// Checking observed without i on the active chain: a genuine
		// invariant violation, not a cycle this resolver can explain.
		panic(&InternalError{Msg: fmt.Sprintf("node %d observed Checking but is not on its own ancestor chain", i)})
	}

	cycle := append(append([]int(nil), chain[start:]...), i)
	names := make([]string, len(cycle))
	for k, idx := range cycle {
		names[k] = r.mods[idx].DisplayName
	}
	msg := fmt.Sprintf("its dependencies have a circular reference: %s", strings.Join(names, " => "))

	for _, idx := range cycle[:len(cycle)-1] {
		if r.graph.Phases[idx] != graph.Failed {
			r.mods[idx].Fail(msg)
			r.graph.Phases[idx] = graph.Failed
			r.stack = append(r.stack, idx)
		}
	}
}

func (r *resolverState) finish(i int, phase graph.Phase) {
	r.graph.Phases[i] = phase
	r.stack = append(r.stack, i)
}

func (r *resolverState) finishFailed(i int, msg string) {
	r.mods[i].Fail(msg)
	r.finish(i, graph.Failed)
}

// missingRequiredMessage diagnoses required dependencies that resolve
// to no installed mod, labelling each from the compatibility database
// when it knows the mod. Labels sort alphabetically by display name.
func (r *resolverState) missingRequiredMessage(i int, edges []graph.Edge) string {
	reqs := r.requests[i]
	type labeled struct {
		name  string
		label string
	}
	var missing []labeled
	for j, e := range edges {
		if e.Target != -1 || !e.IsRequired {
			continue
		}
		id := reqs[j].TargetID
		name, ok := r.db.DisplayName(caseid.New(id))
		if !ok {
			name = id
		}
		label := name
		if url, ok := r.db.PageURL(caseid.New(id)); ok {
			label = fmt.Sprintf("%s: %s", name, url)
		}
		missing = append(missing, labeled{name: name, label: label})
	}
	if len(missing) == 0 {
		return ""
	}
	sort.Slice(missing, func(a, b int) bool { return missing[a].name < missing[b].name })
	labels := make([]string, len(missing))
	for k, m := range missing {
		labels[k] = m.label
	}
	return fmt.Sprintf("it requires mods which aren't installed (%s)", strings.Join(labels, ", "))
}

// versionShortfallMessage diagnoses installed dependencies whose
// version is older than the declared minimum.
func (r *resolverState) versionShortfallMessage(edges []graph.Edge) string {
	var shortfalls []string
	for _, e := range edges {
		if e.Target == -1 || e.MinimumVersion == nil {
			continue
		}
		target := r.mods[e.Target]
		if target.Manifest == nil {
			continue
		}
		if e.MinimumVersion.IsNewerThan(target.Manifest.Version) {
			shortfalls = append(shortfalls, fmt.Sprintf("%s (needs %s or later)", target.DisplayName, e.MinimumVersion))
		}
	}
	if len(shortfalls) == 0 {
		return ""
	}
	return fmt.Sprintf("it needs newer versions of some mods: %s", strings.Join(shortfalls, ", "))
}
