package graph

import "testing"

func TestBuildResolvesEdgesToIndices(t *testing.T) {
	keys := []string{"a", "b", "c"}
	requests := [][]DependencyRequest{
		{},
		{{TargetKey: "a", IsRequired: true}},
		{{TargetKey: "b", IsRequired: true}, {TargetKey: "missing", IsRequired: true}},
	}
	g := Build(keys, requests, []bool{false, false, false})

	if g.Nodes[1].Edges[0].Target != 0 {
		t.Errorf("b -> a should resolve to index 0, got %d", g.Nodes[1].Edges[0].Target)
	}
	if g.Nodes[2].Edges[0].Target != 1 {
		t.Errorf("c -> b should resolve to index 1, got %d", g.Nodes[2].Edges[0].Target)
	}
	if g.Nodes[2].Edges[1].Target != -1 {
		t.Errorf("c -> missing should resolve to -1, got %d", g.Nodes[2].Edges[1].Target)
	}
}

func TestBuildSeedsFailedPhase(t *testing.T) {
	g := Build([]string{"a", "b"}, [][]DependencyRequest{{}, {}}, []bool{true, false})
	if g.Phases[0] != Failed {
		t.Errorf("expected node 0 to start Failed")
	}
	if g.Phases[1] != Queued {
		t.Errorf("expected node 1 to start Queued")
	}
}
