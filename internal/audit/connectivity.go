package audit

import "github.com/drkit/draudit/internal/graph"

// ConnectivityAnalyzer computes connected components over the undirected
// view of the graph: edge direction is ignored, broken references are (the
// endpoint does not exist, so the edge cannot join two components).
type ConnectivityAnalyzer struct{}

// NewConnectivityAnalyzer builds a connectivity analyzer.
func NewConnectivityAnalyzer() *ConnectivityAnalyzer {
	return &ConnectivityAnalyzer{}
}

// Analyze returns the model-wide connectivity metric. Components come from
// union-find; isolated nodes are singleton components; average degree is
// 2E/V over resolved edges.
func (c *ConnectivityAnalyzer) Analyze(idx *graph.Index) []ConnectivityMetric {
	m := idx.Model()
	nodes := m.Nodes()
	if len(nodes) == 0 {
		return []ConnectivityMetric{{Scope: "model"}}
	}

	uf := newUnionFind(len(nodes))
	ordinal := make(map[string]int, len(nodes))
	for i, n := range nodes {
		ordinal[n.ID] = i
	}

	resolved := 0
	for _, e := range idx.Edges() {
		s, okS := ordinal[e.SourceID]
		t, okT := ordinal[e.TargetID]
		if !okS || !okT {
			continue
		}
		resolved++
		uf.union(s, t)
	}

	sizes := make(map[int]int)
	for i := range nodes {
		sizes[uf.find(i)]++
	}

	metric := ConnectivityMetric{
		Scope:         "model",
		Components:    len(sizes),
		AverageDegree: 2 * float64(resolved) / float64(len(nodes)),
	}
	for _, size := range sizes {
		if size == 1 {
			metric.IsolatedNodes++
		}
		if size > metric.LargestComponent {
			metric.LargestComponent = size
		}
	}
	return []ConnectivityMetric{metric}
}

// unionFind with path halving and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
