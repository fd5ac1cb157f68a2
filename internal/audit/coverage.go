package audit

import "github.com/drkit/draudit/internal/graph"

// CoverageAnalyzer measures how much of each layer actually participates in
// relationships: per-type counts, isolation, density, and predicate
// utilization per type pair.
type CoverageAnalyzer struct {
	cfg Config
}

// NewCoverageAnalyzer builds a coverage analyzer.
func NewCoverageAnalyzer(cfg Config) *CoverageAnalyzer {
	return &CoverageAnalyzer{cfg: cfg.withDefaults()}
}

// Analyze returns one metric per layer, in layer first-seen order.
func (a *CoverageAnalyzer) Analyze(idx *graph.Index) []CoverageMetric {
	m := idx.Model()
	var out []CoverageMetric
	for _, layer := range m.Layers() {
		out = append(out, a.analyzeLayer(idx, layer))
	}
	return out
}

func (a *CoverageAnalyzer) analyzeLayer(idx *graph.Index, layer string) CoverageMetric {
	m := idx.Model()

	// Per-type in+out counts, types in first-seen order.
	var typeOrder []string
	counts := make(map[string]int)
	for _, n := range m.Nodes() {
		if n.LayerID != layer {
			continue
		}
		if _, seen := counts[n.TypeID]; !seen {
			typeOrder = append(typeOrder, n.TypeID)
		}
		counts[n.TypeID] += idx.Degree(n.ID)
	}

	metric := CoverageMetric{LayerID: layer, TotalTypes: len(typeOrder)}
	total := 0
	for _, typeID := range typeOrder {
		c := counts[typeID]
		total += c
		metric.Types = append(metric.Types, TypeCoverage{
			TypeID:            typeID,
			RelationshipCount: c,
			Isolated:          c == 0,
		})
		if c == 0 {
			metric.IsolatedTypes++
		}
	}
	if metric.TotalTypes > 0 {
		metric.IsolationPct = float64(metric.IsolatedTypes) / float64(metric.TotalTypes) * 100
		metric.Density = float64(total) / float64(metric.TotalTypes)
	}
	metric.Utilization = a.utilization(idx, layer)
	return metric
}

// utilization compares, per type pair the pattern catalog covers, the
// distinct predicates observed on edges between nodes of those types
// against the predicates the catalog defines for the pair. Pairs the
// catalog says nothing about are omitted: with zero defined predicates
// there is nothing to utilize.
func (a *CoverageAnalyzer) utilization(idx *graph.Index, layer string) []PairUtilization {
	m := idx.Model()

	type pair struct{ src, dst string }
	defined := make(map[pair]map[string]bool)
	var order []pair
	for _, p := range a.cfg.Patterns {
		k := pair{p.SourceType, p.DestType}
		if defined[k] == nil {
			defined[k] = make(map[string]bool)
			order = append(order, k)
		}
		defined[k][p.Predicate] = true
	}
	if len(order) == 0 {
		return nil
	}

	used := make(map[pair]map[string]bool)
	for _, e := range idx.Edges() {
		src, okS := m.Node(e.SourceID)
		dst, okT := m.Node(e.TargetID)
		if !okS || !okT || src.LayerID != layer {
			continue
		}
		k := pair{src.TypeID, dst.TypeID}
		if defined[k] == nil {
			continue
		}
		if used[k] == nil {
			used[k] = make(map[string]bool)
		}
		if defined[k][e.Predicate] {
			used[k][e.Predicate] = true
		}
	}

	var out []PairUtilization
	for _, k := range order {
		if !a.pairInLayer(m, layer, k.src) {
			continue
		}
		u := PairUtilization{
			SourceType:     k.src,
			DestType:       k.dst,
			UsedPredicates: len(used[k]),
			DefinedCount:   len(defined[k]),
		}
		u.UtilizationPct = float64(u.UsedPredicates) / float64(u.DefinedCount) * 100
		out = append(out, u)
	}
	return out
}

// pairInLayer reports whether the layer has any node of the given type, so
// utilization rows only appear where the pair can exist.
func (a *CoverageAnalyzer) pairInLayer(m *graph.Model, layer, typeID string) bool {
	for _, n := range m.Nodes() {
		if n.LayerID == layer && n.TypeID == typeID {
			return true
		}
	}
	return false
}
