package audit

import "github.com/drkit/draudit/internal/graph"

// GapAnalyzer reports standard-pattern edges that the graph does not
// contain. The pattern catalog is external configuration; the analyzer
// never invents patterns of its own.
type GapAnalyzer struct {
	cfg Config
}

// NewGapAnalyzer builds a gap analyzer.
func NewGapAnalyzer(cfg Config) *GapAnalyzer {
	return &GapAnalyzer{cfg: cfg.withDefaults()}
}

// Analyze emits one gap per catalog triple with no matching edge,
// deduplicated by (sourceType, destType, predicate) signature, in catalog
// order. Required triples are high priority; the rest are weighted by the
// predicate's catalog category.
func (a *GapAnalyzer) Analyze(idx *graph.Index) []Gap {
	seen := make(map[string]bool)
	var gaps []Gap
	for _, p := range a.cfg.Patterns {
		if a.patternSatisfied(idx, p) {
			continue
		}
		g := Gap{
			SourceType:      p.SourceType,
			DestinationType: p.DestType,
			Predicate:       p.Predicate,
			Priority:        a.priority(p),
		}
		if seen[g.Signature()] {
			continue
		}
		seen[g.Signature()] = true
		gaps = append(gaps, g)
	}
	return gaps
}

// patternSatisfied reports whether any edge carries the pattern's predicate
// between nodes of the pattern's types. Edges with unresolved endpoints
// cannot satisfy a pattern: a broken reference has no target type.
func (a *GapAnalyzer) patternSatisfied(idx *graph.Index, p StandardPattern) bool {
	m := idx.Model()
	for _, e := range idx.WithPredicate(p.Predicate) {
		src, okS := m.Node(e.SourceID)
		dst, okT := m.Node(e.TargetID)
		if okS && okT && src.TypeID == p.SourceType && dst.TypeID == p.DestType {
			return true
		}
	}
	return false
}

func (a *GapAnalyzer) priority(p StandardPattern) Priority {
	if p.Required {
		return PriorityHigh
	}
	if pred, ok := a.cfg.Predicates.Lookup(p.Predicate); ok {
		if w, ok := a.cfg.GapWeights[pred.Category]; ok {
			return w
		}
	}
	return PriorityLow
}
