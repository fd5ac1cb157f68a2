package audit

import "github.com/drkit/draudit/internal/graph"

// BalanceAssessor classifies each node type's relationship count against
// the target range configured for its category.
type BalanceAssessor struct {
	cfg Config
}

// NewBalanceAssessor builds a balance assessor.
func NewBalanceAssessor(cfg Config) *BalanceAssessor {
	return &BalanceAssessor{cfg: cfg.withDefaults()}
}

// Analyze returns one assessment per node type, in type first-seen order.
// Types whose category has no configured range are skipped: without a
// target there is nothing to assess them against.
func (b *BalanceAssessor) Analyze(idx *graph.Index) []BalanceAssessment {
	m := idx.Model()

	var typeOrder []string
	counts := make(map[string]int)
	category := make(map[string]graph.Category)
	for _, n := range m.Nodes() {
		if _, seen := counts[n.TypeID]; !seen {
			typeOrder = append(typeOrder, n.TypeID)
			category[n.TypeID] = n.Category
		}
		counts[n.TypeID] += idx.Degree(n.ID)
	}

	var out []BalanceAssessment
	for _, typeID := range typeOrder {
		rng, ok := b.cfg.Targets[category[typeID]]
		if !ok {
			continue
		}
		out = append(out, BalanceAssessment{
			TypeID:   typeID,
			Category: category[typeID],
			Count:    counts[typeID],
			Min:      rng.Min,
			Max:      rng.Max,
			Status:   classify(counts[typeID], rng),
		})
	}
	return out
}

func classify(count int, rng TargetRange) BalanceStatus {
	switch {
	case count < rng.Min:
		return StatusUnder
	case count > rng.Max:
		return StatusOver
	default:
		return StatusBalanced
	}
}
