package audit

import "github.com/drkit/draudit/internal/graph"

// DuplicateDetector flags semantically redundant relationships between the
// same node pair.
//
// Edges are grouped by unordered endpoint pair. Within a group, each edge
// beyond the first is compared to the group's first edge: textually
// identical predicates are "same-predicate", catalog synonyms (same
// category, same directionality) are "semantic-overlap". A predicate and
// its declared inverse are intentional bidirectional modeling and are never
// flagged.
type DuplicateDetector struct {
	cfg Config
}

// NewDuplicateDetector builds a duplicate detector.
func NewDuplicateDetector(cfg Config) *DuplicateDetector {
	return &DuplicateDetector{cfg: cfg.withDefaults()}
}

// Analyze returns one candidate per redundant extra edge, in edge insertion
// order.
func (d *DuplicateDetector) Analyze(idx *graph.Index) []DuplicateCandidate {
	groups := make(map[string][]graph.Relationship)
	var order []string
	for _, e := range idx.Edges() {
		k := pairKey(e.SourceID, e.TargetID)
		if groups[k] == nil {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}

	var out []DuplicateCandidate
	for _, k := range order {
		group := groups[k]
		if len(group) < 2 {
			continue
		}
		base := group[0]
		for _, extra := range group[1:] {
			reason, flagged := d.compare(base.Predicate, extra.Predicate)
			if !flagged {
				continue
			}
			out = append(out, DuplicateCandidate{
				RelationshipIDs: [2]string{base.ID, extra.ID},
				Reason:          reason,
			})
		}
	}
	return out
}

func (d *DuplicateDetector) compare(a, b string) (string, bool) {
	if a == b {
		return ReasonSamePredicate, true
	}
	if d.cfg.Predicates.InversePair(a, b) {
		return "", false
	}
	if d.cfg.Predicates.Synonyms(a, b) {
		return ReasonSemanticOverlap, true
	}
	return "", false
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}
