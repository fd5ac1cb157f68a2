// Package diff computes signature-based deltas between two audit
// snapshots.
//
// Gaps match across snapshots by (sourceType, destinationType, predicate);
// duplicates by their sorted relationship-id pair. A signature present
// before but not after is resolved, the reverse is new, both is persistent.
// Numeric sections (coverage, connectivity) are plain before/after/change
// triples.
//
// A missing baseline is not an error: the result carries HasBaseline=false
// and every section degrades to its no-baseline form.
package diff

import (
	"github.com/drkit/draudit/internal/audit"
)

// Delta is a before/after pair with its signed change.
type Delta struct {
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	Change float64 `json:"change"`
}

func delta(before, after float64) Delta {
	return Delta{Before: before, After: after, Change: after - before}
}

// CoverageDelta tracks one layer's coverage movement.
type CoverageDelta struct {
	LayerID     string `json:"layer_id"`
	Isolation   Delta  `json:"isolation_pct"`
	Density     Delta  `json:"density"`
	Utilization Delta  `json:"utilization_pct"`
}

// GapDelta partitions gap signatures into resolved, new, and persistent.
type GapDelta struct {
	Resolved       []audit.Gap `json:"resolved"`
	New            []audit.Gap `json:"new"`
	Persistent     []audit.Gap `json:"persistent"`
	ResolutionRate float64     `json:"resolution_rate"`
}

// DuplicateDelta partitions duplicate signatures into resolved, new, and
// persistent.
type DuplicateDelta struct {
	Resolved        []audit.DuplicateCandidate `json:"resolved"`
	New             []audit.DuplicateCandidate `json:"new"`
	Persistent      []audit.DuplicateCandidate `json:"persistent"`
	EliminationRate float64                    `json:"elimination_rate"`
}

// BalanceTransition records a node type whose balance status moved.
type BalanceTransition struct {
	TypeID   string              `json:"type_id"`
	Before   audit.BalanceStatus `json:"before"`
	After    audit.BalanceStatus `json:"after"`
	Improved bool                `json:"improved"`
}

// ConnectivityDelta tracks component structure movement.
type ConnectivityDelta struct {
	Components    Delta `json:"components"`
	IsolatedNodes Delta `json:"isolated_nodes"`
	AverageDegree Delta `json:"average_degree"`
}

// Result is the assembled differential report.
type Result struct {
	BeforeID     string              `json:"before_id,omitempty"`
	AfterID      string              `json:"after_id"`
	HasBaseline  bool                `json:"has_baseline"`
	Coverage     []CoverageDelta     `json:"coverage,omitempty"`
	Gaps         GapDelta            `json:"gaps"`
	Duplicates   DuplicateDelta      `json:"duplicates"`
	Balance      []BalanceTransition `json:"balance,omitempty"`
	Connectivity ConnectivityDelta   `json:"connectivity"`
}

// Compare diffs two snapshots. before may be nil ("no baseline"): the
// result then reports everything in after as current state with zero
// rates, and HasBaseline is false.
func Compare(beforeID string, before *audit.Report, afterID string, after *audit.Report) *Result {
	res := &Result{
		BeforeID:    beforeID,
		AfterID:     afterID,
		HasBaseline: before != nil,
	}
	if before == nil {
		// No baseline: nothing resolved, nothing persistent. Current gaps
		// and duplicates are not "new" either - there is nothing to have
		// appeared since.
		return res
	}

	res.Coverage = coverageDeltas(before, after)
	res.Gaps = gapDelta(before.Gaps, after.Gaps)
	res.Duplicates = duplicateDelta(before.Duplicates, after.Duplicates)
	res.Balance = balanceTransitions(before.Balance, after.Balance)
	res.Connectivity = connectivityDelta(before.Connectivity, after.Connectivity)
	return res
}

func coverageDeltas(before, after *audit.Report) []CoverageDelta {
	byLayer := make(map[string]audit.CoverageMetric, len(before.Coverage))
	for _, m := range before.Coverage {
		byLayer[m.LayerID] = m
	}

	var out []CoverageDelta
	for _, a := range after.Coverage {
		b := byLayer[a.LayerID] // zero metric if the layer is new
		out = append(out, CoverageDelta{
			LayerID:     a.LayerID,
			Isolation:   delta(b.IsolationPct, a.IsolationPct),
			Density:     delta(b.Density, a.Density),
			Utilization: delta(layerUtilization(b), layerUtilization(a)),
		})
	}
	return out
}

// layerUtilization reduces a layer's pair utilizations to their mean, the
// layer-level number the delta tracks.
func layerUtilization(m audit.CoverageMetric) float64 {
	if len(m.Utilization) == 0 {
		return 0
	}
	sum := 0.0
	for _, u := range m.Utilization {
		sum += u.UtilizationPct
	}
	return sum / float64(len(m.Utilization))
}

func gapDelta(before, after []audit.Gap) GapDelta {
	afterSigs := make(map[string]bool, len(after))
	for _, g := range after {
		afterSigs[g.Signature()] = true
	}
	beforeSigs := make(map[string]bool, len(before))
	for _, g := range before {
		beforeSigs[g.Signature()] = true
	}

	var d GapDelta
	for _, g := range before {
		if afterSigs[g.Signature()] {
			d.Persistent = append(d.Persistent, g)
		} else {
			d.Resolved = append(d.Resolved, g)
		}
	}
	for _, g := range after {
		if !beforeSigs[g.Signature()] {
			d.New = append(d.New, g)
		}
	}
	d.ResolutionRate = rate(len(d.Resolved), len(d.Persistent))
	return d
}

func duplicateDelta(before, after []audit.DuplicateCandidate) DuplicateDelta {
	afterSigs := make(map[string]bool, len(after))
	for _, c := range after {
		afterSigs[c.Signature()] = true
	}
	beforeSigs := make(map[string]bool, len(before))
	for _, c := range before {
		beforeSigs[c.Signature()] = true
	}

	var d DuplicateDelta
	for _, c := range before {
		if afterSigs[c.Signature()] {
			d.Persistent = append(d.Persistent, c)
		} else {
			d.Resolved = append(d.Resolved, c)
		}
	}
	for _, c := range after {
		if !beforeSigs[c.Signature()] {
			d.New = append(d.New, c)
		}
	}
	d.EliminationRate = rate(len(d.Resolved), len(d.Persistent))
	return d
}

// rate returns resolved/(resolved+persistent), with 0/0 reported as 0.
func rate(resolved, persistent int) float64 {
	total := resolved + persistent
	if total == 0 {
		return 0
	}
	return float64(resolved) / float64(total)
}

func balanceTransitions(before, after []audit.BalanceAssessment) []BalanceTransition {
	byType := make(map[string]audit.BalanceAssessment, len(before))
	for _, b := range before {
		byType[b.TypeID] = b
	}

	var out []BalanceTransition
	for _, a := range after {
		b, ok := byType[a.TypeID]
		if !ok || b.Status == a.Status {
			continue
		}
		out = append(out, BalanceTransition{
			TypeID:   a.TypeID,
			Before:   b.Status,
			After:    a.Status,
			Improved: statusDistance(a.Status) < statusDistance(b.Status),
		})
	}
	return out
}

// statusDistance is the number of steps a status sits from balanced.
func statusDistance(s audit.BalanceStatus) int {
	if s == audit.StatusBalanced {
		return 0
	}
	return 1
}

func connectivityDelta(before, after []audit.ConnectivityMetric) ConnectivityDelta {
	var b, a audit.ConnectivityMetric
	if len(before) > 0 {
		b = before[0]
	}
	if len(after) > 0 {
		a = after[0]
	}
	return ConnectivityDelta{
		Components:    delta(float64(b.Components), float64(a.Components)),
		IsolatedNodes: delta(float64(b.IsolatedNodes), float64(a.IsolatedNodes)),
		AverageDegree: delta(b.AverageDegree, a.AverageDegree),
	}
}
