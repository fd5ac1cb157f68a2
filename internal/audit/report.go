package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/drkit/draudit/internal/canonical"
	"github.com/drkit/draudit/internal/graph"
)

// Priority ranks a gap.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// BalanceStatus classifies a relationship count against its target range.
type BalanceStatus string

const (
	StatusUnder    BalanceStatus = "under"
	StatusBalanced BalanceStatus = "balanced"
	StatusOver     BalanceStatus = "over"
)

// TypeCoverage is the per-type slice of a layer's coverage metric.
type TypeCoverage struct {
	TypeID            string `json:"type_id"`
	RelationshipCount int    `json:"relationship_count"`
	Isolated          bool   `json:"isolated,omitempty"`
}

// PairUtilization measures how many catalog-defined predicates between a
// type pair the model actually uses.
type PairUtilization struct {
	SourceType     string  `json:"source_type"`
	DestType       string  `json:"dest_type"`
	UsedPredicates int     `json:"used_predicates"`
	DefinedCount   int     `json:"defined_predicates"`
	UtilizationPct float64 `json:"utilization_pct"`
}

// CoverageMetric aggregates one layer's coverage.
type CoverageMetric struct {
	LayerID       string            `json:"layer_id"`
	TotalTypes    int               `json:"total_types"`
	IsolatedTypes int               `json:"isolated_types"`
	IsolationPct  float64           `json:"isolation_pct"`
	Density       float64           `json:"density"`
	Types         []TypeCoverage    `json:"types,omitempty"`
	Utilization   []PairUtilization `json:"utilization,omitempty"`
}

// Gap is a standard-pattern edge absent from the graph.
type Gap struct {
	SourceType      string   `json:"source_type"`
	DestinationType string   `json:"destination_type"`
	Predicate       string   `json:"predicate"`
	Priority        Priority `json:"priority"`
}

// Signature identifies a gap across snapshots, independent of priority.
func (g Gap) Signature() string {
	return g.SourceType + "|" + g.DestinationType + "|" + g.Predicate
}

// Duplicate reasons.
const (
	ReasonSamePredicate   = "same-predicate"
	ReasonSemanticOverlap = "semantic-overlap"
)

// DuplicateCandidate flags two relationships judged redundant between the
// same node pair.
type DuplicateCandidate struct {
	RelationshipIDs [2]string `json:"relationship_ids"`
	Reason          string    `json:"reason"`
}

// Signature identifies a duplicate across snapshots: the sorted id pair.
func (d DuplicateCandidate) Signature() string {
	a, b := d.RelationshipIDs[0], d.RelationshipIDs[1]
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// BalanceAssessment classifies one node type's relationship count.
type BalanceAssessment struct {
	TypeID   string         `json:"type_id"`
	Category graph.Category `json:"category"`
	Count    int            `json:"count"`
	Min      int            `json:"target_min"`
	Max      int            `json:"target_max"`
	Status   BalanceStatus  `json:"status"`
}

// ConnectivityMetric summarizes the undirected component structure.
type ConnectivityMetric struct {
	Scope            string  `json:"scope"`
	Components       int     `json:"components"`
	IsolatedNodes    int     `json:"isolated_nodes"`
	LargestComponent int     `json:"largest_component"`
	AverageDegree    float64 `json:"average_degree"`
}

// Integrity carries the graph-integrity findings. These are data, not
// errors: a malformed graph still audits to completion.
type Integrity struct {
	BrokenReferences []graph.Relationship `json:"broken_references,omitempty"`
	Cycles           [][]string           `json:"cycles,omitempty"`
}

// Report is the assembled audit output. Immutable once constructed.
type Report struct {
	RunID        string               `json:"run_id"`
	Timestamp    time.Time            `json:"timestamp"`
	ModelName    string               `json:"model_name"`
	ModelVersion string               `json:"model_version"`
	Layers       []string             `json:"layers"`
	Coverage     []CoverageMetric     `json:"coverage"`
	Gaps         []Gap                `json:"gaps"`
	Duplicates   []DuplicateCandidate `json:"duplicates"`
	Balance      []BalanceAssessment  `json:"balance"`
	Connectivity []ConnectivityMetric `json:"connectivity"`
	Integrity    Integrity            `json:"integrity"`
}

// Fingerprint returns a content hash of the report minus its run identity,
// so two runs over the same model state fingerprint identically.
func (r *Report) Fingerprint() (string, error) {
	shadow := *r
	shadow.RunID = ""
	shadow.Timestamp = time.Time{}
	return canonical.Hash(canonical.DomainReport, &shadow)
}

// HighPriorityGaps counts gaps with priority high.
func (r *Report) HighPriorityGaps() int {
	n := 0
	for _, g := range r.Gaps {
		if g.Priority == PriorityHigh {
			n++
		}
	}
	return n
}

// Auditor composes the five analyzers over one graph and assembles their
// outputs.
type Auditor struct {
	cfg Config
}

// NewAuditor builds an auditor with the given external configuration.
func NewAuditor(cfg Config) *Auditor {
	return &Auditor{cfg: cfg.withDefaults()}
}

// Run executes every analyzer against the index and returns the assembled
// report. The timestamp is caller-supplied so runs are deterministic under
// test; the run id is always fresh.
func (a *Auditor) Run(idx *graph.Index, now time.Time) *Report {
	m := idx.Model()
	return &Report{
		RunID:        uuid.NewString(),
		Timestamp:    now.UTC(),
		ModelName:    m.Name,
		ModelVersion: m.Version,
		Layers:       m.Layers(),
		Coverage:     NewCoverageAnalyzer(a.cfg).Analyze(idx),
		Gaps:         NewGapAnalyzer(a.cfg).Analyze(idx),
		Duplicates:   NewDuplicateDetector(a.cfg).Analyze(idx),
		Balance:      NewBalanceAssessor(a.cfg).Analyze(idx),
		Connectivity: NewConnectivityAnalyzer().Analyze(idx),
		Integrity: Integrity{
			BrokenReferences: idx.FindBrokenReferences(),
			Cycles:           idx.FindCircularReferences(),
		},
	}
}
