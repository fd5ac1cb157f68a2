package cli

import (
	"fmt"

	"github.com/drkit/draudit/internal/audit"
)

// Gates are the fixed quality thresholds applied by --threshold. Failing a
// gate is a policy signal, not an execution error: the audit itself
// succeeded and its report is still written.
type Gates struct {
	MaxIsolationPct     float64
	MinDensity          float64
	MaxHighPriorityGaps int
	MaxDuplicates       int
}

// DefaultGates returns the documented thresholds.
func DefaultGates() Gates {
	return Gates{
		MaxIsolationPct:     20,
		MinDensity:          1.5,
		MaxHighPriorityGaps: 10,
		MaxDuplicates:       5,
	}
}

// Evaluate returns one message per failed gate, empty when all pass.
// Isolation and density gate every layer individually; a single starved
// layer fails the run even if the model-wide average looks fine.
func (g Gates) Evaluate(r *audit.Report) []string {
	var failures []string
	for _, c := range r.Coverage {
		if c.IsolationPct > g.MaxIsolationPct {
			failures = append(failures, fmt.Sprintf(
				"layer %s isolation %.1f%% exceeds %.0f%%", c.LayerID, c.IsolationPct, g.MaxIsolationPct))
		}
		if c.Density < g.MinDensity {
			failures = append(failures, fmt.Sprintf(
				"layer %s density %.2f below %.1f", c.LayerID, c.Density, g.MinDensity))
		}
	}
	if high := r.HighPriorityGaps(); high > g.MaxHighPriorityGaps {
		failures = append(failures, fmt.Sprintf(
			"%d high-priority gaps exceed limit %d", high, g.MaxHighPriorityGaps))
	}
	if len(r.Duplicates) > g.MaxDuplicates {
		failures = append(failures, fmt.Sprintf(
			"%d duplicate candidates exceed limit %d", len(r.Duplicates), g.MaxDuplicates))
	}
	return failures
}
