package format

import (
	"fmt"
	"strings"

	"github.com/drkit/draudit/internal/audit"
	"github.com/drkit/draudit/internal/diff"
)

// ReportToText renders an audit report for terminal output.
func ReportToText(r *audit.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Relationship audit: %s %s\n", r.ModelName, r.ModelVersion)
	fmt.Fprintf(&b, "Run %s at %s\n", r.RunID, r.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Layers: %s\n", strings.Join(r.Layers, ", "))

	b.WriteString("\nCoverage\n")
	for _, c := range r.Coverage {
		fmt.Fprintf(&b, "  %-14s types=%d isolated=%d (%.1f%%) density=%.2f\n",
			c.LayerID, c.TotalTypes, c.IsolatedTypes, c.IsolationPct, c.Density)
		for _, u := range c.Utilization {
			fmt.Fprintf(&b, "    %s -> %s: %d/%d predicates used (%.1f%%)\n",
				u.SourceType, u.DestType, u.UsedPredicates, u.DefinedCount, u.UtilizationPct)
		}
	}

	fmt.Fprintf(&b, "\nGaps (%d)\n", len(r.Gaps))
	for _, g := range r.Gaps {
		fmt.Fprintf(&b, "  [%-6s] %s -[%s]-> %s\n", g.Priority, g.SourceType, g.Predicate, g.DestinationType)
	}

	fmt.Fprintf(&b, "\nDuplicates (%d)\n", len(r.Duplicates))
	for _, d := range r.Duplicates {
		fmt.Fprintf(&b, "  %s / %s (%s)\n", d.RelationshipIDs[0], d.RelationshipIDs[1], d.Reason)
	}

	b.WriteString("\nBalance\n")
	for _, a := range r.Balance {
		fmt.Fprintf(&b, "  %-14s %-11s count=%d target=[%d,%d] %s\n",
			a.TypeID, a.Category, a.Count, a.Min, a.Max, a.Status)
	}

	b.WriteString("\nConnectivity\n")
	for _, c := range r.Connectivity {
		fmt.Fprintf(&b, "  %s: components=%d isolated=%d largest=%d avg-degree=%.2f\n",
			c.Scope, c.Components, c.IsolatedNodes, c.LargestComponent, c.AverageDegree)
	}

	if len(r.Integrity.BrokenReferences) > 0 || len(r.Integrity.Cycles) > 0 {
		b.WriteString("\nIntegrity\n")
		for _, e := range r.Integrity.BrokenReferences {
			fmt.Fprintf(&b, "  broken: %s -[%s]-> %s (target missing)\n", e.SourceID, e.Predicate, e.TargetID)
		}
		for _, cycle := range r.Integrity.Cycles {
			fmt.Fprintf(&b, "  cycle: %s\n", strings.Join(cycle, " -> "))
		}
	}
	return b.String()
}

// DiffToText renders a differential result for terminal output.
func DiffToText(d *diff.Result) string {
	var b strings.Builder
	if !d.HasBaseline {
		fmt.Fprintf(&b, "Differential audit: %s (no baseline)\n", d.AfterID)
		b.WriteString("No earlier snapshot to compare against.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Differential audit: %s -> %s\n", d.BeforeID, d.AfterID)

	b.WriteString("\nCoverage\n")
	for _, c := range d.Coverage {
		fmt.Fprintf(&b, "  %-14s isolation %+.1f%% density %+.2f utilization %+.1f%%\n",
			c.LayerID, c.Isolation.Change, c.Density.Change, c.Utilization.Change)
	}

	fmt.Fprintf(&b, "\nGaps: %d resolved, %d new, %d persistent (resolution rate %.0f%%)\n",
		len(d.Gaps.Resolved), len(d.Gaps.New), len(d.Gaps.Persistent), d.Gaps.ResolutionRate*100)
	for _, g := range d.Gaps.Resolved {
		fmt.Fprintf(&b, "  resolved: %s -[%s]-> %s\n", g.SourceType, g.Predicate, g.DestinationType)
	}
	for _, g := range d.Gaps.New {
		fmt.Fprintf(&b, "  new:      %s -[%s]-> %s\n", g.SourceType, g.Predicate, g.DestinationType)
	}

	fmt.Fprintf(&b, "\nDuplicates: %d resolved, %d new, %d persistent (elimination rate %.0f%%)\n",
		len(d.Duplicates.Resolved), len(d.Duplicates.New), len(d.Duplicates.Persistent),
		d.Duplicates.EliminationRate*100)

	if len(d.Balance) > 0 {
		b.WriteString("\nBalance transitions\n")
		for _, t := range d.Balance {
			marker := "worsened"
			if t.Improved {
				marker = "improved"
			}
			fmt.Fprintf(&b, "  %-14s %s -> %s (%s)\n", t.TypeID, t.Before, t.After, marker)
		}
	}

	fmt.Fprintf(&b, "\nConnectivity: components %+.0f, isolated %+.0f, avg-degree %+.2f\n",
		d.Connectivity.Components.Change, d.Connectivity.IsolatedNodes.Change,
		d.Connectivity.AverageDegree.Change)
	return b.String()
}
