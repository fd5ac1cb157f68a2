package format

import (
	"fmt"
	"strings"

	"github.com/drkit/draudit/internal/audit"
	"github.com/drkit/draudit/internal/diff"
)

// ReportToMarkdown renders an audit report as a Markdown document.
func ReportToMarkdown(r *audit.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Relationship Audit: %s %s\n\n", r.ModelName, r.ModelVersion)
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Timestamp: %s\n", r.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Layers: %s\n", strings.Join(r.Layers, ", "))

	b.WriteString("\n## Coverage\n\n")
	b.WriteString("| Layer | Types | Isolated | Isolation | Density |\n")
	b.WriteString("|-------|------:|---------:|----------:|--------:|\n")
	for _, c := range r.Coverage {
		fmt.Fprintf(&b, "| %s | %d | %d | %.1f%% | %.2f |\n",
			c.LayerID, c.TotalTypes, c.IsolatedTypes, c.IsolationPct, c.Density)
	}

	fmt.Fprintf(&b, "\n## Gaps (%d)\n\n", len(r.Gaps))
	if len(r.Gaps) > 0 {
		b.WriteString("| Priority | Source | Predicate | Destination |\n")
		b.WriteString("|----------|--------|-----------|-------------|\n")
		for _, g := range r.Gaps {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				g.Priority, g.SourceType, g.Predicate, g.DestinationType)
		}
	} else {
		b.WriteString("No gaps against the standard-pattern catalog.\n")
	}

	fmt.Fprintf(&b, "\n## Duplicates (%d)\n\n", len(r.Duplicates))
	for _, d := range r.Duplicates {
		fmt.Fprintf(&b, "- `%s` / `%s` (%s)\n", d.RelationshipIDs[0], d.RelationshipIDs[1], d.Reason)
	}

	b.WriteString("\n## Balance\n\n")
	b.WriteString("| Type | Category | Count | Target | Status |\n")
	b.WriteString("|------|----------|------:|--------|--------|\n")
	for _, a := range r.Balance {
		fmt.Fprintf(&b, "| %s | %s | %d | %d-%d | %s |\n",
			a.TypeID, a.Category, a.Count, a.Min, a.Max, a.Status)
	}

	b.WriteString("\n## Connectivity\n\n")
	for _, c := range r.Connectivity {
		fmt.Fprintf(&b, "- %s: %d components, %d isolated nodes, largest %d, average degree %.2f\n",
			c.Scope, c.Components, c.IsolatedNodes, c.LargestComponent, c.AverageDegree)
	}

	if len(r.Integrity.BrokenReferences) > 0 || len(r.Integrity.Cycles) > 0 {
		b.WriteString("\n## Integrity\n\n")
		for _, e := range r.Integrity.BrokenReferences {
			fmt.Fprintf(&b, "- broken reference: `%s` -[%s]-> `%s`\n", e.SourceID, e.Predicate, e.TargetID)
		}
		for _, cycle := range r.Integrity.Cycles {
			fmt.Fprintf(&b, "- cycle: %s\n", strings.Join(cycle, " → "))
		}
	}
	return b.String()
}

// DiffToMarkdown renders a differential result as a Markdown document.
func DiffToMarkdown(d *diff.Result) string {
	var b strings.Builder
	if !d.HasBaseline {
		fmt.Fprintf(&b, "# Differential Audit: %s\n\nNo baseline snapshot available.\n", d.AfterID)
		return b.String()
	}
	fmt.Fprintf(&b, "# Differential Audit: %s → %s\n", d.BeforeID, d.AfterID)

	b.WriteString("\n## Coverage\n\n")
	b.WriteString("| Layer | Isolation Δ | Density Δ | Utilization Δ |\n")
	b.WriteString("|-------|------------:|----------:|--------------:|\n")
	for _, c := range d.Coverage {
		fmt.Fprintf(&b, "| %s | %+.1f%% | %+.2f | %+.1f%% |\n",
			c.LayerID, c.Isolation.Change, c.Density.Change, c.Utilization.Change)
	}

	fmt.Fprintf(&b, "\n## Gaps\n\nResolved %d, new %d, persistent %d — resolution rate %.0f%%.\n",
		len(d.Gaps.Resolved), len(d.Gaps.New), len(d.Gaps.Persistent), d.Gaps.ResolutionRate*100)

	fmt.Fprintf(&b, "\n## Duplicates\n\nResolved %d, new %d, persistent %d — elimination rate %.0f%%.\n",
		len(d.Duplicates.Resolved), len(d.Duplicates.New), len(d.Duplicates.Persistent),
		d.Duplicates.EliminationRate*100)

	if len(d.Balance) > 0 {
		b.WriteString("\n## Balance transitions\n\n")
		for _, t := range d.Balance {
			marker := "worsened"
			if t.Improved {
				marker = "improved"
			}
			fmt.Fprintf(&b, "- %s: %s → %s (%s)\n", t.TypeID, t.Before, t.After, marker)
		}
	}

	fmt.Fprintf(&b, "\n## Connectivity\n\nComponents %+.0f, isolated nodes %+.0f, average degree %+.2f.\n",
		d.Connectivity.Components.Change, d.Connectivity.IsolatedNodes.Change,
		d.Connectivity.AverageDegree.Change)
	return b.String()
}
