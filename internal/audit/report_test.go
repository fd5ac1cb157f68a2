package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drkit/draudit/internal/graph"
)

func fixtureConfig() Config {
	return Config{
		Predicates: graph.PredicateCatalog{
			"realizes": {Name: "realizes", Category: "structural", Directionality: "forward"},
			"serves":   {Name: "serves", Category: "structural", Directionality: "forward"},
		},
		Patterns: PatternCatalog{
			{SourceType: "goal", DestType: "requirement", Predicate: "realizes", Required: true},
		},
	}
}

func fixtureIndex(t *testing.T) *graph.Index {
	t.Helper()
	return buildIndex(t, []graph.Node{
		{ID: "g1", LayerID: "motivation", TypeID: "goal", Category: graph.CategoryStructural},
		{ID: "q1", LayerID: "motivation", TypeID: "requirement", Category: graph.CategoryStructural},
		{ID: "c1", LayerID: "application", TypeID: "component", Category: graph.CategoryStructural},
	}, []graph.Relationship{
		{ID: "r1", SourceID: "c1", TargetID: "g1", Predicate: "serves"},
		{ID: "r2", SourceID: "c1", TargetID: "ghost", Predicate: "serves"},
	})
}

func TestAuditor_AssemblesAllSections(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	report := NewAuditor(fixtureConfig()).Run(fixtureIndex(t), now)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, now, report.Timestamp)
	assert.Equal(t, "test-model", report.ModelName)
	assert.Equal(t, "1.0.0", report.ModelVersion)
	assert.Equal(t, []string{"motivation", "application"}, report.Layers)

	require.Len(t, report.Coverage, 2)
	require.Len(t, report.Gaps, 1)
	assert.Equal(t, PriorityHigh, report.Gaps[0].Priority)
	assert.Equal(t, 1, report.HighPriorityGaps())
	require.Len(t, report.Balance, 3)
	require.Len(t, report.Connectivity, 1)

	require.Len(t, report.Integrity.BrokenReferences, 1)
	assert.Equal(t, "r2", report.Integrity.BrokenReferences[0].ID)
	assert.Empty(t, report.Integrity.Cycles)
}

func TestReport_FingerprintIgnoresRunIdentity(t *testing.T) {
	idx := fixtureIndex(t)
	auditor := NewAuditor(fixtureConfig())

	r1 := auditor.Run(idx, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	r2 := auditor.Run(idx, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	require.NotEqual(t, r1.RunID, r2.RunID)

	f1, err := r1.Fingerprint()
	require.NoError(t, err)
	f2, err := r2.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, f1, f2, "same model state fingerprints identically")
}

func TestReport_FingerprintChangesWithContent(t *testing.T) {
	auditor := NewAuditor(fixtureConfig())
	now := time.Now()

	r1 := auditor.Run(fixtureIndex(t), now)

	idx := fixtureIndex(t)
	require.NoError(t, idx.Add(graph.Relationship{ID: "r9", SourceID: "g1", TargetID: "q1", Predicate: "realizes"}))
	r2 := auditor.Run(idx, now)

	f1, err := r1.Fingerprint()
	require.NoError(t, err)
	f2, err := r2.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, f1, f2)
}
