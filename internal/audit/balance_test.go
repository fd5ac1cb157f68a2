package audit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drkit/draudit/internal/graph"
)

// balanceFixture builds one structural type with exactly count relationship
// endpoints, against the default structural range [2,4].
func balanceFixture(t *testing.T, count int) *graph.Index {
	t.Helper()
	nodes := []graph.Node{
		{ID: "subject", LayerID: "app", TypeID: "component", Category: graph.CategoryStructural},
	}
	var edges []graph.Relationship
	for i := 0; i < count; i++ {
		peer := fmt.Sprintf("peer%d", i)
		nodes = append(nodes, graph.Node{ID: peer, LayerID: "tech", TypeID: "node", Category: graph.CategoryReference})
		edges = append(edges, graph.Relationship{
			ID: fmt.Sprintf("r%d", i), SourceID: "subject", TargetID: peer, Predicate: "uses",
		})
	}
	return buildIndex(t, nodes, edges)
}

func TestBalance_Boundaries(t *testing.T) {
	tests := []struct {
		count int
		want  BalanceStatus
	}{
		{1, StatusUnder},
		{2, StatusBalanced},
		{3, StatusBalanced},
		{4, StatusBalanced},
		{5, StatusOver},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("count=%d", tt.count), func(t *testing.T) {
			out := NewBalanceAssessor(Config{}).Analyze(balanceFixture(t, tt.count))
			require.NotEmpty(t, out)
			assert.Equal(t, "component", out[0].TypeID)
			assert.Equal(t, graph.CategoryStructural, out[0].Category)
			assert.Equal(t, tt.count, out[0].Count)
			assert.Equal(t, 2, out[0].Min)
			assert.Equal(t, 4, out[0].Max)
			assert.Equal(t, tt.want, out[0].Status)
		})
	}
}

func TestBalance_CustomRanges(t *testing.T) {
	cfg := Config{Targets: TargetRanges{graph.CategoryStructural: {Min: 0, Max: 0}}}
	out := NewBalanceAssessor(cfg).Analyze(balanceFixture(t, 1))
	require.Len(t, out, 1, "reference category has no range in the custom table")
	assert.Equal(t, StatusOver, out[0].Status)
}

func TestBalance_UnconfiguredCategorySkipped(t *testing.T) {
	cfg := Config{Targets: TargetRanges{graph.CategoryBehavioral: {Min: 3, Max: 5}}}
	out := NewBalanceAssessor(cfg).Analyze(balanceFixture(t, 2))
	assert.Empty(t, out, "neither structural nor reference is configured")
}
