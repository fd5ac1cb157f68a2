package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drkit/draudit/internal/graph"
)

func TestConnectivity_ComponentsAndIsolation(t *testing.T) {
	idx := buildIndex(t, []graph.Node{
		{ID: "a", LayerID: "app", TypeID: "t"},
		{ID: "b", LayerID: "app", TypeID: "t"},
		{ID: "c", LayerID: "app", TypeID: "t"},
		{ID: "lone", LayerID: "app", TypeID: "t"},
	}, []graph.Relationship{
		{ID: "r1", SourceID: "a", TargetID: "b", Predicate: "uses"},
		{ID: "r2", SourceID: "c", TargetID: "b", Predicate: "uses"}, // direction ignored
	})

	out := NewConnectivityAnalyzer().Analyze(idx)
	require.Len(t, out, 1)

	m := out[0]
	assert.Equal(t, "model", m.Scope)
	assert.Equal(t, 2, m.Components)
	assert.Equal(t, 1, m.IsolatedNodes)
	assert.Equal(t, 3, m.LargestComponent)
	assert.InDelta(t, 1.0, m.AverageDegree, 1e-9) // 2*2/4
}

func TestConnectivity_BrokenEdgeJoinsNothing(t *testing.T) {
	idx := buildIndex(t, []graph.Node{
		{ID: "a", LayerID: "app", TypeID: "t"},
		{ID: "b", LayerID: "app", TypeID: "t"},
	}, []graph.Relationship{
		{ID: "r1", SourceID: "a", TargetID: "ghost", Predicate: "uses"},
	})

	out := NewConnectivityAnalyzer().Analyze(idx)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Components)
	assert.Equal(t, 2, out[0].IsolatedNodes)
	assert.InDelta(t, 0.0, out[0].AverageDegree, 1e-9)
}

func TestConnectivity_EmptyModel(t *testing.T) {
	idx := buildIndex(t, nil, nil)
	out := NewConnectivityAnalyzer().Analyze(idx)
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].Components)
}
