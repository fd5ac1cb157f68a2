package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T, nodes []Node) *Model {
	t.Helper()
	m, err := NewModel("test-model", "1.0.0", nodes)
	require.NoError(t, err)
	return m
}

func TestNewModel_DuplicateNodeID(t *testing.T) {
	_, err := NewModel("m", "1", []Node{
		{ID: "a", LayerID: "business", TypeID: "actor"},
		{ID: "a", LayerID: "business", TypeID: "actor"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node id")
}

func TestModel_LayersFirstSeenOrder(t *testing.T) {
	m := testModel(t, []Node{
		{ID: "g1", LayerID: "motivation", TypeID: "goal"},
		{ID: "a1", LayerID: "business", TypeID: "actor"},
		{ID: "g2", LayerID: "motivation", TypeID: "goal"},
	})
	assert.Equal(t, []string{"motivation", "business"}, m.Layers())
}

func TestIndex_TripleLookup(t *testing.T) {
	m := testModel(t, []Node{
		{ID: "a", LayerID: "app", TypeID: "component"},
		{ID: "b", LayerID: "app", TypeID: "component"},
		{ID: "c", LayerID: "app", TypeID: "service"},
	})
	idx, err := NewIndex(m, []Relationship{
		{ID: "r1", SourceID: "a", TargetID: "b", Predicate: "uses"},
		{ID: "r2", SourceID: "a", TargetID: "c", Predicate: "serves"},
		{ID: "r3", SourceID: "b", TargetID: "c", Predicate: "uses"},
	})
	require.NoError(t, err)

	out := idx.Outgoing("a")
	require.Len(t, out, 2)
	assert.Equal(t, "r1", out[0].ID)
	assert.Equal(t, "r2", out[1].ID)

	in := idx.Incoming("c")
	require.Len(t, in, 2)
	assert.Equal(t, "r2", in[0].ID)

	uses := idx.WithPredicate("uses")
	require.Len(t, uses, 2)
	assert.Equal(t, "r1", uses[0].ID)
	assert.Equal(t, "r3", uses[1].ID)

	assert.Equal(t, 2, idx.Degree("c"))
	assert.Equal(t, 2, idx.Degree("a"))
}

func TestIndex_SyntheticIDs(t *testing.T) {
	m := testModel(t, []Node{{ID: "a", LayerID: "app", TypeID: "t"}})
	idx, err := NewIndex(m, []Relationship{
		{SourceID: "a", TargetID: "a", Predicate: "uses"},
	})
	require.NoError(t, err)
	edges := idx.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, "rel-0001", edges[0].ID)
}

func TestIndex_DuplicateEdgeIDRejected(t *testing.T) {
	m := testModel(t, []Node{{ID: "a", LayerID: "app", TypeID: "t"}})
	idx, err := NewIndex(m, nil)
	require.NoError(t, err)

	require.NoError(t, idx.Add(Relationship{ID: "r1", SourceID: "a", TargetID: "a", Predicate: "uses"}))
	err = idx.Add(Relationship{ID: "r1", SourceID: "a", TargetID: "a", Predicate: "uses"})
	require.Error(t, err)
}

func TestIndex_AddRemoveRoundTrip(t *testing.T) {
	m := testModel(t, []Node{
		{ID: "a", LayerID: "app", TypeID: "t"},
		{ID: "b", LayerID: "app", TypeID: "t"},
	})
	idx, err := NewIndex(m, []Relationship{
		{ID: "r1", SourceID: "a", TargetID: "b", Predicate: "uses"},
	})
	require.NoError(t, err)

	snapshotEdges := idx.Edges()
	snapshotOut := idx.Outgoing("a")
	snapshotPred := idx.WithPredicate("uses")

	require.NoError(t, idx.Add(Relationship{ID: "r2", SourceID: "a", TargetID: "b", Predicate: "serves"}))
	require.NoError(t, idx.Remove("r2"))

	assert.Equal(t, snapshotEdges, idx.Edges())
	assert.Equal(t, snapshotOut, idx.Outgoing("a"))
	assert.Equal(t, snapshotPred, idx.WithPredicate("uses"))
	_, ok := idx.Edge("r2")
	assert.False(t, ok)
	assert.Empty(t, idx.WithPredicate("serves"))
}

func TestIndex_RemoveUnknown(t *testing.T) {
	m := testModel(t, []Node{{ID: "a", LayerID: "app", TypeID: "t"}})
	idx, err := NewIndex(m, nil)
	require.NoError(t, err)
	require.Error(t, idx.Remove("nope"))
}

func TestFindBrokenReferences_ExactSet(t *testing.T) {
	m := testModel(t, []Node{
		{ID: "a", LayerID: "app", TypeID: "t"},
		{ID: "b", LayerID: "app", TypeID: "t"},
	})
	idx, err := NewIndex(m, []Relationship{
		{ID: "r1", SourceID: "a", TargetID: "b", Predicate: "uses"},
		{ID: "r2", SourceID: "a", TargetID: "ghost", Predicate: "uses"},
		{ID: "r3", SourceID: "b", TargetID: "phantom", Predicate: "serves"},
		{ID: "r4", SourceID: "b", TargetID: "a", Predicate: "serves"},
	})
	require.NoError(t, err)

	broken := idx.FindBrokenReferences()
	require.Len(t, broken, 2)
	assert.Equal(t, "r2", broken[0].ID)
	assert.Equal(t, "r3", broken[1].ID)
}

func TestFindBrokenReferences_NoneOnHealthyGraph(t *testing.T) {
	m := testModel(t, []Node{
		{ID: "a", LayerID: "app", TypeID: "t"},
		{ID: "b", LayerID: "app", TypeID: "t"},
	})
	idx, err := NewIndex(m, []Relationship{
		{ID: "r1", SourceID: "a", TargetID: "b", Predicate: "uses"},
	})
	require.NoError(t, err)
	assert.Empty(t, idx.FindBrokenReferences())
}

func TestPredicateCatalog_InverseAndSynonyms(t *testing.T) {
	catalog := PredicateCatalog{
		"realizes":    {Name: "realizes", Inverse: "realized-by", Category: "structural", Directionality: "forward"},
		"realized-by": {Name: "realized-by", Inverse: "realizes", Category: "structural", Directionality: "backward"},
		"serves":      {Name: "serves", Category: "structural", Directionality: "forward"},
		"triggers":    {Name: "triggers", Category: "behavioral", Directionality: "forward"},
	}

	assert.True(t, catalog.InversePair("realizes", "realized-by"))
	assert.True(t, catalog.InversePair("realized-by", "realizes"))
	assert.False(t, catalog.InversePair("realizes", "serves"))

	assert.True(t, catalog.Synonyms("realizes", "serves"), "same category and directionality")
	assert.False(t, catalog.Synonyms("realizes", "realized-by"), "inverse pair is never a synonym")
	assert.False(t, catalog.Synonyms("serves", "triggers"), "different category")
	assert.False(t, catalog.Synonyms("serves", "serves"), "identity is not synonymy")
	assert.False(t, catalog.Synonyms("serves", "unknown"), "uncataloged predicate")
}
