package graph

import "fmt"

// Index triple-indexes the relationship set by source id, target id, and
// predicate. Each index maps to edge ids in insertion order, so lookups are
// O(1) average and every query that walks an index is deterministic.
type Index struct {
	model *Model

	order    []string // edge ids, insertion order
	edgeByID map[string]Relationship

	bySource    map[string][]string
	byTarget    map[string][]string
	byPredicate map[string][]string
}

// NewIndex builds a relationship index over the model's edge set. Edges with
// an empty id are assigned a stable synthetic one from their ordinal, so
// duplicate detection can always reference concrete edge ids.
func NewIndex(m *Model, edges []Relationship) (*Index, error) {
	idx := &Index{
		model:       m,
		edgeByID:    make(map[string]Relationship, len(edges)),
		bySource:    make(map[string][]string),
		byTarget:    make(map[string][]string),
		byPredicate: make(map[string][]string),
	}
	for i, e := range edges {
		if e.ID == "" {
			e.ID = fmt.Sprintf("rel-%04d", i+1)
		}
		if err := idx.Add(e); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Model returns the node view this index was built over.
func (idx *Index) Model() *Model {
	return idx.model
}

// Add inserts an edge into all three indices. Duplicate edge ids are
// rejected; two edges with identical endpoints and predicate are legal
// (that is exactly what the duplicate detector looks for).
func (idx *Index) Add(e Relationship) error {
	if e.ID == "" {
		return fmt.Errorf("relationship %s -> %s has no id", e.SourceID, e.TargetID)
	}
	if _, dup := idx.edgeByID[e.ID]; dup {
		return fmt.Errorf("duplicate relationship id %q", e.ID)
	}
	idx.edgeByID[e.ID] = e
	idx.order = append(idx.order, e.ID)
	idx.bySource[e.SourceID] = append(idx.bySource[e.SourceID], e.ID)
	idx.byTarget[e.TargetID] = append(idx.byTarget[e.TargetID], e.ID)
	idx.byPredicate[e.Predicate] = append(idx.byPredicate[e.Predicate], e.ID)
	return nil
}

// Remove deletes an edge from all three indices. Removing an edge that was
// just added restores every index to its pre-add state.
func (idx *Index) Remove(id string) error {
	e, ok := idx.edgeByID[id]
	if !ok {
		return fmt.Errorf("relationship %q not indexed", id)
	}
	delete(idx.edgeByID, id)
	idx.order = removeID(idx.order, id)

	idx.bySource[e.SourceID] = removeID(idx.bySource[e.SourceID], id)
	if len(idx.bySource[e.SourceID]) == 0 {
		delete(idx.bySource, e.SourceID)
	}
	idx.byTarget[e.TargetID] = removeID(idx.byTarget[e.TargetID], id)
	if len(idx.byTarget[e.TargetID]) == 0 {
		delete(idx.byTarget, e.TargetID)
	}
	idx.byPredicate[e.Predicate] = removeID(idx.byPredicate[e.Predicate], id)
	if len(idx.byPredicate[e.Predicate]) == 0 {
		delete(idx.byPredicate, e.Predicate)
	}
	return nil
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// Edge returns the indexed edge with the given id.
func (idx *Index) Edge(id string) (Relationship, bool) {
	e, ok := idx.edgeByID[id]
	return e, ok
}

// Edges returns all edges in insertion order.
func (idx *Index) Edges() []Relationship {
	out := make([]Relationship, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, idx.edgeByID[id])
	}
	return out
}

// EdgeCount returns the number of indexed edges.
func (idx *Index) EdgeCount() int {
	return len(idx.order)
}

// Outgoing returns the edges whose source is id, in insertion order.
func (idx *Index) Outgoing(id string) []Relationship {
	return idx.resolve(idx.bySource[id])
}

// Incoming returns the edges whose target is id, in insertion order.
func (idx *Index) Incoming(id string) []Relationship {
	return idx.resolve(idx.byTarget[id])
}

// WithPredicate returns the edges carrying the given predicate, in
// insertion order.
func (idx *Index) WithPredicate(p string) []Relationship {
	return idx.resolve(idx.byPredicate[p])
}

func (idx *Index) resolve(ids []string) []Relationship {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Relationship, 0, len(ids))
	for _, id := range ids {
		out = append(out, idx.edgeByID[id])
	}
	return out
}

// Degree returns the total in+out edge count for a node id.
func (idx *Index) Degree(id string) int {
	return len(idx.bySource[id]) + len(idx.byTarget[id])
}

// FindBrokenReferences returns, in insertion order, exactly the edges whose
// target id does not resolve to a node. A broken reference is report data,
// never an indexing failure.
func (idx *Index) FindBrokenReferences() []Relationship {
	var broken []Relationship
	for _, id := range idx.order {
		e := idx.edgeByID[id]
		if !idx.model.HasNode(e.TargetID) {
			broken = append(broken, e)
		}
	}
	return broken
}
