package graph

import "fmt"

// Category classifies a node type for balance assessment and target-range
// lookups.
type Category string

const (
	CategoryStructural  Category = "structural"
	CategoryBehavioral  Category = "behavioral"
	CategoryEnumeration Category = "enumeration"
	CategoryReference   Category = "reference"
)

// Node is a model element. Nodes are immutable for the duration of an audit
// run; the engine never writes back to the model store.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	LayerID  string   `json:"layer_id" yaml:"layer"`
	TypeID   string   `json:"type_id" yaml:"type"`
	Category Category `json:"category" yaml:"category"`
}

// Relationship is a directed, typed edge between two nodes.
//
// TargetID need not resolve to an existing node. Unresolved targets are
// data, surfaced by Index.FindBrokenReferences, not a precondition
// violation.
type Relationship struct {
	ID        string `json:"id" yaml:"id"`
	SourceID  string `json:"source_id" yaml:"source"`
	TargetID  string `json:"target_id" yaml:"target"`
	Predicate string `json:"predicate" yaml:"predicate"`
	LayerPair string `json:"layer_pair,omitempty" yaml:"layer_pair,omitempty"`
	Required  bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Predicate carries catalog metadata for a relationship label. The catalog
// is external read-only lookup data; the engine never derives or rewrites
// it.
type Predicate struct {
	Name           string `json:"name" yaml:"name"`
	Inverse        string `json:"inverse,omitempty" yaml:"inverse,omitempty"`
	Category       string `json:"category" yaml:"category"`
	Directionality string `json:"directionality" yaml:"directionality"`
	Transitive     bool   `json:"transitive,omitempty" yaml:"transitive,omitempty"`
	Symmetric      bool   `json:"symmetric,omitempty" yaml:"symmetric,omitempty"`
}

// PredicateCatalog maps predicate name to its metadata.
type PredicateCatalog map[string]Predicate

// Lookup returns the catalog entry for name. Unknown predicates return a
// zero entry and false; callers treat them as uncategorized rather than
// failing the audit.
func (c PredicateCatalog) Lookup(name string) (Predicate, bool) {
	p, ok := c[name]
	return p, ok
}

// InversePair reports whether a and b are a declared forward/inverse pair.
func (c PredicateCatalog) InversePair(a, b string) bool {
	if pa, ok := c[a]; ok && pa.Inverse == b {
		return true
	}
	if pb, ok := c[b]; ok && pb.Inverse == a {
		return true
	}
	return false
}

// Synonyms reports whether two distinct predicates overlap semantically:
// same category, same directionality, and not a declared inverse pair.
func (c PredicateCatalog) Synonyms(a, b string) bool {
	if a == b {
		return false
	}
	if c.InversePair(a, b) {
		return false
	}
	pa, okA := c[a]
	pb, okB := c[b]
	if !okA || !okB {
		return false
	}
	return pa.Category == pb.Category && pa.Directionality == pb.Directionality
}

// Model is the immutable graph an audit runs over.
type Model struct {
	Name    string
	Version string

	nodes    []Node
	nodeByID map[string]Node
	layers   []string
}

// NewModel builds a model view over the given nodes. Node order is
// preserved; it drives the stable iteration order of every analyzer.
// Duplicate node ids are an ingestion error: the model store guarantees
// unique element ids, so two nodes sharing one means the stream itself is
// corrupt.
func NewModel(name, version string, nodes []Node) (*Model, error) {
	m := &Model{
		Name:     name,
		Version:  version,
		nodes:    make([]Node, len(nodes)),
		nodeByID: make(map[string]Node, len(nodes)),
	}
	copy(m.nodes, nodes)

	seenLayer := make(map[string]bool)
	for _, n := range m.nodes {
		if _, dup := m.nodeByID[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		m.nodeByID[n.ID] = n
		if !seenLayer[n.LayerID] {
			seenLayer[n.LayerID] = true
			m.layers = append(m.layers, n.LayerID)
		}
	}
	return m, nil
}

// Node returns the node with the given id.
func (m *Model) Node(id string) (Node, bool) {
	n, ok := m.nodeByID[id]
	return n, ok
}

// HasNode reports whether id resolves to a node.
func (m *Model) HasNode(id string) bool {
	_, ok := m.nodeByID[id]
	return ok
}

// Nodes returns all nodes in insertion order. The returned slice is shared;
// callers must not modify it.
func (m *Model) Nodes() []Node {
	return m.nodes
}

// Layers returns the distinct layer ids in first-seen order.
func (m *Model) Layers() []string {
	return m.layers
}

// NodeCount returns the number of nodes.
func (m *Model) NodeCount() int {
	return len(m.nodes)
}
