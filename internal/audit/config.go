package audit

import "github.com/drkit/draudit/internal/graph"

// StandardPattern is one catalog triple: an edge the modeling guidelines
// expect between two node types.
type StandardPattern struct {
	SourceType string `json:"source_type" yaml:"source_type"`
	DestType   string `json:"dest_type" yaml:"dest_type"`
	Predicate  string `json:"predicate" yaml:"predicate"`
	Required   bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// PatternCatalog is the external standard-pattern catalog, in declaration
// order.
type PatternCatalog []StandardPattern

// TargetRange bounds the expected relationship count for a node category.
type TargetRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// TargetRanges maps node category to its configured target range.
type TargetRanges map[graph.Category]TargetRange

// DefaultTargetRanges returns the stock per-category ranges used when the
// model ships no target table of its own.
func DefaultTargetRanges() TargetRanges {
	return TargetRanges{
		graph.CategoryStructural:  {Min: 2, Max: 4},
		graph.CategoryBehavioral:  {Min: 3, Max: 5},
		graph.CategoryEnumeration: {Min: 1, Max: 2},
		graph.CategoryReference:   {Min: 0, Max: 1},
	}
}

// GapWeights maps a predicate's catalog category to the priority of a
// non-required gap on that predicate. Required gaps are always high.
type GapWeights map[string]Priority

// DefaultGapWeights treats structural gaps as medium and everything else as
// low.
func DefaultGapWeights() GapWeights {
	return GapWeights{"structural": PriorityMedium}
}

// Config bundles the external read-only inputs every analyzer needs. A
// Config is immutable once handed to an analyzer.
type Config struct {
	Predicates graph.PredicateCatalog
	Patterns   PatternCatalog
	Targets    TargetRanges
	GapWeights GapWeights
}

// withDefaults fills absent tables so analyzers never nil-check config.
func (c Config) withDefaults() Config {
	if c.Predicates == nil {
		c.Predicates = graph.PredicateCatalog{}
	}
	if c.Targets == nil {
		c.Targets = DefaultTargetRanges()
	}
	if c.GapWeights == nil {
		c.GapWeights = DefaultGapWeights()
	}
	return c
}
