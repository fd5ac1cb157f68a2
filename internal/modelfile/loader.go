// Package modelfile loads the audit inputs from a YAML model file: nodes,
// relationships, the predicate catalog, the standard-pattern catalog, and
// the balance target table.
//
// The loader is the adapter over the external model store. It validates
// shape only (parseable YAML, node ids present); semantic problems like
// unresolved relationship targets are deliberately let through, because the
// audit engine reports them as data.
package modelfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/drkit/draudit/internal/audit"
	"github.com/drkit/draudit/internal/graph"
)

// File mirrors the YAML model file layout.
type File struct {
	Model struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"model"`
	Nodes         []graph.Node           `yaml:"nodes"`
	Relationships []graph.Relationship   `yaml:"relationships"`
	Predicates    []graph.Predicate      `yaml:"predicates"`
	Patterns      audit.PatternCatalog   `yaml:"patterns"`
	Targets       map[string]targetRange `yaml:"targets"`
	GapWeights    map[string]string      `yaml:"gap_weights"`
}

type targetRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Loaded bundles everything an audit run needs.
type Loaded struct {
	Model  *graph.Model
	Index  *graph.Index
	Config audit.Config
}

// Load reads and assembles a model file.
func Load(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return Parse(data)
}

// Parse assembles a model from raw YAML bytes.
func Parse(data []byte) (*Loaded, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse model file: %w", err)
	}
	for i, n := range f.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d has no id", i)
		}
	}

	model, err := graph.NewModel(f.Model.Name, f.Model.Version, f.Nodes)
	if err != nil {
		return nil, err
	}
	index, err := graph.NewIndex(model, f.Relationships)
	if err != nil {
		return nil, err
	}

	cfg := audit.Config{
		Predicates: graph.PredicateCatalog{},
		Patterns:   f.Patterns,
	}
	for _, p := range f.Predicates {
		cfg.Predicates[p.Name] = p
	}
	if len(f.Targets) > 0 {
		cfg.Targets = audit.TargetRanges{}
		for cat, rng := range f.Targets {
			cfg.Targets[graph.Category(cat)] = audit.TargetRange(rng)
		}
	}
	if len(f.GapWeights) > 0 {
		cfg.GapWeights = audit.GapWeights{}
		for cat, p := range f.GapWeights {
			cfg.GapWeights[cat] = audit.Priority(p)
		}
	}

	return &Loaded{Model: model, Index: index, Config: cfg}, nil
}
