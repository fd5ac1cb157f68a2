// Package audit runs the relationship analyzers and assembles their outputs
// into one immutable report.
//
// Five analyzers compose over the same graph.Index: coverage (per-layer
// isolation, density, predicate utilization), gaps (standard-pattern edges
// missing from the graph), duplicates (redundant edges between the same
// node pair), balance (relationship counts against per-category target
// ranges), and connectivity (undirected components and degree). None of
// them mutates the graph or reads another's output, so their order is
// irrelevant; the assembler runs them sequentially for simplicity.
//
// Catalogs and target ranges arrive as explicit Config values passed to
// each constructor. There is no ambient configuration, so a run is
// reproducible from its inputs alone.
//
// Integrity findings (broken references, cycles) are report data, not
// errors: an audit completes on a malformed graph and says so in the
// report.
package audit
