// Package graph holds the read-only model view the audit engine runs over:
// nodes, typed directed relationships, and the predicate catalog.
//
// The model is loaded once per audit run and never mutated afterwards. An
// Index triple-indexes the edge set (by source, by target, by predicate)
// and answers the two integrity queries the audit report surfaces as data
// rather than errors: broken references and cycles. A Tracker layers
// transitive queries (closures, impact sets, shortest paths, chain depth)
// on top of the index.
//
// Unresolved edge targets are deliberately legal here. A relationship whose
// target id matches no node is still indexed and still traversable from its
// source; it only shows up in FindBrokenReferences. Rejecting it at
// ingestion would make an audit of a broken model impossible, which is the
// one thing an audit must never be.
//
// All traversals use explicit stacks and queues with visited sets, so
// arbitrarily large or cyclic graphs cannot overflow the call stack.
package graph
