// Package ir contains the strata configuration tree representation.
//
// Every value read from a source document becomes a *Node. A node is either
// a scalar (null, bool, number, string), an ordered sequence, or an ordered
// mapping with unique string keys. On top of its value, a node carries the
// directives that drive composition: a tag (open registry, see tags.go), a
// merge priority (weak/default/forced), a merge mode (replace, deep, append,
// delete), an optional relocation target, an opaque metadata payload and
// source provenance.
//
// Nodes are plain data. The merge engine and the evaluator never mutate
// their inputs; they work on clones (see Clone) and produce new trees.
package ir
