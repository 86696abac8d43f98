// Package refgraph builds the dependency graph over a merged tree's
// deferred nodes. Each deferred node becomes a graph vertex keyed by its
// kinded path; edges point at the paths the node must read before it can
// produce a value. The evaluator walks this graph depth first; the graph
// also answers ordering and cycle questions on its own for tooling.
package refgraph
