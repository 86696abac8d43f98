// Package eval resolves the deferred nodes of a merged tree into concrete
// values. Evaluation follows the dependency graph depth first, so a node
// is computed only after everything it reads; the result is a new tree
// with every deferred node replaced in place. Evaluation is all or
// nothing: the first failure aborts with a typed error and no partial
// tree. Evaluating an already concrete tree returns an equal tree.
package eval
