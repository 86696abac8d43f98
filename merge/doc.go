// Package merge folds an ordered list of configuration trees into one.
//
// Sources merge strictly left to right. A pairwise merge of base <- incoming
// resolves each path by priority (weak < default < forced, later source wins
// ties) and merge mode: mappings deep-merge by default, sequences and
// scalars replace, !append concatenates, !del removes (unless the base is
// forced), !patch applies an RFC 6902 patch to the base, and !move splices
// the merged node to its target path at the end of the pass. Inputs are
// never mutated; every merge produces a new tree.
//
// Grouping is associative: merging [A,B] and then C equals merging
// [A,B,C]. Order is not: deletion markers and priorities make the fold
// direction observable.
package merge
