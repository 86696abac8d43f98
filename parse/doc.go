// Package parse is the tree source provider: it turns YAML document
// streams into strata ir trees, recognizing the strata tag vocabulary
// (!weak, !force, !del, !merge, !replace, !append, !extend, !include,
// !required, !ref, !path, !fstr, !expr, !dyn:NAME, !move:KPATH, !meta,
// !patch) and mapping each tag onto the node model's priority, merge mode,
// relocation, metadata and deferred-tag fields.
//
// The merge engine and the evaluator never see raw text; they consume the
// trees produced here.
package parse
