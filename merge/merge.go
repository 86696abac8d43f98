package merge

import (
	"github.com/strata-config/go-strata/debug"
	"github.com/strata-config/go-strata/ir"
)

// Merge folds trees left to right with Two, applying relocations after
// each pairwise pass. The result is a new tree; the inputs are untouched.
// Deletion markers that found nothing to delete survive in the result so
// that a partial merge can still delete from an earlier base; call
// StripMarkers on the final tree before handing it to evaluation.
func Merge(trees []*ir.Node) (*ir.Node, error) {
	if len(trees) == 0 {
		return ir.Null(), nil
	}
	acc := trees[0].Clone()
	acc, err := applyRelocations(acc)
	if err != nil {
		return nil, err
	}
	for _, in := range trees[1:] {
		acc, err = Two(acc, in)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = ir.Null()
		}
		acc, err = applyRelocations(acc)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Two merges incoming into base and returns the combined node, or nil when
// the merge deletes the value. Either argument may be nil for absence.
// Neither input is mutated.
func Two(base, in *ir.Node) (*ir.Node, error) {
	return two(base, in)
}

func two(base, in *ir.Node) (*ir.Node, error) {
	if in == nil {
		if base == nil {
			return nil, nil
		}
		return base.Clone(), nil
	}
	if debug.Merge() {
		bp := "<absent>"
		if base != nil {
			bp = base.KPath()
		}
		debug.Logf("merge: %s <- %s\n", bp, in.KPath())
	}
	if in.Mode == ir.Delete {
		if base != nil && base.Priority == ir.Forced && !in.Priority.Over(base.Priority, true) {
			return base.Clone(), nil
		}
		if base == nil {
			// nothing to delete yet, keep the marker for earlier bases
			return in.Clone(), nil
		}
		return nil, nil
	}
	if base == nil || base.Mode == ir.Delete {
		return in.Clone(), nil
	}
	if in.Tag == ir.TagPatch {
		return applyPatch(base, in)
	}

	if base.Type == ir.ObjectType && in.Type == ir.ObjectType &&
		(base.EffectiveMode() == ir.Deep || in.EffectiveMode() == ir.Deep) {
		return mergeObjects(base, in)
	}

	if base.Type == ir.ArrayType && in.Type == ir.ArrayType && in.EffectiveMode() == ir.Append {
		if base.Priority.Over(in.Priority, false) {
			return base.Clone(), nil
		}
		return appendArrays(base, in), nil
	}

	switch in.EffectiveMode() {
	case ir.Replace, ir.Deep, ir.Append:
		// deep onto a non-mapping and append onto a non-sequence fall
		// back to replacement
		if base.Priority.Over(in.Priority, false) {
			return base.Clone(), nil
		}
		return in.Clone(), nil
	default:
		return nil, &TypeConflictError{
			Path: in.KPath(),
			Base: base.Type,
			In:   in.Type,
			Mode: in.Mode,
		}
	}
}

// mergeObjects combines two mappings key by key. Base keys keep their
// order; keys only the incoming side has are appended in its order.
func mergeObjects(base, in *ir.Node) (*ir.Node, error) {
	res := &ir.Node{Type: ir.ObjectType}
	for i, f := range base.Fields {
		iv := ir.Get(in, f.String)
		m, err := two(base.Values[i], iv)
		if err != nil {
			return nil, err
		}
		if m != nil {
			ir.Set(res, f.String, m)
		}
	}
	for i, f := range in.Fields {
		if ir.Get(base, f.String) != nil {
			continue
		}
		m, err := two(nil, in.Values[i])
		if err != nil {
			return nil, err
		}
		if m != nil {
			ir.Set(res, f.String, m)
		}
	}
	winner := base
	if in.Priority.Over(base.Priority, true) {
		winner = in
	}
	res.Priority = winner.Priority
	res.Mode = winner.Mode
	res.Tag = winner.Tag
	res.Origin = winner.Origin
	res.Meta = ir.MergeMeta(base.Meta, in.Meta)
	res.Relocate = in.Relocate
	if res.Relocate == "" {
		res.Relocate = base.Relocate
	}
	return res, nil
}

// appendArrays concatenates base then incoming. The result keeps the
// base's mode so an appended pair still appends onto an earlier base.
func appendArrays(base, in *ir.Node) *ir.Node {
	res := &ir.Node{Type: ir.ArrayType}
	for _, v := range base.Values {
		res.Values = append(res.Values, v.Clone())
	}
	for _, v := range in.Values {
		res.Values = append(res.Values, v.Clone())
	}
	for i, v := range res.Values {
		v.Parent = res
		v.ParentIndex = i
	}
	res.Mode = base.Mode
	res.Priority = base.Priority
	if in.Priority.Over(base.Priority, true) {
		res.Priority = in.Priority
	}
	res.Origin = in.Origin
	res.Meta = ir.MergeMeta(base.Meta, in.Meta)
	res.Relocate = in.Relocate
	if res.Relocate == "" {
		res.Relocate = base.Relocate
	}
	return res
}

// StripMarkers removes deletion markers that survived the fold because no
// earlier source had a value at their path. It mutates tree in place and
// returns nil when the root itself is a marker.
func StripMarkers(tree *ir.Node) *ir.Node {
	if tree == nil || tree.Mode == ir.Delete {
		return nil
	}
	switch tree.Type {
	case ir.ObjectType:
		for i := len(tree.Values) - 1; i >= 0; i-- {
			if StripMarkers(tree.Values[i]) == nil {
				ir.Remove(tree, tree.Fields[i].String)
			}
		}
	case ir.ArrayType:
		for i := len(tree.Values) - 1; i >= 0; i-- {
			if StripMarkers(tree.Values[i]) == nil {
				ir.RemoveAt(tree, i)
			}
		}
	}
	return tree
}
